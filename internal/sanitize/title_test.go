package sanitize

import "testing"

func TestTitle_NoReservedChars(t *testing.T) {
	input := "Gradient Descent"
	got := Title(input)
	if got != input {
		t.Errorf("Title(%q) = %q, want unchanged", input, got)
	}
}

func TestTitle_StripsEachReservedChar(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"less-than", "a<b", "ab"},
		{"greater-than", "a>b", "ab"},
		{"colon", "Note: Attention", "Note Attention"},
		{"double-quote", `"quoted"`, "quoted"},
		{"slash", "input/output", "inputoutput"},
		{"backslash", `C:\path`, "Cpath"},
		{"pipe", "a|b", "ab"},
		{"question", "Why?", "Why"},
		{"star", "A*", "A"},
		{"all", `<>:"/\|?*`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.input); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitle_TrimsWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Backprop  ", "Backprop"},
		{"\tKL divergence\n", "KL divergence"},
		// Trimming happens after removal, so a reserved char can expose padding.
		{"? Softmax ?", "Softmax"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Title(tt.input); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTitle_OnlyReservedIsEmpty(t *testing.T) {
	if got := Title("///???"); got != "" {
		t.Errorf("Title(///???) = %q, want empty", got)
	}
}

func TestTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"Gradient Descent",
		"  a:b/c  ",
		"///???",
		"< spaced > name ",
		"x * y | z",
		"",
		"über: naïve?",
	}
	for _, in := range inputs {
		once := Title(in)
		twice := Title(once)
		if once != twice {
			t.Errorf("Title not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\n\t", true},
		{"x", false},
		{" ? ", false},
	}
	for _, tt := range tests {
		if got := IsBlank(tt.input); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
