package help

import (
	"fmt"
	"strings"
)

// row is one line of an aligned two-column table.
type row struct{ left, right string }

// writeTable writes rows indented by two spaces with the right column
// aligned three spaces past the widest left cell.
func writeTable(b *strings.Builder, rows []row) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.left))
	}
	for _, r := range rows {
		fmt.Fprintf(b, "  %-*s   %s\n", width, r.left, r.right)
	}
}

// FormatTerminal renders a subcommand's help text for terminal --help output.
func FormatTerminal(c Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mls %s: %s\n\nUsage: %s\n", c.Name, c.Synopsis, c.Usage)

	if len(c.Args)+len(c.Flags) > 0 {
		var rows []row
		for _, a := range c.Args {
			rows = append(rows, row{a.Name, a.Desc})
		}
		for _, f := range c.Flags {
			rows = append(rows, row{f.Name, f.Desc})
		}
		b.WriteString("\nOptions:\n")
		writeTable(&b, rows)
	}

	if c.Description != "" {
		b.WriteString("\n" + c.Description + "\n")
	}

	if len(c.Examples) > 0 {
		b.WriteString("\nExamples:\n")
		for _, e := range c.Examples {
			b.WriteString("  " + e + "\n")
		}
	}
	return b.String()
}

// FormatUsage renders the top-level usage text (for mls --help / mls help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mls v%s: %s\n\nUsage:\n", Version, top.Synopsis)

	rows := make([]row, 0, len(subs)+1)
	for _, s := range subs {
		rows = append(rows, row{s.tableUsage(), s.Brief})
	}
	writeTable(&b, append(rows, row{"mls help", "Show this help"}))

	b.WriteString(`
Host integration: pipe a JSON request to "mls hook".

Configuration: ~/.config/mlsummary/config.toml
`)
	return b.String()
}
