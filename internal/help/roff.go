package help

import (
	"fmt"
	"strings"
	"time"
)

const manual = "ML Summary Manual"

// manPage accumulates roff source one section at a time.
type manPage struct {
	b strings.Builder
}

func newManPage(title, date string) *manPage {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	p := &manPage{}
	fmt.Fprintf(&p.b, ".TH %s 1 %q %q %q\n", title, date, "mls "+Version, manual)
	return p
}

func (p *manPage) section(name string) {
	p.b.WriteString(".SH " + name + "\n")
}

func (p *manPage) raw(s string) {
	p.b.WriteString(s)
}

// tagged writes a .TP entry with a bold term.
func (p *manPage) tagged(term, desc string) {
	fmt.Fprintf(&p.b, ".TP\n.B %s\n%s\n", term, escapeRoff(desc))
}

// paragraphs writes multi-line text; blank lines become .PP breaks.
func (p *manPage) paragraphs(text string) {
	prevBlank := false
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				p.b.WriteString(".PP\n")
			}
			prevBlank = true
			continue
		}
		prevBlank = false
		p.b.WriteString(escapeRoff(line) + "\n")
	}
}

// literal writes lines in no-fill mode.
func (p *manPage) literal(lines []string) {
	p.b.WriteString(".nf\n")
	for _, l := range lines {
		p.b.WriteString(escapeRoff(l) + "\n")
	}
	p.b.WriteString(".fi\n")
}

func (p *manPage) seeAlso(refs []string) {
	if len(refs) == 0 {
		return
	}
	p.section("SEE ALSO")
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = formatManRef(ref)
	}
	p.b.WriteString(strings.Join(out, ",\n") + "\n")
}

func (p *manPage) String() string {
	return p.b.String()
}

// FormatRoff renders a subcommand as a roff-formatted man page (.1).
// If date is empty, today's date is used (pass a fixed date for reproducible builds).
func FormatRoff(c Command, date string) string {
	p := newManPage(strings.ToUpper(c.ManName()), date)

	p.section("NAME")
	p.raw(fmt.Sprintf("%s \\- %s\n", c.ManName(), escapeRoff(c.Synopsis)))

	p.section("SYNOPSIS")
	p.raw(".B " + escapeRoff(c.Usage) + "\n")

	if c.Description != "" {
		p.section("DESCRIPTION")
		p.paragraphs(c.Description)
	}

	if len(c.Args) > 0 || len(c.Flags) > 0 {
		p.section("OPTIONS")
		for _, a := range c.Args {
			p.tagged(escapeRoff(a.Name), a.Desc)
		}
		for _, f := range c.Flags {
			p.tagged(escapeRoff(f.Name), f.Desc)
		}
	}

	if len(c.Examples) > 0 {
		p.section("EXAMPLES")
		p.literal(c.Examples)
	}

	p.seeAlso(c.SeeAlso)
	return p.String()
}

// FormatRoffTopLevel renders the top-level mls.1 man page with a COMMANDS section.
func FormatRoffTopLevel(top Command, subs []Command, date string) string {
	p := newManPage("MLS", date)

	p.section("NAME")
	p.raw(fmt.Sprintf("mls \\- %s\n", escapeRoff(top.Synopsis)))

	p.section("SYNOPSIS")
	p.raw(".B mls\n.I command\n.RI [ options ]\n")

	p.section("DESCRIPTION")
	p.raw(".B mls\n")
	p.paragraphs(`(ML Summary) turns selected text in Obsidian notes into links to
generated concept notes, written by an OpenAI-compatible chat model
to the vault's Concepts folder.`)

	p.section("COMMANDS")
	for _, s := range subs {
		p.tagged(`"`+escapeRoff(s.tableUsage())+`"`, s.Brief)
	}

	p.section("CONFIGURATION")
	p.paragraphs(`Machine settings (vault path, model, endpoint, logging) are read
from config.toml. Per-vault plugin settings (API key, concept prompt
label, folders) are read from the plugin's data.json.`)

	p.section("FILES")
	p.tagged("~/.config/mlsummary/config.toml", "Configuration file.")
	p.tagged("<vault>/.obsidian/plugins/mlsummary/data.json", "Plugin settings.")
	p.tagged("<vault>/.mlsummary/concepts.db", "Ledger of concept runs.")
	p.tagged("<vault>/.mlsummary/responses/", "Compressed raw model responses.")

	p.section("ENVIRONMENT")
	p.tagged("XDG_CONFIG_HOME", "When set, config.toml is read from $XDG_CONFIG_HOME/mlsummary/.")

	refs := make([]string, len(subs))
	for i, s := range subs {
		refs[i] = s.ManName() + "(1)"
	}
	p.seeAlso(refs)
	return p.String()
}

// escapeRoff escapes characters that have special meaning in roff:
// backslashes, leading dots, and hyphens (rendered as minus signs).
func escapeRoff(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = "\\&" + s
	}
	return strings.ReplaceAll(s, "-", "\\-")
}

// formatManRef turns "mls-init(1)" into ".BR mls-init (1)".
func formatManRef(ref string) string {
	if i := strings.Index(ref, "("); i >= 0 {
		return fmt.Sprintf(".BR %s %s", escapeRoff(ref[:i]), ref[i:])
	}
	return ".B " + escapeRoff(ref)
}
