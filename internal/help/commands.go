package help

import "strings"

// Version is the mls release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--git" or "--note <file>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string // e.g. "path" or "field"
	Desc     string
	Optional bool
}

// Command describes an mls subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "init", "concept", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line, e.g. "mls init [path] [--git]"
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "mls(1)"
}

// tableUsage returns TableUsage if set, otherwise Usage.
func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "mls" for top-level, "mls-<name>" for subs.
// Spaces in Name are replaced with hyphens (e.g. "settings set" → "mls-settings-set").
func (c Command) ManName() string {
	if c.Name == "" {
		return "mls"
	}
	return "mls-" + strings.ReplaceAll(c.Name, " ", "-")
}

// Leaf returns the last word of Name, the word cobra dispatches on.
func (c Command) Leaf() string {
	if i := strings.LastIndexByte(c.Name, ' '); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// TopLevel is the top-level mls command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "generated concept notes for Obsidian",
}

var CmdInit = Command{
	Name:     "init",
	Synopsis: "create a new Obsidian vault for concept notes",
	Brief:    "Create a new vault (default: ./ml-notes)",
	Usage:    "mls init [path] [--git]",
	Args: []Arg{
		{Name: "path", Desc: "Target directory (default: ./ml-notes)", Optional: true},
	},
	Flags: []Flag{
		{Name: "--git", Desc: "Initialize a git repository in the new vault"},
	},
	Description: `Creates an Obsidian vault with the standard folder layout, default
plugin settings in .obsidian/plugins/mlsummary/data.json, and the
plugin enabled. Also writes a default config to
~/.config/mlsummary/config.toml pointing at the new vault.`,
	Examples: []string{
		"mls init                       Create ./ml-notes",
		"mls init ~/obsidian/ml-notes   Create at a specific path",
		"mls init --git                 Create with git repo initialized",
	},
	SeeAlso: []string{"mls(1)", "mls-folders(1)", "mls-check(1)"},
}

var CmdFolders = Command{
	Name:     "folders",
	Synopsis: "create the standard vault folders",
	Brief:    "Initialize Notes Folders",
	Usage:    "mls folders",
	Description: `Creates Topics, Notes, Notes/Read, Concepts, Attachments, Files and
Files/PDFs in the configured vault. Folders that already exist are
left alone, and a folder that cannot be created does not stop the
others. Prints nothing.`,
	SeeAlso: []string{"mls(1)", "mls-init(1)"},
}

var CmdConcept = Command{
	Name:       "concept",
	Synopsis:   "create a concept note from selected text",
	Brief:      "New concept from selected text",
	Usage:      "mls concept [--note <file> --select <text>]",
	TableUsage: "mls concept [--note <file> ...]",
	Flags: []Flag{
		{Name: "--note <file>", Desc: "Note to edit, relative to the vault or absolute"},
		{Name: "--select <text>", Desc: "Text to select in the note (first occurrence)"},
	},
	Description: `Turns the selected text into a link and writes a generated
explanation to Concepts/<title>.md. The title is the selection with
< > : " / \ | ? * removed and surrounding whitespace trimmed.

Without --note, mls reads the selection from stdin and prints the
replacement link to stdout, so it can be used as an editor filter.
With --note, the first occurrence of --select inside the note is
replaced on disk.

Notices are printed to stderr. The link is inserted before the
model answers and is kept if generation fails; see
mls links --dangling.`,
	Examples: []string{
		`echo "Gradient Descent" | mls concept`,
		`mls concept --note Notes/reading.md --select "Adam"`,
	},
	SeeAlso: []string{"mls(1)", "mls-settings(1)", "mls-links(1)"},
}

var CmdSettings = Command{
	Name:       "settings",
	Synopsis:   "show or change the plugin settings",
	Brief:      "Show or change plugin settings",
	Usage:      "mls settings [get <field> | set <field> <value> | edit]",
	TableUsage: "mls settings [get | set | edit]",
	Description: `Without a subcommand, prints every setting. The API key is masked.

Fields:
  api-key                 OpenAI API key
  concept-prompt          Label used in the prompt ("ML")
  pdf-folder              Folder of source PDFs
  summary-output-folder   Folder for summaries

Settings are stored in .obsidian/plugins/mlsummary/data.json inside
the vault.`,
	SeeAlso: []string{"mls(1)", "mls-settings-get(1)", "mls-settings-set(1)", "mls-settings-edit(1)"},
}

var CmdSettingsGet = Command{
	Name:     "settings get",
	Synopsis: "print one setting",
	Brief:    "Print one setting",
	Usage:    "mls settings get <field>",
	Args: []Arg{
		{Name: "field", Desc: "Setting name (see mls settings --help)"},
	},
	Description: `Prints the stored value, unmasked.`,
	SeeAlso:     []string{"mls-settings(1)"},
}

var CmdSettingsSet = Command{
	Name:     "settings set",
	Synopsis: "change one setting",
	Brief:    "Change one setting",
	Usage:    "mls settings set <field> <value>",
	Args: []Arg{
		{Name: "field", Desc: "Setting name (see mls settings --help)"},
		{Name: "value", Desc: "New value, stored as given"},
	},
	Description: `Saves the full settings record immediately. No validation is done
on the value.`,
	Examples: []string{
		"mls settings set api-key sk-...",
		"mls settings set concept-prompt Statistics",
	},
	SeeAlso: []string{"mls-settings(1)"},
}

var CmdSettingsEdit = Command{
	Name:     "settings edit",
	Synopsis: "interactive settings panel",
	Brief:    "Open the settings panel",
	Usage:    "mls settings edit",
	Description: `Opens a terminal panel with the API key and concept prompt fields.
Every keystroke is saved. Changes made to data.json by another
program while the panel is open are shown. Press tab to switch
fields and esc to close.`,
	SeeAlso: []string{"mls-settings(1)"},
}

var CmdHook = Command{
	Name:       "hook",
	Synopsis:   "run a plugin command from a JSON request",
	Brief:      "Host mode (reads a JSON request on stdin)",
	Usage:      "mls hook [install | uninstall]",
	TableUsage: "mls hook [install | ...]",
	Description: `Reads one JSON request from stdin and writes a JSON response to
stdout. Meant to be called by a host shim, not directly.

Request:
  {"command": "create-new-concept-from-selected",
   "selection": "Gradient Descent",
   "note_path": "Notes/reading.md"}

Response:
  {"command": "...", "replacement": "[[Gradient Descent]]",
   "notices": [...], "status": "LLM Ready"}

Commands: init-llm-summary-folders, create-new-concept-from-selected.
A failed command still exits 0 and sets "error" in the response.

Subcommands:
  mls hook install     Enable the plugin in the vault
  mls hook uninstall   Disable the plugin in the vault`,
	SeeAlso: []string{"mls(1)", "mls-hook-install(1)", "mls-hook-uninstall(1)"},
}

var CmdHookInstall = Command{
	Name:     "hook install",
	Synopsis: "enable the plugin in the vault",
	Brief:    "Enable the plugin in the vault",
	Usage:    "mls hook install",
	Description: `Writes the plugin manifest to
.obsidian/plugins/mlsummary/manifest.json and adds mlsummary to
.obsidian/community-plugins.json. Other enabled plugins are kept. A
backup is saved to community-plugins.json.mls.bak before any
modification.

This command is idempotent: running it when the plugin is already
enabled prints an informational message and exits successfully.`,
	SeeAlso: []string{"mls(1)", "mls-hook(1)", "mls-hook-uninstall(1)", "mls-check(1)"},
}

var CmdHookUninstall = Command{
	Name:     "hook uninstall",
	Synopsis: "disable the plugin in the vault",
	Brief:    "Disable the plugin in the vault",
	Usage:    "mls hook uninstall",
	Description: `Removes mlsummary from .obsidian/community-plugins.json. The plugin
folder and its settings are kept. A backup is saved to
community-plugins.json.mls.bak before any modification.

This command is idempotent.`,
	SeeAlso: []string{"mls(1)", "mls-hook(1)", "mls-hook-install(1)"},
}

var CmdList = Command{
	Name:     "list",
	Synopsis: "list recorded concept runs",
	Brief:    "List recorded concept runs",
	Usage:    "mls list [-n <count>] [--json]",
	Flags: []Flag{
		{Name: "-n <count>", Desc: "Show at most count runs (default 20, 0 for all)"},
		{Name: "--json", Desc: "Print JSON instead of a table"},
	},
	Description: `Prints the concept ledger, newest first: time, status, title and,
for failed runs, the error message.`,
	SeeAlso: []string{"mls(1)", "mls-rebuild(1)"},
}

var CmdRebuild = Command{
	Name:     "rebuild",
	Synopsis: "record existing concept notes in the ledger",
	Brief:    "Rebuild the ledger from Concepts/",
	Usage:    "mls rebuild",
	Description: `Scans Concepts/ for generated notes (those starting with the
"This is a ... Concept." line) and adds the ones the ledger does
not know yet. Files starting with an underscore are skipped.`,
	SeeAlso: []string{"mls(1)", "mls-list(1)"},
}

var CmdStats = Command{
	Name:     "stats",
	Synopsis: "summarize the concept ledger",
	Brief:    "Show concept run statistics",
	Usage:    "mls stats [--label <label>]",
	Flags: []Flag{
		{Name: "--label <label>", Desc: "Only count runs made with this prompt label"},
	},
	Description: `Prints totals, success rate, and per-label, per-model and
per-month breakdowns of the runs in the ledger, plus the most common
failure messages.`,
	Examples: []string{
		"mls stats              All runs",
		"mls stats --label ML   Runs made with the ML label",
	},
	SeeAlso: []string{"mls(1)", "mls-list(1)"},
}

var CmdLinks = Command{
	Name:     "links",
	Synopsis: "find links to missing notes",
	Brief:    "Find dangling concept links",
	Usage:    "mls links --dangling [--all]",
	Flags: []Flag{
		{Name: "--dangling", Desc: "List links whose target note does not exist"},
		{Name: "--all", Desc: "Include links with a folder part and links inside Concepts/"},
	},
	Description: `A failed concept run leaves its [[link]] in place. This lists such
links as note<TAB>target, one per line.`,
	SeeAlso: []string{"mls(1)", "mls-concept(1)"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config, vault and plugin setup",
	Brief:    "Validate config, vault, and plugin setup",
	Usage:    "mls check",
	Description: `Checks the config file, the vault directory, .obsidian/, whether the
plugin is enabled, data.json, the API key, Concepts/, the ledger and
dangling links. Exits 1 if any check fails.`,
	SeeAlso: []string{"mls(1)"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "mls version",
	SeeAlso:  []string{"mls(1)"},
}

// HookSubcommands is the ordered list of hook sub-subcommands.
var HookSubcommands = []Command{
	CmdHookInstall,
	CmdHookUninstall,
}

// SettingsSubcommands is the ordered list of settings sub-subcommands.
var SettingsSubcommands = []Command{
	CmdSettingsGet,
	CmdSettingsSet,
	CmdSettingsEdit,
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdInit,
	CmdFolders,
	CmdConcept,
	CmdSettings,
	CmdHook,
	CmdList,
	CmdRebuild,
	CmdStats,
	CmdLinks,
	CmdCheck,
	CmdVersion,
}
