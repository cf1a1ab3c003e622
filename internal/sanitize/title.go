package sanitize

import (
	"regexp"
	"strings"
)

// Characters most filesystems (and Obsidian) refuse in a file name.
var reservedPattern = regexp.MustCompile(`[<>:"/\\|?*]`)

// Title turns a selected text fragment into a note file name by removing
// reserved characters and trimming surrounding whitespace. An empty result
// means the selection cannot name a note. Title(Title(s)) == Title(s).
func Title(text string) string {
	return strings.TrimSpace(reservedPattern.ReplaceAllString(text, ""))
}

// IsBlank reports whether text has no non-whitespace content.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
