package host

import (
	"fmt"
	"strings"
)

// Buffer is an in-memory Editor over a text with one selection range.
type Buffer struct {
	text       string
	start, end int
}

// NewBuffer returns a buffer with the whole text selected.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text, end: len(text)}
}

// Select sets the selection to the byte range [start, end).
func (b *Buffer) Select(start, end int) error {
	if start < 0 || end < start || end > len(b.text) {
		return fmt.Errorf("selection %d:%d out of range (len %d)", start, end, len(b.text))
	}
	b.start, b.end = start, end
	return nil
}

// SelectFirst selects the first occurrence of sub. It reports false and
// leaves an empty selection when sub does not occur.
func (b *Buffer) SelectFirst(sub string) bool {
	i := strings.Index(b.text, sub)
	if sub == "" || i < 0 {
		b.start, b.end = 0, 0
		return false
	}
	b.start, b.end = i, i+len(sub)
	return true
}

func (b *Buffer) Selection() string {
	return b.text[b.start:b.end]
}

// ReplaceSelection swaps the selected range for text and collapses the
// selection to the end of the inserted text.
func (b *Buffer) ReplaceSelection(text string) {
	b.text = b.text[:b.start] + text + b.text[b.end:]
	b.start += len(text)
	b.end = b.start
}

// Text returns the full buffer contents.
func (b *Buffer) Text() string {
	return b.text
}
