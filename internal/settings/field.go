package settings

import (
	"fmt"
	"sort"
)

// Field names a user-editable setting.
type Field string

const (
	FieldAPIKey              Field = "api-key"
	FieldConceptPromptLabel  Field = "concept-prompt"
	FieldPDFFolder           Field = "pdf-folder"
	FieldSummaryOutputFolder Field = "summary-output-folder"
)

var fieldAccess = map[Field]struct {
	get func(Settings) string
	set func(*Settings, string)
}{
	FieldAPIKey: {
		func(s Settings) string { return s.APIKey },
		func(s *Settings, v string) { s.APIKey = v },
	},
	FieldConceptPromptLabel: {
		func(s Settings) string { return s.ConceptPromptLabel },
		func(s *Settings, v string) { s.ConceptPromptLabel = v },
	},
	FieldPDFFolder: {
		func(s Settings) string { return s.PDFFolder },
		func(s *Settings, v string) { s.PDFFolder = v },
	},
	FieldSummaryOutputFolder: {
		func(s Settings) string { return s.SummaryOutputFolder },
		func(s *Settings, v string) { s.SummaryOutputFolder = v },
	},
}

// Fields returns every field name, sorted.
func Fields() []Field {
	out := make([]Field, 0, len(fieldAccess))
	for f := range fieldAccess {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Get returns the value of field f.
func (s Settings) Get(f Field) (string, error) {
	acc, ok := fieldAccess[f]
	if !ok {
		return "", fmt.Errorf("unknown setting: %s", f)
	}
	return acc.get(s), nil
}

// Set assigns value to field f. No validation beyond the field name.
func (s *Settings) Set(f Field, value string) error {
	acc, ok := fieldAccess[f]
	if !ok {
		return fmt.Errorf("unknown setting: %s", f)
	}
	acc.set(s, value)
	return nil
}
