package render

import (
	"fmt"
	"path"
)

// ConceptNote renders the body of a generated concept note. The generated
// text is written as received, after exactly one blank line.
func ConceptNote(productName, generated string) string {
	return fmt.Sprintf("%s\n\n%s", Marker(productName), generated)
}

// Marker is the first line of every generated concept note.
func Marker(productName string) string {
	return fmt.Sprintf("This is a %s Concept.", productName)
}

// WikiLink returns an Obsidian link to the note named title.
func WikiLink(title string) string {
	return "[[" + title + "]]"
}

// NoteRelPath returns the vault-relative, slash-separated path of the note
// named title inside folder.
func NoteRelPath(folder, title string) string {
	return path.Join(folder, title+".md")
}

// NoteDisplayPath is NoteRelPath without the .md extension, as shown to the user.
func NoteDisplayPath(folder, title string) string {
	return path.Join(folder, title)
}
