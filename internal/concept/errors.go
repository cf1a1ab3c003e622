package concept

import "errors"

var (
	ErrEmptySelection  = errors.New("no text selected")
	ErrInvalidFileName = errors.New("selected text is not valid for a file name")
)

// FileCreationError is returned when the vault refuses the new note, for
// example because a note with that title already exists.
type FileCreationError struct {
	Path string
	Err  error
}

// Error is the vault's own message, which is what the user is shown.
func (e *FileCreationError) Error() string {
	return e.Err.Error()
}

func (e *FileCreationError) Unwrap() error {
	return e.Err
}
