package generator

import "fmt"

// GenerationError is any failure talking to the completion endpoint:
// transport, authentication, rate limiting or a malformed reply. Error()
// is the underlying message as the user should see it.
type GenerationError struct {
	StatusCode int // 0 when no HTTP response was received
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func statusError(status int, apiMsg string) *GenerationError {
	msg := fmt.Sprintf("%d status code (no body)", status)
	if apiMsg != "" {
		msg = fmt.Sprintf("%d %s", status, apiMsg)
	}
	return &GenerationError{StatusCode: status, Message: msg}
}
