package posts

import (
	"errors"
	"fmt"
)

// FailureMessage is what users see for any failed fetch. Transport errors,
// bad statuses and malformed bodies are not told apart on screen.
const FailureMessage = "Failed to fetch posts"

// ErrBadStatus is wrapped by FetchError when the server answered with a
// non-2xx status.
var ErrBadStatus = errors.New("unexpected status")

// FetchError is the single error kind produced by Client.FetchPage.
type FetchError struct {
	Page       int
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch posts page %d (status %d): %v", e.Page, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch posts page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Message returns the user-facing text for the failure.
func (e *FetchError) Message() string { return FailureMessage }

// MessageFor maps any error to the text shown in the error view.
func MessageFor(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return FailureMessage
}
