// Package provider defines the capability the view model depends on to get
// posts, plus the two implementations wired by the composition root: Remote
// (one HTTP GET) and Static (an in-memory list).
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/idilsaglam/posts/internal/model"
)

// Provider returns an ordered sequence of posts.
//
// Implementations must not re-order what their source returns. A nil error
// with an empty slice is a valid result.
type Provider interface {
	FetchPosts(ctx context.Context) ([]model.Post, error)
}

// Error kinds. Match with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
	ErrDecoding      = errors.New("decoding error")
)

// Error is the concrete error returned by providers.
type Error struct {
	Kind       error  // one of ErrConfiguration, ErrTransport, ErrDecoding
	Op         string // "new" or "fetch"
	URL        string
	StatusCode int // set for non-success responses
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("provider %s", e.Op)
	if e.URL != "" {
		msg += " " + e.URL
	}
	msg += ": " + e.Kind.Error()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
