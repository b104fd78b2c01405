package resolver

import (
	"context"
	"errors"
)

// transferError signals a failed pull from the remote content source.
// It aborts resolution; metadata faults never do.
type transferError struct {
	adapter string
	err     error
}

func (e *transferError) Error() string { return "adapter transfer failed: " + e.adapter + ": " + e.err.Error() }

func (e *transferError) Unwrap() error { return e.err }

// ErrTransfer constructs a transferError for the given adapter reference.
func ErrTransfer(adapter string, cause error) error {
	return &transferError{adapter: adapter, err: cause}
}

// IsTransfer reports whether err indicates a failed adapter transfer,
// including fetch timeouts.
func IsTransfer(err error) bool {
	var te *transferError
	return errors.As(err, &te)
}

// IsFetchTimeout reports whether a transfer failed because the fetch
// deadline elapsed.
func IsFetchTimeout(err error) bool {
	return IsTransfer(err) && errors.Is(err, context.DeadlineExceeded)
}
