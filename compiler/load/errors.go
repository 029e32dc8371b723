package load

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadFailed is returned when cards cannot be read from a source.
	ErrLoadFailed = errors.New("cardgraph/load: loading cards failed")

	// ErrInvalidCard is returned when a card fails validation.
	ErrInvalidCard = errors.New("cardgraph/load: invalid card")
)

// LoadError reports a source document that could not be read or decoded.
type LoadError struct {
	// Path of the document, or another description of the origin.
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("cardgraph/load: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLoadFailed.
func (e *LoadError) Is(target error) bool { return target == ErrLoadFailed }

// CardError reports a card rejected by validation.
type CardError struct {
	Origin  string
	Slug    string
	Version string
	Reason  string
	Cause   error
}

// Error implements the error interface.
func (e *CardError) Error() string {
	msg := fmt.Sprintf("cardgraph/load: card %s@%s (%s): %s", e.Slug, e.Version, e.Origin, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CardError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrInvalidCard.
func (e *CardError) Is(target error) bool { return target == ErrInvalidCard }

// IsLoadError reports whether err is a *LoadError.
func IsLoadError(err error) bool {
	var e *LoadError
	return errors.As(err, &e)
}

// IsCardError reports whether err is a *CardError.
func IsCardError(err error) bool {
	var e *CardError
	return errors.As(err, &e)
}
