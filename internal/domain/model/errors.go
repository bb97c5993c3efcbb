package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingElement is the single fault kind of a capture or toggle: a field
	// or panel looked up by its fixed id does not exist.
	ErrMissingElement = errors.New("missing element")

	// ErrUnknownForm indicates a form name that is neither signup nor login.
	ErrUnknownForm = errors.New("unknown form")

	// ErrUnknownPanel indicates a panel name that is neither sign-up nor login.
	ErrUnknownPanel = errors.New("unknown panel")
)

// MissingElementError names the element that could not be found.
// It matches ErrMissingElement under errors.Is.
type MissingElementError struct {
	ID string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("missing element %q", e.ID)
}

// Unwrap lets errors.Is(err, ErrMissingElement) succeed.
func (e *MissingElementError) Unwrap() error {
	return ErrMissingElement
}
