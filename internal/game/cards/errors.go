package cards

import (
	"errors"
	"fmt"
)

// ErrMalformedCardData is returned when a card definition cannot be interpreted.
var ErrMalformedCardData = errors.New("malformed card data")

// ValidationError describes a single problem in a card definition.
type ValidationError struct {
	Card   string
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: card %q: %s", ErrMalformedCardData, e.Card, e.Reason)
	}
	return fmt.Sprintf("%s: card %q at %s: %s", ErrMalformedCardData, e.Card, e.Path, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedCardData.
func (e *ValidationError) Unwrap() error {
	return ErrMalformedCardData
}
