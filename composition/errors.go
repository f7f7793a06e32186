package composition

import "errors"

// Sentinel errors returned by composition constructors and lookups.
var (
	// ErrUnknownElement indicates an element id or symbol outside the element table.
	ErrUnknownElement = errors.New("composition: unknown element")

	// ErrInvalidAmount indicates a negative, NaN or ±Inf amount.
	ErrInvalidAmount = errors.New("composition: amount must be finite and non-negative")

	// ErrEmpty indicates that no strictly positive amount remained after canonicalization.
	ErrEmpty = errors.New("composition: empty composition")

	// ErrMalformed indicates a formula string that Parse cannot read.
	ErrMalformed = errors.New("composition: malformed formula")
)
