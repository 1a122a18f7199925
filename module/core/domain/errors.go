package domain

import "errors"

var (
	// ErrNotFound is returned by stores when an id lookup matches nothing.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when an alert lifecycle operation
	// targets a terminal or incompatible state.
	ErrInvalidTransition = errors.New("invalid alert state transition")
)
