package tray

import "errors"

var (
	// ErrUnknownInstance is returned for an ID that is not on the tray.
	ErrUnknownInstance = errors.New("unknown die instance")
	// ErrNothingToThrow is returned when a throw selects no dice.
	ErrNothingToThrow = errors.New("no dice to throw")
)
