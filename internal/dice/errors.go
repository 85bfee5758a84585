package dice

import "errors"

// ErrUnknownDieType is returned when a type token or value is not one of the six shapes.
var ErrUnknownDieType = errors.New("unknown die type")

// ErrDegenerateFace indicates a face whose vertices are collinear or coincident.
// It is a geometry construction bug, not an input error.
var ErrDegenerateFace = errors.New("degenerate face")

// ErrInvalidPool indicates malformed dice pool notation.
var ErrInvalidPool = errors.New("invalid dice pool")
