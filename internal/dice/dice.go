// Package dice defines the six supported die shapes and their value rules.
package dice

import (
	"fmt"
	"image/color"
	"strings"
)

// Type identifies one of the six die shapes. The numeric value is the face count.
type Type int

// Supported die types.
const (
	D4  Type = 4
	D6  Type = 6
	D8  Type = 8
	D10 Type = 10
	D12 Type = 12
	D20 Type = 20
)

// Types lists every supported type in ascending face count.
var Types = []Type{D4, D6, D8, D10, D12, D20}

// String returns the type token, e.g. "d20".
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return fmt.Sprintf("d%d", int(t))
}

// Valid reports whether t is one of the supported types.
func (t Type) Valid() bool {
	switch t {
	case D4, D6, D8, D10, D12, D20:
		return true
	}
	return false
}

// Parse converts a token such as "d6" or "D20" into a Type.
func Parse(token string) (Type, error) {
	s := strings.ToLower(strings.TrimSpace(token))
	for _, t := range Types {
		if s == t.String() {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDieType, token)
}

// Descriptor holds the immutable per-type construction and value parameters.
type Descriptor struct {
	Type      Type
	FaceCount int

	// Values maps face index to value when the numbering is a fixed
	// permutation. Nil means index + Offset.
	Values []int
	Offset int

	// InvertResult marks the shape whose result is the face touching the
	// ground rather than the face pointing up.
	InvertResult bool

	// Radius is the nominal size: circumscribed radius, or half-extent for d6.
	Radius float64

	Color     color.RGBA
	TextColor color.RGBA
}

// Value returns the number printed on the given face.
func (d Descriptor) Value(face int) int {
	if d.Values != nil {
		return d.Values[face]
	}
	return face + d.Offset
}

// Labels returns the value of every face in face order.
func (d Descriptor) Labels() []int {
	out := make([]int, d.FaceCount)
	for i := range out {
		out[i] = d.Value(i)
	}
	return out
}

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

var descriptors = map[Type]Descriptor{
	D4: {
		Type: D4, FaceCount: 4, Offset: 1, InvertResult: true,
		Radius: 1.0,
		Color:  color.RGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}, TextColor: white,
	},
	D6: {
		// Box groups are +X, -X, +Y, -Y, +Z, -Z; opposite faces sum to 7.
		Type: D6, FaceCount: 6, Values: []int{1, 6, 2, 5, 3, 4},
		Radius: 0.8 * 0.8,
		Color:  color.RGBA{R: 0x29, G: 0x80, B: 0xb9, A: 0xff}, TextColor: white,
	},
	D8: {
		Type: D8, FaceCount: 8, Offset: 1,
		Radius: 0.9,
		Color:  color.RGBA{R: 0x27, G: 0xae, B: 0x60, A: 0xff}, TextColor: white,
	},
	D10: {
		// Labelled 0-9.
		Type: D10, FaceCount: 10, Offset: 0,
		Radius: 0.9 * 0.85,
		Color:  color.RGBA{R: 0x8e, G: 0x44, B: 0xad, A: 0xff}, TextColor: white,
	},
	D12: {
		Type: D12, FaceCount: 12, Offset: 1,
		Radius: 0.85,
		Color:  color.RGBA{R: 0xd3, G: 0x54, B: 0x00, A: 0xff}, TextColor: white,
	},
	D20: {
		Type: D20, FaceCount: 20, Offset: 1,
		Radius: 0.9,
		Color:  color.RGBA{R: 0xc4, G: 0x9b, B: 0x1a, A: 0xff}, TextColor: white,
	},
}

// Lookup returns the descriptor for t.
func Lookup(t Type) (Descriptor, error) {
	d, ok := descriptors[t]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrUnknownDieType, t)
	}
	return d, nil
}

// MustLookup is like Lookup but panics on an unknown type.
// Use it only where t has already been validated.
func MustLookup(t Type) Descriptor {
	d, err := Lookup(t)
	if err != nil {
		panic(err)
	}
	return d
}

// DefaultColor is used for types without a color.
var DefaultColor = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}

// Color returns the base color of t, or DefaultColor for unknown types.
func Color(t Type) color.RGBA {
	if d, ok := descriptors[t]; ok {
		return d.Color
	}
	return DefaultColor
}
