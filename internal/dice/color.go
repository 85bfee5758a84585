package dice

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NamedColor is one entry of the color picker palette.
type NamedColor struct {
	Name string
	Hex  string
}

// Palette lists the colors offered for recoloring dice.
var Palette = []NamedColor{
	{"Red", "#c0392b"},
	{"Blue", "#2980b9"},
	{"Green", "#27ae60"},
	{"Purple", "#8e44ad"},
	{"Orange", "#d35400"},
	{"Gold", "#c49b1a"},
	{"Pink", "#e84393"},
	{"Teal", "#00b894"},
	{"Slate", "#636e72"},
	{"Crimson", "#e74c3c"},
	{"Indigo", "#4834d4"},
	{"Lime", "#6ab04c"},
}

// LookupColor resolves a palette name (case-insensitive) or a hex string.
func LookupColor(s string) (color.RGBA, error) {
	for _, c := range Palette {
		if strings.EqualFold(c.Name, strings.TrimSpace(s)) {
			return ParseHexColor(c.Hex)
		}
	}
	return ParseHexColor(s)
}
