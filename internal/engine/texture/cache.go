package texture

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/model"
)

type key struct {
	t      dice.Type
	face   int
	bg, fg color.RGBA
	size   int
}

var (
	cacheMu sync.Mutex
	cache   = map[key]*image.RGBA{}
)

// Face returns the cached texture for one face of t in its default colors.
func Face(t dice.Type, face int) (*image.RGBA, error) {
	d, err := dice.Lookup(t)
	if err != nil {
		return nil, err
	}
	return FaceStyled(t, face, Style{Size: DefaultSize, Background: d.Color, Foreground: d.TextColor})
}

// FaceStyled returns the cached texture for one face of t drawn with style.
// Returned images are shared and must not be modified.
func FaceStyled(t dice.Type, face int, style Style) (*image.RGBA, error) {
	if style.Size <= 0 {
		style.Size = DefaultSize
	}
	m, err := model.Get(t)
	if err != nil {
		return nil, err
	}
	if face < 0 || face >= len(m.Faces) {
		return nil, fmt.Errorf("%v has no face %d", t, face)
	}

	k := key{t: t, face: face, bg: style.Background, fg: style.Foreground, size: style.Size}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if img, ok := cache[k]; ok {
		return img, nil
	}
	img, err := Render(m.Faces[face].Numerals, style)
	if err != nil {
		return nil, fmt.Errorf("rendering %v face %d: %w", t, face, err)
	}
	cache[k] = img
	return img, nil
}

// Faces returns every face texture of t in face order.
func Faces(t dice.Type, style Style) ([]*image.RGBA, error) {
	m, err := model.Get(t)
	if err != nil {
		return nil, err
	}
	out := make([]*image.RGBA, len(m.Faces))
	for i := range m.Faces {
		if out[i], err = FaceStyled(t, i, style); err != nil {
			return nil, err
		}
	}
	return out, nil
}
