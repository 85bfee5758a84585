// Package texture rasterizes die face textures: numerals, optionally
// rotated, on a solid background.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/dicetray/internal/engine/model"
)

// DefaultSize is the edge length of a face texture in pixels.
const DefaultSize = 128

// Style controls how a face texture is drawn.
type Style struct {
	Size       int
	Background color.RGBA
	Foreground color.RGBA
}

var (
	fontOnce  sync.Once
	fontData  *opentype.Font
	fontErr   error
	facesMu   sync.Mutex
	facesByPx = map[int]font.Face{}
)

func boldFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		fontData, fontErr = opentype.Parse(gobold.TTF)
	})
	return fontData, fontErr
}

// faceFor returns a font face whose em size is px pixels.
func faceFor(px int) (font.Face, error) {
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := facesByPx[px]; ok {
		return f, nil
	}
	fnt, err := boldFont()
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %dpx face: %w", px, err)
	}
	facesByPx[px] = f
	return f, nil
}

// Render draws the numerals of one face onto a new square image.
func Render(numerals []model.Numeral, style Style) (*image.RGBA, error) {
	size := style.Size
	if size <= 0 {
		size = DefaultSize
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)

	for _, n := range numerals {
		label, err := label(strconv.Itoa(n.Value), int(math.Round(n.Size*float64(size))), style.Foreground)
		if err != nil {
			return nil, err
		}
		place(img, label, n.Center[0]*float64(size), n.Center[1]*float64(size), n.Angle)
	}
	return img, nil
}

// label renders text on a transparent image sized to its em box, with the
// text centered horizontally and the baseline at the ascent.
func label(text string, px int, fg color.RGBA) (*image.RGBA, error) {
	if px < 1 {
		px = 1
	}
	face, err := faceFor(px)
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	if w < 1 || h < 1 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: m.Ascent},
	}
	d.DrawString(text)
	return img, nil
}

// place composites src centered at (cx, cy) on dst, rotated clockwise by
// angle radians.
func place(dst *image.RGBA, src *image.RGBA, cx, cy, angle float64) {
	b := src.Bounds()
	hw, hh := float64(b.Dx())/2, float64(b.Dy())/2
	sin, cos := math.Sincos(angle)

	// Image rows grow downward, so this matrix turns clockwise on screen.
	s2d := f64.Aff3{
		cos, -sin, cx - (cos*hw - sin*hh),
		sin, cos, cy - (sin*hw + cos*hh),
	}
	xdraw.BiLinear.Transform(dst, s2d, src, b, xdraw.Over, nil)
}
