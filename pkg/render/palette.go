package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette maps material indices to foreground colors.
type Palette []colorful.Color

// NewPalette builds a palette from diffuse RGB triples in the 0-1 range.
// Components outside that range are clamped.
func NewPalette(diffuse [][3]float64) Palette {
	if len(diffuse) == 0 {
		return nil
	}
	p := make(Palette, len(diffuse))
	for i, d := range diffuse {
		p[i] = colorful.Color{R: d[0], G: d[1], B: d[2]}.Clamped()
	}
	return p
}

// Color returns the color of material mat, or nil when the material has
// none so the terminal default is used.
func (p Palette) Color(mat int) color.Color {
	if mat < 0 || mat >= len(p) {
		return nil
	}
	return p[mat]
}

// rgb returns the 8-bit components of material mat.
func (p Palette) rgb(mat int) (r, g, b uint8, ok bool) {
	if mat < 0 || mat >= len(p) {
		return 0, 0, 0, false
	}
	r, g, b = p[mat].RGB255()
	return r, g, b, true
}
