package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw copies the framebuffer onto the screen area, one cell per
// character. Cells whose material has a palette entry get it as their
// foreground color.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle, pal Palette) {
	for row := area.Min.Y; row < area.Max.Y && row-area.Min.Y < fb.Height; row++ {
		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			c := fb.At(col-area.Min.X, row-area.Min.Y)
			cell := &uv.Cell{
				Content: string(c.Glyph),
				Width:   1,
				Style:   uv.Style{Fg: pal.Color(c.Material)},
			}
			scr.SetCell(col, row, cell)
		}
	}
}
