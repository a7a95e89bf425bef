package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const ansiReset = "\x1b[0m"

// WriteText writes the frame as lines of text, one per row. With a
// non-empty palette each colored run is wrapped in 24-bit ANSI escapes.
func (fb *Framebuffer) WriteText(w io.Writer, pal Palette) error {
	bw := bufio.NewWriter(w)
	for y := range fb.Height {
		current := -1
		colored := false
		for x := range fb.Width {
			c := fb.At(x, y)
			if len(pal) > 0 && c.Material != current {
				if colored {
					bw.WriteString(ansiReset)
					colored = false
				}
				if r, g, b, ok := pal.rgb(c.Material); ok {
					fmt.Fprintf(bw, "\x1b[38;2;%d;%d;%dm", r, g, b)
					colored = true
				}
				current = c.Material
			}
			bw.WriteRune(c.Glyph)
		}
		if colored {
			bw.WriteString(ansiReset)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// String returns the frame as plain text.
func (fb *Framebuffer) String() string {
	var sb strings.Builder
	_ = fb.WriteText(&sb, nil)
	return sb.String()
}
