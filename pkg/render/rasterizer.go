package render

import (
	"github.com/taigrr/glyphmesh/pkg/math3d"
)

// flatNormalZ stands in for a zero plane normal Z so depth stays finite
// for triangles seen edge-on.
const flatNormalZ = 1e-4

// Rasterizer fills a framebuffer with depth-tested glyph triangles.
type Rasterizer struct {
	fb    *Framebuffer
	stage *Stage

	Stats RenderStats // Statistics for debugging/benchmarking
}

// RenderStats counts triangles since the last ResetStats.
type RenderStats struct {
	TrianglesTested int // Triangles submitted
	TrianglesCulled int // Back-facing or zero-area triangles
	TrianglesDrawn  int // Triangles that passed culling
	CellsWritten    int // Cells that won the depth test
}

// NewRasterizer creates a rasterizer drawing into fb. stage may be nil
// when only DrawTriangle is used.
func NewRasterizer(fb *Framebuffer, stage *Stage) *Rasterizer {
	return &Rasterizer{fb: fb, stage: stage}
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// SetFramebuffer retargets the rasterizer, e.g. after a terminal resize.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
}

// Stage returns the transform stage used by DrawMesh.
func (r *Rasterizer) Stage() *Stage {
	return r.stage
}

// ResetStats resets the statistics (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = RenderStats{}
}

// Clear clears the framebuffer.
func (r *Rasterizer) Clear() {
	r.fb.Clear()
}

// DrawTriangle rasterizes a screen triangle column by column. Triangles
// that do not wind clockwise on screen are culled. A cell is overwritten
// only when the interpolated depth at its center is strictly nearer than
// what it holds. Samples beyond the grid clamp to the edge cells.
// Reports whether the triangle passed culling.
func (r *Rasterizer) DrawTriangle(tri ScreenTriangle, glyph rune, material int) bool {
	fb := r.fb
	r.Stats.TrianglesTested++

	p := tri.P
	if (p[1].X-p[0].X)*(p[2].Y-p[1].Y) >= (p[2].X-p[1].X)*(p[1].Y-p[0].Y) {
		r.Stats.TrianglesCulled++
		return false
	}
	r.Stats.TrianglesDrawn++

	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Normalize()
	if n.Z == 0 {
		n.Z = flatNormalZ
	}

	sortByX(&p)
	dx, dy := fb.dx, fb.dy
	xStart := fb.idxX(p[0].X + dx/2)
	xEnd := fb.idxX(p[2].X - dx/2)

	for xx := xStart; xx <= xEnd; xx++ {
		x := (float64(xx) + 0.5) * dx

		var y1 float64
		if x <= p[1].X {
			y1 = edgeY(p[0], p[1], x)
		} else {
			y1 = edgeY(p[1], p[2], x)
		}
		y2 := edgeY(p[0], p[2], x)

		yStart := fb.idxY(min(y1, y2) + dy/2)
		yEnd := fb.idxY(max(y1, y2) - dy/2)

		col := fb.Cells[xx:]
		for yy := yStart; yy <= yEnd; yy++ {
			y := (float64(yy) + 0.5) * dy
			depth := p[0].Z - (n.X*(x-p[0].X)+n.Y*(y-p[0].Y))/n.Z

			c := &col[yy*fb.Width]
			if depth < c.Depth {
				*c = Cell{Depth: depth, Glyph: glyph, Material: material}
				r.Stats.CellsWritten++
			}
		}
	}
	return true
}

// sortByX orders the vertices by ascending x, keeping ties in input order.
func sortByX(p *[3]math3d.Vec3) {
	if p[1].X < p[0].X {
		p[0], p[1] = p[1], p[0]
	}
	if p[2].X < p[1].X {
		p[1], p[2] = p[2], p[1]
		if p[1].X < p[0].X {
			p[0], p[1] = p[1], p[0]
		}
	}
}

// edgeY returns the y of segment a-b at x. Vertical segments yield a.Y.
func edgeY(a, b math3d.Vec3, x float64) float64 {
	if a.X == b.X {
		return a.Y
	}
	return a.Y + (b.Y-a.Y)*(x-a.X)/(b.X-a.X)
}

// MeshRenderer is implemented by models.Mesh; declared here to avoid an
// import cycle.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) math3d.Vec3
	GetFace(i int) [3]int
	GetFaceMaterial(i int) int
}

// DrawMesh transforms every face of mesh by o and rasterizes it. Faces
// are independent; the depth test makes the result independent of order
// except where two faces meet a cell at exactly the same depth.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, o Orientation) {
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		tri := [3]math3d.Vec3{mesh.GetVertex(f[0]), mesh.GetVertex(f[1]), mesh.GetVertex(f[2])}
		st, glyph := r.stage.Transform(tri, o)
		r.DrawTriangle(st, glyph, mesh.GetFaceMaterial(i))
	}
}
