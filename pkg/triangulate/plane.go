package triangulate

import (
	"math"

	"github.com/taigrr/glyphmesh/pkg/math3d"
)

// newellNormal returns the area-weighted normal of a ring. Its length is
// twice the ring's area, and it stays well defined when the first few
// points happen to be colinear.
func newellNormal(pts []math3d.Vec3) math3d.Vec3 {
	var n math3d.Vec3
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// project maps a planar 3D ring into its own 2D frame. The x axis follows
// the first non-zero edge and the y axis is normal × x. It reports false
// when the ring has no usable plane.
func project(pts []math3d.Vec3) ([]math3d.Vec2, bool) {
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo, hi = lo.Min(p), hi.Max(p)
	}
	diag := hi.Sub(lo).Len()

	normal := newellNormal(pts)
	if diag == 0 || normal.Len() <= degenerateTolerance*diag*diag || math.IsNaN(normal.Len()) {
		return nil, false
	}
	normal = normal.Normalize()

	var xAxis math3d.Vec3
	for i, p := range pts {
		edge := pts[(i+1)%len(pts)].Sub(p)
		if edge.LenSq() > 0 {
			xAxis = edge.Normalize()
			break
		}
	}
	yAxis := normal.Cross(xAxis).Normalize()

	out := make([]math3d.Vec2, len(pts))
	for i, p := range pts {
		out[i] = math3d.V2(xAxis.Dot(p), yAxis.Dot(p))
	}
	return out, true
}
