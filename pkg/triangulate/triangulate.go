// Package triangulate splits simple planar polygons into triangles that keep
// the polygon's winding and reference its original vertex indices.
//
// The algorithm is ear clipping with a split fallback: when the candidate
// ear contains another vertex, the polygon is cut along the diagonal to the
// contained vertex farthest from the ear's base and both halves are
// triangulated independently. Every branch strictly shrinks the vertex
// count, so the recursion always terminates.
package triangulate

import (
	"math"

	"github.com/taigrr/glyphmesh/pkg/math3d"
)

// containmentTolerance is the relative slack of the inclusive
// point-in-triangle test.
const containmentTolerance = 1e-5

// degenerateTolerance scales the bounding-box diagonal to decide whether a
// polygon has vanishing area.
const degenerateTolerance = 1e-12

// Polygon is an ordered ring of points paired 1:1 with the source vertex
// indices they came from.
type Polygon struct {
	Points  []math3d.Vec3
	Indices []int
}

// FromFace builds a Polygon from a vertex pool and a face's index list.
// The caller guarantees every index is in range.
func FromFace(vertices []math3d.Vec3, face []int) Polygon {
	pts := make([]math3d.Vec3, len(face))
	idx := make([]int, len(face))
	for i, vi := range face {
		pts[i] = vertices[vi]
		idx[i] = vi
	}
	return Polygon{Points: pts, Indices: idx}
}

// Triangulate returns index triples covering the polygon. Degenerate input
// (fewer than three distinct points, zero area, or mismatched slices)
// produces no triangles.
func Triangulate(p Polygon) [][3]int {
	n := len(p.Points)
	if n < 3 || n != len(p.Indices) || distinctPoints(p.Points) < 3 {
		return nil
	}

	plane, ok := project(p.Points)
	if !ok {
		return nil
	}

	ccw := signedArea(plane) > 0
	idx := make([]int, n)
	copy(idx, p.Indices)

	out := make([][3]int, 0, n-2)
	return clip(plane, idx, ccw, out)
}

// TriangulateFace is shorthand for Triangulate(FromFace(vertices, face)).
func TriangulateFace(vertices []math3d.Vec3, face []int) [][3]int {
	return Triangulate(FromFace(vertices, face))
}

// clip consumes pts and idx. Ears are cut in a loop; a blocked ear splits
// the ring and recurses on both halves.
func clip(pts []math3d.Vec2, idx []int, ccw bool, out [][3]int) [][3]int {
	for {
		n := len(pts)
		if n < 3 {
			return out
		}
		if n == 3 {
			return append(out, [3]int{idx[0], idx[1], idx[2]})
		}

		prev, cur, next := findEar(pts, ccw)
		a, b, c := pts[prev], pts[cur], pts[next]

		split := -1
		maxDist := 0.0
		base := c.Sub(a)
		for k := range n {
			if k == prev || k == cur || k == next {
				continue
			}
			if !pointInTriangle(pts[k], a, b, c) {
				continue
			}
			dist := math.Abs(base.Cross(pts[k].Sub(a)))
			if split == -1 || dist > maxDist {
				split, maxDist = k, dist
			}
		}

		if split == -1 {
			out = append(out, [3]int{idx[prev], idx[cur], idx[next]})
			pts = append(pts[:cur:cur], pts[cur+1:]...)
			idx = append(idx[:cur:cur], idx[cur+1:]...)
			continue
		}

		aPts, aIdx, bPts, bIdx := splitRing(pts, idx, cur, split)
		out = clip(aPts, aIdx, ccw, out)
		return clip(bPts, bIdx, ccw, out)
	}
}

// findEar scans forward from the middle of the ring for a corner that is
// convex under the polygon's orientation. A zero turn counts as convex so
// colinear runs never stall the search. If no corner qualifies the last
// one examined is returned.
func findEar(pts []math3d.Vec2, ccw bool) (prev, cur, next int) {
	n := len(pts)
	for t := range n {
		cur = (n/2 + t) % n
		prev = (cur + n - 1) % n
		next = (cur + 1) % n

		turn := pts[cur].Sub(pts[prev]).Cross(pts[next].Sub(pts[cur]))
		if turn == 0 || (turn > 0) == ccw {
			return prev, cur, next
		}
	}
	return prev, cur, next
}

// splitRing cuts the ring along the diagonal i-j. Both endpoints land in
// both halves.
func splitRing(pts []math3d.Vec2, idx []int, i, j int) ([]math3d.Vec2, []int, []math3d.Vec2, []int) {
	n := len(pts)
	var aPts, bPts []math3d.Vec2
	var aIdx, bIdx []int

	side := false
	for r := range n {
		switch {
		case r == i || r == j:
			aPts, aIdx = append(aPts, pts[r]), append(aIdx, idx[r])
			bPts, bIdx = append(bPts, pts[r]), append(bIdx, idx[r])
			side = !side
		case side:
			aPts, aIdx = append(aPts, pts[r]), append(aIdx, idx[r])
		default:
			bPts, bIdx = append(bPts, pts[r]), append(bIdx, idx[r])
		}
	}
	return aPts, aIdx, bPts, bIdx
}

func triangleArea(a, b, c math3d.Vec2) float64 {
	return math.Abs(b.Sub(a).Cross(c.Sub(a))) / 2
}

// pointInTriangle is inclusive: points on an edge or a corner count as
// inside.
func pointInTriangle(p, a, b, c math3d.Vec2) bool {
	total := triangleArea(a, b, c)
	sum := triangleArea(a, b, p) + triangleArea(b, c, p) + triangleArea(c, a, p)
	return sum <= total*(1+containmentTolerance)
}

// signedArea is the shoelace area, positive for counter-clockwise rings.
func signedArea(pts []math3d.Vec2) float64 {
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.Cross(q)
	}
	return sum / 2
}

func distinctPoints(pts []math3d.Vec3) int {
	seen := make(map[math3d.Vec3]struct{}, len(pts))
	for _, p := range pts {
		seen[p] = struct{}{}
	}
	return len(seen)
}
