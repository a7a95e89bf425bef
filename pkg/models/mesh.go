// Package models provides mesh loading and representation for glyphmesh.
package models

import (
	"fmt"

	"github.com/taigrr/glyphmesh/pkg/math3d"
)

// Mesh owns a vertex pool and the triangles and materials that reference
// it by index.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is a named diffuse reflectance.
type Material struct {
	Name    string
	Diffuse [3]float64 // RGB in 0-1 range
}

// NewMaterial returns a white material.
func NewMaterial(name string) Material {
	return Material{Name: name, Diffuse: [3]float64{1, 1, 1}}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
	}
}

// Validate checks that every face references vertices and materials that
// exist.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, vi := range f.V {
			if vi < 0 || vi >= len(m.Vertices) {
				return fmt.Errorf("face %d vertex %d (pool size %d): %w", i, vi, len(m.Vertices), ErrInvalidIndex)
			}
		}
		if f.Material < -1 || f.Material >= len(m.Materials) {
			return fmt.Errorf("face %d material %d (%d materials): %w", i, f.Material, len(m.Materials), ErrInvalidIndex)
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Normalize centers the bounding box on the origin and scales the mesh so
// its farthest vertex lies on the unit sphere.
func (m *Mesh) Normalize() {
	if len(m.Vertices) == 0 {
		return
	}
	m.CalculateBounds()
	center := m.Center()

	var maxDist float64
	for _, v := range m.Vertices {
		maxDist = max(maxDist, v.Distance(center))
	}

	scale := 1.0
	if maxDist > 0 {
		scale = 1 / maxDist
	}
	m.Transform(math3d.ScaleUniform(scale).Mul(math3d.Translate(center.Negate())))
}

// Transform applies a transformation matrix to all vertices. Mirroring
// transforms also reverse face winding so front faces stay front faces.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	if mat.Determinant3() < 0 {
		m.InvertWinding()
	}
	m.CalculateBounds()
}

// RemapAxes rebuilds every vertex from the given source axes, negating the
// components flagged in invert.
func (m *Mesh) RemapAxes(axes [3]int, invert [3]bool) error {
	seen := [3]bool{}
	for _, a := range axes {
		if a < 0 || a > 2 || seen[a] {
			return fmt.Errorf("axes %v are not a permutation of 0, 1, 2", axes)
		}
		seen[a] = true
	}
	m.Transform(math3d.Permute(axes, invert))
	return nil
}

// InvertWinding swaps the last two indices of every face.
func (m *Mesh) InvertWinding() {
	for i := range m.Faces {
		f := &m.Faces[i]
		f.V[1], f.V[2] = f.V[2], f.V[1]
	}
}

// mirrorZ negates Z without touching winding. Loaders use it to move
// right-handed files into the renderer's frame, where smaller depth is
// nearer to the viewer. Faces that pointed at a +Z camera in the file then
// point at the viewer and stay counter-clockwise in xy.
func (m *Mesh) mirrorZ() {
	for i := range m.Vertices {
		m.Vertices[i].Z = -m.Vertices[i].Z
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// GetVertex returns the position of vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) math3d.Vec3 {
	return m.Vertices[i]
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// DiffuseColors lists material colors in material index order.
func (m *Mesh) DiffuseColors() [][3]float64 {
	out := make([][3]float64, len(m.Materials))
	for i, mat := range m.Materials {
		out[i] = mat.Diffuse
	}
	return out
}
