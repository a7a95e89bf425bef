package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/glyphmesh/pkg/math3d"
	"github.com/taigrr/glyphmesh/pkg/triangulate"
)

// LoadOptions controls what the loaders read.
type LoadOptions struct {
	// Materials enables mtllib/usemtl for OBJ and material references for
	// glTF. When false every face gets material -1.
	Materials bool

	// Workers bounds concurrent n-gon triangulation. Zero or less uses
	// GOMAXPROCS.
	Workers int
}

// objPolygon is an n-gon waiting for triangulation. slot is its position
// in the ordered face list.
type objPolygon struct {
	slot     int
	indices  []int
	material int
}

// LoadOBJ loads a Wavefront OBJ file. Material libraries are resolved
// relative to the OBJ file.
func LoadOBJ(path string, opts LoadOptions) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ReadOBJ(f, filepath.Dir(path), opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ReadOBJ parses OBJ data. dir is where mtllib files are looked up. Z is
// mirrored after parsing so the model's front faces the viewer.
func ReadOBJ(r io.Reader, dir string, opts LoadOptions) (*Mesh, error) {
	mesh := NewMesh("")
	currentMat := -1

	// One slot per face line, in file order. N-gon slots stay nil until
	// triangulation fills them.
	var slots [][]Face
	var polys []objPolygon

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, v)

		case "f":
			indices, err := parseFaceIndices(fields[1:], len(mesh.Vertices))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			switch {
			case len(indices) < 3:
				continue
			case len(indices) == 3:
				slots = append(slots, []Face{{V: [3]int{indices[0], indices[1], indices[2]}, Material: currentMat}})
			default:
				polys = append(polys, objPolygon{slot: len(slots), indices: indices, material: currentMat})
				slots = append(slots, nil)
			}

		case "mtllib":
			if !opts.Materials || len(fields) < 2 {
				continue
			}
			mats, err := loadMTL(filepath.Join(dir, strings.Join(fields[1:], " ")))
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.Materials = append(mesh.Materials, mats...)

		case "usemtl":
			if !opts.Materials {
				continue
			}
			currentMat = -1
			if len(fields) >= 2 {
				currentMat = mesh.materialIndex(fields[1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if err := triangulatePolygons(mesh.Vertices, polys, slots, opts.Workers); err != nil {
		return nil, err
	}

	for _, s := range slots {
		mesh.Faces = append(mesh.Faces, s...)
	}
	mesh.mirrorZ()
	mesh.CalculateBounds()
	return mesh, nil
}

// triangulatePolygons fills the n-gon slots concurrently. Faces never
// interact, so each worker writes only its own slot.
func triangulatePolygons(vertices []math3d.Vec3, polys []objPolygon, slots [][]Face, workers int) error {
	if len(polys) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, p := range polys {
		g.Go(func() error {
			tris := triangulate.TriangulateFace(vertices, p.indices)
			faces := make([]Face, len(tris))
			for i, tri := range tris {
				faces[i] = Face{V: tri, Material: p.material}
			}
			slots[p.slot] = faces
			return nil
		})
	}
	return g.Wait()
}

// parseFaceIndices resolves OBJ face segments ("7", "7/1", "7//3", "-1")
// into zero-based vertex indices.
func parseFaceIndices(segments []string, vertexCount int) ([]int, error) {
	indices := make([]int, 0, len(segments))
	for _, seg := range segments {
		head, _, _ := strings.Cut(seg, "/")
		idx, err := strconv.Atoi(head)
		if err != nil {
			return nil, fmt.Errorf("face index %q: %w", seg, err)
		}
		switch {
		case idx < 0:
			idx += vertexCount
		case idx > 0:
			idx--
		default:
			return nil, fmt.Errorf("face index 0: %w", ErrInvalidIndex)
		}
		if idx < 0 || idx >= vertexCount {
			return nil, fmt.Errorf("face index %s with %d vertices: %w", head, vertexCount, ErrInvalidIndex)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	var xyz [3]float64
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("coordinate %q: %w", fields[i], err)
		}
		xyz[i] = f
	}
	return math3d.V3(xyz[0], xyz[1], xyz[2]), nil
}

// materialIndex returns the index of the named material or -1.
func (m *Mesh) materialIndex(name string) int {
	for i, mat := range m.Materials {
		if mat.Name == name {
			return i
		}
	}
	return -1
}
