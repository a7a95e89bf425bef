package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/glyphmesh/pkg/math3d"
)

const testOBJ = `# two triangles and a quad
mtllib colors.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
usemtl red
f 1 2 3
f 1/1 3/3 4/4
usemtl missing
f -5//1 -4//2 -3//3 -2//4
`

const testMTL = `newmtl red
Kd 1 0 0
newmtl blue
Kd 0 0 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadOBJWithMaterials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.mtl", testMTL)
	path := writeFile(t, dir, "shape.obj", testOBJ)

	mesh, err := LoadOBJ(path, LoadOptions{Materials: true})
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	if mesh.Name != "shape.obj" {
		t.Errorf("expected name shape.obj, got %q", mesh.Name)
	}
	if mesh.VertexCount() != 5 {
		t.Errorf("expected 5 vertices, got %d", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 4 {
		t.Fatalf("expected 4 triangles, got %d", mesh.TriangleCount())
	}
	if mesh.MaterialCount() != 2 {
		t.Fatalf("expected 2 materials, got %d", mesh.MaterialCount())
	}
	if mesh.Materials[0].Diffuse != [3]float64{1, 0, 0} || mesh.Materials[1].Diffuse != [3]float64{0, 0, 1} {
		t.Errorf("unexpected material colors: %+v", mesh.Materials)
	}

	if mesh.Faces[0].V != [3]int{0, 1, 2} || mesh.Faces[0].Material != 0 {
		t.Errorf("face 0 = %+v, want {0 1 2} material 0", mesh.Faces[0])
	}
	if mesh.Faces[1].V != [3]int{0, 2, 3} || mesh.Faces[1].Material != 0 {
		t.Errorf("face 1 = %+v, want {0 2 3} material 0", mesh.Faces[1])
	}
	for _, f := range mesh.Faces[2:] {
		if f.Material != -1 {
			t.Errorf("unknown material should map to -1, got %d", f.Material)
		}
		for _, vi := range f.V {
			if vi > 3 {
				t.Errorf("quad triangle %v references vertex outside the quad", f.V)
			}
		}
	}

	if got := mesh.Vertices[4]; got != math3d.V3(0, 0, -1) {
		t.Errorf("expected Z mirrored to (0, 0, -1), got %v", got)
	}
	if err := mesh.Validate(); err != nil {
		t.Errorf("loaded mesh should validate: %v", err)
	}
}

func TestReadOBJWithoutMaterials(t *testing.T) {
	mesh, err := ReadOBJ(strings.NewReader(testOBJ), t.TempDir(), LoadOptions{})
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if mesh.MaterialCount() != 0 {
		t.Errorf("expected no materials, got %d", mesh.MaterialCount())
	}
	for i, f := range mesh.Faces {
		if f.Material != -1 {
			t.Errorf("face %d should have material -1, got %d", i, f.Material)
		}
	}
}

func TestReadOBJMissingMTL(t *testing.T) {
	mesh, err := ReadOBJ(strings.NewReader(testOBJ), t.TempDir(), LoadOptions{Materials: true})
	if err != nil {
		t.Fatalf("missing material library should not fail the load: %v", err)
	}
	if mesh.MaterialCount() != 0 {
		t.Errorf("expected no materials, got %d", mesh.MaterialCount())
	}
}

func TestReadOBJKeepsFaceOrder(t *testing.T) {
	src := `v 0 0 0
v 2 0 0
v 1 1 0
v 2 2 0
v 0 2 0
v 5 5 5
v 6 5 5
v 5 6 5
f 1 2 3 4 5
f 6 7 8
f 1 2 3 4 5
f 6 7 8
`
	mesh, err := ReadOBJ(strings.NewReader(src), "", LoadOptions{Workers: 4})
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if mesh.TriangleCount() != 8 {
		t.Fatalf("expected 8 triangles, got %d", mesh.TriangleCount())
	}
	for _, i := range []int{3, 7} {
		if mesh.Faces[i].V != [3]int{5, 6, 7} {
			t.Errorf("face %d = %v, want the triangle {5 6 7} in file order", i, mesh.Faces[i].V)
		}
	}
	for _, i := range []int{0, 1, 2, 4, 5, 6} {
		for _, vi := range mesh.Faces[i].V {
			if vi > 4 {
				t.Errorf("face %d = %v should come from the pentagon", i, mesh.Faces[i].V)
			}
		}
	}
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains string
		is       error
	}{
		{"bad coordinate", "v 0 0 0\nv 1 x 0\n", "line 2", nil},
		{"short vertex", "v 1 2\n", "line 1", nil},
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", "line 4", ErrInvalidIndex},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "line 4", ErrInvalidIndex},
		{"relative index past start", "v 0 0 0\nf -1 -2 -3\n", "line 2", ErrInvalidIndex},
		{"bad index", "v 0 0 0\nf a b c\n", "line 2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tt.src), "", LoadOptions{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should mention %q", err, tt.contains)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %q should wrap %v", err, tt.is)
			}
		})
	}
}

func TestLoadOBJInvalidPath(t *testing.T) {
	if _, err := LoadOBJ("/nonexistent/path.obj", LoadOptions{}); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}
