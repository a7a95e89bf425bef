package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/glyphmesh/internal/config"
	"github.com/taigrr/glyphmesh/pkg/math3d"
	"github.com/taigrr/glyphmesh/pkg/models"
	"github.com/taigrr/glyphmesh/pkg/render"
)

// quadMesh is a square facing the viewer.
func quadMesh() *models.Mesh {
	m := models.NewMesh("quad")
	m.Vertices = []math3d.Vec3{
		math3d.V3(-0.5, -0.5, 0),
		math3d.V3(0.5, -0.5, 0),
		math3d.V3(0.5, 0.5, 0),
		math3d.V3(-0.5, 0.5, 0),
	}
	m.Faces = []models.Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{0, 2, 3}, Material: 0},
	}
	m.Materials = []models.Material{{Name: "red", Diffuse: [3]float64{1, 0, 0}}}
	m.CalculateBounds()
	return m
}

func TestPrintFrame(t *testing.T) {
	cfg := config.Default()

	var sb strings.Builder
	if err := printFrame(&sb, quadMesh(), cfg, 40, 12); err != nil {
		t.Fatalf("printFrame: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if len([]rune(l)) != 40 {
			t.Errorf("line %d has %d columns", i, len([]rune(l)))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		t.Error("expected the quad to be drawn")
	}
	if strings.Contains(sb.String(), "\x1b[") {
		t.Error("expected plain text without -color")
	}
}

func TestPrintFrameColor(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Color = true

	var sb strings.Builder
	if err := printFrame(&sb, quadMesh(), cfg, 40, 12); err != nil {
		t.Fatalf("printFrame: %v", err)
	}
	if !strings.Contains(sb.String(), "\x1b[38;2;255;0;0m") {
		t.Error("expected the material color escape")
	}
}

func TestSessionZoomAndReset(t *testing.T) {
	v, err := newViewer(quadMesh(), config.Default(), 40, 12)
	if err != nil {
		t.Fatal(err)
	}
	s := newSession(v, config.Default().Animation)

	s.apply(cmdZoomIn)
	s.apply(cmdZoomIn)
	if want := 1.1 * 1.1; math.Abs(v.stage.Zoom-want) > 1e-12 {
		t.Errorf("zoom = %v, want %v", v.stage.Zoom, want)
	}
	s.apply(cmdZoomOut)
	if want := 1.1 * 1.1 * 0.9; math.Abs(v.stage.Zoom-want) > 1e-12 {
		t.Errorf("zoom = %v, want %v", v.stage.Zoom, want)
	}

	s.tick(1.5)
	s.apply(cmdReset)
	if v.stage.Zoom != 1 || s.elapsed != 0 {
		t.Errorf("reset left zoom %v and clock %v", v.stage.Zoom, s.elapsed)
	}

	if !s.apply(cmdQuit) {
		t.Error("expected quit")
	}
	if s.apply(cmdNone) {
		t.Error("unexpected quit")
	}
}

func TestSessionModes(t *testing.T) {
	v, err := newViewer(quadMesh(), config.Default(), 40, 12)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("auto ignores rotation keys", func(t *testing.T) {
		ac := config.Default().Animation
		s := newSession(v, ac)
		s.apply(cmdYawRight)
		if s.rot.Yaw.Velocity != 0 {
			t.Error("rotation key changed auto mode")
		}
		s.tick(0.5)
		if got, want := s.orientation(), s.spin.at(0.5); got != want {
			t.Errorf("orientation = %+v, want %+v", got, want)
		}
	})

	t.Run("interactive", func(t *testing.T) {
		ac := config.Default().Animation
		ac.Interactive = true
		s := newSession(v, ac)

		s.apply(cmdYawRight)
		s.apply(cmdPitchUp)
		s.tick(0.05)
		if s.rot.Yaw.Position <= 0 || s.rot.Pitch.Position >= 0 {
			t.Errorf("unexpected rotation yaw %v pitch %v", s.rot.Yaw.Position, s.rot.Pitch.Position)
		}
		if got := s.orientation(); got != s.rot.Orientation() {
			t.Errorf("orientation = %+v, want the spring state", got)
		}
	})
}

func TestViewerResize(t *testing.T) {
	v, err := newViewer(quadMesh(), config.Default(), 40, 12)
	if err != nil {
		t.Fatal(err)
	}

	v.resize(100, 30)
	fb := v.raster.Framebuffer()
	if fb.Width != 100 || fb.Height != 30 {
		t.Errorf("framebuffer is %dx%d", fb.Width, fb.Height)
	}
	if want := 100 / (30 * 1.8); math.Abs(v.stage.LogicalWidth-want) > 1e-12 || v.stage.LogicalHeight != 1 {
		t.Errorf("logical size %v x %v", v.stage.LogicalWidth, v.stage.LogicalHeight)
	}

	v.resize(0, 0)
	if fb := v.raster.Framebuffer(); fb.Width != 1 || fb.Height != 1 {
		t.Errorf("expected a 1x1 grid for an empty terminal, got %dx%d", fb.Width, fb.Height)
	}
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantC, wantR int
	}{
		{"terminal size", 0, 0, 120, 40},
		{"configured", 80, 24, 80, 24},
		{"limited to terminal", 200, 60, 120, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r := gridSize(config.RenderConfig{Width: tt.w, Height: tt.h}, 120, 40)
			if c != tt.wantC || r != tt.wantR {
				t.Errorf("gridSize = %dx%d, want %dx%d", c, r, tt.wantC, tt.wantR)
			}
		})
	}
}

func TestLoadMesh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	obj := "v 0 0 0\nv 4 0 0\nv 0 4 0\nf 1 2 3\n"
	if err := os.WriteFile(path, []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("normalized", func(t *testing.T) {
		mesh, err := loadMesh(path, config.Default().Model)
		if err != nil {
			t.Fatal(err)
		}
		var far float64
		for _, v := range mesh.Vertices {
			far = math.Max(far, v.Len())
		}
		if math.Abs(far-1) > 1e-9 {
			t.Errorf("farthest vertex at %v, want 1", far)
		}
	})

	t.Run("invert winding", func(t *testing.T) {
		mc := config.Default().Model
		mc.InvertWinding = true
		mesh, err := loadMesh(path, mc)
		if err != nil {
			t.Fatal(err)
		}
		if mesh.Faces[0].V != [3]int{0, 2, 1} {
			t.Errorf("unexpected face %v", mesh.Faces[0].V)
		}
	})

	t.Run("workers", func(t *testing.T) {
		mc := config.Default().Model
		mc.Workers = 2
		mesh, err := loadMesh(path, mc)
		if err != nil {
			t.Fatal(err)
		}
		if mesh.TriangleCount() != 1 {
			t.Errorf("expected 1 triangle, got %d", mesh.TriangleCount())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadMesh(filepath.Join(dir, "nope.obj"), config.Default().Model); err == nil {
			t.Error("expected error")
		}
	})
}

// cubeOBJ is a cube with every face wound counter-clockwise seen from
// outside, the way OBJ exporters write it.
const cubeOBJ = `v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
f 5 6 7 8
f 2 1 4 3
f 8 7 3 4
f 1 2 6 5
f 6 2 3 7
f 1 5 8 4
`

func TestLoadedCubeLitFromAbove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.obj")
	if err := os.WriteFile(path, []byte(cubeOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		workers    int
		wantTop    rune // Top face, tilted toward the viewer and the light
		wantBottom rune // Front face, turned away from the light
	}{
		{"serial", 1, '$', '\''},
		{"parallel", 4, '$', '\''},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Model.Workers = tt.workers
			cfg.Render.Light = [3]float64{0, -1, 0}

			mesh, err := loadMesh(path, cfg.Model)
			if err != nil {
				t.Fatal(err)
			}
			v, err := newViewer(mesh, cfg, 60, 30)
			if err != nil {
				t.Fatal(err)
			}
			fb := v.frame(render.NewOrientation(0, -0.6))

			var rows []string
			for y := range fb.Height {
				if row := strings.TrimSpace(fb.Row(y)); row != "" {
					rows = append(rows, row)
				}
			}
			if len(rows) < 2 {
				t.Fatalf("expected the cube to cover several rows, got %d", len(rows))
			}

			checkRow := func(label, row string, want rune) {
				t.Helper()
				for _, g := range row {
					if g != want {
						t.Errorf("%s row %q: glyph %q, want %q", label, row, g, want)
						return
					}
				}
			}
			checkRow("top", rows[0], tt.wantTop)
			checkRow("bottom", rows[len(rows)-1], tt.wantBottom)

			ramp := render.Ramp(cfg.Render.Ramp)
			top := strings.IndexRune(string(ramp), tt.wantTop)
			bottom := strings.IndexRune(string(ramp), tt.wantBottom)
			if top <= bottom {
				t.Errorf("face toward the light (%q) should be brighter than the one away (%q)", tt.wantTop, tt.wantBottom)
			}
		})
	}
}
