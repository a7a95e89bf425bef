package main

import (
	"fmt"
	"io"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/glyphmesh/internal/config"
	"github.com/taigrr/glyphmesh/internal/logger"
	"github.com/taigrr/glyphmesh/pkg/math3d"
	"github.com/taigrr/glyphmesh/pkg/models"
	"github.com/taigrr/glyphmesh/pkg/render"
	"go.uber.org/zap"
)

// impulse is the yaw or pitch velocity one key press adds, in radians per
// frame.
const impulse = 0.06

// loadMesh loads a model and brings it into the unit sphere with the
// configured axis and winding fixes applied.
func loadMesh(path string, mc config.ModelConfig) (*models.Mesh, error) {
	mesh, err := models.Load(path, models.LoadOptions{Materials: mc.Materials, Workers: mc.Workers})
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	size := mesh.Size()

	if mc.RemapsAxes() {
		if err := mesh.RemapAxes(mc.Axes, mc.InvertAxes); err != nil {
			return nil, err
		}
	}
	if mc.InvertWinding {
		mesh.InvertWinding()
	}
	mesh.Normalize()

	logger.Info("mesh loaded",
		zap.String("name", mesh.Name),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("materials", mesh.MaterialCount()),
		zap.Float64("width", size.X),
		zap.Float64("height", size.Y),
		zap.Float64("depth", size.Z),
	)
	return mesh, nil
}

// viewer owns the per-run rendering state.
type viewer struct {
	mesh     *models.Mesh
	stage    *render.Stage
	raster   *render.Rasterizer
	pal      render.Palette
	aspect   float64
	baseZoom float64
}

func newViewer(mesh *models.Mesh, cfg *config.Config, cols, rows int) (*viewer, error) {
	ramp, err := render.NewRamp(cfg.Render.Ramp)
	if err != nil {
		return nil, err
	}

	l := cfg.Render.Light
	v := &viewer{
		mesh:     mesh,
		aspect:   cfg.Render.Aspect,
		baseZoom: cfg.Render.Zoom / 100,
	}
	v.stage = &render.Stage{
		Light: math3d.V3(l[0], l[1], l[2]).Normalize(),
		Ramp:  ramp,
		Zoom:  v.baseZoom,
	}
	if cfg.Render.Color {
		v.pal = render.NewPalette(mesh.DiffuseColors())
	}
	v.raster = render.NewRasterizer(nil, v.stage)
	v.resize(cols, rows)
	return v, nil
}

// resize rebuilds the framebuffer for a cols x rows grid.
func (v *viewer) resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	w, h := render.LogicalSize(cols, rows, v.aspect)
	v.stage.LogicalWidth, v.stage.LogicalHeight = w, h
	v.raster.SetFramebuffer(render.NewFramebuffer(cols, rows, w, h))
	logger.Debug("framebuffer resized", zap.Int("cols", cols), zap.Int("rows", rows))
}

// frame renders the mesh at o into a fresh frame.
func (v *viewer) frame(o render.Orientation) *render.Framebuffer {
	v.raster.Clear()
	v.raster.ResetStats()
	v.raster.DrawMesh(v.mesh, o)
	return v.raster.Framebuffer()
}

func (v *viewer) zoomBy(f float64) {
	v.stage.Zoom *= f
}

func (v *viewer) resetZoom() {
	v.stage.Zoom = v.baseZoom
}

// command is a user action decoded from a key press.
type command int

const (
	cmdNone command = iota
	cmdQuit
	cmdPitchUp
	cmdPitchDown
	cmdYawLeft
	cmdYawRight
	cmdZoomIn
	cmdZoomOut
	cmdReset
)

func keyCommand(ev uv.KeyPressEvent) command {
	switch {
	case ev.MatchString("ctrl+c", "q", "escape"):
		return cmdQuit
	case ev.MatchString("w", "up"):
		return cmdPitchUp
	case ev.MatchString("s", "down"):
		return cmdPitchDown
	case ev.MatchString("a", "left"):
		return cmdYawLeft
	case ev.MatchString("d", "right"):
		return cmdYawRight
	case ev.MatchString("+", "="):
		return cmdZoomIn
	case ev.MatchString("-", "_"):
		return cmdZoomOut
	case ev.MatchString("r"):
		return cmdReset
	}
	return cmdNone
}

// session decides the orientation of every frame, either from the clock
// or from spring-damped key input.
type session struct {
	view        *viewer
	spin        autoSpin
	rot         *RotationState
	interactive bool
	elapsed     float64 // Seconds of auto rotation
}

func newSession(v *viewer, ac config.AnimationConfig) *session {
	return &session{
		view:        v,
		spin:        autoSpin{yawSpeed: ac.YawSpeed, pitchSpeed: ac.PitchSpeed},
		rot:         NewRotationState(ac.FPS),
		interactive: ac.Interactive,
	}
}

// apply performs c and reports whether the viewer should quit. Rotation
// keys are ignored in auto mode.
func (s *session) apply(c command) bool {
	switch c {
	case cmdQuit:
		return true
	case cmdZoomIn:
		s.view.zoomBy(1.1)
	case cmdZoomOut:
		s.view.zoomBy(0.9)
	case cmdReset:
		s.rot.Reset()
		s.view.resetZoom()
		s.elapsed = 0
	}

	if !s.interactive {
		return false
	}
	switch c {
	case cmdPitchUp:
		s.rot.ApplyImpulse(-impulse, 0)
	case cmdPitchDown:
		s.rot.ApplyImpulse(impulse, 0)
	case cmdYawLeft:
		s.rot.ApplyImpulse(0, -impulse)
	case cmdYawRight:
		s.rot.ApplyImpulse(0, impulse)
	}
	return false
}

// tick advances the animation by dt seconds.
func (s *session) tick(dt float64) {
	if s.interactive {
		s.rot.Update()
		return
	}
	s.elapsed += dt
}

func (s *session) orientation() render.Orientation {
	if s.interactive {
		return s.rot.Orientation()
	}
	return s.spin.at(s.elapsed)
}

// printFrame renders the first frame of the animation to w.
func printFrame(w io.Writer, mesh *models.Mesh, cfg *config.Config, cols, rows int) error {
	v, err := newViewer(mesh, cfg, cols, rows)
	if err != nil {
		return err
	}
	fb := v.frame(newSession(v, cfg.Animation).orientation())
	logger.Debug("frame rendered",
		zap.Int("drawn", v.raster.Stats.TrianglesDrawn),
		zap.Int("culled", v.raster.Stats.TrianglesCulled),
	)
	return fb.WriteText(w, v.pal)
}
