package render

import (
	"errors"
	"math"

	"github.com/taigrr/glyphmesh/pkg/math3d"
)

// DefaultRamp orders glyphs from darkest to brightest.
const DefaultRamp = ".,':;!+*=#$@"

// DefaultAspect is the height to width ratio of a typical terminal cell.
const DefaultAspect = 1.8

// ErrEmptyRamp is returned when a ramp has no glyphs.
var ErrEmptyRamp = errors.New("render: empty glyph ramp")

// DefaultLight is the normalized light direction (1, -1, 0).
func DefaultLight() math3d.Vec3 {
	return math3d.V3(1, -1, 0).Normalize()
}

// LogicalSize returns the logical extent of a cols x rows grid whose cells
// are aspect times taller than they are wide. Height is always 1.
func LogicalSize(cols, rows int, aspect float64) (w, h float64) {
	return float64(cols) / (float64(rows) * aspect), 1
}

// Orientation is a yaw about Y followed by a pitch about X, stored as the
// cosines and sines of both angles.
type Orientation struct {
	CosYaw, SinYaw     float64
	CosPitch, SinPitch float64
}

// NewOrientation builds an orientation from angles in radians.
func NewOrientation(yaw, pitch float64) Orientation {
	return Orientation{
		CosYaw:   math.Cos(yaw),
		SinYaw:   math.Sin(yaw),
		CosPitch: math.Cos(pitch),
		SinPitch: math.Sin(pitch),
	}
}

// Apply rotates v by yaw, then by pitch.
func (o Orientation) Apply(v math3d.Vec3) math3d.Vec3 {
	return v.RotateY(o.CosYaw, o.SinYaw).RotateX(o.CosPitch, o.SinPitch)
}

// Ramp is a brightness ramp, darkest glyph first.
type Ramp []rune

// NewRamp converts s into a ramp.
func NewRamp(s string) (Ramp, error) {
	r := Ramp(s)
	if len(r) == 0 {
		return nil, ErrEmptyRamp
	}
	return r, nil
}

// Glyph selects the glyph for a brightness in [0, 1]. Out of range values
// are clamped.
func (r Ramp) Glyph(sim float64) rune {
	if len(r) == 0 {
		return Background
	}
	sim = clamp01(sim)
	idx := int(math.Round(sim * float64(len(r)-1)))
	idx = max(0, min(idx, len(r)-1))
	return r[idx]
}

// Shade maps the angle between an outward surface normal and the light to
// [0, 1]. A face whose normal points along the light direction is fully
// dark, one that faces into the light is fully lit.
func Shade(normal, light math3d.Vec3) float64 {
	return clamp01(normal.Negate().Dot(light)*0.5 + 0.5)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(v, 1))
}

// FaceNormal returns the unit outward normal of a front face. Front faces
// wind counter-clockwise in xy as seen by a viewer looking down +Z, so the
// outward side points toward -Z, the viewer.
func FaceNormal(a, b, c math3d.Vec3) math3d.Vec3 {
	return c.Sub(a).Cross(b.Sub(a)).Normalize()
}

// ScreenTriangle holds three vertices in logical screen space: x grows to
// the right, y grows downward, z is depth with smaller values nearer.
type ScreenTriangle struct {
	P [3]math3d.Vec3
}

// Stage rotates, lights and projects triangles into logical screen space.
type Stage struct {
	Light         math3d.Vec3 // Unit direction light travels in
	Ramp          Ramp
	Zoom          float64
	LogicalWidth  float64
	LogicalHeight float64
}

// NewStage creates a stage with the default light and ramp.
func NewStage(logicalW, logicalH, zoom float64) *Stage {
	return &Stage{
		Light:         DefaultLight(),
		Ramp:          Ramp(DefaultRamp),
		Zoom:          zoom,
		LogicalWidth:  logicalW,
		LogicalHeight: logicalH,
	}
}

// Project maps a rotated model-space point to logical screen space with an
// orthographic projection centered on the screen.
func (s *Stage) Project(v math3d.Vec3) math3d.Vec3 {
	return math3d.Vec3{
		X: 0.5*s.LogicalWidth + 0.5*v.X*s.Zoom,
		Y: 0.5*s.LogicalHeight - 0.5*v.Y*s.Zoom,
		Z: 0.5 + 0.5*v.Z*s.Zoom,
	}
}

// Transform rotates a model-space triangle by o, lights it from its
// rotated outward normal and projects it. The glyph is picked before
// projection, so zoom never affects brightness.
func (s *Stage) Transform(tri [3]math3d.Vec3, o Orientation) (ScreenTriangle, rune) {
	r0, r1, r2 := o.Apply(tri[0]), o.Apply(tri[1]), o.Apply(tri[2])
	normal := FaceNormal(r0, r1, r2)
	glyph := s.Ramp.Glyph(Shade(normal, s.Light))

	return ScreenTriangle{P: [3]math3d.Vec3{s.Project(r0), s.Project(r1), s.Project(r2)}}, glyph
}
