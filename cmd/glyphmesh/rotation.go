package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/glyphmesh/pkg/render"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis whose velocity eases back to zero.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Critically damped, no overshoot
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState is the interactive yaw and pitch of the model.
type RotationState struct {
	Pitch, Yaw RotationAxis
	fps        int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		fps:   fps,
	}
}

// Update advances both axes by one frame. Pitch stops at straight up and
// straight down so the model never flips over.
func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()

	limit := math.Pi / 2
	if r.Pitch.Position > limit || r.Pitch.Position < -limit {
		r.Pitch.Position = math.Max(-limit, math.Min(limit, r.Pitch.Position))
		r.Pitch.Velocity, r.Pitch.velAccel = 0, 0
	}
}

func (r *RotationState) ApplyImpulse(pitch, yaw float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
}

// Orientation returns the current rotation for the renderer.
func (r *RotationState) Orientation() render.Orientation {
	return render.NewOrientation(r.Yaw.Position, r.Pitch.Position)
}

// autoSpin turns the model at a steady yaw rate while its altitude slowly
// rocks between level and a quarter turn down.
type autoSpin struct {
	yawSpeed   float64
	pitchSpeed float64
}

func (a autoSpin) at(t float64) render.Orientation {
	yaw := a.yawSpeed * t
	altitude := 0.125 * math.Pi * (1 - math.Sin(math.Phi*a.pitchSpeed*t))
	return render.NewOrientation(yaw, -altitude)
}
