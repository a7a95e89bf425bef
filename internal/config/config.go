// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Animation AnimationConfig `yaml:"animation"`
	Model     ModelConfig     `yaml:"model"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// RenderConfig holds output grid and shading settings.
type RenderConfig struct {
	Width  int        `yaml:"width"`  // Columns; 0 uses the terminal size
	Height int        `yaml:"height"` // Rows; 0 uses the terminal size
	Aspect float64    `yaml:"aspect"` // Cell height / cell width
	Ramp   string     `yaml:"ramp"`   // Darkest glyph first
	Light  [3]float64 `yaml:"light"`  // Direction light travels in
	Zoom   float64    `yaml:"zoom"`   // Percent
	Color  bool       `yaml:"color"`
}

// AnimationConfig holds frame rate and motion settings.
type AnimationConfig struct {
	FPS         int     `yaml:"fps"`
	Interactive bool    `yaml:"interactive"`
	YawSpeed    float64 `yaml:"yaw_speed"`   // Radians per second in auto mode
	PitchSpeed  float64 `yaml:"pitch_speed"` // Altitude oscillation rate in auto mode
}

// ModelConfig holds mesh import settings.
type ModelConfig struct {
	Materials     bool    `yaml:"materials"`
	Axes          [3]int  `yaml:"axes"`        // Source axis for each of x, y, z
	InvertAxes    [3]bool `yaml:"invert_axes"` // Negate x, y, z after remapping
	InvertWinding bool    `yaml:"invert_winding"`
	Workers       int     `yaml:"workers"` // Triangulation goroutines; 0 uses GOMAXPROCS
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:  0,
			Height: 0,
			Aspect: 1.8,
			Ramp:   ".,':;!+*=#$@",
			Light:  [3]float64{1, -1, 0},
			Zoom:   100,
			Color:  false,
		},
		Animation: AnimationConfig{
			FPS:         20,
			Interactive: false,
			YawSpeed:    2,
			PitchSpeed:  0.25,
		},
		Model: ModelConfig{
			Materials: true,
			Axes:      [3]int{0, 1, 2},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting the renderer cannot use.
func (c *Config) Validate() error {
	r := c.Render
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, r.Width, r.Height)
	}
	if r.Aspect <= 0 {
		return fmt.Errorf("%w: aspect %v must be positive", ErrInvalid, r.Aspect)
	}
	if r.Zoom <= 0 {
		return fmt.Errorf("%w: zoom %v must be positive", ErrInvalid, r.Zoom)
	}
	if r.Ramp == "" {
		return fmt.Errorf("%w: empty ramp", ErrInvalid)
	}
	for _, g := range r.Ramp {
		if runewidth.RuneWidth(g) != 1 {
			return fmt.Errorf("%w: ramp glyph %q is not one column wide", ErrInvalid, g)
		}
	}
	if r.Light == [3]float64{} {
		return fmt.Errorf("%w: zero light direction", ErrInvalid)
	}

	if c.Animation.FPS <= 0 {
		return fmt.Errorf("%w: fps %d must be positive", ErrInvalid, c.Animation.FPS)
	}

	if c.Model.Workers < 0 {
		return fmt.Errorf("%w: workers %d must not be negative", ErrInvalid, c.Model.Workers)
	}

	seen := [3]bool{}
	for _, a := range c.Model.Axes {
		if a < 0 || a > 2 || seen[a] {
			return fmt.Errorf("%w: axes %v are not a permutation of 0, 1, 2", ErrInvalid, c.Model.Axes)
		}
		seen[a] = true
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

// RemapsAxes reports whether the model settings change vertex axes.
func (m ModelConfig) RemapsAxes() bool {
	return m.Axes != [3]int{0, 1, 2} || m.InvertAxes != [3]bool{}
}
