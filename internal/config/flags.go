package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile       = flag.String("log-file", "", "Write logs to this file")
	flagInteractive   = flag.Bool("interactive", false, "Manual control with arrow keys or WASD")
	flagColor         = flag.Bool("color", false, "Color faces by material")
	flagZoom          = flag.Float64("zoom", 0, "Zoom level in percent (default 100)")
	flagFPS           = flag.Int("fps", 0, "Target FPS (default 20)")
	flagAspect        = flag.Float64("aspect", 0, "Terminal cell height to width ratio (default 1.8)")
	flagRamp          = flag.String("ramp", "", "Glyphs from darkest to brightest")
	flagWidth         = flag.Int("width", 0, "Output columns (default terminal width)")
	flagHeight        = flag.Int("height", 0, "Output rows (default terminal height)")
	flagNoMaterials   = flag.Bool("no-materials", false, "Ignore material libraries")
	flagAxes          = flag.String("axes", "", "Source axis for x,y,z, e.g. 0,2,1")
	flagInvertAxes    = flag.String("invert-axes", "", "Axes to negate, e.g. z or x,y")
	flagInvertWinding = flag.Bool("invert-winding", false, "Reverse the winding of every face")
	flagWorkers       = flag.Int("workers", 0, "Goroutines used to triangulate polygons (default GOMAXPROCS)")
	flagOnce          = flag.Bool("once", false, "Print a single frame to stdout and exit")
)

func init() {
	flag.BoolVar(flagInteractive, "i", false, "Shorthand for -interactive")
	flag.BoolVar(flagColor, "c", false, "Shorthand for -color")
	flag.Float64Var(flagZoom, "z", 0, "Shorthand for -zoom")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Once reports whether a single frame should be printed instead of
// running the terminal viewer.
func Once() bool {
	return *flagOnce
}

// setFlags returns the names of flags given on the command line, so a
// boolean set to false still overrides the config file.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyFlags applies CLI flag overrides to the config. Mode switches only
// apply when named in set; -debug can only raise the log level.
func applyFlags(cfg *Config, set map[string]bool) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if set["interactive"] || set["i"] {
		cfg.Animation.Interactive = *flagInteractive
	}
	if set["color"] || set["c"] {
		cfg.Render.Color = *flagColor
	}
	if *flagZoom != 0 {
		cfg.Render.Zoom = *flagZoom
	}
	if *flagFPS != 0 {
		cfg.Animation.FPS = *flagFPS
	}
	if *flagAspect != 0 {
		cfg.Render.Aspect = *flagAspect
	}
	if *flagRamp != "" {
		cfg.Render.Ramp = *flagRamp
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if set["no-materials"] {
		cfg.Model.Materials = !*flagNoMaterials
	}
	if *flagWorkers > 0 {
		cfg.Model.Workers = *flagWorkers
	}
	if *flagAxes != "" {
		axes, err := parseAxes(*flagAxes)
		if err != nil {
			return err
		}
		cfg.Model.Axes = axes
	}
	if *flagInvertAxes != "" {
		inv, err := parseInvertAxes(*flagInvertAxes)
		if err != nil {
			return err
		}
		cfg.Model.InvertAxes = inv
	}
	if set["invert-winding"] {
		cfg.Model.InvertWinding = *flagInvertWinding
	}
	return nil
}

// parseAxes reads three comma separated axis indices.
func parseAxes(s string) ([3]int, error) {
	var axes [3]int
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return axes, fmt.Errorf("%w: -axes wants three indices, got %q", ErrInvalid, s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return axes, fmt.Errorf("%w: -axes %q: %v", ErrInvalid, s, err)
		}
		axes[i] = v
	}
	return axes, nil
}

// parseInvertAxes reads a comma separated list of axis names.
func parseInvertAxes(s string) ([3]bool, error) {
	var inv [3]bool
	for _, p := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "x", "0":
			inv[0] = true
		case "y", "1":
			inv[1] = true
		case "z", "2":
			inv[2] = true
		default:
			return inv, fmt.Errorf("%w: -invert-axes: unknown axis %q", ErrInvalid, p)
		}
	}
	return inv, nil
}
