// glyphmesh - spinning 3D models drawn with text glyphs
// Renders OBJ, STL and glTF/GLB files in the terminal, shading each face
// with a character from a brightness ramp.
//
// Controls:
//
//	Arrows/WASD - Pitch and yaw (with -interactive)
//	+/-         - Adjust zoom
//	R           - Reset view
//	Q/Esc       - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/glyphmesh/internal/config"
	"github.com/taigrr/glyphmesh/internal/logger"
	"github.com/taigrr/glyphmesh/pkg/models"
	"go.uber.org/zap"
)

// One-shot output size when neither flags nor config set one.
const (
	defaultCols = 80
	defaultRows = 24
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "glyphmesh - 3D models drawn with glyphs\n\n")
		fmt.Fprintf(os.Stderr, "Usage: glyphmesh [options] <model.obj|model.stl|model.glb|model.gltf>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Arrows/WASD - Pitch and yaw (interactive mode)\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Adjust zoom\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Q/Esc       - Quit\n")
	}
	config.ParseFlags()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, flag.Arg(0), config.Once()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, modelPath string, once bool) error {
	// Console logs would overwrite the alternate screen
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, once); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	mesh, err := loadMesh(modelPath, cfg.Model)
	if err != nil {
		return err
	}

	if once {
		cols, rows := cfg.Render.Width, cfg.Render.Height
		if cols == 0 {
			cols = defaultCols
		}
		if rows == 0 {
			rows = defaultRows
		}
		return printFrame(os.Stdout, mesh, cfg, cols, rows)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runTerminal(ctx, mesh, cfg)
}

// gridSize picks the framebuffer size: configured dimensions, limited to
// the terminal.
func gridSize(rc config.RenderConfig, termW, termH int) (cols, rows int) {
	cols, rows = termW, termH
	if rc.Width > 0 {
		cols = min(rc.Width, termW)
	}
	if rc.Height > 0 {
		rows = min(rc.Height, termH)
	}
	return cols, rows
}

func runTerminal(ctx context.Context, mesh *models.Mesh, cfg *config.Config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Warn("terminal shutdown", zap.Error(err))
		}
	}()

	cols, rows := gridSize(cfg.Render, width, height)
	v, err := newViewer(mesh, cfg, cols, rows)
	if err != nil {
		return err
	}
	s := newSession(v, cfg.Animation)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Animation.FPS))
	defer ticker.Stop()

	events := term.Events()
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				cols, rows = gridSize(cfg.Render, width, height)
				v.resize(cols, rows)

			case uv.KeyPressEvent:
				if s.apply(keyCommand(ev)) {
					return nil
				}
			}

		case now := <-ticker.C:
			dt := now.Sub(lastFrame).Seconds()
			lastFrame = now
			// Clamp after a stall so the model does not jump
			s.tick(min(dt, 0.1))

			fb := v.frame(s.orientation())
			fb.Draw(term, uv.Rect(0, 0, cols, rows), v.pal)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
