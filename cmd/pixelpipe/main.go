// pixelpipe - software rasterizer for the terminal
// Renders a YAML scene with the pixelpipe pipeline, either live in the
// terminal with half-block cells or as a sequence of PNG frames.
//
// Controls (terminal mode):
//
//	Space   - Random spin impulse
//	R       - Reset spin
//	Q/Esc   - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/pixelpipe/pkg/math3d"
	"github.com/taigrr/pixelpipe/pkg/render"
	"github.com/taigrr/pixelpipe/pkg/scene"
)

var (
	scenePath = flag.String("scene", "", "Scene file (YAML); empty draws the built-in cube")
	targetFPS = flag.Int("fps", 30, "Target FPS (also the animation step for -out)")
	frames    = flag.Int("frames", 1, "Number of frames to write with -out")
	outDir    = flag.String("out", "", "Write PNG frames to this directory instead of the terminal")
	scale     = flag.Int("scale", 4, "PNG upscale factor")
	width     = flag.Int("width", 0, "Override the scene width for -out")
	height    = flag.Int("height", 0, "Override the scene height for -out")
	verbose   = flag.Bool("v", false, "Debug logging, including per-frame statistics")
	logPath   = flag.String("log", "", "Log file (terminal mode discards logs unless set)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pixelpipe - software rasterizer for the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pixelpipe [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Space  - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R      - Reset spin\n")
		fmt.Fprintf(os.Stderr, "  Q/Esc  - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *targetFPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", *targetFPS)
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	sc := scene.Default()
	if *scenePath != "" {
		if sc, err = scene.Load(*scenePath); err != nil {
			return err
		}
	}
	slog.Info("scene loaded", "actors", len(sc.Actors), "triangles", sc.Triangles())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *outDir != "" {
		if *width > 0 {
			sc.Config.Width = *width
		}
		if *height > 0 {
			sc.Config.Height = *height
		}
		return exportFrames(ctx, sc, exportOptions{
			Dir:    *outDir,
			Frames: *frames,
			Scale:  *scale,
			FPS:    *targetFPS,
		}, os.Stderr)
	}
	return runTerminal(ctx, sc)
}

// setupLogging installs a text logger for both slog's default and the render
// package. Terminal mode owns stdout and stderr, so it logs only to -log.
func setupLogging() (func(), error) {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case *logPath != "":
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case *outDir == "":
		w = io.Discard
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger)
	return closeFn, nil
}

type exportOptions struct {
	Dir    string
	Frames int
	Scale  int
	FPS    int
}

// exportFrames renders opts.Frames frames, ticking the scene by one FPS step
// between them, and writes them as frame_NNNN.png.
func exportFrames(ctx context.Context, sc *scene.Scene, opts exportOptions, progress io.Writer) error {
	if opts.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", opts.Frames)
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	engine, err := sc.Build()
	if err != nil {
		return err
	}

	pb := progressbar.NewOptions(opts.Frames,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionShowCount(),
	)
	defer pb.Close()

	dt := 1 / float64(opts.FPS)
	for i := range opts.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			sc.Tick(dt)
		}

		fb := engine.RenderFrame()
		path := filepath.Join(opts.Dir, fmt.Sprintf("frame_%04d.png", i))
		if err := fb.SavePNG(path, opts.Scale); err != nil {
			return err
		}
		pb.Add(1)
	}

	slog.Info("export complete", "frames", opts.Frames, "dir", opts.Dir,
		"width", sc.Config.Width, "height", sc.Config.Height)
	return nil
}

// buildForTerminal sizes the scene to fill cols×rows cells and creates a new
// engine for it. Engine configuration is fixed per session, so a resize
// starts a new one.
func buildForTerminal(sc *scene.Scene, cols, rows int) (*render.Engine, error) {
	sc.Config.Width, sc.Config.Height = render.TerminalSize(max(cols, 1), max(rows, 1))
	return sc.Build()
}

func runTerminal(ctx context.Context, sc *scene.Scene) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	engine, err := buildForTerminal(sc, cols, rows)
	if err != nil {
		return err
	}

	// Events are forwarded so that all scene and engine state stays on the
	// render loop goroutine.
	resizes := make(chan uv.WindowSizeEvent, 1)
	keys := make(chan uv.KeyPressEvent, 8)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case resizes <- ev:
				case <-ctx.Done():
					return
				}
			case uv.KeyPressEvent:
				if ev.MatchString("escape", "ctrl+c", "q") {
					cancel()
					return
				}
				select {
				case keys <- ev:
				default: // Drop keys while a frame is slow
				}
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(*targetFPS))
	defer ticker.Stop()
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-resizes:
			cols, rows = ev.Width, ev.Height
			term.Erase()
			term.Resize(cols, rows)
			if engine, err = buildForTerminal(sc, cols, rows); err != nil {
				return err
			}
			slog.Debug("resized", "cols", cols, "rows", rows)

		case ev := <-keys:
			switch {
			case ev.MatchString("space"):
				for _, a := range sc.Actors {
					a.Kick(math3d.V3(
						(rand.Float64()-0.5)*360,
						(rand.Float64()-0.5)*360,
						(rand.Float64()-0.5)*360,
					))
				}
			case ev.MatchString("r"):
				for _, a := range sc.Actors {
					a.SetSpin(math3d.V3(a.Spin.X.Target, a.Spin.Y.Target, a.Spin.Z.Target))
				}
			}

		case now := <-ticker.C:
			dt := now.Sub(lastFrame).Seconds()
			lastFrame = now
			if dt > 0.1 {
				dt = 0.1
			}

			sc.Tick(dt)
			term.Draw(engine.RenderFrame())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
