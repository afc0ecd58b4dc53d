package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/philipparndt/meshview/pkg/loader"
	"github.com/philipparndt/meshview/pkg/lod"
	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/viewer"
)

// DefaultFile is loaded when no path is given. It is resolved against the
// parent of the directory that holds the executable.
const DefaultFile = "simple_visualizer_output.obj"

// Config holds the options of a viewer run
type Config struct {
	Path   string
	Watch  bool
	Width  int
	Height int

	// Simplify is the fraction of faces kept for display, in (0, 1].
	// Zero means no reduction.
	Simplify float64
}

// App runs the pipeline against a loader registry
type App struct {
	out         io.Writer
	registry    *loader.Registry
	defaultPath func() (string, error)
}

// Option customises an App
type Option func(*App)

// WithDefaultPath overrides how the default input path is computed
func WithDefaultPath(fn func() (string, error)) Option {
	return func(a *App) { a.defaultPath = fn }
}

// New creates an App that prints its messages to out
func New(out io.Writer, registry *loader.Registry, opts ...Option) *App {
	a := &App{
		out:         out,
		registry:    registry,
		defaultPath: DefaultPath,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Loaded is the result of a successful load
type Loaded struct {
	Path  string
	Asset mesh.Asset
}

// Name is the base name shown in summaries and window titles
func (l *Loaded) Name() string {
	return filepath.Base(l.Path)
}

// DefaultPath returns ../simple_visualizer_output.obj relative to the
// directory of the running executable, with symlinks resolved
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "..", DefaultFile), nil
}

// Resolve turns the argument (or the default when empty) into an absolute path
func (a *App) Resolve(arg string) (string, error) {
	path := arg
	if path == "" {
		p, err := a.defaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return abs, nil
}

// Open resolves, checks, probes and loads the input, then prints the
// summary line. Every failure is an *ExitError.
func (a *App) Open(ctx context.Context, arg string) (*Loaded, error) {
	path, err := a.Resolve(arg)
	if err != nil {
		return nil, &ExitError{Code: LoadFailure, Message: fmt.Sprintf("Failed to load mesh: %v", err), Err: err}
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ExitError{Code: FileNotFound, Message: fmt.Sprintf("Error: file not found: %s", path), Err: err}
		}
		return nil, &ExitError{Code: LoadFailure, Message: fmt.Sprintf("Failed to load mesh: %v", err), Err: err}
	}

	if err := a.registry.Probe(path); err != nil {
		var missing *loader.MissingDependencyError
		if errors.As(err, &missing) {
			return nil, &ExitError{
				Code:    MissingDependency,
				Message: fmt.Sprintf("Missing dependency: %s\nInstall with: %s", missing.Name, missing.Hint),
				Err:     err,
			}
		}
		return nil, &ExitError{Code: LoadFailure, Message: fmt.Sprintf("Failed to load mesh: %v", err), Err: err}
	}

	slog.Debug("Loading file", "path", path)
	asset, err := a.registry.Load(ctx, path)
	if err != nil {
		return nil, &ExitError{Code: LoadFailure, Message: fmt.Sprintf("Failed to load mesh: %v", err), Err: err}
	}

	loaded := &Loaded{Path: path, Asset: asset}
	fmt.Fprintln(a.out, FormatSummary(loaded.Name(), asset))
	return loaded, nil
}

// Show hands a loaded asset to the backend and blocks until the window
// is closed
func (a *App) Show(ctx context.Context, loaded *Loaded, backend viewer.Backend, cfg Config) error {
	opts := viewer.Options{Width: cfg.Width, Height: cfg.Height}

	asset, err := displayAsset(loaded.Asset, cfg.Simplify)
	if err != nil {
		return &ExitError{Code: DisplayFailure, Message: fmt.Sprintf("Display failed: %v", err), Err: err}
	}

	if cfg.Watch {
		reloads, stop, err := a.watch(ctx, loaded.Path, cfg.Simplify)
		if err != nil {
			slog.Warn("Auto-reload disabled", "error", err)
		} else {
			defer stop()
			opts.Reload = reloads
		}
	}

	slog.Debug("Opening viewer", "backend", backend.Name(), "width", opts.Width, "height", opts.Height)
	if err := backend.Show(ctx, "meshview - "+loaded.Name(), asset, opts); err != nil {
		return &ExitError{
			Code:    DisplayFailure,
			Message: fmt.Sprintf("Display failed: %v\n%s", err, DisplayHint),
			Err:     err,
		}
	}
	return nil
}

// displayAsset applies the optional level-of-detail reduction
func displayAsset(asset mesh.Asset, factor float64) (mesh.Asset, error) {
	if factor == 0 {
		return asset, nil
	}
	reduced, err := lod.Simplify(asset, factor)
	if err != nil {
		return mesh.Asset{}, err
	}
	if before, ok := asset.Counts(); ok {
		after, _ := reduced.Counts()
		slog.Info("Simplified model for display", "faces", before.Faces, "shown", after.Faces)
	}
	return reduced, nil
}

// Run executes the whole pipeline
func (a *App) Run(ctx context.Context, cfg Config, backend viewer.Backend) error {
	loaded, err := a.Open(ctx, cfg.Path)
	if err != nil {
		return err
	}
	return a.Show(ctx, loaded, backend, cfg)
}
