// Package viewer opens interactive windows for loaded assets.
//
// Two backends are available: raylib, which draws a lit mesh with an
// orbit camera, and fyne, which draws a projected wireframe inside a
// regular desktop window. Both refuse to start when no display is
// reachable so the caller can report a clean error instead of a crash.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/philipparndt/meshview/pkg/mesh"
)

// ErrNoDisplay is returned when the process has no display to open a window on
var ErrNoDisplay = errors.New("no display available")

// ErrUnknownBackend is returned by Lookup for names that are not registered
var ErrUnknownBackend = errors.New("unknown backend")

// Options configure a viewer window
type Options struct {
	Width  int
	Height int

	// Reload delivers replacement assets while the window is open.
	// A nil channel disables reloading.
	Reload <-chan mesh.Asset
}

// Backend displays an asset until the window is closed or ctx is cancelled
type Backend interface {
	Name() string
	Show(ctx context.Context, title string, asset mesh.Asset, opts Options) error
}

var backends = map[string]Backend{}

func register(b Backend) {
	backends[b.Name()] = b
}

// Names returns the registered backend names in sorted order
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the backend registered under name
func Lookup(name string) (Backend, error) {
	b, ok := backends[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	return b, nil
}

// ProbeDisplay reports ErrNoDisplay on X11/Wayland systems without a display
func ProbeDisplay() error {
	return probeDisplay(runtime.GOOS, os.Getenv)
}

func probeDisplay(goos string, getenv func(string) string) error {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		if getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == "" {
			return fmt.Errorf("%w: neither DISPLAY nor WAYLAND_DISPLAY is set", ErrNoDisplay)
		}
	}
	return nil
}

// guard runs fn and converts a panic into an error
func guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s backend panicked: %v", name, r)
		}
	}()
	return fn()
}

func withDefaults(opts Options) Options {
	if opts.Width <= 0 {
		opts.Width = 1400
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	return opts
}

// summary is the multi-line description shown inside the viewer
func summary(asset mesh.Asset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Kind: %s\n", asset.Kind())
	if c, ok := asset.Counts(); ok {
		fmt.Fprintf(&b, "Vertices: %d\nFaces: %d\n", c.Vertices, c.Faces)
	} else {
		b.WriteString("Vertices: unknown\nFaces: unknown\n")
	}
	if scene, ok := asset.Scene(); ok {
		fmt.Fprintf(&b, "Objects: %d\n", scene.Len())
	}
	size := asset.BoundingBox().Size()
	fmt.Fprintf(&b, "Size: %.2f x %.2f x %.2f", size.X, size.Y, size.Z)
	return b.String()
}
