// Package loader maps file extensions to format loaders and performs the
// capability check that runs before any file is read.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/philipparndt/meshview/pkg/gltfscene"
	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/obj"
	"github.com/philipparndt/meshview/pkg/openscad"
	"github.com/philipparndt/meshview/pkg/stl"
)

// ErrUnsupportedFormat is returned for extensions no loader handles
var ErrUnsupportedFormat = errors.New("unsupported file type")

// MissingDependencyError reports that a loader cannot run because something
// it needs is not installed
type MissingDependencyError struct {
	Name string
	Hint string
	Err  error
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency %s: %v", e.Name, e.Err)
}

func (e *MissingDependencyError) Unwrap() error {
	return e.Err
}

// Loader reads one file format
type Loader interface {
	// Name is a short human readable format name
	Name() string
	// Available returns a *MissingDependencyError when the loader cannot run
	Available() error
	Load(ctx context.Context, path string) (mesh.Asset, error)
}

// Registry maps lower-case extensions (with dot) to loaders
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Default returns a registry with every built-in format registered
func Default() *Registry {
	r := NewRegistry()
	r.Register(Func("Wavefront OBJ", func(_ context.Context, path string) (mesh.Asset, error) {
		return obj.Parse(path)
	}), ".obj")
	r.Register(Func("STL", func(_ context.Context, path string) (mesh.Asset, error) {
		return stl.Parse(path)
	}), ".stl")
	r.Register(Func("glTF", func(_ context.Context, path string) (mesh.Asset, error) {
		return gltfscene.Parse(path)
	}), ".gltf", ".glb")
	r.Register(NewOpenSCAD(openscad.DefaultBinary), ".scad")
	return r
}

// Register associates a loader with one or more extensions
func (r *Registry) Register(l Loader, exts ...string) {
	for _, ext := range exts {
		r.loaders[strings.ToLower(ext)] = l
	}
}

// Extensions lists the registered extensions in sorted order
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Lookup returns the loader for path's extension
func (r *Registry) Lookup(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := r.loaders[ext]
	if !ok {
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s (expected one of %s)", ErrUnsupportedFormat, ext, strings.Join(r.Extensions(), ", "))
	}
	return l, nil
}

// Probe is the startup capability check. It returns a
// *MissingDependencyError only when a loader exists for path but cannot
// run; unknown formats are left for Load to report.
func (r *Registry) Probe(path string) error {
	l, err := r.Lookup(path)
	if err != nil {
		return nil
	}
	return l.Available()
}

// Load reads path with the loader registered for its extension
func (r *Registry) Load(ctx context.Context, path string) (mesh.Asset, error) {
	l, err := r.Lookup(path)
	if err != nil {
		return mesh.Asset{}, err
	}
	asset, err := l.Load(ctx, path)
	if err != nil {
		return mesh.Asset{}, fmt.Errorf("%s: %w", l.Name(), err)
	}
	return asset, nil
}

type funcLoader struct {
	name string
	load func(ctx context.Context, path string) (mesh.Asset, error)
}

// Func adapts a function into a Loader that is always available
func Func(name string, load func(ctx context.Context, path string) (mesh.Asset, error)) Loader {
	return &funcLoader{name: name, load: load}
}

func (f *funcLoader) Name() string     { return f.name }
func (f *funcLoader) Available() error { return nil }

func (f *funcLoader) Load(ctx context.Context, path string) (mesh.Asset, error) {
	return f.load(ctx, path)
}
