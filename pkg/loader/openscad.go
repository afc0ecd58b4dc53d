package loader

import (
	"context"
	"path/filepath"

	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/openscad"
)

// OpenSCAD renders .scad sources through the external openscad executable
type OpenSCAD struct {
	binary string
}

// NewOpenSCAD creates a loader that runs the given executable
func NewOpenSCAD(binary string) *OpenSCAD {
	return &OpenSCAD{binary: binary}
}

// Name returns the format name
func (o *OpenSCAD) Name() string { return "OpenSCAD" }

// Available checks that the executable is on PATH
func (o *OpenSCAD) Available() error {
	if err := openscad.NewRenderer(".").WithBinary(o.binary).Available(); err != nil {
		return &MissingDependencyError{Name: o.binary, Hint: openscad.InstallHint, Err: err}
	}
	return nil
}

// Load renders path and parses the resulting STL
func (o *OpenSCAD) Load(ctx context.Context, path string) (mesh.Asset, error) {
	return openscad.NewRenderer(filepath.Dir(path)).WithBinary(o.binary).Load(ctx, path)
}
