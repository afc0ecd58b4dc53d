package viewer

import (
	"errors"
	"strings"
	"testing"

	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestProbeDisplay(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		vars    map[string]string
		wantErr bool
	}{
		{"linux headless", "linux", nil, true},
		{"linux x11", "linux", map[string]string{"DISPLAY": ":0"}, false},
		{"linux wayland", "linux", map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, false},
		{"freebsd headless", "freebsd", nil, true},
		{"darwin", "darwin", nil, false},
		{"windows", "windows", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := probeDisplay(tt.goos, env(tt.vars))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoDisplay)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"fyne", "raylib"}, Names())

	b, err := Lookup("raylib")
	require.NoError(t, err)
	assert.Equal(t, "raylib", b.Name())

	b, err = Lookup("FYNE")
	require.NoError(t, err)
	assert.Equal(t, "fyne", b.Name())

	_, err = Lookup("vulkan")
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Contains(t, err.Error(), "fyne, raylib")
}

func TestGuardRecoversPanic(t *testing.T) {
	err := guard("test", func() error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test backend panicked: boom")

	want := errors.New("plain")
	assert.Equal(t, want, guard("test", func() error { return want }))
}

func TestWithDefaults(t *testing.T) {
	opts := withDefaults(Options{})
	assert.Equal(t, 1400, opts.Width)
	assert.Equal(t, 900, opts.Height)

	opts = withDefaults(Options{Width: 640, Height: 480})
	assert.Equal(t, 640, opts.Width)
	assert.Equal(t, 480, opts.Height)
}

func TestSummary(t *testing.T) {
	m := &mesh.Mesh{
		Name: "tri",
		Vertices: []geometry.Vector3{
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(2, 0, 0),
			geometry.NewVector3(0, 1, 0),
		},
		Faces: []mesh.Face{{0, 1, 2}},
	}
	text := summary(mesh.FromMesh(m))
	assert.Contains(t, text, "Kind: mesh")
	assert.Contains(t, text, "Vertices: 3\nFaces: 1")
	assert.Contains(t, text, "Size: 2.00 x 1.00 x 0.00")

	cloud := &mesh.PointCloud{Name: "dots", Points: []geometry.Vector3{geometry.NewVector3(1, 1, 1)}}
	text = summary(mesh.FromGeometry(cloud))
	assert.True(t, strings.HasPrefix(text, "Kind: unknown\nVertices: unknown\nFaces: unknown"))
}
