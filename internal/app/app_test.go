package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/philipparndt/meshview/pkg/loader"
	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

// fakeBackend records what it was asked to show
type fakeBackend struct {
	err    error
	title  string
	asset  mesh.Asset
	opts   viewer.Options
	shown  int
	onShow func(opts viewer.Options) error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Show(_ context.Context, title string, asset mesh.Asset, opts viewer.Options) error {
	f.shown++
	f.title = title
	f.asset = asset
	f.opts = opts
	if f.onShow != nil {
		return f.onShow(opts)
	}
	return f.err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireExit(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T", err)
	assert.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestRunSuccess(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	var out bytes.Buffer
	backend := &fakeBackend{}

	err := New(&out, loader.Default()).Run(context.Background(), Config{Path: path, Width: 640, Height: 480}, backend)
	require.NoError(t, err)

	assert.Equal(t, "Loaded: quad.obj - vertices=4, faces=2\n", out.String())
	assert.Equal(t, 1, backend.shown)
	assert.Equal(t, "meshview - quad.obj", backend.title)
	assert.Equal(t, mesh.KindMesh, backend.asset.Kind())
	assert.Equal(t, 640, backend.opts.Width)
	assert.Equal(t, 480, backend.opts.Height)
	assert.Nil(t, backend.opts.Reload)
}

func TestRunRelativePathIsResolved(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	t.Chdir(filepath.Dir(path))

	var out bytes.Buffer
	loaded, err := New(&out, loader.Default()).Open(context.Background(), "quad.obj")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(loaded.Path))
	assert.Equal(t, "quad.obj", loaded.Name())
}

func TestRunFileNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.obj")
	var out bytes.Buffer
	backend := &fakeBackend{}

	err := New(&out, loader.Default()).Run(context.Background(), Config{Path: missing}, backend)
	exitErr := requireExit(t, err, FileNotFound)
	assert.Equal(t, "Error: file not found: "+missing, exitErr.Message)
	assert.Empty(t, out.String())
	assert.Zero(t, backend.shown)
}

func TestRunDefaultPathNotFound(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, DefaultFile)
	var out bytes.Buffer

	a := New(&out, loader.Default(), WithDefaultPath(func() (string, error) { return defaultPath, nil }))
	err := a.Run(context.Background(), Config{}, &fakeBackend{})
	exitErr := requireExit(t, err, FileNotFound)
	assert.Contains(t, exitErr.Message, defaultPath)
}

func TestRunMissingDependency(t *testing.T) {
	path := writeFile(t, "part.scad", "cube(10);\n")
	reg := loader.NewRegistry()
	reg.Register(loader.NewOpenSCAD("meshview-test-no-such-openscad"), ".scad")
	var out bytes.Buffer
	backend := &fakeBackend{}

	err := New(&out, reg).Run(context.Background(), Config{Path: path}, backend)
	exitErr := requireExit(t, err, MissingDependency)
	assert.Equal(t, "Missing dependency: meshview-test-no-such-openscad\nInstall with: https://openscad.org/downloads.html", exitErr.Message)
	assert.Empty(t, out.String())
	assert.Zero(t, backend.shown)
}

func TestRunMissingDependencySkipsLoad(t *testing.T) {
	path := writeFile(t, "model.xyz", "data")
	loads := 0
	reg := loader.NewRegistry()
	reg.Register(&unavailableLoader{loads: &loads}, ".xyz")

	err := New(&bytes.Buffer{}, reg).Run(context.Background(), Config{Path: path}, &fakeBackend{})
	requireExit(t, err, MissingDependency)
	assert.Zero(t, loads)
}

type unavailableLoader struct {
	loads *int
}

func (u *unavailableLoader) Name() string { return "XYZ" }

func (u *unavailableLoader) Available() error {
	return &loader.MissingDependencyError{Name: "xyz-tool", Hint: "apt install xyz-tool", Err: errors.New("not found")}
}

func (u *unavailableLoader) Load(context.Context, string) (mesh.Asset, error) {
	*u.loads++
	return mesh.Asset{}, nil
}

func TestRunLoadFailure(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"index out of range", "broken.obj", "v 0 0 0\nf 1 2 3\n", "out of range"},
		{"unsupported extension", "model.xyz", "data", "unsupported file type"},
		{"truncated stl", "broken.stl", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0\n", "Failed to load mesh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			var out bytes.Buffer
			backend := &fakeBackend{}

			err := New(&out, loader.Default()).Run(context.Background(), Config{Path: path}, backend)
			exitErr := requireExit(t, err, LoadFailure)
			assert.Contains(t, exitErr.Message, "Failed to load mesh: ")
			assert.Contains(t, exitErr.Message, tt.contains)
			assert.Empty(t, out.String())
			assert.Zero(t, backend.shown)
		})
	}
}

func TestRunDisplayFailure(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	var out bytes.Buffer
	backend := &fakeBackend{err: viewer.ErrNoDisplay}

	err := New(&out, loader.Default()).Run(context.Background(), Config{Path: path}, backend)
	exitErr := requireExit(t, err, DisplayFailure)
	assert.ErrorIs(t, err, viewer.ErrNoDisplay)
	assert.Contains(t, exitErr.Message, "Display failed: no display available")
	assert.Contains(t, exitErr.Message, "meshview snapshot")
	// The summary is printed before the display is attempted
	assert.Equal(t, "Loaded: quad.obj - vertices=4, faces=2\n", out.String())
}

func TestRunUnknownCounts(t *testing.T) {
	path := writeFile(t, "cloud.obj", "v 0 0 0\nv 1 1 1\nv 2 2 2\n")
	var out bytes.Buffer
	backend := &fakeBackend{}

	err := New(&out, loader.Default()).Run(context.Background(), Config{Path: path}, backend)
	require.NoError(t, err)
	assert.Equal(t, "Loaded: cloud.obj - vertices=unknown, faces=unknown\n", out.String())
	assert.Equal(t, mesh.KindUnknown, backend.asset.Kind())
}

func TestRunSceneCounts(t *testing.T) {
	content := `o first
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
o second
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 4 5 6 7
o polyline
v 5 5 5
v 6 6 6
l 8 9
`
	path := writeFile(t, "scene.obj", content)
	var out bytes.Buffer

	loaded, err := New(&out, loader.Default()).Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, mesh.KindScene, loaded.Asset.Kind())
	assert.Equal(t, "Loaded: scene.obj - vertices=7, faces=3\n", out.String())
}

func TestShowWatchReloads(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	a := New(&bytes.Buffer{}, loader.Default())

	loaded, err := a.Open(context.Background(), path)
	require.NoError(t, err)

	triangle := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	backend := &fakeBackend{onShow: func(opts viewer.Options) error {
		require.NotNil(t, opts.Reload)
		require.NoError(t, os.WriteFile(path, []byte(triangle), 0o644))

		select {
		case next := <-opts.Reload:
			c, ok := next.Counts()
			require.True(t, ok)
			assert.Equal(t, mesh.Counts{Vertices: 3, Faces: 1}, c)
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("no reload received")
		}
	}}

	require.NoError(t, a.Show(context.Background(), loaded, backend, Config{Watch: true}))
}

func TestShowWatchKeepsModelOnReloadFailure(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	a := New(&bytes.Buffer{}, loader.Default())

	loaded, err := a.Open(context.Background(), path)
	require.NoError(t, err)

	triangle := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	backend := &fakeBackend{onShow: func(opts viewer.Options) error {
		require.NotNil(t, opts.Reload)
		require.NoError(t, os.WriteFile(path, []byte("f 1 2 3\n"), 0o644))

		select {
		case next := <-opts.Reload:
			return fmt.Errorf("unexpected reload after broken write: %v", next.Kind())
		case <-time.After(3 * reloadDebounce):
		}

		require.NoError(t, os.WriteFile(path, []byte(triangle), 0o644))
		select {
		case next := <-opts.Reload:
			c, ok := next.Counts()
			require.True(t, ok)
			assert.Equal(t, mesh.Counts{Vertices: 3, Faces: 1}, c)
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("no reload received")
		}
	}}

	require.NoError(t, a.Show(context.Background(), loaded, backend, Config{Watch: true}))
}

func TestWatchFiles(t *testing.T) {
	files, err := watchFiles("/models/quad.obj")
	require.NoError(t, err)
	assert.Equal(t, []string{"/models/quad.obj"}, files)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.scad"), []byte("module part() { cube(1); }\n"), 0o644))
	main := filepath.Join(dir, "main.scad")
	require.NoError(t, os.WriteFile(main, []byte("use <lib.scad>\npart();\n"), 0o644))

	files, err = watchFiles(main)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{main, filepath.Join(dir, "lib.scad")}, files)
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, DefaultFile, filepath.Base(path))

	exe, err := os.Executable()
	require.NoError(t, err)
	exe, err = filepath.EvalSymlinks(exe)
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(filepath.Dir(exe)), filepath.Dir(path))
}

func TestFormatSummary(t *testing.T) {
	m := &mesh.Mesh{Name: "empty"}
	assert.Equal(t, "Loaded: a.stl - vertices=0, faces=0", FormatSummary("a.stl", mesh.FromMesh(m)))
	assert.Equal(t, "Loaded: b.obj - vertices=unknown, faces=unknown", FormatSummary("b.obj", mesh.Asset{}))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("info", "json", &buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"value"`)

	buf.Reset()
	logger, err = NewLogger("WARN", "text", &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("careful")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=careful")

	_, err = NewLogger("loud", "text", &buf)
	assert.ErrorContains(t, err, "invalid log-level")
	_, err = NewLogger("info", "xml", &buf)
	assert.ErrorContains(t, err, "invalid log-format")
}

func TestShowSimplifyKeepsSummary(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	var out bytes.Buffer
	backend := &fakeBackend{}

	err := New(&out, loader.Default()).Run(context.Background(), Config{Path: path, Simplify: 1}, backend)
	require.NoError(t, err)
	assert.Equal(t, "Loaded: quad.obj - vertices=4, faces=2\n", out.String())
	c, ok := backend.asset.Counts()
	require.True(t, ok)
	assert.Equal(t, 2, c.Faces)
}

func TestShowSimplifyInvalidFactor(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	backend := &fakeBackend{}

	err := New(&bytes.Buffer{}, loader.Default()).Run(context.Background(), Config{Path: path, Simplify: 3}, backend)
	exitErr := requireExit(t, err, DisplayFailure)
	assert.Contains(t, exitErr.Message, "out of range")
	assert.Zero(t, backend.shown)
}
