package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/openscad"
	"github.com/philipparndt/meshview/pkg/watcher"
)

const reloadDebounce = 500 * time.Millisecond

// watchFiles returns the files whose change should trigger a reload.
// OpenSCAD sources bring their use/include dependencies along.
func watchFiles(path string) ([]string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".scad") {
		return []string{path}, nil
	}
	deps, err := openscad.NewRenderer(filepath.Dir(path)).ResolveDependencies(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}
	return deps, nil
}

// watch reloads path whenever a watched file changes and publishes the new
// asset. Only the newest pending asset is kept. A failed reload is logged
// and the viewer keeps the previous model.
func (a *App) watch(ctx context.Context, path string, simplify float64) (<-chan mesh.Asset, func(), error) {
	files, err := watchFiles(path)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	reloads := make(chan mesh.Asset, 1)

	fw, err := watcher.NewFileWatcher(reloadDebounce, func(changed string) {
		slog.Info("File changed, reloading", "file", changed)
		asset, err := a.registry.Load(ctx, path)
		if err != nil {
			slog.Warn("Reload failed, keeping previous model", "file", path, "error", err)
			return
		}
		slog.Info(FormatSummary(filepath.Base(path), asset))
		if asset, err = displayAsset(asset, simplify); err != nil {
			slog.Warn("Reload failed, keeping previous model", "file", path, "error", err)
			return
		}

		select {
		case <-reloads:
		default:
		}
		select {
		case reloads <- asset:
		default:
		}
	})
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if err := fw.Watch(files...); err != nil {
		cancel()
		fw.Close()
		return nil, nil, err
	}

	watched := fw.Files()
	slices.Sort(watched)
	for _, f := range watched {
		slog.Info("Watching file for changes", "file", f)
	}
	go fw.Run(ctx)

	stop := func() {
		cancel()
		fw.Close()
	}
	return reloads, stop, nil
}
