package viewer

import (
	"context"
	"errors"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/render"
)

func init() {
	register(raylibBackend{})
}

type raylibBackend struct{}

func (raylibBackend) Name() string { return "raylib" }

// Show opens a raylib window and runs the render loop on the calling
// goroutine, which must be the main OS thread.
func (b raylibBackend) Show(ctx context.Context, title string, asset mesh.Asset, opts Options) error {
	if err := ProbeDisplay(); err != nil {
		return err
	}
	opts = withDefaults(opts)

	return guard(b.Name(), func() error {
		rl.SetTraceLogLevel(rl.LogWarning)
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
		rl.InitWindow(int32(opts.Width), int32(opts.Height), title)
		if !rl.IsWindowReady() {
			return errors.New("failed to initialize raylib window")
		}
		defer rl.CloseWindow()
		rl.SetTargetFPS(60)

		v := &raylibView{
			scene:         newScene(asset),
			orbit:         newOrbit(asset.BoundingBox()),
			material:      rl.LoadMaterialDefault(),
			showWireframe: true,
			showFilled:    true,
			showInfo:      true,
		}
		defer v.scene.unload()

		v.run(ctx, opts.Reload)
		return nil
	})
}

type raylibView struct {
	scene    *scene
	orbit    *orbit
	material rl.Material

	showWireframe bool
	showFilled    bool
	showInfo      bool
}

func (v *raylibView) run(ctx context.Context, reload <-chan mesh.Asset) {
	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-reload:
			if ok {
				v.swap(next)
			} else {
				reload = nil
			}
		default:
		}

		v.handleInput()
		v.orbit.update()
		v.draw()
	}
}

// swap replaces the displayed asset; GPU uploads must happen on this thread
func (v *raylibView) swap(asset mesh.Asset) {
	slog.Debug("Applying reloaded model", "backend", "raylib")
	v.scene.unload()
	v.scene = newScene(asset)
	v.orbit.frame(asset.BoundingBox())
}

func (v *raylibView) handleInput() {
	if rl.IsKeyPressed(rl.KeyHome) {
		v.orbit.reset()
	}
	if rl.IsKeyPressed(rl.KeyW) {
		v.showWireframe = !v.showWireframe
	}
	if rl.IsKeyPressed(rl.KeyF) {
		v.showFilled = !v.showFilled
	}
	if rl.IsKeyPressed(rl.KeyI) {
		v.showInfo = !v.showInfo
	}

	shiftPressed := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	leftDown := rl.IsMouseButtonDown(rl.MouseLeftButton)
	switch {
	case (leftDown && shiftPressed) || rl.IsMouseButtonDown(rl.MouseMiddleButton):
		v.orbit.pan(rl.GetMouseDelta())
	case leftDown:
		v.orbit.rotate(rl.GetMouseDelta())
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.orbit.zoom(wheel)
	}
}

func (v *raylibView) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(render.Background)

	rl.BeginMode3D(v.orbit.camera)
	if v.showFilled {
		for _, g := range v.scene.meshes {
			rl.DrawMesh(g.mesh, v.material, rl.MatrixIdentity())
		}
	}
	if v.showWireframe || len(v.scene.meshes) == 0 {
		v.drawWireframe()
	}
	v.drawPoints()
	rl.EndMode3D()

	v.drawUI()
	rl.EndDrawing()
}

// drawWireframe draws edges darker when the filled surface is visible
func (v *raylibView) drawWireframe() {
	dim := v.showFilled && len(v.scene.meshes) > 0
	for _, e := range v.scene.edges {
		col := e.Color
		if dim {
			col = rl.NewColor(col.R/2, col.G/2, col.B/2, 200)
		}
		rl.DrawLine3D(toRL(e.A), toRL(e.B), col)
	}
}

func (v *raylibView) drawPoints() {
	for _, p := range v.scene.points {
		rl.DrawPoint3D(toRL(p.Position), p.Color)
	}
}

func (v *raylibView) drawUI() {
	rl.DrawText("Drag: rotate  Shift+Drag: pan  Wheel: zoom  Home: reset  W/F: wireframe/fill  I: info", 10, 10, 16, rl.LightGray)
	if v.showInfo {
		rl.DrawRectangle(10, 36, 260, 120, rl.NewColor(0, 0, 0, 180))
		rl.DrawText(v.scene.info, 20, 46, 16, rl.RayWhite)
	}
}
