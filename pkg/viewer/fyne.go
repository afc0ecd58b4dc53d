package viewer

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/meshview/pkg/mesh"
)

func init() {
	register(fyneBackend{})
}

type fyneBackend struct{}

func (fyneBackend) Name() string { return "fyne" }

// Show opens a fyne window with the wireframe on the left and the model
// summary on the right. It blocks until the window is closed.
func (b fyneBackend) Show(ctx context.Context, title string, asset mesh.Asset, opts Options) error {
	if err := ProbeDisplay(); err != nil {
		return err
	}
	opts = withDefaults(opts)

	return guard(b.Name(), func() error {
		a := fyneapp.New()
		w := a.NewWindow(title)

		renderer := NewModelRenderer(asset)
		info := widget.NewLabel(summary(asset))

		instructions := widget.NewLabel(
			"Instructions:\n" +
				"• Drag to rotate the view\n" +
				"• Scroll to zoom in/out\n" +
				"• Double-click to reset the view",
		)
		instructions.Wrapping = fyne.TextWrapWord

		infoPanel := container.NewVBox(
			widget.NewLabel("Model Information:"),
			widget.NewSeparator(),
			info,
			widget.NewSeparator(),
			instructions,
		)
		infoScroll := container.NewVScroll(infoPanel)
		infoScroll.SetMinSize(fyne.NewSize(260, 0))

		w.SetContent(container.NewBorder(nil, nil, nil, infoScroll, renderer))
		w.Resize(fyne.NewSize(float32(opts.Width), float32(opts.Height)))

		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case <-done:
					return
				case <-ctx.Done():
					fyne.Do(a.Quit)
					return
				case next, ok := <-opts.Reload:
					if !ok {
						return
					}
					slog.Debug("Applying reloaded model", "backend", b.Name())
					fyne.Do(func() {
						renderer.SetAsset(next)
						info.SetText(summary(next))
					})
				}
			}
		}()

		w.ShowAndRun()
		return nil
	})
}
