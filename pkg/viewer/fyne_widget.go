package viewer

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/render"
)

// ModelRenderer draws the wireframe of an asset with a software projection
type ModelRenderer struct {
	widget.BaseWidget
	camera *render.Camera
	edges  []render.Edge
	points []render.Point

	lines   []*canvas.Line
	markers []*canvas.Circle
	width   float64
	height  float64
}

// NewModelRenderer creates a wireframe widget for an asset
func NewModelRenderer(asset mesh.Asset) *ModelRenderer {
	r := &ModelRenderer{}
	r.ExtendBaseWidget(r)
	r.setAsset(asset)
	return r
}

// SetAsset replaces the displayed asset and reframes the camera.
// It must be called on the fyne main goroutine.
func (r *ModelRenderer) SetAsset(asset mesh.Asset) {
	r.setAsset(asset)
	r.Render(r.width, r.height)
}

func (r *ModelRenderer) setAsset(asset mesh.Asset) {
	r.camera = render.NewCamera(asset.BoundingBox())
	r.camera.SetRotation(0.3, 0.3)
	r.edges = render.Edges(asset)
	r.points = render.Points(asset)
}

// CreateRenderer creates the renderer for the widget
func (r *ModelRenderer) CreateRenderer() fyne.WidgetRenderer {
	return &modelWidgetRenderer{renderer: r}
}

// Render projects all edges and points for the given viewport size
func (r *ModelRenderer) Render(width, height float64) {
	r.width = width
	r.height = height
	if width <= 0 || height <= 0 {
		return
	}

	r.lines = r.lines[:0]
	for _, e := range r.edges {
		x1, y1, z1 := r.camera.Project(e.A, width, height)
		x2, y2, z2 := r.camera.Project(e.B, width, height)
		if z1 <= 0 || z2 <= 0 {
			continue
		}

		line := canvas.NewLine(r.depthShade(e.Color, (z1+z2)/2))
		line.StrokeWidth = 1
		line.Position1 = fyne.NewPos(float32(x1), float32(y1))
		line.Position2 = fyne.NewPos(float32(x2), float32(y2))
		r.lines = append(r.lines, line)
	}

	r.markers = r.markers[:0]
	for _, p := range r.points {
		x, y, z := r.camera.Project(p.Position, width, height)
		if z <= 0 {
			continue
		}
		marker := canvas.NewCircle(r.depthShade(p.Color, z))
		size := float32(4)
		marker.Resize(fyne.NewSize(size, size))
		marker.Move(fyne.NewPos(float32(x)-size/2, float32(y)-size/2))
		r.markers = append(r.markers, marker)
	}

	r.Refresh()
}

// depthShade dims colours that are further away than the orbit target
func (r *ModelRenderer) depthShade(base color.RGBA, depth float64) color.RGBA {
	k := math.Max(0.35, math.Min(1.0, 1.5-depth/r.camera.Distance))
	return color.RGBA{
		R: uint8(float64(base.R) * k),
		G: uint8(float64(base.G) * k),
		B: uint8(float64(base.B) * k),
		A: 255,
	}
}

// Dragged rotates the camera
func (r *ModelRenderer) Dragged(event *fyne.DragEvent) {
	r.camera.Rotate(float64(-event.Dragged.DY)*0.01, float64(event.Dragged.DX)*0.01)
	r.Render(r.width, r.height)
}

// DragEnd handles the end of a drag event
func (r *ModelRenderer) DragEnd() {}

// Scrolled zooms the camera
func (r *ModelRenderer) Scrolled(event *fyne.ScrollEvent) {
	delta := -float64(event.Scrolled.DY) * 0.001
	r.camera.Zoom(delta)
	r.Render(r.width, r.height)
}

// DoubleTapped resets the camera to its initial view
func (r *ModelRenderer) DoubleTapped(*fyne.PointEvent) {
	r.camera.Reset()
	r.camera.SetRotation(0.3, 0.3)
	r.Render(r.width, r.height)
}

// modelWidgetRenderer implements fyne.WidgetRenderer
type modelWidgetRenderer struct {
	renderer *ModelRenderer
	objects  []fyne.CanvasObject
}

func (m *modelWidgetRenderer) Layout(size fyne.Size) {
	m.renderer.Render(float64(size.Width), float64(size.Height))
}

func (m *modelWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (m *modelWidgetRenderer) Refresh() {
	m.objects = make([]fyne.CanvasObject, 0, len(m.renderer.lines)+len(m.renderer.markers))
	for _, line := range m.renderer.lines {
		m.objects = append(m.objects, line)
	}
	for _, marker := range m.renderer.markers {
		m.objects = append(m.objects, marker)
	}
	canvas.Refresh(m.renderer)
}

func (m *modelWidgetRenderer) Objects() []fyne.CanvasObject {
	return m.objects
}

func (m *modelWidgetRenderer) Destroy() {}
