package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/nfnt/resize"
	"github.com/philipparndt/meshview/pkg/mesh"
)

// SnapshotOptions configures an offscreen render
type SnapshotOptions struct {
	Size        int     // output width and height in pixels
	Pitch       float64 // radians
	Yaw         float64 // radians
	Supersample int     // render scale before downsampling, 1 disables
}

// MaxSnapshotPixels bounds the supersampled edge length of a snapshot
const MaxSnapshotPixels = 16384

// Validate rejects sizes that cannot be rendered or whose supersampled
// buffer would exceed MaxSnapshotPixels per side.
func (o SnapshotOptions) Validate() error {
	if o.Size <= 0 {
		return fmt.Errorf("invalid snapshot size %d", o.Size)
	}
	scale := max(o.Supersample, 1)
	if o.Size > MaxSnapshotPixels || scale > MaxSnapshotPixels/o.Size {
		return fmt.Errorf("snapshot size %d with supersample %d exceeds %d pixels", o.Size, scale, MaxSnapshotPixels)
	}
	return nil
}

// DefaultSnapshotOptions is a 3/4 view at 800x800 with 2x supersampling
func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{Size: 800, Pitch: 0.3, Yaw: 0.6, Supersample: 2}
}

// Snapshot rasterises every geometry of an asset into a square image.
// Meshes are filled with per-face shading, paths are drawn as lines and
// point clouds as small dots.
func Snapshot(asset mesh.Asset, opts SnapshotOptions) (image.Image, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	geometries := asset.Geometries()
	if len(geometries) == 0 {
		return nil, errors.New("nothing to render")
	}

	px := opts.Size * opts.Supersample
	img := image.NewRGBA(image.Rect(0, 0, px, px))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)

	zbuffer := make([]float64, px*px)
	for i := range zbuffer {
		zbuffer[i] = math.MaxFloat64
	}

	camera := NewCamera(asset.BoundingBox())
	camera.SetRotation(opts.Pitch, opts.Yaw)
	w, h := float64(px), float64(px)

	for gi, g := range geometries {
		base := ColorFor(gi)
		switch v := g.(type) {
		case *mesh.Mesh:
			for fi := range v.Faces {
				tri := v.Triangle(fi)
				x1, y1, z1 := camera.Project(tri.V1, w, h)
				x2, y2, z2 := camera.Project(tri.V2, w, h)
				x3, y3, z3 := camera.Project(tri.V3, w, h)
				fillTriangleWithDepth(img, zbuffer, x1, y1, z1, x2, y2, z2, x3, y3, z3, Shade(base, tri.Normal()))
			}
		case *mesh.Path:
			for _, s := range v.Segments {
				x1, y1, _ := camera.Project(v.Vertices[s[0]], w, h)
				x2, y2, _ := camera.Project(v.Vertices[s[1]], w, h)
				drawLine(img, int(x1), int(y1), int(x2), int(y2), base)
			}
		case *mesh.PointCloud:
			r := opts.Supersample
			for _, p := range v.Points {
				x, y, _ := camera.Project(p, w, h)
				fillRect(img, int(x)-r, int(y)-r, 2*r+1, base)
			}
		}
	}

	if opts.Supersample == 1 {
		return img, nil
	}
	return resize.Resize(uint(opts.Size), uint(opts.Size), img, resize.Lanczos3), nil
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

func fillRect(img *image.RGBA, x, y, size int, col color.RGBA) {
	rect := image.Rect(x, y, x+size, y+size).Intersect(img.Bounds())
	draw.Draw(img, rect, &image.Uniform{C: col}, image.Point{}, draw.Src)
}
