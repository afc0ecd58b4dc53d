package render

import (
	"image/color"
	"math"

	"github.com/philipparndt/meshview/pkg/geometry"
)

// Background is the viewport clear colour
var Background = color.RGBA{15, 18, 25, 255}

// palette gives each geometry of a scene its own base colour
var palette = []color.RGBA{
	{100, 120, 200, 255},
	{200, 140, 90, 255},
	{110, 180, 120, 255},
	{190, 100, 160, 255},
	{200, 190, 90, 255},
	{90, 180, 190, 255},
}

// ColorFor returns the base colour of the i-th geometry
func ColorFor(i int) color.RGBA {
	return palette[i%len(palette)]
}

// lightDir is the fixed key light used for baked shading
var lightDir = geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

// Shade applies two-sided diffuse lighting with a 30% ambient floor
func Shade(base color.RGBA, normal geometry.Vector3) color.RGBA {
	intensity := math.Max(0.3, math.Abs(normal.Dot(lightDir)))
	return color.RGBA{
		R: uint8(float64(base.R) * intensity),
		G: uint8(float64(base.G) * intensity),
		B: uint8(float64(base.B) * intensity),
		A: 255,
	}
}
