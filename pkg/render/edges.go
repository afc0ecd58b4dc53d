package render

import (
	"image/color"

	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/philipparndt/meshview/pkg/mesh"
)

// Edge is a line segment of the wireframe with its geometry colour
type Edge struct {
	A, B  geometry.Vector3
	Color color.RGBA
}

// Edges returns the unique wireframe edges of every mesh and path in the
// asset. A shared triangle edge is emitted once per geometry.
func Edges(asset mesh.Asset) []Edge {
	var edges []Edge
	for gi, g := range asset.Geometries() {
		base := ColorFor(gi)
		switch v := g.(type) {
		case *mesh.Mesh:
			seen := make(map[[2]int]bool, len(v.Faces)*3/2)
			for _, f := range v.Faces {
				for k := 0; k < 3; k++ {
					a, b := f[k], f[(k+1)%3]
					if a > b {
						a, b = b, a
					}
					if seen[[2]int{a, b}] {
						continue
					}
					seen[[2]int{a, b}] = true
					edges = append(edges, Edge{A: v.Vertices[a], B: v.Vertices[b], Color: base})
				}
			}
		case *mesh.Path:
			for _, s := range v.Segments {
				edges = append(edges, Edge{A: v.Vertices[s[0]], B: v.Vertices[s[1]], Color: base})
			}
		}
	}
	return edges
}

// Point is a point cloud position with its geometry colour
type Point struct {
	Position geometry.Vector3
	Color    color.RGBA
}

// Points returns the positions of every point cloud in the asset
func Points(asset mesh.Asset) []Point {
	var points []Point
	for gi, g := range asset.Geometries() {
		if pc, ok := g.(*mesh.PointCloud); ok {
			for _, p := range pc.Points {
				points = append(points, Point{Position: p, Color: ColorFor(gi)})
			}
		}
	}
	return points
}
