// Package lod reduces triangle counts for display. The source file and the
// printed counts are never affected; only what is drawn gets coarser.
package lod

import (
	"fmt"

	"github.com/fogleman/simplify"
	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/philipparndt/meshview/pkg/mesh"
)

// Simplify decimates every triangle mesh in the asset to roughly factor
// times its face count using quadric error metrics. Point clouds and paths
// pass through unchanged. A factor of 1 returns the asset as is.
func Simplify(asset mesh.Asset, factor float64) (mesh.Asset, error) {
	if factor <= 0 || factor > 1 {
		return mesh.Asset{}, fmt.Errorf("simplify factor %g out of range (0, 1]", factor)
	}
	if factor == 1 {
		return asset, nil
	}

	switch asset.Kind() {
	case mesh.KindMesh:
		m, _ := asset.Mesh()
		return mesh.FromMesh(simplifyMesh(m, factor)), nil

	case mesh.KindScene:
		src, _ := asset.Scene()
		dst := mesh.NewScene()
		for _, name := range src.Names() {
			g, _ := src.Geometry(name)
			if m, ok := g.(*mesh.Mesh); ok {
				reduced := simplifyMesh(m, factor)
				reduced.Name = name
				g = reduced
			}
			dst.Add(g)
		}
		return mesh.FromScene(dst), nil

	default:
		return asset, nil
	}
}

func simplifyMesh(m *mesh.Mesh, factor float64) *mesh.Mesh {
	triangles := make([]*simplify.Triangle, 0, len(m.Faces))
	for fi := range m.Faces {
		t := m.Triangle(fi)
		triangles = append(triangles, simplify.NewTriangle(toVector(t.V1), toVector(t.V2), toVector(t.V3)))
	}

	reduced := simplify.NewMesh(triangles).Simplify(factor)

	out := mesh.NewMesh(m.Name)
	index := make(map[simplify.Vector]int)
	vertex := func(v simplify.Vector) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := len(out.Vertices)
		index[v] = i
		out.Vertices = append(out.Vertices, geometry.NewVector3(v.X, v.Y, v.Z))
		return i
	}
	for _, t := range reduced.Triangles {
		out.Faces = append(out.Faces, mesh.Face{vertex(t.V1), vertex(t.V2), vertex(t.V3)})
	}
	return out
}

func toVector(v geometry.Vector3) simplify.Vector {
	return simplify.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
