package stl

import (
	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/philipparndt/meshview/pkg/mesh"
)

// builder accumulates STL facets into an indexed mesh, welding facets that
// share exact vertex positions
type builder struct {
	mesh  *mesh.Mesh
	index map[geometry.Vector3]int
}

func newBuilder(name string) *builder {
	return &builder{
		mesh:  mesh.NewMesh(name),
		index: make(map[geometry.Vector3]int),
	}
}

// vertex returns the index of v, adding it if it is new
func (b *builder) vertex(v geometry.Vector3) int {
	if idx, ok := b.index[v]; ok {
		return idx
	}
	idx := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	b.index[v] = idx
	return idx
}

// addTriangle adds a facet. The stored normal is ignored since it is
// frequently zero or stale in exported files.
func (b *builder) addTriangle(v1, v2, v3 geometry.Vector3) {
	b.mesh.Faces = append(b.mesh.Faces, mesh.Face{b.vertex(v1), b.vertex(v2), b.vertex(v3)})
}
