package mesh

import (
	"fmt"

	"github.com/philipparndt/meshview/pkg/geometry"
)

// Scene is a container of uniquely named geometries. Insertion order is kept
// so listings and rendering colours are stable.
type Scene struct {
	geometry map[string]Geometry
	order    []string
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{geometry: make(map[string]Geometry)}
}

// Add inserts a geometry and returns the name it was stored under.
// Colliding names get a numeric suffix.
func (s *Scene) Add(g Geometry) string {
	name := g.GeometryName()
	if name == "" {
		name = fmt.Sprintf("geometry_%d", len(s.order))
	}
	unique := name
	for i := 1; ; i++ {
		if _, exists := s.geometry[unique]; !exists {
			break
		}
		unique = fmt.Sprintf("%s_%d", name, i)
	}
	s.geometry[unique] = g
	s.order = append(s.order, unique)
	return unique
}

// Geometry returns the entry stored under name
func (s *Scene) Geometry(name string) (Geometry, bool) {
	g, ok := s.geometry[name]
	return g, ok
}

// Names returns the entry names in insertion order
func (s *Scene) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Len returns the number of entries
func (s *Scene) Len() int {
	return len(s.order)
}

// Counts sums vertices and faces over every polygonal entry.
// Entries lacking a vertex or face collection are skipped.
func (s *Scene) Counts() Counts {
	var c Counts
	for _, name := range s.order {
		if p, ok := s.geometry[name].(Polygonal); ok {
			c.Vertices += p.VertexCount()
			c.Faces += p.FaceCount()
		}
	}
	return c
}

// Meshes returns the triangle meshes of the scene in insertion order
func (s *Scene) Meshes() []*Mesh {
	var meshes []*Mesh
	for _, name := range s.order {
		if m, ok := s.geometry[name].(*Mesh); ok {
			meshes = append(meshes, m)
		}
	}
	return meshes
}

// BoundingBox calculates the bounding box over all entries
func (s *Scene) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, name := range s.order {
		bbox.Union(s.geometry[name].BoundingBox())
	}
	return bbox
}
