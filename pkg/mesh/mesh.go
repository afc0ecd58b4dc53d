package mesh

import (
	"github.com/philipparndt/meshview/pkg/geometry"
)

// Face is a triangle referencing three vertices by index
type Face [3]int

// Geometry is a single entry of a Scene
type Geometry interface {
	GeometryName() string
	BoundingBox() geometry.BoundingBox
}

// Polygonal is a geometry that exposes both a vertex and a face collection.
// Only polygonal geometries contribute to Scene counts.
type Polygonal interface {
	Geometry
	VertexCount() int
	FaceCount() int
}

// Mesh is an indexed triangle mesh
type Mesh struct {
	Name     string
	Vertices []geometry.Vector3
	Faces    []Face
}

// NewMesh creates an empty mesh
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// GeometryName returns the mesh name
func (m *Mesh) GeometryName() string { return m.Name }

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of triangular faces
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// Triangle resolves face i to positions
func (m *Mesh) Triangle(i int) geometry.Triangle {
	f := m.Faces[i]
	return geometry.NewTriangle(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
}

// Triangles resolves every face to positions
func (m *Mesh) Triangles() []geometry.Triangle {
	triangles := make([]geometry.Triangle, len(m.Faces))
	for i := range m.Faces {
		triangles[i] = m.Triangle(i)
	}
	return triangles
}

// BoundingBox calculates the bounding box of all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	return boundsOf(m.Vertices)
}

// SurfaceArea calculates the total area of all faces
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for i := range m.Faces {
		total += m.Triangle(i).Area()
	}
	return total
}

// PointCloud is a set of unconnected points
type PointCloud struct {
	Name   string
	Points []geometry.Vector3
}

// GeometryName returns the point cloud name
func (p *PointCloud) GeometryName() string { return p.Name }

// BoundingBox calculates the bounding box of all points
func (p *PointCloud) BoundingBox() geometry.BoundingBox {
	return boundsOf(p.Points)
}

// Path is a set of line segments without faces
type Path struct {
	Name     string
	Vertices []geometry.Vector3
	Segments [][2]int
}

// GeometryName returns the path name
func (p *Path) GeometryName() string { return p.Name }

// BoundingBox calculates the bounding box of all path vertices
func (p *Path) BoundingBox() geometry.BoundingBox {
	return boundsOf(p.Vertices)
}

func boundsOf(points []geometry.Vector3) geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, p := range points {
		bbox.Extend(p)
	}
	return bbox
}
