package mesh

import (
	"github.com/philipparndt/meshview/pkg/geometry"
)

// Kind identifies which shape an Asset holds
type Kind int

const (
	// KindUnknown is a loaded object that is neither a mesh nor a scene
	KindUnknown Kind = iota
	// KindMesh is a single polygonal mesh
	KindMesh
	// KindScene is a multi-object scene
	KindScene
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindScene:
		return "scene"
	default:
		return "unknown"
	}
}

// Counts holds vertex and face totals
type Counts struct {
	Vertices int
	Faces    int
}

// Asset is the result of loading a file. Its kind is fixed at construction.
type Asset struct {
	kind  Kind
	mesh  *Mesh
	scene *Scene
	other Geometry
}

// FromMesh wraps a single mesh
func FromMesh(m *Mesh) Asset {
	return Asset{kind: KindMesh, mesh: m}
}

// FromScene wraps a scene
func FromScene(s *Scene) Asset {
	return Asset{kind: KindScene, scene: s}
}

// FromGeometry wraps a lone geometry. A *Mesh becomes KindMesh; any other
// geometry is kept as KindUnknown.
func FromGeometry(g Geometry) Asset {
	if m, ok := g.(*Mesh); ok {
		return FromMesh(m)
	}
	return Asset{kind: KindUnknown, other: g}
}

// Kind returns the asset kind
func (a Asset) Kind() Kind { return a.kind }

// Mesh returns the single mesh for KindMesh assets
func (a Asset) Mesh() (*Mesh, bool) { return a.mesh, a.kind == KindMesh }

// Scene returns the scene for KindScene assets
func (a Asset) Scene() (*Scene, bool) { return a.scene, a.kind == KindScene }

// Geometry returns the wrapped geometry for KindUnknown assets
func (a Asset) Geometry() (Geometry, bool) {
	return a.other, a.kind == KindUnknown && a.other != nil
}

// Counts returns vertex and face totals. ok is false when the asset is
// neither a mesh nor a scene, in which case the counts do not apply.
func (a Asset) Counts() (c Counts, ok bool) {
	switch a.kind {
	case KindMesh:
		return Counts{Vertices: a.mesh.VertexCount(), Faces: a.mesh.FaceCount()}, true
	case KindScene:
		return a.scene.Counts(), true
	default:
		return Counts{}, false
	}
}

// Meshes returns every drawable triangle mesh in the asset
func (a Asset) Meshes() []*Mesh {
	switch a.kind {
	case KindMesh:
		return []*Mesh{a.mesh}
	case KindScene:
		return a.scene.Meshes()
	default:
		return nil
	}
}

// Geometries returns every geometry in the asset, drawable or not
func (a Asset) Geometries() []Geometry {
	switch {
	case a.kind == KindMesh:
		return []Geometry{a.mesh}
	case a.kind == KindScene:
		out := make([]Geometry, 0, a.scene.Len())
		for _, name := range a.scene.order {
			out = append(out, a.scene.geometry[name])
		}
		return out
	case a.other != nil:
		return []Geometry{a.other}
	default:
		return nil
	}
}

// BoundingBox returns the bounds of everything in the asset
func (a Asset) BoundingBox() geometry.BoundingBox {
	switch {
	case a.kind == KindMesh:
		return a.mesh.BoundingBox()
	case a.kind == KindScene:
		return a.scene.BoundingBox()
	case a.other != nil:
		return a.other.BoundingBox()
	default:
		return geometry.NewBoundingBox()
	}
}
