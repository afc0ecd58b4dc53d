package mesh

import (
	"testing"

	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad(name string) *Mesh {
	return &Mesh{
		Name: name,
		Vertices: []geometry.Vector3{
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(1, 0, 0),
			geometry.NewVector3(1, 1, 0),
			geometry.NewVector3(0, 1, 0),
		},
		Faces: []Face{{0, 1, 2}, {0, 2, 3}},
	}
}

func TestMeshCountsAndArea(t *testing.T) {
	m := quad("q")

	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
	assert.InDelta(t, 1.0, m.SurfaceArea(), 1e-12)

	bbox := m.BoundingBox()
	assert.Equal(t, geometry.NewVector3(1, 1, 0), bbox.Size())
}

func TestSceneCountsSkipNonPolygonal(t *testing.T) {
	s := NewScene()
	s.Add(quad("a"))
	s.Add(quad("b"))
	s.Add(&PointCloud{Name: "points", Points: []geometry.Vector3{{X: 5}, {X: 6}, {X: 7}}})
	s.Add(&Path{Name: "line", Vertices: []geometry.Vector3{{}, {X: 1}}, Segments: [][2]int{{0, 1}}})

	assert.Equal(t, Counts{Vertices: 8, Faces: 4}, s.Counts())
	assert.Len(t, s.Meshes(), 2)
	assert.Equal(t, 4, s.Len())

	// Skipped geometries still contribute to the bounds
	assert.Equal(t, 7.0, s.BoundingBox().Max.X)
}

func TestSceneAddUniqueNames(t *testing.T) {
	s := NewScene()

	assert.Equal(t, "part", s.Add(quad("part")))
	assert.Equal(t, "part_1", s.Add(quad("part")))
	assert.Equal(t, "geometry_2", s.Add(quad("")))
	assert.Equal(t, []string{"part", "part_1", "geometry_2"}, s.Names())

	g, ok := s.Geometry("part_1")
	require.True(t, ok)
	assert.Equal(t, "part", g.GeometryName())
}

func TestAssetCounts(t *testing.T) {
	tests := []struct {
		name   string
		asset  Asset
		kind   Kind
		counts Counts
		ok     bool
	}{
		{
			name:   "single mesh",
			asset:  FromMesh(quad("q")),
			kind:   KindMesh,
			counts: Counts{Vertices: 4, Faces: 2},
			ok:     true,
		},
		{
			name: "scene",
			asset: func() Asset {
				s := NewScene()
				s.Add(quad("a"))
				s.Add(&PointCloud{Name: "p"})
				return FromScene(s)
			}(),
			kind:   KindScene,
			counts: Counts{Vertices: 4, Faces: 2},
			ok:     true,
		},
		{
			name:   "empty scene",
			asset:  FromScene(NewScene()),
			kind:   KindScene,
			counts: Counts{},
			ok:     true,
		},
		{
			name:  "point cloud",
			asset: FromGeometry(&PointCloud{Name: "p", Points: []geometry.Vector3{{}}}),
			kind:  KindUnknown,
			ok:    false,
		},
		{
			name:   "geometry that is a mesh",
			asset:  FromGeometry(quad("q")),
			kind:   KindMesh,
			counts: Counts{Vertices: 4, Faces: 2},
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.asset.Kind())

			counts, ok := tt.asset.Counts()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.counts, counts)
		})
	}
}

func TestAssetAccessors(t *testing.T) {
	m := quad("q")
	a := FromMesh(m)

	got, ok := a.Mesh()
	assert.True(t, ok)
	assert.Same(t, m, got)

	_, ok = a.Scene()
	assert.False(t, ok)
	_, ok = a.Geometry()
	assert.False(t, ok)

	cloud := FromGeometry(&PointCloud{Name: "p", Points: []geometry.Vector3{{X: 2}}})
	g, ok := cloud.Geometry()
	require.True(t, ok)
	assert.Equal(t, "p", g.GeometryName())
	assert.Nil(t, cloud.Meshes())
	assert.Equal(t, 2.0, cloud.BoundingBox().Max.X)
	assert.Equal(t, "unknown", cloud.Kind().String())
}

func TestAssetGeometries(t *testing.T) {
	s := NewScene()
	s.Add(quad("a"))
	s.Add(&PointCloud{Name: "p"})

	assert.Len(t, FromScene(s).Geometries(), 2)
	assert.Len(t, FromMesh(quad("q")).Geometries(), 1)
	assert.Empty(t, Asset{}.Geometries())
}
