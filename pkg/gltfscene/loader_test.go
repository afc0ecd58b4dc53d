package gltfscene

import (
	"path/filepath"
	"testing"

	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var squarePositions = [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

func primitive(doc *gltf.Document, mode gltf.PrimitiveMode, indices []uint16) *gltf.Primitive {
	prim := &gltf.Primitive{
		Mode:       mode,
		Attributes: map[string]int{gltf.POSITION: modeler.WritePosition(doc, squarePositions)},
	}
	if indices != nil {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}
	return prim
}

func TestFromDocumentCountsOnlyTriangles(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{
		{
			Name: "square",
			Primitives: []*gltf.Primitive{
				primitive(doc, gltf.PrimitiveTriangles, []uint16{0, 1, 2, 0, 2, 3}),
				primitive(doc, gltf.PrimitivePoints, nil),
			},
		},
		{
			Primitives: []*gltf.Primitive{
				primitive(doc, gltf.PrimitiveTriangleFan, nil),
			},
		},
	}

	scene, err := FromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"square", "square_1", "mesh1"}, scene.Names())
	assert.Equal(t, mesh.Counts{Vertices: 8, Faces: 4}, scene.Counts())

	points, ok := scene.Geometry("square_1")
	require.True(t, ok)
	assert.IsType(t, &mesh.PointCloud{}, points)
}

func TestTriangulateModes(t *testing.T) {
	strip, err := triangulate(gltf.PrimitiveTriangleStrip, []int{0, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []mesh.Face{{0, 1, 2}, {2, 1, 3}}, strip)

	fan, err := triangulate(gltf.PrimitiveTriangleFan, []int{0, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []mesh.Face{{0, 1, 2}, {0, 2, 3}}, fan)

	_, err = triangulate(gltf.PrimitiveTriangles, []int{0, 1})
	assert.Error(t, err)
}

func TestSegmentsModes(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 1}, {2, 3}}, segments(gltf.PrimitiveLines, []int{0, 1, 2, 3}))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 0}}, segments(gltf.PrimitiveLineLoop, []int{0, 1, 2}))
}

func TestParseGLB(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Name:       "quad",
		Primitives: []*gltf.Primitive{primitive(doc, gltf.PrimitiveTriangles, []uint16{0, 1, 2, 0, 2, 3})},
	}}

	path := filepath.Join(t.TempDir(), "quad.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	asset, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, mesh.KindScene, asset.Kind())

	counts, ok := asset.Counts()
	require.True(t, ok)
	assert.Equal(t, mesh.Counts{Vertices: 4, Faces: 2}, counts)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.gltf"))
	assert.Error(t, err)
}
