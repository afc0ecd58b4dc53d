package viewer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/render"
)

// gpuMesh is an uploaded raylib mesh plus the Go buffers it points into
type gpuMesh struct {
	mesh      rl.Mesh
	vertices  []float32
	normals   []float32
	texcoords []float32
	colors    []uint8
}

func toRL(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// buildMesh converts a mesh to an unindexed raylib mesh with baked lighting.
// Each triangle gets its own three vertices so faces keep flat shading.
func buildMesh(m *mesh.Mesh, base color.RGBA) *gpuMesh {
	triangleCount := len(m.Faces)
	vertexCount := triangleCount * 3

	g := &gpuMesh{
		mesh: rl.Mesh{
			VertexCount:   int32(vertexCount),
			TriangleCount: int32(triangleCount),
		},
		vertices:  make([]float32, vertexCount*3),
		normals:   make([]float32, vertexCount*3),
		texcoords: make([]float32, vertexCount*2),
		colors:    make([]uint8, vertexCount*4),
	}

	idx := 0
	for fi := range m.Faces {
		tri := m.Triangle(fi)
		normal := tri.Normal()
		shaded := render.Shade(base, normal)

		for _, v := range [3]geometry.Vector3{tri.V1, tri.V2, tri.V3} {
			g.vertices[idx*3+0] = float32(v.X)
			g.vertices[idx*3+1] = float32(v.Y)
			g.vertices[idx*3+2] = float32(v.Z)
			g.normals[idx*3+0] = float32(normal.X)
			g.normals[idx*3+1] = float32(normal.Y)
			g.normals[idx*3+2] = float32(normal.Z)
			g.colors[idx*4+0] = shaded.R
			g.colors[idx*4+1] = shaded.G
			g.colors[idx*4+2] = shaded.B
			g.colors[idx*4+3] = 255
			idx++
		}
	}

	g.mesh.Vertices = &g.vertices[0]
	g.mesh.Normals = &g.normals[0]
	g.mesh.Texcoords = &g.texcoords[0]
	g.mesh.Colors = &g.colors[0]

	rl.UploadMesh(&g.mesh, false)
	return g
}

// scene is everything the raylib loop draws for one asset
type scene struct {
	asset  mesh.Asset
	meshes []*gpuMesh
	edges  []render.Edge
	points []render.Point
	info   string
}

func newScene(asset mesh.Asset) *scene {
	s := &scene{
		asset:  asset,
		edges:  render.Edges(asset),
		points: render.Points(asset),
		info:   summary(asset),
	}
	for gi, g := range asset.Geometries() {
		m, ok := g.(*mesh.Mesh)
		if !ok || len(m.Faces) == 0 {
			continue
		}
		s.meshes = append(s.meshes, buildMesh(m, render.ColorFor(gi)))
	}
	return s
}

func (s *scene) unload() {
	for _, g := range s.meshes {
		rl.UnloadMesh(&g.mesh)
	}
	s.meshes = nil
}
