// Package gltfscene loads glTF and GLB documents into mesh scenes.
//
// Every mesh primitive becomes one scene entry. Node transforms are not
// applied; geometry is reported in its local space.
package gltfscene

import (
	"fmt"

	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Parse opens a .gltf or .glb file, including external buffers, and
// returns it as a scene
func Parse(filename string) (mesh.Asset, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return mesh.Asset{}, fmt.Errorf("failed to open glTF: %w", err)
	}
	scene, err := FromDocument(doc)
	if err != nil {
		return mesh.Asset{}, err
	}
	return mesh.FromScene(scene), nil
}

// FromDocument converts every primitive of every mesh into scene entries
func FromDocument(doc *gltf.Document) (*mesh.Scene, error) {
	scene := mesh.NewScene()
	for i, m := range doc.Meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh%d", i)
		}
		for j, prim := range m.Primitives {
			entry := name
			if j > 0 {
				entry = fmt.Sprintf("%s_%d", name, j)
			}
			g, err := convertPrimitive(doc, entry, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", name, j, err)
			}
			scene.Add(g)
		}
	}
	return scene, nil
}

func convertPrimitive(doc *gltf.Document, name string, prim *gltf.Primitive) (mesh.Geometry, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return &mesh.PointCloud{Name: name}, nil
	}
	if posIdx < 0 || posIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("position accessor %d out of range", posIdx)
	}
	raw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	positions := make([]geometry.Vector3, len(raw))
	for i, p := range raw {
		positions[i] = geometry.FromFloat32(p)
	}

	indices, err := readIndices(doc, prim, len(positions))
	if err != nil {
		return nil, err
	}

	switch prim.Mode {
	case gltf.PrimitivePoints:
		points := make([]geometry.Vector3, len(indices))
		for i, idx := range indices {
			points[i] = positions[idx]
		}
		return &mesh.PointCloud{Name: name, Points: points}, nil

	case gltf.PrimitiveLines, gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		return &mesh.Path{Name: name, Vertices: positions, Segments: segments(prim.Mode, indices)}, nil

	default:
		faces, err := triangulate(prim.Mode, indices)
		if err != nil {
			return nil, err
		}
		return &mesh.Mesh{Name: name, Vertices: positions, Faces: faces}, nil
	}
}

// readIndices returns the primitive's index list, or the implicit
// 0..count-1 sequence for non-indexed primitives
func readIndices(doc *gltf.Document, prim *gltf.Primitive, count int) ([]int, error) {
	if prim.Indices == nil {
		indices := make([]int, count)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	accIdx := *prim.Indices
	if accIdx < 0 || accIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("index accessor %d out of range", accIdx)
	}
	raw, err := modeler.ReadIndices(doc, doc.Accessors[accIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read indices: %w", err)
	}
	indices := make([]int, len(raw))
	for i, idx := range raw {
		if int(idx) >= count {
			return nil, fmt.Errorf("index %d references vertex beyond %d", idx, count)
		}
		indices[i] = int(idx)
	}
	return indices, nil
}

func triangulate(mode gltf.PrimitiveMode, indices []int) ([]mesh.Face, error) {
	var faces []mesh.Face
	switch mode {
	case gltf.PrimitiveTriangles:
		if len(indices)%3 != 0 {
			return nil, fmt.Errorf("triangle list has %d indices, not a multiple of 3", len(indices))
		}
		for i := 0; i+2 < len(indices); i += 3 {
			faces = append(faces, mesh.Face{indices[i], indices[i+1], indices[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				faces = append(faces, mesh.Face{indices[i], indices[i+1], indices[i+2]})
			} else {
				faces = append(faces, mesh.Face{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			faces = append(faces, mesh.Face{indices[0], indices[i], indices[i+1]})
		}
	default:
		return nil, fmt.Errorf("unsupported primitive mode %v", mode)
	}
	return faces, nil
}

func segments(mode gltf.PrimitiveMode, indices []int) [][2]int {
	var segs [][2]int
	switch mode {
	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(indices); i += 2 {
			segs = append(segs, [2]int{indices[i], indices[i+1]})
		}
	default:
		for i := 0; i+1 < len(indices); i++ {
			segs = append(segs, [2]int{indices[i], indices[i+1]})
		}
		if mode == gltf.PrimitiveLineLoop && len(indices) > 2 {
			segs = append(segs, [2]int{indices[len(indices)-1], indices[0]})
		}
	}
	return segs
}
