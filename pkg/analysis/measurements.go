// Package analysis computes descriptive statistics for loaded assets.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/philipparndt/meshview/pkg/mesh"
)

// GeometryInfo summarises one geometry of an asset
type GeometryInfo struct {
	Name      string
	Type      string
	Vertices  int
	Faces     int
	Polygonal bool
}

// Edge is a unique mesh edge
type Edge struct {
	Geometry string
	Start    geometry.Vector3
	End      geometry.Vector3
	Length   float64
}

// Result contains measurements over every mesh of an asset
type Result struct {
	Kind          mesh.Kind
	Geometries    []GeometryInfo
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	Edges         []Edge
}

// Analyze measures an asset. Edges are counted once per mesh even when
// shared by two faces.
func Analyze(asset mesh.Asset) *Result {
	result := &Result{
		Kind:        asset.Kind(),
		Geometries:  describe(asset),
		BoundingBox: asset.BoundingBox(),
	}
	result.Dimensions = result.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, m := range asset.Meshes() {
		result.SurfaceArea += m.SurfaceArea()

		seen := make(map[[2]int]bool)
		for _, f := range m.Faces {
			for i := 0; i < 3; i++ {
				a, b := f[i], f[(i+1)%3]
				if a > b {
					a, b = b, a
				}
				if seen[[2]int{a, b}] {
					continue
				}
				seen[[2]int{a, b}] = true

				length := m.Vertices[a].Distance(m.Vertices[b])
				result.Edges = append(result.Edges, Edge{
					Geometry: m.Name,
					Start:    m.Vertices[a],
					End:      m.Vertices[b],
					Length:   length,
				})
				totalLength += length
				minLength = math.Min(minLength, length)
				maxLength = math.Max(maxLength, length)
				result.EdgeCount++
			}
		}
	}

	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

func describe(asset mesh.Asset) []GeometryInfo {
	if m, ok := asset.Mesh(); ok {
		return []GeometryInfo{info(m)}
	}
	if g, ok := asset.Geometry(); ok {
		return []GeometryInfo{info(g)}
	}
	scene, ok := asset.Scene()
	if !ok {
		return nil
	}
	infos := make([]GeometryInfo, 0, scene.Len())
	for _, name := range scene.Names() {
		g, _ := scene.Geometry(name)
		gi := info(g)
		gi.Name = name
		infos = append(infos, gi)
	}
	return infos
}

func info(g mesh.Geometry) GeometryInfo {
	gi := GeometryInfo{Name: g.GeometryName()}
	switch v := g.(type) {
	case *mesh.Mesh:
		gi.Type = "mesh"
	case *mesh.PointCloud:
		gi.Type = "points"
		gi.Vertices = len(v.Points)
	case *mesh.Path:
		gi.Type = "path"
		gi.Vertices = len(v.Vertices)
	default:
		gi.Type = fmt.Sprintf("%T", g)
	}
	if p, ok := g.(mesh.Polygonal); ok {
		gi.Polygonal = true
		gi.Vertices = p.VertexCount()
		gi.Faces = p.FaceCount()
	}
	return gi
}

// EdgesByLength returns edges with minLength <= length <= maxLength
func EdgesByLength(result *Result, minLength, maxLength float64) []Edge {
	var edges []Edge
	for _, e := range result.Edges {
		if e.Length >= minLength && e.Length <= maxLength {
			edges = append(edges, e)
		}
	}
	return edges
}

// LongestEdges returns up to count edges, longest first
func LongestEdges(result *Result, count int) []Edge {
	return sortedEdges(result, count, func(a, b Edge) bool { return a.Length > b.Length })
}

// ShortestEdges returns up to count edges, shortest first
func ShortestEdges(result *Result, count int) []Edge {
	return sortedEdges(result, count, func(a, b Edge) bool { return a.Length < b.Length })
}

func sortedEdges(result *Result, count int, less func(a, b Edge) bool) []Edge {
	edges := make([]Edge, len(result.Edges))
	copy(edges, result.Edges)
	sort.SliceStable(edges, func(i, j int) bool { return less(edges[i], edges[j]) })
	if count >= 0 && len(edges) > count {
		edges = edges[:count]
	}
	return edges
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
