// Package obj loads Wavefront OBJ files into mesh assets.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/philipparndt/meshview/pkg/mesh"
)

// ErrIndexOutOfRange is returned when an element references a vertex that
// has not been declared
var ErrIndexOutOfRange = errors.New("vertex index out of range")

const maxLineLength = 1024 * 1024

// object collects the elements declared under one "o" or "g" statement.
// Indices refer to the file-global vertex list.
type object struct {
	name     string
	implicit bool
	faces    []mesh.Face
	segments [][2]int
	points   []int
}

func (o *object) empty() bool {
	return len(o.faces) == 0 && len(o.segments) == 0 && len(o.points) == 0
}

type parser struct {
	positions []geometry.Vector3
	objects   []*object
	current   *object
	line      int
}

// Parse reads an OBJ file and returns a mesh, a scene or, for files without
// faces, a point cloud or path
func Parse(filename string) (mesh.Asset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return mesh.Asset{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return ParseReader(file, name)
}

// ParseReader parses OBJ data. name is used for geometry that is not inside
// a named object or group.
func ParseReader(reader io.Reader, name string) (mesh.Asset, error) {
	p := &parser{}
	p.current = &object{name: name, implicit: true}
	p.objects = append(p.objects, p.current)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	for scanner.Scan() {
		p.line++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			err = p.parseVertex(fields[1:])
		case "f":
			err = p.parseFace(fields[1:])
		case "l":
			err = p.parseLine(fields[1:])
		case "p":
			err = p.parsePoints(fields[1:])
		case "o", "g":
			p.startObject(strings.Join(fields[1:], " "))
		}
		if err != nil {
			return mesh.Asset{}, fmt.Errorf("line %d: %w", p.line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return mesh.Asset{}, fmt.Errorf("error reading OBJ: %w", err)
	}

	return p.build(name), nil
}

func (p *parser) parseVertex(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("vertex needs 3 coordinates, got %d", len(args))
	}
	var xyz [3]float64
	for i := range xyz {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return fmt.Errorf("invalid vertex coordinate %q: %w", args[i], err)
		}
		xyz[i] = f
	}
	p.positions = append(p.positions, geometry.NewVector3(xyz[0], xyz[1], xyz[2]))
	return nil
}

// parseFace fan-triangulates a polygon of three or more vertices
func (p *parser) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(args))
	}
	indices, err := p.resolveAll(args)
	if err != nil {
		return err
	}
	for i := 1; i < len(indices)-1; i++ {
		p.current.faces = append(p.current.faces, mesh.Face{indices[0], indices[i], indices[i+1]})
	}
	return nil
}

func (p *parser) parseLine(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("line needs at least 2 vertices, got %d", len(args))
	}
	indices, err := p.resolveAll(args)
	if err != nil {
		return err
	}
	for i := 0; i < len(indices)-1; i++ {
		p.current.segments = append(p.current.segments, [2]int{indices[i], indices[i+1]})
	}
	return nil
}

func (p *parser) parsePoints(args []string) error {
	indices, err := p.resolveAll(args)
	if err != nil {
		return err
	}
	p.current.points = append(p.current.points, indices...)
	return nil
}

func (p *parser) resolveAll(args []string) ([]int, error) {
	indices := make([]int, len(args))
	for i, arg := range args {
		idx, err := p.resolveIndex(arg)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}
	return indices, nil
}

// resolveIndex turns a "v", "v/vt", "v//vn" or "v/vt/vn" reference into a
// zero-based position index. Negative references count back from the most
// recent vertex.
func (p *parser) resolveIndex(ref string) (int, error) {
	v, _, _ := strings.Cut(ref, "/")
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid vertex reference %q: %w", ref, err)
	}

	idx := parsed - 1
	if parsed < 0 {
		idx = len(p.positions) + parsed
	}
	if parsed == 0 || idx < 0 || idx >= len(p.positions) {
		return 0, fmt.Errorf("%w: %d (have %d vertices)", ErrIndexOutOfRange, parsed, len(p.positions))
	}
	return idx, nil
}

// startObject switches to the named object, reusing an earlier one of the
// same name so repeated groups merge. The default object that collects
// geometry before the first "o" is never matched by name.
func (p *parser) startObject(name string) {
	for _, o := range p.objects {
		if o.name == name && name != "" && !o.implicit {
			p.current = o
			return
		}
	}
	if p.current.empty() && p.current == p.objects[len(p.objects)-1] {
		p.current.name = name
		p.current.implicit = false
		return
	}
	p.current = &object{name: name}
	p.objects = append(p.objects, p.current)
}

func (p *parser) build(name string) mesh.Asset {
	var geometries []mesh.Geometry
	for _, o := range p.objects {
		if o.empty() {
			continue
		}
		geometries = append(geometries, p.buildObject(o))
	}

	switch {
	case len(geometries) == 1:
		return mesh.FromGeometry(geometries[0])
	case len(geometries) > 1:
		scene := mesh.NewScene()
		for _, g := range geometries {
			scene.Add(g)
		}
		return mesh.FromScene(scene)
	case len(p.positions) > 0:
		// Only "v" statements: the file is a bare point cloud
		return mesh.FromGeometry(&mesh.PointCloud{Name: name, Points: p.positions})
	default:
		return mesh.FromScene(mesh.NewScene())
	}
}

// buildObject copies the referenced vertices into a compact per-object list
func (p *parser) buildObject(o *object) mesh.Geometry {
	remap := make(map[int]int)
	var vertices []geometry.Vector3
	local := func(global int) int {
		if idx, ok := remap[global]; ok {
			return idx
		}
		idx := len(vertices)
		remap[global] = idx
		vertices = append(vertices, p.positions[global])
		return idx
	}

	switch {
	case len(o.faces) > 0:
		m := mesh.NewMesh(o.name)
		m.Faces = make([]mesh.Face, len(o.faces))
		for i, f := range o.faces {
			m.Faces[i] = mesh.Face{local(f[0]), local(f[1]), local(f[2])}
		}
		m.Vertices = vertices
		return m

	case len(o.segments) > 0:
		path := &mesh.Path{Name: o.name, Segments: make([][2]int, len(o.segments))}
		for i, s := range o.segments {
			path.Segments[i] = [2]int{local(s[0]), local(s[1])}
		}
		path.Vertices = vertices
		return path

	default:
		for _, idx := range o.points {
			local(idx)
		}
		return &mesh.PointCloud{Name: o.name, Points: vertices}
	}
}
