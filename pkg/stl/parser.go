// Package stl loads ASCII and binary STL files into indexed meshes.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/meshview/pkg/geometry"
	"github.com/philipparndt/meshview/pkg/mesh"
)

const (
	headerSize = 80
	facetSize  = 50
)

// Parse reads an STL file and returns a single-mesh asset.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string) (mesh.Asset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return mesh.Asset{}, fmt.Errorf("failed to open file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	m, err := ParseBytes(data, name)
	if err != nil {
		return mesh.Asset{}, err
	}
	return mesh.FromMesh(m), nil
}

// ParseBytes parses STL data held in memory
func ParseBytes(data []byte, name string) (*mesh.Mesh, error) {
	if isASCII(data) {
		return parseASCII(bytes.NewReader(data), name)
	}
	return parseBinary(bytes.NewReader(data), name)
}

// isASCII checks for the "solid" keyword. Some exporters write binary files
// whose header also starts with "solid", so a size that matches the binary
// layout exactly wins.
func isASCII(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("solid")) {
		return false
	}
	if len(data) >= headerSize+4 {
		count := binary.LittleEndian.Uint32(data[headerSize:])
		if uint64(len(data)) == uint64(headerSize+4)+uint64(count)*facetSize {
			return false
		}
	}
	return true
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader, name string) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(reader)
	b := newBuilder(name)

	var vertices []geometry.Vector3
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				b.mesh.Name = strings.Join(fields[1:], " ")
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var xyz [3]float64
			for i := range xyz {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid coordinate %q: %w", line, fields[i+1], err)
				}
				xyz[i] = f
			}
			vertices = append(vertices, geometry.NewVector3(xyz[0], xyz[1], xyz[2]))

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, expected 3", line, len(vertices))
			}
			b.addTriangle(vertices[0], vertices[1], vertices[2])
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return b.mesh, nil
}

// parseBinary parses a binary STL file
func parseBinary(reader io.Reader, name string) (*mesh.Mesh, error) {
	b := newBuilder(name)

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	// normal, three vertices, attribute byte count
	var facet struct {
		Normal    [3]float32
		V         [3][3]float32
		Attribute uint16
	}
	for i := uint32(0); i < triangleCount; i++ {
		if err := binary.Read(reader, binary.LittleEndian, &facet); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d of %d: %w", i, triangleCount, err)
		}
		b.addTriangle(
			geometry.FromFloat32(facet.V[0]),
			geometry.FromFloat32(facet.V[1]),
			geometry.FromFloat32(facet.V[2]),
		)
	}

	return b.mesh, nil
}
