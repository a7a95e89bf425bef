package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/glyphmesh/pkg/math3d"
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal(12) + 3 vertices(36) + attribute(2)
)

// LoadSTL loads an ASCII or binary STL file. Z-up STL coordinates become
// Y-up by swapping the Y and Z axes.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}

	mesh, err := ReadSTL(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ReadSTL parses STL data. A file that starts with "solid" is still read as
// binary when its length matches the binary record count, since many
// exporters write "solid" into the binary header.
func ReadSTL(data []byte) (*Mesh, error) {
	if isBinarySTL(data) {
		return readBinarySTL(data)
	}
	if bytes.HasPrefix(data, []byte("solid")) {
		return readASCIISTL(data)
	}
	if len(data) >= stlHeaderSize+4 {
		return readBinarySTL(data)
	}
	return nil, errors.New("stl data too short")
}

func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+4+uint64(count)*stlRecordSize
}

func readBinarySTL(data []byte) (*Mesh, error) {
	count := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	body := data[stlHeaderSize+4:]
	if len(body) < count*stlRecordSize {
		return nil, fmt.Errorf("binary stl declares %d triangles but holds %d bytes", count, len(body))
	}

	mesh := NewMesh("")
	mesh.Vertices = make([]math3d.Vec3, 0, count*3)
	mesh.Faces = make([]Face, 0, count)

	for i := range count {
		rec := body[i*stlRecordSize:]
		base := len(mesh.Vertices)
		for v := range 3 {
			off := 12 + v*12
			x := readFloat32(rec[off:])
			y := readFloat32(rec[off+4:])
			z := readFloat32(rec[off+8:])
			mesh.Vertices = append(mesh.Vertices, math3d.V3(x, z, y))
		}
		mesh.Faces = append(mesh.Faces, Face{V: [3]int{base, base + 1, base + 2}, Material: -1})
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func readASCIISTL(data []byte) (*Mesh, error) {
	mesh := NewMesh("")

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		v, err := parseVec3(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		mesh.Vertices = append(mesh.Vertices, math3d.V3(v.X, v.Z, v.Y))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}

	for i := 0; i+2 < len(mesh.Vertices); i += 3 {
		mesh.Faces = append(mesh.Faces, Face{V: [3]int{i, i + 1, i + 2}, Material: -1})
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// readFloat32 reads a little-endian float32 as float64.
func readFloat32(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}
