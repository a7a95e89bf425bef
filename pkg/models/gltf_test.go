package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/glyphmesh/pkg/math3d"
)

// quadDocument builds a glTF document holding one indexed quad.
func quadDocument(t *testing.T) *gltf.Document {
	t.Helper()

	var buf bytes.Buffer
	positions := []float32{
		0, 0, 1,
		1, 0, 1,
		1, 1, 1,
		0, 1, 1,
	}
	if err := binary.Write(&buf, binary.LittleEndian, positions); err != nil {
		t.Fatalf("write positions: %v", err)
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}
	if err := binary.Write(&buf, binary.LittleEndian, indices); err != nil {
		t.Fatalf("write indices: %v", err)
	}

	return &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: buf.Len(), Data: buf.Bytes()}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 48},
			{Buffer: 0, ByteOffset: 48, ByteLength: 12},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Type: gltf.AccessorVec3, Count: 4},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentUshort, Type: gltf.AccessorScalar, Count: 6},
		},
		Materials: []*gltf.Material{
			{Name: "red", PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 0, 0, 1}}},
		},
		Meshes: []*gltf.Mesh{{
			Name: "quad",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Indices:    gltf.Index(1),
				Material:   gltf.Index(0),
				Mode:       gltf.PrimitiveTriangles,
			}},
		}},
	}
}

func TestReadGLTF(t *testing.T) {
	mesh, err := readGLTF(quadDocument(t), LoadOptions{Materials: true})
	if err != nil {
		t.Fatalf("readGLTF: %v", err)
	}

	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
		t.Fatalf("expected 4 vertices and 2 triangles, got %d and %d", mesh.VertexCount(), mesh.TriangleCount())
	}
	if mesh.Faces[1].V != [3]int{0, 2, 3} {
		t.Errorf("unexpected face %v", mesh.Faces[1].V)
	}
	if mesh.Faces[0].Material != 0 {
		t.Errorf("expected material 0, got %d", mesh.Faces[0].Material)
	}
	if mesh.Materials[0].Diffuse != [3]float64{1, 0, 0} {
		t.Errorf("expected red base color, got %v", mesh.Materials[0].Diffuse)
	}
	if got := mesh.Vertices[2]; got != math3d.V3(1, 1, -1) {
		t.Errorf("expected Z mirrored to (1, 1, -1), got %v", got)
	}
}

func TestReadGLTFWithoutMaterials(t *testing.T) {
	mesh, err := readGLTF(quadDocument(t), LoadOptions{})
	if err != nil {
		t.Fatalf("readGLTF: %v", err)
	}
	if mesh.MaterialCount() != 0 || mesh.Faces[0].Material != -1 {
		t.Errorf("expected no materials, got %d and face material %d", mesh.MaterialCount(), mesh.Faces[0].Material)
	}
}

func TestReadGLTFIndexOutOfRange(t *testing.T) {
	doc := quadDocument(t)
	data := doc.Buffers[0].Data
	binary.LittleEndian.PutUint16(data[48+10:], 9)

	if _, err := readGLTF(doc, LoadOptions{}); err == nil {
		t.Error("expected error for index past the vertex pool")
	}
}

func TestReadGLTFInvalidReferences(t *testing.T) {
	tests := []struct {
		name   string
		modify func(doc *gltf.Document)
	}{
		{"position accessor", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION] = 9
		}},
		{"indices accessor", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Indices = gltf.Index(9)
		}},
		{"buffer view", func(doc *gltf.Document) {
			doc.Accessors[0].BufferView = gltf.Index(9)
		}},
		{"buffer", func(doc *gltf.Document) {
			doc.BufferViews[1].Buffer = 9
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := quadDocument(t)
			tt.modify(doc)

			_, err := readGLTF(doc, LoadOptions{})
			if !errors.Is(err, ErrInvalidIndex) {
				t.Errorf("expected ErrInvalidIndex, got %v", err)
			}
		})
	}
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb", LoadOptions{}); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}
