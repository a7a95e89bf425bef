package models

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/glyphmesh/pkg/math3d"
)

// LoadGLTF loads a glTF or GLB file. Only triangle primitives are read;
// node transforms are ignored. Z is mirrored so the model's front faces
// the viewer.
func LoadGLTF(path string, opts LoadOptions) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := readGLTF(doc, opts)
	if err != nil {
		return nil, err
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

func readGLTF(doc *gltf.Document, opts LoadOptions) (*Mesh, error) {
	mesh := NewMesh("")

	if opts.Materials {
		for i, m := range doc.Materials {
			mat := NewMaterial(m.Name)
			if mat.Name == "" {
				mat.Name = fmt.Sprintf("material%d", i)
			}
			if pbr := m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
				c := *pbr.BaseColorFactor
				mat.Diffuse = [3]float64{c[0], c[1], c[2]}
			}
			mesh.Materials = append(mesh.Materials, mat)
		}
	}

	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh, opts); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.mirrorZ()
	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the triangle primitives of a glTF mesh.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, opts LoadOptions) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		material := -1
		if opts.Materials && prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		baseVertex := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, positions...)

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{
				V:        [3]int{baseVertex + indices[i], baseVertex + indices[i+1], baseVertex + indices[i+2]},
				Material: material,
			}
			for _, vi := range f.V {
				if vi >= len(mesh.Vertices) {
					return fmt.Errorf("index %d with %d vertices: %w", vi, len(mesh.Vertices), ErrInvalidIndex)
				}
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

func accessorAt(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d of %d: %w", idx, len(doc.Accessors), ErrInvalidIndex)
	}
	return doc.Accessors[idx], nil
}

// accessorBytes resolves the buffer bytes and element stride for an
// accessor.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}

	viewIdx := *accessor.BufferView
	if viewIdx < 0 || viewIdx >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d of %d: %w", viewIdx, len(doc.BufferViews), ErrInvalidIndex)
	}
	bufferView := doc.BufferViews[viewIdx]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d of %d: %w", bufferView.Buffer, len(doc.Buffers), ErrInvalidIndex)
	}
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer %d has no data", bufferView.Buffer)
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	end := start
	if accessor.Count > 0 {
		end = start + (accessor.Count-1)*stride + elemSize
	}
	if end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor reads past buffer end (%d > %d)", end, len(buffer.Data))
	}
	return buffer.Data[start:end], stride, nil
}

// readVec3Accessor reads float VEC3 data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		off := i * stride
		result[i] = math3d.V3(readFloat32(data[off:]), readFloat32(data[off+4:]), readFloat32(data[off+8:]))
	}
	return result, nil
}

// readIndices reads scalar index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		b := data[i*stride:]
		switch size {
		case 1:
			result[i] = int(b[0])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(b))
		default:
			result[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return result, nil
}
