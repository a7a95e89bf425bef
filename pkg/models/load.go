package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load picks a loader by file extension and validates the result.
func Load(path string, opts LoadOptions) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		mesh, err = LoadOBJ(path, opts)
	case ".stl":
		mesh, err = LoadSTL(path)
	case ".glb", ".gltf":
		mesh, err = LoadGLTF(path, opts)
	default:
		return nil, fmt.Errorf("%q: %w (use .obj, .stl, .glb or .gltf)", ext, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", mesh.Name, err)
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", mesh.Name, ErrEmptyMesh)
	}
	return mesh, nil
}
