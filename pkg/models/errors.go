package models

import "errors"

var (
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrInvalidIndex reports a face or material index outside its pool.
	ErrInvalidIndex = errors.New("index out of range")

	// ErrEmptyMesh is returned when a file parses but yields no faces.
	ErrEmptyMesh = errors.New("mesh has no faces")
)
