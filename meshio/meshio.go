// Package meshio imports triangle meshes for the entity store.
//
// Only vertex positions and face connectivity are read. Polygons are fanned
// into triangles, so an imported mesh always has len(Indices) == 3*faces.
package meshio

import (
	"errors"
	"fmt"
	"os"
)

// ErrImport reports a mesh source that could not be read or holds no
// geometry.
var ErrImport = errors.New("meshio: import failed")

// Mesh is an imported triangle mesh.
type Mesh struct {
	// Positions holds xyz triples.
	Positions []float32
	// Indices holds three corners per triangle.
	Indices []uint32
}

// PositionCount returns the number of positions.
func (m *Mesh) PositionCount() int { return len(m.Positions) / 3 }

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.Indices) / 3 }

// Importer loads a mesh from a path.
type Importer interface {
	Import(path string) (*Mesh, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(path string) (*Mesh, error)

// Import calls f(path).
func (f ImporterFunc) Import(path string) (*Mesh, error) { return f(path) }

// OBJImporter reads Wavefront OBJ files from disk.
type OBJImporter struct{}

// Import implements Importer.
func (OBJImporter) Import(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImport, err)
	}
	defer f.Close()

	m, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

var _ Importer = OBJImporter{}
