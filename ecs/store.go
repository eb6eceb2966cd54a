package ecs

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCapacity is the number of entity slots in a store built with
// NewStore(0, ...).
const DefaultCapacity = 32

// MaxMeshPositions is the largest position count addressable by uint16
// indices.
const MaxMeshPositions = math.MaxUint16 + 1

var (
	// ErrOutOfRange reports an entity index outside [0, capacity).
	ErrOutOfRange = errors.New("ecs: entity index out of range")

	// ErrAllocationFailed reports that a CPU buffer could not be allocated.
	ErrAllocationFailed = errors.New("ecs: allocation failed")

	// ErrInvalidMesh reports mesh data that cannot be stored.
	ErrInvalidMesh = errors.New("ecs: invalid mesh data")

	// ErrVolumeSize reports voxel data whose length is not dim³.
	ErrVolumeSize = errors.New("ecs: voxel data has wrong size")
)

// EntityID names a slot in the store.
type EntityID int

// Store is the entity store: one Mask plus one record per component kind
// for every slot.
type Store struct {
	alloc Allocator
	dim   int

	valid      []Mask
	transforms []Transform
	meshes     []Mesh
	volumes    []Volume
}

// NewStore creates a store with the given slot capacity and volume edge
// length. Non-positive values select DefaultCapacity and 50. A nil alloc
// selects HeapAllocator.
func NewStore(capacity, volumeDim int, alloc Allocator) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if volumeDim <= 0 {
		volumeDim = 50
	}
	if alloc == nil {
		alloc = HeapAllocator{}
	}
	return &Store{
		alloc:      alloc,
		dim:        volumeDim,
		valid:      make([]Mask, capacity),
		transforms: make([]Transform, capacity),
		meshes:     make([]Mesh, capacity),
		volumes:    make([]Volume, capacity),
	}
}

// Capacity returns the number of slots.
func (s *Store) Capacity() int { return len(s.valid) }

// VolumeDim returns the voxel grid edge length.
func (s *Store) VolumeDim() int { return s.dim }

// VolumeSize returns the number of voxels in one grid.
func (s *Store) VolumeSize() int { return s.dim * s.dim * s.dim }

// Allocator returns the allocator backing mesh and volume buffers.
func (s *Store) Allocator() Allocator { return s.alloc }

func (s *Store) check(id EntityID) error {
	if id < 0 || int(id) >= len(s.valid) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, id, len(s.valid))
	}
	return nil
}

// IsValid reports whether slot id holds a component of the given kind.
// Out-of-range ids report false.
func (s *Store) IsValid(id EntityID, kind Kind) bool {
	if s.check(id) != nil {
		return false
	}
	return s.valid[id].Has(kind)
}

// Mask returns the validity mask of slot id.
func (s *Store) Mask(id EntityID) Mask {
	if s.check(id) != nil {
		return 0
	}
	return s.valid[id]
}

// HasAll reports whether slot id holds every kind in m.
func (s *Store) HasAll(id EntityID, m Mask) bool {
	if s.check(id) != nil {
		return false
	}
	return s.valid[id].HasAll(m)
}

// SetValid sets or clears a single validity flag. Component data is left in
// place; clearing a flag only hides the component from queries.
func (s *Store) SetValid(id EntityID, kind Kind, valid bool) error {
	if err := s.check(id); err != nil {
		return err
	}
	if kind >= kindCount {
		return fmt.Errorf("ecs: unknown component kind %d", kind)
	}
	if valid {
		s.valid[id] = s.valid[id].Set(kind)
	} else {
		s.valid[id] = s.valid[id].Clear(kind)
	}
	return nil
}

// Query yields, in index order, every slot whose mask contains m.
func (s *Store) Query(m Mask) iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for i, v := range s.valid {
			if v.HasAll(m) && !yield(EntityID(i)) {
				return
			}
		}
	}
}

// SetTransform overwrites the transform of slot id and marks it valid.
func (s *Store) SetTransform(id EntityID, position, rotation mgl32.Vec3) error {
	if err := s.check(id); err != nil {
		return err
	}
	t := &s.transforms[id]
	t.Position = position
	t.Rotation = rotation
	t.model = ModelMatrix(position, rotation)
	s.valid[id] = s.valid[id].Set(KindTransform)
	return nil
}

// Transform returns the transform record of slot id for reading or
// editing, whether or not it is currently valid.
func (s *Store) Transform(id EntityID) (*Transform, error) {
	if err := s.check(id); err != nil {
		return nil, err
	}
	return &s.transforms[id], nil
}

// Mesh returns the mesh record of slot id.
func (s *Store) Mesh(id EntityID) (*Mesh, error) {
	if err := s.check(id); err != nil {
		return nil, err
	}
	return &s.meshes[id], nil
}

// Volume returns the volume record of slot id.
func (s *Store) Volume(id EntityID) (*Volume, error) {
	if err := s.check(id); err != nil {
		return nil, err
	}
	return &s.volumes[id], nil
}

// CheckMesh reports ErrInvalidMesh when positions, indices and faceCount
// cannot form a drawable mesh. It allocates nothing.
func CheckMesh(positions []float32, indices []uint32, faceCount int) error {
	n := len(positions) / 3
	switch {
	case n == 0 || len(positions)%3 != 0:
		return fmt.Errorf("%w: %d position floats", ErrInvalidMesh, len(positions))
	case n > MaxMeshPositions:
		return fmt.Errorf("%w: %d positions exceed uint16 indexing", ErrInvalidMesh, n)
	case len(indices) == 0 || faceCount <= 0:
		return fmt.Errorf("%w: %d faces over %d indices", ErrInvalidMesh, faceCount, len(indices))
	case 3*faceCount > len(indices):
		return fmt.Errorf("%w: %d faces need %d indices, have %d", ErrInvalidMesh, faceCount, 3*faceCount, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d references %d positions", ErrInvalidMesh, idx, i, n)
		}
	}
	return nil
}

// NewMesh allocates and fills a mesh from flat positions (xyz triples) and
// triangle-corner indices, painting every vertex with tint. The mesh is not
// installed in any slot. On failure every partial allocation is returned to
// the allocator.
func (s *Store) NewMesh(positions []float32, indices []uint32, faceCount int, tint mgl32.Vec4) (Mesh, error) {
	if err := CheckMesh(positions, indices, faceCount); err != nil {
		return Mesh{}, err
	}
	n := len(positions) / 3

	verts, err := s.alloc.Floats(n * FloatsPerVertex)
	if err != nil {
		return Mesh{}, fmt.Errorf("vertices: %w", err)
	}
	idx, err := s.alloc.Uint16s(len(indices))
	if err != nil {
		s.alloc.Free(verts)
		return Mesh{}, fmt.Errorf("indices: %w", err)
	}

	for i := range n {
		v := verts[i*FloatsPerVertex : (i+1)*FloatsPerVertex]
		copy(v[:3], positions[i*3:i*3+3])
		copy(v[3:], tint[:])
	}
	for i, x := range indices {
		idx[i] = uint16(x) //nolint:gosec // bounded by MaxMeshPositions above
	}
	return Mesh{Vertices: verts, Indices: idx, FaceCount: faceCount}, nil
}

// ReplaceMesh installs m in slot id, marks the mesh valid and frees the CPU
// buffers of the mesh it displaces. The displaced record is returned with
// its GPU handles so the caller can release them.
func (s *Store) ReplaceMesh(id EntityID, m Mesh) (Mesh, error) {
	if err := s.check(id); err != nil {
		return Mesh{}, err
	}
	prev := s.meshes[id]
	s.meshes[id] = m
	s.valid[id] = s.valid[id].Set(KindMesh)
	s.DiscardMesh(&prev)
	return prev, nil
}

// ReleaseMesh frees the CPU buffers of slot id and clears its mesh flag.
// The released record is returned with its GPU handles.
func (s *Store) ReleaseMesh(id EntityID) (Mesh, error) {
	if err := s.check(id); err != nil {
		return Mesh{}, err
	}
	prev := s.meshes[id]
	s.meshes[id] = Mesh{}
	s.valid[id] = s.valid[id].Clear(KindMesh)
	s.DiscardMesh(&prev)
	return prev, nil
}

// DiscardMesh returns the CPU buffers of a mesh that is not installed in
// any slot to the allocator. GPU handles are left untouched.
func (s *Store) DiscardMesh(m *Mesh) {
	s.alloc.Free(m.Vertices)
	s.alloc.Free(m.Indices)
	m.Vertices = nil
	m.Indices = nil
}

// WriteVolume copies voxels into the grid of slot id and marks the volume
// valid. The grid is allocated zeroed on first use and reused afterwards.
// On allocation failure the slot is left invalid.
func (s *Store) WriteVolume(id EntityID, voxels []byte) error {
	if err := s.check(id); err != nil {
		return err
	}
	if len(voxels) != s.VolumeSize() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrVolumeSize, len(voxels), s.VolumeSize())
	}
	v := &s.volumes[id]
	if v.Voxels == nil {
		buf, err := s.alloc.Bytes(s.VolumeSize())
		if err != nil {
			s.valid[id] = s.valid[id].Clear(KindVolume)
			return fmt.Errorf("voxels: %w", err)
		}
		v.Voxels = buf
	}
	copy(v.Voxels, voxels)
	s.valid[id] = s.valid[id].Set(KindVolume)
	return nil
}

// ReleaseVolume frees the voxel grid of slot id and clears its volume flag.
// The released record is returned with its texture handle; the slot keeps
// no reference to it.
func (s *Store) ReleaseVolume(id EntityID) (Volume, error) {
	if err := s.check(id); err != nil {
		return Volume{}, err
	}
	prev := s.volumes[id]
	s.alloc.Free(prev.Voxels)
	s.volumes[id] = Volume{Offset: prev.Offset}
	s.valid[id] = s.valid[id].Clear(KindVolume)
	return prev, nil
}
