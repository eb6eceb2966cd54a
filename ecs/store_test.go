package ecs

import (
	"errors"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var kinds = []Kind{KindTransform, KindMesh, KindVolume}

// matNear compares componentwise with an absolute tolerance.
func matNear(got, want mgl32.Mat4) bool {
	for i := range got {
		if mgl32.Abs(got[i]-want[i]) > 1e-5 {
			return false
		}
	}
	return true
}

func vec4Near(got, want mgl32.Vec4) bool {
	for i := range got {
		if mgl32.Abs(got[i]-want[i]) > 1e-5 {
			return false
		}
	}
	return true
}

func TestStore_Defaults(t *testing.T) {
	s := NewStore(0, 0, nil)
	if s.Capacity() != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", s.Capacity(), DefaultCapacity)
	}
	if s.VolumeDim() != 50 {
		t.Errorf("VolumeDim() = %d, want 50", s.VolumeDim())
	}
	if s.VolumeSize() != 125000 {
		t.Errorf("VolumeSize() = %d, want 125000", s.VolumeSize())
	}
}

func TestStore_OutOfRange(t *testing.T) {
	s := NewStore(4, 2, nil)
	for _, id := range []EntityID{-1, 4, 100} {
		if err := s.SetTransform(id, mgl32.Vec3{}, mgl32.Vec3{}); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SetTransform(%d) error = %v, want ErrOutOfRange", id, err)
		}
		if _, err := s.Transform(id); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Transform(%d) error = %v, want ErrOutOfRange", id, err)
		}
		if err := s.SetValid(id, KindMesh, true); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SetValid(%d) error = %v, want ErrOutOfRange", id, err)
		}
		if err := s.WriteVolume(id, make([]byte, 8)); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("WriteVolume(%d) error = %v, want ErrOutOfRange", id, err)
		}
		if s.IsValid(id, KindTransform) {
			t.Errorf("IsValid(%d) = true for out-of-range id", id)
		}
	}
}

func TestStore_ValidityIndependence(t *testing.T) {
	s := NewStore(8, 2, nil)
	for i := range EntityID(8) {
		for _, k := range kinds {
			if err := s.SetValid(i, k, true); err != nil {
				t.Fatal(err)
			}
			for _, other := range kinds {
				if other == k {
					continue
				}
				if s.IsValid(i, other) {
					t.Fatalf("entity %d: setting %v also set %v", i, k, other)
				}
			}
			// Neighbours must be untouched as well.
			for j := range EntityID(8) {
				if j != i && s.Mask(j) != 0 {
					t.Fatalf("entity %d: setting %v changed entity %d", i, k, j)
				}
			}
			if err := s.SetValid(i, k, false); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestStore_SetTransform(t *testing.T) {
	s := NewStore(4, 2, nil)
	pos := mgl32.Vec3{1, 2, 3}
	rot := mgl32.Vec3{10, 20, 30}
	if err := s.SetTransform(2, pos, rot); err != nil {
		t.Fatal(err)
	}
	if !s.IsValid(2, KindTransform) {
		t.Fatal("SetTransform did not mark the transform valid")
	}
	if s.IsValid(2, KindMesh) || s.IsValid(2, KindVolume) {
		t.Error("SetTransform marked other kinds valid")
	}
	tr, _ := s.Transform(2)
	if tr.Position != pos || tr.Rotation != rot {
		t.Errorf("transform = %v %v, want %v %v", tr.Position, tr.Rotation, pos, rot)
	}
	if !matNear(tr.Model(), ModelMatrix(pos, rot)) {
		t.Error("SetTransform did not compute the model matrix")
	}

	// Clearing the flag keeps the data.
	if err := s.SetValid(2, KindTransform, false); err != nil {
		t.Fatal(err)
	}
	if tr.Position != pos {
		t.Error("clearing the flag discarded transform data")
	}
}

func TestTransform_Resolve(t *testing.T) {
	tr := Transform{Position: mgl32.Vec3{1, 2, 3}}
	tr.Resolve(2.5)
	if tr.Rotation[0] != 2.5 {
		t.Errorf("Rotation.X = %v, want 2.5", tr.Rotation[0])
	}
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(2.5)))
	if !matNear(tr.Model(), want) {
		t.Errorf("Model() = %v, want %v", tr.Model(), want)
	}
}

func TestModelMatrix_Order(t *testing.T) {
	// Rotation is applied in object space, translation last.
	m := ModelMatrix(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{0, 90, 0})
	got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec4{5, 0, -1, 1}
	if !vec4Near(got, want) {
		t.Errorf("model * (1,0,0) = %v, want %v", got, want)
	}
}

func TestStore_Query(t *testing.T) {
	s := NewStore(6, 2, nil)
	for _, id := range []EntityID{0, 2, 3, 5} {
		_ = s.SetValid(id, KindTransform, true)
	}
	for _, id := range []EntityID{1, 2, 5} {
		_ = s.SetValid(id, KindMesh, true)
	}
	got := slices.Collect(s.Query(Renderable))
	want := []EntityID{2, 5}
	if !slices.Equal(got, want) {
		t.Errorf("Query(Renderable) = %v, want %v", got, want)
	}

	// Early stop.
	var first []EntityID
	for id := range s.Query(MaskOf(KindTransform)) {
		first = append(first, id)
		break
	}
	if !slices.Equal(first, []EntityID{0}) {
		t.Errorf("Query with break = %v, want [0]", first)
	}
}

func TestStore_NewMesh_RoundTrip(t *testing.T) {
	s := NewStore(4, 2, nil)
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0}
	indices := []uint32{0, 1, 2, 2, 1, 3}
	tint := mgl32.Vec4{0.2, 0.4, 0.6, 1}

	m, err := s.NewMesh(positions, indices, 2, tint)
	if err != nil {
		t.Fatal(err)
	}
	if m.PositionCount() != 4 {
		t.Fatalf("PositionCount() = %d, want 4", m.PositionCount())
	}
	for i := range 4 {
		want := mgl32.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
		if m.Position(i) != want {
			t.Errorf("Position(%d) = %v, want %v", i, m.Position(i), want)
		}
		if m.Color(i) != tint {
			t.Errorf("Color(%d) = %v, want %v", i, m.Color(i), tint)
		}
	}
	for i, idx := range indices {
		if uint32(m.Indices[i]) != idx {
			t.Errorf("Indices[%d] = %d, want %d", i, m.Indices[i], idx)
		}
	}
	if m.FaceCount != 2 {
		t.Errorf("FaceCount = %d, want 2", m.FaceCount)
	}
}

func TestStore_NewMesh_Invalid(t *testing.T) {
	s := NewStore(4, 2, nil)
	tests := []struct {
		name      string
		positions []float32
		indices   []uint32
		faces     int
	}{
		{"no positions", nil, nil, 0},
		{"ragged positions", []float32{0, 0}, nil, 0},
		{"index out of bounds", []float32{0, 0, 0}, []uint32{0, 0, 1}, 1},
		{"too many faces", []float32{0, 0, 0}, []uint32{0, 0, 0}, 2},
		{"negative faces", []float32{0, 0, 0}, []uint32{0, 0, 0}, -1},
		{"zero faces", []float32{0, 0, 0}, []uint32{0, 0, 0}, 0},
		{"no indices", []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.NewMesh(tt.positions, tt.indices, tt.faces, mgl32.Vec4{}); !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("NewMesh error = %v, want ErrInvalidMesh", err)
			}
		})
	}
}

func TestStore_ReplaceMesh_NoLeak(t *testing.T) {
	alloc := &CountingAllocator{}
	s := NewStore(4, 2, alloc)

	small, err := s.NewMesh([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 2}, 1, mgl32.Vec4{1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReplaceMesh(1, small); err != nil {
		t.Fatal(err)
	}
	smallBytes := alloc.Stats().LiveBytes

	big, err := s.NewMesh(make([]float32, 3*10), []uint32{0, 1, 2, 3, 4, 5}, 2, mgl32.Vec4{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReplaceMesh(1, big); err != nil {
		t.Fatal(err)
	}

	st := alloc.Stats()
	wantLive := int64(10*FloatsPerVertex*4 + 6*2)
	if st.LiveBytes != wantLive {
		t.Errorf("LiveBytes = %d, want %d (first mesh held %d)", st.LiveBytes, wantLive, smallBytes)
	}
	if st.Allocs != 4 || st.Frees != 2 {
		t.Errorf("allocs/frees = %d/%d, want 4/2", st.Allocs, st.Frees)
	}

	if _, err := s.ReleaseMesh(1); err != nil {
		t.Fatal(err)
	}
	if got := alloc.Stats().LiveBytes; got != 0 {
		t.Errorf("LiveBytes after release = %d, want 0", got)
	}
	if s.IsValid(1, KindMesh) {
		t.Error("ReleaseMesh left the mesh valid")
	}
}

func TestStore_NewMesh_AllocationFailure(t *testing.T) {
	// Room for the vertex buffer of a triangle but not its indices.
	alloc := &CountingAllocator{Limit: 3 * FloatsPerVertex * 4}
	s := NewStore(4, 2, alloc)

	_, err := s.NewMesh([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 2}, 1, mgl32.Vec4{})
	if !errors.Is(err, ErrAllocationFailed) {
		t.Fatalf("NewMesh error = %v, want ErrAllocationFailed", err)
	}
	st := alloc.Stats()
	if st.LiveBytes != 0 {
		t.Errorf("partial allocation leaked %d bytes", st.LiveBytes)
	}
	if st.Allocs != 1 || st.Frees != 1 {
		t.Errorf("allocs/frees = %d/%d, want 1/1", st.Allocs, st.Frees)
	}
}

func TestStore_WriteVolume(t *testing.T) {
	alloc := &CountingAllocator{}
	s := NewStore(4, 3, alloc)
	data := make([]byte, 27)
	for i := range data {
		data[i] = byte(i * 7)
	}

	if err := s.WriteVolume(0, data); err != nil {
		t.Fatal(err)
	}
	v, _ := s.Volume(0)
	once := slices.Clone(v.Voxels)
	buf := &v.Voxels[0]

	if err := s.WriteVolume(0, data); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(v.Voxels, once) {
		t.Error("second identical write changed voxel storage")
	}
	if &v.Voxels[0] != buf {
		t.Error("second write reallocated the voxel grid")
	}
	if st := alloc.Stats(); st.Allocs != 1 {
		t.Errorf("Allocs = %d, want 1", st.Allocs)
	}
	if !s.IsValid(0, KindVolume) {
		t.Error("WriteVolume did not mark the volume valid")
	}

	data[5] = 0xFF
	if err := s.WriteVolume(0, data); err != nil {
		t.Fatal(err)
	}
	if v.Voxels[5] != 0xFF {
		t.Error("overwrite did not copy new data")
	}
}

func TestStore_WriteVolume_Errors(t *testing.T) {
	s := NewStore(4, 3, &CountingAllocator{Limit: 10})
	if err := s.WriteVolume(0, make([]byte, 26)); !errors.Is(err, ErrVolumeSize) {
		t.Errorf("short data error = %v, want ErrVolumeSize", err)
	}
	if err := s.WriteVolume(0, make([]byte, 27)); !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("over-limit error = %v, want ErrAllocationFailed", err)
	}
	if s.IsValid(0, KindVolume) {
		t.Error("failed write left the volume valid")
	}
}

func TestStore_ReleaseVolume(t *testing.T) {
	alloc := &CountingAllocator{}
	s := NewStore(4, 2, alloc)
	if err := s.WriteVolume(3, make([]byte, 8)); err != nil {
		t.Fatal(err)
	}
	v, _ := s.Volume(3)
	v.Texture = 9

	prev, err := s.ReleaseVolume(3)
	if err != nil {
		t.Fatal(err)
	}
	if prev.Texture != 9 {
		t.Errorf("released Texture = %d, want 9", prev.Texture)
	}
	if v.Voxels != nil || v.Texture != 0 {
		t.Error("ReleaseVolume left storage or texture in the slot")
	}
	if s.IsValid(3, KindVolume) {
		t.Error("ReleaseVolume left the volume valid")
	}
	if got := alloc.Stats().LiveBytes; got != 0 {
		t.Errorf("LiveBytes = %d, want 0", got)
	}
}
