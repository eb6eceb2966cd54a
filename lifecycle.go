package voxscene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/voxscene/ecs"
	"github.com/gogpu/voxscene/meshio"
	"github.com/gogpu/voxscene/render"
	"github.com/gogpu/voxscene/volume"
)

// LoadMesh imports the mesh at path with the engine's importer and installs
// it in slot id painted with tint.
//
// An import failure is reported as ErrImport and leaves the slot's mesh
// invalid and empty.
func (e *Engine) LoadMesh(id ecs.EntityID, path string, tint mgl32.Vec3) error {
	if err := e.usable(id); err != nil {
		return err
	}
	m, err := e.opts.importer.Import(path)
	if err == nil && (m == nil || m.PositionCount() == 0 || m.FaceCount() == 0) {
		err = fmt.Errorf("%w: %s: no triangles", ErrImport, path)
	}
	if err != nil {
		e.dropMesh(id)
		if !errors.Is(err, ErrImport) {
			err = fmt.Errorf("%w: %w", ErrImport, err)
		}
		return fmt.Errorf("load mesh %d: %w", id, err)
	}
	return e.LoadMeshFrom(id, m, tint)
}

// LoadMeshFrom installs an already imported mesh in slot id.
func (e *Engine) LoadMeshFrom(id ecs.EntityID, m *meshio.Mesh, tint mgl32.Vec3) error {
	if m == nil {
		if err := e.usable(id); err != nil {
			return err
		}
		e.dropMesh(id)
		return fmt.Errorf("load mesh %d: %w: nil mesh", id, ErrImport)
	}
	return e.UpdateMesh(id, m.Positions, m.Indices, m.FaceCount(), tint)
}

// UpdateMesh replaces the mesh of slot id with flat positions (xyz
// triples) and triangle-corner indices. faceCount triangles are drawn.
//
// The slot's CPU buffers are freed before the new ones are allocated; its
// GPU buffers are released only once the new ones are uploaded.
// ErrInvalidMesh leaves the slot untouched; allocation and GPU failures
// leave it invalid and empty.
func (e *Engine) UpdateMesh(id ecs.EntityID, positions []float32, indices []uint32, faceCount int, tint mgl32.Vec3) error {
	if err := e.usable(id); err != nil {
		return err
	}
	if err := ecs.CheckMesh(positions, indices, faceCount); err != nil {
		return fmt.Errorf("update mesh %d: %w", id, err)
	}

	prev, err := e.store.ReleaseMesh(id)
	if err != nil {
		return err
	}
	m, err := e.store.NewMesh(positions, indices, faceCount, tint.Vec4(1))
	if err != nil {
		e.releaseMeshBuffers(prev)
		return fmt.Errorf("update mesh %d: %w", id, err)
	}

	vb, err := e.backend.CreateBuffer(&render.BufferDescriptor{
		Label: fmt.Sprintf("mesh %d vertices", id),
		Usage: gputypes.BufferUsageVertex,
		Data:  render.Float32Bytes(m.Vertices),
	})
	if err != nil {
		e.store.DiscardMesh(&m)
		e.releaseMeshBuffers(prev)
		return gpuError(fmt.Sprintf("update mesh %d", id), err)
	}
	ib, err := e.backend.CreateBuffer(&render.BufferDescriptor{
		Label: fmt.Sprintf("mesh %d indices", id),
		Usage: gputypes.BufferUsageIndex,
		Data:  render.Uint16Bytes(m.Indices),
	})
	if err != nil {
		e.backend.DestroyBuffer(vb)
		e.store.DiscardMesh(&m)
		e.releaseMeshBuffers(prev)
		return gpuError(fmt.Sprintf("update mesh %d", id), err)
	}
	m.VertexBuffer, m.IndexBuffer = vb, ib

	if _, err := e.store.ReplaceMesh(id, m); err != nil {
		return err
	}
	e.releaseMeshBuffers(prev)
	Logger().Debug("voxscene: mesh uploaded",
		"entity", id, "positions", m.PositionCount(), "faces", m.FaceCount)
	return nil
}

// dropMesh empties slot id and releases its GPU buffers.
func (e *Engine) dropMesh(id ecs.EntityID) {
	prev, err := e.store.ReleaseMesh(id)
	if err != nil {
		return
	}
	e.releaseMeshBuffers(prev)
}

func (e *Engine) releaseMeshBuffers(m ecs.Mesh) {
	if m.VertexBuffer != 0 {
		e.backend.DestroyBuffer(m.VertexBuffer)
	}
	if m.IndexBuffer != 0 {
		e.backend.DestroyBuffer(m.IndexBuffer)
	}
}

// UpdateVolume copies voxels into the grid of slot id and re-uploads its 3D
// texture. voxels must hold dim³ bytes indexed by volume.Index. The grid is
// allocated on first use and reused afterwards.
//
// ErrVolumeSize leaves the slot untouched; allocation and GPU failures
// leave it invalid and empty.
func (e *Engine) UpdateVolume(id ecs.EntityID, voxels []byte) error {
	if err := e.usable(id); err != nil {
		return err
	}
	if err := e.store.WriteVolume(id, voxels); err != nil {
		return fmt.Errorf("update volume %d: %w", id, err)
	}
	v, err := e.store.Volume(id)
	if err != nil {
		return err
	}
	if v.Texture != 0 {
		e.backend.DestroyTexture(v.Texture)
		v.Texture = 0
	}
	desc := render.VolumeTextureDescriptor(fmt.Sprintf("volume %d", id), e.store.VolumeDim())
	tex, err := e.backend.CreateTexture(&desc, v.Voxels)
	if err != nil {
		_, _ = e.store.ReleaseVolume(id)
		return gpuError(fmt.Sprintf("update volume %d", id), err)
	}
	v.Texture = tex
	Logger().Debug("voxscene: volume uploaded", "entity", id, "bytes", len(v.Voxels))
	return nil
}

// FreeVolume releases the voxel grid and the 3D texture of slot id and
// clears its volume flag. The volume offset is kept.
func (e *Engine) FreeVolume(id ecs.EntityID) error {
	prev, err := e.store.ReleaseVolume(id)
	if err != nil {
		return fmt.Errorf("free volume %d: %w", id, err)
	}
	if prev.Texture != 0 {
		e.backend.DestroyTexture(prev.Texture)
	}
	Logger().Debug("voxscene: volume freed", "entity", id)
	return nil
}

// FillRandom fills slot id with uniformly random voxels.
func (e *Engine) FillRandom(id ecs.EntityID) error {
	return e.UpdateVolume(id, volume.Random(e.rng, e.store.VolumeDim()))
}

// FillSphere fills slot id with a solid sphere of random intensities.
func (e *Engine) FillSphere(id ecs.EntityID) error {
	return e.UpdateVolume(id, volume.Sphere(e.rng, e.store.VolumeDim()))
}

// FillWireframeCube fills slot id with the twelve edges of the grid.
func (e *Engine) FillWireframeCube(id ecs.EntityID) error {
	return e.UpdateVolume(id, volume.WireframeCube(e.store.VolumeDim()))
}

// SetVolumePosition sets the offset of slot id's volume from its
// transform position.
func (e *Engine) SetVolumePosition(id ecs.EntityID, offset mgl32.Vec3) error {
	v, err := e.store.Volume(id)
	if err != nil {
		return err
	}
	v.Offset = offset
	return nil
}

func (e *Engine) usable(id ecs.EntityID) error {
	if e.closed {
		return ErrClosed
	}
	if id < 0 || int(id) >= e.store.Capacity() {
		return fmt.Errorf("%w: %d", ErrOutOfRange, id)
	}
	return nil
}

// PopulateDemo builds the demo scene: five spinning transforms laid out on
// a diagonal, a cube mesh in slots 0 and 1 and a random volume in slot 1.
func (e *Engine) PopulateDemo() error {
	for i := range 5 {
		f := float32(i)
		pos := mgl32.Vec3{f*3.1 - 6, f*1.1 - 5, -10}
		rot := mgl32.Vec3{f * 20, f * 20, 0}
		if err := e.SetTransform(ecs.EntityID(i), pos, rot); err != nil {
			return err
		}
	}
	cube := volume.CubePositions()
	idx := make([]uint32, len(volume.CubeIndices))
	for i, x := range volume.CubeIndices {
		idx[i] = uint32(x)
	}
	if err := e.UpdateMesh(0, cube, idx, len(idx)/3, mgl32.Vec3{1, 0.5, 0}); err != nil {
		return err
	}
	if err := e.UpdateMesh(1, cube, idx, len(idx)/3, mgl32.Vec3{0.2, 0.8, 0.3}); err != nil {
		return err
	}
	return e.FillRandom(1)
}
