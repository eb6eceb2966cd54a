package ecs

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/voxscene/render"
)

// FloatsPerVertex is the size of one interleaved vertex record:
// three position floats followed by an RGBA color.
const FloatsPerVertex = 7

// Transform places an entity in the world.
//
// Rotation holds Euler angles in degrees (pitch, yaw, roll). The model
// matrix is derived from Position and Rotation by Resolve and cannot be
// set directly.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3

	model mgl32.Mat4
}

// Model returns the model matrix computed by the last Resolve.
func (t *Transform) Model() mgl32.Mat4 { return t.model }

// Resolve adds spin degrees to the pitch angle and recomputes the model
// matrix as translate(Position) * rotX * rotY * rotZ.
func (t *Transform) Resolve(spin float32) {
	t.Rotation[0] += spin
	t.model = ModelMatrix(t.Position, t.Rotation)
}

// ModelMatrix composes translate(pos) * rotX(rot.x) * rotY(rot.y) * rotZ(rot.z)
// with rot given in degrees.
func ModelMatrix(pos, rot mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rot[0]))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rot[1]))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rot[2])))
}

// Mesh is a flat-shaded triangle mesh with its GPU buffers.
type Mesh struct {
	// Vertices holds FloatsPerVertex floats per position.
	Vertices []float32
	// Indices are triangle corners into Vertices.
	Indices []uint16
	// FaceCount is the number of triangles drawn; the draw length is 3*FaceCount.
	FaceCount int

	VertexBuffer render.BufferID
	IndexBuffer  render.BufferID
}

// PositionCount returns the number of vertex records.
func (m *Mesh) PositionCount() int { return len(m.Vertices) / FloatsPerVertex }

// Position returns the i-th vertex position.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	v := m.Vertices[i*FloatsPerVertex:]
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// Color returns the i-th vertex color.
func (m *Mesh) Color(i int) mgl32.Vec4 {
	v := m.Vertices[i*FloatsPerVertex+3:]
	return mgl32.Vec4{v[0], v[1], v[2], v[3]}
}

// Volume is a dense dim*dim*dim voxel grid with its GPU texture.
type Volume struct {
	// Voxels is nil until the first write. Index with volume.Index.
	Voxels []byte
	// Offset is added to the entity position when the volume is drawn.
	Offset mgl32.Vec3

	Texture render.TextureID
}
