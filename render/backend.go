// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// ErrResource reports that a backend could not create or upload a resource.
var ErrResource = errors.New("render: resource creation failed")

// BufferID, TextureID and PipelineID name backend resources. The zero value
// names nothing.
type (
	BufferID   uint32
	TextureID  uint32
	PipelineID uint32
)

// ShaderKind selects the vertex and fragment program of a pipeline.
type ShaderKind uint8

const (
	// ShaderColor transforms position by ColorParams.MVP and outputs the
	// per-vertex RGBA color.
	ShaderColor ShaderKind = iota

	// ShaderVolume places the unit cube with VolumeVertexParams and
	// ray-marches the bound 3D texture, shading through the bound colormap.
	ShaderVolume
)

// Texture binding slots of ShaderVolume.
const (
	TextureSlotVolume = iota
	TextureSlotColormap
)

// PipelineDescriptor describes vertex layout, rasterizer state and blending.
type PipelineDescriptor struct {
	Label  string
	Shader ShaderKind

	// Attributes lists vertex attributes in buffer order. The stride is the
	// sum of their sizes.
	Attributes  []gputypes.VertexFormat
	IndexFormat gputypes.IndexFormat
	Topology    gputypes.PrimitiveTopology

	CullMode  gputypes.CullMode
	FrontFace gputypes.FrontFace

	DepthWrite bool
	Blend      bool
}

// Stride returns the vertex size in float32 units.
func (d *PipelineDescriptor) Stride() int {
	n := 0
	for _, a := range d.Attributes {
		n += vertexFormatFloats(a)
	}
	return n
}

func vertexFormatFloats(f gputypes.VertexFormat) int {
	switch f {
	case gputypes.VertexFormatFloat32:
		return 1
	case gputypes.VertexFormatFloat32x2:
		return 2
	case gputypes.VertexFormatFloat32x3:
		return 3
	case gputypes.VertexFormatFloat32x4:
		return 4
	}
	return 0
}

// Bindings selects the buffers and textures of the next draw.
type Bindings struct {
	VertexBuffer BufferID
	IndexBuffer  BufferID
	Textures     []TextureID
}

// PassAction describes how a pass starts.
type PassAction struct {
	ClearColor mgl32.Vec4
}

// UniformSlot identifies a uniform block.
type UniformSlot uint8

const (
	SlotVertex UniformSlot = iota
	SlotFragment
)

// Uniforms is a typed uniform block that can be uploaded as bytes.
type Uniforms interface {
	Slot() UniformSlot
	Bytes() []byte
}

// ColorParams is the vertex block of ShaderColor.
type ColorParams struct {
	MVP mgl32.Mat4
}

// VolumeVertexParams is the vertex block of ShaderVolume. Cube vertices are
// placed at position*Scale + Translation before ViewProj is applied.
type VolumeVertexParams struct {
	ViewProj    mgl32.Mat4
	EyePos      mgl32.Vec3
	Scale       float32
	Translation mgl32.Vec3
}

// VolumeFragmentParams is the fragment block of ShaderVolume.
type VolumeFragmentParams struct {
	DtScale  float32
	StepSize float32
	Near     float32
	Far      float32
	MaxSteps int32
}

func (ColorParams) Slot() UniformSlot          { return SlotVertex }
func (VolumeVertexParams) Slot() UniformSlot   { return SlotVertex }
func (VolumeFragmentParams) Slot() UniformSlot { return SlotFragment }

// Bytes returns the column-major matrix as little-endian float32s.
func (p ColorParams) Bytes() []byte {
	return Float32Bytes(p.MVP[:])
}

// Bytes packs the block with std140 vec3 padding.
func (p VolumeVertexParams) Bytes() []byte {
	f := make([]float32, 0, 24)
	f = append(f, p.ViewProj[:]...)
	f = append(f, p.EyePos[:]...)
	f = append(f, p.Scale)
	f = append(f, p.Translation[:]...)
	f = append(f, 0)
	return Float32Bytes(f)
}

// Bytes packs the block as four floats followed by an int32 and padding.
func (p VolumeFragmentParams) Bytes() []byte {
	b := Float32Bytes([]float32{p.DtScale, p.StepSize, p.Near, p.Far})
	b = binary.LittleEndian.AppendUint32(b, uint32(p.MaxSteps)) //nolint:gosec // bit pattern
	return append(b, make([]byte, 12)...)
}

// Backend is the capability set the scene engine needs from a GPU.
//
// Methods are called from a single goroutine. Draw state (pipeline,
// bindings, uniforms) persists until replaced and is only meaningful
// between BeginPass and EndPass.
type Backend interface {
	CreateBuffer(desc *BufferDescriptor) (BufferID, error)
	DestroyBuffer(id BufferID)

	// CreateTexture creates a texture and fills it with data, which must
	// hold desc.Size() bytes.
	CreateTexture(desc *TextureDescriptor, data []byte) (TextureID, error)
	DestroyTexture(id TextureID)

	CreatePipeline(desc *PipelineDescriptor) (PipelineID, error)
	DestroyPipeline(id PipelineID)

	BeginPass(action PassAction) error
	ApplyPipeline(id PipelineID)
	ApplyBindings(b Bindings)
	ApplyUniforms(u Uniforms)
	// Draw draws count elements starting at first, indexed when an index
	// buffer is bound.
	Draw(first, count int)
	EndPass() error

	// Close releases every resource the backend still holds.
	Close() error
}

// Float32Bytes encodes v as little-endian bytes.
func Float32Bytes(v []float32) []byte {
	b := make([]byte, 0, len(v)*4)
	for _, f := range v {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

// Uint16Bytes encodes v as little-endian bytes.
func Uint16Bytes(v []uint16) []byte {
	b := make([]byte, 0, len(v)*2)
	for _, x := range v {
		b = binary.LittleEndian.AppendUint16(b, x)
	}
	return b
}

func bytesFloat32(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

func bytesUint16(b []byte) []uint16 {
	v := make([]uint16, len(b)/2)
	for i := range v {
		v[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return v
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }
