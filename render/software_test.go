// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

var (
	red   = mgl32.Vec4{1, 0, 0, 1}
	blue  = mgl32.Vec4{0, 0, 1, 1}
	black = mgl32.Vec4{0, 0, 0, 1}
)

func newTestBackend(t *testing.T, w, h int) (*SoftwareBackend, *PixmapTarget) {
	t.Helper()
	target := NewPixmapTarget(w, h)
	b := NewSoftwareBackend(target)
	t.Cleanup(func() { _ = b.Close() })
	return b, target
}

func colorPipeline(t *testing.T, b Backend, cull gputypes.CullMode, blend bool) PipelineID {
	t.Helper()
	id, err := b.CreatePipeline(&PipelineDescriptor{
		Label:      "color",
		Shader:     ShaderColor,
		Attributes: []gputypes.VertexFormat{gputypes.VertexFormatFloat32x3, gputypes.VertexFormatFloat32x4},
		CullMode:   cull,
		FrontFace:  gputypes.FrontFaceCCW,
		DepthWrite: !blend,
		Blend:      blend,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func vertexBuffer(t *testing.T, b Backend, v []float32) BufferID {
	t.Helper()
	id, err := b.CreateBuffer(&BufferDescriptor{Label: "vb", Usage: gputypes.BufferUsageVertex, Data: Float32Bytes(v)})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// fullScreen returns a counter-clockwise triangle covering the viewport at
// depth z.
func fullScreen(z float32, c mgl32.Vec4) []float32 {
	return []float32{
		-1, -1, z, c[0], c[1], c[2], c[3],
		3, -1, z, c[0], c[1], c[2], c[3],
		-1, 3, z, c[0], c[1], c[2], c[3],
	}
}

// clockwise reverses the winding of a three-vertex buffer.
func clockwise(v []float32) []float32 {
	out := append([]float32(nil), v[:7]...)
	out = append(out, v[14:21]...)
	return append(out, v[7:14]...)
}

func drawColor(t *testing.T, b Backend, pipe PipelineID, verts ...[]float32) {
	t.Helper()
	for _, v := range verts {
		vb := vertexBuffer(t, b, v)
		b.ApplyPipeline(pipe)
		b.ApplyBindings(Bindings{VertexBuffer: vb})
		b.ApplyUniforms(ColorParams{MVP: mgl32.Ident4()})
		b.Draw(0, len(v)/7)
	}
}

func TestSoftwareBackend_Culling(t *testing.T) {
	tests := []struct {
		name   string
		cull   gputypes.CullMode
		cw     bool
		wantOn bool
	}{
		{"ccw cull back", gputypes.CullModeBack, false, true},
		{"cw cull back", gputypes.CullModeBack, true, false},
		{"ccw cull front", gputypes.CullModeFront, false, false},
		{"cw cull front", gputypes.CullModeFront, true, true},
		{"cw cull none", gputypes.CullModeNone, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, target := newTestBackend(t, 16, 16)
			pipe := colorPipeline(t, b, tt.cull, false)
			v := fullScreen(0, red)
			if tt.cw {
				v = clockwise(v)
			}
			if err := b.BeginPass(PassAction{ClearColor: black}); err != nil {
				t.Fatal(err)
			}
			drawColor(t, b, pipe, v)
			if err := b.EndPass(); err != nil {
				t.Fatal(err)
			}

			got := target.GetPixel(8, 8)
			want := color.RGBA{0, 0, 0, 255}
			if tt.wantOn {
				want = color.RGBA{255, 0, 0, 255}
			}
			if got != want {
				t.Errorf("pixel = %v, want %v", got, want)
			}
			if tt.wantOn == (b.Stats().Culled == 1) {
				t.Errorf("Culled = %d, drawn = %v", b.Stats().Culled, tt.wantOn)
			}
		})
	}
}

func TestSoftwareBackend_DepthTest(t *testing.T) {
	b, target := newTestBackend(t, 8, 8)
	pipe := colorPipeline(t, b, gputypes.CullModeBack, false)

	for _, order := range [][2][]float32{
		{fullScreen(0.5, blue), fullScreen(-0.5, red)},
		{fullScreen(-0.5, red), fullScreen(0.5, blue)},
	} {
		if err := b.BeginPass(PassAction{ClearColor: black}); err != nil {
			t.Fatal(err)
		}
		drawColor(t, b, pipe, order[0], order[1])
		_ = b.EndPass()
		if got := target.GetPixel(4, 4); got != (color.RGBA{255, 0, 0, 255}) {
			t.Errorf("nearer red triangle hidden: pixel = %v", got)
		}
	}
}

func TestSoftwareBackend_Blend(t *testing.T) {
	b, target := newTestBackend(t, 4, 4)
	pipe := colorPipeline(t, b, gputypes.CullModeNone, true)
	if err := b.BeginPass(PassAction{ClearColor: black}); err != nil {
		t.Fatal(err)
	}
	drawColor(t, b, pipe, fullScreen(0, mgl32.Vec4{1, 1, 1, 0.5}))
	_ = b.EndPass()

	got := target.GetPixel(1, 1)
	if got.R < 126 || got.R > 129 || got.A != 255 {
		t.Errorf("pixel = %v, want half-grey opaque", got)
	}
}

func TestSoftwareBackend_Indexed(t *testing.T) {
	b, target := newTestBackend(t, 8, 8)
	pipe := colorPipeline(t, b, gputypes.CullModeBack, false)
	quad := []float32{
		-1, -1, 0, 0, 1, 0, 1,
		1, -1, 0, 0, 1, 0, 1,
		1, 1, 0, 0, 1, 0, 1,
		-1, 1, 0, 0, 1, 0, 1,
	}
	vb := vertexBuffer(t, b, quad)
	ib, err := b.CreateBuffer(&BufferDescriptor{Usage: gputypes.BufferUsageIndex, Data: Uint16Bytes([]uint16{0, 1, 2, 0, 2, 3})})
	if err != nil {
		t.Fatal(err)
	}

	_ = b.BeginPass(PassAction{ClearColor: black})
	b.ApplyPipeline(pipe)
	b.ApplyBindings(Bindings{VertexBuffer: vb, IndexBuffer: ib})
	b.ApplyUniforms(ColorParams{MVP: mgl32.Ident4()})
	b.Draw(0, 6)
	_ = b.EndPass()

	for _, p := range [][2]int{{0, 0}, {7, 7}, {0, 7}, {7, 0}, {4, 4}} {
		if got := target.GetPixel(p[0], p[1]); got != (color.RGBA{0, 255, 0, 255}) {
			t.Errorf("pixel %v = %v, want green", p, got)
		}
	}
	if got := b.Stats().Triangles; got != 2 {
		t.Errorf("Triangles = %d, want 2", got)
	}
}

func TestSoftwareBackend_Volume(t *testing.T) {
	tests := []struct {
		name  string
		voxel byte
		want  color.RGBA
	}{
		{"opaque", 255, color.RGBA{0, 0, 255, 255}},
		{"empty", 0, color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, target := newTestBackend(t, 32, 32)
			pipe, err := b.CreatePipeline(&PipelineDescriptor{
				Shader:     ShaderVolume,
				Attributes: []gputypes.VertexFormat{gputypes.VertexFormatFloat32x3},
				CullMode:   gputypes.CullModeBack,
				FrontFace:  gputypes.FrontFaceCCW,
				Blend:      true,
			})
			if err != nil {
				t.Fatal(err)
			}
			// Front face of the unit cube at z = +1.
			vb := vertexBuffer(t, b, []float32{-1, -1, 1, 1, -1, 1, 1, 1, 1, -1, -1, 1, 1, 1, 1, -1, 1, 1})
			voxDesc := VolumeTextureDescriptor("vol", 2)
			vox, err := b.CreateTexture(&voxDesc, []byte{tt.voxel, tt.voxel, tt.voxel, tt.voxel, tt.voxel, tt.voxel, tt.voxel, tt.voxel})
			if err != nil {
				t.Fatal(err)
			}
			cmapDesc := ColormapTextureDescriptor("cmap", 2)
			cmap, err := b.CreateTexture(&cmapDesc, []byte{255, 0, 0, 255, 0, 0, 255, 0})
			if err != nil {
				t.Fatal(err)
			}

			eye := mgl32.Vec3{0, 0, 5}
			viewProj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.01, 1000).Mul4(mgl32.Translate3D(0, 0, -5))

			_ = b.BeginPass(PassAction{ClearColor: black})
			b.ApplyPipeline(pipe)
			b.ApplyBindings(Bindings{VertexBuffer: vb, Textures: []TextureID{vox, cmap}})
			b.ApplyUniforms(VolumeVertexParams{ViewProj: viewProj, EyePos: eye, Scale: 1})
			b.ApplyUniforms(VolumeFragmentParams{StepSize: 0.01, MaxSteps: 1000})
			b.Draw(0, 6)
			_ = b.EndPass()

			if got := target.GetPixel(16, 16); got != tt.want {
				t.Errorf("center pixel = %v, want %v", got, tt.want)
			}
			if got := target.GetPixel(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
				t.Errorf("corner pixel = %v, want background", got)
			}
		})
	}
}

func TestSoftwareBackend_Errors(t *testing.T) {
	b, _ := newTestBackend(t, 4, 4)

	if _, err := b.CreateBuffer(&BufferDescriptor{Usage: gputypes.BufferUsageVertex}); !errors.Is(err, ErrResource) {
		t.Errorf("empty buffer error = %v, want ErrResource", err)
	}
	if _, err := b.CreateBuffer(&BufferDescriptor{Usage: gputypes.BufferUsageUniform, Data: []byte{0, 0, 0, 0}}); !errors.Is(err, ErrResource) {
		t.Errorf("uniform buffer error = %v, want ErrResource", err)
	}
	desc := VolumeTextureDescriptor("vol", 2)
	if _, err := b.CreateTexture(&desc, make([]byte, 7)); !errors.Is(err, ErrResource) {
		t.Errorf("short texture error = %v, want ErrResource", err)
	}
	if _, err := b.CreatePipeline(&PipelineDescriptor{}); !errors.Is(err, ErrResource) {
		t.Errorf("empty pipeline error = %v, want ErrResource", err)
	}

	if err := b.EndPass(); err == nil {
		t.Error("EndPass without BeginPass should fail")
	}
	if err := b.BeginPass(PassAction{}); err != nil {
		t.Fatal(err)
	}
	if err := b.BeginPass(PassAction{}); err == nil {
		t.Error("nested BeginPass should fail")
	}
	_ = b.EndPass()

	b.SetTarget(nil)
	if err := b.BeginPass(PassAction{}); err == nil {
		t.Error("BeginPass with nil target should fail")
	}
}

func TestSoftwareBackend_DrawOutsidePass(t *testing.T) {
	b, _ := newTestBackend(t, 4, 4)
	pipe := colorPipeline(t, b, gputypes.CullModeNone, false)
	b.ApplyPipeline(pipe)
	b.ApplyBindings(Bindings{VertexBuffer: vertexBuffer(t, b, fullScreen(0, red))})
	b.Draw(0, 3)
	if got := b.Stats().Draws; got != 0 {
		t.Errorf("Draws = %d, want 0", got)
	}
}

func TestClipNear(t *testing.T) {
	front := clipVertex{pos: mgl32.Vec4{0, 0, 0, 1}}
	behind := clipVertex{pos: mgl32.Vec4{0, 0, -3, 1}}

	tests := []struct {
		name string
		tri  [3]clipVertex
		want int
	}{
		{"all in front", [3]clipVertex{front, front, front}, 3},
		{"one behind", [3]clipVertex{front, front, behind}, 4},
		{"two behind", [3]clipVertex{front, behind, behind}, 3},
		{"all behind", [3]clipVertex{behind, behind, behind}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poly, n := clipNear(tt.tri)
			if n != tt.want {
				t.Fatalf("vertices = %d, want %d", n, tt.want)
			}
			for _, v := range poly[:n] {
				if v.pos[2]+v.pos[3] < -1e-6 {
					t.Errorf("vertex %v lies behind the near plane", v.pos)
				}
			}
		})
	}
}

func TestUniformBytes(t *testing.T) {
	tests := []struct {
		u    Uniforms
		slot UniformSlot
		size int
	}{
		{ColorParams{MVP: mgl32.Ident4()}, SlotVertex, 64},
		{VolumeVertexParams{}, SlotVertex, 96},
		{VolumeFragmentParams{MaxSteps: 1000}, SlotFragment, 32},
	}
	for _, tt := range tests {
		if got := tt.u.Slot(); got != tt.slot {
			t.Errorf("%T.Slot() = %d, want %d", tt.u, got, tt.slot)
		}
		if got := len(tt.u.Bytes()); got != tt.size {
			t.Errorf("len(%T.Bytes()) = %d, want %d", tt.u, got, tt.size)
		}
	}
	m := mgl32.Translate3D(1, 2, 3)
	if got := bytesFloat32(ColorParams{MVP: m}.Bytes()); mgl32.Mat4(got) != m {
		t.Errorf("ColorParams bytes decode to %v, want %v", got, m)
	}
}
