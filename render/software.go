// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/voxscene/internal/parallel"
	"github.com/gogpu/voxscene/volume"
)

type softBuffer struct {
	label   string
	floats  []float32
	indices []uint16
}

type softTexture struct {
	desc TextureDescriptor
	data []byte
}

// SoftwareStats counts the work a SoftwareBackend has done.
type SoftwareStats struct {
	Passes    int
	Draws     int
	Triangles int // triangles that reached the rasterizer
	Culled    int // triangles dropped by face culling
}

// SoftwareBackend rasterizes on the CPU into a RenderTarget.
//
// Triangles are clipped against the near plane, culled according to the
// pipeline, depth tested against a float depth buffer and optionally
// alpha blended. Rows of large triangles are shaded in parallel.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	b := render.NewSoftwareBackend(target)
//	defer b.Close()
type SoftwareBackend struct {
	target RenderTarget
	depth  []float32
	pool   *parallel.WorkerPool
	log    *slog.Logger

	next      uint32
	buffers   map[BufferID]*softBuffer
	textures  map[TextureID]*softTexture
	pipelines map[PipelineID]*PipelineDescriptor

	inPass   bool
	pipeline *PipelineDescriptor
	bindings Bindings
	color    ColorParams
	volVS    VolumeVertexParams
	volFS    VolumeFragmentParams

	stats SoftwareStats
}

// NewSoftwareBackend creates a backend drawing into target. The target may
// be nil and set later with SetTarget.
func NewSoftwareBackend(target RenderTarget) *SoftwareBackend {
	return &SoftwareBackend{
		target:    target,
		pool:      parallel.NewWorkerPool(0),
		log:       discardLogger(),
		buffers:   make(map[BufferID]*softBuffer),
		textures:  make(map[TextureID]*softTexture),
		pipelines: make(map[PipelineID]*PipelineDescriptor),
	}
}

// SetLogger sets the logger for backend diagnostics. Nil discards output.
func (b *SoftwareBackend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger()
	}
	b.log = l
}

// SetTarget replaces the render target. It must not be called inside a pass.
func (b *SoftwareBackend) SetTarget(t RenderTarget) { b.target = t }

// Target returns the current render target.
func (b *SoftwareBackend) Target() RenderTarget { return b.target }

// Stats returns the work counters.
func (b *SoftwareBackend) Stats() SoftwareStats { return b.stats }

func (b *SoftwareBackend) nextID() uint32 {
	b.next++
	return b.next
}

// CreateBuffer implements Backend.
func (b *SoftwareBackend) CreateBuffer(desc *BufferDescriptor) (BufferID, error) {
	if desc == nil || len(desc.Data) == 0 {
		return 0, fmt.Errorf("%w: empty buffer", ErrResource)
	}
	buf := &softBuffer{label: desc.Label}
	switch {
	case desc.Usage&gputypes.BufferUsageIndex != 0:
		buf.indices = bytesUint16(desc.Data)
	case desc.Usage&gputypes.BufferUsageVertex != 0:
		buf.floats = bytesFloat32(desc.Data)
	default:
		return 0, fmt.Errorf("%w: buffer %q is neither vertex nor index", ErrResource, desc.Label)
	}
	id := BufferID(b.nextID())
	b.buffers[id] = buf
	b.log.Debug("render: buffer created", "id", id, "label", desc.Label, "bytes", len(desc.Data))
	return id, nil
}

// DestroyBuffer implements Backend.
func (b *SoftwareBackend) DestroyBuffer(id BufferID) {
	delete(b.buffers, id)
}

// CreateTexture implements Backend.
func (b *SoftwareBackend) CreateTexture(desc *TextureDescriptor, data []byte) (TextureID, error) {
	if desc == nil || desc.BytesPerTexel() == 0 {
		return 0, fmt.Errorf("%w: unsupported texture format", ErrResource)
	}
	if len(data) != desc.Size() {
		return 0, fmt.Errorf("%w: texture %q needs %d bytes, got %d", ErrResource, desc.Label, desc.Size(), len(data))
	}
	id := TextureID(b.nextID())
	b.textures[id] = &softTexture{desc: *desc, data: slices.Clone(data)}
	b.log.Debug("render: texture created", "id", id, "label", desc.Label, "bytes", len(data))
	return id, nil
}

// DestroyTexture implements Backend.
func (b *SoftwareBackend) DestroyTexture(id TextureID) {
	delete(b.textures, id)
}

// CreatePipeline implements Backend.
func (b *SoftwareBackend) CreatePipeline(desc *PipelineDescriptor) (PipelineID, error) {
	if desc == nil || desc.Stride() < 3 {
		return 0, fmt.Errorf("%w: pipeline needs a position attribute", ErrResource)
	}
	p := *desc
	p.Attributes = slices.Clone(desc.Attributes)
	id := PipelineID(b.nextID())
	b.pipelines[id] = &p
	return id, nil
}

// DestroyPipeline implements Backend.
func (b *SoftwareBackend) DestroyPipeline(id PipelineID) {
	delete(b.pipelines, id)
}

// BeginPass implements Backend. It clears the target to the action's color
// and resets the depth buffer.
func (b *SoftwareBackend) BeginPass(action PassAction) error {
	if b.inPass {
		return errors.New("render: pass already in progress")
	}
	if b.target == nil {
		return errors.New("render: nil target")
	}
	pix := b.target.Pixels()
	if pix == nil {
		return errors.New("render: target has no CPU pixels")
	}
	w, h := b.target.Width(), b.target.Height()
	if n := w * h; len(b.depth) != n {
		b.depth = make([]float32, n)
	}
	for i := range b.depth {
		b.depth[i] = 1
	}

	c := toRGBA8(action.ClearColor)
	stride := b.target.Stride()
	for y := range h {
		row := pix[y*stride : y*stride+w*4]
		for x := 0; x < len(row); x += 4 {
			copy(row[x:x+4], c[:])
		}
	}

	b.inPass = true
	b.pipeline = nil
	b.bindings = Bindings{}
	b.stats.Passes++
	return nil
}

// ApplyPipeline implements Backend.
func (b *SoftwareBackend) ApplyPipeline(id PipelineID) {
	p, ok := b.pipelines[id]
	if !ok {
		b.log.Warn("render: unknown pipeline", "id", id)
	}
	b.pipeline = p
}

// ApplyBindings implements Backend.
func (b *SoftwareBackend) ApplyBindings(bind Bindings) {
	bind.Textures = slices.Clone(bind.Textures)
	b.bindings = bind
}

// ApplyUniforms implements Backend.
func (b *SoftwareBackend) ApplyUniforms(u Uniforms) {
	switch u := u.(type) {
	case ColorParams:
		b.color = u
	case VolumeVertexParams:
		b.volVS = u
	case VolumeFragmentParams:
		b.volFS = u
	default:
		b.log.Warn("render: unsupported uniform block", "type", fmt.Sprintf("%T", u))
	}
}

// EndPass implements Backend.
func (b *SoftwareBackend) EndPass() error {
	if !b.inPass {
		return errors.New("render: no pass in progress")
	}
	b.inPass = false
	return nil
}

// Close implements Backend.
func (b *SoftwareBackend) Close() error {
	b.pool.Close()
	clear(b.buffers)
	clear(b.textures)
	clear(b.pipelines)
	return nil
}

// Draw implements Backend.
func (b *SoftwareBackend) Draw(first, count int) {
	if !b.inPass || b.pipeline == nil {
		b.log.Warn("render: draw outside a pass or without a pipeline")
		return
	}
	vb, ok := b.buffers[b.bindings.VertexBuffer]
	if !ok || vb.floats == nil {
		b.log.Warn("render: draw without a vertex buffer", "id", b.bindings.VertexBuffer)
		return
	}
	var indices []uint16
	if ib, ok := b.buffers[b.bindings.IndexBuffer]; ok {
		indices = ib.indices
	}

	p := b.pipeline
	vs, fs, ok := b.shaders(p)
	if !ok {
		return
	}
	b.stats.Draws++

	stride := p.Stride()
	fetch := func(k int) (clipVertex, bool) {
		i := k
		if indices != nil {
			if k >= len(indices) {
				return clipVertex{}, false
			}
			i = int(indices[k])
		}
		base := i * stride
		if base+stride > len(vb.floats) {
			return clipVertex{}, false
		}
		return vs(vb.floats[base : base+stride]), true
	}

	for k := max(first, 0); k+2 < first+count; k += 3 {
		var tri [3]clipVertex
		valid := true
		for j := range 3 {
			tri[j], ok = fetch(k + j)
			valid = valid && ok
		}
		if !valid {
			continue
		}
		poly, n := clipNear(tri)
		for j := 1; j+1 < n; j++ {
			b.rasterize([3]clipVertex{poly[0], poly[j], poly[j+1]}, p, fs)
		}
	}
}

type (
	vertexShader   func(attrs []float32) clipVertex
	fragmentShader func(vary [4]float32) mgl32.Vec4
)

func (b *SoftwareBackend) shaders(p *PipelineDescriptor) (vertexShader, fragmentShader, bool) {
	switch p.Shader {
	case ShaderColor:
		mvp := b.color.MVP
		vs := func(a []float32) clipVertex {
			v := clipVertex{pos: mvp.Mul4x1(mgl32.Vec4{a[0], a[1], a[2], 1})}
			if len(a) >= 7 {
				copy(v.vary[:], a[3:7])
			} else {
				v.vary = [4]float32{1, 1, 1, 1}
			}
			return v
		}
		fs := func(vary [4]float32) mgl32.Vec4 { return mgl32.Vec4(vary) }
		return vs, fs, true

	case ShaderVolume:
		vol, cmap := b.texture(TextureSlotVolume), b.texture(TextureSlotColormap)
		if vol == nil {
			b.log.Warn("render: volume draw without a 3D texture")
			return nil, nil, false
		}
		sampler := volume.NearestSampler{Data: vol.data, Dim: int(vol.desc.Width)}
		var cdata []byte
		if cmap != nil {
			cdata = cmap.data
		}

		vp := b.volVS
		scale := vp.Scale
		if scale == 0 {
			scale = 1
		}
		viewProj := vp.ViewProj
		vs := func(a []float32) clipVertex {
			obj := mgl32.Vec3{a[0], a[1], a[2]}
			world := obj.Mul(scale).Add(vp.Translation)
			return clipVertex{
				pos:  viewProj.Mul4x1(world.Vec4(1)),
				vary: [4]float32{obj[0], obj[1], obj[2], 0},
			}
		}

		eye := vp.EyePos.Sub(vp.Translation).Mul(1 / scale)
		eyeTex := toTexCoord(eye)
		step, steps := b.volFS.StepSize, int(b.volFS.MaxSteps)
		if step <= 0 {
			step = volume.StepSize
		}
		if steps <= 0 {
			steps = volume.MaxSteps
		}
		fs := func(vary [4]float32) mgl32.Vec4 {
			entry := toTexCoord(mgl32.Vec3{vary[0], vary[1], vary[2]})
			acc := volume.March(sampler, entry, entry.Sub(eyeTex), step, steps)
			return volume.Shade(acc, cdata)
		}
		return vs, fs, true
	}
	b.log.Warn("render: unknown shader", "kind", p.Shader)
	return nil, nil, false
}

func (b *SoftwareBackend) texture(slot int) *softTexture {
	if slot >= len(b.bindings.Textures) {
		return nil
	}
	return b.textures[b.bindings.Textures[slot]]
}

// toTexCoord maps the unit cube [-1,1]³ onto texture space [0,1]³.
func toTexCoord(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{p[0]*0.5 + 0.5, p[1]*0.5 + 0.5, p[2]*0.5 + 0.5}
}

var _ Backend = (*SoftwareBackend)(nil)
