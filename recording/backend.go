package recording

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/gogpu/voxscene/render"
)

func init() {
	render.Register("recording", func(render.RenderTarget) (render.Backend, error) {
		return New(), nil
	})
}

// Buffer is a live buffer held by the recorder.
type Buffer struct {
	Label string
	Data  []byte
}

// Texture is a live texture held by the recorder.
type Texture struct {
	Desc render.TextureDescriptor
	Data []byte
}

// DrawCall is the state a Draw was issued with.
type DrawCall struct {
	Pipeline render.PipelineID
	Bindings render.Bindings
	// Uniforms holds the last block applied to each slot in the pass.
	Uniforms     map[render.UniformSlot]render.Uniforms
	First, Count int
}

// Backend records calls and tracks live resources.
type Backend struct {
	commands  []Command
	draws     []DrawCall
	next      uint32
	buffers   map[render.BufferID]Buffer
	textures  map[render.TextureID]Texture
	pipelines map[render.PipelineID]render.PipelineDescriptor

	failUploads int
	inPass      bool
	pipeline    render.PipelineID
	bindings    render.Bindings
	uniforms    map[render.UniformSlot]render.Uniforms
}

// New creates an empty recorder.
func New() *Backend {
	return &Backend{
		buffers:   make(map[render.BufferID]Buffer),
		textures:  make(map[render.TextureID]Texture),
		pipelines: make(map[render.PipelineID]render.PipelineDescriptor),
		uniforms:  make(map[render.UniformSlot]render.Uniforms),
	}
}

// FailNextUploads makes the next n buffer or texture creations fail with
// render.ErrResource.
func (b *Backend) FailNextUploads(n int) { b.failUploads = n }

func (b *Backend) record(c Command) { b.commands = append(b.commands, c) }

func (b *Backend) upload() error {
	if b.failUploads > 0 {
		b.failUploads--
		return fmt.Errorf("%w: injected upload failure", render.ErrResource)
	}
	return nil
}

// CreateBuffer implements render.Backend.
func (b *Backend) CreateBuffer(desc *render.BufferDescriptor) (render.BufferID, error) {
	if desc == nil || len(desc.Data) == 0 {
		return 0, fmt.Errorf("%w: empty buffer", render.ErrResource)
	}
	if err := b.upload(); err != nil {
		return 0, err
	}
	b.next++
	id := render.BufferID(b.next)
	b.buffers[id] = Buffer{Label: desc.Label, Data: slices.Clone(desc.Data)}
	b.record(Command{Type: CmdCreateBuffer, Buffer: id, Label: desc.Label, Bytes: len(desc.Data)})
	return id, nil
}

// DestroyBuffer implements render.Backend.
func (b *Backend) DestroyBuffer(id render.BufferID) {
	buf := b.buffers[id]
	delete(b.buffers, id)
	b.record(Command{Type: CmdDestroyBuffer, Buffer: id, Label: buf.Label, Bytes: len(buf.Data)})
}

// CreateTexture implements render.Backend.
func (b *Backend) CreateTexture(desc *render.TextureDescriptor, data []byte) (render.TextureID, error) {
	if desc == nil || desc.Size() == 0 || len(data) != desc.Size() {
		return 0, fmt.Errorf("%w: bad texture data", render.ErrResource)
	}
	if err := b.upload(); err != nil {
		return 0, err
	}
	b.next++
	id := render.TextureID(b.next)
	b.textures[id] = Texture{Desc: *desc, Data: slices.Clone(data)}
	b.record(Command{Type: CmdCreateTexture, Texture: id, Label: desc.Label, Bytes: len(data)})
	return id, nil
}

// DestroyTexture implements render.Backend.
func (b *Backend) DestroyTexture(id render.TextureID) {
	tex := b.textures[id]
	delete(b.textures, id)
	b.record(Command{Type: CmdDestroyTexture, Texture: id, Label: tex.Desc.Label, Bytes: len(tex.Data)})
}

// CreatePipeline implements render.Backend.
func (b *Backend) CreatePipeline(desc *render.PipelineDescriptor) (render.PipelineID, error) {
	if desc == nil {
		return 0, fmt.Errorf("%w: nil pipeline", render.ErrResource)
	}
	b.next++
	id := render.PipelineID(b.next)
	b.pipelines[id] = *desc
	b.record(Command{Type: CmdCreatePipeline, Pipeline: id, Label: desc.Label})
	return id, nil
}

// DestroyPipeline implements render.Backend.
func (b *Backend) DestroyPipeline(id render.PipelineID) {
	delete(b.pipelines, id)
	b.record(Command{Type: CmdDestroyPipeline, Pipeline: id})
}

// BeginPass implements render.Backend.
func (b *Backend) BeginPass(render.PassAction) error {
	if b.inPass {
		return errors.New("recording: pass already in progress")
	}
	b.inPass = true
	b.pipeline = 0
	b.bindings = render.Bindings{}
	clear(b.uniforms)
	b.record(Command{Type: CmdBeginPass})
	return nil
}

// ApplyPipeline implements render.Backend.
func (b *Backend) ApplyPipeline(id render.PipelineID) {
	b.pipeline = id
	b.record(Command{Type: CmdApplyPipeline, Pipeline: id, Label: b.pipelines[id].Label})
}

// ApplyBindings implements render.Backend.
func (b *Backend) ApplyBindings(bind render.Bindings) {
	bind.Textures = slices.Clone(bind.Textures)
	b.bindings = bind
	b.record(Command{Type: CmdApplyBindings, Bindings: bind})
}

// ApplyUniforms implements render.Backend.
func (b *Backend) ApplyUniforms(u render.Uniforms) {
	b.uniforms[u.Slot()] = u
	b.record(Command{Type: CmdApplyUniforms, Uniforms: u})
}

// Draw implements render.Backend.
func (b *Backend) Draw(first, count int) {
	b.draws = append(b.draws, DrawCall{
		Pipeline: b.pipeline,
		Bindings: b.bindings,
		Uniforms: maps.Clone(b.uniforms),
		First:    first,
		Count:    count,
	})
	b.record(Command{Type: CmdDraw, First: first, Count: count})
}

// EndPass implements render.Backend.
func (b *Backend) EndPass() error {
	if !b.inPass {
		return errors.New("recording: no pass in progress")
	}
	b.inPass = false
	b.record(Command{Type: CmdEndPass})
	return nil
}

// Close implements render.Backend. Live resources are released and recorded
// as destroyed.
func (b *Backend) Close() error {
	for _, id := range sortedKeys(b.textures) {
		b.DestroyTexture(id)
	}
	for _, id := range sortedKeys(b.buffers) {
		b.DestroyBuffer(id)
	}
	for _, id := range sortedKeys(b.pipelines) {
		b.DestroyPipeline(id)
	}
	return nil
}

func sortedKeys[K ~uint32, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Commands returns the recorded stream.
func (b *Backend) Commands() []Command { return b.commands }

// Draws returns the recorded draw calls.
func (b *Backend) Draws() []DrawCall { return b.draws }

// Count returns how many commands of type t were recorded.
func (b *Backend) Count(t CommandType) int {
	n := 0
	for _, c := range b.commands {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Reset forgets recorded commands and draws. Resources stay alive.
func (b *Backend) Reset() {
	b.commands = b.commands[:0]
	b.draws = b.draws[:0]
}

// Pipeline returns the descriptor of a live pipeline.
func (b *Backend) Pipeline(id render.PipelineID) (render.PipelineDescriptor, bool) {
	p, ok := b.pipelines[id]
	return p, ok
}

// Buffer returns a live buffer.
func (b *Backend) Buffer(id render.BufferID) (Buffer, bool) {
	buf, ok := b.buffers[id]
	return buf, ok
}

// Texture returns a live texture.
func (b *Backend) Texture(id render.TextureID) (Texture, bool) {
	tex, ok := b.textures[id]
	return tex, ok
}

// LiveBuffers returns the number of buffers not yet destroyed.
func (b *Backend) LiveBuffers() int { return len(b.buffers) }

// LiveTextures returns the number of textures not yet destroyed.
func (b *Backend) LiveTextures() int { return len(b.textures) }

// WriteTo writes the command stream, one command per line.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, c := range b.commands {
		n, err := fmt.Fprintf(w, "%4d %s\n", i, c)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

var _ render.Backend = (*Backend)(nil)
