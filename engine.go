package voxscene

import (
	"errors"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/voxscene/ecs"
	"github.com/gogpu/voxscene/render"
	"github.com/gogpu/voxscene/volume"
)

// Engine owns an entity store, the GPU resources shared by all entities and
// the frame pipeline. It is not safe for concurrent use.
type Engine struct {
	opts    options
	store   *ecs.Store
	backend render.Backend
	rng     *rand.Rand

	shared     sharedResources
	debugCubes bool
	stats      FrameStats
	closed     bool
}

type sharedResources struct {
	cubeVertices render.BufferID // colored cube for debug draws
	cubeIndices  render.BufferID
	boxVertices  render.BufferID // position-only cube for volume bounds
	colormap     render.TextureID

	debugPipeline  render.PipelineID
	meshPipeline   render.PipelineID
	volumePipeline render.PipelineID
}

// New creates an engine drawing through backend and uploads the shared
// cube geometry, the colormap and the three pipelines.
func New(backend render.Backend, opts ...Option) (*Engine, error) {
	if backend == nil {
		return nil, errors.New("voxscene: nil backend")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		opts:       o,
		store:      ecs.NewStore(o.capacity, o.volumeDim, o.allocator),
		backend:    backend,
		rng:        rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15)), //nolint:gosec // procedural content
		debugCubes: o.debugCubes,
	}
	track(e)
	if err := e.createShared(); err != nil {
		e.releaseShared()
		untrack(e)
		return nil, err
	}
	Logger().Info("voxscene: engine created",
		"capacity", o.capacity, "volumeDim", o.volumeDim, "debugCubes", o.debugCubes)
	return e, nil
}

func colorAttributes() []gputypes.VertexFormat {
	return []gputypes.VertexFormat{gputypes.VertexFormatFloat32x3, gputypes.VertexFormatFloat32x4}
}

func (e *Engine) createShared() error {
	var err error
	s := &e.shared
	if s.cubeVertices, err = e.backend.CreateBuffer(&render.BufferDescriptor{
		Label: "debug cube vertices",
		Usage: gputypes.BufferUsageVertex,
		Data:  render.Float32Bytes(volume.CubeColoredVertices()),
	}); err != nil {
		return gpuError("create debug cube", err)
	}
	if s.cubeIndices, err = e.backend.CreateBuffer(&render.BufferDescriptor{
		Label: "cube indices",
		Usage: gputypes.BufferUsageIndex,
		Data:  render.Uint16Bytes(volume.CubeIndices),
	}); err != nil {
		return gpuError("create cube indices", err)
	}
	if s.boxVertices, err = e.backend.CreateBuffer(&render.BufferDescriptor{
		Label: "volume box vertices",
		Usage: gputypes.BufferUsageVertex,
		Data:  render.Float32Bytes(volume.CubePositions()),
	}); err != nil {
		return gpuError("create volume box", err)
	}
	cmap := render.ColormapTextureDescriptor("colormap", volume.ColormapWidth)
	if s.colormap, err = e.backend.CreateTexture(&cmap, volume.Colormap(volume.ColormapWidth)); err != nil {
		return gpuError("create colormap", err)
	}

	pipelines := []struct {
		id   *render.PipelineID
		desc render.PipelineDescriptor
	}{
		{&s.debugPipeline, render.PipelineDescriptor{
			Label:      "debug cubes",
			Shader:     render.ShaderColor,
			Attributes: colorAttributes(),
			DepthWrite: true,
		}},
		{&s.meshPipeline, render.PipelineDescriptor{
			Label:      "meshes",
			Shader:     render.ShaderColor,
			Attributes: colorAttributes(),
			DepthWrite: true,
		}},
		{&s.volumePipeline, render.PipelineDescriptor{
			Label:      "volumes",
			Shader:     render.ShaderVolume,
			Attributes: []gputypes.VertexFormat{gputypes.VertexFormatFloat32x3},
			Blend:      true,
		}},
	}
	for _, p := range pipelines {
		p.desc.IndexFormat = gputypes.IndexFormatUint16
		p.desc.Topology = gputypes.PrimitiveTopologyTriangleList
		p.desc.CullMode = gputypes.CullModeBack
		p.desc.FrontFace = gputypes.FrontFaceCCW
		if *p.id, err = e.backend.CreatePipeline(&p.desc); err != nil {
			return gpuError("create pipeline "+p.desc.Label, err)
		}
	}
	return nil
}

func (e *Engine) releaseShared() {
	s := &e.shared
	for _, id := range []render.PipelineID{s.debugPipeline, s.meshPipeline, s.volumePipeline} {
		if id != 0 {
			e.backend.DestroyPipeline(id)
		}
	}
	if s.colormap != 0 {
		e.backend.DestroyTexture(s.colormap)
	}
	for _, id := range []render.BufferID{s.cubeVertices, s.cubeIndices, s.boxVertices} {
		if id != 0 {
			e.backend.DestroyBuffer(id)
		}
	}
	*s = sharedResources{}
}

// Store returns the entity store for inspection and direct edits.
func (e *Engine) Store() *ecs.Store { return e.store }

// Backend returns the backend the engine draws through.
func (e *Engine) Backend() render.Backend { return e.backend }

// Stats returns the counters of the last frame.
func (e *Engine) Stats() FrameStats { return e.stats }

// SetDebugCubes enables or disables the debug-cube pass.
func (e *Engine) SetDebugCubes(on bool) { e.debugCubes = on }

// DebugCubes reports whether the debug-cube pass is enabled.
func (e *Engine) DebugCubes() bool { return e.debugCubes }

// SetTransform overwrites the transform of slot id and marks it valid.
func (e *Engine) SetTransform(id ecs.EntityID, position, rotation mgl32.Vec3) error {
	return e.store.SetTransform(id, position, rotation)
}

// Transform returns the transform of slot id for live edits.
func (e *Engine) Transform(id ecs.EntityID) (*ecs.Transform, error) {
	return e.store.Transform(id)
}

// IsValid reports whether slot id holds a valid component of kind.
// Out-of-range ids report false.
func (e *Engine) IsValid(id ecs.EntityID, kind ecs.Kind) bool {
	return e.store.IsValid(id, kind)
}

// SetValid sets one validity flag of slot id. Component data is kept.
func (e *Engine) SetValid(id ecs.EntityID, kind ecs.Kind, valid bool) error {
	return e.store.SetValid(id, kind, valid)
}

// Close releases the storage of every mesh and volume and all GPU
// resources the engine created. The backend itself is not closed.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	meshes, volumes := 0, 0
	for id := range ecs.EntityID(e.store.Capacity()) {
		if m, _ := e.store.Mesh(id); m.Vertices != nil || m.VertexBuffer != 0 {
			e.dropMesh(id)
			meshes++
		}
		if v, _ := e.store.Volume(id); v.Voxels != nil || v.Texture != 0 {
			_ = e.FreeVolume(id)
			volumes++
		}
	}
	e.releaseShared()
	untrack(e)
	Logger().Info("voxscene: engine closed", "meshes", meshes, "volumes", volumes)
	return nil
}
