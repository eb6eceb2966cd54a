package voxscene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/voxscene/ecs"
	"github.com/gogpu/voxscene/render"
	"github.com/gogpu/voxscene/volume"
)

// FrameContext carries the per-frame inputs of RunFrame.
type FrameContext struct {
	Camera Camera
	// Aspect is the viewport width divided by its height.
	Aspect float32
	// Dt is the frame time in units of a 60 Hz frame.
	Dt float32
}

// FrameStats counts the draws of one frame.
type FrameStats struct {
	Transforms int
	DebugCubes int
	Meshes     int
	Volumes    int
	// SkippedMeshes counts entities flagged with a mesh that has no GPU
	// buffers or no faces.
	SkippedMeshes int
	// SkippedVolumes counts entities flagged with a volume whose voxel
	// grid or texture does not exist.
	SkippedVolumes int
}

// RunFrame resolves transforms and draws the debug-cube, mesh and volume
// passes. Entities missing a required component are skipped. The returned
// error is non-nil only when the backend cannot start or finish the pass.
func (e *Engine) RunFrame(ctx FrameContext) (FrameStats, error) {
	if e.closed {
		return FrameStats{}, ErrClosed
	}
	var stats FrameStats

	spin := e.opts.spinRate * ctx.Dt
	for id := range e.store.Query(ecs.MaskOf(ecs.KindTransform)) {
		t, _ := e.store.Transform(id)
		t.Resolve(spin)
		stats.Transforms++
	}

	viewProj := ctx.Camera.ViewProjection(ctx.Aspect)
	if err := e.backend.BeginPass(render.PassAction{ClearColor: e.opts.clearColor}); err != nil {
		return stats, gpuError("begin pass", err)
	}
	if e.debugCubes {
		stats.DebugCubes = e.debugPass(viewProj)
	}
	stats.Meshes, stats.SkippedMeshes = e.meshPass(viewProj)
	stats.Volumes, stats.SkippedVolumes = e.volumePass(viewProj, ctx.Camera.Position)
	if err := e.backend.EndPass(); err != nil {
		return stats, gpuError("end pass", err)
	}

	e.stats = stats
	return stats, nil
}

func (e *Engine) debugPass(viewProj mgl32.Mat4) int {
	n := 0
	for id := range e.store.Query(ecs.MaskOf(ecs.KindTransform)) {
		if n == 0 {
			e.backend.ApplyPipeline(e.shared.debugPipeline)
			e.backend.ApplyBindings(render.Bindings{
				VertexBuffer: e.shared.cubeVertices,
				IndexBuffer:  e.shared.cubeIndices,
			})
		}
		t, _ := e.store.Transform(id)
		e.backend.ApplyUniforms(render.ColorParams{MVP: viewProj.Mul4(t.Model())})
		e.backend.Draw(0, len(volume.CubeIndices))
		n++
	}
	return n
}

func (e *Engine) meshPass(viewProj mgl32.Mat4) (n, skipped int) {
	for id := range e.store.Query(ecs.Renderable) {
		m, _ := e.store.Mesh(id)
		if m.VertexBuffer == 0 || m.IndexBuffer == 0 || m.FaceCount == 0 {
			Logger().Warn("voxscene: mesh flagged valid without buffers", "entity", id)
			skipped++
			continue
		}
		if n == 0 {
			e.backend.ApplyPipeline(e.shared.meshPipeline)
		}
		t, _ := e.store.Transform(id)
		e.backend.ApplyBindings(render.Bindings{
			VertexBuffer: m.VertexBuffer,
			IndexBuffer:  m.IndexBuffer,
		})
		e.backend.ApplyUniforms(render.ColorParams{MVP: viewProj.Mul4(t.Model())})
		e.backend.Draw(0, 3*m.FaceCount)
		n++
	}
	return n, skipped
}

func (e *Engine) volumePass(viewProj mgl32.Mat4, eye mgl32.Vec3) (drawn, skipped int) {
	fs := render.VolumeFragmentParams{
		DtScale:  volume.DtScale,
		StepSize: volume.StepSize,
		Near:     volume.Near,
		Far:      volume.Far,
		MaxSteps: volume.MaxSteps,
	}
	for id := range e.store.Query(ecs.Volumetric) {
		v, _ := e.store.Volume(id)
		if v.Voxels == nil || v.Texture == 0 {
			Logger().Warn("voxscene: volume flagged valid without voxel data", "entity", id)
			skipped++
			continue
		}
		if drawn == 0 {
			e.backend.ApplyPipeline(e.shared.volumePipeline)
		}
		t, _ := e.store.Transform(id)
		e.backend.ApplyBindings(render.Bindings{
			VertexBuffer: e.shared.boxVertices,
			IndexBuffer:  e.shared.cubeIndices,
			Textures:     []render.TextureID{render.TextureSlotVolume: v.Texture, render.TextureSlotColormap: e.shared.colormap},
		})
		e.backend.ApplyUniforms(render.VolumeVertexParams{
			ViewProj:    viewProj,
			EyePos:      eye,
			Scale:       1,
			Translation: t.Position.Add(v.Offset),
		})
		e.backend.ApplyUniforms(fs)
		e.backend.Draw(0, len(volume.CubeIndices))
		drawn++
	}
	return drawn, skipped
}
