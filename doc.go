// Package voxscene is a small real-time 3D scene runtime.
//
// # Overview
//
// A scene is a fixed number of entity slots. Each slot may carry a
// Transform, a triangle Mesh and a dense voxel Volume, each guarded by its
// own validity flag. Every frame the Engine spins and resolves the valid
// transforms, then draws debug cubes, meshes and ray-marched volumes
// through a render.Backend.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/voxscene"
//	    "github.com/gogpu/voxscene/render"
//	)
//
//	target := render.NewPixmapTarget(800, 600)
//	eng, err := voxscene.New(render.NewSoftwareBackend(target))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	eng.SetTransform(0, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{})
//	eng.FillSphere(0)
//
//	cam := voxscene.NewCamera()
//	eng.RunFrame(voxscene.FrameContext{Camera: cam, Aspect: 800.0 / 600, Dt: 1})
//
// # Resource lifecycle
//
// LoadMesh, LoadMeshFrom and UpdateMesh replace the mesh of a slot in one
// step: the new CPU and GPU buffers are built first, then installed, then
// the displaced buffers are released. UpdateVolume copies voxels into a
// grid allocated once per slot and re-uploads the 3D texture. FreeVolume
// releases both the grid and the texture.
//
// A failed load leaves the slot fully invalid, never half populated.
//
// # Conventions
//
// Clip space follows OpenGL (z in [-1, 1]). Triangles wind
// counter-clockwise seen from outside, and every pipeline culls back
// faces. A camera inside a volume's bounding cube therefore sees no volume.
//
// # Errors
//
// Errors match the sentinel values of this package with errors.Is:
// ErrOutOfRange, ErrImport, ErrAllocationFailed and ErrGPUResource.
//
// # Architecture
//
// The module is organized into:
//   - voxscene: Engine, Camera, frame pipeline
//   - ecs: entity store, components, allocators
//   - volume: voxel grids, generators, colormap, reference ray-march
//   - meshio: mesh importers
//   - render: backend interface, software and hal backends
//   - recording: command-recording backend for tests and traces
//   - viewer: ebiten window host
package voxscene
