package voxscene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/voxscene/ecs"
	"github.com/gogpu/voxscene/meshio"
	"github.com/gogpu/voxscene/volume"
)

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := voxscene.New(backend,
//	    voxscene.WithCapacity(64),
//	    voxscene.WithSeed(42),
//	)
type Option func(*options)

type options struct {
	capacity   int
	volumeDim  int
	spinRate   float32
	debugCubes bool
	allocator  ecs.Allocator
	importer   meshio.Importer
	seed       uint64
	clearColor mgl32.Vec4
}

// DefaultSpinRate is the pitch added to every transform per unit of frame
// time, in degrees.
const DefaultSpinRate = 1.0

func defaultOptions() options {
	return options{
		capacity:   ecs.DefaultCapacity,
		volumeDim:  volume.DefaultDim,
		spinRate:   DefaultSpinRate,
		debugCubes: true,
		allocator:  ecs.HeapAllocator{},
		importer:   meshio.OBJImporter{},
		clearColor: mgl32.Vec4{0.25, 0.5, 0.75, 1},
	}
}

// WithCapacity sets the number of entity slots. Non-positive values keep
// the default of 32.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithVolumeDim sets the edge length of every voxel grid. Non-positive
// values keep the default of 50.
func WithVolumeDim(dim int) Option {
	return func(o *options) {
		if dim > 0 {
			o.volumeDim = dim
		}
	}
}

// WithSpinRate sets the degrees of pitch added to every valid transform per
// unit of frame time. Zero disables the spin.
func WithSpinRate(deg float32) Option {
	return func(o *options) {
		o.spinRate = deg
	}
}

// WithDebugCubes enables or disables the debug-cube pass.
func WithDebugCubes(on bool) Option {
	return func(o *options) {
		o.debugCubes = on
	}
}

// WithAllocator sets the allocator for mesh and voxel storage.
//
// Example:
//
//	alloc := &ecs.CountingAllocator{}
//	eng, _ := voxscene.New(backend, voxscene.WithAllocator(alloc))
func WithAllocator(a ecs.Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.allocator = a
		}
	}
}

// WithImporter sets the mesh importer used by LoadMesh.
func WithImporter(imp meshio.Importer) Option {
	return func(o *options) {
		if imp != nil {
			o.importer = imp
		}
	}
}

// WithSeed seeds the random source of the volume generators.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithClearColor sets the color the frame is cleared to.
func WithClearColor(c mgl32.Vec4) Option {
	return func(o *options) {
		o.clearColor = c
	}
}
