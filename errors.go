package voxscene

import (
	"errors"
	"fmt"

	"github.com/gogpu/voxscene/ecs"
	"github.com/gogpu/voxscene/meshio"
)

var (
	// ErrOutOfRange reports an entity index outside [0, capacity).
	ErrOutOfRange = ecs.ErrOutOfRange

	// ErrImport reports a mesh source that could not be read or was empty.
	ErrImport = meshio.ErrImport

	// ErrAllocationFailed reports a CPU buffer allocation failure.
	ErrAllocationFailed = ecs.ErrAllocationFailed

	// ErrGPUResource reports a backend upload failure.
	ErrGPUResource = errors.New("voxscene: GPU resource error")

	// ErrInvalidMesh reports mesh data that cannot be stored.
	ErrInvalidMesh = ecs.ErrInvalidMesh

	// ErrVolumeSize reports voxel data whose length is not dim³.
	ErrVolumeSize = ecs.ErrVolumeSize

	// ErrClosed reports use of an Engine after Close.
	ErrClosed = errors.New("voxscene: engine closed")
)

// gpuError wraps a backend failure so it matches both ErrGPUResource and
// the backend's own error.
func gpuError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrGPUResource, err)
}
