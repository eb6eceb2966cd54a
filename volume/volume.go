package volume

// DefaultDim is the edge length of a voxel grid.
const DefaultDim = 50

// Ray-march parameters.
const (
	MaxSteps = 1000
	StepSize = 0.01
	DtScale  = 0.005
	Near     = 0.01
	Far      = 1000
)

// Index returns the offset of voxel (x, y, z) in a grid of edge dim.
func Index(x, y, z, dim int) int {
	return z*dim*dim + y*dim + x
}

// Size returns the number of voxels in a grid of edge dim.
func Size(dim int) int { return dim * dim * dim }
