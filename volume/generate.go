package volume

import "math/rand/v2"

// Random fills a grid with uniform bytes drawn from r.
func Random(r *rand.Rand, dim int) []byte {
	data := make([]byte, Size(dim))
	for i := range data {
		data[i] = byte(r.IntN(256))
	}
	return data
}

// Sphere fills the ball x²+y²+z² <= (dim/2)² centered at (dim/2, dim/2,
// dim/2) with random bytes from r. Voxels outside the ball are zero.
func Sphere(r *rand.Rand, dim int) []byte {
	data := make([]byte, Size(dim))
	c := dim / 2
	rr := c * c
	for z := range dim {
		for y := range dim {
			for x := range dim {
				dx, dy, dz := x-c, y-c, z-c
				if dx*dx+dy*dy+dz*dz <= rr {
					data[Index(x, y, z, dim)] = byte(r.IntN(256))
				}
			}
		}
	}
	return data
}

// WireframeCube sets every voxel lying on two or more boundary faces of the
// grid to 255, which draws the twelve cube edges.
func WireframeCube(dim int) []byte {
	data := make([]byte, Size(dim))
	onFace := func(v int) int {
		if v == 0 || v == dim-1 {
			return 1
		}
		return 0
	}
	for z := range dim {
		for y := range dim {
			for x := range dim {
				if onFace(x)+onFace(y)+onFace(z) >= 2 {
					data[Index(x, y, z, dim)] = 255
				}
			}
		}
	}
	return data
}
