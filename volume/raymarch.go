package volume

import "github.com/go-gl/mathgl/mgl32"

// Sampler returns the normalized intensity at a texture coordinate in
// [0,1]³.
type Sampler interface {
	Sample(p mgl32.Vec3) float32
}

// NearestSampler samples a grid without filtering. Coordinates outside
// [0,1)³ read as zero.
type NearestSampler struct {
	Data []byte
	Dim  int
}

// Sample implements Sampler.
func (s NearestSampler) Sample(p mgl32.Vec3) float32 {
	if len(s.Data) == 0 {
		return 0
	}
	x := int(p[0] * float32(s.Dim))
	y := int(p[1] * float32(s.Dim))
	z := int(p[2] * float32(s.Dim))
	if p[0] < 0 || p[1] < 0 || p[2] < 0 || x >= s.Dim || y >= s.Dim || z >= s.Dim {
		return 0
	}
	return float32(s.Data[Index(x, y, z, s.Dim)]) / 255
}

// March walks from start along dir in steps of length step, compositing
// samples front to back:
//
//	acc += sample * (1 - acc.a)
//
// It stops once acc.a reaches 1, after maxSteps samples, or when the ray
// leaves the unit cube (every further sample would be zero).
func March(s Sampler, start, dir mgl32.Vec3, step float32, maxSteps int) mgl32.Vec4 {
	var acc mgl32.Vec4
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(step / l)
	} else {
		return acc
	}
	pos := start
	for range maxSteps {
		if !inUnitCube(pos) {
			break
		}
		v := s.Sample(pos) * (1 - acc[3])
		acc = acc.Add(mgl32.Vec4{v, v, v, v})
		if acc[3] >= 1 {
			break
		}
		pos = pos.Add(dir)
	}
	return acc
}

// cubeEps keeps entry points lying on a face inside the cube.
const cubeEps = 1e-4

func inUnitCube(p mgl32.Vec3) bool {
	for _, v := range p {
		if v < -cubeEps || v > 1+cubeEps {
			return false
		}
	}
	return true
}
