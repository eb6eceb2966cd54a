// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/voxscene/internal/parallel"
)

// minParallelRows is the smallest row band handed to a worker.
const minParallelRows = 16

type clipVertex struct {
	pos  mgl32.Vec4
	vary [4]float32
}

func lerpVertex(a, b clipVertex, t float32) clipVertex {
	v := clipVertex{pos: a.pos.Add(b.pos.Sub(a.pos).Mul(t))}
	for i := range v.vary {
		v.vary[i] = a.vary[i] + (b.vary[i]-a.vary[i])*t
	}
	return v
}

// clipNear clips a triangle against the near plane z = -w and returns the
// resulting convex polygon of up to four vertices.
func clipNear(tri [3]clipVertex) ([4]clipVertex, int) {
	var out [4]clipVertex
	n := 0
	for i := range 3 {
		a, c := tri[i], tri[(i+1)%3]
		da, dc := a.pos[2]+a.pos[3], c.pos[2]+c.pos[3]
		if da >= 0 {
			out[n] = a
			n++
		}
		if (da >= 0) != (dc >= 0) {
			out[n] = lerpVertex(a, c, da/(da-dc))
			n++
		}
	}
	return out, n
}

type screenVertex struct {
	x, y, z float32
	invW    float32
	vary    [4]float32 // divided by w
}

func edge(a, b *screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// rasterize draws one clipped triangle. Pixel centers sit at half-integer
// coordinates; a pixel is covered when all barycentrics are non-negative.
func (b *SoftwareBackend) rasterize(tri [3]clipVertex, p *PipelineDescriptor, fs fragmentShader) {
	w, h := b.target.Width(), b.target.Height()
	var sv [3]screenVertex
	for i, v := range tri {
		if v.pos[3] <= 0 {
			return
		}
		inv := 1 / v.pos[3]
		sv[i] = screenVertex{
			x:    (v.pos[0]*inv*0.5 + 0.5) * float32(w),
			y:    (0.5 - v.pos[1]*inv*0.5) * float32(h),
			z:    v.pos[2]*inv*0.5 + 0.5,
			invW: inv,
		}
		for k := range v.vary {
			sv[i].vary[k] = v.vary[k] * inv
		}
	}

	area := edge(&sv[0], &sv[1], sv[2].x, sv[2].y)
	if area == 0 {
		return
	}
	// Screen y points down, so a counter-clockwise triangle in NDC has
	// negative screen area.
	front := (area < 0) == (p.FrontFace != gputypes.FrontFaceCW)
	if (p.CullMode == gputypes.CullModeBack && !front) || (p.CullMode == gputypes.CullModeFront && front) {
		b.stats.Culled++
		return
	}

	minX := max(0, int(math.Floor(float64(min(sv[0].x, sv[1].x, sv[2].x)))))
	maxX := min(w-1, int(math.Ceil(float64(max(sv[0].x, sv[1].x, sv[2].x)))))
	minY := max(0, int(math.Floor(float64(min(sv[0].y, sv[1].y, sv[2].y)))))
	maxY := min(h-1, int(math.Ceil(float64(max(sv[0].y, sv[1].y, sv[2].y)))))
	if minX > maxX || minY > maxY {
		return
	}
	b.stats.Triangles++

	pix := b.target.Pixels()
	stride := b.target.Stride()
	depth := b.depth
	invArea := 1 / area

	parallel.Rows(b.pool, minY, maxY+1, minParallelRows, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			py := float32(y) + 0.5
			for x := minX; x <= maxX; x++ {
				px := float32(x) + 0.5
				l0 := edge(&sv[1], &sv[2], px, py) * invArea
				l1 := edge(&sv[2], &sv[0], px, py) * invArea
				l2 := edge(&sv[0], &sv[1], px, py) * invArea
				if l0 < 0 || l1 < 0 || l2 < 0 {
					continue
				}
				z := l0*sv[0].z + l1*sv[1].z + l2*sv[2].z
				di := y*w + x
				if z < 0 || z > 1 || z >= depth[di] {
					continue
				}

				invW := l0*sv[0].invW + l1*sv[1].invW + l2*sv[2].invW
				var vary [4]float32
				for k := range vary {
					vary[k] = (l0*sv[0].vary[k] + l1*sv[1].vary[k] + l2*sv[2].vary[k]) / invW
				}
				c := fs(vary)

				o := y*stride + x*4
				if p.Blend {
					blendOver(pix[o:o+4], c)
				} else {
					rgba := toRGBA8(c)
					copy(pix[o:o+4], rgba[:])
				}
				if p.DepthWrite {
					depth[di] = z
				}
			}
		}
	})
}

// blendOver composites src over the destination pixel using src alpha.
func blendOver(dst []byte, src mgl32.Vec4) {
	a := clamp01(src[3])
	for i := range 3 {
		d := float32(dst[i]) / 255
		dst[i] = unorm8(clamp01(src[i])*a + d*(1-a))
	}
	da := float32(dst[3]) / 255
	dst[3] = unorm8(a + da*(1-a))
}

func toRGBA8(c mgl32.Vec4) [4]byte {
	return [4]byte{unorm8(c[0]), unorm8(c[1]), unorm8(c[2]), unorm8(c[3])}
}

func unorm8(v float32) byte {
	return byte(clamp01(v)*255 + 0.5)
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
