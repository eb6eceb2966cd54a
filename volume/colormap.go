package volume

import "github.com/go-gl/mathgl/mgl32"

// ColormapWidth is the number of entries in the default colormap.
const ColormapWidth = 260

// Colormap returns a width-entry RGBA ramp. Entry i, with t = i/(width-1),
// is ((1-t)*255, 0, t*255, (1-t)*255).
func Colormap(width int) []byte {
	data := make([]byte, width*4)
	for i := range width {
		var t float32
		if width > 1 {
			t = float32(i) / float32(width-1)
		}
		data[i*4+0] = byte((1 - t) * 255)
		data[i*4+1] = 0
		data[i*4+2] = byte(t * 255)
		data[i*4+3] = byte((1 - t) * 255)
	}
	return data
}

// Shade maps an accumulated ray color through an RGBA colormap: the color
// channels come from the entry selected by the accumulated intensity and
// alpha is the accumulated alpha. An empty colormap returns acc unchanged.
func Shade(acc mgl32.Vec4, cmap []byte) mgl32.Vec4 {
	n := len(cmap) / 4
	if n == 0 {
		return acc
	}
	k := int(clamp01(acc[0])*float32(n-1) + 0.5)
	e := cmap[k*4:]
	return mgl32.Vec4{
		float32(e[0]) / 255,
		float32(e[1]) / 255,
		float32(e[2]) / 255,
		clamp01(acc[3]),
	}
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
