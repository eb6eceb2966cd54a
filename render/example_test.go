// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render_test

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/voxscene/render"
)

func ExampleSoftwareBackend() {
	target := render.NewPixmapTarget(4, 4)
	b := render.NewSoftwareBackend(target)
	defer b.Close()

	pipe, _ := b.CreatePipeline(&render.PipelineDescriptor{
		Shader: render.ShaderColor,
		Attributes: []gputypes.VertexFormat{
			gputypes.VertexFormatFloat32x3,
			gputypes.VertexFormatFloat32x4,
		},
		CullMode:   gputypes.CullModeBack,
		FrontFace:  gputypes.FrontFaceCCW,
		DepthWrite: true,
	})
	vb, _ := b.CreateBuffer(&render.BufferDescriptor{
		Usage: gputypes.BufferUsageVertex,
		Data: render.Float32Bytes([]float32{
			-1, -1, 0, 1, 1, 0, 1,
			3, -1, 0, 1, 1, 0, 1,
			-1, 3, 0, 1, 1, 0, 1,
		}),
	})

	_ = b.BeginPass(render.PassAction{ClearColor: mgl32.Vec4{0, 0, 0, 1}})
	b.ApplyPipeline(pipe)
	b.ApplyBindings(render.Bindings{VertexBuffer: vb})
	b.ApplyUniforms(render.ColorParams{MVP: mgl32.Ident4()})
	b.Draw(0, 3)
	_ = b.EndPass()

	fmt.Println(target.GetPixel(2, 2))
	// Output: {255 255 0 255}
}
