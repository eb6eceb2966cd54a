// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the GPU capability interface the scene engine
// draws through, and the backends that implement it.
//
// # Key Principle
//
// The engine RECEIVES a device from the host application, it does NOT create
// one. A host that owns a wgpu device hands it over as a DeviceHandle; a host
// without a GPU uses the software backend.
//
// # Backend
//
// A Backend creates resources (vertex/index buffers, 1D and 3D textures,
// pipelines) and executes draw passes:
//
//	b.BeginPass(render.PassAction{ClearColor: clear})
//	b.ApplyPipeline(pipe)
//	b.ApplyBindings(render.Bindings{VertexBuffer: vb, IndexBuffer: ib})
//	b.ApplyUniforms(render.ColorParams{MVP: mvp})
//	b.Draw(0, 36)
//	b.EndPass()
//
// Draw calls are fire-and-forget. Resource creation returns an error
// wrapping ErrResource when the device refuses an upload.
//
// # Implementations
//
//   - SoftwareBackend: CPU rasterizer and volume ray-marcher writing into a
//     RenderTarget with CPU pixels
//   - HALBackend: uploads every resource to a wgpu HAL device and keeps CPU
//     shadow copies that the software rasterizer draws from
//
// Other packages register further backends by name with Register, following
// the database/sql driver pattern.
//
// # Conventions
//
// Clip space follows mgl32.Perspective (z in [-w, w]). Front faces wind
// counter-clockwise in normalized device coordinates.
package render
