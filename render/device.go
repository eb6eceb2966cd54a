// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider. A handle that can
// back a HALBackend must also expose HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
type DeviceHandle = gpucontext.DeviceProvider

// BufferDescriptor describes a buffer and its initial contents.
type BufferDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Usage is BufferUsageVertex or BufferUsageIndex, optionally combined
	// with other flags.
	Usage gputypes.BufferUsage

	// Data is copied into the buffer at creation.
	Data []byte
}

// TextureDescriptor describes a sampled texture.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width, Height and Depth give the extent in texels. Height and Depth
	// are 1 for 1D textures.
	Width  uint32
	Height uint32
	Depth  uint32

	// Dimension is 1D, 2D or 3D.
	Dimension gputypes.TextureDimension

	// Format is R8Unorm or RGBA8Unorm.
	Format gputypes.TextureFormat
}

// BytesPerTexel returns the texel size of the formats backends accept, or 0.
func (d *TextureDescriptor) BytesPerTexel() int {
	switch d.Format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm:
		return 4
	}
	return 0
}

// Size returns the number of bytes of texel data the descriptor expects.
func (d *TextureDescriptor) Size() int {
	return int(d.Width) * int(max(d.Height, 1)) * int(max(d.Depth, 1)) * d.BytesPerTexel()
}

// VolumeTextureDescriptor returns the descriptor of a dim³ R8 3D texture.
func VolumeTextureDescriptor(label string, dim int) TextureDescriptor {
	return TextureDescriptor{
		Label:     label,
		Width:     uint32(dim), //nolint:gosec // grid edges are small
		Height:    uint32(dim), //nolint:gosec // grid edges are small
		Depth:     uint32(dim), //nolint:gosec // grid edges are small
		Dimension: gputypes.TextureDimension3D,
		Format:    gputypes.TextureFormatR8Unorm,
	}
}

// ColormapTextureDescriptor returns the descriptor of a width-texel RGBA
// 1D texture.
func ColormapTextureDescriptor(label string, width int) TextureDescriptor {
	return TextureDescriptor{
		Label:     label,
		Width:     uint32(width), //nolint:gosec // colormaps are small
		Height:    1,
		Depth:     1,
		Dimension: gputypes.TextureDimension1D,
		Format:    gputypes.TextureFormatRGBA8Unorm,
	}
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
