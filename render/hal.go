// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

type halTexture struct {
	tex  hal.Texture
	view hal.TextureView
}

// HALBackend uploads buffers and textures to a wgpu HAL device provided by
// the host application.
//
// Every resource is also kept as a CPU shadow copy and draws are executed
// by the embedded SoftwareBackend, so frames land in a CPU render target
// while the device holds the same data the host's own passes can sample.
//
// Example:
//
//	app := gogpu.NewApp(gogpu.Config{...})
//	target := render.NewPixmapTarget(800, 600)
//	b, err := render.NewHALBackend(app.GPUContextProvider(), target)
type HALBackend struct {
	*SoftwareBackend

	handle DeviceHandle
	device hal.Device
	queue  hal.Queue

	buffers  map[BufferID]hal.Buffer
	textures map[TextureID]halTexture
}

// NewHALBackend creates a backend on the device of handle. The handle must
// expose HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue.
func NewHALBackend(handle DeviceHandle, target RenderTarget) (*HALBackend, error) {
	if handle == nil {
		return nil, errors.New("render: nil device handle")
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := handle.(halProvider)
	if !ok {
		return nil, errors.New("render: device handle does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("render: HalDevice is not a hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("render: HalQueue is not a hal.Queue")
	}
	return &HALBackend{
		SoftwareBackend: NewSoftwareBackend(target),
		handle:          handle,
		device:          device,
		queue:           queue,
		buffers:         make(map[BufferID]hal.Buffer),
		textures:        make(map[TextureID]halTexture),
	}, nil
}

// DeviceHandle returns the handle the backend was created with.
func (b *HALBackend) DeviceHandle() DeviceHandle { return b.handle }

// CreateBuffer implements Backend.
func (b *HALBackend) CreateBuffer(desc *BufferDescriptor) (BufferID, error) {
	id, err := b.SoftwareBackend.CreateBuffer(desc)
	if err != nil {
		return 0, err
	}

	// Queue writes must be a multiple of four bytes.
	data := desc.Data
	if pad := len(data) % 4; pad != 0 {
		data = append(append([]byte(nil), data...), make([]byte, 4-pad)...)
	}
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  uint64(len(data)),
		Usage: desc.Usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		b.SoftwareBackend.DestroyBuffer(id)
		return 0, fmt.Errorf("%w: create buffer %q: %w", ErrResource, desc.Label, err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	b.buffers[id] = buf
	return id, nil
}

// DestroyBuffer implements Backend.
func (b *HALBackend) DestroyBuffer(id BufferID) {
	if buf, ok := b.buffers[id]; ok {
		b.device.DestroyBuffer(buf)
		delete(b.buffers, id)
	}
	b.SoftwareBackend.DestroyBuffer(id)
}

// CreateTexture implements Backend.
func (b *HALBackend) CreateTexture(desc *TextureDescriptor, data []byte) (TextureID, error) {
	id, err := b.SoftwareBackend.CreateTexture(desc, data)
	if err != nil {
		return 0, err
	}

	extent := hal.Extent3D{
		Width:              desc.Width,
		Height:             max(desc.Height, 1),
		DepthOrArrayLayers: max(desc.Depth, 1),
	}
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     desc.Dimension,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		b.SoftwareBackend.DestroyTexture(id)
		return 0, fmt.Errorf("%w: create texture %q: %w", ErrResource, desc.Label, err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        desc.Format,
		Dimension:     viewDimension(desc.Dimension),
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		b.SoftwareBackend.DestroyTexture(id)
		return 0, fmt.Errorf("%w: create texture view %q: %w", ErrResource, desc.Label, err)
	}

	b.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  desc.Width * uint32(desc.BytesPerTexel()), //nolint:gosec // 1 or 4
			RowsPerImage: extent.Height,
		},
		&extent,
	)
	b.textures[id] = halTexture{tex: tex, view: view}
	return id, nil
}

// DestroyTexture implements Backend.
func (b *HALBackend) DestroyTexture(id TextureID) {
	if t, ok := b.textures[id]; ok {
		b.device.DestroyTextureView(t.view)
		b.device.DestroyTexture(t.tex)
		delete(b.textures, id)
	}
	b.SoftwareBackend.DestroyTexture(id)
}

// Close implements Backend. Device resources still alive are destroyed; the
// device itself belongs to the host and is left open.
func (b *HALBackend) Close() error {
	for id := range b.textures {
		b.DestroyTexture(id)
	}
	for id := range b.buffers {
		b.DestroyBuffer(id)
	}
	return b.SoftwareBackend.Close()
}

func viewDimension(d gputypes.TextureDimension) gputypes.TextureViewDimension {
	switch d {
	case gputypes.TextureDimension1D:
		return gputypes.TextureViewDimension1D
	case gputypes.TextureDimension3D:
		return gputypes.TextureViewDimension3D
	}
	return gputypes.TextureViewDimension2D
}

var _ Backend = (*HALBackend)(nil)
