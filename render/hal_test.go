// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "testing"

// halLessHandle exposes the HAL accessors but returns values of the wrong
// type, as a host built without a wgpu device would.
type halLessHandle struct {
	NullDeviceHandle
}

func (halLessHandle) HalDevice() any { return nil }
func (halLessHandle) HalQueue() any  { return nil }

func TestNewHALBackend_Errors(t *testing.T) {
	tests := []struct {
		name   string
		handle DeviceHandle
	}{
		{"nil handle", nil},
		{"null device", NullDeviceHandle{}},
		{"no hal device", halLessHandle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewHALBackend(tt.handle, NewPixmapTarget(1, 1))
			if err == nil {
				t.Fatal("NewHALBackend should fail")
			}
			if b != nil {
				t.Error("NewHALBackend returned a backend with an error")
			}
		})
	}
}

func TestNullDeviceHandle(t *testing.T) {
	var h NullDeviceHandle
	if h.Device() != nil || h.Queue() != nil || h.Adapter() != nil {
		t.Error("NullDeviceHandle should return nil device, queue and adapter")
	}
}
