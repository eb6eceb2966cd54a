package ecs

import (
	"fmt"
	"sync"
)

// Allocator provides the CPU buffers owned by mesh and volume components.
type Allocator interface {
	Floats(n int) ([]float32, error)
	Uint16s(n int) ([]uint16, error)
	Bytes(n int) ([]byte, error)
	// Free returns a buffer obtained from this allocator. Nil is ignored.
	Free(buf any)
}

// HeapAllocator allocates from the Go heap and never fails.
type HeapAllocator struct{}

func (HeapAllocator) Floats(n int) ([]float32, error) { return make([]float32, n), nil }
func (HeapAllocator) Uint16s(n int) ([]uint16, error) { return make([]uint16, n), nil }
func (HeapAllocator) Bytes(n int) ([]byte, error)     { return make([]byte, n), nil }
func (HeapAllocator) Free(any)                        {}

// CountingAllocator tracks live bytes and allocation counts, and fails any
// request that would take live bytes above Limit (when Limit > 0).
type CountingAllocator struct {
	// Limit caps live bytes. Zero means unlimited.
	Limit int64

	mu     sync.Mutex
	live   int64
	allocs int
	frees  int
}

// CountingStats is a snapshot of a CountingAllocator.
type CountingStats struct {
	LiveBytes int64
	Allocs    int
	Frees     int
}

// Stats returns the current counters.
func (a *CountingAllocator) Stats() CountingStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return CountingStats{LiveBytes: a.live, Allocs: a.allocs, Frees: a.frees}
}

func (a *CountingAllocator) reserve(size int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Limit > 0 && a.live+size > a.Limit {
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrAllocationFailed, size, a.live, a.Limit)
	}
	a.live += size
	a.allocs++
	return nil
}

func (a *CountingAllocator) Floats(n int) ([]float32, error) {
	if err := a.reserve(int64(n) * 4); err != nil {
		return nil, err
	}
	return make([]float32, n), nil
}

func (a *CountingAllocator) Uint16s(n int) ([]uint16, error) {
	if err := a.reserve(int64(n) * 2); err != nil {
		return nil, err
	}
	return make([]uint16, n), nil
}

func (a *CountingAllocator) Bytes(n int) ([]byte, error) {
	if err := a.reserve(int64(n)); err != nil {
		return nil, err
	}
	return make([]byte, n), nil
}

func (a *CountingAllocator) Free(buf any) {
	var size int64
	switch b := buf.(type) {
	case []float32:
		if b == nil {
			return
		}
		size = int64(len(b)) * 4
	case []uint16:
		if b == nil {
			return
		}
		size = int64(len(b)) * 2
	case []byte:
		if b == nil {
			return
		}
		size = int64(len(b))
	default:
		return
	}
	a.mu.Lock()
	a.live -= size
	a.frees++
	a.mu.Unlock()
}

var (
	_ Allocator = HeapAllocator{}
	_ Allocator = (*CountingAllocator)(nil)
)
