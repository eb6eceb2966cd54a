// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sort"
	"sync"
)

// BackendFactory creates a backend drawing into target.
type BackendFactory func(target RenderTarget) (Backend, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]BackendFactory)
)

func init() {
	Register("software", func(target RenderTarget) (Backend, error) {
		return NewSoftwareBackend(target), nil
	})
}

// Register makes a backend available by name. It is typically called from
// init in the backend's package, following the database/sql driver pattern:
//
//	func init() {
//	    render.Register("recording", func(t render.RenderTarget) (render.Backend, error) {
//	        return New(), nil
//	    })
//	}
//
// Register panics if factory is nil or name is already registered.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("render: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("render: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a backend from the registry. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Open creates a backend by registered name.
func Open(name string, target RenderTarget) (Backend, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("render: unknown backend %q (forgotten import?)", name)
	}
	return factory(target)
}

// Backends returns the registered names in sorted order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
