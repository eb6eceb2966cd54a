// Package ecs holds the fixed-capacity entity store.
//
// An entity is a slot index in [0, capacity). Each slot carries three
// component records (Transform, Mesh, Volume) and a Mask recording which
// of them currently hold data meant for rendering. Flags are independent:
// marking a mesh valid never touches the transform or volume flag.
//
// Mesh and volume records own their CPU buffers. Buffers come from an
// Allocator so callers can count allocations or inject failures. A mesh is
// checked with CheckMesh, built with NewMesh and installed with ReplaceMesh,
// which frees whatever CPU buffers the slot still held.
//
// The store is not safe for concurrent use. A single goroutine owns it and
// drives the frame loop.
package ecs
