// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package wlrbuffer declares the buffer abstraction consumed by
// scene.Buffer nodes: a lockable, refcounted pixel source. It is an
// external collaborator (spec Non-goal) — scene never allocates or
// maps pixel memory itself.
//
// Grounded on the teacher's driver.Buffer usage in engine/storage.go
// (Bytes/Cap accessors, explicit Destroy) and engine/texture.go's
// client-texture-or-upload pattern, generalized here to a narrow
// interface since this module does not own buffer storage.
package wlrbuffer

import "github.com/mecattaf/wlroots/render"

// Buffer is a lockable, refcounted pixel source.
// A scene.Buffer node holds exactly one lock on its buffer at a time,
// acquired via Lock and released via Unlock.
type Buffer interface {
	// Lock increments the buffer's reference count and returns the
	// same Buffer, mirroring the teacher's pattern of readable
	// ownership transfer through a method's return value.
	Lock() Buffer

	// Unlock decrements the reference count, releasing the
	// underlying pixel storage once it reaches zero.
	Unlock()

	// Width and Height return the buffer's pixel dimensions.
	Width() int
	Height() int

	// Texture returns a pre-uploaded, client-side texture for this
	// buffer if one exists (e.g. a client-supplied DMA-BUF already
	// imported by the backend), avoiding a redundant upload. ok is
	// false when the commit pipeline must fall back to
	// render.Backend.TextureFromBuffer.
	Texture() (tex render.Texture, ok bool)
}
