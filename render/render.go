// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package render declares the GPU rendering backend that
// scene's commit pipeline drives. It is an external collaborator
// (spec Non-goal: this module never rasterizes anything itself) —
// a host compositor supplies a concrete Backend, typically one that
// wraps a real graphics API.
//
// The interface shape is grounded on driver.Presenter/driver.Swapchain
// in the teacher (method-per-doc-comment, explicit Destroy lifecycle)
// and on engine.Texture's cache-or-create usage in the teacher's
// renderer.
package render

import "github.com/mecattaf/wlroots/linear"

// FBox is a floating-point sub-rectangle, used to select a region of
// a buffer (src_box) or a texture (the src argument of
// RenderTexturedQuad).
type FBox struct {
	X, Y, W, H float64
}

// Empty reports whether b selects no area (an empty src_box means
// "the whole buffer").
func (b FBox) Empty() bool { return b.W <= 0 || b.H <= 0 }

// RGBA is a straight-alpha color in the [0, 1] range per channel.
type RGBA struct {
	R, G, B, A float32
}

// Texture is a GPU-resident image, typically produced from a
// wlrbuffer.Buffer by Backend.TextureFromBuffer, or obtained directly
// from a buffer's own client-side texture.
type Texture interface {
	// Width and Height return the texture's pixel dimensions.
	Width() int
	Height() int

	// Destroy releases the texture. It must not be used afterwards.
	Destroy()
}

// BufferSource is the minimal view of a buffer that TextureFromBuffer
// needs; it is satisfied by wlrbuffer.Buffer.
type BufferSource interface {
	Width() int
	Height() int
}

// Box is an axis-aligned integer rectangle in the backend's render
// target, used for scissoring and destination quads.
type Box struct {
	X, Y, W, H int
}

// Backend is the GPU rendering backend consumed by the commit
// pipeline. All methods run between a Begin/End pair, on the
// compositor's single event-loop thread.
type Backend interface {
	// Begin starts a render pass over a target of the given size, in
	// physical pixels.
	Begin(width, height int)

	// End finishes the current render pass.
	End()

	// Clear clears the current scissor rectangle (or the whole
	// target, if no scissor is set) to the given color.
	Clear(color RGBA)

	// Scissor restricts subsequent Clear/RenderRect/RenderTexturedQuad
	// calls to box. A nil box removes the restriction.
	Scissor(box *Box)

	// RenderRect draws an opaque or translucent solid rectangle.
	// matrix carries the output's transform.
	RenderRect(box Box, color RGBA, matrix *linear.M3)

	// RenderTexturedQuad draws src (a sub-rectangle of tex, in texture
	// pixels) into the area described by matrix, modulated by alpha.
	RenderTexturedQuad(tex Texture, src FBox, matrix *linear.M3, alpha float32)

	// TextureFromBuffer uploads buf's pixels into a new Texture.
	TextureFromBuffer(buf BufferSource) (Texture, error)
}
