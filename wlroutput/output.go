// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package wlroutput declares the display abstraction that scene.Output
// binds to. It is an external collaborator (spec Non-goal): this
// module never opens a window or talks to a display controller
// itself — a host compositor supplies a concrete Display per monitor.
//
// Grounded on the teacher's driver/vk present/swapchain shape
// (attach/test/commit/rollback around a single in-flight image,
// Recreate in response to a stale-swapchain error) and on wsi's
// resolution/transform bookkeeping, adapted from a 3D windowing
// surface to a 2D compositor output.
package wlroutput

import (
	"github.com/mecattaf/wlroots/internal/region"
	"github.com/mecattaf/wlroots/internal/signal"
	"github.com/mecattaf/wlroots/linear"
	"github.com/mecattaf/wlroots/wlrbuffer"
)

// Transform is one of the eight discrete output orientations.
// Odd values are the ones that swap width/height (a 90° or 270°
// rotation component), matching spec.md §4.A's "transform & 90°
// rotation bit" rule.
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Rotates90 reports whether t swaps width and height.
func (t Transform) Rotates90() bool { return t&1 != 0 }

// CommitEvent describes what changed in a display commit that
// scene.Output subscribes to (spec.md §4.D step 4).
type CommitEvent struct {
	ModeChanged      bool
	TransformChanged bool
	ScaleChanged     bool
}

// Damage is a display's external damage accumulator.
type Damage interface {
	// Add unions r into the accumulated damage.
	Add(r *region.Region)

	// AddBox unions a single box into the accumulated damage.
	AddBox(b region.Box)

	// AddWhole marks the display's entire viewport damaged.
	AddWhole()

	// Current returns the damage accumulated so far this frame.
	// The returned region must not be retained past the next call to
	// any Damage method.
	Current() *region.Region

	// AttachRender prepares to render a frame. needsFrame is false
	// when nothing changed and the caller should roll back and skip
	// the frame entirely; damage is the region that must be redrawn.
	AttachRender() (needsFrame bool, damage *region.Region)
}

// Display is a single monitor/output that a scene.Output binds to.
type Display interface {
	// Resolution returns the output's logical (scene-space) size.
	Resolution() (w, h int)

	// TransformedResolution returns the output's physical pixel size,
	// after Transform is applied.
	TransformedResolution() (w, h int)

	// Scale returns the ratio between logical and physical pixels.
	Scale() float32

	// Transform returns the output's current orientation.
	Transform() Transform

	// TransformMatrix returns the 3x3 matrix that implements
	// Transform, for use in render.Backend draw calls.
	TransformMatrix() *linear.M3

	// AttachBuffer stages buf for presentation. It does not take
	// effect until a subsequent, successful Commit.
	AttachBuffer(buf wlrbuffer.Buffer) error

	// Test reports whether the currently attached state (buffer,
	// damage) would be accepted by Commit, without presenting it.
	Test() bool

	// Rollback discards the currently attached, uncommitted state.
	Rollback()

	// Commit presents the currently attached state. It returns false
	// on failure, in which case the attached state is discarded as if
	// Rollback had been called.
	Commit() bool

	// ScheduleFrame requests a future frame callback even though
	// nothing is currently attached (used to keep animating debug
	// damage highlights alive).
	ScheduleFrame()

	// RenderSoftwareCursors draws any software cursors onto the
	// current render target, clipped to damage.
	RenderSoftwareCursors(damage *region.Region)

	// Damage returns the output's damage accumulator.
	Damage() Damage

	// OnCommit subscribes to the display's commit signal.
	OnCommit(fn func(CommitEvent)) *signal.Conn[CommitEvent]

	// OnModeChange subscribes to the display's mode-change signal.
	OnModeChange(fn func()) *signal.Conn[struct{}]

	// OnDestroy subscribes to the display's destroy signal.
	OnDestroy(fn func()) *signal.Conn[struct{}]
}
