// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

import "github.com/mecattaf/wlroots/internal/region"

// runMembership recomputes every Buffer's active-outputs mask and
// primary output against the scene's current output list, emitting
// output_enter/output_leave as masks change. It is called after any
// mutation that can change overlap: node/output move, resize,
// reparent, transform change, or output attach/detach.
//
// Membership does not consult the enabled flag: a disabled node still
// occupies scene-space and remains a member of the outputs it
// geometrically overlaps. Only damage propagation is suppressed while
// disabled.
func runMembership(s *Scene) {
	runMembershipIgnoring(s, nil)
}

// runMembershipIgnoring behaves like runMembership but treats ignore
// (typically an output in the process of being detached) as absent,
// so every buffer correctly loses membership in it.
func runMembershipIgnoring(s *Scene, ignore *Output) {
	if s == nil || s.root == nil {
		return
	}
	var buffers []*Buffer
	collectBuffers(s.root, &buffers)
	for _, buf := range buffers {
		updateBufferMembership(buf, s.outputs, ignore)
	}
}

func collectBuffers(t *Tree, out *[]*Buffer) {
	for _, c := range t.children {
		switch v := c.(type) {
		case *Buffer:
			*out = append(*out, v)
		case *Tree:
			collectBuffers(v, out)
		}
	}
}

// membershipBox returns buf's scene-space footprint for the purpose of
// output-overlap testing, regardless of its enabled chain.
func membershipBox(buf *Buffer) (region.Box, bool) {
	x, y, _ := nodeCoords(buf)
	w, h := Size(buf)
	if w <= 0 || h <= 0 {
		return region.Box{}, false
	}
	return region.Box{X: x, Y: y, W: w, H: h}, true
}

func updateBufferMembership(buf *Buffer, outputs []*Output, ignore *Output) {
	box, ok := membershipBox(buf)
	oldMask := buf.activeOutputs

	var newMask uint64
	var bestOut *Output
	bestArea := 0
	if ok {
		for _, out := range outputs {
			if out == ignore {
				continue
			}
			ow, oh := out.disp.Resolution()
			outBox := region.Box{X: out.x, Y: out.y, W: ow, H: oh}
			inter, overlap := box.Intersect(outBox)
			if !overlap {
				continue
			}
			newMask |= uint64(1) << uint(out.index)
			if area := inter.W * inter.H; area > bestArea {
				bestArea = area
				bestOut = out
			}
		}
	}

	buf.activeOutputs = newMask
	buf.primaryOutput = bestOut

	for _, out := range outputs {
		bit := uint64(1) << uint(out.index)
		was := oldMask&bit != 0
		is := newMask&bit != 0
		if is && !was {
			buf.onOutputEnter.Emit(out)
		} else if was && !is {
			buf.onOutputLeave.Emit(out)
		}
	}
}

// clearBufferMembership fires output_leave for every output buf was
// active on and resets its membership state. Called when buf is
// destroyed.
func clearBufferMembership(buf *Buffer) {
	for _, out := range buf.scene.outputs {
		bit := uint64(1) << uint(out.index)
		if buf.activeOutputs&bit != 0 {
			buf.onOutputLeave.Emit(out)
		}
	}
	buf.activeOutputs = 0
	buf.primaryOutput = nil
}
