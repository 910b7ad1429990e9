// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"time"

	"github.com/mecattaf/wlroots/internal/region"
	"github.com/mecattaf/wlroots/linear"
	"github.com/mecattaf/wlroots/render"
)

// Commit renders and presents one frame of out, using backend when
// compositing is required. It returns false when nothing needed to be
// presented or the output's display rejected the frame, true on a
// successfully presented frame (this rendition's return value tracks
// "was a frame actually presented", the detail callers in this module
// branch on to decide whether to fire frame-done; see DESIGN.md).
//
// Grounded on driver/present.go's Presenter.Present state machine
// (attach → test → commit, with rollback on any rejected step), here
// extended with an attempted direct-scanout fast path before falling
// back to compositing through backend, matching the discipline of
// driver/vk's swapchain acquire/present loop.
func Commit(out *Output, backend render.Backend) bool {
	s := out.scene
	now := time.Now()

	scanoutOK := false
	if s.debugMode != DebugDamageHighlight {
		if tryDirectScanout(out) {
			out.prevScanout = true
			return true
		}
		// tryDirectScanout only probes AttachBuffer/Test/Commit and never
		// succeeds partially; Rollback here only discards that probe's own
		// attach state.
		out.disp.Rollback()
	}

	if scanoutOK != out.prevScanout {
		// The composite path skipped rendering whatever scanout was
		// presenting directly; it needs the whole output repainted once
		// to catch up. A successful scanout returns above, so this only
		// fires on the first composited frame after scanout.
		damageWholeOutput(out)
	}
	out.prevScanout = scanoutOK

	if s.debugMode == DebugDamageRerender {
		damageWholeOutput(out)
	}
	if s.debugMode == DebugDamageHighlight {
		snapshotAndSweepHighlights(s, out, now)
	}

	needsFrame, damage := out.disp.Damage().AttachRender()
	if !needsFrame {
		out.disp.Rollback()
		return false
	}

	renderDamage := damage
	physW, physH := out.disp.TransformedResolution()
	if s.debugMode != DebugDamageNone {
		renderDamage = region.New(region.Box{X: 0, Y: 0, W: physW, H: physH})
	}

	var presented []*Buffer
	backend.Begin(physW, physH)
	for _, box := range renderDamage.Boxes() {
		b := box
		backend.Scissor(&render.Box{X: b.X, Y: b.Y, W: b.W, H: b.H})
		backend.Clear(render.RGBA{A: 1})
		// Every pass paints the same buffers; keep a single pass's list
		// so output_present fires once per buffer.
		presented = presented[:0]
		paintTree(out.scene.root, out, backend, -out.x, -out.y, &presented)
	}
	backend.Scissor(nil)
	if s.debugMode == DebugDamageHighlight {
		paintHighlights(out, backend, now)
	}
	out.disp.RenderSoftwareCursors(renderDamage)
	backend.End()

	if !out.disp.Test() || !out.disp.Commit() {
		out.disp.Rollback()
		return false
	}

	if s.debugMode == DebugDamageHighlight {
		for _, h := range s.highlights {
			if h.out == out {
				out.disp.ScheduleFrame()
				break
			}
		}
	}

	for _, buf := range presented {
		buf.onOutputPresent.Emit(out)
	}
	return true
}

// tryDirectScanout attempts to hand a single, exactly-fitting buffer
// straight to the display without compositing. It returns false (and
// leaves the display state untouched by way of the caller's own
// Rollback) whenever the scene does not reduce to that trivial case.
func tryDirectScanout(out *Output) bool {
	s := out.scene
	ow, oh := out.disp.Resolution()
	outBox := region.Box{X: out.x, Y: out.y, W: ow, H: oh}

	var only *Buffer
	count := 0
	walkEnabled(s.root, func(n Node) bool {
		switch v := n.(type) {
		case *Rect:
			if !intersectsViewport(v, outBox) {
				return true
			}
			count++
			return count < 2
		case *Buffer:
			if !intersectsViewport(v, outBox) {
				return true
			}
			count++
			only = v
			return count < 2
		}
		return true
	})
	if count != 1 || only == nil {
		return false
	}
	box, ok := nodeBox(only)
	if !ok || !box.Equals(outBox) {
		return false
	}
	if only.transform != out.disp.Transform() {
		return false
	}
	if only.buf == nil {
		return false
	}
	if err := out.disp.AttachBuffer(only.buf); err != nil {
		return false
	}
	if !out.disp.Test() {
		return false
	}
	if !out.disp.Commit() {
		return false
	}
	only.onOutputPresent.Emit(out)
	return true
}

// intersectsViewport reports whether n's scene-space footprint overlaps
// outBox at all, per spec.md §4.F step 1's "bounding box intersects the
// output's viewport" test for the trivial-scanout case.
func intersectsViewport(n Node, outBox region.Box) bool {
	box, ok := nodeBox(n)
	if !ok {
		return false
	}
	_, ok = box.Intersect(outBox)
	return ok
}

// walkEnabled visits every enabled node reachable from n, depth first.
// When f returns false for a node, that node's children are skipped;
// its later siblings are still visited.
func walkEnabled(n Node, f func(Node) bool) {
	if !n.base().enabled {
		return
	}
	if !f(n) {
		return
	}
	if t, ok := n.(*Tree); ok {
		for _, c := range t.children {
			walkEnabled(c, f)
		}
	}
}

// paintTree draws every enabled Rect/Buffer reachable from t, in
// back-to-front child order (the first child is painted first), at
// the given output-local origin. Presented buffers are appended to
// *presented so their output_present signal can be fired only after
// the frame is actually committed.
func paintTree(t *Tree, out *Output, backend render.Backend, originX, originY int, presented *[]*Buffer) {
	for _, c := range t.children {
		cb := c.base()
		if !cb.enabled {
			continue
		}
		x, y := originX+cb.x, originY+cb.y
		switch v := c.(type) {
		case *Tree:
			paintTree(v, out, backend, x, y, presented)
		case *Rect:
			paintRect(v, out, backend, x, y)
		case *Buffer:
			if paintBuffer(v, out, backend, x, y) {
				*presented = append(*presented, v)
			}
		}
	}
}

func outputLocalBox(out *Output, x, y, w, h int) (region.Box, bool) {
	ow, oh := out.disp.Resolution()
	box := region.Box{X: x, Y: y, W: w, H: h}
	return box.Intersect(region.Box{X: 0, Y: 0, W: ow, H: oh})
}

func renderMatrix(out *Output, phys region.Box) linear.M3 {
	var scaleM, transM, st, m linear.M3
	scaleM.Scaling(float32(phys.W), float32(phys.H))
	transM.Translation(float32(phys.X), float32(phys.Y))
	st.Mul(&transM, &scaleM)
	tm := out.disp.TransformMatrix()
	m.Mul(tm, &st)
	return m
}

func paintRect(r *Rect, out *Output, backend render.Backend, x, y int) {
	local, ok := outputLocalBox(out, x, y, r.width, r.height)
	if !ok {
		return
	}
	phys := scaleBox(local, float64(out.disp.Scale()))
	m := renderMatrix(out, phys)
	backend.RenderRect(render.Box{X: phys.X, Y: phys.Y, W: phys.W, H: phys.H}, r.color, &m)
}

func paintBuffer(b *Buffer, out *Output, backend render.Backend, x, y int) bool {
	if b.buf == nil {
		return false
	}
	w, h := Size(b)
	local, ok := outputLocalBox(out, x, y, w, h)
	if !ok {
		return false
	}
	phys := scaleBox(local, float64(out.disp.Scale()))
	m := renderMatrix(out, phys)

	tex := b.texture
	if tex == nil {
		if t, ok := b.buf.Texture(); ok {
			tex = t
		} else {
			t, err := backend.TextureFromBuffer(b.buf)
			if err != nil {
				logf("texture upload failed: %v", err)
				return false
			}
			tex = t
		}
		b.texture = tex
	}

	src := b.srcBox
	if src.Empty() {
		src = render.FBox{X: 0, Y: 0, W: float64(b.buf.Width()), H: float64(b.buf.Height())}
	}
	backend.RenderTexturedQuad(tex, src, &m, 1)
	return true
}

// snapshotAndSweepHighlights records out's currently pending damage as
// a new highlight region, then sweeps the scene's whole highlight list
// in order: each region's area is subtracted by the union of every
// newer region already swept (so a fresh highlight masks the stale
// ones it overlaps), the surviving area is added back into the output
// damage so it gets repainted, and any region left empty or older than
// highlightMaxAge is dropped. Entries belonging to other outputs pass
// through untouched.
func snapshotAndSweepHighlights(s *Scene, out *Output, now time.Time) {
	cur := out.disp.Damage().Current()
	if cur != nil && !cur.IsEmpty() {
		s.highlights = append([]highlightRegion{{out: out, region: *cur.Copy(), timestamp: now}}, s.highlights...)
	}

	var acc region.Region
	kept := s.highlights[:0:0]
	for _, h := range s.highlights {
		if h.out != out {
			kept = append(kept, h)
			continue
		}
		h.region.Subtract(&acc)
		acc.Add(&h.region)
		if h.region.IsEmpty() || now.Sub(h.timestamp) >= highlightMaxAge {
			continue
		}
		kept = append(kept, h)
	}
	s.highlights = kept
	out.disp.Damage().Add(&acc)
}

// paintHighlights overlays every highlight region queued on out as a
// translucent red quad, with alpha decaying linearly from 0.5 at age
// zero to 0 at highlightMaxAge.
func paintHighlights(out *Output, backend render.Backend, now time.Time) {
	for _, h := range out.scene.highlights {
		if h.out != out {
			continue
		}
		age := now.Sub(h.timestamp)
		frac := 1 - float32(age)/float32(highlightMaxAge)
		if frac <= 0 {
			continue
		}
		backend.Scissor(nil)
		for _, b := range h.region.Boxes() {
			box := render.Box{X: b.X, Y: b.Y, W: b.W, H: b.H}
			backend.RenderRect(box, render.RGBA{R: 1, A: frac * 0.5}, out.disp.TransformMatrix())
		}
	}
}

// NotifyFrameDone fires frame_done on every Buffer currently active on
// out, passing the given timestamp. Call this once the compositor
// knows out has finished presenting a frame.
func NotifyFrameDone(out *Output, now time.Time) {
	OutputForEachBuffer(out, func(buf *Buffer, _, _ int) {
		buf.SendFrameDone(now.Unix(), int64(now.Nanosecond()))
	})
}
