// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"math"

	"github.com/mecattaf/wlroots/internal/region"
	"github.com/mecattaf/wlroots/render"
	"github.com/mecattaf/wlroots/wlroutput"
)

// damageWhole marks n's entire current footprint damaged on every
// output it currently overlaps. It is a no-op for a disabled or
// zero-area Rect or Buffer; for a Tree, which has no area of its own,
// it damages each descendant in turn. Callers invoke it both before
// and after a mutation (position, size, enabled, color...) so that
// both the old and the new footprint end up damaged.
func damageWhole(n Node) {
	b := n.base()
	if b.scene == nil {
		return
	}
	if t, ok := n.(*Tree); ok {
		for _, c := range t.children {
			damageWhole(c)
		}
		return
	}
	box, ok := nodeBox(n)
	if !ok {
		return
	}
	for _, out := range b.scene.outputs {
		addOutputDamage(out, box)
	}
}

// emitBufferDamage translates a caller-reported buffer-local damage
// region into scene-space and applies it to every output the buffer
// node overlaps, by way of addOutputDamage (the same per-output
// translate/clip/scale pipeline damageWhole uses). The region is
// first rotated/flipped into the upright pixel grid src_box and
// dst_size operate in, then cropped to src_box, then scaled by
// dst_size/src_box so a cropped or rescaled buffer still reports an
// exact damage rectangle rather than its whole footprint.
func emitBufferDamage(b *Buffer, local render.Box) {
	if b.scene == nil {
		return
	}
	x, y, enabled := nodeCoords(b)
	if !enabled {
		return
	}
	dstW, dstH := Size(b)
	if dstW <= 0 || dstH <= 0 || b.buf == nil {
		return
	}

	bufW, bufH := b.buf.Width(), b.buf.Height()
	upright := transformBox(local, b.transform, bufW, bufH)

	src := b.srcBox
	if src.Empty() {
		uprightW, uprightH := bufW, bufH
		if b.transform.Rotates90() {
			uprightW, uprightH = bufH, bufW
		}
		src = render.FBox{X: 0, Y: 0, W: float64(uprightW), H: float64(uprightH)}
	}

	clip, ok := intersectBoxFBox(upright, src)
	if !ok {
		return
	}

	scaleX := float64(dstW) / src.W
	scaleY := float64(dstH) / src.H

	box := region.Box{
		X: x + int(math.Round((clip.X-src.X)*scaleX)),
		Y: y + int(math.Round((clip.Y-src.Y)*scaleY)),
		W: int(math.Round(clip.W * scaleX)),
		H: int(math.Round(clip.H * scaleY)),
	}
	if box.W <= 0 || box.H <= 0 {
		return
	}
	for _, out := range b.scene.outputs {
		addOutputDamage(out, box)
	}
}

// transformBox maps box, expressed in a buffer's raw (pre-transform)
// pixel grid of size (bufW, bufH), into the upright pixel grid that
// src_box and dst_size operate in, by applying the inverse of t
// (wlroots' wlr_box_transform with the inverted transform).
// paintBuffer does not apply t when drawing: its render matrix carries
// only the output's transform, so the texture is drawn unrotated.
func transformBox(box render.Box, t wlroutput.Transform, bufW, bufH int) render.Box {
	switch t {
	case wlroutput.TransformNormal:
		return box
	case wlroutput.Transform90:
		return render.Box{X: box.Y, Y: bufW - box.X - box.W, W: box.H, H: box.W}
	case wlroutput.Transform180:
		return render.Box{X: bufW - box.X - box.W, Y: bufH - box.Y - box.H, W: box.W, H: box.H}
	case wlroutput.Transform270:
		return render.Box{X: bufH - box.Y - box.H, Y: box.X, W: box.H, H: box.W}
	case wlroutput.TransformFlipped:
		return render.Box{X: bufW - box.X - box.W, Y: box.Y, W: box.W, H: box.H}
	case wlroutput.TransformFlipped90:
		return render.Box{X: bufH - box.Y - box.H, Y: bufW - box.X - box.W, W: box.H, H: box.W}
	case wlroutput.TransformFlipped180:
		return render.Box{X: box.X, Y: bufH - box.Y - box.H, W: box.W, H: box.H}
	case wlroutput.TransformFlipped270:
		return render.Box{X: box.Y, Y: box.X, W: box.H, H: box.W}
	default:
		return box
	}
}

// intersectBoxFBox intersects an integer box with a floating-point
// box, returning false when the intersection is empty.
func intersectBoxFBox(a render.Box, b render.FBox) (render.FBox, bool) {
	x0 := math.Max(float64(a.X), b.X)
	y0 := math.Max(float64(a.Y), b.Y)
	x1 := math.Min(float64(a.X+a.W), b.X+b.W)
	y1 := math.Min(float64(a.Y+a.H), b.Y+b.H)
	if x1 <= x0 || y1 <= y0 {
		return render.FBox{}, false
	}
	return render.FBox{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// addOutputDamage clips sceneBox to out's viewport, scales it into
// physical pixels, and feeds it to the output's display damage
// accumulator. Debug-highlight bookkeeping happens separately, from
// the accumulator's own contents at commit time (see
// snapshotAndSweepHighlights), not from each individual damage call.
func addOutputDamage(out *Output, sceneBox region.Box) {
	local := sceneBox.Translate(-out.x, -out.y)
	ow, oh := out.disp.Resolution()
	clip, ok := local.Intersect(region.Box{X: 0, Y: 0, W: ow, H: oh})
	if !ok {
		return
	}
	phys := scaleBox(clip, float64(out.disp.Scale()))
	out.disp.Damage().AddBox(phys)
}
