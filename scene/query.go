// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

// NodeAt performs a hit test starting at root, in root's local
// coordinate space, returning the topmost enabled Rect or Buffer node
// whose bounds (or, for a Buffer with PointAcceptsInput set, whose
// predicate) contains (x, y), along with that node's local
// coordinates of the hit point. Children are tested front-to-back (the
// last child of each Tree first), and a disabled node — and therefore
// its entire subtree — is skipped.
func NodeAt(root Node, x, y float64) (hit Node, lx, ly float64, ok bool) {
	if !root.base().enabled {
		return nil, 0, 0, false
	}
	switch v := root.(type) {
	case *Tree:
		for i := len(v.children) - 1; i >= 0; i-- {
			c := v.children[i]
			cb := c.base()
			cx, cy := x-float64(cb.x), y-float64(cb.y)
			if h, hx, hy, found := NodeAt(c, cx, cy); found {
				return h, hx, hy, true
			}
		}
		return nil, 0, 0, false

	case *Rect:
		if x >= 0 && y >= 0 && x < float64(v.width) && y < float64(v.height) {
			return v, x, y, true
		}
		return nil, 0, 0, false

	case *Buffer:
		if v.PointAcceptsInput != nil {
			if v.PointAcceptsInput(v, x, y) {
				return v, x, y, true
			}
			return nil, 0, 0, false
		}
		w, h := Size(v)
		if x >= 0 && y >= 0 && x < float64(w) && y < float64(h) {
			return v, x, y, true
		}
		return nil, 0, 0, false

	default:
		return nil, 0, 0, false
	}
}

// ForEachBuffer invokes f once for every Buffer descendant of root (or
// for root itself, if root is a Buffer) whose entire ancestor chain is
// enabled, in an unspecified order, passing each buffer's absolute
// scene-space position. A disabled node, and therefore its subtree, is
// skipped — an enabled-aware pre-order traversal, matching NodeAt.
func ForEachBuffer(root Node, f func(buf *Buffer, x, y int)) {
	if buf, ok := root.(*Buffer); ok {
		x, y, enabled := nodeCoords(buf)
		if enabled {
			f(buf, x, y)
		}
		return
	}
	t, ok := root.(*Tree)
	if !ok {
		return
	}
	var buffers []*Buffer
	collectBuffers(t, &buffers)
	for _, buf := range buffers {
		x, y, enabled := nodeCoords(buf)
		if !enabled {
			continue
		}
		f(buf, x, y)
	}
}

// OutputForEachBuffer invokes f for every enabled Buffer currently
// active on out, passing each buffer's absolute scene-space position.
// NotifyFrameDone uses this to reach every buffer shown on out.
func OutputForEachBuffer(out *Output, f func(buf *Buffer, x, y int)) {
	var buffers []*Buffer
	collectBuffers(out.scene.root, &buffers)
	bit := uint64(1) << uint(out.index)
	for _, buf := range buffers {
		if buf.activeOutputs&bit == 0 {
			continue
		}
		x, y, enabled := nodeCoords(buf)
		if !enabled {
			continue
		}
		f(buf, x, y)
	}
}
