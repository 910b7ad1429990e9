// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"math"

	"github.com/mecattaf/wlroots/internal/region"
)

// nodeCoords walks from n to the scene root, accumulating x and y and
// AND-ing the enabled flag along the way (n's own enabled flag
// included).
func nodeCoords(n Node) (x, y int, enabledChain bool) {
	enabledChain = true
	var cur Node = n
	for cur != nil {
		b := cur.base()
		x += b.x
		y += b.y
		enabledChain = enabledChain && b.enabled
		if b.parent == nil {
			break
		}
		cur = Node(b.parent)
	}
	return
}

// nodeBox returns n's axis-aligned footprint in scene-space, and false
// if n is disabled (directly or through an ancestor) or has no area.
func nodeBox(n Node) (region.Box, bool) {
	x, y, enabled := nodeCoords(n)
	if !enabled {
		return region.Box{}, false
	}
	w, h := Size(n)
	if w <= 0 || h <= 0 {
		return region.Box{}, false
	}
	return region.Box{X: x, Y: y, W: w, H: h}, true
}

// scaleBox scales box by s, rounding each edge independently so that
// the resulting width/height is the difference of the rounded edges
// rather than a rounding of the original width/height. This matches
// real-world output-scaling behavior: adjacent scaled boxes that share
// an edge in logical space still share an edge in physical space, with
// no gap or overlap introduced by independent rounding of each box's
// width.
func scaleBox(b region.Box, s float64) region.Box {
	x0 := int(math.Round(float64(b.X) * s))
	y0 := int(math.Round(float64(b.Y) * s))
	x1 := int(math.Round(float64(b.X+b.W) * s))
	y1 := int(math.Round(float64(b.Y+b.H) * s))
	return region.Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
