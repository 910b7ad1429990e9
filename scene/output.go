// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"sort"

	"github.com/mecattaf/wlroots/internal/region"
	"github.com/mecattaf/wlroots/internal/signal"
	"github.com/mecattaf/wlroots/wlroutput"
)

// outputIndexBits is the width of Output.index and of the bitmask
// stored in Buffer.activeOutputs: at most 64 outputs may be attached
// to a single Scene at once.
const outputIndexBits = 64

// Output binds a wlroutput.Display to a Scene at a given scene-space
// position, and owns that display's share of the commit pipeline.
type Output struct {
	scene *Scene
	index int
	disp  wlroutput.Display
	x, y  int

	// prevScanout records whether the previous Commit used the direct
	// scanout fast path, so the first composited frame after scanout
	// can damage the whole output once (the composite path otherwise
	// has stale content for whatever scanout skipped rendering).
	prevScanout bool

	commitConn  *signal.Conn[wlroutput.CommitEvent]
	modeConn    *signal.Conn[struct{}]
	destroyConn *signal.Conn[struct{}]

	onDestroy signal.Signal[struct{}]
}

// NewOutput attaches disp to s at scene-space position (x, y). It
// panics if s already has outputIndexBits outputs attached: exceeding
// the fixed-width active-outputs mask is a precondition violation, not
// a condition a caller can recover from.
func NewOutput(s *Scene, disp wlroutput.Display, x, y int) *Output {
	if s.outputIndex.Len() == 0 {
		s.outputIndex.Grow(1)
	}
	index, ok := s.outputIndex.Search()
	if !ok {
		panic("scene: NewOutput: too many outputs attached to scene")
	}
	s.outputIndex.Set(index)

	out := &Output{scene: s, index: index, disp: disp, x: x, y: y}
	out.commitConn = disp.OnCommit(func(ev wlroutput.CommitEvent) {
		if ev.ModeChanged || ev.TransformChanged || ev.ScaleChanged {
			runMembership(s)
		}
	})
	out.modeConn = disp.OnModeChange(func() { runMembership(s) })
	out.destroyConn = disp.OnDestroy(func() { out.Destroy() })

	i := sort.Search(len(s.outputs), func(i int) bool { return s.outputs[i].index >= index })
	s.outputs = append(s.outputs, nil)
	copy(s.outputs[i+1:], s.outputs[i:])
	s.outputs[i] = out

	damageWholeOutput(out)
	runMembership(s)
	return out
}

// OnDestroy subscribes fn to fire once, when the output is detached
// from its scene (directly or via scene-root teardown).
func (o *Output) OnDestroy(fn func()) *signal.Conn[struct{}] {
	return o.onDestroy.Connect(func(struct{}) { fn() })
}

// Index returns the output's allocated slot, a stable value in
// [0, 64) reused by the next output created after this one is
// destroyed.
func (o *Output) Index() int { return o.index }

// Display returns the output's bound display.
func (o *Output) Display() wlroutput.Display { return o.disp }

// Position returns the output's scene-space position.
func (o *Output) Position() (x, y int) { return o.x, o.y }

// SetPosition moves the output within the scene, damaging its full
// viewport at both the old and new position and re-running membership
// for every buffer (a moved output may gain or lose overlap with
// buffers that did not move).
func (o *Output) SetPosition(x, y int) {
	if o.x == x && o.y == y {
		return
	}
	damageWholeOutput(o)
	o.x, o.y = x, y
	damageWholeOutput(o)
	runMembership(o.scene)
}

// Destroy detaches the output from its scene, clearing it from every
// buffer's active-outputs mask and firing output_leave for each
// buffer that was active on it.
func (o *Output) Destroy() {
	s := o.scene
	o.onDestroy.Emit(struct{}{})
	runMembershipIgnoring(s, o)
	if o.commitConn != nil {
		o.commitConn.Disconnect()
	}
	if o.modeConn != nil {
		o.modeConn.Disconnect()
	}
	if o.destroyConn != nil {
		o.destroyConn.Disconnect()
	}
	for i, e := range s.outputs {
		if e == o {
			s.outputs = append(s.outputs[:i], s.outputs[i+1:]...)
			break
		}
	}
	s.outputIndex.Unset(o.index)
}

func damageWholeOutput(o *Output) {
	w, h := o.disp.Resolution()
	addOutputDamage(o, region.Box{X: o.x, Y: o.y, W: w, H: h})
}
