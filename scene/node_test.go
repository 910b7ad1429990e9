// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"testing"

	"github.com/mecattaf/wlroots/internal/region"
	"github.com/mecattaf/wlroots/render"
)

func TestNewRectDamagesOutput(t *testing.T) {
	s := New()
	disp := newFakeDisplay(100, 100)
	out := NewOutput(s, disp, 0, 0)
	disp.damage.acc.Clear() // clear the whole-output damage from attach

	NewRect(s.Root(), 10, 10, render.RGBA{R: 1, A: 1})
	if disp.damage.acc.IsEmpty() {
		t.Fatal("NewRect: expected damage to be recorded on the output")
	}
	_ = out
}

func TestSetPositionDamagesOldAndNew(t *testing.T) {
	s := New()
	disp := newFakeDisplay(100, 100)
	NewOutput(s, disp, 0, 0)
	r := NewRect(s.Root(), 10, 10, render.RGBA{A: 1})
	disp.damage.acc.Clear()

	SetPosition(r, 50, 50)
	boxes := disp.damage.acc.Boxes()
	if len(boxes) != 2 {
		t.Fatalf("SetPosition: got %d damage boxes, want 2 (old + new)", len(boxes))
	}
}

func TestPlaceAboveOrdering(t *testing.T) {
	s := New()
	root := s.Root()
	a := NewTree(root)
	b := NewTree(root)
	c := NewTree(root)

	PlaceAbove(a, c)
	children := root.children
	if len(children) != 3 || children[0] != b || children[1] != c || children[2] != a {
		t.Fatalf("PlaceAbove: unexpected order %v", children)
	}
}

func TestRaiseToTopLowerToBottom(t *testing.T) {
	s := New()
	root := s.Root()
	a := NewTree(root)
	b := NewTree(root)

	RaiseToTop(a)
	if root.children[len(root.children)-1] != a {
		t.Fatal("RaiseToTop: a should be topmost")
	}
	LowerToBottom(b)
	// b was already bottom; no-op should not panic or reorder others.
	if root.children[0] != b {
		t.Fatal("LowerToBottom: b should remain bottommost")
	}
}

func TestReparentRejectsCycle(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Reparent: expected panic when reparenting into a descendant")
		}
	}()
	s := New()
	root := s.Root()
	a := NewTree(root)
	b := NewTree(a)
	Reparent(a, b)
}

func TestDestroyFiresOnceBeforeChildren(t *testing.T) {
	s := New()
	root := s.Root()
	parent := NewTree(root)
	child := NewTree(parent)

	var order []string
	OnDestroy(parent, func() { order = append(order, "parent") })
	OnDestroy(child, func() { order = append(order, "child") })

	Destroy(parent)
	if len(order) != 2 || order[0] != "parent" || order[1] != "child" {
		t.Fatalf("Destroy order = %v, want [parent child]", order)
	}
	if len(root.children) != 0 {
		t.Fatal("Destroy: parent should be removed from root's children")
	}
}

func TestSizeBuffer(t *testing.T) {
	s := New()
	root := s.Root()
	buf := newFakeBuffer(64, 32)
	b := NewBuffer(root, buf)

	w, h := Size(b)
	if w != 64 || h != 32 {
		t.Fatalf("Size: got (%d, %d), want (64, 32)", w, h)
	}

	b.SetDestSize(128, 16)
	w, h = Size(b)
	if w != 128 || h != 16 {
		t.Fatalf("Size after SetDestSize: got (%d, %d), want (128, 16)", w, h)
	}
}

func TestSetBufferWithDamageTranslatesExactRegion(t *testing.T) {
	s := New()
	disp := newFakeDisplay(100, 100)
	NewOutput(s, disp, 0, 0)
	buf := newFakeBuffer(20, 20)
	b := NewBuffer(s.Root(), buf)
	SetPosition(b, 10, 10)
	disp.damage.acc.Clear()

	b.SetBufferWithDamage(newFakeBuffer(20, 20), render.Box{X: 2, Y: 3, W: 4, H: 5})
	boxes := disp.damage.acc.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("SetBufferWithDamage: got %d damage boxes, want 1", len(boxes))
	}
	want := region.Box{X: 12, Y: 13, W: 4, H: 5}
	if boxes[0] != want {
		t.Fatalf("SetBufferWithDamage: damage = %+v, want %+v", boxes[0], want)
	}
}

func TestSetBufferWithDamageCropAndScale(t *testing.T) {
	s := New()
	disp := newFakeDisplay(100, 100)
	disp.scale = 2
	NewOutput(s, disp, 0, 0)
	buf := newFakeBuffer(200, 200)
	b := NewBuffer(s.Root(), buf)
	b.SetSourceBox(render.FBox{X: 50, Y: 50, W: 100, H: 100})
	b.SetDestSize(400, 400)
	disp.damage.acc.Clear()

	b.SetBufferWithDamage(newFakeBuffer(200, 200), render.Box{X: 0, Y: 0, W: 200, H: 200})
	boxes := disp.damage.acc.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("SetBufferWithDamage: got %d damage boxes, want 1", len(boxes))
	}
	want := region.Box{X: 0, Y: 0, W: 200, H: 200}
	if boxes[0] != want {
		t.Fatalf("SetBufferWithDamage: damage = %+v, want %+v (cropped to src_box, scaled by dst/src then output scale)", boxes[0], want)
	}
}

func TestSetEnabledDoesNotClearMembership(t *testing.T) {
	s := New()
	disp := newFakeDisplay(100, 100)
	NewOutput(s, disp, 0, 0)
	buf := newFakeBuffer(10, 10)
	b := NewBuffer(s.Root(), buf)

	if b.ActiveOutputs() == 0 {
		t.Fatal("NewBuffer: expected buffer to be a member of the sole output")
	}
	SetEnabled(b, false)
	if b.ActiveOutputs() == 0 {
		t.Fatal("SetEnabled(false): membership must survive disabling")
	}
}
