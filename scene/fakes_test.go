// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"github.com/mecattaf/wlroots/internal/region"
	"github.com/mecattaf/wlroots/internal/signal"
	"github.com/mecattaf/wlroots/linear"
	"github.com/mecattaf/wlroots/render"
	"github.com/mecattaf/wlroots/wlrbuffer"
	"github.com/mecattaf/wlroots/wlroutput"
)

// fakeDamage is a minimal wlroutput.Damage for tests.
type fakeDamage struct {
	acc   region.Region
	whole bool
}

func (d *fakeDamage) Add(r *region.Region)  { d.acc.Add(r) }
func (d *fakeDamage) AddBox(b region.Box)   { d.acc.AddBox(b) }
func (d *fakeDamage) AddWhole()             { d.whole = true }
func (d *fakeDamage) Current() *region.Region { return &d.acc }

func (d *fakeDamage) AttachRender() (bool, *region.Region) {
	if d.acc.IsEmpty() && !d.whole {
		return false, &d.acc
	}
	out := d.acc.Copy()
	d.acc.Clear()
	d.whole = false
	return true, out
}

// fakeDisplay is a minimal wlroutput.Display for tests: a fixed-size,
// fixed-scale, unrotated output that always accepts Test/Commit.
type fakeDisplay struct {
	w, h      int
	scale     float32
	transform wlroutput.Transform
	damage    fakeDamage

	attached    wlrbuffer.Buffer
	commitCount int
	failCommit  bool

	onCommit  signal.Signal[wlroutput.CommitEvent]
	onMode    signal.Signal[struct{}]
	onDestroy signal.Signal[struct{}]
}

func newFakeDisplay(w, h int) *fakeDisplay {
	return &fakeDisplay{w: w, h: h, scale: 1}
}

func (d *fakeDisplay) Resolution() (int, int) { return d.w, d.h }

func (d *fakeDisplay) TransformedResolution() (int, int) {
	if d.transform.Rotates90() {
		return d.h, d.w
	}
	return d.w, d.h
}

func (d *fakeDisplay) Scale() float32            { return d.scale }
func (d *fakeDisplay) Transform() wlroutput.Transform { return d.transform }

func (d *fakeDisplay) TransformMatrix() *linear.M3 {
	var m linear.M3
	m.I()
	return &m
}

func (d *fakeDisplay) AttachBuffer(buf wlrbuffer.Buffer) error {
	d.attached = buf
	return nil
}

func (d *fakeDisplay) Test() bool { return true }

func (d *fakeDisplay) Rollback() { d.attached = nil }

func (d *fakeDisplay) Commit() bool {
	if d.failCommit {
		return false
	}
	d.commitCount++
	return true
}

func (d *fakeDisplay) ScheduleFrame() {}

func (d *fakeDisplay) RenderSoftwareCursors(*region.Region) {}

func (d *fakeDisplay) Damage() wlroutput.Damage { return &d.damage }

func (d *fakeDisplay) OnCommit(fn func(wlroutput.CommitEvent)) *signal.Conn[wlroutput.CommitEvent] {
	return d.onCommit.Connect(fn)
}
func (d *fakeDisplay) OnModeChange(fn func()) *signal.Conn[struct{}] {
	return d.onMode.Connect(func(struct{}) { fn() })
}
func (d *fakeDisplay) OnDestroy(fn func()) *signal.Conn[struct{}] {
	return d.onDestroy.Connect(func(struct{}) { fn() })
}

// fakeBuffer is a minimal wlrbuffer.Buffer for tests.
type fakeBuffer struct {
	w, h   int
	locks  int
	tex    render.Texture
	hasTex bool
}

func newFakeBuffer(w, h int) *fakeBuffer { return &fakeBuffer{w: w, h: h} }

func (b *fakeBuffer) Lock() wlrbuffer.Buffer { b.locks++; return b }
func (b *fakeBuffer) Unlock()                { b.locks-- }
func (b *fakeBuffer) Width() int             { return b.w }
func (b *fakeBuffer) Height() int            { return b.h }
func (b *fakeBuffer) Texture() (render.Texture, bool) {
	return b.tex, b.hasTex
}

// fakeTexture is a minimal render.Texture for tests.
type fakeTexture struct{ w, h int }

func (t *fakeTexture) Width() int  { return t.w }
func (t *fakeTexture) Height() int { return t.h }
func (t *fakeTexture) Destroy()    {}

// fakeBackend is a minimal render.Backend for tests, recording calls
// instead of drawing anything.
type fakeBackend struct {
	begun        bool
	rectCalls    int
	texCalls     int
	uploadCalls  int
	lastScissors []*render.Box
}

func (b *fakeBackend) Begin(w, h int) { b.begun = true }
func (b *fakeBackend) End()           {}
func (b *fakeBackend) Clear(render.RGBA) {}
func (b *fakeBackend) Scissor(box *render.Box) {
	b.lastScissors = append(b.lastScissors, box)
}
func (b *fakeBackend) RenderRect(render.Box, render.RGBA, *linear.M3) { b.rectCalls++ }
func (b *fakeBackend) RenderTexturedQuad(render.Texture, render.FBox, *linear.M3, float32) {
	b.texCalls++
}
func (b *fakeBackend) TextureFromBuffer(buf render.BufferSource) (render.Texture, error) {
	b.uploadCalls++
	return &fakeTexture{w: buf.Width(), h: buf.Height()}, nil
}
