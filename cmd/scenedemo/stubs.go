// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"github.com/mecattaf/wlroots/internal/region"
	"github.com/mecattaf/wlroots/internal/signal"
	"github.com/mecattaf/wlroots/linear"
	"github.com/mecattaf/wlroots/render"
	"github.com/mecattaf/wlroots/wlrbuffer"
	"github.com/mecattaf/wlroots/wlroutput"
)

// stubDamage is a minimal wlroutput.Damage that reports a frame as
// needed whenever any damage has accumulated, standing in for the
// compositor's real backend-specific damage tracker.
type stubDamage struct {
	acc region.Region
	w   int
	h   int
}

func (d *stubDamage) Add(r *region.Region) { d.acc.Add(r) }
func (d *stubDamage) AddBox(b region.Box)  { d.acc.AddBox(b) }
func (d *stubDamage) AddWhole()            { d.acc.AddBox(region.Box{W: d.w, H: d.h}) }
func (d *stubDamage) Current() *region.Region { return &d.acc }

func (d *stubDamage) AttachRender() (bool, *region.Region) {
	if d.acc.IsEmpty() {
		return false, &d.acc
	}
	out := d.acc.Copy()
	d.acc.Clear()
	return true, out
}

// stubDisplay is a minimal wlroutput.Display that accepts every
// attach/test/commit, standing in for a real windowing or DRM backend.
type stubDisplay struct {
	w, h  int
	scale float32
	damage stubDamage

	onCommit  signal.Signal[wlroutput.CommitEvent]
	onMode    signal.Signal[struct{}]
	onDestroy signal.Signal[struct{}]
}

func newStubDisplay(w, h int, scale float32) *stubDisplay {
	d := &stubDisplay{w: w, h: h, scale: scale}
	d.damage.w, d.damage.h = w, h
	d.damage.AddWhole()
	return d
}

func (d *stubDisplay) Resolution() (int, int) { return d.w, d.h }
func (d *stubDisplay) TransformedResolution() (int, int) {
	return int(float32(d.w) * d.scale), int(float32(d.h) * d.scale)
}
func (d *stubDisplay) Scale() float32                 { return d.scale }
func (d *stubDisplay) Transform() wlroutput.Transform { return wlroutput.TransformNormal }
func (d *stubDisplay) TransformMatrix() *linear.M3 {
	var m linear.M3
	m.I()
	return &m
}
func (d *stubDisplay) AttachBuffer(wlrbuffer.Buffer) error { return nil }
func (d *stubDisplay) Test() bool                          { return true }
func (d *stubDisplay) Rollback()                            {}
func (d *stubDisplay) Commit() bool                         { return true }
func (d *stubDisplay) ScheduleFrame()                        {}
func (d *stubDisplay) RenderSoftwareCursors(*region.Region)  {}
func (d *stubDisplay) Damage() wlroutput.Damage              { return &d.damage }
func (d *stubDisplay) OnCommit(fn func(wlroutput.CommitEvent)) *signal.Conn[wlroutput.CommitEvent] {
	return d.onCommit.Connect(fn)
}
func (d *stubDisplay) OnModeChange(fn func()) *signal.Conn[struct{}] {
	return d.onMode.Connect(func(struct{}) { fn() })
}
func (d *stubDisplay) OnDestroy(fn func()) *signal.Conn[struct{}] {
	return d.onDestroy.Connect(func(struct{}) { fn() })
}

// stubBuffer is a minimal wlrbuffer.Buffer backed by no real pixel
// storage, standing in for a client-supplied shared-memory or DMA-BUF
// buffer.
type stubBuffer struct {
	w, h int
}

func newStubBuffer(w, h int) *stubBuffer { return &stubBuffer{w, h} }

func (b *stubBuffer) Lock() wlrbuffer.Buffer                   { return b }
func (b *stubBuffer) Unlock()                                   {}
func (b *stubBuffer) Width() int                                { return b.w }
func (b *stubBuffer) Height() int                               { return b.h }
func (b *stubBuffer) Texture() (render.Texture, bool)           { return nil, false }

// stubTexture is a minimal render.Texture.
type stubTexture struct{ w, h int }

func (t *stubTexture) Width() int  { return t.w }
func (t *stubTexture) Height() int { return t.h }
func (t *stubTexture) Destroy()    {}

// stubBackend is a minimal render.Backend that records call counts
// instead of issuing real GPU commands.
type stubBackend struct {
	rects   int
	uploads int
}

func (b *stubBackend) Begin(int, int)                {}
func (b *stubBackend) End()                          {}
func (b *stubBackend) Clear(render.RGBA)             {}
func (b *stubBackend) Scissor(*render.Box)           {}
func (b *stubBackend) RenderRect(render.Box, render.RGBA, *linear.M3) { b.rects++ }
func (b *stubBackend) RenderTexturedQuad(render.Texture, render.FBox, *linear.M3, float32) {}
func (b *stubBackend) TextureFromBuffer(buf render.BufferSource) (render.Texture, error) {
	b.uploads++
	return &stubTexture{w: buf.Width(), h: buf.Height()}, nil
}
