// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package signal implements the multicast pub/sub primitive used for
// every event this module fires: node destroy, buffer output_enter/
// output_leave/output_present/frame_done, and the display's commit/
// mode notifications that scene.Output subscribes to.
//
// No repo in the pack implements this kind of observer type (Go code
// usually reaches for channels instead), so the type itself is new.
// Its shape — a small generic container, safe against listeners
// unregistering mid-dispatch — follows the snapshot-then-mutate
// technique the teacher already uses for tree traversal in
// node.Graph.Remove and node.Graph.Update: take a stable view before
// iterating, tolerate structural change underneath it.
package signal

// Signal is a multicast event of value type T.
// The zero value is ready to use.
type Signal[T any] struct {
	listeners []*listener[T]
}

type listener[T any] struct {
	fn      func(T)
	removed bool
}

// Conn identifies one Connect call. Disconnect is idempotent and safe
// to call from within the signal's own Emit.
type Conn[T any] struct {
	l *listener[T]
}

// Disconnect removes the listener. Safe to call during Emit, including
// from the listener's own callback.
func (c *Conn[T]) Disconnect() {
	if c != nil && c.l != nil {
		c.l.removed = true
	}
}

// Connect registers fn to run on every future Emit.
func (s *Signal[T]) Connect(fn func(T)) *Conn[T] {
	l := &listener[T]{fn: fn}
	s.listeners = append(s.listeners, l)
	return &Conn[T]{l}
}

// Emit calls every connected, not-yet-disconnected listener with v, in
// connection order. Listeners may disconnect themselves or any other
// listener of this signal during dispatch; such changes take effect
// immediately but never corrupt the in-progress iteration, since Emit
// walks a stable snapshot of the listener slice and only consults each
// listener's own removed flag before invoking it.
func (s *Signal[T]) Emit(v T) {
	if len(s.listeners) == 0 {
		return
	}
	snapshot := s.listeners
	for _, l := range snapshot {
		if !l.removed {
			l.fn(v)
		}
	}
	s.compact()
}

// compact drops disconnected listeners accumulated since the last
// Emit or compact call.
func (s *Signal[T]) compact() {
	n := 0
	for _, l := range s.listeners {
		if !l.removed {
			n++
		}
	}
	if n == len(s.listeners) {
		return
	}
	out := make([]*listener[T], 0, n)
	for _, l := range s.listeners {
		if !l.removed {
			out = append(out, l)
		}
	}
	s.listeners = out
}

// Len returns the number of currently connected listeners.
func (s *Signal[T]) Len() int {
	n := 0
	for _, l := range s.listeners {
		if !l.removed {
			n++
		}
	}
	return n
}
