// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package signal

import "testing"

func TestEmitOrder(t *testing.T) {
	var s Signal[int]
	var got []int
	s.Connect(func(v int) { got = append(got, v) })
	s.Connect(func(v int) { got = append(got, v*10) })
	s.Emit(1)
	want := []int{1, 10}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Emit order\nhave %v\nwant %v", got, want)
	}
}

func TestDisconnectDuringEmit(t *testing.T) {
	var s Signal[int]
	var calls int
	var c2 *Conn[int]
	c1 := s.Connect(func(v int) {
		calls++
		c2.Disconnect()
	})
	c2 = s.Connect(func(v int) { calls++ })
	s.Emit(0)
	if calls != 1 {
		t.Fatalf("listener disconnected mid-dispatch still ran\nhave %d calls\nwant 1", calls)
	}
	s.Emit(0)
	if calls != 2 {
		t.Fatalf("surviving listener should still fire on next Emit\nhave %d\nwant 2", calls)
	}
	c1.Disconnect()
	s.Emit(0)
	if calls != 2 {
		t.Fatalf("all listeners disconnected, Emit should be a no-op\nhave %d\nwant 2", calls)
	}
}

func TestSelfDisconnect(t *testing.T) {
	var s Signal[struct{}]
	var c *Conn[struct{}]
	fired := 0
	c = s.Connect(func(struct{}) {
		fired++
		c.Disconnect()
	})
	s.Emit(struct{}{})
	s.Emit(struct{}{})
	if fired != 1 {
		t.Fatalf("self-disconnecting listener fired %d times, want 1", fired)
	}
}

func TestLen(t *testing.T) {
	var s Signal[int]
	if s.Len() != 0 {
		t.Fatal("zero value Signal.Len: want 0")
	}
	c := s.Connect(func(int) {})
	s.Connect(func(int) {})
	if s.Len() != 2 {
		t.Fatalf("Signal.Len\nhave %d\nwant 2", s.Len())
	}
	c.Disconnect()
	if s.Len() != 1 {
		t.Fatalf("Signal.Len after Disconnect\nhave %d\nwant 1", s.Len())
	}
}
