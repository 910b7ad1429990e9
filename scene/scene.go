// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package scene provides a mutable scene graph, per-output damage
// tracking and the commit pipeline that drives a render.Backend.
package scene

import (
	"os"
	"time"

	"github.com/mecattaf/wlroots/internal/bitm"
	"github.com/mecattaf/wlroots/internal/region"
	"github.com/mecattaf/wlroots/internal/signal"
)

// Scene owns the node tree and the set of outputs it is presented on.
type Scene struct {
	root        *Tree
	outputs     []*Output // sorted by index
	outputIndex bitm.Bitm[uint64]

	debugMode  DebugDamageMode
	highlights []highlightRegion

	presentationFeedback PresentationFeedback
	pfConn               *signal.Conn[struct{}]
}

// New creates an empty scene, reading the WLR_SCENE_DEBUG_DAMAGE
// environment variable once to configure debug damage tracking.
// Grounded on wsi/init_linux.go's single-read, warn-on-unknown-value
// environment configuration style.
func New() *Scene {
	s := &Scene{}
	s.root = newRoot(s)
	if v, set := os.LookupEnv(debugDamageEnvVar); set {
		mode, ok := parseDebugDamageMode(v)
		if !ok {
			logf("unknown %s value %q, defaulting to none", debugDamageEnvVar, v)
		}
		s.debugMode = mode
	}
	return s
}

// Root returns the scene's root Tree. Every other node is, directly
// or transitively, one of its children.
func (s *Scene) Root() *Tree { return s.root }

// DebugMode returns the scene's current debug damage mode.
func (s *Scene) DebugMode() DebugDamageMode { return s.debugMode }

// PresentationFeedback is an optional external object a Scene can hold
// a cleared-on-destroy reference to.
type PresentationFeedback interface {
	OnDestroy(fn func()) *signal.Conn[struct{}]
}

// SetPresentationFeedback attaches pf to the scene, replacing and
// detaching from any previously attached feedback object. The
// reference is cleared automatically when pf is destroyed.
func (s *Scene) SetPresentationFeedback(pf PresentationFeedback) {
	if s.pfConn != nil {
		s.pfConn.Disconnect()
		s.pfConn = nil
	}
	s.presentationFeedback = pf
	if pf != nil {
		s.pfConn = pf.OnDestroy(func() {
			s.presentationFeedback = nil
			s.pfConn = nil
		})
	}
}

// PresentationFeedbackObject returns the scene's currently attached feedback
// object, or nil.
func (s *Scene) PresentationFeedbackObject() PresentationFeedback {
	return s.presentationFeedback
}

// destroySceneRoot tears down everything a Scene owns beyond its node
// tree: every attached Output, any pending highlight regions, and the
// presentation-feedback subscription.
func destroySceneRoot(s *Scene) {
	outs := append([]*Output(nil), s.outputs...)
	for _, o := range outs {
		o.Destroy()
	}
	s.highlights = nil
	if s.pfConn != nil {
		s.pfConn.Disconnect()
		s.pfConn = nil
	}
	s.presentationFeedback = nil
}

// DebugDamageMode controls extra damage-tracking diagnostics, read
// once from the WLR_SCENE_DEBUG_DAMAGE environment variable when a
// Scene is created.
type DebugDamageMode int

const (
	// DebugDamageNone performs normal, damage-clipped rendering.
	DebugDamageNone DebugDamageMode = iota

	// DebugDamageRerender disables the damage-clipping optimization:
	// every commit redraws the output's entire viewport, while damage
	// is still tracked and reported for diagnostic purposes.
	DebugDamageRerender

	// DebugDamageHighlight behaves like DebugDamageRerender and also
	// overlays fading translucent rectangles over the regions damaged
	// by recent frames.
	DebugDamageHighlight
)

const debugDamageEnvVar = "WLR_SCENE_DEBUG_DAMAGE"

func parseDebugDamageMode(s string) (DebugDamageMode, bool) {
	switch s {
	case "", "none":
		return DebugDamageNone, true
	case "rerender":
		return DebugDamageRerender, true
	case "highlight":
		return DebugDamageHighlight, true
	default:
		return DebugDamageNone, false
	}
}

// highlightRegion is one fading damage-visualization snapshot queued
// on a specific output, in that output's physical pixel space, and the
// wall-clock time it was captured.
type highlightRegion struct {
	out       *Output
	region    region.Region
	timestamp time.Time
}

// highlightMaxAge is how long a debug-highlight region is drawn before
// it is dropped, per spec's 250ms decay window.
const highlightMaxAge = 250 * time.Millisecond
