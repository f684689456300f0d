// Package evalctx bundles the state that is threaded, unmodified, through
// an entire FilterResult evaluation: the current Mapping, the desired
// output rectangle a node has been asked to produce, the Backend that will
// materialize any offscreen surfaces, the target color space, and the
// Backend's own stats sink.
package evalctx

import (
	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/space"
)

// Context is an immutable per-evaluation bundle. Every FilterResult
// operation that needs to cross into layer or device space, allocate a
// surface, or record a stat does so through one of these.
//
// Context values are cheap to copy and are never mutated in place;
// WithMapping and WithDesiredOutput return a new Context sharing the same
// Backend and stats sink, which is the only genuinely mutable state a
// Context ever touches.
type Context struct {
	mapping       space.Mapping
	desiredOutput space.IRect[space.Layer]
	backend       backend.Backend
	colorSpace    backend.ColorSpace
}

// New builds a Context for a fresh evaluation rooted at mapping, producing
// desiredOutput in colorSpace through be.
func New(mapping space.Mapping, desiredOutput space.IRect[space.Layer], be backend.Backend, colorSpace backend.ColorSpace) *Context {
	return &Context{
		mapping:       mapping,
		desiredOutput: desiredOutput,
		backend:       be,
		colorSpace:    colorSpace,
	}
}

// Mapping returns the context's parameter/layer/device coordinate bridge.
func (c *Context) Mapping() space.Mapping { return c.mapping }

// DesiredOutput returns the layer-space rectangle the current node has been
// asked to produce.
func (c *Context) DesiredOutput() space.IRect[space.Layer] { return c.desiredOutput }

// Backend returns the backend used to allocate surfaces and decode cached
// bitmaps for this evaluation.
func (c *Context) Backend() backend.Backend { return c.backend }

// ColorSpace returns the target color space this evaluation renders into.
func (c *Context) ColorSpace() backend.ColorSpace { return c.colorSpace }

// Stats returns the shared stats sink every node in this evaluation records
// into. It is the same *Stats instance as c.Backend().Stats(): the context
// doesn't keep a second counter set, it just gives pipeline code a place to
// reach the backend's from without threading the backend itself everywhere
// a stat needs recording.
func (c *Context) Stats() *backend.Stats { return c.backend.Stats() }

// WithMapping returns a Context identical to c but evaluating under a new
// Mapping, e.g. after DecomposeCTM or AdjustLayerSpace folds a node's own
// transform into the pipeline.
func (c *Context) WithMapping(mapping space.Mapping) *Context {
	next := *c
	next.mapping = mapping
	return &next
}

// WithDesiredOutput returns a Context identical to c but asking a child
// node to produce a different layer-space rectangle.
func (c *Context) WithDesiredOutput(desiredOutput space.IRect[space.Layer]) *Context {
	next := *c
	next.desiredOutput = desiredOutput
	return &next
}
