// Package space wraps geom's untagged primitives in a phantom-tagged
// newtype, so that a Rect in parameter space and a Rect in device space are
// different Go types and cannot be mixed by accident. Crossing from one
// space to another requires going through a Mapping.
package space

// Tag is implemented only by Parameter, Layer, and Device. It exists purely
// to restrict the type parameter on the generic wrappers below; no value of
// any Tag type is ever constructed.
type Tag interface {
	spaceTag()
}

// Parameter tags the caller's local coordinates at filter invocation.
type Parameter struct{}

func (Parameter) spaceTag() {}

// Layer tags the coordinate frame in which filter computation is performed.
type Layer struct{}

func (Layer) spaceTag() {}

// Device tags the coordinate frame of the ultimate target surface.
type Device struct{}

func (Device) spaceTag() {}
