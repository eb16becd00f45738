// Package overlay renders hand skeletons into pixel space on top of the
// live video frames.
package overlay

import (
	"image"
	"image/color"
)

// Segment is one stroked skeleton edge in pixel coordinates.
type Segment struct {
	From, To image.Point
}

// Canvas is the drawing surface the renderer paints on. Implementations are
// not required to be safe for concurrent use; the tracker serializes all
// renders.
type Canvas interface {
	// Size returns the canvas pixel dimensions.
	Size() (width, height int)

	// Clear wipes the canvas back to its base state.
	Clear()

	// StrokeLines draws every segment with one color and thickness.
	StrokeLines(segments []Segment, c color.RGBA, thickness int)

	// FillCircle draws a filled circular marker.
	FillCircle(center image.Point, radius int, c color.RGBA)
}
