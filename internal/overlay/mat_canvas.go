package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// MatCanvas paints onto a gocv Mat. Clear restores the canvas to its base
// frame, so the composited output is always "latest video frame plus latest
// skeleton" with nothing carried over between renders.
type MatCanvas struct {
	base gocv.Mat
	mat  gocv.Mat
}

// NewMatCanvas creates a canvas sized to the given frame dimensions, with a
// black base frame until SetBase is called.
func NewMatCanvas(width, height int) *MatCanvas {
	return &MatCanvas{
		base: gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
		mat:  gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
	}
}

// SetBase replaces the base frame that Clear restores. The frame is copied;
// the caller keeps ownership of src.
func (c *MatCanvas) SetBase(src *gocv.Mat) {
	src.CopyTo(&c.base)
}

// Mat exposes the composited result for streaming. The Mat stays owned by
// the canvas.
func (c *MatCanvas) Mat() *gocv.Mat {
	return &c.mat
}

// Size returns the canvas pixel dimensions.
func (c *MatCanvas) Size() (int, int) {
	return c.mat.Cols(), c.mat.Rows()
}

// Clear restores the canvas to the base frame.
func (c *MatCanvas) Clear() {
	c.base.CopyTo(&c.mat)
}

// StrokeLines draws all segments with the given color and thickness.
func (c *MatCanvas) StrokeLines(segments []Segment, col color.RGBA, thickness int) {
	for _, s := range segments {
		gocv.Line(&c.mat, s.From, s.To, col, thickness)
	}
}

// FillCircle draws a filled circular marker.
func (c *MatCanvas) FillCircle(center image.Point, radius int, col color.RGBA) {
	gocv.Circle(&c.mat, center, radius, col, -1)
}

// Close releases the underlying Mats.
func (c *MatCanvas) Close() {
	c.base.Close()
	c.mat.Close()
}
