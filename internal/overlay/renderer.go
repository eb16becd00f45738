package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/ayusman/mudra/internal/landmarks"
)

// Style controls the fixed drawing parameters of the skeleton overlay.
type Style struct {
	LineColor   color.RGBA
	LineWidth   int
	MarkerColor color.RGBA
	// MarkerRadius is used for landmarks 1-20; WristRadius for landmark 0.
	// WristRadius must be strictly larger so the palm anchor stands out.
	MarkerRadius int
	WristRadius  int
}

// DefaultStyle returns the stock green-skeleton / red-joint look.
func DefaultStyle() Style {
	return Style{
		LineColor:    color.RGBA{R: 0, G: 200, B: 83, A: 255},
		LineWidth:    2,
		MarkerColor:  color.RGBA{R: 233, G: 30, B: 99, A: 255},
		MarkerRadius: 4,
		WristRadius:  7,
	}
}

// Renderer draws hand skeletons. It holds no frame-to-frame state: every
// Render call fully replaces the prior visual state of the canvas.
type Renderer struct {
	style Style
}

// NewRenderer creates a Renderer with the given style. Zero-valued radii and
// widths fall back to the defaults.
func NewRenderer(style Style) *Renderer {
	def := DefaultStyle()
	if style.LineWidth <= 0 {
		style.LineWidth = def.LineWidth
	}
	if style.MarkerRadius <= 0 {
		style.MarkerRadius = def.MarkerRadius
	}
	if style.WristRadius <= style.MarkerRadius {
		style.WristRadius = style.MarkerRadius + 3
	}
	if style.LineColor == (color.RGBA{}) {
		style.LineColor = def.LineColor
	}
	if style.MarkerColor == (color.RGBA{}) {
		style.MarkerColor = def.MarkerColor
	}
	return &Renderer{style: style}
}

// Style returns the effective drawing style.
func (r *Renderer) Style() Style {
	return r.style
}

// Render clears the canvas and draws every hand. An empty hand list leaves
// the canvas blank, which is how "no hand detected" is shown. Hands are
// painted in input order with no z-ordering beyond paint order.
func (r *Renderer) Render(canvas Canvas, hands []landmarks.Hand) {
	canvas.Clear()

	width, height := canvas.Size()
	for _, hand := range hands {
		r.drawHand(canvas, hand, width, height)
	}
}

func (r *Renderer) drawHand(canvas Canvas, hand landmarks.Hand, width, height int) {
	points := make([]image.Point, len(hand))
	for i, lm := range hand {
		points[i] = mapToPixels(lm, width, height)
	}

	// All skeleton edges of one hand go out as a single stroke batch. An
	// edge is skipped only when the hand is shorter than expected and one
	// of its endpoints is missing.
	segments := make([]Segment, 0, landmarks.NumConnections)
	for _, c := range landmarks.Connections {
		if c.A >= len(points) || c.B >= len(points) {
			continue
		}
		segments = append(segments, Segment{From: points[c.A], To: points[c.B]})
	}
	canvas.StrokeLines(segments, r.style.LineColor, r.style.LineWidth)

	for i, p := range points {
		radius := r.style.MarkerRadius
		if i == landmarks.Wrist {
			radius = r.style.WristRadius
		}
		canvas.FillCircle(p, radius, r.style.MarkerColor)
	}
}

// mapToPixels converts a normalized landmark to canvas pixel space via
// (x*width, y*height), rounded to the nearest pixel.
func mapToPixels(p landmarks.Point, width, height int) image.Point {
	return image.Point{
		X: int(math.Round(p.X * float64(width))),
		Y: int(math.Round(p.Y * float64(height))),
	}
}
