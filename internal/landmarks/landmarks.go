// Package landmarks defines the fixed 21-point hand model and the per-frame
// result types produced by inference.
package landmarks

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumConnections is the number of skeleton edges drawn per hand.
const NumConnections = 22

// Connection is a pair of landmark indices joined by a skeleton edge.
type Connection struct {
	A, B int
}

// Connections is the static edge set of the hand skeleton: the four joints of
// each finger, the thumb, and the palm outline plus the wrist-to-middle
// spine. Never mutated.
var Connections = [NumConnections]Connection{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
	{Wrist, PinkyMCP}, {Wrist, MiddleMCP},
}

// Point is a single tracked point with coordinates normalized to [0,1]
// relative to the source frame width and height.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Hand is an ordered sequence of landmarks for one detected hand, addressed
// by the index constants above. A full hand has NumLandmarks entries;
// consumers must tolerate shorter sequences.
type Hand []Point

// Complete reports whether the hand carries the full landmark set.
func (h Hand) Complete() bool {
	return len(h) >= NumLandmarks
}

// Result is the parsed outcome of one inference round-trip. It is transient:
// each frame's result fully replaces the prior one and nothing is persisted.
type Result struct {
	Success   bool   `json:"success"`
	HandCount int    `json:"hand_count"`
	Hands     []Hand `json:"landmarks"`
	Err       string `json:"error,omitempty"`
}
