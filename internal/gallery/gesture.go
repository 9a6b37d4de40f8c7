package gallery

import "math"

// Point is a 2D position or offset in screen pixels.
type Point struct {
	X float64
	Y float64
}

// SwipeThreshold is the minimum horizontal displacement, in pixels, for a
// single-finger swipe to count as a navigation gesture.
const SwipeThreshold = 40

// Zoom clamp bounds for the pinch gesture.
const (
	MinZoom = 1.0
	MaxZoom = 3.0
)

type gestureMode int

const (
	gestureIdle gestureMode = iota
	gestureSwipe
	gesturePinch
)

// pinchOrigin captures the two-finger touch-start snapshot the pinch is
// computed against.
type pinchOrigin struct {
	dist   float64
	scale  float64
	center Point
}

// gestureState interprets one touch-event stream. The mode is decided once,
// at touch-start, by the simultaneous touch count — swipe and pinch share
// the stream but never each other's state, so residue from one gesture
// cannot leak into the other.
type gestureState struct {
	mode       gestureMode
	swipeStart Point
	pinch      pinchOrigin
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func clampZoom(s float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, s))
}
