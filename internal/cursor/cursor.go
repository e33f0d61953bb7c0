// Package cursor maps the index fingertip to surface pixels and stabilises it.
package cursor

import (
	"math"

	"github.com/ayusman/airdraw/internal/detector"
)

// Alpha is the weight of the newest sample in the exponential filter.
const Alpha = 0.6

// Point is a position in surface pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FromLandmark scales a normalized landmark to a surface of the given size.
func FromLandmark(p detector.Point3D, width, height int) Point {
	return Point{X: p.X * float64(width), Y: p.Y * float64(height)}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Smoother is a per-axis exponential low-pass filter. The zero value is ready
// to use and unseeded.
type Smoother struct {
	prev   Point
	seeded bool
}

// NewSmoother creates an unseeded Smoother.
func NewSmoother() *Smoother {
	return &Smoother{}
}

// Smooth filters raw. The first call after construction or Reset returns raw
// unchanged and seeds the filter.
func (s *Smoother) Smooth(raw Point) Point {
	if !s.seeded {
		s.prev = raw
		s.seeded = true
		return raw
	}
	s.prev = Point{
		X: s.prev.X + (raw.X-s.prev.X)*Alpha,
		Y: s.prev.Y + (raw.Y-s.prev.Y)*Alpha,
	}
	return s.prev
}

// Reset drops the filter state so the next sample reseeds it.
func (s *Smoother) Reset() {
	s.prev = Point{}
	s.seeded = false
}

// Seeded reports whether the filter holds a previous sample.
func (s *Smoother) Seeded() bool {
	return s.seeded
}
