// Package gesture turns one frame of hand landmarks into a drawing-mode verdict.
package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/airdraw/internal/detector"
)

// Verdict is the discrete mode derived from a single frame.
type Verdict int

const (
	// Idle means neither gesture is held; also the verdict for an absent hand.
	Idle Verdict = iota
	// Navigate is four fingers up and spread with the thumb tucked.
	Navigate
	// Draw is a closed fist with the thumb raised clear of the fingers.
	Draw
)

func (v Verdict) String() string {
	switch v {
	case Navigate:
		return "navigate"
	case Draw:
		return "draw"
	default:
		return "idle"
	}
}

// Thresholds, as multiples of the hand size.
const (
	ThumbSeparation = 0.4
	ThumbExtension  = 0.5
	FingerSpread    = 0.2
)

// minHandSize guards against a collapsed hand producing infinite ratios.
const minHandSize = 1e-6

var thumbJoints = []int{detector.ThumbTip, detector.ThumbIP, detector.ThumbMCP}

// fingers pairs each fingertip with its knuckle.
var fingers = [][2]int{
	{detector.IndexTip, detector.IndexMCP},
	{detector.MiddleTip, detector.MiddleMCP},
	{detector.RingTip, detector.RingMCP},
	{detector.PinkyTip, detector.PinkyMCP},
}

// Classify returns the verdict for hand. A nil hand is Idle.
// Navigate is checked first and wins whenever it holds.
func Classify(hand *detector.HandLandmarks) Verdict {
	if hand == nil {
		return Idle
	}

	size := hand.HandSize()
	if size < minHandSize {
		return Idle
	}

	if isNavigate(hand, size) {
		return Navigate
	}
	if isDraw(hand, size) {
		return Draw
	}
	return Idle
}

func isNavigate(hand *detector.HandLandmarks, size float64) bool {
	p := hand.Points

	minKnuckleY := math.Inf(1)
	for _, f := range fingers {
		tip, mcp := p[f[0]], p[f[1]]
		if tip.Y >= mcp.Y {
			return false
		}
		minKnuckleY = math.Min(minKnuckleY, mcp.Y)
	}

	if p[detector.ThumbTip].Y <= minKnuckleY {
		return false
	}

	spread := math.Abs(p[detector.IndexTip].X-p[detector.PinkyTip].X) / size
	return spread > FingerSpread
}

func isDraw(hand *detector.HandLandmarks, size float64) bool {
	p := hand.Points

	separation := math.Inf(1)
	for _, t := range thumbJoints {
		thumb := vec(p[t])
		for j := detector.IndexMCP; j <= detector.PinkyTip; j++ {
			d := r2.Norm(r2.Sub(thumb, vec(p[j])))
			separation = math.Min(separation, d)
		}
	}
	if separation/size <= ThumbSeparation {
		return false
	}

	extension := r2.Norm(r2.Sub(vec(p[detector.ThumbTip]), vec(p[detector.ThumbMCP])))
	return extension/size > ThumbExtension
}

func vec(p detector.Point3D) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}
