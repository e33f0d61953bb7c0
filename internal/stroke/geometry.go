package stroke

import (
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/airdraw/internal/cursor"
	"github.com/ayusman/airdraw/internal/tool"
)

// SegmentKind is the type of one step of a path.
type SegmentKind int

const (
	MoveTo SegmentKind = iota
	QuadTo
	LineTo
)

// Segment is one step of a path. Ctrl is only used by QuadTo.
type Segment struct {
	Kind SegmentKind
	Ctrl cursor.Point
	To   cursor.Point
}

// SmoothPath turns sampled points into a curve through the midpoints of
// consecutive samples, each sample acting as the control point of the curve
// that bends around it. Fewer than two points yield no path.
func SmoothPath(points []cursor.Point) []Segment {
	if len(points) < 2 {
		return nil
	}

	segs := make([]Segment, 0, len(points))
	segs = append(segs, Segment{Kind: MoveTo, To: points[0]})
	for i := 1; i < len(points)-1; i++ {
		segs = append(segs, Segment{
			Kind: QuadTo,
			Ctrl: points[i],
			To:   points[i].Mid(points[i+1]),
		})
	}
	segs = append(segs, Segment{Kind: LineTo, To: points[len(points)-1]})
	return segs
}

func tracePath(dc *gg.Context, segs []Segment) {
	for _, s := range segs {
		switch s.Kind {
		case MoveTo:
			dc.MoveTo(s.To.X, s.To.Y)
		case QuadTo:
			dc.QuadraticTo(s.Ctrl.X, s.Ctrl.Y, s.To.X, s.To.Y)
		case LineTo:
			dc.LineTo(s.To.X, s.To.Y)
		}
	}
}

// Rect is an axis-aligned box anchored at (X, Y). W and H carry the sign of
// the drag direction.
type Rect struct {
	X, Y, W, H float64
}

// RectFrom returns the box with start and cur as opposite corners.
func RectFrom(start, cur cursor.Point) Rect {
	return Rect{X: start.X, Y: start.Y, W: cur.X - start.X, H: cur.Y - start.Y}
}

// SquareFrom returns the largest square anchored at start that fits inside
// RectFrom(start, cur), extending in the drag direction on each axis.
func SquareFrom(start, cur cursor.Point) Rect {
	dx, dy := cur.X-start.X, cur.Y-start.Y
	side := math.Min(math.Abs(dx), math.Abs(dy))
	return Rect{X: start.X, Y: start.Y, W: side * sign(dx), H: side * sign(dy)}
}

// TriangleFrom returns the vertices in drawing order: start, the apex at cur,
// and start mirrored across the vertical through start at cur's height.
func TriangleFrom(start, cur cursor.Point) [3]cursor.Point {
	mirror := cursor.Point{X: start.X - (cur.X - start.X), Y: cur.Y}
	return [3]cursor.Point{start, cur, mirror}
}

// CircleFrom returns a circle centred at start passing through cur.
func CircleFrom(start, cur cursor.Point) (center cursor.Point, radius float64) {
	d := r2.Sub(r2.Vec{X: cur.X, Y: cur.Y}, r2.Vec{X: start.X, Y: start.Y})
	return start, r2.Norm(d)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// traceShape adds the outline of shape t from start to cur to the current path.
func traceShape(dc *gg.Context, t tool.Tool, start, cur cursor.Point) {
	switch t {
	case tool.Line:
		dc.MoveTo(start.X, start.Y)
		dc.LineTo(cur.X, cur.Y)
	case tool.Rectangle:
		r := RectFrom(start, cur)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	case tool.Square:
		r := SquareFrom(start, cur)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	case tool.Triangle:
		v := TriangleFrom(start, cur)
		dc.MoveTo(v[0].X, v[0].Y)
		dc.LineTo(v[1].X, v[1].Y)
		dc.LineTo(v[2].X, v[2].Y)
		dc.ClosePath()
	case tool.Circle:
		c, r := CircleFrom(start, cur)
		dc.DrawCircle(c.X, c.Y, r)
	case tool.Pen, tool.Eraser:
		// Freehand tools have no shape outline.
	}
}
