// Package stroke turns a stream of cursor positions into marks on the drawing
// surfaces: freehand strokes committed live and shapes previewed until the
// gesture ends.
package stroke

import (
	"github.com/fogleman/gg"

	"github.com/ayusman/airdraw/internal/cursor"
	"github.com/ayusman/airdraw/internal/history"
	"github.com/ayusman/airdraw/internal/surface"
	"github.com/ayusman/airdraw/internal/tool"
)

// Session is the state of one continuous drawing gesture. A new Session,
// with a fresh smoother, is created for every gesture.
type Session struct {
	Start  cursor.Point
	Last   cursor.Point
	Points []cursor.Point
	// Config is the tool configuration captured when the gesture began.
	Config tool.Config

	frames   int
	smoother cursor.Smoother
}

// Engine renders gestures onto a persistent and a preview surface and records
// every completed gesture in the history.
type Engine struct {
	persistent *surface.Surface
	preview    *surface.Surface
	history    *history.Manager
	session    *Session
}

// NewEngine creates an Engine drawing committed marks to persistent and shape
// previews to preview.
func NewEngine(persistent, preview *surface.Surface, h *history.Manager) *Engine {
	return &Engine{
		persistent: persistent,
		preview:    preview,
		history:    h,
	}
}

// Active reports whether a gesture is in progress.
func (e *Engine) Active() bool {
	return e.session != nil
}

// Session returns a copy of the in-progress session.
func (e *Engine) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	s := *e.session
	s.Points = append([]cursor.Point(nil), e.session.Points...)
	return s, true
}

// Track feeds one raw cursor sample of a drawing gesture and returns the
// smoothed position. The first sample starts a session using cfg; later
// samples keep the configuration captured then.
func (e *Engine) Track(raw cursor.Point, cfg tool.Config) cursor.Point {
	s := e.session
	if s == nil {
		s = &Session{Config: cfg}
		p := s.smoother.Smooth(raw)
		s.Start = p
		s.Last = p
		e.session = s
		e.preview.Clear()
	} else {
		s.Last = s.smoother.Smooth(raw)
	}

	if s.Config.Tool.IsFreehand() {
		e.extendFreehand(s)
	} else {
		e.preview.Clear()
		e.preview.Stroke(shapePen(s.Config), func(dc *gg.Context) {
			traceShape(dc, s.Config.Tool, s.Start, s.Last)
		})
	}
	return s.Last
}

func (e *Engine) extendFreehand(s *Session) {
	if s.frames%2 == 0 {
		s.Points = append(s.Points, s.Last)
	}
	s.frames++

	if len(s.Points) < 2 {
		return
	}
	segs := SmoothPath(s.Points)
	e.persistent.Stroke(freehandPen(s.Config), func(dc *gg.Context) {
		tracePath(dc, segs)
	})
}

// Release ends the gesture. Shapes are drawn onto the persistent surface at
// the last tracked position and the preview is cleared. A history entry is
// pushed for the result. Release reports whether a gesture was committed.
func (e *Engine) Release() bool {
	s := e.session
	if s == nil {
		return false
	}
	e.session = nil

	if s.Config.Tool.IsShape() {
		e.persistent.Stroke(shapePen(s.Config), func(dc *gg.Context) {
			traceShape(dc, s.Config.Tool, s.Start, s.Last)
		})
	}
	e.preview.Clear()
	e.history.Push(history.NewEntry(e.persistent.Snapshot()))
	return true
}

// Abandon drops any gesture in progress without committing it. Marks already
// made by a freehand stroke are rolled back to the current history entry, so
// the persistent surface always matches history between gestures.
func (e *Engine) Abandon() {
	s := e.session
	e.session = nil
	e.preview.Clear()
	if s != nil && s.Config.Tool.IsFreehand() && len(s.Points) >= 2 {
		e.persistent.Restore(e.history.Current().Image())
	}
}

func shapePen(cfg tool.Config) surface.Pen {
	return surface.Pen{Color: cfg.Color, Width: float64(cfg.PenWidth)}
}

func freehandPen(cfg tool.Config) surface.Pen {
	switch cfg.Tool {
	case tool.Eraser:
		return surface.Pen{Width: float64(cfg.EraserWidth), Erase: true}
	default:
		return surface.Pen{Color: cfg.Color, Width: float64(cfg.PenWidth)}
	}
}
