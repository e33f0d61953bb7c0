// Package ui lays out the virtual controls drawn over the canvas, resolves
// pointer positions against them and renders the heads-up display.
package ui

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/airdraw/internal/cursor"
	"github.com/ayusman/airdraw/internal/tool"
)

// Circle is a round target hit when the pointer is strictly inside it.
type Circle struct {
	X, Y, R float64
}

// Contains reports whether p lies inside c.
func (c Circle) Contains(p cursor.Point) bool {
	return r2.Norm(r2.Sub(r2.Vec{X: p.X, Y: p.Y}, r2.Vec{X: c.X, Y: c.Y})) < c.R
}

// Box is a rectangular target. Its edges are inclusive.
type Box struct {
	X, Y, W, H float64
}

// Contains reports whether p lies within b.
func (b Box) Contains(p cursor.Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Track is a horizontal slider track at height Y accepting the pointer up
// to Tolerance pixels above or below it.
type Track struct {
	X, Y, W   float64
	Tolerance float64
}

// Contains reports whether p is over the track.
func (t Track) Contains(p cursor.Point) bool {
	return p.X >= t.X && p.X <= t.X+t.W && p.Y >= t.Y-t.Tolerance && p.Y <= t.Y+t.Tolerance
}

// Pos returns the position of p along the track in [0,1].
func (t Track) Pos(p cursor.Point) float64 {
	return (p.X - t.X) / t.W
}

// ToolButton is a tool selector in the open menu.
type ToolButton struct {
	Tool tool.Tool
	Box  Box
}

// Layout is the position of every virtual control.
type Layout struct {
	Undo, Redo Circle
	Swatches   []Circle

	OpenMenu  Box
	CloseMenu Box

	Tools        []ToolButton
	PenToggle    Box
	EraserToggle Box
	PenTrack     Track
	EraserTrack  Track
}

const (
	buttonSize  = 30.0
	swatchR     = 12.0
	menuX       = 60.0
	menuY       = 10.0
	toolX       = menuX + 15
	toggleX     = menuX + 55
	rowSpacing  = 45.0
	trackWidth  = 180.0
	trackMargin = 10.0
)

// NewLayout computes the control layout for a surface of the given height.
// Only the open-menu button depends on the height.
func NewLayout(height int) Layout {
	l := Layout{
		Undo:      Circle{X: 27, Y: 27, R: swatchR},
		Redo:      Circle{X: 57, Y: 27, R: swatchR},
		OpenMenu:  Box{X: menuX, Y: float64(height) / 2, W: buttonSize, H: buttonSize},
		CloseMenu: Box{X: menuX + 40, Y: menuY + 50, W: buttonSize, H: buttonSize},
	}

	for i := range tool.Palette {
		l.Swatches = append(l.Swatches, Circle{X: 15, Y: 50 + 40*float64(i), R: swatchR})
	}

	penY := menuY + 100
	eraserY := penY + rowSpacing
	l.Tools = append(l.Tools,
		ToolButton{Tool: tool.Pen, Box: Box{X: toolX, Y: penY, W: buttonSize, H: buttonSize}},
		ToolButton{Tool: tool.Eraser, Box: Box{X: toolX, Y: eraserY, W: buttonSize, H: buttonSize}},
	)
	l.PenToggle = Box{X: toggleX, Y: penY, W: buttonSize, H: buttonSize}
	l.EraserToggle = Box{X: toggleX, Y: eraserY, W: buttonSize, H: buttonSize}
	l.PenTrack = Track{X: toggleX, Y: penY + buttonSize/2, W: trackWidth, Tolerance: trackMargin}
	l.EraserTrack = Track{X: toggleX, Y: eraserY + buttonSize/2, W: trackWidth, Tolerance: trackMargin}

	y := eraserY + rowSpacing*1.5
	for _, t := range tool.Shapes {
		l.Tools = append(l.Tools, ToolButton{Tool: t, Box: Box{X: toolX, Y: y, W: buttonSize, H: buttonSize}})
		y += rowSpacing
	}

	return l
}

// HitTest resolves p against the controls visible in state v. History buttons
// win over swatches, swatches over the menu toggle, and the menu toggle over
// the controls inside the menu. It reports false when no control is hit.
func (l Layout) HitTest(p cursor.Point, v tool.View) (tool.Hit, bool) {
	switch {
	case l.Undo.Contains(p):
		return tool.Hit{Kind: tool.HitUndo}, true
	case l.Redo.Contains(p):
		return tool.Hit{Kind: tool.HitRedo}, true
	}

	for i, s := range l.Swatches {
		if s.Contains(p) {
			return tool.Hit{Kind: tool.HitColor, Color: i}, true
		}
	}

	if !v.MenuOpen {
		if l.OpenMenu.Contains(p) {
			return tool.Hit{Kind: tool.HitOpenMenu}, true
		}
		return tool.Hit{}, false
	}
	if l.CloseMenu.Contains(p) {
		return tool.Hit{Kind: tool.HitCloseMenu}, true
	}

	for _, b := range l.Tools {
		if b.Box.Contains(p) {
			return tool.Hit{Kind: tool.HitSelectTool, Tool: b.Tool}, true
		}
	}

	// An expanded slider sits on top of its row's toggle.
	switch {
	case v.Expanded == tool.SliderPen && l.PenTrack.Contains(p):
		return tool.Hit{Kind: tool.HitSetWidth, Slider: tool.SliderPen, Pos: l.PenTrack.Pos(p)}, true
	case v.Expanded == tool.SliderEraser && l.EraserTrack.Contains(p):
		return tool.Hit{Kind: tool.HitSetWidth, Slider: tool.SliderEraser, Pos: l.EraserTrack.Pos(p)}, true
	case l.PenToggle.Contains(p):
		return tool.Hit{Kind: tool.HitToggleSlider, Slider: tool.SliderPen}, true
	case l.EraserToggle.Contains(p):
		return tool.Hit{Kind: tool.HitToggleSlider, Slider: tool.SliderEraser}, true
	}

	return tool.Hit{}, false
}
