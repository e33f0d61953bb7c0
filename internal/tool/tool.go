// Package tool holds the active drawing tool, colour and stroke widths along
// with the visibility state of the virtual tool menu.
package tool

import (
	"fmt"
	"image/color"
)

// Tool is the active drawing tool.
type Tool int

const (
	Pen Tool = iota
	Eraser
	Line
	Rectangle
	Square
	Triangle
	Circle
)

// All lists every tool in menu order.
var All = []Tool{Pen, Eraser, Line, Rectangle, Square, Triangle, Circle}

// Shapes lists the shape tools in menu order.
var Shapes = []Tool{Line, Rectangle, Square, Triangle, Circle}

var toolNames = map[Tool]string{
	Pen:       "pen",
	Eraser:    "eraser",
	Line:      "line",
	Rectangle: "rectangle",
	Square:    "square",
	Triangle:  "triangle",
	Circle:    "circle",
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// ParseTool returns the tool with the given name.
func ParseTool(name string) (Tool, error) {
	for t, n := range toolNames {
		if n == name {
			return t, nil
		}
	}
	return Pen, fmt.Errorf("unknown tool %q", name)
}

// Valid reports whether t is one of the defined tools.
func (t Tool) Valid() bool {
	_, ok := toolNames[t]
	return ok
}

// IsFreehand reports whether t paints along the path of the pointer.
func (t Tool) IsFreehand() bool {
	return t == Pen || t == Eraser
}

// IsShape reports whether t draws a shape from the gesture start point.
func (t Tool) IsShape() bool {
	return t.Valid() && !t.IsFreehand()
}

// Width limits.
const (
	MinPenWidth    = 1
	MaxPenWidth    = 20
	MinEraserWidth = 5
	MaxEraserWidth = 50
)

// Palette holds the selectable stroke colours in swatch order.
var Palette = []color.RGBA{
	{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xff, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xff, B: 0x00, A: 0xff},
}

// Config is the tool configuration read by the stroke engine each frame.
type Config struct {
	Tool        Tool
	Color       color.RGBA
	PenWidth    int
	EraserWidth int
}

// DefaultConfig returns a black pen of width 5 with a 20 pixel eraser.
func DefaultConfig() Config {
	return Config{
		Tool:        Pen,
		Color:       Palette[0],
		PenWidth:    5,
		EraserWidth: 20,
	}
}

// Validate checks that every field is in range.
func (c Config) Validate() error {
	if !c.Tool.Valid() {
		return fmt.Errorf("invalid tool %d", int(c.Tool))
	}
	if c.PenWidth < MinPenWidth || c.PenWidth > MaxPenWidth {
		return fmt.Errorf("pen width %d out of range [%d,%d]", c.PenWidth, MinPenWidth, MaxPenWidth)
	}
	if c.EraserWidth < MinEraserWidth || c.EraserWidth > MaxEraserWidth {
		return fmt.Errorf("eraser width %d out of range [%d,%d]", c.EraserWidth, MinEraserWidth, MaxEraserWidth)
	}
	return nil
}

// StrokeWidth returns the width the active tool draws with. Shapes use the
// pen width.
func (c Config) StrokeWidth() int {
	if c.Tool == Eraser {
		return c.EraserWidth
	}
	return c.PenWidth
}

// ColorIndex returns the palette index of the current colour, or -1.
func (c Config) ColorIndex() int {
	for i, p := range Palette {
		if p == c.Color {
			return i
		}
	}
	return -1
}

// FormatColor renders c as #rrggbb.
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses a #rrggbb string.
func ParseColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if len(s) != 7 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
