package tool

import (
	"image/color"
	"testing"
)

func TestParseTool(t *testing.T) {
	for _, tl := range All {
		got, err := ParseTool(tl.String())
		if err != nil {
			t.Errorf("unexpected error for %v: %v", tl, err)
		}
		if got != tl {
			t.Errorf("expected %v, got %v", tl, got)
		}
	}

	if _, err := ParseTool("spray"); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestTool_Kinds(t *testing.T) {
	for _, tl := range All {
		if tl.IsFreehand() == tl.IsShape() {
			t.Errorf("%v must be exactly one of freehand or shape", tl)
		}
	}
	if len(Shapes) != 5 {
		t.Errorf("expected 5 shape tools, got %d", len(Shapes))
	}
}

func TestConfig_StrokeWidth(t *testing.T) {
	cfg := Config{Tool: Eraser, PenWidth: 3, EraserWidth: 30}
	if cfg.StrokeWidth() != 30 {
		t.Errorf("expected eraser width 30, got %d", cfg.StrokeWidth())
	}
	cfg.Tool = Circle
	if cfg.StrokeWidth() != 3 {
		t.Errorf("expected pen width 3 for shapes, got %d", cfg.StrokeWidth())
	}
}

func TestColorRoundTrip(t *testing.T) {
	for i, c := range Palette {
		s := FormatColor(c)
		got, err := ParseColor(s)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", s, err)
		}
		if got != c {
			t.Errorf("swatch %d: expected %v, got %v", i, c, got)
		}
	}

	if FormatColor(color.RGBA{R: 0xff, G: 0xff, A: 0xff}) != "#ffff00" {
		t.Errorf("expected #ffff00, got %s", FormatColor(color.RGBA{R: 0xff, G: 0xff, A: 0xff}))
	}
	if _, err := ParseColor("red"); err == nil {
		t.Error("expected error for invalid colour")
	}
}
