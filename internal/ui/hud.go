package ui

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/tool"
)

var (
	panelFill   = color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xf2}
	buttonFill  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xf2}
	iconStroke  = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	tickFill    = color.RGBA{A: 0x4c}
	trackFill   = color.RGBA{A: 0x1a}
	handleEdge  = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	labelFill   = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	disabledArr = color.RGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}

	// SkeletonDrawing and SkeletonIdle colour the hand overlay.
	SkeletonDrawing = color.RGBA{G: 0x80, A: 0x80}
	SkeletonIdle    = color.RGBA{R: 0x80, A: 0x80}
)

var (
	faceOnce sync.Once
	faces    map[float64]font.Face
	faceErr  error
	faceMu   sync.Mutex
	monoFont *truetype.Font
)

// fontFace returns a cached Go Mono face of the given size.
func fontFace(size float64) (font.Face, error) {
	faceOnce.Do(func() {
		monoFont, faceErr = truetype.Parse(gomono.TTF)
		faces = make(map[float64]font.Face)
	})
	if faceErr != nil {
		return nil, fmt.Errorf("parse font: %w", faceErr)
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f := truetype.NewFace(monoFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	faces[size] = f
	return f, nil
}

// HistoryState tells the HUD which history buttons are usable.
type HistoryState struct {
	CanUndo bool
	CanRedo bool
}

// DrawControls renders the virtual controls for state v.
func (l Layout) DrawControls(dc *gg.Context, v tool.View, hs HistoryState) {
	l.drawSwatches(dc, v.Config)
	l.drawHistoryButtons(dc, hs)

	if !v.MenuOpen {
		b := l.OpenMenu
		roundedButton(dc, b, buttonFill)
		dc.SetColor(iconStroke)
		dc.SetLineWidth(2)
		dc.DrawLine(b.X+8, b.Y+15, b.X+22, b.Y+15)
		dc.MoveTo(b.X+17, b.Y+10)
		dc.LineTo(b.X+22, b.Y+15)
		dc.LineTo(b.X+17, b.Y+20)
		dc.Stroke()
		return
	}

	b := l.CloseMenu
	roundedButton(dc, b, panelFill)
	dc.SetColor(iconStroke)
	dc.SetLineWidth(2)
	dc.DrawLine(b.X+22, b.Y+15, b.X+8, b.Y+15)
	dc.MoveTo(b.X+13, b.Y+10)
	dc.LineTo(b.X+8, b.Y+15)
	dc.LineTo(b.X+13, b.Y+20)
	dc.Stroke()

	for _, tb := range l.Tools {
		drawToolIcon(dc, tb, tb.Tool == v.Config.Tool)
	}

	if v.Expanded == tool.SliderPen {
		drawSlider(dc, l.PenTrack, v.Config.PenWidth, tool.SliderPen)
	} else {
		drawToggle(dc, l.PenToggle)
	}
	if v.Expanded == tool.SliderEraser {
		drawSlider(dc, l.EraserTrack, v.Config.EraserWidth, tool.SliderEraser)
	} else {
		drawToggle(dc, l.EraserToggle)
	}
}

func (l Layout) drawSwatches(dc *gg.Context, cfg tool.Config) {
	for i, s := range l.Swatches {
		dc.DrawCircle(s.X, s.Y, s.R)
		dc.SetColor(tool.Palette[i])
		dc.FillPreserve()
		if tool.Palette[i] == cfg.Color {
			dc.SetColor(color.Black)
			dc.SetLineWidth(2)
			dc.StrokePreserve()
		}
		dc.ClearPath()
	}
}

func (l Layout) drawHistoryButtons(dc *gg.Context, hs HistoryState) {
	arrow := func(c Circle, dir float64, enabled bool) {
		dc.DrawCircle(c.X, c.Y, c.R)
		dc.SetColor(buttonFill)
		dc.Fill()

		dc.SetColor(iconStroke)
		if !enabled {
			dc.SetColor(disabledArr)
		}
		dc.SetLineWidth(2)
		dc.MoveTo(c.X-4*dir, c.Y-4)
		dc.LineTo(c.X+4*dir, c.Y)
		dc.LineTo(c.X-4*dir, c.Y+4)
		dc.Stroke()
	}
	arrow(l.Undo, -1, hs.CanUndo)
	arrow(l.Redo, 1, hs.CanRedo)
}

func roundedButton(dc *gg.Context, b Box, fill color.Color) {
	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 10)
	dc.SetColor(fill)
	dc.Fill()
}

func drawToggle(dc *gg.Context, b Box) {
	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 5)
	dc.SetColor(panelFill)
	dc.FillPreserve()
	dc.SetColor(iconStroke)
	dc.SetLineWidth(2)
	dc.Stroke()

	for i := 0; i < 3; i++ {
		dc.DrawCircle(b.X+15-float64(i)*5, b.Y+15, 2)
	}
	dc.Fill()
}

func drawSlider(dc *gg.Context, t Track, value int, s tool.Slider) {
	lo, hi := s.Range()

	dc.DrawRoundedRectangle(t.X, t.Y, t.W, 4, 2)
	dc.SetColor(trackFill)
	dc.Fill()

	step := t.W / (tool.SliderSteps - 1)
	for i := 0; i < tool.SliderSteps; i++ {
		dc.DrawCircle(t.X+float64(i)*step, t.Y+2, 2)
	}
	dc.SetColor(tickFill)
	dc.Fill()

	hx := t.X + float64(value-lo)/float64(hi-lo)*t.W
	dc.DrawCircle(hx, t.Y+2, 8)
	dc.SetColor(color.White)
	dc.FillPreserve()
	dc.SetColor(handleEdge)
	dc.SetLineWidth(2)
	dc.Stroke()

	if face, err := fontFace(11); err == nil {
		dc.SetFontFace(face)
		dc.SetColor(labelFill)
		dc.DrawStringAnchored(fmt.Sprintf("%dpx", value), t.X+t.W+8, t.Y+2, 0, 0.35)
	}
}

func drawToolIcon(dc *gg.Context, tb ToolButton, selected bool) {
	b := tb.Box
	cx, cy := b.X+b.W/2, b.Y+b.H/2

	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 5)
	dc.SetColor(buttonFill)
	dc.Fill()

	dc.SetColor(iconStroke)
	dc.SetLineWidth(2)
	switch tb.Tool {
	case tool.Pen:
		dc.DrawLine(b.X+8, b.Y+22, b.X+22, b.Y+8)
		dc.Stroke()
		dc.DrawCircle(b.X+8, b.Y+22, 2)
		dc.Fill()
	case tool.Eraser:
		dc.Push()
		dc.RotateAbout(gg.Radians(-30), cx, cy)
		dc.DrawRectangle(cx-9, cy-5, 18, 10)
		dc.Stroke()
		dc.Pop()
	case tool.Line:
		dc.DrawLine(b.X+7, b.Y+23, b.X+23, b.Y+7)
		dc.Stroke()
	case tool.Rectangle:
		dc.DrawRectangle(b.X+6, b.Y+9, 18, 12)
		dc.Stroke()
	case tool.Square:
		dc.DrawRectangle(b.X+8, b.Y+8, 14, 14)
		dc.Stroke()
	case tool.Triangle:
		dc.MoveTo(cx, b.Y+7)
		dc.LineTo(b.X+23, b.Y+22)
		dc.LineTo(b.X+7, b.Y+22)
		dc.ClosePath()
		dc.Stroke()
	case tool.Circle:
		dc.DrawCircle(cx, cy, 8)
		dc.Stroke()
	}

	if selected {
		dc.DrawCircle(cx, cy, 20)
		dc.SetColor(color.Black)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
}

// DrawSkeleton renders the hand bones and joints scaled to a surface of the
// given size.
func DrawSkeleton(dc *gg.Context, hand *detector.HandLandmarks, width, height int, drawing bool) {
	if hand == nil {
		return
	}
	c := SkeletonIdle
	if drawing {
		c = SkeletonDrawing
	}
	w, h := float64(width), float64(height)

	dc.SetColor(c)
	dc.SetLineWidth(2)
	for _, bone := range detector.Connections {
		a, b := hand.Points[bone[0]], hand.Points[bone[1]]
		dc.DrawLine(a.X*w, a.Y*h, b.X*w, b.Y*h)
		dc.Stroke()
	}
	for _, p := range hand.Points {
		dc.DrawCircle(p.X*w, p.Y*h, 3)
	}
	dc.Fill()
}

// DrawModeLabel writes the mode indicator in the top right corner.
func DrawModeLabel(dc *gg.Context, mode string, width int) error {
	face, err := fontFace(16)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	text := "Mode: " + mode
	tw, th := dc.MeasureString(text)
	x := float64(width) - tw - 16
	y := 12.0

	dc.DrawRoundedRectangle(x-8, y, tw+16, th+12, 6)
	dc.SetColor(buttonFill)
	dc.Fill()
	dc.SetColor(labelFill)
	dc.DrawString(text, x, y+6+th*0.85)
	return nil
}

// DrawPointer marks the pointer used for hit-testing or drawing.
func DrawPointer(dc *gg.Context, x, y float64, drawing bool) {
	c := SkeletonIdle
	if drawing {
		c = SkeletonDrawing
	}
	dc.DrawCircle(x, y, 6)
	dc.SetColor(c)
	dc.SetLineWidth(2)
	dc.Stroke()
}
