package app

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/tool"
)

const (
	testWidth  = 640
	testHeight = 480
)

func newTestCanvas(t *testing.T, active tool.Tool) *Canvas {
	t.Helper()
	cfg := tool.DefaultConfig()
	cfg.Tool = active
	cfg.Color = tool.Palette[1]
	c := NewCanvas(testWidth, testHeight, cfg)
	c.StartCapture()
	return c
}

func hand(fixture detector.HandLandmarks, x, y float64) []detector.HandLandmarks {
	return []detector.HandLandmarks{detector.PointingAt(fixture, x/testWidth, y/testHeight)}
}

func drawAt(c *Canvas, x, y float64) FrameEvent {
	return c.HandleFrame(hand(detector.DrawGestureLandmarks(), x, y))
}

func navigateAt(c *Canvas, x, y float64) FrameEvent {
	return c.HandleFrame(hand(detector.NavigateGestureLandmarks(), x, y))
}

// drawLine drags from one point to another and holds still long enough for
// the smoother to settle, without ending the gesture.
func drawLine(c *Canvas, x0, y0, x1, y1 float64) {
	drawAt(c, x0, y0)
	drawAt(c, (x0+x1)/2, (y0+y1)/2)
	for i := 0; i < 40; i++ {
		drawAt(c, x1, y1)
	}
}

func TestCanvas_LineCommitEndToEnd(t *testing.T) {
	c := newTestCanvas(t, tool.Line)

	drawLine(c, 100, 100, 200, 150)

	if !c.engine.Active() {
		t.Fatal("expected a gesture in progress")
	}
	if c.preview.IsEmpty() {
		t.Error("expected a preview while the line is being drawn")
	}
	if !c.persistent.IsEmpty() {
		t.Error("expected nothing committed before the gesture ends")
	}

	ev := navigateAt(c, 200, 150)

	if !ev.Committed {
		t.Error("expected the gesture-ending frame to commit")
	}
	if ev.State.Mode != ModeNavigation {
		t.Errorf("expected mode %q, got %q", ModeNavigation, ev.State.Mode)
	}
	if c.history.Len() != 2 {
		t.Errorf("expected exactly one history push, got %d entries", c.history.Len())
	}
	if !c.preview.IsEmpty() {
		t.Error("expected preview to be empty after commit")
	}
	if got := c.persistent.At(150, 125); got != tool.Palette[1] {
		t.Errorf("expected red on the line at (150,125), got %v", got)
	}
	if got := c.persistent.At(100, 150); got.A != 0 {
		t.Errorf("expected nothing off the line at (100,150), got %v", got)
	}
	if ev.State.Stats.Strokes != 1 {
		t.Errorf("expected 1 stroke counted, got %d", ev.State.Stats.Strokes)
	}
}

func TestCanvas_HandLostCommits(t *testing.T) {
	c := newTestCanvas(t, tool.Pen)

	drawLine(c, 300, 300, 400, 300)
	ev := c.HandleFrame(nil)

	if !ev.Committed {
		t.Error("expected losing the hand to commit the stroke")
	}
	if ev.State.Mode != ModeNoHand {
		t.Errorf("expected mode %q, got %q", ModeNoHand, ev.State.Mode)
	}
	if ev.Verdict != "idle" || ev.Hand {
		t.Errorf("expected idle verdict without a hand, got %s/%v", ev.Verdict, ev.Hand)
	}
	if c.persistent.IsEmpty() {
		t.Error("expected the freehand stroke on the persistent surface")
	}
	if c.history.Len() != 2 {
		t.Errorf("expected 2 history entries, got %d", c.history.Len())
	}

	// A second empty frame has nothing to commit.
	if ev := c.HandleFrame(nil); ev.Committed {
		t.Error("expected no commit without a gesture")
	}
}

func TestCanvas_Modes(t *testing.T) {
	c := NewCanvas(testWidth, testHeight, tool.DefaultConfig())
	if c.Mode() != ModeCameraOff {
		t.Errorf("expected %q before capture, got %q", ModeCameraOff, c.Mode())
	}

	c.StartCapture()
	if c.Mode() != ModeNoHand {
		t.Errorf("expected %q after start, got %q", ModeNoHand, c.Mode())
	}

	tests := []struct {
		name  string
		hands []detector.HandLandmarks
		want  Mode
	}{
		{"draw", hand(detector.DrawGestureLandmarks(), 300, 300), ModeDrawing},
		{"navigate", hand(detector.NavigateGestureLandmarks(), 300, 300), ModeNavigation},
		{"idle hand", hand(detector.FistLandmarks(), 300, 300), ModeNavigation},
		{"no hand", nil, ModeNoHand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ev := c.HandleFrame(tt.hands); ev.State.Mode != tt.want {
				t.Errorf("expected %q, got %q", tt.want, ev.State.Mode)
			}
		})
	}
}

func TestCanvas_UndoButtonFiresOncePerEntry(t *testing.T) {
	c := newTestCanvas(t, tool.Pen)

	drawLine(c, 300, 300, 400, 300)
	navigateAt(c, 500, 400)
	drawLine(c, 300, 350, 400, 350)
	navigateAt(c, 500, 400)

	if c.history.Index() != 2 {
		t.Fatalf("expected history index 2, got %d", c.history.Index())
	}

	for i := 0; i < 5; i++ {
		ev := navigateAt(c, 27, 27)
		if ev.Hit != "undo" {
			t.Fatalf("expected undo hit, got %q", ev.Hit)
		}
	}
	if c.history.Index() != 1 {
		t.Errorf("expected one undo while hovering, got index %d", c.history.Index())
	}

	navigateAt(c, 500, 400)
	navigateAt(c, 27, 27)
	if c.history.Index() != 0 {
		t.Errorf("expected a second undo after re-entering, got index %d", c.history.Index())
	}
	if !c.persistent.IsEmpty() {
		t.Error("expected blank surface after undoing both strokes")
	}

	// Moving straight from undo onto redo fires redo.
	navigateAt(c, 57, 27)
	if c.history.Index() != 1 {
		t.Errorf("expected redo to fire, got index %d", c.history.Index())
	}

	st := c.State()
	if st.Stats.Undos != 2 || st.Stats.Redos != 1 {
		t.Errorf("expected 2 undos and 1 redo, got %+v", st.Stats)
	}
}

func TestCanvas_SwatchAndMenu(t *testing.T) {
	c := NewCanvas(testWidth, testHeight, tool.DefaultConfig())
	c.StartCapture()

	var saved []tool.Config
	c.OnConfigChange(func(cfg tool.Config) {
		saved = append(saved, cfg)
	})

	// Swatch 2 (green) sits at (15, 130).
	navigateAt(c, 15, 130)
	navigateAt(c, 15, 130)
	if got := c.ToolConfig().Color; got != tool.Palette[2] {
		t.Errorf("expected green, got %v", got)
	}
	if len(saved) != 1 {
		t.Errorf("expected one config change notification, got %d", len(saved))
	}

	// Open the menu, then pick the line tool.
	ev := navigateAt(c, 75, float64(testHeight)/2+15)
	if ev.Hit != "open-menu" || !ev.State.MenuOpen {
		t.Fatalf("expected the menu to open, got hit %q open=%v", ev.Hit, ev.State.MenuOpen)
	}
	ev = navigateAt(c, 90, 237)
	if ev.State.Tool != "line" {
		t.Errorf("expected line tool, got %s", ev.State.Tool)
	}

	// Drawing never changes the tool, even over a control.
	drawAt(c, 90, 125)
	if c.ToolConfig().Tool != tool.Line {
		t.Error("expected drawing frames to skip hit-testing")
	}
}

func TestCanvas_ControlsDuringStroke(t *testing.T) {
	c := newTestCanvas(t, tool.Pen)

	drawLine(c, 300, 300, 400, 300)
	navigateAt(c, 500, 400)
	drawLine(c, 300, 350, 400, 350)

	if c.Undo() {
		t.Error("expected undo to be refused while drawing")
	}
	if c.history.Index() != 1 {
		t.Errorf("expected history untouched, got index %d", c.history.Index())
	}

	navigateAt(c, 500, 400)
	if !c.Undo() {
		t.Error("expected undo once the stroke ended")
	}
	if !c.Redo() {
		t.Error("expected redo after undo")
	}
	if c.Redo() {
		t.Error("expected redo at the top to be a no-op")
	}
}

func TestCanvas_ClearKeepsHistory(t *testing.T) {
	c := newTestCanvas(t, tool.Pen)

	drawLine(c, 300, 300, 400, 300)
	c.HandleFrame(nil)
	c.Clear()

	if !c.persistent.IsEmpty() {
		t.Error("expected a blank surface after clear")
	}
	if c.history.Len() != 2 {
		t.Errorf("expected history to be kept, got %d entries", c.history.Len())
	}

	// Undo from the post-stroke entry goes back to the blank start; redo
	// brings the cleared stroke back.
	if !c.Undo() || !c.persistent.IsEmpty() {
		t.Error("expected undo to restore the blank entry")
	}
	if !c.Redo() || c.persistent.IsEmpty() {
		t.Error("expected redo to restore the stroke")
	}
	if c.State().Stats.Clears != 1 {
		t.Errorf("expected 1 clear counted, got %d", c.State().Stats.Clears)
	}
}

func TestCanvas_StopCaptureAbandonsStroke(t *testing.T) {
	c := newTestCanvas(t, tool.Pen)

	drawLine(c, 300, 300, 400, 300)
	if c.persistent.IsEmpty() {
		t.Fatal("expected live freehand marks before stopping")
	}

	c.StopCapture()

	if c.engine.Active() {
		t.Error("expected the gesture to be dropped")
	}
	if !c.persistent.IsEmpty() || !c.preview.IsEmpty() || !c.hud.IsEmpty() {
		t.Error("expected every surface to be cleared")
	}
	if c.history.Len() != 1 {
		t.Errorf("expected no history push, got %d entries", c.history.Len())
	}
	if c.Mode() != ModeCameraOff {
		t.Errorf("expected %q, got %q", ModeCameraOff, c.Mode())
	}
	if c.State().Stats.Strokes != 0 {
		t.Error("expected an abandoned stroke not to be counted")
	}
}

func TestCanvas_Resize(t *testing.T) {
	c := newTestCanvas(t, tool.Line)

	drawLine(c, 50, 100, 150, 100)
	navigateAt(c, 500, 400)
	drawLine(c, 50, 200, 150, 200)

	if err := c.Resize(320, 240); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := c.State()
	if st.Width != 320 || st.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", st.Width, st.Height)
	}
	if c.preview.Width() != 320 || c.hud.Height() != 240 {
		t.Error("expected preview and HUD to be resized")
	}
	if got := c.persistent.At(100, 100); got != tool.Palette[1] {
		t.Errorf("expected committed line to keep its position, got %v", got)
	}
	if c.engine.Active() || !c.preview.IsEmpty() {
		t.Error("expected the in-progress shape to be discarded")
	}
	if c.layout.OpenMenu.Y != 120 {
		t.Errorf("expected layout for the new height, got open-menu y %f", c.layout.OpenMenu.Y)
	}

	if err := c.Resize(0, 10); err == nil {
		t.Error("expected error for empty size")
	}
}

func TestCanvas_ResizeDuringFreehand(t *testing.T) {
	c := newTestCanvas(t, tool.Pen)

	for i := 0; i < 8; i++ {
		drawAt(c, 60+float64(i)*20, 120)
	}
	if c.persistent.IsEmpty() {
		t.Fatal("expected freehand marks while drawing")
	}

	if err := c.Resize(320, 240); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !c.persistent.IsEmpty() {
		t.Error("expected uncommitted freehand marks to be rolled back")
	}
	st := c.State()
	if st.History != 1 || st.CanUndo {
		t.Errorf("expected untouched history, got %d entries (can undo %v)", st.History, st.CanUndo)
	}
}

func TestCanvas_Subscribe(t *testing.T) {
	c := newTestCanvas(t, tool.Pen)

	ch := c.Subscribe()
	c.HandleFrame(nil)
	c.Clear()

	first := <-ch
	if first.Kind != EventFrame {
		t.Errorf("expected frame event, got %s", first.Kind)
	}
	second := <-ch
	if second.Kind != EventClear || second.Seq <= first.Seq {
		t.Errorf("expected later clear event, got %s #%d", second.Kind, second.Seq)
	}

	t.Run("lagging subscriber drops events", func(t *testing.T) {
		for i := 0; i < subscriberBuffer*2; i++ {
			c.HandleFrame(nil)
		}
		if len(ch) != subscriberBuffer {
			t.Errorf("expected a full buffer of %d, got %d", subscriberBuffer, len(ch))
		}
	})

	c.Unsubscribe(ch)
	for range ch {
	}
	c.HandleFrame(nil)
}

func TestCanvas_TakeStats(t *testing.T) {
	c := newTestCanvas(t, tool.Pen)

	drawLine(c, 300, 300, 400, 300)
	c.HandleFrame(nil)

	if s := c.TakeStats(); s.Strokes != 1 {
		t.Errorf("expected 1 stroke, got %d", s.Strokes)
	}
	if s := c.TakeStats(); s.Strokes != 0 {
		t.Errorf("expected counters reset, got %+v", s)
	}
}

func TestCanvas_WritePNG(t *testing.T) {
	c := newTestCanvas(t, tool.Pen)
	drawLine(c, 300, 300, 400, 300)
	c.HandleFrame(nil)

	tests := []struct {
		layer  Layer
		scale  float64
		width  int
		opaque bool
	}{
		{LayerPersistent, 1, testWidth, false},
		{LayerOverlay, 0, testWidth, false},
		{LayerComposite, 0.5, testWidth / 2, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.layer), func(t *testing.T) {
			var buf bytes.Buffer
			if err := c.WritePNG(&buf, tt.layer, tt.scale); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("invalid PNG: %v", err)
			}
			if img.Bounds().Dx() != tt.width {
				t.Errorf("expected width %d, got %d", tt.width, img.Bounds().Dx())
			}
			_, _, _, a := img.At(5, img.Bounds().Dy()-5).RGBA()
			if tt.opaque && a != 0xffff {
				t.Errorf("expected opaque composite, got alpha %d", a)
			}
		})
	}
}

func TestParseLayer(t *testing.T) {
	for _, name := range []string{"", "composite", "persistent", "overlay"} {
		if _, err := ParseLayer(name); err != nil {
			t.Errorf("expected %q to parse, got %v", name, err)
		}
	}
	if _, err := ParseLayer("video"); err == nil {
		t.Error("expected error for unknown layer")
	}
}
