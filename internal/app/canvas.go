package app

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"sync"

	"golang.org/x/image/draw"

	"github.com/ayusman/airdraw/internal/cursor"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/history"
	"github.com/ayusman/airdraw/internal/store"
	"github.com/ayusman/airdraw/internal/stroke"
	"github.com/ayusman/airdraw/internal/surface"
	"github.com/ayusman/airdraw/internal/tool"
	"github.com/ayusman/airdraw/internal/ui"
)

// Mode is the human readable state shown in the mode indicator.
type Mode string

const (
	ModeNavigation Mode = "Navigation"
	ModeDrawing    Mode = "Drawing"
	ModeNoHand     Mode = "No hand detected"
	ModeCameraOff  Mode = "Camera off"
)

// Layer selects which surfaces an export contains.
type Layer string

const (
	LayerPersistent Layer = "persistent"
	LayerOverlay    Layer = "overlay"
	LayerComposite  Layer = "composite"
)

// ParseLayer returns the layer with the given name. An empty name is the
// composite.
func ParseLayer(name string) (Layer, error) {
	switch Layer(name) {
	case "", LayerComposite:
		return LayerComposite, nil
	case LayerPersistent, LayerOverlay:
		return Layer(name), nil
	}
	return "", fmt.Errorf("unknown layer %q", name)
}

// EventKind says what produced a FrameEvent.
type EventKind string

const (
	EventState  EventKind = "state"
	EventFrame  EventKind = "frame"
	EventUndo   EventKind = "undo"
	EventRedo   EventKind = "redo"
	EventClear  EventKind = "clear"
	EventResize EventKind = "resize"
	EventStop   EventKind = "stop"
)

// State is a point-in-time view of the canvas.
type State struct {
	Mode        Mode        `json:"mode"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Tool        string      `json:"tool"`
	Color       string      `json:"color"`
	PenWidth    int         `json:"pen_width"`
	EraserWidth int         `json:"eraser_width"`
	MenuOpen    bool        `json:"menu_open"`
	Expanded    string      `json:"expanded"`
	Drawing     bool        `json:"drawing"`
	CanUndo     bool        `json:"can_undo"`
	CanRedo     bool        `json:"can_redo"`
	History     int         `json:"history"`
	Stats       store.Stats `json:"stats"`
}

// FrameEvent reports the outcome of one frame or control action.
type FrameEvent struct {
	Seq       uint64        `json:"seq"`
	Kind      EventKind     `json:"kind"`
	Verdict   string        `json:"verdict,omitempty"`
	Hand      bool          `json:"hand"`
	Cursor    *cursor.Point `json:"cursor,omitempty"`
	Hit       string        `json:"hit,omitempty"`
	Committed bool          `json:"committed"`
	State     State         `json:"state"`
}

// subscriberBuffer is how many events a subscriber may fall behind before
// events are dropped for it.
const subscriberBuffer = 16

// Background is painted under the camera frame in composites.
var Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Canvas is the drawing session: the surfaces, tool state and history that
// every frame and control action operates on. All methods are safe for
// concurrent use; frames and controls are serialised.
type Canvas struct {
	mu         sync.Mutex
	persistent *surface.Surface
	preview    *surface.Surface
	hud        *surface.Surface
	background *image.RGBA

	machine *tool.Machine
	history *history.Manager
	engine  *stroke.Engine
	layout  ui.Layout

	mode    Mode
	latched tool.Hit
	holding bool
	stats   store.Stats
	seq     uint64

	onConfig func(tool.Config)

	subMu sync.Mutex
	subs  map[<-chan FrameEvent]chan FrameEvent
}

// NewCanvas creates a blank canvas of the given size using cfg as the
// initial tool configuration.
func NewCanvas(width, height int, cfg tool.Config) *Canvas {
	persistent := surface.New(width, height)
	preview := surface.New(width, height)
	h := history.New(history.NewEntry(persistent.Snapshot()), history.DefaultLimit)

	return &Canvas{
		persistent: persistent,
		preview:    preview,
		hud:        surface.New(width, height),
		machine:    tool.NewMachine(cfg),
		history:    h,
		engine:     stroke.NewEngine(persistent, preview, h),
		layout:     ui.NewLayout(height),
		mode:       ModeCameraOff,
		subs:       make(map[<-chan FrameEvent]chan FrameEvent),
	}
}

// OnConfigChange registers fn to be called with the new tool configuration
// whenever a frame changes it. fn runs outside the canvas lock.
func (c *Canvas) OnConfigChange(fn func(tool.Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConfig = fn
}

// HandleFrame runs one frame of detector output through the pipeline. Only
// the first hand is used; an empty slice means no hand is visible.
func (c *Canvas) HandleFrame(hands []detector.HandLandmarks) FrameEvent {
	c.mu.Lock()
	before := c.machine.Config()
	ev := c.handleFrame(hands)
	after := c.machine.Config()
	onConfig := c.onConfig
	c.mu.Unlock()

	if after != before && onConfig != nil {
		onConfig(after)
	}
	c.publish(ev)
	return ev
}

func (c *Canvas) handleFrame(hands []detector.HandLandmarks) FrameEvent {
	var hand *detector.HandLandmarks
	if len(hands) > 0 {
		hand = &hands[0]
	}
	verdict := gesture.Classify(hand)

	ev := FrameEvent{
		Kind:    EventFrame,
		Verdict: verdict.String(),
		Hand:    hand != nil,
	}
	w, h := c.persistent.Width(), c.persistent.Height()

	switch {
	case hand == nil:
		c.mode = ModeNoHand
		ev.Committed = c.release()
		c.holding = false

	case verdict == gesture.Draw:
		c.mode = ModeDrawing
		raw := cursor.FromLandmark(hand.Points[detector.IndexTip], w, h)
		p := c.engine.Track(raw, c.machine.Config())
		ev.Cursor = &p
		c.holding = false

	default:
		c.mode = ModeNavigation
		ev.Committed = c.release()
		p := cursor.FromLandmark(hand.Points[detector.IndexTip], w, h)
		ev.Cursor = &p
		if hit, ok := c.layout.HitTest(p, c.machine.View()); ok {
			ev.Hit = hit.Kind.String()
			c.applyHit(hit)
		} else {
			c.holding = false
		}
	}

	c.drawHUD(hand, ev.Cursor, verdict == gesture.Draw)
	ev.Seq = c.nextSeq()
	ev.State = c.state()
	return ev
}

// release ends any gesture in progress and counts it.
func (c *Canvas) release() bool {
	if !c.engine.Release() {
		return false
	}
	c.stats.Strokes++
	return true
}

// applyHit performs the action for hit. Discrete controls act once when the
// pointer enters them and again only after it has left.
func (c *Canvas) applyHit(hit tool.Hit) {
	target := hit.Target()
	if hit.Discrete() && c.holding && c.latched == target {
		return
	}
	c.latched = target
	c.holding = true

	switch hit.Kind {
	case tool.HitUndo:
		c.undo()
	case tool.HitRedo:
		c.redo()
	default:
		c.machine.Apply(hit)
	}
}

func (c *Canvas) undo() bool {
	e, ok := c.history.Undo()
	if !ok {
		return false
	}
	c.persistent.Restore(e.Image())
	c.stats.Undos++
	return true
}

func (c *Canvas) redo() bool {
	e, ok := c.history.Redo()
	if !ok {
		return false
	}
	c.persistent.Restore(e.Image())
	c.stats.Redos++
	return true
}

func (c *Canvas) drawHUD(hand *detector.HandLandmarks, pointer *cursor.Point, drawing bool) {
	c.hud.Clear()
	dc := c.hud.Context()
	w, h := c.hud.Width(), c.hud.Height()

	c.layout.DrawControls(dc, c.machine.View(), ui.HistoryState{
		CanUndo: c.history.CanUndo(),
		CanRedo: c.history.CanRedo(),
	})
	ui.DrawSkeleton(dc, hand, w, h, drawing)
	if pointer != nil {
		ui.DrawPointer(dc, pointer.X, pointer.Y, drawing)
	}
	if err := ui.DrawModeLabel(dc, string(c.mode), w); err != nil {
		log.Printf("Error drawing mode label: %v", err)
	}
}

// Undo restores the previous history entry. It does nothing while a gesture
// is in progress or when there is nothing to undo, and reports whether the
// surface changed.
func (c *Canvas) Undo() bool {
	return c.control(EventUndo, func() bool {
		return !c.engine.Active() && c.undo()
	})
}

// Redo restores the next history entry under the same conditions as Undo.
func (c *Canvas) Redo() bool {
	return c.control(EventRedo, func() bool {
		return !c.engine.Active() && c.redo()
	})
}

// Clear blanks the persistent surface and drops any gesture in progress.
// History is kept, so a clear can be undone.
func (c *Canvas) Clear() {
	c.control(EventClear, func() bool {
		c.engine.Abandon()
		c.persistent.Clear()
		c.stats.Clears++
		return true
	})
}

// Resize changes the size of every surface. The persistent drawing keeps its
// pixel positions without scaling; previews, the HUD and any gesture in
// progress are discarded.
func (c *Canvas) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	c.control(EventResize, func() bool {
		c.engine.Abandon()
		c.persistent.Resize(width, height)
		c.preview.Resize(width, height)
		c.preview.Clear()
		c.hud.Resize(width, height)
		c.hud.Clear()
		c.background = nil
		c.layout = ui.NewLayout(height)
		return true
	})
	return nil
}

// StopCapture drops any gesture in progress without committing it and
// clears every surface. History is kept.
func (c *Canvas) StopCapture() {
	c.control(EventStop, func() bool {
		c.engine.Abandon()
		c.persistent.Clear()
		c.preview.Clear()
		c.hud.Clear()
		c.background = nil
		c.holding = false
		c.mode = ModeCameraOff
		return true
	})
}

// StartCapture marks the canvas live until the first frame arrives.
func (c *Canvas) StartCapture() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeNoHand
}

func (c *Canvas) control(kind EventKind, fn func() bool) bool {
	c.mu.Lock()
	changed := fn()
	ev := FrameEvent{Kind: kind, Seq: c.nextSeq(), Committed: changed, State: c.state()}
	c.mu.Unlock()

	c.publish(ev)
	return changed
}

// SetTool replaces the tool configuration, as a restored preference would.
func (c *Canvas) SetTool(cfg tool.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Restore(cfg)
}

// ToolConfig returns the current tool configuration.
func (c *Canvas) ToolConfig() tool.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Config()
}

// SetBackground sets the camera image shown under the drawing in
// composites. It is scaled to the canvas size.
func (c *Canvas) SetBackground(img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if img == nil {
		c.background = nil
		return
	}
	bounds := c.persistent.Bounds()
	if c.background == nil || c.background.Bounds() != bounds {
		c.background = image.NewRGBA(bounds)
	}
	draw.ApproxBiLinear.Scale(c.background, bounds, img, img.Bounds(), draw.Src, nil)
}

// Mode returns the current mode indicator.
func (c *Canvas) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// State returns the current state.
func (c *Canvas) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *Canvas) state() State {
	v := c.machine.View()
	return State{
		Mode:        c.mode,
		Width:       c.persistent.Width(),
		Height:      c.persistent.Height(),
		Tool:        v.Config.Tool.String(),
		Color:       tool.FormatColor(v.Config.Color),
		PenWidth:    v.Config.PenWidth,
		EraserWidth: v.Config.EraserWidth,
		MenuOpen:    v.MenuOpen,
		Expanded:    v.Expanded.String(),
		Drawing:     c.engine.Active(),
		CanUndo:     c.history.CanUndo(),
		CanRedo:     c.history.CanRedo(),
		History:     c.history.Len(),
		Stats:       c.stats,
	}
}

// TakeStats returns the activity counters and resets them.
func (c *Canvas) TakeStats() store.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	c.stats = store.Stats{}
	return s
}

// Image returns a copy of the requested layer.
func (c *Canvas) Image(layer Layer) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch layer {
	case LayerPersistent:
		return c.persistent.Snapshot()
	case LayerOverlay:
		return surface.Composite(color.Transparent, c.preview.Image(), c.hud.Image())
	default:
		layers := []*image.RGBA{c.persistent.Image(), c.preview.Image(), c.hud.Image()}
		if c.background != nil {
			layers = append([]*image.RGBA{c.background}, layers...)
		}
		return surface.Composite(Background, layers...)
	}
}

// WritePNG encodes layer as PNG, scaled down by scale when it is in (0,1).
func (c *Canvas) WritePNG(w io.Writer, layer Layer, scale float64) error {
	return surface.EncodePNG(w, surface.Thumbnail(c.Image(layer), scale))
}

func (c *Canvas) nextSeq() uint64 {
	c.seq++
	return c.seq
}

// Subscribe returns a channel receiving every subsequent event. A subscriber
// that falls behind misses events rather than stalling the pipeline.
func (c *Canvas) Subscribe() <-chan FrameEvent {
	ch := make(chan FrameEvent, subscriberBuffer)
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subs[ch] = ch
	return ch
}

// Unsubscribe stops delivery to ch and closes it.
func (c *Canvas) Unsubscribe(ch <-chan FrameEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if send, ok := c.subs[ch]; ok {
		delete(c.subs, ch)
		close(send)
	}
}

func (c *Canvas) publish(ev FrameEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
