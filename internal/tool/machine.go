package tool

import (
	"fmt"
	"math"
)

// SliderSteps is the number of discrete positions on a width slider.
const SliderSteps = 10

// Slider identifies one of the width sliders.
type Slider int

const (
	SliderNone Slider = iota
	SliderPen
	SliderEraser
)

func (s Slider) String() string {
	switch s {
	case SliderPen:
		return "pen"
	case SliderEraser:
		return "eraser"
	default:
		return "none"
	}
}

// Range returns the width limits the slider maps onto.
func (s Slider) Range() (lo, hi int) {
	if s == SliderEraser {
		return MinEraserWidth, MaxEraserWidth
	}
	return MinPenWidth, MaxPenWidth
}

// SliderValue maps a track position p to a width in [lo,hi], snapped to one of
// SliderSteps ticks. p is clamped to [0,1].
func SliderValue(p float64, lo, hi int) int {
	p = math.Max(0, math.Min(1, p))
	tick := math.Round(p * (SliderSteps - 1))
	return int(math.Round(tick/(SliderSteps-1)*float64(hi-lo) + float64(lo)))
}

// View is the read-only state the hit tester and HUD work against.
type View struct {
	Config   Config
	MenuOpen bool
	Expanded Slider
}

// Machine owns the tool configuration and menu state. It is not safe for
// concurrent use.
type Machine struct {
	cfg      Config
	menuOpen bool
	expanded Slider
}

// NewMachine creates a Machine starting from cfg, menu closed.
func NewMachine(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// Config returns a copy of the current configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

// View returns the current state.
func (m *Machine) View() View {
	return View{Config: m.cfg, MenuOpen: m.menuOpen, Expanded: m.expanded}
}

// Restore replaces the configuration with persisted preferences.
func (m *Machine) Restore(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("restore tool config: %w", err)
	}
	m.cfg = cfg
	return nil
}

// Apply performs the transition for h and reports whether the configuration or
// menu state changed. Undo and redo hits carry no tool state and are ignored.
func (m *Machine) Apply(h Hit) bool {
	before := m.View()

	switch h.Kind {
	case HitColor:
		if h.Color >= 0 && h.Color < len(Palette) {
			m.cfg.Color = Palette[h.Color]
		}
	case HitOpenMenu:
		m.menuOpen = true
		m.expanded = SliderNone
	case HitCloseMenu:
		m.menuOpen = false
		m.expanded = SliderNone
	case HitSelectTool:
		if h.Tool.Valid() {
			m.cfg.Tool = h.Tool
		}
	case HitToggleSlider:
		if m.expanded == h.Slider {
			m.expanded = SliderNone
		} else {
			m.expanded = h.Slider
		}
	case HitSetWidth:
		lo, hi := h.Slider.Range()
		v := SliderValue(h.Pos, lo, hi)
		switch h.Slider {
		case SliderPen:
			m.cfg.PenWidth = v
		case SliderEraser:
			m.cfg.EraserWidth = v
		}
	}

	return m.View() != before
}
