package tool

// HitKind identifies which virtual control the pointer is over.
type HitKind int

const (
	HitUndo HitKind = iota
	HitRedo
	HitColor
	HitOpenMenu
	HitCloseMenu
	HitSelectTool
	HitToggleSlider
	HitSetWidth
)

var hitNames = []string{
	"undo", "redo", "color", "open-menu", "close-menu", "select-tool", "toggle-slider", "set-width",
}

func (k HitKind) String() string {
	if int(k) < len(hitNames) {
		return hitNames[k]
	}
	return "unknown"
}

// Hit is a classified pointer position over a virtual control.
type Hit struct {
	Kind   HitKind
	Tool   Tool    // HitSelectTool
	Color  int     // HitColor: palette index
	Slider Slider  // HitToggleSlider, HitSetWidth
	Pos    float64 // HitSetWidth: position along the track in [0,1]
}

// Discrete reports whether the hit acts once per pointer entry rather than on
// every frame the pointer stays over the control.
func (h Hit) Discrete() bool {
	switch h.Kind {
	case HitUndo, HitRedo, HitOpenMenu, HitCloseMenu, HitToggleSlider:
		return true
	}
	return false
}

// Target returns h without its continuous slider position, identifying the
// control that was hit.
func (h Hit) Target() Hit {
	h.Pos = 0
	return h
}
