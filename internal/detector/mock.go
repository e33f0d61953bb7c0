package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	queue  [][]HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect once the queue is drained.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Queue appends per-frame results that Detect returns in order before falling
// back to the hands set with SetHands.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued result, the pre-configured hands, or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// PointingAt returns a copy of h translated so that the index fingertip lies at
// (x, y). Translation keeps every gesture-relevant proportion intact.
func PointingAt(h HandLandmarks, x, y float64) HandLandmarks {
	dx := x - h.Points[IndexTip].X
	dy := y - h.Points[IndexTip].Y
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}

// DrawGestureLandmarks returns a preset hand making the drawing gesture:
// fingers curled into a fist, thumb raised clear of the knuckles.
func DrawGestureLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.48, Y: 0.85}

	// Thumb raised and held away from the fist
	landmarks.Points[ThumbCMC] = Point3D{X: 0.58, Y: 0.75, Z: 0.01}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.64, Y: 0.60, Z: 0.01}
	landmarks.Points[ThumbIP] = Point3D{X: 0.66, Y: 0.50, Z: 0.01}
	landmarks.Points[ThumbTip] = Point3D{X: 0.67, Y: 0.40, Z: 0.01}

	// Index finger curled
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.64, Z: -0.05}
	landmarks.Points[IndexDIP] = Point3D{X: 0.53, Y: 0.68, Z: -0.04}
	landmarks.Points[IndexTip] = Point3D{X: 0.52, Y: 0.72, Z: -0.02}

	// Middle finger curled
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.69, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.63, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.48, Y: 0.67, Z: -0.04}
	landmarks.Points[MiddleTip] = Point3D{X: 0.47, Y: 0.71, Z: -0.02}

	// Ring finger curled
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.69, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.64, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: 0.43, Y: 0.67, Z: -0.04}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.71, Z: -0.02}

	// Pinky finger curled
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.65, Z: -0.05}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.68, Z: -0.04}
	landmarks.Points[PinkyTip] = Point3D{X: 0.37, Y: 0.72, Z: -0.02}

	return landmarks
}

// NavigateGestureLandmarks returns a preset hand making the navigation
// gesture: four fingers extended and spread, thumb tucked below the knuckles.
func NavigateGestureLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.48, Y: 0.85}

	// Thumb folded across the palm
	landmarks.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.78, Z: 0.01}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.74, Z: 0.01}
	landmarks.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.70, Z: -0.01}
	landmarks.Points[ThumbTip] = Point3D{X: 0.53, Y: 0.69, Z: -0.02}

	// Index finger extended
	landmarks.Points[IndexMCP] = Point3D{X: 0.56, Y: 0.66}
	landmarks.Points[IndexPIP] = Point3D{X: 0.58, Y: 0.54}
	landmarks.Points[IndexDIP] = Point3D{X: 0.59, Y: 0.46}
	landmarks.Points[IndexTip] = Point3D{X: 0.60, Y: 0.38}

	// Middle finger extended
	landmarks.Points[MiddleMCP] = Point3D{X: 0.51, Y: 0.64}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.51, Y: 0.50}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.51, Y: 0.42}
	landmarks.Points[MiddleTip] = Point3D{X: 0.51, Y: 0.33}

	// Ring finger extended
	landmarks.Points[RingMCP] = Point3D{X: 0.46, Y: 0.65}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.53}
	landmarks.Points[RingDIP] = Point3D{X: 0.44, Y: 0.45}
	landmarks.Points[RingTip] = Point3D{X: 0.43, Y: 0.38}

	// Pinky finger extended
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.66}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.38, Y: 0.57}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.50}
	landmarks.Points[PinkyTip] = Point3D{X: 0.36, Y: 0.44}

	return landmarks
}

// FistLandmarks returns a preset closed fist with the thumb wrapped over the
// fingers. It matches neither gesture.
func FistLandmarks() HandLandmarks {
	landmarks := DrawGestureLandmarks()

	landmarks.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.74, Z: 0.01}
	landmarks.Points[ThumbIP] = Point3D{X: 0.53, Y: 0.71, Z: -0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.50, Y: 0.70, Z: -0.04}

	return landmarks
}
