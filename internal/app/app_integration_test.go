package app

import (
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/tool"
)

// flickerCamera alternates black and white frames so every frame after the
// first registers as motion.
func flickerCamera(t *testing.T) *capture.MockCamera {
	t.Helper()
	black := gocv.NewMatWithSize(testHeight, testWidth, gocv.MatTypeCV8UC3)
	white := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), testHeight, testWidth, gocv.MatTypeCV8UC3)
	t.Cleanup(func() {
		black.Close()
		white.Close()
	})
	return capture.NewMockCamera([]*gocv.Mat{&black, &white}, true)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for pipeline")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestApp_Pipeline_DrawsLine(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s := newTestStore(t)
	line := tool.DefaultConfig()
	line.Tool = tool.Line
	if err := s.Settings().SaveToolConfig(line); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Store = s
	cfg.Camera.Width, cfg.Camera.Height = testWidth, testHeight
	app := New(cfg)
	defer app.Close()

	app.SetCamera(flickerCamera(t))

	mock := detector.NewMockDetector()
	frames := [][]detector.HandLandmarks{hand(detector.DrawGestureLandmarks(), 100, 100)}
	for i := 0; i < 30; i++ {
		frames = append(frames, hand(detector.DrawGestureLandmarks(), 200, 150))
	}
	frames = append(frames, hand(detector.NavigateGestureLandmarks(), 200, 150))
	mock.Queue(frames...)
	app.SetDetector(mock)

	events := app.Canvas().Subscribe()
	defer app.Canvas().Unsubscribe(events)

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !app.IsCapturing() {
		t.Fatal("expected capture to be running")
	}
	session := app.Session()
	if session == nil {
		t.Fatal("expected a capture session to be recorded")
	}

	var committed FrameEvent
	deadline := time.After(10 * time.Second)
	for committed.Seq == 0 {
		select {
		case ev := <-events:
			if ev.Kind == EventFrame && ev.Committed {
				committed = ev
			}
		case <-deadline:
			t.Fatal("timed out waiting for the line to be committed")
		}
	}

	if committed.State.History != 2 {
		t.Errorf("expected one history push, got %d entries", committed.State.History)
	}
	if got := app.Canvas().Image(LayerPersistent).RGBAAt(150, 125); got != tool.Palette[0] {
		t.Errorf("expected black line pixel at (150,125), got %v", got)
	}

	if err := app.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if !mock.Closed() {
		t.Error("expected detector to be closed on stop")
	}
	if app.Camera().IsOpen() {
		t.Error("expected camera to be closed on stop")
	}
	if app.Canvas().Mode() != ModeCameraOff {
		t.Errorf("expected %q after stop, got %q", ModeCameraOff, app.Canvas().Mode())
	}

	stored, err := s.Sessions().GetByID(session.ID)
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	if stored.Active() {
		t.Error("expected the session to be finished")
	}
	if stored.Strokes != 1 {
		t.Errorf("expected 1 stroke recorded, got %d", stored.Strokes)
	}
}

func TestApp_Pipeline_IdleWithoutMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := DefaultConfig()
	cfg.Camera.Width, cfg.Camera.Height = testWidth, testHeight
	app := New(cfg)
	defer app.Close()

	cam := capture.NewBlankMockCamera(testWidth, testHeight)
	app.SetCamera(cam)
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.DrawGestureLandmarks()})
	app.SetDetector(mock)

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitFor(t, 5*time.Second, func() bool { return cam.Reads() >= 3 })

	if mock.Calls() != 0 {
		t.Errorf("expected no detection on a still scene, got %d calls", mock.Calls())
	}
	if cam.FPS() != IdleFPS {
		t.Errorf("expected idle rate %d, got %d", IdleFPS, cam.FPS())
	}
	if app.Canvas().Mode() != ModeNoHand {
		t.Errorf("expected %q, got %q", ModeNoHand, app.Canvas().Mode())
	}

	app.Stop()
}

// slowCloseCamera blocks in Close until release is closed.
type slowCloseCamera struct {
	*capture.MockCamera
	closing chan struct{}
	release chan struct{}
}

func (c *slowCloseCamera) Close() error {
	select {
	case <-c.closing:
	default:
		close(c.closing)
	}
	<-c.release
	return c.MockCamera.Close()
}

func TestApp_StartWaitsForStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := DefaultConfig()
	cfg.Camera.Width, cfg.Camera.Height = testWidth, testHeight
	app := New(cfg)
	defer app.Close()

	cam := &slowCloseCamera{
		MockCamera: capture.NewBlankMockCamera(testWidth, testHeight),
		closing:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	app.SetCamera(cam)
	app.SetDetector(detector.NewMockDetector())

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	stopped := make(chan error, 1)
	go func() { stopped <- app.Stop() }()
	<-cam.closing

	started := make(chan error, 1)
	go func() { started <- app.Start() }()

	select {
	case <-started:
		t.Fatal("expected Start to wait for the pending Stop")
	case <-time.After(100 * time.Millisecond):
	}

	close(cam.release)
	if err := <-stopped; err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := <-started; err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !app.IsCapturing() {
		t.Error("expected capture to be running after the second Start")
	}
	if !cam.IsOpen() {
		t.Error("expected camera to be open for the new pipeline")
	}
	if app.Canvas().Mode() == ModeCameraOff {
		t.Errorf("expected a live mode after restart, got %q", app.Canvas().Mode())
	}
}
