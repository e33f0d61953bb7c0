// Package app runs the airdraw pipeline: camera frames go through the hand
// detector and every result is applied to the drawing canvas.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/store"
	"github.com/ayusman/airdraw/internal/tool"
)

// ErrNotCapturing is returned when stopping a pipeline that is not running.
var ErrNotCapturing = errors.New("capture not running")

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no hand or motion has been seen.
	IdleFPS = 5
	// IdleTimeoutMs is how long without a hand or motion before dropping to idle.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	Camera       capture.Config
	Detector     detector.Config
	MotionThresh float64
}

// DefaultConfig returns a 1280x720 camera at 30 FPS with a single-hand
// detector and no store.
func DefaultConfig() Config {
	return Config{
		Camera:       capture.DefaultConfig(),
		Detector:     detector.DefaultConfig(),
		MotionThresh: 1.0,
	}
}

// App owns the camera, the detector and the canvas they drive.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	canvas   *Canvas

	// lifecycle serialises Start and Stop; mu guards the fields below.
	lifecycle sync.Mutex
	mu        sync.RWMutex
	stopCh    chan struct{}
	doneCh    chan struct{}
	session   *store.CaptureSession
}

// New creates an App. Persisted tool preferences are restored from the store
// when one is configured, and saved back whenever they change.
func New(config Config) *App {
	if config.Camera.Width <= 0 || config.Camera.Height <= 0 {
		def := capture.DefaultConfig()
		config.Camera.Width, config.Camera.Height = def.Width, def.Height
	}

	a := &App{
		config: config,
		camera: capture.NewCamera(config.Camera),
		motion: capture.NewMotionDetector(config.MotionThresh),
		canvas: NewCanvas(config.Camera.Width, config.Camera.Height, tool.DefaultConfig()),
	}

	if config.Store != nil {
		settings := config.Store.Settings()
		if cfg, err := settings.LoadToolConfig(); err != nil {
			log.Printf("Error loading tool settings, using defaults: %v", err)
		} else if err := a.canvas.SetTool(cfg); err == nil {
			log.Printf("Loaded tool settings: %s, width %d", cfg.Tool, cfg.StrokeWidth())
		}
		a.canvas.OnConfigChange(func(cfg tool.Config) {
			if err := settings.SaveToolConfig(cfg); err != nil {
				log.Printf("Error saving tool settings: %v", err)
			}
		})
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera. It has no effect on a running pipeline.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopCh == nil {
		a.camera = c
	}
}

// Start opens the camera and begins the pipeline. Starting a running
// pipeline is a no-op.
func (a *App) Start() error {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.camera.SetFPS(IdleFPS)
	a.motion.Reset()

	a.canvas.TakeStats()
	a.canvas.StartCapture()

	if a.config.Store != nil {
		st := a.canvas.State()
		session, err := a.config.Store.Sessions().Create(st.Width, st.Height)
		if err != nil {
			log.Printf("Error recording capture session: %v", err)
		}
		a.session = session
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.camera, a.detector, a.stopCh, a.doneCh)

	log.Println("Capture started")
	return nil
}

// Stop halts the pipeline, waits for the current frame to finish and
// releases the camera. The canvas is cleared and any gesture in progress is
// dropped without being committed. A Start issued meanwhile waits until the
// stop has finished.
func (a *App) Stop() error {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return ErrNotCapturing
	}
	close(a.stopCh)
	done := a.doneCh
	session := a.session
	a.stopCh, a.doneCh, a.session = nil, nil, nil
	a.mu.Unlock()

	<-done

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.canvas.StopCapture()
	stats := a.canvas.TakeStats()

	if session != nil && a.config.Store != nil {
		if err := a.config.Store.Sessions().Finish(session.ID, stats); err != nil {
			log.Printf("Error finishing capture session: %v", err)
		}
	}

	log.Printf("Capture stopped (%d strokes, %d undos, %d redos)", stats.Strokes, stats.Undos, stats.Redos)
	return nil
}

// Close stops capture if it is running and releases the motion detector.
func (a *App) Close() error {
	if err := a.Stop(); err != nil && !errors.Is(err, ErrNotCapturing) {
		return err
	}
	return a.motion.Close()
}

// IsCapturing reports whether the pipeline is running.
func (a *App) IsCapturing() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Session returns the capture session being recorded, if any.
func (a *App) Session() *store.CaptureSession {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// Canvas returns the drawing canvas.
func (a *App) Canvas() *Canvas {
	return a.canvas
}

// Store returns the configured store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
