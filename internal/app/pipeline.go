package app

import (
	"log"
	"time"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/detector"
)

// runPipeline is the frame loop. Each tick reads one frame, updates the
// camera background and hands the detector output to the canvas. Frames are
// processed one at a time, so a frame never overlaps the previous one.
//
// The loop starts idle at IdleFPS, where the detector only runs once motion
// is seen. While a hand is visible or the scene is moving it runs at the
// camera's configured rate; after IdleTimeoutMs with neither it drops back
// to idle.
func (a *App) runPipeline(cam capture.Camera, det detector.Detector, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	activeFPS := a.config.Camera.FPS
	if activeFPS <= 0 {
		activeFPS = capture.DefaultConfig().FPS
	}

	activeMode := false
	lastActivity := time.Now()

	ticker := time.NewTicker(time.Second / time.Duration(IdleFPS))
	defer ticker.Stop()

	setRate := func(fps int) {
		cam.SetFPS(fps)
		ticker.Reset(time.Second / time.Duration(fps))
	}

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			continue
		}

		if img, err := frame.ToImage(); err == nil {
			a.canvas.SetBackground(img)
		}

		if moving, _ := a.motion.Detect(frame); moving {
			lastActivity = time.Now()
			if !activeMode {
				activeMode = true
				setRate(activeFPS)
				log.Println("Switched to active mode")
			}
		}

		if !activeMode || det == nil {
			frame.Close()
			a.canvas.HandleFrame(nil)
			continue
		}

		hands, err := det.Detect(frame)
		frame.Close()
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			continue
		}

		if len(hands) > 0 {
			lastActivity = time.Now()
		} else if time.Since(lastActivity) > time.Duration(IdleTimeoutMs)*time.Millisecond {
			activeMode = false
			setRate(IdleFPS)
			log.Println("Switched to idle mode")
		}

		a.canvas.HandleFrame(hands)
	}
}
