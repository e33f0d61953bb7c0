package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/airdraw/internal/app"
)

// CaptureHandler starts and stops the camera pipeline.
type CaptureHandler struct {
	app    *app.App
	canvas *CanvasHandler
}

// NewCaptureHandler creates a new CaptureHandler for a.
func NewCaptureHandler(a *app.App) *CaptureHandler {
	return &CaptureHandler{app: a, canvas: NewCanvasHandler(a)}
}

// RegisterRoutes mounts the capture endpoints on r.
func (h *CaptureHandler) RegisterRoutes(r chi.Router) {
	r.Post("/capture/start", h.start)
	r.Post("/capture/stop", h.stop)
}

// start handles POST /api/capture/start. Starting a running pipeline succeeds.
func (h *CaptureHandler) start(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Start(); err != nil {
		log.Printf("Error starting capture: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to start capture")
		return
	}
	writeJSON(w, http.StatusOK, h.canvas.response())
}

// stop handles POST /api/capture/stop.
func (h *CaptureHandler) stop(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Stop(); err != nil {
		if errors.Is(err, app.ErrNotCapturing) {
			writeError(w, http.StatusConflict, "Capture is not running")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to stop capture")
		return
	}
	writeJSON(w, http.StatusOK, h.canvas.response())
}
