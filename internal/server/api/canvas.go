package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/airdraw/internal/app"
)

// CanvasHandler exposes the canvas state, its controls and PNG exports.
type CanvasHandler struct {
	app *app.App
}

// NewCanvasHandler creates a new CanvasHandler for a.
func NewCanvasHandler(a *app.App) *CanvasHandler {
	return &CanvasHandler{app: a}
}

// RegisterRoutes mounts the canvas endpoints on r.
func (h *CanvasHandler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.state)
	r.Post("/canvas/clear", h.clear)
	r.Post("/history/undo", h.undo)
	r.Post("/history/redo", h.redo)
	r.Put("/viewport", h.viewport)
	r.Get("/canvas.png", h.png)
}

// StateResponse is the body of GET /api/state and of every control endpoint.
type StateResponse struct {
	Capturing bool      `json:"capturing"`
	SessionID string    `json:"session_id,omitempty"`
	Changed   *bool     `json:"changed,omitempty"`
	State     app.State `json:"state"`
}

type viewportRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (h *CanvasHandler) response() StateResponse {
	resp := StateResponse{
		Capturing: h.app.IsCapturing(),
		State:     h.app.Canvas().State(),
	}
	if s := h.app.Session(); s != nil {
		resp.SessionID = s.ID
	}
	return resp
}

// state handles GET /api/state.
func (h *CanvasHandler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.response())
}

// clear handles POST /api/canvas/clear.
func (h *CanvasHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.app.Canvas().Clear()
	writeJSON(w, http.StatusOK, h.response())
}

// undo handles POST /api/history/undo. Nothing to undo is not an error.
func (h *CanvasHandler) undo(w http.ResponseWriter, r *http.Request) {
	changed := h.app.Canvas().Undo()
	resp := h.response()
	resp.Changed = &changed
	writeJSON(w, http.StatusOK, resp)
}

// redo handles POST /api/history/redo.
func (h *CanvasHandler) redo(w http.ResponseWriter, r *http.Request) {
	changed := h.app.Canvas().Redo()
	resp := h.response()
	resp.Changed = &changed
	writeJSON(w, http.StatusOK, resp)
}

// viewport handles PUT /api/viewport.
func (h *CanvasHandler) viewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.app.Canvas().Resize(req.Width, req.Height); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.response())
}

// png handles GET /api/canvas.png?layer=...&scale=...
func (h *CanvasHandler) png(w http.ResponseWriter, r *http.Request) {
	layer, err := app.ParseLayer(r.URL.Query().Get("layer"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	scale := 1.0
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err = strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 1 {
			writeError(w, http.StatusBadRequest, "scale must be in (0,1]")
			return
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := h.app.Canvas().WritePNG(w, layer, scale); err != nil {
		http.Error(w, "Failed to encode image", http.StatusInternalServerError)
	}
}
