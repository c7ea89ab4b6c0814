package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ethanhanderson/church-presenter-sub001/internal/bundle"
	"github.com/ethanhanderson/church-presenter-sub001/internal/live"
)

// LiveHandler exposes the operator control surface over HTTP. Every call
// mutates through the controller, which rebroadcasts to attached outputs.
type LiveHandler struct {
	controller *live.Controller
	store      *bundle.Store
	logger     *slog.Logger
}

// NewLiveHandler creates a live handler.
func NewLiveHandler(controller *live.Controller, store *bundle.Store, logger *slog.Logger) *LiveHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveHandler{controller: controller, store: store, logger: logger}
}

// OpenPresentationRequest names the bundle to load.
type OpenPresentationRequest struct {
	Path string `json:"path"`
}

// OpenPresentationResponse reports the loaded document.
type OpenPresentationResponse struct {
	Success bool   `json:"success"`
	Title   string `json:"title,omitempty"`
	Slides  int    `json:"slides"`
}

// OpenPresentation loads a bundle and broadcasts it.
// POST /api/presentation/open
func (h *LiveHandler) OpenPresentation(w http.ResponseWriter, r *http.Request) {
	var req OpenPresentationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	if err := h.controller.OpenPresentation(req.Path); err != nil {
		h.logger.Error("open presentation failed", "path", req.Path, "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	p := h.controller.Presentation()
	writeJSON(w, OpenPresentationResponse{Success: true, Title: p.Title, Slides: len(p.Slides)})
}

// SavePresentationRequest names the target path; empty saves in place.
type SavePresentationRequest struct {
	Path string `json:"path,omitempty"`
}

// SavePresentation writes the loaded document back to a bundle.
// POST /api/presentation/save
func (h *LiveHandler) SavePresentation(w http.ResponseWriter, r *http.Request) {
	var req SavePresentationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	p := h.controller.Presentation()
	if p == nil {
		http.Error(w, "no presentation loaded", http.StatusConflict)
		return
	}
	src := h.controller.State().PresentationPath
	path := req.Path
	if path == "" {
		path = src
	}
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Save(path, p, src); err != nil {
		h.logger.Error("save presentation failed", "path", path, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// ClosePresentation drops the document and blanks outputs.
// POST /api/presentation/close
func (h *LiveHandler) ClosePresentation(w http.ResponseWriter, r *http.Request) {
	h.controller.ClosePresentation()
	writeJSON(w, map[string]bool{"success": true})
}

// GoLive marks the session live.
// POST /api/live/start
func (h *LiveHandler) GoLive(w http.ResponseWriter, r *http.Request) {
	h.controller.GoLive()
	writeJSON(w, h.controller.State())
}

// EndLive ends the session.
// POST /api/live/end
func (h *LiveHandler) EndLive(w http.ResponseWriter, r *http.Request) {
	h.controller.EndLive()
	writeJSON(w, h.controller.State())
}

// SetSlideRequest selects a slide by id.
type SetSlideRequest struct {
	SlideID string `json:"slideId"`
}

// SetSlide makes a slide current.
// POST /api/live/slide
func (h *LiveHandler) SetSlide(w http.ResponseWriter, r *http.Request) {
	var req SetSlideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.SlideID == "" {
		http.Error(w, "slideId is required", http.StatusBadRequest)
		return
	}

	if err := h.controller.SetSlide(req.SlideID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, h.controller.State())
}

// Advance fires the next build or slide.
// POST /api/live/advance
func (h *LiveHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.controller.Advance()
	writeJSON(w, h.controller.State())
}

// Retreat rewinds the last build or slide.
// POST /api/live/retreat
func (h *LiveHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.controller.Retreat()
	writeJSON(w, h.controller.State())
}

// ToggleRequest switches a show flag.
type ToggleRequest struct {
	On bool `json:"on"`
}

// Blackout toggles blackout on every output.
// POST /api/live/blackout
func (h *LiveHandler) Blackout(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	h.controller.SetBlackout(req.On)
	writeJSON(w, h.controller.State())
}

// Clear toggles layer clearing (background stays).
// POST /api/live/clear
func (h *LiveHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	h.controller.SetClear(req.On)
	writeJSON(w, h.controller.State())
}

// GetState returns the authoritative live state.
// GET /api/live/state
func (h *LiveHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.controller.State())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
