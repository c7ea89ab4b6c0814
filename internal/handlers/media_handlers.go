package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ethanhanderson/church-presenter-sub001/internal/bundle"
	"github.com/ethanhanderson/church-presenter-sub001/internal/live"
)

// MediaHandler resolves media and font ids to bytes from the loaded bundle.
// Output processes fetch from here instead of opening the bundle themselves.
type MediaHandler struct {
	controller *live.Controller
	store      *bundle.Store
	logger     *slog.Logger
}

// NewMediaHandler creates a media handler.
func NewMediaHandler(controller *live.Controller, store *bundle.Store, logger *slog.Logger) *MediaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaHandler{controller: controller, store: store, logger: logger}
}

// GetMedia serves one media file by manifest id.
// GET /api/media/{id}
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p := h.controller.Presentation()
	if p == nil {
		http.Error(w, "no presentation loaded", http.StatusNotFound)
		return
	}
	entry, ok := p.MediaByID(id)
	if !ok {
		http.Error(w, "unknown media id", http.StatusNotFound)
		return
	}

	data, err := h.store.ReadMedia(h.controller.State().PresentationPath, entry.Path)
	if err != nil {
		h.logger.Warn("media read failed", "media", id, "err", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", entry.Mime)
	w.Write(data)
}

// GetFont serves one embedded font file by manifest id.
// GET /api/fonts/{id}
func (h *MediaHandler) GetFont(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p := h.controller.Presentation()
	if p == nil {
		http.Error(w, "no presentation loaded", http.StatusNotFound)
		return
	}

	for _, entry := range p.Fonts {
		if entry.ID != id {
			continue
		}
		data, err := h.store.ReadMedia(h.controller.State().PresentationPath, entry.Path)
		if err != nil {
			h.logger.Warn("font read failed", "font", id, "err", err)
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "font/ttf")
		w.Write(data)
		return
	}
	http.Error(w, "unknown font id", http.StatusNotFound)
}
