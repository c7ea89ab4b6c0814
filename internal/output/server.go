package output

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// Server is the output process's surface toward the window/display host:
// the host polls the current frame and pushes resize notifications.
type Server struct {
	renderer *Renderer
	logger   *slog.Logger
}

// NewServer creates the host-facing server.
func NewServer(renderer *Renderer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{renderer: renderer, logger: logger}
}

// Routes builds the host-facing router.
func (s *Server) Routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/frame", s.GetFrame).Methods(http.MethodGet)
	router.HandleFunc("/resize", s.PostResize).Methods(http.MethodPost)
	return router
}

// GetFrame returns the current renderable tree.
// GET /frame
func (s *Server) GetFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.renderer.Frame())
}

// ResizeRequest is one resize notification from the display host.
type ResizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PostResize records the new measured container size.
// POST /resize
func (s *Server) PostResize(w http.ResponseWriter, r *http.Request) {
	var req ResizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	s.renderer.Resize(models.Size{Width: req.Width, Height: req.Height})
	w.WriteHeader(http.StatusNoContent)
}
