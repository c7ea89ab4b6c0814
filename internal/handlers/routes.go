package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ethanhanderson/church-presenter-sub001/internal/livesync"
)

// SetupRoutes wires the control process routes: operator API, collaborator
// media/font serving, and the output attach endpoint.
func SetupRoutes(liveHandler *LiveHandler, mediaHandler *MediaHandler, statusHandler *StatusHandler, hub *livesync.Hub) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presentation/open", liveHandler.OpenPresentation).Methods(http.MethodPost)
	api.HandleFunc("/presentation/save", liveHandler.SavePresentation).Methods(http.MethodPost)
	api.HandleFunc("/presentation/close", liveHandler.ClosePresentation).Methods(http.MethodPost)

	api.HandleFunc("/live/start", liveHandler.GoLive).Methods(http.MethodPost)
	api.HandleFunc("/live/end", liveHandler.EndLive).Methods(http.MethodPost)
	api.HandleFunc("/live/slide", liveHandler.SetSlide).Methods(http.MethodPost)
	api.HandleFunc("/live/advance", liveHandler.Advance).Methods(http.MethodPost)
	api.HandleFunc("/live/retreat", liveHandler.Retreat).Methods(http.MethodPost)
	api.HandleFunc("/live/blackout", liveHandler.Blackout).Methods(http.MethodPost)
	api.HandleFunc("/live/clear", liveHandler.Clear).Methods(http.MethodPost)
	api.HandleFunc("/live/state", liveHandler.GetState).Methods(http.MethodGet)

	api.HandleFunc("/media/{id}", mediaHandler.GetMedia).Methods(http.MethodGet)
	api.HandleFunc("/fonts/{id}", mediaHandler.GetFont).Methods(http.MethodGet)

	api.HandleFunc("/status", statusHandler.GetStatus).Methods(http.MethodGet)
	api.HandleFunc("/connect/qr", statusHandler.GetConnectQR).Methods(http.MethodGet)

	router.HandleFunc("/ws/output", hub.ServeWS)

	return router
}
