package rest

import (
	"net/http"

	"bitbucket.org/kleinnic74/dotto/loop"
	"github.com/gorilla/mux"
)

// StatsSource provides a snapshot of the frame loop; it must be safe to
// call from the HTTP goroutines
type StatsSource interface {
	Stats() loop.Stats
}

type FramesHandler struct {
	source StatsSource
}

func NewFramesHandler(source StatsSource) *FramesHandler {
	return &FramesHandler{source: source}
}

func (h *FramesHandler) InitRoutes(r *mux.Router) {
	r.HandleFunc("/frames", h.stats).Methods("GET")
}

func (h *FramesHandler) stats(w http.ResponseWriter, r *http.Request) {
	Respond(r).WithJSON(w, http.StatusOK, h.source.Stats())
}
