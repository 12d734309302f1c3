package rest

import (
	"fmt"
	"net/http"

	"bitbucket.org/kleinnic74/dotto/logging"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// logsHandler exports the recent log lines kept in memory. order=oldest
// lists them in the order they were written.
type logsHandler struct{}

func NewLogsHandler() logsHandler {
	return logsHandler{}
}

func (l logsHandler) InitRoutes(r *mux.Router) {
	r.Handle("/logs", l).Methods("GET")
}

func (l logsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var newestFirst bool
	switch order := r.URL.Query().Get("order"); order {
	case "", "newest":
		newestFirst = true
	case "oldest":
	default:
		Respond(r).WithError(w, http.StatusBadRequest, fmt.Errorf("unknown order %q", order))
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if err := logging.Dump(w, newestFirst); err != nil {
		logging.From(r.Context()).Warn("Failed to export logs", zap.Error(err))
	}
}
