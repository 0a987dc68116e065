package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type healthResponse struct {
	Status string `json:"status"`
}

// NewRouter builds the REST router with its middleware chain.
func NewRouter(search *SearchHandler, events *EventsHandler, logger logrus.FieldLogger) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(logger))
	router.Use(ExtractTraceInfoMiddleware)
	router.Use(MiddlewareContentTypeSet)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}).Methods(http.MethodGet)

	search.Init(router)
	events.Init(router)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	return router
}
