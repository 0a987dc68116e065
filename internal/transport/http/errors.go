package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

// errBadRequest marks malformed or invalid request bodies.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

// mapDomainErrorToHTTP converts domain errors to an HTTP status and client message.
func mapDomainErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidCriteria),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrUnknownSortMode):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrResultsExpired):
		return http.StatusGone, err.Error()

	case errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict, err.Error()

	case errors.Is(err, domain.ErrSearchRejected):
		return http.StatusBadGateway, err.Error()

	case errors.Is(err, domain.ErrSearchUnavailable):
		return http.StatusServiceUnavailable, domain.ErrSearchUnavailable.Error()

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	status, message := mapDomainErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithField("status", status).Error("request failed")
	}
	writeJSON(w, status, errorResponse{Error: message})
}
