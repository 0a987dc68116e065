package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/light-bringer/staysearch-service/internal/app/search/queries/list_events"
)

// EventsHandler handles HTTP requests for outbox events.
type EventsHandler struct {
	query  *list_events.Query
	logger logrus.FieldLogger
}

// NewEventsHandler creates a new HTTP events handler.
func NewEventsHandler(query *list_events.Query, logger logrus.FieldLogger) *EventsHandler {
	return &EventsHandler{
		query:  query,
		logger: logger,
	}
}

// Event represents a domain event in the HTTP response.
type Event struct {
	EventID      string  `json:"event_id"`
	EventType    string  `json:"event_type"`
	AggregateID  string  `json:"aggregate_id"`
	Payload      string  `json:"payload"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
	ProcessedAt  *string `json:"processed_at,omitempty"`
	RetryCount   int64   `json:"retry_count"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

// ListEventsResponse represents the HTTP response for listing events.
type ListEventsResponse struct {
	Events     []Event `json:"events"`
	TotalCount int64   `json:"total_count"`
}

// Init registers the events route.
func (h *EventsHandler) Init(router *mux.Router) {
	router.Handle("/api/v1/events", h).Methods(http.MethodGet)
}

// ServeHTTP handles GET /api/v1/events requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	req := &list_events.Request{}

	if eventType := query.Get("event_type"); eventType != "" {
		req.EventType = &eventType
	}

	if aggregateID := query.Get("aggregate_id"); aggregateID != "" {
		req.AggregateID = &aggregateID
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			req.Limit = limit
		}
	}

	resp, err := h.query.Execute(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	events := make([]Event, 0, len(resp.Events))
	for _, data := range resp.Events {
		event := Event{
			EventID:     data.EventID,
			EventType:   data.EventType,
			AggregateID: data.AggregateID,
			Status:      data.Status,
			CreatedAt:   data.CreatedAt.Format(time.RFC3339),
			RetryCount:  data.RetryCount,
		}
		if data.Payload.Valid {
			if raw, err := data.Payload.MarshalJSON(); err == nil {
				event.Payload = string(raw)
			}
		}
		if data.ProcessedAt.Valid {
			processedAt := data.ProcessedAt.Time.Format(time.RFC3339)
			event.ProcessedAt = &processedAt
		}
		if data.ErrorMessage.Valid {
			msg := data.ErrorMessage.StringVal
			event.ErrorMessage = &msg
		}
		events = append(events, event)
	}

	writeJSON(w, http.StatusOK, ListEventsResponse{
		Events:     events,
		TotalCount: resp.TotalCount,
	})
}
