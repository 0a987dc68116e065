package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/light-bringer/staysearch-service/internal/app/search/queries/get_view"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/apply_filters"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/change_sort"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/load_more"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/modify_search"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/reset_filters"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/select_listing"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/start_search"
)

const tracerName = "github.com/light-bringer/staysearch-service/internal/transport/http"

// SearchCommands groups the write use cases behind the search routes.
type SearchCommands struct {
	StartSearch   *start_search.Interactor
	ModifySearch  *modify_search.Interactor
	ApplyFilters  *apply_filters.Interactor
	ResetFilters  *reset_filters.Interactor
	ChangeSort    *change_sort.Interactor
	LoadMore      *load_more.Interactor
	SelectListing *select_listing.Interactor
}

// SearchQueries groups the read use cases behind the search routes.
type SearchQueries struct {
	GetView *get_view.Query
}

// SearchHandler serves the /api/v1/searches routes.
type SearchHandler struct {
	commands SearchCommands
	queries  SearchQueries
	logger   logrus.FieldLogger
	tracer   trace.Tracer
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(commands SearchCommands, queries SearchQueries, logger logrus.FieldLogger) *SearchHandler {
	return &SearchHandler{
		commands: commands,
		queries:  queries,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// Init registers the search routes.
func (h *SearchHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/v1/searches", h.Start).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/searches/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/searches/{id}/criteria", h.Modify).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/searches/{id}/filters", h.ApplyFilters).Methods(http.MethodPatch)
	router.HandleFunc("/api/v1/searches/{id}/filters", h.ResetFilters).Methods(http.MethodDelete)
	router.HandleFunc("/api/v1/searches/{id}/sort", h.ChangeSort).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/searches/{id}/pages", h.LoadMore).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/searches/{id}/selection", h.Select).Methods(http.MethodPost)
}

func (h *SearchHandler) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx, span := h.tracer.Start(r.Context(), name)
	if id, ok := mux.Vars(r)["id"]; ok {
		span.SetAttributes(attribute.String("search.session_id", id))
	}
	return ctx, span
}

func (h *SearchHandler) fail(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	writeError(w, h.logger, err)
}

// Start handles POST /api/v1/searches.
func (h *SearchHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "SearchHandler.Start")
	defer span.End()

	var body criteriaRequest
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, span, err)
		return
	}
	checkIn, checkOut, rooms, err := body.criteria()
	if err != nil {
		h.fail(w, span, err)
		return
	}

	resp, err := h.commands.StartSearch.Execute(ctx, &start_search.Request{
		Destination: body.Destination,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Rooms:       rooms,
		Residency:   body.Residency,
		Currency:    body.Currency,
	})
	if err != nil {
		h.fail(w, span, err)
		return
	}

	span.SetAttributes(attribute.String("search.session_id", resp.SessionID))
	writeJSON(w, http.StatusCreated, startSearchResponse{
		SessionID: resp.SessionID,
		Criteria:  toCriteriaResponse(resp.Criteria),
		View:      toViewResponse(resp.View),
		Demo:      resp.Demo,
	})
}

// Get handles GET /api/v1/searches/{id}.
func (h *SearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "SearchHandler.Get")
	defer span.End()

	resp, err := h.queries.GetView.Execute(ctx, &get_view.Request{SessionID: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, span, err)
		return
	}

	s := resp.Summary
	writeJSON(w, http.StatusOK, getViewResponse{
		SessionID:         s.SessionID,
		Criteria:          toCriteriaResponse(s.Criteria),
		Filters:           toFiltersResponse(s.Filters),
		DefaultFilters:    toFiltersResponse(s.DefaultFilters),
		Sort:              string(s.Sort),
		SelectedListingID: s.SelectedListingID,
		ResultCount:       s.ResultCount,
		Demo:              s.Demo,
		View:              toViewResponse(resp.View),
	})
}

// Modify handles PUT /api/v1/searches/{id}/criteria.
func (h *SearchHandler) Modify(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "SearchHandler.Modify")
	defer span.End()

	var body criteriaRequest
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, span, err)
		return
	}
	checkIn, checkOut, rooms, err := body.criteria()
	if err != nil {
		h.fail(w, span, err)
		return
	}

	resp, err := h.commands.ModifySearch.Execute(ctx, &modify_search.Request{
		SessionID:   mux.Vars(r)["id"],
		Destination: body.Destination,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Rooms:       rooms,
		Residency:   body.Residency,
		Currency:    body.Currency,
	})
	if err != nil {
		h.fail(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, modifySearchResponse{
		Criteria: toCriteriaResponse(resp.Criteria),
		View:     toViewResponse(resp.View),
		Demo:     resp.Demo,
	})
}

// ApplyFilters handles PATCH /api/v1/searches/{id}/filters.
func (h *SearchHandler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "SearchHandler.ApplyFilters")
	defer span.End()

	var body filterRequest
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, span, err)
		return
	}

	view, err := h.commands.ApplyFilters.Execute(ctx, &apply_filters.Request{
		SessionID: mux.Vars(r)["id"],
		Patch:     body.patch(),
	})
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, toViewResponse(*view))
}

// ResetFilters handles DELETE /api/v1/searches/{id}/filters.
func (h *SearchHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "SearchHandler.ResetFilters")
	defer span.End()

	view, err := h.commands.ResetFilters.Execute(ctx, &reset_filters.Request{SessionID: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, toViewResponse(*view))
}

// ChangeSort handles PUT /api/v1/searches/{id}/sort.
func (h *SearchHandler) ChangeSort(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "SearchHandler.ChangeSort")
	defer span.End()

	var body sortRequest
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, span, err)
		return
	}

	view, err := h.commands.ChangeSort.Execute(ctx, &change_sort.Request{
		SessionID: mux.Vars(r)["id"],
		Sort:      body.Sort,
	})
	if err != nil {
		h.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, toViewResponse(*view))
}

// LoadMore handles POST /api/v1/searches/{id}/pages.
func (h *SearchHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "SearchHandler.LoadMore")
	defer span.End()

	resp, err := h.commands.LoadMore.Execute(ctx, &load_more.Request{SessionID: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, span, err)
		return
	}

	span.SetAttributes(attribute.Int("search.revealed", len(resp.Listings)))
	writeJSON(w, http.StatusOK, loadMoreResponse{
		Listings:     toListingResponses(resp.Listings),
		TotalMatched: resp.TotalMatched,
		HasMore:      resp.HasMore,
		Page:         resp.Page,
	})
}

// Select handles POST /api/v1/searches/{id}/selection.
func (h *SearchHandler) Select(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "SearchHandler.Select")
	defer span.End()

	var body selectionRequest
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, span, err)
		return
	}

	resp, err := h.commands.SelectListing.Execute(ctx, &select_listing.Request{
		SessionID: mux.Vars(r)["id"],
		ListingID: body.ListingID,
	})
	if err != nil {
		h.fail(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, selectionResponse{
		Listing:   toListingResponse(resp.Listing),
		Nights:    resp.Nights,
		StayTotal: resp.StayTotal,
		Currency:  resp.Listing.Currency,
		Criteria:  toCriteriaResponse(resp.Criteria),
	})
}
