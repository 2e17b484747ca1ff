// Package httpapi exposes the coordinator to presentation layers as a JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/broadcast"
	"github.com/UnknownOlympus/lifeline/internal/coordinator"
	"github.com/UnknownOlympus/lifeline/internal/geolocation"
	"github.com/UnknownOlympus/lifeline/internal/metrics"
	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is the part of the coordinator served over HTTP.
type Service interface {
	Snapshot() coordinator.Snapshot
	AcquireLocation(ctx context.Context) (geolocation.State, error)
	RetryLocation(ctx context.Context) (geolocation.State, error)
	QueryAI(ctx context.Context, problem string) (*models.AIRecommendation, error)
	SelectHospital(ctx context.Context, id models.HospitalID) (*models.Hospital, error)
	ClearSelection()
	ShowOnMap(ctx context.Context, slot models.Slot) (*models.Hospital, error)
	ViewDetails(ctx context.Context, slot models.Slot) (*models.HospitalDetails, error)
	HospitalDetails(ctx context.Context, id models.HospitalID) (*models.HospitalDetails, error)
	RefreshHospitalDetails(ctx context.Context, id models.HospitalID) (*models.HospitalDetails, error)
	SetDraft(message string)
	Broadcast(ctx context.Context, message string) (broadcast.Result, error)
	Trigger(ctx context.Context, description string) (broadcast.Result, error)
}

// History lists journaled SOS attempts. *repository.Repository satisfies it.
type History interface {
	ListRecentBroadcasts(ctx context.Context, limit int) ([]models.BroadcastRecord, error)
}

// Handler serves the coordinator API.
type Handler struct {
	svc     Service
	mapView json.Marshaler
	history History // optional
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler creates a handler. mapView renders the map as GeoJSON; history may be nil
// when no journal is configured.
func NewHandler(
	svc Service,
	mapView json.Marshaler,
	history History,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *Handler {
	return &Handler{svc: svc, mapView: mapView, history: history, log: log, metrics: metrics}
}

// Routes builds the router. timeout bounds every request.
func (h *Handler) Routes(timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.observe)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", h.state)
		r.Get("/map", h.mapGeoJSON)

		r.Post("/location/acquire", h.acquireLocation)
		r.Post("/location/retry", h.retryLocation)

		r.Post("/triage", h.queryAI)
		r.Post("/recommendations/{slot}/show", h.showOnMap)
		r.Get("/recommendations/{slot}/details", h.viewDetails)

		r.Put("/selection", h.selectHospital)
		r.Delete("/selection", h.clearSelection)

		r.Get("/hospitals/{id}/details", h.hospitalDetails)
		r.Post("/hospitals/{id}/refresh", h.refreshHospitalDetails)

		r.Route("/sos", func(r chi.Router) {
			r.Put("/draft", h.setDraft)
			r.Post("/broadcast", h.broadcast)
			r.Post("/trigger", h.trigger)
			r.Get("/history", h.sosHistory)
		})
	})

	return r
}

type problemRequest struct {
	Problem string `json:"problem"`
}

type selectionRequest struct {
	HospitalID models.HospitalID `json:"hospital_id"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type triggerRequest struct {
	Description string `json:"description"`
}

func (h *Handler) state(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Snapshot())
}

func (h *Handler) mapGeoJSON(w http.ResponseWriter, r *http.Request) {
	body, err := h.mapView.MarshalJSON()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) acquireLocation(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.AcquireLocation(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) retryLocation(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.RetryLocation(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) queryAI(w http.ResponseWriter, r *http.Request) {
	var req problemRequest
	if !h.decode(w, r, &req) {
		return
	}

	rec, err := h.svc.QueryAI(r.Context(), req.Problem)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) showOnMap(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slot(w, r)
	if !ok {
		return
	}

	hospital, err := h.svc.ShowOnMap(r.Context(), slot)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, hospital)
}

func (h *Handler) viewDetails(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slot(w, r)
	if !ok {
		return
	}

	details, err := h.svc.ViewDetails(r.Context(), slot)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) selectHospital(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.HospitalID == "" {
		writeBadRequest(w, "hospital_id is required")
		return
	}

	hospital, err := h.svc.SelectHospital(r.Context(), req.HospitalID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, hospital)
}

func (h *Handler) clearSelection(w http.ResponseWriter, _ *http.Request) {
	h.svc.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) hospitalDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.HospitalDetails(r.Context(), models.HospitalID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) refreshHospitalDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.RefreshHospitalDetails(r.Context(), models.HospitalID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) setDraft(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.svc.SetDraft(req.Message)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) broadcast(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Broadcast(r.Context(), req.Message)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) trigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Trigger(r.Context(), req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) sosHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "journal_disabled", Error: "SOS journal is not configured"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.history.ListRecentBroadcasts(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) slot(w http.ResponseWriter, r *http.Request) (models.Slot, bool) {
	slot := models.Slot(chi.URLParam(r, "slot"))
	switch slot {
	case models.SlotBest, models.SlotClosest, models.SlotAlternative:
		return slot, true
	default:
		writeBadRequest(w, "slot must be one of best, closest, alternative")
		return "", false
	}
}

// decode reads an optional JSON body into dst. An empty body leaves dst zero.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	h.log.DebugContext(r.Context(), "Invalid request body", "path", r.URL.Path, "error", err)
	writeBadRequest(w, "invalid request body: "+err.Error())

	return false
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
