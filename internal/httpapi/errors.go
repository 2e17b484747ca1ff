package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnknownOlympus/lifeline/internal/apperr"
	"github.com/UnknownOlympus/lifeline/internal/backend"
	"github.com/UnknownOlympus/lifeline/internal/coordinator"
	"github.com/UnknownOlympus/lifeline/internal/directory"
	"github.com/UnknownOlympus/lifeline/internal/geolocation"
)

type errorBody struct {
	Code    string            `json:"code"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindLocationPermissionDenied: http.StatusUnprocessableEntity,
	apperr.KindLocationUnavailable:      http.StatusUnprocessableEntity,
	apperr.KindLocationTimeout:          http.StatusUnprocessableEntity,
	apperr.KindLocationUnknown:          http.StatusUnprocessableEntity,
	apperr.KindHospitalFetchFailed:      http.StatusBadGateway,
	apperr.KindAIQueryInvalid:           http.StatusBadRequest,
	apperr.KindAIQueryFailed:            http.StatusBadGateway,
	apperr.KindResolutionNotFound:       http.StatusNotFound,
	apperr.KindBroadcastMissingLocation: http.StatusConflict,
	apperr.KindBroadcastFailed:          http.StatusBadGateway,
	apperr.KindUnauthorized:             http.StatusUnauthorized,
}

// writeError maps err onto a status code and a JSON body. Classified errors carry their
// user-facing message; everything else is reported without internals.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	} else {
		h.log.DebugContext(r.Context(), "Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}

	writeJSON(w, status, body)
}

func classify(err error) (int, errorBody) {
	// unauthorized wins over the kind it is wrapped in
	if errors.Is(err, backend.ErrUnauthorized) {
		kind := apperr.KindUnauthorized
		return http.StatusUnauthorized, errorBody{Code: string(kind), Error: apperr.UserMessage(kind)}
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status, ok := kindStatus[appErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		return status, errorBody{Code: string(appErr.Kind), Error: appErr.Message, Details: appErr.Details}
	}

	var statusErr *backend.StatusError
	switch {
	case errors.Is(err, geolocation.ErrAcquisitionInProgress),
		errors.Is(err, geolocation.ErrRetryNotAllowed),
		errors.Is(err, coordinator.ErrQuerySuperseded):
		return http.StatusConflict, errorBody{Code: "conflict", Error: err.Error()}
	case errors.Is(err, coordinator.ErrNoHospital):
		return http.StatusNotFound, errorBody{Code: "not_found", Error: err.Error()}
	case errors.Is(err, directory.ErrEmptyID):
		return http.StatusBadRequest, errorBody{Code: "bad_request", Error: err.Error()}
	case errors.Is(err, coordinator.ErrClosed):
		return http.StatusServiceUnavailable, errorBody{Code: "unavailable", Error: "service is shutting down"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorBody{Code: "timeout", Error: "request timed out"}
	case errors.As(err, &statusErr):
		if statusErr.Code == http.StatusNotFound {
			return http.StatusNotFound, errorBody{Code: "not_found", Error: "not found"}
		}
		return http.StatusBadGateway, errorBody{Code: "backend_error", Error: "backend request failed"}
	default:
		return http.StatusInternalServerError, errorBody{Code: "internal", Error: "internal server error"}
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Error: msg})
}
