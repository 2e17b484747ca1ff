// Package apperr defines the error taxonomy of the emergency flow and the user-facing
// message attached to each kind.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an emergency flow failure.
type Kind string

const (
	KindLocationPermissionDenied Kind = "location_permission_denied"
	KindLocationUnavailable      Kind = "location_unavailable"
	KindLocationTimeout          Kind = "location_timeout"
	KindLocationUnknown          Kind = "location_unknown"
	KindHospitalFetchFailed      Kind = "hospital_fetch_failed"
	KindAIQueryInvalid           Kind = "ai_query_invalid"
	KindAIQueryFailed            Kind = "ai_query_failed"
	KindResolutionNotFound       Kind = "resolution_not_found"
	KindBroadcastMissingLocation Kind = "broadcast_missing_location"
	KindBroadcastFailed          Kind = "broadcast_failed"
	KindUnauthorized             Kind = "unauthorized"
)

var userMessages = map[Kind]string{
	KindLocationPermissionDenied: "Location access was denied. Allow location access and retry location.",
	KindLocationUnavailable:      "Your position is currently unavailable. Retry location.",
	KindLocationTimeout:          "Getting your location took too long. Retry location.",
	KindLocationUnknown:          "An unknown error occurred while getting your location. Retry location.",
	KindHospitalFetchFailed:      "Nearby hospitals could not be loaded.",
	KindAIQueryInvalid:           "Describe the problem and make sure your location and nearby hospitals are loaded.",
	KindAIQueryFailed:            "Failed to get AI recommendation. Please try again.",
	KindResolutionNotFound:       "Hospital details not available.",
	KindBroadcastMissingLocation: "Location is required to send an emergency broadcast.",
	KindBroadcastFailed:          "Failed to send emergency broadcast. Please try again.",
	KindUnauthorized:             "Your session has expired. Please sign in again.",
}

// UserMessage returns the actionable text shown for kind.
func UserMessage(kind Kind) string {
	if msg, ok := userMessages[kind]; ok {
		return msg
	}

	return "Something went wrong."
}

// Error is a classified failure.
type Error struct {
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with the default user message.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: UserMessage(kind), Err: err}
}

// Invalid creates an ai_query_invalid style error carrying field details.
func Invalid(kind Kind, details map[string]string) *Error {
	return &Error{Kind: kind, Message: UserMessage(kind), Details: details}
}

// KindOf extracts the kind from err, or "" when err is not classified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
