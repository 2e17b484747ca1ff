package geolocation

import (
	"context"
	"errors"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/apperr"
	"github.com/UnknownOlympus/lifeline/internal/models"
)

// Accuracy is the requested precision tier of a fix.
type Accuracy string

const (
	AccuracyHigh Accuracy = "high"
	AccuracyLow  Accuracy = "low"
)

// Request carries the options for one location attempt.
type Request struct {
	Accuracy   Accuracy      // Accuracy is the requested precision tier.
	Timeout    time.Duration // Timeout bounds the attempt.
	MaximumAge time.Duration // MaximumAge allows reusing a cached fix this young.
}

// Locator is an interface that defines a method for obtaining the device position.
// Implementations report failures with ErrPermissionDenied, ErrPositionUnavailable or
// ErrTimeout; anything else is treated as unknown.
type Locator interface {
	Locate(ctx context.Context, req Request) (*models.Coordinates, error)
}

// Common locator errors.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
)

// ErrorKind classifies a failed acquisition.
type ErrorKind string

const (
	ErrorPermissionDenied    ErrorKind = "permission_denied"
	ErrorPositionUnavailable ErrorKind = "position_unavailable"
	ErrorTimeout             ErrorKind = "timeout"
	ErrorUnknown             ErrorKind = "unknown"
)

// Classify maps a locator error onto an ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return ErrorPermissionDenied
	case errors.Is(err, ErrPositionUnavailable):
		return ErrorPositionUnavailable
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrorTimeout
	default:
		return ErrorUnknown
	}
}

// AppKind returns the user-facing error kind for k.
func (k ErrorKind) AppKind() apperr.Kind {
	switch k {
	case ErrorPermissionDenied:
		return apperr.KindLocationPermissionDenied
	case ErrorPositionUnavailable:
		return apperr.KindLocationUnavailable
	case ErrorTimeout:
		return apperr.KindLocationTimeout
	default:
		return apperr.KindLocationUnknown
	}
}
