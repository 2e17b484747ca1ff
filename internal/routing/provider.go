// Package routing computes driving routes between the user and a hospital.
package routing

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/lifeline/internal/models"
)

// Provider is an interface that defines a method for computing a route.
// The Route method takes a context and both endpoints, and returns the path with its
// distance and duration or an error if no route could be computed.
type Provider interface {
	Route(ctx context.Context, from, to models.Coordinates) (*models.Route, error)
}

// ErrNoRoute is returned when the routing backend finds no path between the endpoints.
var ErrNoRoute = errors.New("no route found")
