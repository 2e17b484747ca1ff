package models

import "time"

// Route is a computed path between the user and a hospital.
type Route struct {
	From     Coordinates   // From is the user position.
	To       Coordinates   // To is the hospital position.
	Path     []Coordinates // Path is the polyline, endpoints included.
	Meters   int           // Meters is the total driving distance.
	Duration time.Duration // Duration is the estimated travel time.
	Provider string        // Provider names the routing backend.
}
