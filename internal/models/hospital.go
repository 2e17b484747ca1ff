package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// HospitalID identifies a hospital in the directory. The backend emits numeric ids for
// seeded facilities and string ids for OSM-sourced ones, so both decode into a string.
type HospitalID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *HospitalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode hospital id: %w", err)
		}
		*id = HospitalID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode hospital id: %w", err)
	}
	*id = HospitalID(n.String())

	return nil
}

// Hospital is a nearby medical facility as returned by the directory service.
type Hospital struct {
	ID         HospitalID `json:"id"`
	Name       string     `json:"name"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	DistanceKm float64    `json:"distance"`
	Rating     *float64   `json:"rating,omitempty"`
	Type       string     `json:"type,omitempty"`
}

// Coordinates returns the hospital position.
func (h Hospital) Coordinates() Coordinates {
	return Coordinates{Latitude: h.Latitude, Longitude: h.Longitude}
}

// HospitalDetails is the enriched record served by the hospital details endpoint.
type HospitalDetails struct {
	ID           HospitalID      `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Website      string          `json:"website,omitempty"`
	OpeningHours []string        `json:"opening_hours,omitempty"`
	Specialties  []string        `json:"specialties,omitempty"`
	Rating       *float64        `json:"rating,omitempty"`
	Emergency    bool            `json:"emergency,omitempty"`
	UpdatedAt    string          `json:"updated_at,omitempty"`
	Raw          json.RawMessage `json:"-"`
}
