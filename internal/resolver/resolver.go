// Package resolver maps the advisor's free-text hospital names back to directory entries.
package resolver

import (
	"strings"

	"github.com/UnknownOlympus/lifeline/internal/models"
)

// Resolve returns the first hospital, in list order, whose name contains name or is
// contained in it, ignoring case. The result points into hospitals. It returns nil
// when name is empty or nothing matches.
//
// Names sharing common words resolve to the earliest (nearest) entry:
// "City Hospital" matches "City Hospital Annex" if the annex is listed first.
func Resolve(name string, hospitals []models.Hospital) *models.Hospital {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	for i := range hospitals {
		candidate := strings.ToLower(strings.TrimSpace(hospitals[i].Name))
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return &hospitals[i]
		}
	}

	return nil
}

// ByID returns the hospital with the given id, or nil.
func ByID(id models.HospitalID, hospitals []models.Hospital) *models.Hospital {
	for i := range hospitals {
		if hospitals[i].ID == id {
			return &hospitals[i]
		}
	}

	return nil
}
