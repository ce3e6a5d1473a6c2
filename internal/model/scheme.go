// Package model defines the feature and result types shared across hydromap.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the lifecycle stage of a hydropower scheme.
type Status string

const (
	StatusOperational       Status = "Operational"
	StatusUnderConstruction Status = "Under Construction"
	StatusPlanned           Status = "Planned"
	StatusProposed          Status = "Proposed"
	StatusDecommissioned    Status = "Decommissioned"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{
	StatusOperational,
	StatusUnderConstruction,
	StatusPlanned,
	StatusProposed,
	StatusDecommissioned,
}

// ParseStatus canonicalises a raw status value ("under  construction",
// "PLANNED") to one of the known statuses.
func ParseStatus(raw string) (Status, error) {
	norm := strings.Join(strings.Fields(raw), " ")
	if norm == "" {
		return "", eris.New("model: empty status")
	}
	// Casers are stateful, so each call gets its own.
	s := Status(cases.Title(language.English).String(strings.ToLower(norm)))
	for _, known := range Statuses {
		if s == known {
			return s, nil
		}
	}
	return "", eris.Errorf("model: unknown status %q", raw)
}

// Scheme is a hydropower generation site. Coordinates are WGS84 degrees.
type Scheme struct {
	Name      string  `json:"name"`
	Status    Status  `json:"status"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}
