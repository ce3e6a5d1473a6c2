package model

import "time"

// Neighbor is another scheme and its distance from the row's scheme.
type Neighbor struct {
	Scheme     string  `json:"scheme2"`
	Status     Status  `json:"status2"`
	DistanceKM float64 `json:"distance_km"`
}

// ProximityRow aggregates the distances from one scheme to all others.
// Neighbors are ordered by ascending distance.
type ProximityRow struct {
	Scheme        string     `json:"scheme1"`
	Status        Status     `json:"status1"`
	MinDistanceKM float64    `json:"min_distance"`
	AvgDistanceKM float64    `json:"avg_distance"`
	MaxDistanceKM float64    `json:"max_distance"`
	Neighbors     []Neighbor `json:"nearest_neighbors"`
}

// StatusProximityRow aggregates distances between schemes of two different statuses.
// WithinCount counts the pairs at most WithinKM apart.
type StatusProximityRow struct {
	Status1          Status  `json:"status1"`
	Status2          Status  `json:"status2"`
	MinDistanceKM    float64 `json:"min_distance"`
	AvgDistanceKM    float64 `json:"avg_distance"`
	MaxDistanceKM    float64 `json:"max_distance"`
	TotalComparisons int     `json:"total_comparisons"`
	WithinKM         float64 `json:"within_km"`
	WithinCount      int     `json:"schemes_within"`
}

// BufferRow is a circular buffer around a scheme and the schemes it contains.
// Ring is a closed [lon, lat] ring.
type BufferRow struct {
	Scheme        string       `json:"scheme_name"`
	Status        Status       `json:"status"`
	RadiusKM      float64      `json:"radius_km"`
	Ring          [][2]float64 `json:"ring"`
	SchemesWithin []string     `json:"schemes_within"`
}

// Run is a saved proximity analysis. Listings leave Schemes, Proximity and
// StatusPairs empty.
type Run struct {
	ID          string               `json:"id"`
	SchemeCount int                  `json:"scheme_count"`
	Schemes     []Scheme             `json:"schemes,omitempty"`
	Proximity   []ProximityRow       `json:"proximity,omitempty"`
	StatusPairs []StatusProximityRow `json:"status_pairs,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}
