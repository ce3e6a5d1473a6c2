// Package geo provides coordinate transforms, geodesic distances, buffers
// and the distance and place classifications used on the maps.
package geo

// Proximity classes for a pair of schemes.
const (
	ClassNear = "near"
	ClassFar  = "far"
)

// Place tiers derived from the CLASS attribute of the places layer.
const (
	TierCity    = "city"
	TierTown    = "town"
	TierVillage = "village"
)

// ClassifyDistance returns ClassNear when distanceKM is strictly below
// thresholdKM and ClassFar otherwise.
func ClassifyDistance(distanceKM, thresholdKM float64) string {
	if distanceKM < thresholdKM {
		return ClassNear
	}
	return ClassFar
}

// ClassifyPlace maps a places CLASS code to a tier.
// Rules:
//   - city: class 1
//   - town: class 2 or 3
//   - village: anything else
func ClassifyPlace(class int) string {
	switch {
	case class == 1:
		return TierCity
	case class <= 3:
		return TierTown
	default:
		return TierVillage
	}
}
