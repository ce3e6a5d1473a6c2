package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusKM is the IUGG mean radius of the WGS84 ellipsoid.
const EarthRadiusKM = 6371.0088

// DistanceKM returns the great-circle distance between two lon/lat points.
// The arguments are put in a canonical order first so that
// DistanceKM(a, b) and DistanceKM(b, a) are bit-identical.
func DistanceKM(lon1, lat1, lon2, lat2 float64) float64 {
	if lon2 < lon1 || (lon2 == lon1 && lat2 < lat1) {
		lon1, lat1, lon2, lat2 = lon2, lat2, lon1, lat1
	}
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKM
}

// Destination returns the point reached by travelling distanceKM from
// (lon, lat) along the initial bearing (degrees clockwise from north).
func Destination(lon, lat, bearing, distanceKM float64) (float64, float64) {
	p := s2.LatLngFromDegrees(lat, lon)
	brng := bearing * math.Pi / 180
	ang := distanceKM / EarthRadiusKM

	latRad := p.Lat.Radians()
	lonRad := p.Lng.Radians()

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(ang) +
		math.Cos(latRad)*math.Sin(ang)*math.Cos(brng))
	lon2 := lonRad + math.Atan2(
		math.Sin(brng)*math.Sin(ang)*math.Cos(latRad),
		math.Cos(ang)-math.Sin(latRad)*math.Sin(lat2))

	lonDeg := math.Mod(lon2*180/math.Pi+540, 360) - 180
	return lonDeg, lat2 * 180 / math.Pi
}

// RoundKM rounds a distance to two decimals, the precision used in tables.
func RoundKM(km float64) float64 {
	return math.Round(km*100) / 100
}
