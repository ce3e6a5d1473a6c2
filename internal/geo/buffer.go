package geo

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// DefaultBufferSegments is the number of vertices used to approximate a circle.
const DefaultBufferSegments = 64

// BufferRing approximates a geodesic circle of radiusKM around (lon, lat)
// as a closed ring of [lon, lat] vertices.
func BufferRing(lon, lat, radiusKM float64, segments int) [][2]float64 {
	if segments < 3 {
		segments = DefaultBufferSegments
	}
	ring := make([][2]float64, 0, segments+1)
	for i := 0; i < segments; i++ {
		bearing := 360 * float64(i) / float64(segments)
		x, y := Destination(lon, lat, bearing, radiusKM)
		ring = append(ring, [2]float64{x, y})
	}
	return append(ring, ring[0])
}

// Buffer returns the buffer around (lon, lat) as a go-geom polygon in EPSG:4326.
func Buffer(lon, lat, radiusKM float64, segments int) (*geom.Polygon, error) {
	if radiusKM <= 0 {
		return nil, eris.Errorf("geo: buffer radius must be positive, got %f", radiusKM)
	}
	return RingPolygon(BufferRing(lon, lat, radiusKM, segments))
}

// RingPolygon wraps a closed [lon, lat] ring in a polygon.
func RingPolygon(ring [][2]float64) (*geom.Polygon, error) {
	flat := make([]float64, 0, len(ring)*2)
	for _, c := range ring {
		flat = append(flat, c[0], c[1])
	}
	poly := geom.NewPolygon(geom.XY).SetSRID(4326)
	if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
		return nil, eris.Wrap(err, "geo: build buffer polygon")
	}
	return poly, nil
}
