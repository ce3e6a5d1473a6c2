package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferRing_Closed(t *testing.T) {
	ring := BufferRing(34.0, -13.5, 10, 16)
	require.Len(t, ring, 17)
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestBufferRing_Radius(t *testing.T) {
	ring := BufferRing(34.0, -13.5, 10, 32)
	for _, c := range ring {
		assert.InDelta(t, 10, DistanceKM(34.0, -13.5, c[0], c[1]), 0.001)
	}
}

func TestBufferRing_DefaultSegments(t *testing.T) {
	ring := BufferRing(34.0, -13.5, 10, 0)
	assert.Len(t, ring, DefaultBufferSegments+1)
}

func TestBuffer_Polygon(t *testing.T) {
	poly, err := Buffer(34.0, -13.5, 10, 32)
	require.NoError(t, err)
	assert.Equal(t, 1, poly.NumLinearRings())
	assert.Equal(t, 33, poly.LinearRing(0).NumCoords())
	assert.Equal(t, 4326, poly.SRID())
}

func TestBuffer_InvalidRadius(t *testing.T) {
	_, err := Buffer(34.0, -13.5, 0, 32)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radius must be positive")
}
