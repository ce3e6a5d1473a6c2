package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placesFixture = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Point","coordinates":[33.78,-13.98]},
   "properties":{"fid":1,"NAME":"Lilongwe","ADMIN1":"Central","COUNTRY":"Malawi","CNTRY_FIPS":"MI",
                 "TYPE":2,"CLASS":1,"LONGITUDE":33.7741,"LATITUDE":-13.9626,"ID":101.0}},
  {"type":"Feature","geometry":{"type":"Point","coordinates":[35.33,-15.38]},
   "properties":{"fid":"2","NAME":"Zomba","ADMIN1":"Southern","CLASS":"3"}}
]}`

func TestReadPlaces(t *testing.T) {
	places, err := ReadPlaces(strings.NewReader(placesFixture))
	require.NoError(t, err)
	require.Len(t, places, 2)

	lilongwe := places[0]
	assert.Equal(t, int64(1), lilongwe.FID)
	assert.Equal(t, "Lilongwe", lilongwe.Name)
	assert.Equal(t, "Central", lilongwe.Admin1)
	assert.Equal(t, "Malawi", lilongwe.Country)
	assert.Equal(t, "MI", lilongwe.CntryFIPS)
	assert.Equal(t, 2, lilongwe.Type)
	assert.Equal(t, 1, lilongwe.Class)
	// Attribute coordinates win over the geometry.
	assert.Equal(t, 33.7741, lilongwe.Longitude)
	assert.Equal(t, -13.9626, lilongwe.Latitude)
	assert.Equal(t, 101.0, lilongwe.ID)

	zomba := places[1]
	assert.Equal(t, int64(2), zomba.FID)
	assert.Equal(t, 3, zomba.Class)
	assert.Equal(t, 35.33, zomba.Longitude)
	assert.Equal(t, -15.38, zomba.Latitude)
}

func TestReadPlaces_MissingName(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","geometry":{"type":"Point","coordinates":[33,-13]},"properties":{"CLASS":1}}]}`
	_, err := ReadPlaces(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required property "NAME"`)
}

func TestReadPlaces_BadNumber(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","geometry":{"type":"Point","coordinates":[33,-13]},"properties":{"NAME":"X","CLASS":"big"}}]}`
	_, err := ReadPlaces(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `property "CLASS"`)
}
