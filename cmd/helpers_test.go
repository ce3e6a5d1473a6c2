package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mwhydro/hydromap/internal/config"
)

const schemesFixture = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Point","coordinates":[34.0,-13.5]},"properties":{"Scheme_Nam":"Kapichira","Status":"Operational"}},
  {"type":"Feature","geometry":{"type":"Point","coordinates":[34.1,-13.6]},"properties":{"Scheme_Nam":"Mpatamanga","Status":"Planned"}},
  {"type":"Feature","geometry":{"type":"Point","coordinates":[35.0,-14.0]},"properties":{"Scheme_Nam":"Fufu","Status":"Proposed"}}
]}`

const placesFixture = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Point","coordinates":[33.78,-13.98]},"properties":{"fid":1,"NAME":"Lilongwe","CLASS":1}}
]}`

const roadsFixture = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"LineString","coordinates":[[34.0,-13.5],[34.1,-13.6]]},"properties":{"osm_id":1,"highway":"primary","name":"M1"}},
  {"type":"Feature","geometry":{"type":"LineString","coordinates":[[34.1,-13.6],[34.2,-13.6]]},"properties":{"osm_id":2,"highway":"secondary"}},
  {"type":"Feature","geometry":{"type":"LineString","coordinates":[[35.0,-15.0],[35.0,-15.1]]},"properties":{"osm_id":3,"highway":"path"}}
]}`

// testConfig writes the fixture layers to a temp dir and returns a config
// pointing at them.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	c := &config.Config{}
	c.Data.Schemes = write("hydro.json", schemesFixture)
	c.Data.Places = write("places.json", placesFixture)
	c.Data.Roads = write("roads.geojson", roadsFixture)
	c.Projection.Source = config.DefaultSourceProjection
	c.Projection.Auto = true
	c.Map.OutputDir = filepath.Join(dir, "out")
	c.Map.CenterLat = -13.5
	c.Map.CenterLon = 34.0
	c.Map.Zoom = 6
	c.Map.PlacesZoom = 7
	c.Map.PlacesCenterLat = -13.9826
	c.Map.PlacesCenterLon = 33.773762
	c.Map.RoadsZoom = 10
	c.Proximity.Limit = 20
	c.Proximity.WithinKM = 50
	c.Proximity.BufferKM = 10
	c.Roads.MajorTypes = []string{"primary", "secondary", "tertiary"}
	c.Store.Driver = "sqlite"
	c.Store.DatabaseURL = filepath.Join(dir, "hydromap.db")
	c.Server.Port = 8501
	c.Server.AllowedOrigins = []string{"*"}
	return c
}
