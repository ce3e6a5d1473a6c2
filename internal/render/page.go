// Package render produces Leaflet map pages and charts.
package render

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Output file names of the rendered maps.
const (
	SchemesFile   = "malawi_hydropower_schemes.html"
	ProximityFile = "malawi_hydropower_proximity_schemes.html"
	PlacesFile    = "malawi_places_map.html"
	RoadsFile     = "malawi_road_network.html"
)

// View is the initial map viewport.
type View struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
}

// Layer is a named GeoJSON overlay. Feature properties drive styling:
// color, radius, weight, fill, popup (HTML) and tooltip.
type Layer struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// LegendEntry is one row of a map legend.
type LegendEntry struct {
	Color string
	Label string
}

// Legend is a titled colour key drawn in the map corner.
type Legend struct {
	Title   string
	Entries []LegendEntry
}

// Page is a complete Leaflet map.
type Page struct {
	Title  string
	View   View
	Tiles  Tiles
	Layers []Layer
	Legend *Legend
}

//go:embed templates/map.html.tmpl
var mapTemplate string

var pageTmpl = template.Must(template.New("map").Parse(mapTemplate))

// AddLayer encodes fc and appends it as an overlay.
func (p *Page) AddLayer(name string, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrapf(err, "render: encode layer %s", name)
	}
	p.Layers = append(p.Layers, Layer{Name: name, Data: data})
	return nil
}

// Render writes the page as a standalone HTML document.
func (p *Page) Render(w io.Writer) error {
	layers := p.Layers
	if layers == nil {
		layers = []Layer{}
	}
	data := struct {
		*Page
		LayerData []Layer
	}{p, layers}
	return eris.Wrapf(pageTmpl.Execute(w, data), "render: execute template %q", p.Title)
}

// WriteFile renders the page into dir/name.
func (p *Page) WriteFile(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "render: create %s", dir)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "render: create %s", path)
	}
	if err := p.Render(f); err != nil {
		f.Close() //nolint:errcheck
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", eris.Wrapf(err, "render: close %s", path)
	}

	zap.L().Info("map written",
		zap.String("component", "render"),
		zap.String("path", path),
		zap.Int("layers", len(p.Layers)),
	)
	return path, nil
}
