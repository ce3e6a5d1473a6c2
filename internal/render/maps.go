package render

import (
	"fmt"
	"html"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/mwhydro/hydromap/internal/geo"
	"github.com/mwhydro/hydromap/internal/model"
	"github.com/mwhydro/hydromap/internal/proximity"
)

// Layer names shown in the layer control.
const (
	LayerSchemes   = "Hydropower schemes"
	LayerProximity = "Proximity lines"
	LayerPlaces    = "Places"
	LayerRoads     = "Major roads"
	LayerBuffers   = "Scheme buffers"
)

// Builder assembles map pages with one style.
type Builder struct {
	Style Style
}

// NewBuilder returns a builder for style.
func NewBuilder(style Style) *Builder {
	return &Builder{Style: style}
}

func (b *Builder) page(title string, view View) *Page {
	return &Page{Title: title, View: view, Tiles: b.Style.Tiles}
}

func pointFeature(lon, lat float64, props map[string]any) *geojson.Feature {
	return &geojson.Feature{
		Geometry:   geom.NewPointFlat(geom.XY, []float64{lon, lat}),
		Properties: props,
	}
}

func lineFeature(coords [][2]float64, props map[string]any) *geojson.Feature {
	flat := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c[0], c[1])
	}
	return &geojson.Feature{
		Geometry:   geom.NewLineStringFlat(geom.XY, flat),
		Properties: props,
	}
}

// SchemePopup is the popup HTML of a scheme marker.
func SchemePopup(s model.Scheme) string {
	return fmt.Sprintf("Scheme Name: %s<br>Status: %s", html.EscapeString(s.Name), html.EscapeString(string(s.Status)))
}

func (b *Builder) schemeLayer(schemes []model.Scheme) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(schemes))}
	for _, s := range schemes {
		fc.Features = append(fc.Features, pointFeature(s.Longitude, s.Latitude, map[string]any{
			"color":   b.Style.StatusColor(string(s.Status)),
			"popup":   SchemePopup(s),
			"tooltip": html.EscapeString(s.Name),
		}))
	}
	return fc
}

func (b *Builder) linkLayer(links []proximity.Link) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(links))}
	for _, l := range links {
		color := b.Style.FarColor
		if l.Class == geo.ClassNear {
			color = b.Style.NearColor
		}
		fc.Features = append(fc.Features, lineFeature(
			[][2]float64{{l.From.Longitude, l.From.Latitude}, {l.To.Longitude, l.To.Latitude}},
			map[string]any{
				"color":   color,
				"weight":  1.5,
				"tooltip": fmt.Sprintf("%s ↔ %s: %.2f km", html.EscapeString(l.From.Name), html.EscapeString(l.To.Name), l.DistanceKM),
			},
		))
	}
	return fc
}

// SchemesMap places one marker per scheme, coloured by status.
func (b *Builder) SchemesMap(schemes []model.Scheme, view View) (*Page, error) {
	p := b.page("Malawi Hydropower Schemes", view)
	if err := p.AddLayer(LayerSchemes, b.schemeLayer(schemes)); err != nil {
		return nil, err
	}
	p.Legend = b.statusLegend(schemes)
	return p, nil
}

// ProximityMap draws the scheme markers and one line per scheme pair.
func (b *Builder) ProximityMap(schemes []model.Scheme, links []proximity.Link, withinKM float64, view View) (*Page, error) {
	p := b.page("Malawi Hydropower Proximity", view)
	if err := p.AddLayer(LayerProximity, b.linkLayer(links)); err != nil {
		return nil, err
	}
	if err := p.AddLayer(LayerSchemes, b.schemeLayer(schemes)); err != nil {
		return nil, err
	}
	p.Legend = &Legend{
		Title: "Distance",
		Entries: []LegendEntry{
			{Color: b.Style.NearColor, Label: fmt.Sprintf("< %g km", withinKM)},
			{Color: b.Style.FarColor, Label: fmt.Sprintf(">= %g km", withinKM)},
		},
	}
	return p, nil
}

// PlacesMap draws one marker per place, coloured by tier.
func (b *Builder) PlacesMap(places []model.Place, view View) (*Page, error) {
	p := b.page("Malawi Places", view)
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(places))}
	for _, pl := range places {
		fc.Features = append(fc.Features, pointFeature(pl.Longitude, pl.Latitude, map[string]any{
			"color":   b.placeColor(pl.Class),
			"radius":  5,
			"popup":   fmt.Sprintf("%s<br>%s", html.EscapeString(pl.Name), html.EscapeString(pl.Admin1)),
			"tooltip": html.EscapeString(pl.Name),
		}))
	}
	if err := p.AddLayer(LayerPlaces, fc); err != nil {
		return nil, err
	}
	p.Legend = &Legend{
		Title: "Place class",
		Entries: []LegendEntry{
			{Color: b.Style.Places.City, Label: geo.TierCity},
			{Color: b.Style.Places.Town, Label: geo.TierTown},
			{Color: b.Style.Places.Village, Label: geo.TierVillage},
		},
	}
	return p, nil
}

func (b *Builder) placeColor(class int) string {
	switch geo.ClassifyPlace(class) {
	case geo.TierCity:
		return b.Style.Places.City
	case geo.TierTown:
		return b.Style.Places.Town
	default:
		return b.Style.Places.Village
	}
}

// RoadNetworkMap draws the given roads coloured by type, scheme buffers,
// proximity lines and scheme markers, with a road legend.
func (b *Builder) RoadNetworkMap(roads []model.Road, schemes []model.Scheme, links []proximity.Link, buffers []model.BufferRow, view View) (*Page, error) {
	p := b.page("Malawi Road Network and Hydropower", view)

	roadFC := &geojson.FeatureCollection{}
	for _, r := range roads {
		props := map[string]any{
			"color":   b.Style.HighwayColor(r.Highway),
			"weight":  2,
			"tooltip": roadLabel(r),
		}
		for _, line := range r.Lines {
			if len(line) < 2 {
				continue
			}
			roadFC.Features = append(roadFC.Features, lineFeature(line, props))
		}
	}
	if err := p.AddLayer(LayerRoads, roadFC); err != nil {
		return nil, err
	}

	bufFC := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(buffers))}
	for _, br := range buffers {
		poly, err := geo.RingPolygon(br.Ring)
		if err != nil {
			return nil, err
		}
		bufFC.Features = append(bufFC.Features, &geojson.Feature{
			Geometry: poly,
			Properties: map[string]any{
				"color":   b.Style.BufferColor,
				"weight":  1,
				"fill":    true,
				"tooltip": fmt.Sprintf("%s: %g km buffer, %d schemes within", html.EscapeString(br.Scheme), br.RadiusKM, len(br.SchemesWithin)),
			},
		})
	}
	if err := p.AddLayer(LayerBuffers, bufFC); err != nil {
		return nil, err
	}
	if err := p.AddLayer(LayerProximity, b.linkLayer(links)); err != nil {
		return nil, err
	}
	if err := p.AddLayer(LayerSchemes, b.schemeLayer(schemes)); err != nil {
		return nil, err
	}

	legend := &Legend{Title: "Road type"}
	for _, h := range []string{"primary", "secondary", "tertiary"} {
		legend.Entries = append(legend.Entries, LegendEntry{Color: b.Style.HighwayColor(h), Label: h})
	}
	legend.Entries = append(legend.Entries, LegendEntry{Color: b.Style.RoadColor, Label: "other"})
	p.Legend = legend
	return p, nil
}

// roadLabel is the escaped tooltip of a road.
func roadLabel(r model.Road) string {
	if r.Name != "" {
		return html.EscapeString(fmt.Sprintf("%s (%s)", r.Name, r.Highway))
	}
	return html.EscapeString(r.Highway)
}

func (b *Builder) statusLegend(schemes []model.Scheme) *Legend {
	counts := proximity.CountByStatus(schemes)
	l := &Legend{Title: "Status"}
	for _, s := range model.Statuses {
		if counts[s] == 0 {
			continue
		}
		l.Entries = append(l.Entries, LegendEntry{
			Color: b.Style.StatusColor(string(s)),
			Label: fmt.Sprintf("%s (%d)", s, counts[s]),
		})
	}
	return l
}

// CenterOf returns the mean coordinate of schemes, or fallback when empty.
func CenterOf(schemes []model.Scheme, fallback View) View {
	if len(schemes) == 0 {
		return fallback
	}
	var lon, lat float64
	for _, s := range schemes {
		lon += s.Longitude
		lat += s.Latitude
	}
	n := float64(len(schemes))
	return View{CenterLat: lat / n, CenterLon: lon / n, Zoom: fallback.Zoom}
}
