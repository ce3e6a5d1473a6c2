package render

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tiles is a Leaflet tile layer.
type Tiles struct {
	URL         string `yaml:"url"`
	Attribution string `yaml:"attribution"`
}

// PlaceColors colours places by tier.
type PlaceColors struct {
	City    string `yaml:"city"`
	Town    string `yaml:"town"`
	Village string `yaml:"village"`
}

// Style holds every colour and tile choice used on the maps.
type Style struct {
	Tiles Tiles `yaml:"tiles"`
	// StatusColors overrides the marker colour per scheme status.
	StatusColors map[string]string `yaml:"status_colors"`
	MarkerColor  string            `yaml:"marker_color"`
	NearColor    string            `yaml:"near_color"`
	FarColor     string            `yaml:"far_color"`
	BufferColor  string            `yaml:"buffer_color"`
	RoadColors   map[string]string `yaml:"road_colors"`
	RoadColor    string            `yaml:"road_color"`
	Places       PlaceColors       `yaml:"places"`
}

// DefaultStyle returns the built-in style.
func DefaultStyle() Style {
	return Style{
		Tiles: Tiles{
			URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
			Attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
		},
		StatusColors: map[string]string{"Proposed": "red"},
		MarkerColor:  "blue",
		NearColor:    "green",
		FarColor:     "orange",
		BufferColor:  "purple",
		RoadColors: map[string]string{
			"primary":   "#FF4500",
			"secondary": "#FFD700",
			"tertiary":  "#1E90FF",
		},
		RoadColor: "red",
		Places:    PlaceColors{City: "red", Town: "blue", Village: "green"},
	}
}

// LoadStyle reads a YAML style file over the defaults. Keys absent from the
// file keep their default; map entries are merged. An empty path returns
// the defaults.
func LoadStyle(path string) (Style, error) {
	style := DefaultStyle()
	if path == "" {
		return style, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, eris.Wrapf(err, "render: read style %s", path)
	}

	var override Style
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Style{}, eris.Wrapf(err, "render: parse style %s", path)
	}
	style.merge(override)
	return style, nil
}

func (s *Style) merge(o Style) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.Tiles.URL, o.Tiles.URL)
	set(&s.Tiles.Attribution, o.Tiles.Attribution)
	set(&s.MarkerColor, o.MarkerColor)
	set(&s.NearColor, o.NearColor)
	set(&s.FarColor, o.FarColor)
	set(&s.BufferColor, o.BufferColor)
	set(&s.RoadColor, o.RoadColor)
	set(&s.Places.City, o.Places.City)
	set(&s.Places.Town, o.Places.Town)
	set(&s.Places.Village, o.Places.Village)
	for k, v := range o.StatusColors {
		s.StatusColors[k] = v
	}
	for k, v := range o.RoadColors {
		s.RoadColors[k] = v
	}
}

// StatusColor returns the marker colour for a scheme status.
func (s Style) StatusColor(status string) string {
	if c, ok := s.StatusColors[status]; ok {
		return c
	}
	return s.MarkerColor
}

// HighwayColor returns the line colour for a highway type.
func (s Style) HighwayColor(highway string) string {
	if c, ok := s.RoadColors[highway]; ok {
		return c
	}
	return s.RoadColor
}
