// Package loader reads the scheme, place and road layers from GeoJSON files.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// rawCollection mirrors a GeoJSON FeatureCollection. Feature ids are left
// undecoded because exports mix numeric and string ids.
type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]any    `json:"properties"`
}

// feature is a decoded GeoJSON feature.
type feature struct {
	Index      int
	Geometry   geom.T
	Properties map[string]any
}

// openLayer opens a layer file, distinguishing a missing file from other errors.
func openLayer(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Errorf("loader: file not found at %s", path)
		}
		return nil, eris.Wrapf(err, "loader: open %s", path)
	}
	return f, nil
}

// decodeFeatures parses a FeatureCollection and decodes every geometry.
func decodeFeatures(r io.Reader) ([]feature, error) {
	var fc rawCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, eris.Wrap(err, "loader: decode geojson")
	}
	if fc.Type != "FeatureCollection" {
		return nil, eris.Errorf("loader: expected FeatureCollection, got %q", fc.Type)
	}

	out := make([]feature, 0, len(fc.Features))
	for i, rf := range fc.Features {
		var g geom.T
		if rf.Geometry != nil {
			decoded, err := rf.Geometry.Decode()
			if err != nil {
				return nil, eris.Wrapf(err, "loader: feature %d: decode geometry", i)
			}
			g = decoded
		}
		props := rf.Properties
		if props == nil {
			props = map[string]any{}
		}
		out = append(out, feature{Index: i, Geometry: g, Properties: props})
	}
	return out, nil
}

// stringProp returns a string property. Numbers are formatted without a
// trailing ".0" so numeric ids read naturally.
func stringProp(props map[string]any, key string) (string, bool) {
	v, ok := props[key]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return fmt.Sprint(val), true
	}
}

// requireString returns a non-empty string property or an error naming it.
func requireString(f feature, key string) (string, error) {
	s, ok := stringProp(f.Properties, key)
	if !ok || s == "" {
		return "", eris.Errorf("loader: feature %d: missing required property %q", f.Index, key)
	}
	return s, nil
}

// numberProp returns a numeric property, accepting numeric strings.
func numberProp(props map[string]any, key string) (float64, bool, error) {
	v, ok := props[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch val := v.(type) {
	case float64:
		return val, true, nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, eris.Wrapf(err, "property %q", key)
		}
		return n, true, nil
	default:
		return 0, false, eris.Errorf("property %q: unexpected type %T", key, v)
	}
}

// pointCoords returns the first coordinate of a Point or MultiPoint geometry.
func pointCoords(f feature) (float64, float64, error) {
	switch g := f.Geometry.(type) {
	case *geom.Point:
		if g.Empty() {
			break
		}
		return g.X(), g.Y(), nil
	case *geom.MultiPoint:
		if g.NumPoints() == 0 {
			break
		}
		p := g.Point(0)
		return p.X(), p.Y(), nil
	case nil:
		return 0, 0, eris.Errorf("loader: feature %d: missing geometry", f.Index)
	default:
		return 0, 0, eris.Errorf("loader: feature %d: expected point geometry, got %T", f.Index, f.Geometry)
	}
	return 0, 0, eris.Errorf("loader: feature %d: empty point geometry", f.Index)
}
