package geo

import (
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/rotisserie/eris"
)

const wgs84 = "+proj=longlat +datum=WGS84 +no_defs"

// Transformer reprojects input coordinates to WGS84 longitude/latitude.
type Transformer struct {
	fn   proj.Transformer
	auto bool
}

// NewTransformer builds a transformer from a proj4 source definition.
// An empty or longlat source yields an identity transformer. With auto set,
// coordinates already inside the geographic range pass through unchanged.
func NewTransformer(source string, auto bool) (*Transformer, error) {
	source = strings.TrimSpace(source)
	if source == "" || strings.Contains(source, "+proj=longlat") {
		return &Transformer{}, nil
	}

	src, err := proj.Parse(source)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: parse source projection %q", source)
	}
	dst, err := proj.Parse(wgs84)
	if err != nil {
		return nil, eris.Wrap(err, "geo: parse wgs84")
	}
	fn, err := src.NewTransform(dst)
	if err != nil {
		return nil, eris.Wrap(err, "geo: build transform")
	}
	return &Transformer{fn: fn, auto: auto}, nil
}

// ToLonLat converts a source coordinate pair to longitude/latitude degrees.
func (t *Transformer) ToLonLat(x, y float64) (float64, float64, error) {
	if t == nil || t.fn == nil || (t.auto && IsGeographic(x, y)) {
		if !IsGeographic(x, y) {
			return 0, 0, eris.Errorf("geo: coordinate (%f, %f) is not longitude/latitude", x, y)
		}
		return x, y, nil
	}
	lon, lat, err := t.fn(x, y)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "geo: transform (%f, %f)", x, y)
	}
	if !IsGeographic(lon, lat) {
		return 0, 0, eris.Errorf("geo: transform of (%f, %f) left the geographic range", x, y)
	}
	return lon, lat, nil
}

// IsGeographic reports whether x/y fit longitude/latitude bounds.
func IsGeographic(x, y float64) bool {
	return x >= -180 && x <= 180 && y >= -90 && y <= 90
}
