package loader

import (
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/geo"
	"github.com/mwhydro/hydromap/internal/model"
)

// Property names of the hydro survey export.
const (
	PropSchemeName = "Scheme_Nam"
	PropStatus     = "Status"
)

// LoadSchemes reads hydropower schemes from a GeoJSON file.
func LoadSchemes(path string, tr *geo.Transformer) ([]model.Scheme, error) {
	f, err := openLayer(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	schemes, err := ReadSchemes(f, tr)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: schemes %s", path)
	}

	zap.L().Debug("loaded schemes",
		zap.String("component", "loader"),
		zap.String("path", path),
		zap.Int("count", len(schemes)),
	)
	return schemes, nil
}

// ReadSchemes decodes schemes from a GeoJSON FeatureCollection. Coordinates
// are reprojected with tr; a nil transformer expects longitude/latitude.
// Any malformed feature or duplicate scheme name fails the whole read.
func ReadSchemes(r io.Reader, tr *geo.Transformer) ([]model.Scheme, error) {
	features, err := decodeFeatures(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int, len(features))
	schemes := make([]model.Scheme, 0, len(features))
	for _, f := range features {
		name, err := requireString(f, PropSchemeName)
		if err != nil {
			return nil, err
		}
		rawStatus, err := requireString(f, PropStatus)
		if err != nil {
			return nil, err
		}
		status, err := model.ParseStatus(rawStatus)
		if err != nil {
			return nil, eris.Wrapf(err, "loader: feature %d", f.Index)
		}

		x, y, err := pointCoords(f)
		if err != nil {
			return nil, err
		}
		lon, lat, err := tr.ToLonLat(x, y)
		if err != nil {
			return nil, eris.Wrapf(err, "loader: feature %d", f.Index)
		}

		if prev, dup := seen[name]; dup {
			return nil, eris.Errorf("loader: feature %d: duplicate scheme name %q (first at feature %d)", f.Index, name, prev)
		}
		seen[name] = f.Index

		schemes = append(schemes, model.Scheme{
			Name:      name,
			Status:    status,
			Longitude: lon,
			Latitude:  lat,
		})
	}
	return schemes, nil
}
