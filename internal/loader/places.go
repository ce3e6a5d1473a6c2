package loader

import (
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/model"
)

// LoadPlaces reads the Malawi places point layer.
func LoadPlaces(path string) ([]model.Place, error) {
	f, err := openLayer(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	places, err := ReadPlaces(f)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: places %s", path)
	}

	zap.L().Debug("loaded places",
		zap.String("component", "loader"),
		zap.String("path", path),
		zap.Int("count", len(places)),
	)
	return places, nil
}

// ReadPlaces decodes places. LONGITUDE/LATITUDE attributes win over the
// geometry when both are present, matching the source table layout.
func ReadPlaces(r io.Reader) ([]model.Place, error) {
	features, err := decodeFeatures(r)
	if err != nil {
		return nil, err
	}

	places := make([]model.Place, 0, len(features))
	for _, f := range features {
		name, err := requireString(f, "NAME")
		if err != nil {
			return nil, err
		}

		p := model.Place{Name: name}
		p.Admin1, _ = stringProp(f.Properties, "ADMIN1")
		p.Country, _ = stringProp(f.Properties, "COUNTRY")
		p.CntryFIPS, _ = stringProp(f.Properties, "CNTRY_FIPS")

		nums := map[string]float64{}
		for _, key := range []string{"fid", "TYPE", "CLASS", "ID"} {
			v, _, err := numberProp(f.Properties, key)
			if err != nil {
				return nil, eris.Wrapf(err, "loader: feature %d", f.Index)
			}
			nums[key] = v
		}
		p.FID = int64(nums["fid"])
		p.Type = int(nums["TYPE"])
		p.Class = int(nums["CLASS"])
		p.ID = nums["ID"]

		lon, hasLon, err := numberProp(f.Properties, "LONGITUDE")
		if err != nil {
			return nil, eris.Wrapf(err, "loader: feature %d", f.Index)
		}
		lat, hasLat, err := numberProp(f.Properties, "LATITUDE")
		if err != nil {
			return nil, eris.Wrapf(err, "loader: feature %d", f.Index)
		}
		if !hasLon || !hasLat {
			lon, lat, err = pointCoords(f)
			if err != nil {
				return nil, err
			}
		}
		p.Longitude, p.Latitude = lon, lat

		places = append(places, p)
	}
	return places, nil
}
