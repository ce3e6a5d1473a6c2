package loader

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/model"
)

// LoadRoads reads the OSM roads line layer.
func LoadRoads(path string) ([]model.Road, error) {
	f, err := openLayer(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	roads, err := ReadRoads(f)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: roads %s", path)
	}

	zap.L().Debug("loaded roads",
		zap.String("component", "loader"),
		zap.String("path", path),
		zap.Int("count", len(roads)),
	)
	return roads, nil
}

// ReadRoads decodes LineString and MultiLineString road features.
func ReadRoads(r io.Reader) ([]model.Road, error) {
	features, err := decodeFeatures(r)
	if err != nil {
		return nil, err
	}

	roads := make([]model.Road, 0, len(features))
	for _, f := range features {
		highway, err := requireString(f, "highway")
		if err != nil {
			return nil, err
		}

		road := model.Road{Highway: highway}
		road.OSMID, _ = stringProp(f.Properties, "osm_id")
		road.Name, _ = stringProp(f.Properties, "name")
		road.Surface, _ = stringProp(f.Properties, "surface")

		switch g := f.Geometry.(type) {
		case *geom.LineString:
			road.Lines = append(road.Lines, lineCoords(g))
		case *geom.MultiLineString:
			for i := 0; i < g.NumLineStrings(); i++ {
				road.Lines = append(road.Lines, lineCoords(g.LineString(i)))
			}
		case nil:
			return nil, eris.Errorf("loader: feature %d: missing geometry", f.Index)
		default:
			return nil, eris.Errorf("loader: feature %d: expected line geometry, got %T", f.Index, f.Geometry)
		}

		roads = append(roads, road)
	}
	return roads, nil
}

func lineCoords(ls *geom.LineString) [][2]float64 {
	coords := make([][2]float64, 0, ls.NumCoords())
	for i := 0; i < ls.NumCoords(); i++ {
		c := ls.Coord(i)
		coords = append(coords, [2]float64{c.X(), c.Y()})
	}
	return coords
}
