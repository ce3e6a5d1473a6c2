package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// ConvertShapefile converts a shapefile into a GeoJSON FeatureCollection at
// outPath and returns the number of features written. Records without a
// supported geometry are skipped.
func ConvertShapefile(shpPath, outPath string) (int, error) {
	fc, err := ReadShapefile(shpPath)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return 0, eris.Wrap(err, "loader: encode geojson")
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return 0, eris.Wrapf(err, "loader: write %s", outPath)
	}

	zap.L().Info("shapefile converted to geojson",
		zap.String("component", "loader"),
		zap.String("shapefile", shpPath),
		zap.String("output", outPath),
		zap.Int("features", len(fc.Features)),
	)
	return len(fc.Features), nil
}

// ReadShapefile reads every record of a shapefile as a GeoJSON feature.
// Numeric DBF fields become numbers, everything else strings.
func ReadShapefile(shpPath string) (*geojson.FeatureCollection, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	fc := &geojson.FeatureCollection{}
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		g := shapeToGeom(shape)
		if g == nil {
			skipped++
			continue
		}

		props := make(map[string]any, len(fields))
		for i, f := range fields {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			if val == "" {
				props[names[i]] = nil
				continue
			}
			if f.Fieldtype == 'N' || f.Fieldtype == 'F' {
				if n, err := strconv.ParseFloat(val, 64); err == nil {
					props[names[i]] = n
					continue
				}
			}
			props[names[i]] = val
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   g,
			Properties: props,
		})
	}

	if skipped > 0 {
		zap.L().Debug("loader: skipped shapefile records",
			zap.String("shapefile", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return fc, nil
}

// shapeToGeom converts a go-shp shape to a go-geom geometry.
// Returns nil for unsupported or empty shapes.
func shapeToGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y})
	case *shp.PolyLine:
		return polyLineToMultiLineString(s)
	case *shp.Polygon:
		return polygonToMultiPolygon(s)
	default:
		return nil
	}
}

// partRanges returns the [start, end) point index of every part.
func partRanges(parts []int32, numParts int32, numPoints int) [][2]int32 {
	ranges := make([][2]int32, 0, numParts)
	for i := int32(0); i < numParts; i++ {
		start := parts[i]
		end := int32(numPoints)
		if i+1 < numParts {
			end = parts[i+1]
		}
		ranges = append(ranges, [2]int32{start, end})
	}
	return ranges
}

func polyLineToMultiLineString(pl *shp.PolyLine) geom.T {
	if pl == nil || pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	mls := geom.NewMultiLineString(geom.XY)
	for i, r := range partRanges(pl.Parts, pl.NumParts, len(pl.Points)) {
		ls := geom.NewLineStringFlat(geom.XY, flatPoints(pl.Points[r[0]:r[1]]))
		if err := mls.Push(ls); err != nil {
			zap.L().Debug("loader: skipping malformed linestring part", zap.Int("part", i), zap.Error(err))
		}
	}
	if mls.NumLineStrings() == 0 {
		return nil
	}
	return mls
}

func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i, r := range partRanges(p.Parts, p.NumParts, len(p.Points)) {
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flatPoints(p.Points[r[0]:r[1]]))); err != nil {
			zap.L().Debug("loader: skipping malformed polygon ring", zap.Int("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("loader: skipping malformed polygon part", zap.Int("part", i), zap.Error(err))
		}
	}
	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

func flatPoints(points []shp.Point) []float64 {
	flat := make([]float64, 0, len(points)*2)
	for _, pt := range points {
		flat = append(flat, pt.X, pt.Y)
	}
	return flat
}
