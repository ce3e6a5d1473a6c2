// Package export writes schemes and proximity tables as CSV and XLSX.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/mwhydro/hydromap/internal/loader"
	"github.com/mwhydro/hydromap/internal/model"
	"github.com/mwhydro/hydromap/internal/proximity"
)

// SchemesCSVFile is the download name of the filtered scheme table.
const SchemesCSVFile = "filtered_hydropower_data.csv"

// Column headers.
var (
	SchemeHeader    = []string{loader.PropSchemeName, loader.PropStatus, "longitude", "latitude"}
	ProximityHeader = []string{"scheme1", "status1", "min_distance", "avg_distance", "max_distance", "nearest_neighbors"}
)

// WithinColumn names the within-threshold count column, e.g.
// "schemes_within_50km".
func WithinColumn(withinKM float64) string {
	return "schemes_within_" + strconv.FormatFloat(withinKM, 'f', -1, 64) + "km"
}

// StatusHeader is the status-pair header for a threshold.
func StatusHeader(withinKM float64) []string {
	return []string{"status1", "status2", "min_distance", "avg_distance", "max_distance", "total_comparisons", WithinColumn(withinKM)}
}

// statusThreshold is the threshold the rows were computed with. Every row
// of one table shares it.
func statusThreshold(rows []model.StatusProximityRow) float64 {
	if len(rows) > 0 && rows[0].WithinKM > 0 {
		return rows[0].WithinKM
	}
	return proximity.DefaultWithinKM
}

func formatKM(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SchemeRecords returns the scheme table as string records without header.
func SchemeRecords(schemes []model.Scheme) [][]string {
	out := make([][]string, len(schemes))
	for i, s := range schemes {
		out[i] = []string{s.Name, string(s.Status), formatCoord(s.Longitude), formatCoord(s.Latitude)}
	}
	return out
}

// ProximityRecords returns the per-scheme table as string records.
func ProximityRecords(rows []model.ProximityRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Scheme,
			string(r.Status),
			formatKM(r.MinDistanceKM),
			formatKM(r.AvgDistanceKM),
			formatKM(r.MaxDistanceKM),
			proximity.FormatNeighbors(r.Neighbors),
		}
	}
	return out
}

// StatusRecords returns the status-pair table as string records.
func StatusRecords(rows []model.StatusProximityRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			string(r.Status1),
			string(r.Status2),
			formatKM(r.MinDistanceKM),
			formatKM(r.AvgDistanceKM),
			formatKM(r.MaxDistanceKM),
			strconv.Itoa(r.TotalComparisons),
			strconv.Itoa(r.WithinCount),
		}
	}
	return out
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}
	if err := cw.WriteAll(records); err != nil {
		return eris.Wrap(err, "export: write CSV rows")
	}
	return nil
}

// WriteSchemesCSV writes schemes with the layer's property names.
func WriteSchemesCSV(w io.Writer, schemes []model.Scheme) error {
	return writeCSV(w, SchemeHeader, SchemeRecords(schemes))
}

// WriteProximityCSV writes the per-scheme proximity table.
func WriteProximityCSV(w io.Writer, rows []model.ProximityRow) error {
	return writeCSV(w, ProximityHeader, ProximityRecords(rows))
}

// WriteStatusCSV writes the status-pair table.
func WriteStatusCSV(w io.Writer, rows []model.StatusProximityRow) error {
	return writeCSV(w, StatusHeader(statusThreshold(rows)), StatusRecords(rows))
}
