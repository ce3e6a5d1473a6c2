package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/mwhydro/hydromap/internal/model"
	"github.com/mwhydro/hydromap/internal/proximity"
)

// Sheet names of the workbook.
const (
	SheetProximity   = "Proximity"
	SheetStatusPairs = "Status pairs"
	SheetSchemes     = "Schemes"
)

// Workbook is the content of an XLSX export.
type Workbook struct {
	Schemes     []model.Scheme
	Proximity   []model.ProximityRow
	StatusPairs []model.StatusProximityRow
}

func addHeader(sheet *xlsx.Sheet, header []string) {
	row := sheet.AddRow()
	for _, h := range header {
		cell := row.AddCell()
		cell.SetString(h)
	}
}

// WriteXLSX writes the workbook with one sheet per table. Distances and
// counts are numeric cells.
func WriteXLSX(w io.Writer, wb Workbook) error {
	f := xlsx.NewFile()

	prox, err := f.AddSheet(SheetProximity)
	if err != nil {
		return eris.Wrap(err, "export: add proximity sheet")
	}
	addHeader(prox, ProximityHeader)
	for _, r := range wb.Proximity {
		row := prox.AddRow()
		row.AddCell().SetString(r.Scheme)
		row.AddCell().SetString(string(r.Status))
		row.AddCell().SetFloat(r.MinDistanceKM)
		row.AddCell().SetFloat(r.AvgDistanceKM)
		row.AddCell().SetFloat(r.MaxDistanceKM)
		row.AddCell().SetString(proximity.FormatNeighbors(r.Neighbors))
	}

	pairs, err := f.AddSheet(SheetStatusPairs)
	if err != nil {
		return eris.Wrap(err, "export: add status sheet")
	}
	addHeader(pairs, StatusHeader(statusThreshold(wb.StatusPairs)))
	for _, r := range wb.StatusPairs {
		row := pairs.AddRow()
		row.AddCell().SetString(string(r.Status1))
		row.AddCell().SetString(string(r.Status2))
		row.AddCell().SetFloat(r.MinDistanceKM)
		row.AddCell().SetFloat(r.AvgDistanceKM)
		row.AddCell().SetFloat(r.MaxDistanceKM)
		row.AddCell().SetInt(r.TotalComparisons)
		row.AddCell().SetInt(r.WithinCount)
	}

	schemes, err := f.AddSheet(SheetSchemes)
	if err != nil {
		return eris.Wrap(err, "export: add schemes sheet")
	}
	addHeader(schemes, SchemeHeader)
	for _, s := range wb.Schemes {
		row := schemes.AddRow()
		row.AddCell().SetString(s.Name)
		row.AddCell().SetString(string(s.Status))
		row.AddCell().SetFloat(s.Longitude)
		row.AddCell().SetFloat(s.Latitude)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}
