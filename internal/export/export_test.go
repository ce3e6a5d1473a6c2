package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/mwhydro/hydromap/internal/model"
)

func sampleWorkbook() Workbook {
	return Workbook{
		Schemes: []model.Scheme{
			{Name: "Nkula A", Status: model.StatusOperational, Longitude: 34.76, Latitude: -15.52},
			{Name: "Fufu, Upper", Status: model.StatusProposed, Longitude: 34.02, Latitude: -10.7},
		},
		Proximity: []model.ProximityRow{{
			Scheme: "Nkula A", Status: model.StatusOperational,
			MinDistanceKM: 538.9, AvgDistanceKM: 538.9, MaxDistanceKM: 538.9,
			Neighbors: []model.Neighbor{{Scheme: "Fufu, Upper", Status: model.StatusProposed, DistanceKM: 538.9}},
		}},
		StatusPairs: []model.StatusProximityRow{{
			Status1: model.StatusOperational, Status2: model.StatusProposed,
			MinDistanceKM: 538.9, AvgDistanceKM: 538.9, MaxDistanceKM: 538.9,
			TotalComparisons: 1, WithinCount: 0,
		}},
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSchemesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSchemesCSV(&buf, sampleWorkbook().Schemes))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Scheme_Nam", "Status", "longitude", "latitude"}, records[0])
	assert.Equal(t, []string{"Nkula A", "Operational", "34.76", "-15.52"}, records[1])
	assert.Equal(t, "Fufu, Upper", records[2][0])
}

func TestWriteSchemesCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSchemesCSV(&buf, nil))
	assert.Equal(t, "Scheme_Nam,Status,longitude,latitude\n", buf.String())
}

func TestWriteProximityCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProximityCSV(&buf, sampleWorkbook().Proximity))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 2)
	assert.Equal(t, ProximityHeader, records[0])
	assert.Equal(t, []string{
		"Nkula A", "Operational", "538.90", "538.90", "538.90",
		"Fufu, Upper (Proposed): 538.90 km",
	}, records[1])
}

func TestWriteStatusCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatusCSV(&buf, sampleWorkbook().StatusPairs))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 2)
	assert.Equal(t, "schemes_within_50km", records[0][6])
	assert.Equal(t, []string{"Operational", "Proposed", "538.90", "538.90", "538.90", "1", "0"}, records[1])
}

func TestWriteStatusCSV_ThresholdColumn(t *testing.T) {
	rows := sampleWorkbook().StatusPairs
	rows[0].WithinKM = 12.5

	var buf bytes.Buffer
	require.NoError(t, WriteStatusCSV(&buf, rows))
	records := readCSV(t, buf.Bytes())
	assert.Equal(t, StatusHeader(12.5), records[0])
	assert.Equal(t, "schemes_within_12.5km", records[0][6])
}

func TestWithinColumn(t *testing.T) {
	assert.Equal(t, "schemes_within_50km", WithinColumn(50))
	assert.Equal(t, "schemes_within_25km", WithinColumn(25))
	assert.Equal(t, "schemes_within_0.5km", WithinColumn(0.5))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleWorkbook()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)

	prox := f.Sheet[SheetProximity]
	require.NotNil(t, prox)
	require.Len(t, prox.Rows, 2)
	assert.Equal(t, "scheme1", prox.Rows[0].Cells[0].String())
	assert.Equal(t, "Nkula A", prox.Rows[1].Cells[0].String())
	minKM, err := prox.Rows[1].Cells[2].Float()
	require.NoError(t, err)
	assert.InDelta(t, 538.9, minKM, 1e-9)

	pairs := f.Sheet[SheetStatusPairs]
	require.NotNil(t, pairs)
	assert.Equal(t, "schemes_within_50km", pairs.Rows[0].Cells[6].String())
	total, err := pairs.Rows[1].Cells[5].Int()
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	schemes := f.Sheet[SheetSchemes]
	require.NotNil(t, schemes)
	assert.Len(t, schemes.Rows, 3)
}
