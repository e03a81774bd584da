package export_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/export"
	"github.com/rail-fusion/internal/pipeline"
)

func i64(v int64) *int64 { return &v }
func str(v string) *string { return &v }

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		Shapes: []domain.LineSegment{{LineCode: "420000", StatusLabel: domain.StatusInOperation, Geometry: orb.LineString{{0, 0}, {1, 0}}}},
		Speeds: []domain.SpeedSegment{{LineCode: "420000", LineLabel: "Ligne A", MaxSpeed: i64(160), Geometry: orb.LineString{{0, 0}, {1, 0}}}},
		Segments: []domain.JoinedSegment{
			{LineCode: "420000", LineLabel: "Ligne A", MaxSpeed: i64(160), Geometry: orb.LineString{{0, 0}, {1, 0}}},
			{LineCode: "421000", LineLabel: "Ligne B", Geometry: orb.LineString{{3, 3}, {4, 4}}},
		},
		Ridership: []domain.YearlyRidership{{StationKey: "X1", Year: 2019, TotalTravelers: i64(1000), PostalCode: "75001"}},
		Stations:  []domain.Station{{StationCode: "X1", Label: "Gare A", Geometry: orb.Point{2.34, 48.86}}},
		Communes:  []domain.CommunePopulation{{CommuneInseeCode: "75101", CommuneName: "PARIS 01", PostalCode: "75001", RegionName: "Île-de-France", TotalPopulation: i64(50000)}},
		StationYears: []domain.StationYearRecord{
			{StationCode: "X1", Year: 2019, TotalTravelers: i64(1000), Label: "Gare A", Geometry: orb.Point{2.34, 48.86},
				PostalCode: i64(75001), RegionName: str("Île-de-France"), TotalPopulation: i64(50000)},
			{StationCode: "X1", Year: 2020, TotalTravelers: i64(400), Label: "Gare A", Geometry: orb.Point{2.34, 48.86}},
		},
	}
}

func TestWriter_WriteResult(t *testing.T) {
	// Arrange
	dir := filepath.Join(t.TempDir(), "processed")
	w := export.NewWriter(dir, zap.NewNop())

	// Act
	files, err := w.WriteResult(sampleResult(), true)

	// Assert
	require.NoError(t, err)
	assert.Len(t, files, 9)
	for _, f := range files {
		assert.FileExists(t, f)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "."), "temporary file %s left behind", e.Name())
	}

	data, err := os.ReadFile(filepath.Join(dir, export.SegmentsGeoJSON))
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "420000", fc.Features[0].Properties["line_code"])
	assert.Equal(t, 160.0, fc.Features[0].Properties["max_speed"])
	assert.Nil(t, fc.Features[1].Properties["max_speed"])
}

func TestWriter_WriteResult_CanonicalOnly(t *testing.T) {
	w := export.NewWriter(t.TempDir(), zap.NewNop())

	files, err := w.WriteResult(sampleResult(), false)

	require.NoError(t, err)
	assert.Len(t, files, 4)
	assert.NoFileExists(t, filepath.Join(w.Dir(), export.ShapesCSV))
}

func TestWriter_WriteResult_InvalidDir(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	w := export.NewWriter(filepath.Join(blocker, "out"), zap.NewNop())

	_, err := w.WriteResult(sampleResult(), true)

	assert.Error(t, err)
}

func TestWriter_WriteResult_Nil(t *testing.T) {
	_, err := export.NewWriter(t.TempDir(), zap.NewNop()).WriteResult(nil, false)

	assert.Error(t, err)
}

func TestEncodeStationYearsCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.EncodeStationYearsCSV(&buf, sampleResult().StationYears))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	header := rows[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %s not found", name)
		return -1
	}
	assert.Equal(t, "X1", rows[1][col("station_code")])
	assert.Equal(t, "2019", rows[1][col("year")])
	assert.Equal(t, "1000", rows[1][col("total_travelers")])
	assert.Equal(t, "Île-de-France", rows[1][col("region_name")])
	assert.Equal(t, "50000", rows[1][col("total_population")])
	assert.Equal(t, "POINT(2.34 48.86)", rows[1][col("geometry")])
	assert.Equal(t, "", rows[2][col("region_name")], "unmatched commune stays empty")
}

func TestEncodeSegmentsCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.EncodeSegmentsCSV(&buf, sampleResult().Segments))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "line_code,geometry,max_speed,line_label", lines[0])
	assert.Equal(t, `420000,"LINESTRING(0 0,1 0)",160,Ligne A`, lines[1])
}

func TestEncodeStationYears_NullGeometry(t *testing.T) {
	records := []domain.StationYearRecord{{StationCode: "X9", Year: 2019, Label: "Sans point"}}

	var gj bytes.Buffer
	require.NoError(t, export.EncodeStationYearsGeoJSON(&gj, records))
	assert.Contains(t, gj.String(), `"geometry":null`)
	assert.NotContains(t, gj.String(), `"coordinates":[0,0]`)

	var buf bytes.Buffer
	require.NoError(t, export.EncodeStationYearsCSV(&buf, records))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for i, h := range rows[0] {
		if h == "geometry" {
			assert.Empty(t, rows[1][i])
		}
	}
}
