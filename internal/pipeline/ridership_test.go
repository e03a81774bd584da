package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/pipeline"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
)

func wideRow(name, code, postal string, travelers map[int]any) map[string]any {
	row := map[string]any{
		"Nom de la gare":   name,
		"Code UIC":         code,
		"Code postal":      postal,
		"Segmentation DRG": "A",
	}
	for y, v := range travelers {
		row[cols.Ridership.TravelersColumn(y)] = v
		row[cols.Ridership.TotalColumn(y)] = v
	}
	return row
}

func TestReshapeRidership_FullRange(t *testing.T) {
	// Arrange
	years := domain.DefaultYears.Years()
	values := func(base int) map[int]any {
		m := make(map[int]any, len(years))
		for i, y := range years {
			m[y] = float64(base + 10*i)
		}
		return m
	}
	in := ridershipTable(years,
		wideRow("Gare B", "87000002", "69001", values(500)),
		wideRow("Gare A", "87000001", "75001", values(100)),
	)

	// Act
	out, err := pipeline.ReshapeRidership(in, cols.Ridership, domain.DefaultYears)

	// Assert
	require.NoError(t, err)
	require.Len(t, out, in.Len()*9)

	seen := make(map[domain.StationYearKey]int)
	for _, r := range out {
		seen[domain.StationYearKey{StationCode: r.StationKey, Year: r.Year}]++
	}
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}

	// отсортировано по коду станции, затем по году
	assert.Equal(t, "87000001", out[0].StationKey)
	assert.Equal(t, 2015, out[0].Year)
	assert.Equal(t, int64(100), *out[0].TotalTravelers)
	assert.Equal(t, 2016, out[1].Year)
	assert.Equal(t, int64(110), *out[1].TotalTravelers)
	assert.Equal(t, "87000001", out[8].StationKey)
	assert.Equal(t, 2023, out[8].Year)
	assert.Equal(t, int64(180), *out[8].TotalTravelers)
	assert.Equal(t, "87000002", out[9].StationKey)
	assert.Equal(t, int64(500), *out[9].TotalTravelers)
	assert.Equal(t, "69001", out[9].PostalCode)
	assert.Equal(t, "A", out[9].SegmentLabel)
}

func TestReshapeRidership_SortsStationKeysNumerically(t *testing.T) {
	years := []int{2019}
	in := ridershipTable(years,
		wideRow("Gare C", "X1", "75001", map[int]any{2019: float64(3)}),
		wideRow("Gare B", "87000010", "75002", map[int]any{2019: float64(2)}),
		wideRow("Gare A", "9", "75003", map[int]any{2019: float64(1)}),
	)

	out, err := pipeline.ReshapeRidership(in, cols.Ridership, domain.YearRange{From: 2019, To: 2019})

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "9", out[0].StationKey)
	assert.Equal(t, "87000010", out[1].StationKey)
	assert.Equal(t, "X1", out[2].StationKey)
}

func TestReshapeRidership_KeepsNullValues(t *testing.T) {
	years := []int{2019, 2020}
	in := ridershipTable(years, wideRow("Gare A", "X1", "75001", map[int]any{2019: "1 000", 2020: nil}))

	out, err := pipeline.ReshapeRidership(in, cols.Ridership, domain.YearRange{From: 2019, To: 2020})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1000), *out[0].TotalTravelers)
	assert.Nil(t, out[1].TotalTravelers)
}

func TestReshapeRidership_MissingYearColumn(t *testing.T) {
	in := ridershipTable([]int{2019}, wideRow("Gare A", "X1", "75001", map[int]any{2019: "10"}))

	_, err := pipeline.ReshapeRidership(in, cols.Ridership, domain.YearRange{From: 2019, To: 2020})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchema)
	var se *apperrors.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Total Voyageurs 2020", se.Column)
}

func TestReshapeRidership_MalformedValue(t *testing.T) {
	in := ridershipTable([]int{2019}, wideRow("Gare A", "X1", "75001", map[int]any{2019: "beaucoup"}))

	_, err := pipeline.ReshapeRidership(in, cols.Ridership, domain.YearRange{From: 2019, To: 2019})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTypeCoercion)
}
