package pipeline_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/pipeline"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
)

func ridershipRow(key string, year int, travelers int64, postal string) domain.YearlyRidership {
	return domain.YearlyRidership{StationKey: key, Year: year, TotalTravelers: i64(travelers), PostalCode: postal}
}

func TestFuseStationYears_PostalFanOutIsDeduplicated(t *testing.T) {
	// Arrange: 01400 maps to two communes in two rows
	stations := []domain.Station{{StationCode: "S1", Label: "Gare S1", Geometry: orb.Point{5, 46}}}
	ridership := []domain.YearlyRidership{
		ridershipRow("S1", 2019, 10, "01400"),
		ridershipRow("S1", 2020, 8, "01400"),
	}
	communes := []domain.CommunePopulation{
		{CommuneInseeCode: "01001", CommuneName: "L ABERGEMENT CLEMENCIAT", PostalCode: "01400", RegionName: "Auvergne-Rhône-Alpes", TotalPopulation: i64(832)},
		{CommuneInseeCode: "01010", CommuneName: "AUTRE", PostalCode: "01400", RegionName: "Auvergne-Rhône-Alpes", TotalPopulation: i64(100)},
	}

	// Act
	out, err := pipeline.FuseStationYears(stations, ridership, communes)

	// Assert
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2019, out[0].Year)
	assert.Equal(t, 2020, out[1].Year)
	for _, r := range out {
		require.NotNil(t, r.CommuneInseeCode)
		assert.Equal(t, "01001", *r.CommuneInseeCode, "first commune of the postal code is kept")
		assert.Equal(t, int64(832), *r.TotalPopulation)
		assert.Equal(t, int64(1400), *r.PostalCode)
		assert.Equal(t, orb.Point{5, 46}, r.Geometry)
	}
}

func TestFuseStationYears_StationWithoutRidership(t *testing.T) {
	stations := []domain.Station{{StationCode: "S1"}, {StationCode: "S2"}}
	ridership := []domain.YearlyRidership{ridershipRow("S2", 2019, 5, "")}

	out, err := pipeline.FuseStationYears(stations, ridership, nil)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "S2", out[0].StationCode)
}

func TestFuseStationYears_NoCommuneMatchKeepsRow(t *testing.T) {
	stations := []domain.Station{{StationCode: "S1"}}
	ridership := []domain.YearlyRidership{ridershipRow("S1", 2019, 5, "99999")}
	communes := []domain.CommunePopulation{{CommuneInseeCode: "75101", PostalCode: "75001", RegionName: "Île-de-France"}}

	out, err := pipeline.FuseStationYears(stations, ridership, communes)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].RegionName)
	assert.Nil(t, out[0].TotalPopulation)
	assert.Equal(t, int64(99999), *out[0].PostalCode)
}

func TestFuseStationYears_DuplicateRidershipRows(t *testing.T) {
	stations := []domain.Station{{StationCode: "S1"}}
	ridership := []domain.YearlyRidership{
		ridershipRow("S1", 2019, 5, "75001"),
		ridershipRow("S1", 2019, 7, "75001"),
	}

	out, err := pipeline.FuseStationYears(stations, ridership, nil)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(5), *out[0].TotalTravelers)
}

func TestFuseStationYears_MalformedPostalCode(t *testing.T) {
	stations := []domain.Station{{StationCode: "S1"}}
	ridership := []domain.YearlyRidership{ridershipRow("S1", 2019, 5, "75 O01")}

	_, err := pipeline.FuseStationYears(stations, ridership, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTypeCoercion)
	stage, _ := apperrors.StageOf(err)
	assert.Equal(t, pipeline.StageNetworkFusionEngine, stage)
}

func TestDedupStationYears(t *testing.T) {
	region := func(s string) *string { return &s }
	in := []domain.StationYearRecord{
		{StationCode: "A", Year: 2019, RegionName: region("first")},
		{StationCode: "A", Year: 2020},
		{StationCode: "A", Year: 2019, RegionName: region("second")},
		{StationCode: "B", Year: 2019},
	}

	out := pipeline.DedupStationYears(in)

	require.Len(t, out, 3)
	assert.Equal(t, "first", *out[0].RegionName)
	assert.Equal(t, domain.StationYearKey{StationCode: "A", Year: 2020}, out[1].Key())
	assert.Equal(t, "B", out[2].StationCode)
	assert.Len(t, in, 4, "input is not modified")
}
