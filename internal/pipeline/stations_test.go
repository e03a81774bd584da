package pipeline_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rail-fusion/internal/pipeline"
)

func TestFilterStations(t *testing.T) {
	// Arrange
	in := stationsTable(
		map[string]any{"code_uic": 87271007.0, "libelle": "Paris-Nord", "voyageurs": "O", "fret": "N", "code_ligne": "272000", "geometry": orb.Point{2.355, 48.880}},
		map[string]any{"code_uic": 87271007.0, "libelle": "Paris-Nord", "voyageurs": "O", "fret": "O", "code_ligne": "273000", "geometry": orb.Point{2.355, 48.880}},
		map[string]any{"code_uic": "87000003", "libelle": "Triage", "voyageurs": "N", "fret": "O", "code_ligne": "1", "geometry": orb.Point{1, 1}},
		map[string]any{"code_uic": "87723197", "libelle": "Lyon Part-Dieu", "voyageurs": "O", "fret": "O", "code_ligne": "752000", "geometry": orb.Point{4.859, 45.760}},
	)

	// Act
	out, err := pipeline.FilterStations(in, cols.Stations)

	// Assert
	require.NoError(t, err)
	require.Len(t, out, 2)

	codes := make(map[string]bool)
	for _, s := range out {
		assert.False(t, codes[s.StationCode], "duplicate station code %s", s.StationCode)
		codes[s.StationCode] = true
	}

	assert.Equal(t, "87271007", out[0].StationCode)
	assert.False(t, out[0].HandlesFreight)
	assert.Equal(t, "272000", out[0].LineCode, "first listed line wins")
	assert.Equal(t, orb.Point{2.355, 48.880}, out[0].Geometry)
	assert.Equal(t, "87723197", out[1].StationCode)
	assert.True(t, out[1].HandlesFreight)
}

func TestFilterStations_MissingFlag(t *testing.T) {
	in := stationsTable()
	in.Columns = []string{"code_uic", "libelle", "fret", "code_ligne", "geometry"}

	_, err := pipeline.FilterStations(in, cols.Stations)

	assert.Error(t, err)
}

func TestFilterStations_MissingGeometryStaysNull(t *testing.T) {
	in := stationsTable(
		map[string]any{"code_uic": "87000001", "libelle": "Sans point", "voyageurs": "O", "fret": "N", "code_ligne": "1"},
		map[string]any{"code_uic": "87000002", "libelle": "Vide", "voyageurs": "O", "fret": "N", "code_ligne": "1", "geometry": orb.MultiPoint{}},
		map[string]any{"code_uic": "87000003", "libelle": "Quai", "voyageurs": "O", "fret": "N", "code_ligne": "1", "geometry": orb.LineString{{2, 48}, {4, 50}}},
	)

	out, err := pipeline.FilterStations(in, cols.Stations)

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Nil(t, out[0].Geometry)
	assert.Nil(t, out[1].Geometry)
	assert.Equal(t, orb.Point{3, 49}, out[2].Geometry)
}
