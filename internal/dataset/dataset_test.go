package dataset_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rail-fusion/internal/dataset"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
)

const shapesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"code_ligne": "420000", "libelle": "Exploitée", "pk_debut_r": "000+000", "pk_fin_r": "012+500"},
     "geometry": {"type": "LineString", "coordinates": [[2.35, 48.85], [2.40, 48.90]]}},
    {"type": "Feature", "properties": {"code_ligne": 830000, "libelle": "Neutralisée"},
     "geometry": {"type": "LineString", "coordinates": [[5.0, 45.0], [5.1, 45.1]]}}
  ]
}`

func TestReadGeoJSON(t *testing.T) {
	table, err := dataset.ReadGeoJSON("shapes", strings.NewReader(shapesGeoJSON))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"code_ligne", "libelle", "pk_debut_r", "pk_fin_r", dataset.GeometryColumn}, table.Columns)
	assert.Equal(t, "420000", table.Rows[0].String("code_ligne"))
	assert.Equal(t, "830000", table.Rows[1].String("code_ligne"))
	assert.Equal(t, "", table.Rows[1].String("pk_debut_r"))

	ls, ok := table.Rows[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.Point{2.35, 48.85}, ls[0])
}

func TestReadGeoJSON_Invalid(t *testing.T) {
	_, err := dataset.ReadGeoJSON("broken", strings.NewReader(`{"type": "FeatureCollection", "features": [`))
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffNom de la gare;Code UIC;Total Voyageurs 2019\n" +
		"Gare A;87000001;1000\n" +
		"Gare B;87000002;\n"

	table, err := dataset.ReadCSV("frequentation", strings.NewReader(input), ';')
	require.NoError(t, err)

	assert.Equal(t, []string{"Nom de la gare", "Code UIC", "Total Voyageurs 2019"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "1000", table.Rows[0].Get("Total Voyageurs 2019"))
	assert.Nil(t, table.Rows[1].Get("Total Voyageurs 2019"))
}

func TestReadCSV_Empty(t *testing.T) {
	table, err := dataset.ReadCSV("empty", strings.NewReader(""), ',')
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestTable_Require(t *testing.T) {
	table := dataset.New("gares", "code_uic", "libelle")

	assert.NoError(t, table.Require("station_registry_filter", "code_uic"))

	err := table.Require("station_registry_filter", "code_uic", "voyageurs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSchema))

	var se *apperrors.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "voyageurs", se.Column)
	assert.Equal(t, "station_registry_filter", se.Stage)
}

func TestTable_Rename(t *testing.T) {
	table := dataset.New("population", "Code Insee", "Population totale")
	table.Append(map[string]any{"Code Insee": "75101", "Population totale": "16000"}, nil)

	renamed := table.Rename("Code Insee", "code_commune_INSEE")

	assert.True(t, renamed.HasColumn("code_commune_INSEE"))
	assert.False(t, renamed.HasColumn("Code Insee"))
	assert.Equal(t, "75101", renamed.Rows[0].String("code_commune_INSEE"))
	// исходная таблица не меняется
	assert.Equal(t, "75101", table.Rows[0].String("Code Insee"))
}

func TestToString(t *testing.T) {
	tests := []struct {
		in       any
		expected string
	}{
		{nil, ""},
		{"  abc ", "abc"},
		{float64(160), "160"},
		{87271007.0, "87271007"},
		{12.5, "12.5"},
		{int64(42), "42"},
		{true, "true"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, dataset.ToString(tt.in))
	}
}
