package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/pipeline"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
)

func rawSpeeds() []map[string]any {
	return []map[string]any{
		{"code_ligne": "420000", "lib_ligne": "Ligne de Paris à Lyon", "v_max": "160", "pkd": "000+000", "pkf": "010+000", "geometry": line(0, 0, 1, 0)},
		{"code_ligne": "420000", "lib_ligne": "Ligne de Paris à Lyon", "v_max": nil, "pkd": "010+000", "pkf": "020+000", "geometry": line(1, 0, 2, 0)},
		{"code_ligne": "752000", "lib_ligne": "LGV Sud-Est", "v_max": 300.0, "pkd": "000+000", "pkf": "050+000", "geometry": line(2, 0, 3, 0)},
		{"code_ligne": "752000", "lib_ligne": "LGV Sud-Est", "v_max": "220.0", "pkd": "050+000", "pkf": "060+000", "geometry": line(3, 0, 4, 0)},
	}
}

func TestFilterSpeedSegments_DropNA(t *testing.T) {
	// Arrange
	in := speedsTable(rawSpeeds()...)

	// Act
	out, err := pipeline.FilterSpeedSegments(in, cols.Speeds, domain.NullPolicyDrop)

	// Assert
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, s := range out {
		require.NotNil(t, s.MaxSpeed)
	}
	assert.Equal(t, int64(160), *out[0].MaxSpeed)
	assert.Equal(t, int64(300), *out[1].MaxSpeed)
	assert.Equal(t, int64(220), *out[2].MaxSpeed)
	assert.Equal(t, "000+000", out[0].StartMarker)
	assert.Equal(t, "010+000", out[0].EndMarker)
}

func TestFilterSpeedSegments_FillNA(t *testing.T) {
	in := speedsTable(rawSpeeds()...)

	out, err := pipeline.FilterSpeedSegments(in, cols.Speeds, domain.NullPolicyFill)

	require.NoError(t, err)
	require.Len(t, out, in.Len())
	require.NotNil(t, out[1].MaxSpeed)
	assert.Equal(t, int64(300), *out[1].MaxSpeed)
	assert.Equal(t, int64(160), *out[0].MaxSpeed)
}

func TestFilterSpeedSegments_FillNA_AllNull(t *testing.T) {
	in := speedsTable(
		map[string]any{"code_ligne": "1", "lib_ligne": "a", "pkd": "0", "pkf": "1", "geometry": line(0, 0, 1, 0)},
		map[string]any{"code_ligne": "2", "lib_ligne": "b", "v_max": "", "pkd": "0", "pkf": "1", "geometry": line(1, 0, 2, 0)},
	)

	out, err := pipeline.FilterSpeedSegments(in, cols.Speeds, domain.NullPolicyFill)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Nil(t, out[0].MaxSpeed)
	assert.Nil(t, out[1].MaxSpeed)
}

func TestFilterSpeedSegments_MalformedSpeed(t *testing.T) {
	in := speedsTable(
		map[string]any{"code_ligne": "1", "lib_ligne": "a", "v_max": "160", "pkd": "0", "pkf": "1", "geometry": line(0, 0, 1, 0)},
		map[string]any{"code_ligne": "2", "lib_ligne": "b", "v_max": "fast", "pkd": "0", "pkf": "1", "geometry": line(1, 0, 2, 0)},
	)

	_, err := pipeline.FilterSpeedSegments(in, cols.Speeds, domain.NullPolicyDrop)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTypeCoercion)

	var se *apperrors.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, pipeline.StageSpeedSegmentFilter, se.Stage)
	assert.Equal(t, "v_max", se.Column)
	assert.Equal(t, 1, se.Row)
}

func TestFilterSpeedSegments_InvalidPolicy(t *testing.T) {
	_, err := pipeline.FilterSpeedSegments(speedsTable(), cols.Speeds, domain.NullPolicy("ignore"))

	assert.Error(t, err)
}
