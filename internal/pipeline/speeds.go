package pipeline

import (
	"fmt"

	"github.com/rail-fusion/internal/dataset"
	"github.com/rail-fusion/internal/domain"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
)

// FilterSpeedSegments coerces the raw max speed to a nullable integer and applies the
// null policy: drop-na removes rows without a speed, fill-na substitutes the maximum speed
// of the whole input. Markers are exposed under the same names as line segments.
func FilterSpeedSegments(t *dataset.Table, cols SpeedColumns, policy domain.NullPolicy) ([]domain.SpeedSegment, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("stage %s: invalid null policy %q", StageSpeedSegmentFilter, policy)
	}
	if err := t.Require(StageSpeedSegmentFilter,
		cols.LineCode, cols.LineLabel, cols.MaxSpeed, cols.StartMarker, cols.EndMarker, dataset.GeometryColumn); err != nil {
		return nil, err
	}

	all := make([]domain.SpeedSegment, 0, t.Len())
	var max *int64
	for i, row := range t.Rows {
		speed, err := toNullableInt(row.Get(cols.MaxSpeed))
		if err != nil {
			return nil, apperrors.NewCoercionError(StageSpeedSegmentFilter, cols.MaxSpeed, i, err)
		}
		if speed != nil && (max == nil || *speed > *max) {
			v := *speed
			max = &v
		}
		all = append(all, domain.SpeedSegment{
			LineCode:    row.String(cols.LineCode),
			LineLabel:   row.String(cols.LineLabel),
			MaxSpeed:    speed,
			Geometry:    row.Geometry,
			StartMarker: row.String(cols.StartMarker),
			EndMarker:   row.String(cols.EndMarker),
		})
	}

	if policy == domain.NullPolicyFill {
		// если скоростей нет совсем, подставлять нечего
		if max != nil {
			for i := range all {
				if all[i].MaxSpeed == nil {
					v := *max
					all[i].MaxSpeed = &v
				}
			}
		}
		return all, nil
	}

	out := all[:0]
	for _, s := range all {
		if s.MaxSpeed != nil {
			out = append(out, s)
		}
	}
	return out, nil
}
