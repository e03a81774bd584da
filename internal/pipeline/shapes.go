package pipeline

import (
	"github.com/rail-fusion/internal/dataset"
	"github.com/rail-fusion/internal/domain"
)

// FilterLineShapes keeps line geometries whose status is exactly "Exploitée".
func FilterLineShapes(t *dataset.Table, cols ShapeColumns) ([]domain.LineSegment, error) {
	if err := t.Require(StageLineShapeFilter,
		cols.LineCode, cols.Status, cols.StartMarker, cols.EndMarker, dataset.GeometryColumn); err != nil {
		return nil, err
	}

	out := make([]domain.LineSegment, 0, t.Len())
	for _, row := range t.Rows {
		status, _ := row.Get(cols.Status).(string)
		if status != domain.StatusInOperation {
			continue
		}
		out = append(out, domain.LineSegment{
			LineCode:    row.String(cols.LineCode),
			StatusLabel: status,
			Geometry:    row.Geometry,
			StartMarker: row.String(cols.StartMarker),
			EndMarker:   row.String(cols.EndMarker),
		})
	}
	return out, nil
}
