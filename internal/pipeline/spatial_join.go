package pipeline

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/rail-fusion/internal/domain"
)

// JoinSegments matches every line segment with its nearest speed segment and keeps the pair
// only when their distance is below tolerance. Rows sharing an identical geometry are
// collapsed to the first one.
func JoinSegments(lines []domain.LineSegment, speeds []domain.SpeedSegment, tolerance float64) ([]domain.JoinedSegment, error) {
	if len(lines) == 0 || len(speeds) == 0 {
		return []domain.JoinedSegment{}, nil
	}

	geoms := make([]orb.Geometry, len(speeds))
	for i, s := range speeds {
		geoms[i] = s.Geometry
	}
	index := newSegmentIndex(geoms)

	speedKeys := make(map[int]string)
	speedKey := func(i int) (string, error) {
		if k, ok := speedKeys[i]; ok {
			return k, nil
		}
		k, err := geometryKey(speeds[i].Geometry)
		if err != nil {
			return "", fmt.Errorf("stage %s: encode geometry of speed segment %s: %w", StageSpatialSegmentJoiner, speeds[i].LineCode, err)
		}
		speedKeys[i] = k
		return k, nil
	}

	out := make([]domain.JoinedSegment, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.Geometry == nil {
			continue
		}

		key, err := geometryKey(line.Geometry)
		if err != nil {
			return nil, fmt.Errorf("stage %s: encode geometry of line %s: %w", StageSpatialSegmentJoiner, line.LineCode, err)
		}

		// среди кандидатов на нулевом расстоянии идентичная геометрия важнее
		// соседа, касающегося концом; иначе при равенстве остаётся первый
		match, exact := -1, false
		best := tolerance
		for _, i := range index.candidates(line.Geometry.Bound(), tolerance) {
			d := geometryDistance(line.Geometry, speeds[i].Geometry)
			if d >= best && (d != 0 || exact) {
				continue
			}
			k, err := speedKey(i)
			if err != nil {
				return nil, err
			}
			switch {
			case d < best:
				best, match = d, i
				exact = d == 0 && k == key
			case k == key:
				match, exact = i, true
			}
		}
		if match < 0 {
			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		speed := speeds[match]
		out = append(out, domain.JoinedSegment{
			LineCode:  line.LineCode,
			Geometry:  line.Geometry,
			MaxSpeed:  speed.MaxSpeed,
			LineLabel: speed.LineLabel,
		})
	}
	return out, nil
}
