package pipeline

import (
	"github.com/paulmach/orb"

	"github.com/rail-fusion/internal/dataset"
	"github.com/rail-fusion/internal/domain"
)

// FilterStations keeps passenger stations, converts the freight flag to a boolean and
// collapses duplicates by station code. A station listed once per served line keeps only
// its first line.
func FilterStations(t *dataset.Table, cols StationColumns) ([]domain.Station, error) {
	if err := t.Require(StageStationRegistryFilter,
		cols.Code, cols.Label, cols.Passenger, cols.Freight, cols.LineCode, dataset.GeometryColumn); err != nil {
		return nil, err
	}

	out := make([]domain.Station, 0, t.Len())
	seen := make(map[string]struct{}, t.Len())
	for _, row := range t.Rows {
		if row.String(cols.Passenger) != domain.FlagYes {
			continue
		}
		code := normalizeCode(row.Get(cols.Code))
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		out = append(out, domain.Station{
			StationCode:    code,
			Label:          row.String(cols.Label),
			HandlesFreight: row.String(cols.Freight) == domain.FlagYes,
			LineCode:       row.String(cols.LineCode),
			Geometry:       stationPoint(row.Geometry),
		})
	}
	return out, nil
}

// stationPoint сводит геометрию реестра к точке; без координат остаётся nil
func stationPoint(g orb.Geometry) orb.Geometry {
	switch t := g.(type) {
	case nil:
		return nil
	case orb.Point:
		return t
	case orb.MultiPoint:
		if len(t) > 0 {
			return t[0]
		}
		return nil
	}
	b := g.Bound()
	if b.IsEmpty() {
		return nil
	}
	return b.Center()
}
