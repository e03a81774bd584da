package pipeline

import (
	"sort"
	"strconv"

	"github.com/rail-fusion/internal/dataset"
	"github.com/rail-fusion/internal/domain"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
)

// ReshapeRidership unpivots the wide ridership table: every year of the range becomes one
// row per station. The result is sorted by station key then year and always holds
// len(rows) × len(years) records.
func ReshapeRidership(t *dataset.Table, cols RidershipColumns, years domain.YearRange) ([]domain.YearlyRidership, error) {
	required := []string{cols.Code, cols.PostalCode, cols.Segment}
	for _, y := range years.Years() {
		required = append(required, cols.TravelersColumn(y), cols.TotalColumn(y))
	}
	if err := t.Require(StageRidershipReshaper, required...); err != nil {
		return nil, err
	}

	out := make([]domain.YearlyRidership, 0, t.Len()*len(years.Years()))
	for _, y := range years.Years() {
		travelersCol, totalCol := cols.TravelersColumn(y), cols.TotalColumn(y)
		for i, row := range t.Rows {
			travelers, err := toNullableInt(row.Get(travelersCol))
			if err != nil {
				return nil, apperrors.NewCoercionError(StageRidershipReshaper, travelersCol, i, err)
			}
			total, err := toNullableInt(row.Get(totalCol))
			if err != nil {
				return nil, apperrors.NewCoercionError(StageRidershipReshaper, totalCol, i, err)
			}
			out = append(out, domain.YearlyRidership{
				StationKey:                    normalizeCode(row.Get(cols.Code)),
				Year:                          y,
				TotalTravelers:                travelers,
				TotalTravelersAndNonTravelers: total,
				SegmentLabel:                  row.String(cols.Segment),
				PostalCode:                    row.String(cols.PostalCode),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StationKey != out[j].StationKey {
			return stationKeyLess(out[i].StationKey, out[j].StationKey)
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}

// stationKeyLess orders numeric UIC codes by value and puts them before any
// non-numeric key; non-numeric keys compare as strings.
func stationKeyLess(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
