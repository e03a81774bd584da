package pipeline

import (
	"github.com/rail-fusion/internal/domain"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
)

// FuseStationYears joins passenger stations with their yearly ridership and then with the
// commune registry by postal code.
//
// Порядок соединений:
//  1. станции × пассажиропоток по коду станции; станция без пассажиропотока не попадает в результат
//  2. почтовый индекс приводится к целому числу
//  3. left join коммун по индексу, после чего DedupStationYears восстанавливает уникальность
//     (station_code, year): один индекс может соответствовать нескольким коммунам
func FuseStationYears(stations []domain.Station, ridership []domain.YearlyRidership, communes []domain.CommunePopulation) ([]domain.StationYearRecord, error) {
	byStation := make(map[string][]domain.YearlyRidership, len(stations))
	for _, r := range ridership {
		byStation[r.StationKey] = append(byStation[r.StationKey], r)
	}

	type joined struct {
		record     domain.StationYearRecord
		postalCode string
	}

	var rows []joined
	for _, st := range stations {
		for _, r := range byStation[st.StationCode] {
			rows = append(rows, joined{
				record: domain.StationYearRecord{
					StationCode:                   st.StationCode,
					Year:                          r.Year,
					TotalTravelers:                r.TotalTravelers,
					TotalTravelersAndNonTravelers: r.TotalTravelersAndNonTravelers,
					SegmentLabel:                  r.SegmentLabel,
					Label:                         st.Label,
					HandlesFreight:                st.HandlesFreight,
					LineCode:                      st.LineCode,
					Geometry:                      st.Geometry,
				},
				postalCode: r.PostalCode,
			})
		}
	}

	seen := make(map[domain.StationYearKey]struct{}, len(rows))
	records := make([]domain.StationYearRecord, 0, len(rows))
	for i, row := range rows {
		if _, dup := seen[row.record.Key()]; dup {
			continue
		}
		seen[row.record.Key()] = struct{}{}

		postal, err := toNullableInt(row.postalCode)
		if err != nil {
			return nil, apperrors.NewCoercionError(StageNetworkFusionEngine, "postal_code", i, err)
		}
		row.record.PostalCode = postal
		records = append(records, row.record)
	}

	byPostal := make(map[int64][]domain.CommunePopulation, len(communes))
	for i, c := range communes {
		postal, err := toNullableInt(c.PostalCode)
		if err != nil {
			return nil, apperrors.NewCoercionError(StageNetworkFusionEngine, "commune.postal_code", i, err)
		}
		if postal == nil {
			continue
		}
		byPostal[*postal] = append(byPostal[*postal], c)
	}

	fanned := make([]domain.StationYearRecord, 0, len(records))
	for _, rec := range records {
		var matches []domain.CommunePopulation
		if rec.PostalCode != nil {
			matches = byPostal[*rec.PostalCode]
		}
		if len(matches) == 0 {
			fanned = append(fanned, rec)
			continue
		}
		for _, c := range matches {
			fanned = append(fanned, withCommune(rec, c))
		}
	}

	return DedupStationYears(fanned), nil
}

// DedupStationYears keeps the first record of every (station_code, year) pair, preserving
// order.
func DedupStationYears(records []domain.StationYearRecord) []domain.StationYearRecord {
	seen := make(map[domain.StationYearKey]struct{}, len(records))
	out := make([]domain.StationYearRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.Key()]; dup {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r)
	}
	return out
}

func withCommune(rec domain.StationYearRecord, c domain.CommunePopulation) domain.StationYearRecord {
	insee, name := c.CommuneInseeCode, c.CommuneName
	dep, depName, region := c.DepartmentCode, c.DepartmentName, c.RegionName
	rec.CommuneInseeCode = &insee
	rec.CommuneName = &name
	rec.DepartmentCode = &dep
	rec.DepartmentName = &depName
	rec.RegionName = &region
	rec.TotalPopulation = c.TotalPopulation
	return rec
}
