package testhelpers

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/rail-fusion/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

// SampleSegments returns two joined segments on different lines
func SampleSegments() []domain.JoinedSegment {
	return []domain.JoinedSegment{
		{
			LineCode:  "570000",
			Geometry:  orb.LineString{{2.35, 48.85}, {2.40, 48.90}},
			MaxSpeed:  ptr(int64(160)),
			LineLabel: "Ligne de Paris-Nord a Lille",
		},
		{
			LineCode:  "830000",
			Geometry:  orb.MultiLineString{{{4.83, 45.76}, {4.90, 45.80}}, {{4.90, 45.80}, {5.00, 45.85}}},
			MaxSpeed:  nil,
			LineLabel: "Ligne de Lyon a Marseille",
		},
	}
}

// SampleStationYears returns records for two stations, one without a commune match
func SampleStationYears() []domain.StationYearRecord {
	return []domain.StationYearRecord{
		{
			StationCode:      "87271007",
			Year:             2019,
			TotalTravelers:   ptr(int64(1200000)),
			SegmentLabel:     "a",
			Label:            "Paris-Nord",
			LineCode:         "570000",
			Geometry:         orb.Point{2.355, 48.880},
			PostalCode:       ptr(int64(75010)),
			CommuneInseeCode: ptr("75110"),
			CommuneName:      ptr("Paris 10e"),
			DepartmentCode:   ptr("75"),
			DepartmentName:   ptr("Paris"),
			RegionName:       ptr("Île-de-France"),
			TotalPopulation:  ptr(int64(83459)),
		},
		{
			StationCode:    "87271007",
			Year:           2020,
			TotalTravelers: ptr(int64(600000)),
			SegmentLabel:   "a",
			Label:          "Paris-Nord",
			LineCode:       "570000",
			Geometry:       orb.Point{2.355, 48.880},
			PostalCode:     ptr(int64(75010)),
			RegionName:     ptr("Île-de-France"),
		},
		{
			StationCode:    "87722025",
			Year:           2019,
			TotalTravelers: ptr(int64(300000)),
			SegmentLabel:   "b",
			Label:          "Lyon-Part-Dieu",
			HandlesFreight: true,
			LineCode:       "830000",
			Geometry:       orb.Point{4.859, 45.760},
		},
	}
}

// SampleRunReport returns a succeeded run finished at the given time
func SampleRunReport(finished time.Time) *domain.RunReport {
	return &domain.RunReport{
		RunID:            uuid.New(),
		Status:           domain.RunStatusSucceeded,
		NullPolicy:       domain.NullPolicyDrop,
		StartedAt:        finished.Add(-time.Second),
		FinishedAt:       finished,
		SegmentCount:     2,
		StationYearCount: 3,
		Stages: []domain.StageReport{
			{Stage: "line_shape_filter", RowsIn: 3, RowsOut: 2, Duration: time.Millisecond},
		},
		Warnings: []string{"stage station_registry_filter produced no rows"},
	}
}
