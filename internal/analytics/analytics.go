// Package analytics aggregates the station-year table for the dashboard.
package analytics

import (
	"math"
	"sort"

	"github.com/rail-fusion/internal/domain"
)

// RegionTravelers sums travelers per (region, year), sorted by region then year.
// Records without a region are ignored; null travelers count as zero.
func RegionTravelers(records []domain.StationYearRecord, includeIDF bool) []domain.RegionYearTravelers {
	type key struct {
		region string
		year   int
	}
	sums := make(map[key]int64)
	for i := range records {
		r := &records[i]
		region := r.Region()
		if region == "" {
			continue
		}
		if !includeIDF && region == domain.RegionIleDeFrance {
			continue
		}
		k := key{region: region, year: r.Year}
		if r.TotalTravelers != nil {
			sums[k] += *r.TotalTravelers
		} else if _, ok := sums[k]; !ok {
			sums[k] = 0
		}
	}

	out := make([]domain.RegionYearTravelers, 0, len(sums))
	for k, total := range sums {
		out = append(out, domain.RegionYearTravelers{RegionName: k.region, Year: k.year, TotalTravelers: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RegionName != out[j].RegionName {
			return out[i].RegionName < out[j].RegionName
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// RelativeLoss computes the percentage of travelers lost by each region between two years,
// rounded to two decimals and sorted from the largest loss. Regions missing either year, or
// with no travelers in the first one, are skipped.
func RelativeLoss(records []domain.StationYearRecord, from, to int) []domain.RegionLoss {
	fromTotals := make(map[string]int64)
	toTotals := make(map[string]int64)
	for _, t := range RegionTravelers(records, true) {
		switch t.Year {
		case from:
			fromTotals[t.RegionName] = t.TotalTravelers
		case to:
			toTotals[t.RegionName] = t.TotalTravelers
		}
	}

	out := make([]domain.RegionLoss, 0, len(fromTotals))
	for region, before := range fromTotals {
		after, ok := toTotals[region]
		if !ok || before == 0 {
			continue
		}
		loss := float64(before-after) / float64(before) * 100
		out = append(out, domain.RegionLoss{
			RegionName:   region,
			FromTotal:    before,
			ToTotal:      after,
			RelativeLoss: math.Round(loss*100) / 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RelativeLoss != out[j].RelativeLoss {
			return out[i].RelativeLoss > out[j].RelativeLoss
		}
		return out[i].RegionName < out[j].RegionName
	})
	return out
}

// TopStations returns the stations of a year with more than minTravelers travelers,
// busiest first. Stations of excludeRegion are left out when it is not empty.
func TopStations(records []domain.StationYearRecord, year int, minTravelers int64, excludeRegion string) []domain.StationYearRecord {
	var out []domain.StationYearRecord
	for _, r := range records {
		if r.Year != year || r.TotalTravelers == nil || *r.TotalTravelers <= minTravelers {
			continue
		}
		if excludeRegion != "" && r.Region() == excludeRegion {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].TotalTravelers > *out[j].TotalTravelers
	})
	return out
}

// MarkerRadius scales a traveler count linearly between minSize and maxSize pixels
// relative to the smallest and largest counts of the selection.
func MarkerRadius(travelers, minTravelers, maxTravelers int64, minSize, maxSize float64) float64 {
	if maxTravelers == minTravelers {
		return maxSize
	}
	return minSize + (maxSize-minSize)*float64(travelers-minTravelers)/float64(maxTravelers-minTravelers)
}
