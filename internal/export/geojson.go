package export

import (
	"io"

	"github.com/paulmach/orb/geojson"

	"github.com/rail-fusion/internal/domain"
)

func EncodeSegmentsGeoJSON(w io.Writer, segments []domain.JoinedSegment) error {
	return writeCollection(w, SegmentsFeatureCollection(segments))
}

func EncodeStationYearsGeoJSON(w io.Writer, records []domain.StationYearRecord) error {
	return writeCollection(w, StationYearsFeatureCollection(records))
}

// SegmentsFeatureCollection renders segments as line features; a missing speed is null.
func SegmentsFeatureCollection(segments []domain.JoinedSegment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range segments {
		f := geojson.NewFeature(s.Geometry)
		f.Properties["line_code"] = s.LineCode
		f.Properties["max_speed"] = nullableInt(s.MaxSpeed)
		f.Properties["line_label"] = s.LineLabel
		fc.Append(f)
	}
	return fc
}

func StationYearsFeatureCollection(records []domain.StationYearRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		f := geojson.NewFeature(r.Geometry)
		f.Properties["station_code"] = r.StationCode
		f.Properties["year"] = r.Year
		f.Properties["total_travelers"] = nullableInt(r.TotalTravelers)
		f.Properties["total_travelers_and_non_travelers"] = nullableInt(r.TotalTravelersAndNonTravelers)
		f.Properties["segment_label"] = r.SegmentLabel
		f.Properties["label"] = r.Label
		f.Properties["handles_freight"] = r.HandlesFreight
		f.Properties["line_code"] = r.LineCode
		f.Properties["postal_code"] = nullableInt(r.PostalCode)
		f.Properties["commune_insee_code"] = nullableString(r.CommuneInseeCode)
		f.Properties["commune_name"] = nullableString(r.CommuneName)
		f.Properties["department_code"] = nullableString(r.DepartmentCode)
		f.Properties["department_name"] = nullableString(r.DepartmentName)
		f.Properties["region_name"] = nullableString(r.RegionName)
		f.Properties["total_population"] = nullableInt(r.TotalPopulation)
		fc.Append(f)
	}
	return fc
}

func writeCollection(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func nullableInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
