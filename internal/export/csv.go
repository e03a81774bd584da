package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/rail-fusion/internal/domain"
)

func EncodeSegmentsCSV(w io.Writer, segments []domain.JoinedSegment) error {
	return writeCSV(w, []string{"line_code", "geometry", "max_speed", "line_label"}, len(segments), func(i int) []string {
		s := segments[i]
		return []string{s.LineCode, geometryText(s.Geometry), intText(s.MaxSpeed), s.LineLabel}
	})
}

func EncodeStationYearsCSV(w io.Writer, records []domain.StationYearRecord) error {
	header := []string{
		"station_code", "year", "total_travelers", "total_travelers_and_non_travelers", "segment_label",
		"label", "handles_freight", "line_code", "geometry", "postal_code", "commune_insee_code",
		"commune_name", "department_code", "department_name", "region_name", "total_population",
	}
	return writeCSV(w, header, len(records), func(i int) []string {
		r := records[i]
		return []string{
			r.StationCode,
			strconv.Itoa(r.Year),
			intText(r.TotalTravelers),
			intText(r.TotalTravelersAndNonTravelers),
			r.SegmentLabel,
			r.Label,
			strconv.FormatBool(r.HandlesFreight),
			r.LineCode,
			geometryText(r.Geometry),
			intText(r.PostalCode),
			stringText(r.CommuneInseeCode),
			stringText(r.CommuneName),
			stringText(r.DepartmentCode),
			stringText(r.DepartmentName),
			stringText(r.RegionName),
			intText(r.TotalPopulation),
		}
	})
}

func EncodeShapesCSV(w io.Writer, shapes []domain.LineSegment) error {
	return writeCSV(w, []string{"code_ligne", "libelle", "geometry", "pk_debut_r", "pk_fin_r"}, len(shapes), func(i int) []string {
		s := shapes[i]
		return []string{s.LineCode, s.StatusLabel, geometryText(s.Geometry), s.StartMarker, s.EndMarker}
	})
}

func EncodeSpeedsCSV(w io.Writer, speeds []domain.SpeedSegment) error {
	return writeCSV(w, []string{"code_ligne", "lib_ligne", "v_max", "geometry", "pk_debut_r", "pk_fin_r"}, len(speeds), func(i int) []string {
		s := speeds[i]
		return []string{s.LineCode, s.LineLabel, intText(s.MaxSpeed), geometryText(s.Geometry), s.StartMarker, s.EndMarker}
	})
}

func EncodeRidershipCSV(w io.Writer, ridership []domain.YearlyRidership) error {
	header := []string{"code_uic", "year", "total_travelers", "total_travelers_and_non_travelers", "segment_label", "postal_code"}
	return writeCSV(w, header, len(ridership), func(i int) []string {
		r := ridership[i]
		return []string{
			r.StationKey, strconv.Itoa(r.Year), intText(r.TotalTravelers),
			intText(r.TotalTravelersAndNonTravelers), r.SegmentLabel, r.PostalCode,
		}
	})
}

func EncodeStationsCSV(w io.Writer, stations []domain.Station) error {
	return writeCSV(w, []string{"code_uic", "libelle", "fret", "code_ligne", "geometry"}, len(stations), func(i int) []string {
		s := stations[i]
		return []string{s.StationCode, s.Label, strconv.FormatBool(s.HandlesFreight), s.LineCode, geometryText(s.Geometry)}
	})
}

func EncodeCommunesCSV(w io.Writer, communes []domain.CommunePopulation) error {
	header := []string{
		"code_commune_INSEE", "nom_commune_postal", "code_postal", "code_departement",
		"nom_departement", "nom_region", "population_totale",
	}
	return writeCSV(w, header, len(communes), func(i int) []string {
		c := communes[i]
		return []string{
			c.CommuneInseeCode, c.CommuneName, c.PostalCode, c.DepartmentCode,
			c.DepartmentName, c.RegionName, intText(c.TotalPopulation),
		}
	})
}

func writeCSV(w io.Writer, header []string, n int, row func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func geometryText(g orb.Geometry) string {
	if g == nil {
		return ""
	}
	return wkt.MarshalString(g)
}

func intText(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func stringText(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
