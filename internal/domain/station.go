package domain

import "github.com/paulmach/orb"

// FlagYes - код "да" в реестре станций
const FlagYes = "O"

// Station - станция, открытая для пассажиров
type Station struct {
	StationCode    string    `json:"station_code"`
	Label          string    `json:"label"`
	HandlesFreight bool      `json:"handles_freight"`
	LineCode       string    `json:"line_code"`
	// Geometry - orb.Point или nil, если в реестре нет координат
	Geometry orb.Geometry `json:"-"`
}

// YearlyRidership - пассажиропоток станции за один год
type YearlyRidership struct {
	StationKey                    string `json:"station_key"`
	Year                          int    `json:"year"`
	TotalTravelers                *int64 `json:"total_travelers,omitempty"`
	TotalTravelersAndNonTravelers *int64 `json:"total_travelers_and_non_travelers,omitempty"`
	SegmentLabel                  string `json:"segment_label"`
	PostalCode                    string `json:"postal_code"`
}

// StationYearKey - ключ уникальности итоговой таблицы
type StationYearKey struct {
	StationCode string
	Year        int
}

// StationYearRecord - итоговая запись станция/год со всеми атрибутами
type StationYearRecord struct {
	StationCode                   string    `json:"station_code" db:"station_code"`
	Year                          int       `json:"year" db:"year"`
	TotalTravelers                *int64    `json:"total_travelers,omitempty" db:"total_travelers"`
	TotalTravelersAndNonTravelers *int64    `json:"total_travelers_and_non_travelers,omitempty" db:"total_travelers_and_non_travelers"`
	SegmentLabel                  string    `json:"segment_label" db:"segment_label"`
	Label                         string    `json:"label" db:"label"`
	HandlesFreight                bool      `json:"handles_freight" db:"handles_freight"`
	LineCode                      string    `json:"line_code" db:"line_code"`
	Geometry                      orb.Geometry `json:"-" db:"-"`
	PostalCode                    *int64    `json:"postal_code,omitempty" db:"postal_code"`
	CommuneInseeCode              *string   `json:"commune_insee_code,omitempty" db:"commune_insee_code"`
	CommuneName                   *string   `json:"commune_name,omitempty" db:"commune_name"`
	DepartmentCode                *string   `json:"department_code,omitempty" db:"department_code"`
	DepartmentName                *string   `json:"department_name,omitempty" db:"department_name"`
	RegionName                    *string   `json:"region_name,omitempty" db:"region_name"`
	TotalPopulation               *int64    `json:"total_population,omitempty" db:"total_population"`
}

// Key возвращает ключ (station_code, year)
func (r *StationYearRecord) Key() StationYearKey {
	return StationYearKey{StationCode: r.StationCode, Year: r.Year}
}

// Region возвращает имя региона или пустую строку, если коммуна не найдена
func (r *StationYearRecord) Region() string {
	if r.RegionName == nil {
		return ""
	}
	return *r.RegionName
}

// Point возвращает координаты станции, false при отсутствии геометрии
func (r *StationYearRecord) Point() (orb.Point, bool) {
	p, ok := r.Geometry.(orb.Point)
	return p, ok
}
