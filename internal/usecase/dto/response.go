package dto

import "github.com/rail-fusion/internal/domain"

// StationYearsResponse - список записей станция/год
type StationYearsResponse struct {
	Records []StationYear `json:"records"`
	Total   int           `json:"total"`
}

// StationYear - запись с координатами станции, у станции без геометрии их нет
type StationYear struct {
	domain.StationYearRecord
	Lon *float64 `json:"lon,omitempty"`
	Lat *float64 `json:"lat,omitempty"`
}

// RegionTravelersResponse - пассажиропоток по регионам и годам
type RegionTravelersResponse struct {
	IncludeIDF bool                         `json:"include_idf"`
	Items      []domain.RegionYearTravelers `json:"items"`
}

// RegionLossResponse - относительная потеря пассажиров по регионам
type RegionLossResponse struct {
	From  int                 `json:"from"`
	To    int                 `json:"to"`
	Items []domain.RegionLoss `json:"items"`
}

// TopStationsResponse - станции выше порога с радиусом маркера
type TopStationsResponse struct {
	Year     int          `json:"year"`
	Stations []TopStation `json:"stations"`
}

// TopStation - станция для карты сети
type TopStation struct {
	StationYear
	Radius float64 `json:"radius"`
}

// NewStationYears конвертирует записи домена
func NewStationYears(records []domain.StationYearRecord) []StationYear {
	out := make([]StationYear, len(records))
	for i, r := range records {
		out[i] = StationYear{StationYearRecord: r}
		if p, ok := r.Point(); ok {
			lon, lat := p.Lon(), p.Lat()
			out[i].Lon, out[i].Lat = &lon, &lat
		}
	}
	return out
}
