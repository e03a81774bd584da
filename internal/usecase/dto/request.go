package dto

// SegmentsRequest - параметры запроса участков
type SegmentsRequest struct {
	LineCodes []string `validate:"omitempty,dive,required"`
	MinSpeed  *int64   `validate:"omitempty,gte=0"`
}

// StationYearsRequest - параметры запроса записей станция/год
type StationYearsRequest struct {
	Year         *int   `validate:"omitempty,gte=1900,lte=2100"`
	Region       string `validate:"omitempty,max=100"`
	MinTravelers *int64 `validate:"omitempty,gte=0"`
	Limit        int    `validate:"gte=0,lte=10000"`
}

// CovidLossRequest - годы сравнения пассажиропотока
type CovidLossRequest struct {
	From int `validate:"gte=1900,lte=2100"`
	To   int `validate:"gte=1900,lte=2100,gtfield=From"`
}

// TopStationsRequest - параметры выборки самых загруженных станций
type TopStationsRequest struct {
	Year          int    `validate:"gte=1900,lte=2100"`
	MinTravelers  int64  `validate:"gte=0"`
	ExcludeRegion string `validate:"omitempty,max=100"`
}
