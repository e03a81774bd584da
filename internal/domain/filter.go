package domain

// SegmentFilter - фильтр участков для API
type SegmentFilter struct {
	LineCodes []string
	MinSpeed  *int64
}

// StationYearFilter - фильтр записей станция/год
type StationYearFilter struct {
	StationCodes []string
	Years        []int
	Region       string
	MinTravelers *int64
	Limit        int
}
