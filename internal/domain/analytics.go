package domain

// RegionYearTravelers - суммарный пассажиропоток региона за год
type RegionYearTravelers struct {
	RegionName     string `json:"region_name"`
	Year           int    `json:"year"`
	TotalTravelers int64  `json:"total_travelers"`
}

// RegionLoss - относительная потеря пассажиров между двумя годами, в процентах
type RegionLoss struct {
	RegionName   string  `json:"region_name"`
	FromTotal    int64   `json:"from_total"`
	ToTotal      int64   `json:"to_total"`
	RelativeLoss float64 `json:"relative_loss"`
}

// RegionIleDeFrance исключается из части графиков, так как на порядок больше остальных
const RegionIleDeFrance = "Île-de-France"
