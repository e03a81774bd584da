package domain

// NullPolicy определяет обработку отсутствующей максимальной скорости
type NullPolicy string

const (
	// NullPolicyDrop удаляет участки без скорости
	NullPolicyDrop NullPolicy = "drop-na"
	// NullPolicyFill подставляет максимальную скорость по всему набору
	NullPolicyFill NullPolicy = "fill-na"
)

func (p NullPolicy) Valid() bool {
	return p == NullPolicyDrop || p == NullPolicyFill
}

// YearRange - включительный диапазон лет пассажиропотока
type YearRange struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// DefaultYears - годы, публикуемые в открытых данных пассажиропотока
var DefaultYears = YearRange{From: 2015, To: 2023}

// Years возвращает все годы диапазона по возрастанию
func (r YearRange) Years() []int {
	if r.To < r.From {
		return nil
	}
	years := make([]int, 0, r.To-r.From+1)
	for y := r.From; y <= r.To; y++ {
		years = append(years, y)
	}
	return years
}

func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}
