package domain

// InseeCodeWidth - ширина кода коммуны INSEE
const InseeCodeWidth = 5

// CommunePopulation - коммуна с населением
type CommunePopulation struct {
	CommuneInseeCode string `json:"commune_insee_code"`
	CommuneName      string `json:"commune_name"`
	PostalCode       string `json:"postal_code"`
	DepartmentCode   string `json:"department_code"`
	DepartmentName   string `json:"department_name"`
	RegionName       string `json:"region_name"`
	TotalPopulation  *int64 `json:"total_population,omitempty"`
}
