package pipeline

import "strconv"

// Columns maps raw source column names onto pipeline fields.
// DefaultColumns matches the datasets published by SNCF Réseau and INSEE.
type Columns struct {
	Shapes     ShapeColumns      `yaml:"shapes"`
	Speeds     SpeedColumns      `yaml:"speeds"`
	Stations   StationColumns    `yaml:"stations"`
	Ridership  RidershipColumns  `yaml:"ridership"`
	Communes   CommuneColumns    `yaml:"communes"`
	Population PopulationColumns `yaml:"population"`
}

type ShapeColumns struct {
	LineCode    string `yaml:"line_code"`
	Status      string `yaml:"status"`
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
}

type SpeedColumns struct {
	LineCode    string `yaml:"line_code"`
	LineLabel   string `yaml:"line_label"`
	MaxSpeed    string `yaml:"max_speed"`
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
}

type StationColumns struct {
	Code      string `yaml:"code"`
	Label     string `yaml:"label"`
	Passenger string `yaml:"passenger"`
	Freight   string `yaml:"freight"`
	LineCode  string `yaml:"line_code"`
}

type RidershipColumns struct {
	Name       string `yaml:"name"`
	Code       string `yaml:"code"`
	PostalCode string `yaml:"postal_code"`
	Segment    string `yaml:"segment"`
	// TravelersPrefix и TotalPrefix дополняются годом: "Total Voyageurs 2019"
	TravelersPrefix string `yaml:"travelers_prefix"`
	TotalPrefix     string `yaml:"total_prefix"`
}

// TravelersColumn returns the wide column holding travelers of a year.
func (c RidershipColumns) TravelersColumn(year int) string {
	return c.TravelersPrefix + strconv.Itoa(year)
}

// TotalColumn returns the wide column holding travelers and non travelers of a year.
func (c RidershipColumns) TotalColumn(year int) string {
	return c.TotalPrefix + strconv.Itoa(year)
}

type CommuneColumns struct {
	InseeCode      string `yaml:"insee_code"`
	Name           string `yaml:"name"`
	PostalCode     string `yaml:"postal_code"`
	DepartmentCode string `yaml:"department_code"`
	DepartmentName string `yaml:"department_name"`
	RegionName     string `yaml:"region_name"`
}

type PopulationColumns struct {
	InseeCode  string `yaml:"insee_code"`
	Population string `yaml:"population"`
}

func DefaultColumns() Columns {
	return Columns{
		Shapes: ShapeColumns{
			LineCode:    "code_ligne",
			Status:      "libelle",
			StartMarker: "pk_debut_r",
			EndMarker:   "pk_fin_r",
		},
		Speeds: SpeedColumns{
			LineCode:    "code_ligne",
			LineLabel:   "lib_ligne",
			MaxSpeed:    "v_max",
			StartMarker: "pkd",
			EndMarker:   "pkf",
		},
		Stations: StationColumns{
			Code:      "code_uic",
			Label:     "libelle",
			Passenger: "voyageurs",
			Freight:   "fret",
			LineCode:  "code_ligne",
		},
		Ridership: RidershipColumns{
			Name:            "Nom de la gare",
			Code:            "Code UIC",
			PostalCode:      "Code postal",
			Segment:         "Segmentation DRG",
			TravelersPrefix: "Total Voyageurs ",
			TotalPrefix:     "Total Voyageurs + Non voyageurs ",
		},
		Communes: CommuneColumns{
			InseeCode:      "code_commune_INSEE",
			Name:           "nom_commune_postal",
			PostalCode:     "code_postal",
			DepartmentCode: "code_departement",
			DepartmentName: "nom_departement",
			RegionName:     "nom_region",
		},
		Population: PopulationColumns{
			InseeCode:  "Code Insee",
			Population: "Population totale",
		},
	}
}

// Merge fills empty names of c with those of def.
func (c Columns) Merge(def Columns) Columns {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}

	c.Shapes.LineCode = pick(c.Shapes.LineCode, def.Shapes.LineCode)
	c.Shapes.Status = pick(c.Shapes.Status, def.Shapes.Status)
	c.Shapes.StartMarker = pick(c.Shapes.StartMarker, def.Shapes.StartMarker)
	c.Shapes.EndMarker = pick(c.Shapes.EndMarker, def.Shapes.EndMarker)

	c.Speeds.LineCode = pick(c.Speeds.LineCode, def.Speeds.LineCode)
	c.Speeds.LineLabel = pick(c.Speeds.LineLabel, def.Speeds.LineLabel)
	c.Speeds.MaxSpeed = pick(c.Speeds.MaxSpeed, def.Speeds.MaxSpeed)
	c.Speeds.StartMarker = pick(c.Speeds.StartMarker, def.Speeds.StartMarker)
	c.Speeds.EndMarker = pick(c.Speeds.EndMarker, def.Speeds.EndMarker)

	c.Stations.Code = pick(c.Stations.Code, def.Stations.Code)
	c.Stations.Label = pick(c.Stations.Label, def.Stations.Label)
	c.Stations.Passenger = pick(c.Stations.Passenger, def.Stations.Passenger)
	c.Stations.Freight = pick(c.Stations.Freight, def.Stations.Freight)
	c.Stations.LineCode = pick(c.Stations.LineCode, def.Stations.LineCode)

	c.Ridership.Name = pick(c.Ridership.Name, def.Ridership.Name)
	c.Ridership.Code = pick(c.Ridership.Code, def.Ridership.Code)
	c.Ridership.PostalCode = pick(c.Ridership.PostalCode, def.Ridership.PostalCode)
	c.Ridership.Segment = pick(c.Ridership.Segment, def.Ridership.Segment)
	c.Ridership.TravelersPrefix = pick(c.Ridership.TravelersPrefix, def.Ridership.TravelersPrefix)
	c.Ridership.TotalPrefix = pick(c.Ridership.TotalPrefix, def.Ridership.TotalPrefix)

	c.Communes.InseeCode = pick(c.Communes.InseeCode, def.Communes.InseeCode)
	c.Communes.Name = pick(c.Communes.Name, def.Communes.Name)
	c.Communes.PostalCode = pick(c.Communes.PostalCode, def.Communes.PostalCode)
	c.Communes.DepartmentCode = pick(c.Communes.DepartmentCode, def.Communes.DepartmentCode)
	c.Communes.DepartmentName = pick(c.Communes.DepartmentName, def.Communes.DepartmentName)
	c.Communes.RegionName = pick(c.Communes.RegionName, def.Communes.RegionName)

	c.Population.InseeCode = pick(c.Population.InseeCode, def.Population.InseeCode)
	c.Population.Population = pick(c.Population.Population, def.Population.Population)

	return c
}
