package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/rail-fusion/internal/dataset"
)

// RawFiles names the raw source files inside the raw directory.
type RawFiles struct {
	Shapes     string `yaml:"shapes"`
	Speeds     string `yaml:"speeds"`
	Stations   string `yaml:"stations"`
	Ridership  string `yaml:"ridership"`
	Communes   string `yaml:"communes"`
	Population string `yaml:"population"`
}

func DefaultRawFiles() RawFiles {
	return RawFiles{
		Shapes:     "formes-des-lignes-du-rfn.geojson",
		Speeds:     "vitesse-maximale-nominale-sur-ligne.geojson",
		Stations:   "liste-des-gares.geojson",
		Ridership:  "frequentation-gares.csv",
		Communes:   "20230823-communes-departement-region.csv",
		Population: "insee-pop-communes.csv",
	}
}

const (
	ridershipSeparator  = ';'
	communesSeparator   = ','
	populationSeparator = ';'
)

// LoadInputs reads the six raw sources from dir.
func LoadInputs(dir string, files RawFiles) (*Inputs, error) {
	var (
		in  Inputs
		err error
	)

	if in.Shapes, err = dataset.ReadGeoJSONFile("shapes", filepath.Join(dir, files.Shapes)); err != nil {
		return nil, fmt.Errorf("failed to load line shapes: %w", err)
	}
	if in.Speeds, err = dataset.ReadGeoJSONFile("speeds", filepath.Join(dir, files.Speeds)); err != nil {
		return nil, fmt.Errorf("failed to load speed segments: %w", err)
	}
	if in.Stations, err = dataset.ReadGeoJSONFile("stations", filepath.Join(dir, files.Stations)); err != nil {
		return nil, fmt.Errorf("failed to load station registry: %w", err)
	}
	if in.Ridership, err = dataset.ReadCSVFile("ridership", filepath.Join(dir, files.Ridership), ridershipSeparator); err != nil {
		return nil, fmt.Errorf("failed to load ridership: %w", err)
	}
	if in.Communes, err = dataset.ReadCSVFile("communes", filepath.Join(dir, files.Communes), communesSeparator); err != nil {
		return nil, fmt.Errorf("failed to load communes: %w", err)
	}
	if in.Population, err = dataset.ReadCSVFile("population", filepath.Join(dir, files.Population), populationSeparator); err != nil {
		return nil, fmt.Errorf("failed to load population: %w", err)
	}
	return &in, nil
}
