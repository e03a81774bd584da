package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rail-fusion/internal/pipeline"
	"github.com/rail-fusion/internal/pkg/validator"
)

// Source - загружаемый файл открытых данных
type Source struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	URL  string `yaml:"url" json:"url" validate:"required,url"`
}

// Manifest describes where raw data comes from and how its columns are named.
type Manifest struct {
	Sources []Source          `yaml:"sources" json:"sources" validate:"dive"`
	Files   pipeline.RawFiles `yaml:"files" json:"files"`
	Columns pipeline.Columns  `yaml:"columns" json:"columns"`
}

func DefaultManifest() *Manifest {
	return &Manifest{
		Files:   pipeline.DefaultRawFiles(),
		Columns: pipeline.DefaultColumns(),
	}
}

// LoadManifest reads a YAML source manifest. A missing file yields the default manifest
// without downloadable sources; names absent from the file keep their defaults.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultManifest(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source manifest: %w", err)
	}
	return ParseManifest(data)
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse source manifest: %w", err)
	}

	m.Columns = m.Columns.Merge(pipeline.DefaultColumns())
	m.Files = mergeFiles(m.Files, pipeline.DefaultRawFiles())

	if err := validator.Validate(m); err != nil {
		return nil, fmt.Errorf("invalid source manifest: %w", err)
	}
	return &m, nil
}

func mergeFiles(f, def pipeline.RawFiles) pipeline.RawFiles {
	if f.Shapes == "" {
		f.Shapes = def.Shapes
	}
	if f.Speeds == "" {
		f.Speeds = def.Speeds
	}
	if f.Stations == "" {
		f.Stations = def.Stations
	}
	if f.Ridership == "" {
		f.Ridership = def.Ridership
	}
	if f.Communes == "" {
		f.Communes = def.Communes
	}
	if f.Population == "" {
		f.Population = def.Population
	}
	return f
}
