package dataset

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/paulmach/orb/geojson"
)

// ReadGeoJSON decodes a feature collection into a table.
// Columns are the union of feature property names plus GeometryColumn.
func ReadGeoJSON(name string, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	seen := make(map[string]struct{})
	t := &Table{Name: name, Rows: make([]Row, 0, len(fc.Features))}
	for _, f := range fc.Features {
		values := make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			values[k] = v
			seen[k] = struct{}{}
		}
		t.Rows = append(t.Rows, Row{Values: values, Geometry: f.Geometry})
	}

	columns := make([]string, 0, len(seen)+1)
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	t.Columns = append(columns, GeometryColumn)

	return t, nil
}

func ReadGeoJSONFile(name, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return ReadGeoJSON(name, f)
}
