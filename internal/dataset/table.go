// Package dataset holds raw, loosely typed tables read from the published sources.
// Pipeline stages validate the schema of a Table and project it into domain types.
package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	apperrors "github.com/rail-fusion/internal/pkg/errors"
)

// GeometryColumn is the pseudo-column present on tables read from vector sources.
const GeometryColumn = "geometry"

type Row struct {
	Values   map[string]any
	Geometry orb.Geometry
}

// Get returns the raw value of a column, nil when absent or empty.
func (r Row) Get(column string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[column]
}

// String returns the value of a column rendered as text.
// Integral floats are rendered without a fractional part.
func (r Row) String(column string) string {
	return ToString(r.Get(column))
}

type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

func New(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds a row built from column/value pairs.
func (t *Table) Append(values map[string]any, geometry orb.Geometry) {
	t.Rows = append(t.Rows, Row{Values: values, Geometry: geometry})
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) HasColumn(column string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Require fails with a schema error naming the stage when a column is missing.
func (t *Table) Require(stage string, columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return apperrors.NewSchemaError(stage, t.Name, c)
		}
	}
	return nil
}

// Rename returns a shallow copy of the table with a column renamed.
func (t *Table) Rename(from, to string) *Table {
	out := &Table{Name: t.Name, Columns: make([]string, len(t.Columns)), Rows: make([]Row, len(t.Rows))}
	for i, c := range t.Columns {
		if c == from {
			c = to
		}
		out.Columns[i] = c
	}
	for i, row := range t.Rows {
		values := make(map[string]any, len(row.Values))
		for k, v := range row.Values {
			if k == from {
				k = to
			}
			values[k] = v
		}
		out.Rows[i] = Row{Values: values, Geometry: row.Geometry}
	}
	return out
}

// ToString renders a raw cell as text.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
