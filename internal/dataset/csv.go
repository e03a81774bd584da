package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const utf8BOM = "\ufeff"

// ReadCSV reads a delimited file with a header row. Empty cells are stored as nil.
func ReadCSV(name string, r io.Reader, sep rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{Name: name}, nil
		}
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		columns[i] = strings.TrimSpace(h)
	}

	t := &Table{Name: name, Columns: columns}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", name, line, err)
		}

		values := make(map[string]any, len(columns))
		for i, c := range columns {
			if i >= len(record) {
				break
			}
			if v := strings.TrimSpace(record[i]); v != "" {
				values[c] = v
			}
		}
		t.Rows = append(t.Rows, Row{Values: values})
	}

	return t, nil
}

func ReadCSVFile(name, path string, sep rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return ReadCSV(name, f, sep)
}
