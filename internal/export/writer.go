// Package export serializes pipeline tables to GeoJSON and CSV files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rail-fusion/internal/pipeline"
)

const (
	SegmentsGeoJSON     = "segments_speeds.geojson"
	SegmentsCSV         = "segments_speeds.csv"
	StationYearsGeoJSON = "stations_years.geojson"
	StationYearsCSV     = "stations_years.csv"
	ShapesCSV           = "shapes.csv"
	SpeedsCSV           = "speeds.csv"
	RidershipCSV        = "frequentations.csv"
	StationsCSV         = "gares.csv"
	CommunesCSV         = "communes_population.csv"
)

type encodeFunc func(w io.Writer) error

type Writer struct {
	dir    string
	logger *zap.Logger
}

func NewWriter(dir string, logger *zap.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

func (w *Writer) Dir() string {
	return w.dir
}

// WriteResult writes the canonical tables, and the intermediate ones when asked.
// Files are first written to temporary names and renamed together once every file has
// been encoded, so a failure leaves previous outputs untouched.
func (w *Writer) WriteResult(res *pipeline.Result, intermediate bool) ([]string, error) {
	if res == nil {
		return nil, fmt.Errorf("nothing to export")
	}

	files := []struct {
		name   string
		encode encodeFunc
	}{
		{SegmentsGeoJSON, func(out io.Writer) error { return EncodeSegmentsGeoJSON(out, res.Segments) }},
		{SegmentsCSV, func(out io.Writer) error { return EncodeSegmentsCSV(out, res.Segments) }},
		{StationYearsGeoJSON, func(out io.Writer) error { return EncodeStationYearsGeoJSON(out, res.StationYears) }},
		{StationYearsCSV, func(out io.Writer) error { return EncodeStationYearsCSV(out, res.StationYears) }},
	}
	if intermediate {
		files = append(files, []struct {
			name   string
			encode encodeFunc
		}{
			{ShapesCSV, func(out io.Writer) error { return EncodeShapesCSV(out, res.Shapes) }},
			{SpeedsCSV, func(out io.Writer) error { return EncodeSpeedsCSV(out, res.Speeds) }},
			{RidershipCSV, func(out io.Writer) error { return EncodeRidershipCSV(out, res.Ridership) }},
			{StationsCSV, func(out io.Writer) error { return EncodeStationsCSV(out, res.Stations) }},
			{CommunesCSV, func(out io.Writer) error { return EncodeCommunesCSV(out, res.Communes) }},
		}...)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}

	for _, f := range files {
		tmp, err := w.writeTemp(f.name, f.encode)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		temps = append(temps, tmp)
	}

	written := make([]string, 0, len(files))
	for i, f := range files {
		dst := filepath.Join(w.dir, f.name)
		if err := os.Rename(temps[i], dst); err != nil {
			temps = temps[i:]
			cleanup()
			return written, fmt.Errorf("failed to publish %s: %w", f.name, err)
		}
		written = append(written, dst)
	}

	w.logger.Info("Outputs written",
		zap.String("dir", w.dir),
		zap.Int("files", len(written)),
		zap.Int("segments", len(res.Segments)),
		zap.Int("station_years", len(res.StationYears)))
	return written, nil
}

func (w *Writer) writeTemp(name string, encode encodeFunc) (string, error) {
	f, err := os.CreateTemp(w.dir, "."+name+"-*")
	if err != nil {
		return "", err
	}

	buf := bufio.NewWriter(f)
	if err := encode(buf); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
