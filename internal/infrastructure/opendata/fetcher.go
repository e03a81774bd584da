package opendata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/rail-fusion/internal/config"
)

// FetchMetrics принимает объём скачанных данных по источнику
type FetchMetrics interface {
	ObserveFetch(source string, bytes int64)
}

// Fetcher скачивает сырые наборы данных в каталог raw
type Fetcher struct {
	httpClient *http.Client
	rawDir     string
	pause      time.Duration
	metrics    FetchMetrics
	logger     *zap.Logger
}

// NewFetcher создает клиент, metrics может быть nil
func NewFetcher(cfg *config.FetchConfig, rawDir string, metrics FetchMetrics, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		rawDir:     rawDir,
		pause:      cfg.Pause,
		metrics:    metrics,
		logger:     logger,
	}
}

// Fetch скачивает url в rawDir/name. Файл появляется только после полной загрузки.
func (f *Fetcher) Fetch(ctx context.Context, url, name string) (int64, error) {
	if err := os.MkdirAll(f.rawDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create raw dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error("Failed to download source", zap.String("name", name), zap.Error(err))
		return 0, fmt.Errorf("failed to download %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		f.logger.Error("Source returned error",
			zap.String("name", name),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return 0, fmt.Errorf("download %s: unexpected status %d", name, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.rawDir, "."+name+"-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(f.rawDir, name)); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	if f.metrics != nil {
		f.metrics.ObserveFetch(name, n)
	}
	f.logger.Info("Source downloaded",
		zap.String("name", name),
		zap.Int64("bytes", n),
		zap.Duration("duration", time.Since(start)))
	return n, nil
}

// FetchAll скачивает все источники манифеста по очереди с паузой между файлами
func (f *Fetcher) FetchAll(ctx context.Context, sources []config.Source) error {
	start := time.Now()

	for i, src := range sources {
		if i > 0 && f.pause > 0 {
			select {
			case <-time.After(f.pause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if _, err := f.Fetch(ctx, src.URL, src.Name); err != nil {
			return err
		}
	}

	f.logger.Info("All sources downloaded",
		zap.Int("count", len(sources)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// ClearRawDir удаляет ранее скачанные файлы манифеста, остальные файлы не трогает
func (f *Fetcher) ClearRawDir(sources []config.Source) error {
	removed := 0
	for _, src := range sources {
		err := os.Remove(filepath.Join(f.rawDir, src.Name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to remove %s: %w", src.Name, err)
		}
		removed++
	}

	f.logger.Info("Raw directory cleared", zap.String("dir", f.rawDir), zap.Int("removed", removed))
	return nil
}
