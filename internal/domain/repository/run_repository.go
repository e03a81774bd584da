package repository

import (
	"context"

	"github.com/rail-fusion/internal/domain"
)

// RunRepository хранит отчёты о запусках
type RunRepository interface {
	// RecordRun сохраняет отчёт
	RecordRun(ctx context.Context, report *domain.RunReport) error

	// GetLatest возвращает последний отчёт, nil если запусков не было
	GetLatest(ctx context.Context) (*domain.RunReport, error)
}
