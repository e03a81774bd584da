package repository

import (
	"context"

	"github.com/rail-fusion/internal/domain"
)

// StationYearRepository хранит итоговую таблицу станция/год
type StationYearRepository interface {
	// ReplaceStationYears заменяет всю таблицу в одной транзакции
	ReplaceStationYears(ctx context.Context, records []domain.StationYearRecord) error

	// ListStationYears возвращает записи по фильтру, отсортированные по станции и году
	ListStationYears(ctx context.Context, filter domain.StationYearFilter) ([]domain.StationYearRecord, error)
}
