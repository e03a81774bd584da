package repository

import (
	"context"

	"github.com/rail-fusion/internal/domain"
)

// SegmentRepository хранит таблицу участков со скоростью
type SegmentRepository interface {
	// ReplaceSegments заменяет всю таблицу в одной транзакции
	ReplaceSegments(ctx context.Context, segments []domain.JoinedSegment) error

	// ListSegments возвращает участки по фильтру
	ListSegments(ctx context.Context, filter domain.SegmentFilter) ([]domain.JoinedSegment, error)
}
