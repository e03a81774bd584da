package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/paulmach/orb/encoding/wkb"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/domain/repository"
	"github.com/rail-fusion/internal/pkg/errors"
)

type segmentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSegmentRepository(db *DB) repository.SegmentRepository {
	return &segmentRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *segmentRepository) ReplaceSegments(ctx context.Context, segments []domain.JoinedSegment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM segment_speeds`); err != nil {
		r.logger.Error("Failed to clear segments", zap.Error(err))
		return errors.ErrDatabaseError
	}

	stmt, err := tx.PreparexContext(ctx, fmt.Sprintf(`
		INSERT INTO segment_speeds (line_code, max_speed, line_label, geometry)
		VALUES ($1, $2, $3, ST_SetSRID(ST_GeomFromWKB($4), %d))
	`, SRID))
	if err != nil {
		r.logger.Error("Failed to prepare segment insert", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer stmt.Close()

	for _, s := range segments {
		if _, err := stmt.ExecContext(ctx, s.LineCode, s.MaxSpeed, s.LineLabel, wkb.Value(s.Geometry)); err != nil {
			r.logger.Error("Failed to insert segment", zap.String("line_code", s.LineCode), zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit segments", zap.Error(err))
		return errors.ErrDatabaseError
	}

	r.logger.Info("Segments replaced", zap.Int("count", len(segments)))
	return nil
}

func (r *segmentRepository) ListSegments(ctx context.Context, filter domain.SegmentFilter) ([]domain.JoinedSegment, error) {
	query := `
		SELECT line_code, max_speed, line_label, ST_AsBinary(geometry)
		FROM segment_speeds
		WHERE ($1::text[] IS NULL OR line_code = ANY($1))
		  AND ($2::bigint IS NULL OR max_speed >= $2)
		ORDER BY id
	`

	var lineCodes interface{}
	if len(filter.LineCodes) > 0 {
		lineCodes = pq.Array(filter.LineCodes)
	}

	rows, err := r.db.QueryContext(ctx, query, lineCodes, filter.MinSpeed)
	if err != nil {
		r.logger.Error("Failed to list segments", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var segments []domain.JoinedSegment
	for rows.Next() {
		var s domain.JoinedSegment
		geom := wkb.Scanner(nil)
		if err := rows.Scan(&s.LineCode, &s.MaxSpeed, &s.LineLabel, geom); err != nil {
			r.logger.Error("Failed to scan segment", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		s.Geometry = geom.Geometry
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate segments", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return segments, nil
}
