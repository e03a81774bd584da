package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/domain/repository"
	"github.com/rail-fusion/internal/pkg/errors"
)

type runRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRunRepository(db *DB) repository.RunRepository {
	return &runRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// runRow - строка fusion_runs, стадии хранятся в jsonb
type runRow struct {
	domain.RunReport
	StagesJSON []byte         `db:"stages"`
	Warnings   pq.StringArray `db:"warnings"`
}

func (r *runRepository) RecordRun(ctx context.Context, report *domain.RunReport) error {
	stages, err := json.Marshal(report.Stages)
	if err != nil {
		return errors.ErrInternalServer
	}
	warnings := report.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	query := `
		INSERT INTO fusion_runs (
			run_id, status, null_policy, started_at, finished_at, segment_count,
			station_year_count, failed_stage, error, stages, warnings
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (run_id) DO UPDATE SET
			status = EXCLUDED.status,
			finished_at = EXCLUDED.finished_at,
			segment_count = EXCLUDED.segment_count,
			station_year_count = EXCLUDED.station_year_count,
			failed_stage = EXCLUDED.failed_stage,
			error = EXCLUDED.error,
			stages = EXCLUDED.stages,
			warnings = EXCLUDED.warnings
	`

	_, err = r.db.ExecContext(ctx, query,
		report.RunID, report.Status, report.NullPolicy, report.StartedAt, report.FinishedAt,
		report.SegmentCount, report.StationYearCount, report.FailedStage, report.Error,
		string(stages), pq.Array(warnings),
	)
	if err != nil {
		r.logger.Error("Failed to record run", zap.String("run_id", report.RunID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *runRepository) GetLatest(ctx context.Context) (*domain.RunReport, error) {
	query := `
		SELECT run_id, status, null_policy, started_at, finished_at, segment_count,
		       station_year_count, failed_stage, error, stages, warnings
		FROM fusion_runs
		ORDER BY finished_at DESC
		LIMIT 1
	`

	var row runRow
	err := r.db.GetContext(ctx, &row, query)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get latest run", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	report := row.RunReport
	if err := json.Unmarshal(row.StagesJSON, &report.Stages); err != nil {
		r.logger.Error("Failed to decode run stages", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	report.Warnings = []string(row.Warnings)
	return &report, nil
}
