package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/domain/repository"
	"github.com/rail-fusion/internal/pkg/errors"
)

type stationYearRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewStationYearRepository(db *DB) repository.StationYearRepository {
	return &stationYearRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const stationYearColumns = `
	station_code, year, total_travelers, total_travelers_and_non_travelers, segment_label,
	label, handles_freight, line_code, postal_code, commune_insee_code, commune_name,
	department_code, department_name, region_name, total_population`

func (r *stationYearRepository) ReplaceStationYears(ctx context.Context, records []domain.StationYearRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM station_years`); err != nil {
		r.logger.Error("Failed to clear station years", zap.Error(err))
		return errors.ErrDatabaseError
	}

	stmt, err := tx.PreparexContext(ctx, fmt.Sprintf(`
		INSERT INTO station_years (%s, geometry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        ST_SetSRID(ST_GeomFromWKB($16), %d))
	`, stationYearColumns, SRID))
	if err != nil {
		r.logger.Error("Failed to prepare station year insert", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.StationCode, rec.Year, rec.TotalTravelers, rec.TotalTravelersAndNonTravelers, rec.SegmentLabel,
			rec.Label, rec.HandlesFreight, rec.LineCode, rec.PostalCode, rec.CommuneInseeCode, rec.CommuneName,
			rec.DepartmentCode, rec.DepartmentName, rec.RegionName, rec.TotalPopulation,
			wkb.Value(rec.Geometry),
		)
		if err != nil {
			r.logger.Error("Failed to insert station year",
				zap.String("station_code", rec.StationCode),
				zap.Int("year", rec.Year),
				zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit station years", zap.Error(err))
		return errors.ErrDatabaseError
	}

	r.logger.Info("Station years replaced", zap.Int("count", len(records)))
	return nil
}

func (r *stationYearRepository) ListStationYears(ctx context.Context, filter domain.StationYearFilter) ([]domain.StationYearRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s, ST_AsBinary(geometry)
		FROM station_years
		WHERE ($1::text[] IS NULL OR station_code = ANY($1))
		  AND ($2::int[] IS NULL OR year = ANY($2))
		  AND ($3 = '' OR region_name = $3)
		  AND ($4::bigint IS NULL OR total_travelers >= $4)
		ORDER BY station_code, year
		LIMIT NULLIF($5, 0)
	`, stationYearColumns)

	var codes, years interface{}
	if len(filter.StationCodes) > 0 {
		codes = pq.Array(filter.StationCodes)
	}
	if len(filter.Years) > 0 {
		ys := make([]int64, len(filter.Years))
		for i, y := range filter.Years {
			ys[i] = int64(y)
		}
		years = pq.Int64Array(ys)
	}

	rows, err := r.db.QueryContext(ctx, query, codes, years, filter.Region, filter.MinTravelers, filter.Limit)
	if err != nil {
		r.logger.Error("Failed to list station years", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var records []domain.StationYearRecord
	for rows.Next() {
		var rec domain.StationYearRecord
		geom := wkb.Scanner(nil)
		err := rows.Scan(
			&rec.StationCode, &rec.Year, &rec.TotalTravelers, &rec.TotalTravelersAndNonTravelers, &rec.SegmentLabel,
			&rec.Label, &rec.HandlesFreight, &rec.LineCode, &rec.PostalCode, &rec.CommuneInseeCode, &rec.CommuneName,
			&rec.DepartmentCode, &rec.DepartmentName, &rec.RegionName, &rec.TotalPopulation,
			geom,
		)
		if err != nil {
			r.logger.Error("Failed to scan station year", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		if p, ok := geom.Geometry.(orb.Point); ok {
			rec.Geometry = p
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate station years", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return records, nil
}
