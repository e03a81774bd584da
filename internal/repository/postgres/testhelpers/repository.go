package testhelpers

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain/repository"
	"github.com/rail-fusion/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// MigrateForTest applies the embedded migrations or fails the test
func MigrateForTest(t *testing.T, tdb *TestDB) {
	if err := NewDBForTest(tdb.DB, tdb.Logger).Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
}

// NewSegmentRepositoryForTest creates a segment repository with test database and logger
func NewSegmentRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.SegmentRepository {
	return postgres.NewSegmentRepository(NewDBForTest(db, logger))
}

// NewStationYearRepositoryForTest creates a station year repository with test database and logger
func NewStationYearRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StationYearRepository {
	return postgres.NewStationYearRepository(NewDBForTest(db, logger))
}

// NewRunRepositoryForTest creates a run repository with test database and logger
func NewRunRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.RunRepository {
	return postgres.NewRunRepository(NewDBForTest(db, logger))
}
