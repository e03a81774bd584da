package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rail-fusion/internal/config"
	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/pipeline"
)

// MockSegmentRepository - мок для SegmentRepository
type MockSegmentRepository struct {
	mock.Mock
}

func (m *MockSegmentRepository) ReplaceSegments(ctx context.Context, segments []domain.JoinedSegment) error {
	return m.Called(ctx, segments).Error(0)
}

func (m *MockSegmentRepository) ListSegments(ctx context.Context, filter domain.SegmentFilter) ([]domain.JoinedSegment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JoinedSegment), args.Error(1)
}

// MockStationYearRepository - мок для StationYearRepository
type MockStationYearRepository struct {
	mock.Mock
}

func (m *MockStationYearRepository) ReplaceStationYears(ctx context.Context, records []domain.StationYearRecord) error {
	return m.Called(ctx, records).Error(0)
}

func (m *MockStationYearRepository) ListStationYears(ctx context.Context, filter domain.StationYearFilter) ([]domain.StationYearRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StationYearRecord), args.Error(1)
}

// MockRunRepository - мок для RunRepository
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) RecordRun(ctx context.Context, report *domain.RunReport) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockRunRepository) GetLatest(ctx context.Context) (*domain.RunReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunReport), args.Error(1)
}

// MockCacheRepository - мок для CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

// MockNotifier - мок для notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event *domain.FusionDoneEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockNotifier) Close() {}

// MockRunMetrics - мок для RunMetrics
type MockRunMetrics struct {
	mock.Mock
}

func (m *MockRunMetrics) ObserveStage(r domain.StageReport) {
	m.Called(r)
}

func (m *MockRunMetrics) ObserveRun(r *domain.RunReport) {
	m.Called(r)
}

func (m *MockRunMetrics) Push(ctx context.Context, url, job string) error {
	return m.Called(ctx, url, job).Error(0)
}

// MockResultWriter - мок для ResultWriter
type MockResultWriter struct {
	mock.Mock
}

func (m *MockResultWriter) WriteResult(res *pipeline.Result, intermediate bool) ([]string, error) {
	args := m.Called(res, intermediate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockSourceFetcher - мок для SourceFetcher
type MockSourceFetcher struct {
	mock.Mock
}

func (m *MockSourceFetcher) FetchAll(ctx context.Context, sources []config.Source) error {
	return m.Called(ctx, sources).Error(0)
}

func (m *MockSourceFetcher) ClearRawDir(sources []config.Source) error {
	return m.Called(sources).Error(0)
}
