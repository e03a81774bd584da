package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rail-fusion/internal/analytics"
	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/domain/repository"
	"github.com/rail-fusion/internal/export"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
	"github.com/rail-fusion/internal/pkg/validator"
	"github.com/rail-fusion/internal/usecase/dto"
)

// Размер маркеров карты, как на дашборде
const (
	markerMinRadius = 4
	markerMaxRadius = 20
)

// QueryUseCase обслуживает API чтения итоговых таблиц
type QueryUseCase struct {
	segments     repository.SegmentRepository
	stationYears repository.StationYearRepository
	runs         repository.RunRepository
	cache        *queryCache
	logger       *zap.Logger
}

// NewQueryUseCase создает новый экземпляр QueryUseCase, cacheRepo может быть nil
func NewQueryUseCase(
	segments repository.SegmentRepository,
	stationYears repository.StationYearRepository,
	runs repository.RunRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *QueryUseCase {
	return &QueryUseCase{
		segments:     segments,
		stationYears: stationYears,
		runs:         runs,
		cache:        &queryCache{repo: cacheRepo, ttl: cacheTTL, logger: logger},
		logger:       logger,
	}
}

// SegmentsGeoJSON возвращает участки со скоростью как FeatureCollection
func (uc *QueryUseCase) SegmentsGeoJSON(ctx context.Context, req dto.SegmentsRequest) ([]byte, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperrors.ErrInvalidSpeed.WithDetails(validator.Describe(err))
	}

	filter := domain.SegmentFilter{LineCodes: req.LineCodes, MinSpeed: req.MinSpeed}
	key := segmentsKey(filter)

	var body []byte
	if uc.cache.get(ctx, key, &body) {
		return body, nil
	}

	segments, err := uc.segments.ListSegments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}

	var buf bytes.Buffer
	if err := export.EncodeSegmentsGeoJSON(&buf, segments); err != nil {
		return nil, fmt.Errorf("encode segments: %w", err)
	}

	body = buf.Bytes()
	uc.cache.set(ctx, key, body)
	return body, nil
}

// StationHistory возвращает все годы одной станции
func (uc *QueryUseCase) StationHistory(ctx context.Context, stationCode string) (*dto.StationYearsResponse, error) {
	if stationCode == "" {
		return nil, apperrors.ErrInvalidRequest
	}

	resp, err := uc.listStationYears(ctx, domain.StationYearFilter{StationCodes: []string{stationCode}})
	if err != nil {
		return nil, err
	}
	if resp.Total == 0 {
		return nil, apperrors.ErrStationNotFound
	}
	return resp, nil
}

// StationYears возвращает записи станция/год по фильтру
func (uc *QueryUseCase) StationYears(ctx context.Context, req dto.StationYearsRequest) (*dto.StationYearsResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperrors.ErrInvalidRequest.WithDetails(validator.Describe(err))
	}

	filter := domain.StationYearFilter{
		Region:       req.Region,
		MinTravelers: req.MinTravelers,
		Limit:        req.Limit,
	}
	if req.Year != nil {
		filter.Years = []int{*req.Year}
	}
	return uc.listStationYears(ctx, filter)
}

func (uc *QueryUseCase) listStationYears(ctx context.Context, filter domain.StationYearFilter) (*dto.StationYearsResponse, error) {
	key := stationYearsKey(filter)

	var resp dto.StationYearsResponse
	if uc.cache.get(ctx, key, &resp) {
		return &resp, nil
	}

	records, err := uc.stationYears.ListStationYears(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list station years: %w", err)
	}

	resp = dto.StationYearsResponse{Records: dto.NewStationYears(records), Total: len(records)}
	uc.cache.set(ctx, key, resp)
	return &resp, nil
}

// RegionTravelers суммирует пассажиропоток по регионам и годам
func (uc *QueryUseCase) RegionTravelers(ctx context.Context, includeIDF bool) (*dto.RegionTravelersResponse, error) {
	key := fmt.Sprintf("%sregions:%t", chartsKeyPrefix, includeIDF)

	var resp dto.RegionTravelersResponse
	if uc.cache.get(ctx, key, &resp) {
		return &resp, nil
	}

	records, err := uc.allStationYears(ctx)
	if err != nil {
		return nil, err
	}

	resp = dto.RegionTravelersResponse{IncludeIDF: includeIDF, Items: analytics.RegionTravelers(records, includeIDF)}
	uc.cache.set(ctx, key, resp)
	return &resp, nil
}

// RegionLoss считает относительную потерю пассажиров между двумя годами
func (uc *QueryUseCase) RegionLoss(ctx context.Context, req dto.CovidLossRequest) (*dto.RegionLossResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperrors.ErrInvalidYear.WithDetails(validator.Describe(err))
	}

	key := fmt.Sprintf("%sloss:%d:%d", chartsKeyPrefix, req.From, req.To)

	var resp dto.RegionLossResponse
	if uc.cache.get(ctx, key, &resp) {
		return &resp, nil
	}

	records, err := uc.stationYears.ListStationYears(ctx, domain.StationYearFilter{Years: []int{req.From, req.To}})
	if err != nil {
		return nil, fmt.Errorf("list station years: %w", err)
	}

	resp = dto.RegionLossResponse{From: req.From, To: req.To, Items: analytics.RelativeLoss(records, req.From, req.To)}
	uc.cache.set(ctx, key, resp)
	return &resp, nil
}

// TopStations возвращает станции с пассажиропотоком выше порога и радиус маркера
func (uc *QueryUseCase) TopStations(ctx context.Context, req dto.TopStationsRequest) (*dto.TopStationsResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperrors.ErrInvalidRequest.WithDetails(validator.Describe(err))
	}

	key := fmt.Sprintf("%stop:%d:%d:%s", chartsKeyPrefix, req.Year, req.MinTravelers, req.ExcludeRegion)

	var resp dto.TopStationsResponse
	if uc.cache.get(ctx, key, &resp) {
		return &resp, nil
	}

	records, err := uc.stationYears.ListStationYears(ctx, domain.StationYearFilter{Years: []int{req.Year}})
	if err != nil {
		return nil, fmt.Errorf("list station years: %w", err)
	}

	top := analytics.TopStations(records, req.Year, req.MinTravelers, req.ExcludeRegion)
	resp = dto.TopStationsResponse{Year: req.Year, Stations: make([]dto.TopStation, 0, len(top))}
	if len(top) > 0 {
		// top отсортирован по убыванию
		maxT, minT := *top[0].TotalTravelers, *top[len(top)-1].TotalTravelers
		views := dto.NewStationYears(top)
		for i := range views {
			resp.Stations = append(resp.Stations, dto.TopStation{
				StationYear: views[i],
				Radius:      analytics.MarkerRadius(*top[i].TotalTravelers, minT, maxT, markerMinRadius, markerMaxRadius),
			})
		}
	}

	uc.cache.set(ctx, key, resp)
	return &resp, nil
}

// LatestRun возвращает отчёт последнего запуска
func (uc *QueryUseCase) LatestRun(ctx context.Context) (*domain.RunReport, error) {
	key := runsKeyPrefix + "latest"

	var report domain.RunReport
	if uc.cache.get(ctx, key, &report) {
		return &report, nil
	}

	latest, err := uc.runs.GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest run: %w", err)
	}
	if latest == nil {
		return nil, apperrors.ErrRunNotFound
	}

	uc.cache.set(ctx, key, latest)
	return latest, nil
}

func (uc *QueryUseCase) allStationYears(ctx context.Context) ([]domain.StationYearRecord, error) {
	records, err := uc.stationYears.ListStationYears(ctx, domain.StationYearFilter{})
	if err != nil {
		return nil, fmt.Errorf("list station years: %w", err)
	}
	return records, nil
}
