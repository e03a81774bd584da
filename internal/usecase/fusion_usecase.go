package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/config"
	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/domain/repository"
	"github.com/rail-fusion/internal/infrastructure/notify"
	"github.com/rail-fusion/internal/pipeline"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
	"github.com/rail-fusion/internal/pkg/logger"
)

// SourceFetcher скачивает сырые файлы манифеста
type SourceFetcher interface {
	FetchAll(ctx context.Context, sources []config.Source) error
	ClearRawDir(sources []config.Source) error
}

// ResultWriter сохраняет результат запуска в файлы
type ResultWriter interface {
	WriteResult(res *pipeline.Result, intermediate bool) ([]string, error)
}

// RunMetrics принимает статистику стадий и итог запуска
type RunMetrics interface {
	pipeline.StageObserver
	ObserveRun(r *domain.RunReport)
	Push(ctx context.Context, url, job string) error
}

// FusionStores - хранилища итоговых таблиц, все поля опциональны
type FusionStores struct {
	Segments     repository.SegmentRepository
	StationYears repository.StationYearRepository
	Runs         repository.RunRepository
	Cache        repository.CacheRepository
}

// FusionUseCase выполняет полный запуск: загрузка, пайплайн, сохранение, уведомление
type FusionUseCase struct {
	pipelineCfg config.PipelineConfig
	metricsCfg  config.MetricsConfig
	manifest    *config.Manifest
	fetcher     SourceFetcher
	writer      ResultWriter
	stores      FusionStores
	notifier    notify.Notifier
	metrics     RunMetrics
	logger      *zap.Logger
}

// NewFusionUseCase создает новый экземпляр FusionUseCase, metrics может быть nil
func NewFusionUseCase(
	cfg *config.Config,
	manifest *config.Manifest,
	fetcher SourceFetcher,
	writer ResultWriter,
	stores FusionStores,
	notifier notify.Notifier,
	metrics RunMetrics,
	logger *zap.Logger,
) *FusionUseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &FusionUseCase{
		pipelineCfg: cfg.Pipeline,
		metricsCfg:  cfg.Metrics,
		manifest:    manifest,
		fetcher:     fetcher,
		writer:      writer,
		stores:      stores,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// Fetch заново скачивает все источники манифеста
func (uc *FusionUseCase) Fetch(ctx context.Context, clear bool) error {
	if uc.fetcher == nil {
		return fmt.Errorf("fetcher is not configured")
	}
	if clear {
		if err := uc.fetcher.ClearRawDir(uc.manifest.Sources); err != nil {
			return err
		}
	}
	return uc.fetcher.FetchAll(ctx, uc.manifest.Sources)
}

// Run выполняет запуск. Отчёт возвращается и при ошибке, со статусом failed.
func (uc *FusionUseCase) Run(ctx context.Context, req domain.FusionRunRequest) (*domain.RunReport, error) {
	started := time.Now().UTC()

	opts := uc.pipelineCfg.Options(uc.manifest.Columns)
	if req.NullPolicy != "" {
		opts.NullPolicy = req.NullPolicy
	}

	res, err := uc.execute(ctx, req, opts)

	var report *domain.RunReport
	if err != nil {
		report = failedReport(opts.NullPolicy, started, err)
		logger.ForRun(uc.logger, report.RunID.String()).Error("Fusion run failed",
			zap.String("failed_stage", report.FailedStage),
			zap.Error(err))
	} else {
		report = res.Report
	}

	uc.finish(ctx, req, report)
	if err != nil {
		return report, fmt.Errorf("fusion run: %w", err)
	}
	return report, nil
}

func (uc *FusionUseCase) execute(ctx context.Context, req domain.FusionRunRequest, opts pipeline.Options) (*pipeline.Result, error) {
	if req.Refetch {
		if err := uc.Fetch(ctx, true); err != nil {
			return nil, fmt.Errorf("refetch sources: %w", err)
		}
	}

	inputs, err := pipeline.LoadInputs(uc.pipelineCfg.RawDir, uc.manifest.Files)
	if err != nil {
		return nil, fmt.Errorf("load inputs: %w", err)
	}

	var observer pipeline.StageObserver
	if uc.metrics != nil {
		observer = uc.metrics
	}
	engine, err := pipeline.NewEngine(opts, uc.logger, observer)
	if err != nil {
		return nil, err
	}

	res, err := engine.Run(ctx, inputs)
	if err != nil {
		return nil, err
	}

	if uc.writer != nil {
		if _, err := uc.writer.WriteResult(res, uc.pipelineCfg.WriteIntermediate); err != nil {
			return nil, fmt.Errorf("write outputs: %w", err)
		}
	}

	if err := uc.persist(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (uc *FusionUseCase) persist(ctx context.Context, res *pipeline.Result) error {
	if uc.stores.Segments != nil {
		if err := uc.stores.Segments.ReplaceSegments(ctx, res.Segments); err != nil {
			return fmt.Errorf("store segments: %w", err)
		}
	}
	if uc.stores.StationYears != nil {
		if err := uc.stores.StationYears.ReplaceStationYears(ctx, res.StationYears); err != nil {
			return fmt.Errorf("store station years: %w", err)
		}
	}

	if uc.stores.Cache != nil {
		n, err := uc.stores.Cache.DeleteByPrefix(ctx, CacheKeyPrefix)
		if err != nil {
			uc.logger.Warn("Failed to invalidate query cache", zap.Error(err))
		} else {
			uc.logger.Debug("Query cache invalidated", zap.Int("keys", n))
		}
	}
	return nil
}

// finish сохраняет отчёт, метрики и публикует событие. Ошибки здесь не меняют исход запуска.
func (uc *FusionUseCase) finish(ctx context.Context, req domain.FusionRunRequest, report *domain.RunReport) {
	if uc.stores.Runs != nil {
		if err := uc.stores.Runs.RecordRun(ctx, report); err != nil {
			uc.logger.Warn("Failed to record run report", zap.Error(err))
		}
	}

	if uc.metrics != nil {
		uc.metrics.ObserveRun(report)
		if uc.metricsCfg.PushgatewayURL != "" {
			if err := uc.metrics.Push(ctx, uc.metricsCfg.PushgatewayURL, uc.metricsCfg.JobName); err != nil {
				uc.logger.Warn("Failed to push metrics", zap.Error(err))
			}
		}
	}

	event := &domain.FusionDoneEvent{
		RequestID: req.RequestID,
		Report:    *report,
		Error:     report.Error,
	}
	if err := uc.notifier.Notify(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish done event", zap.Error(err))
	}
}

func failedReport(policy domain.NullPolicy, started time.Time, err error) *domain.RunReport {
	report := &domain.RunReport{
		RunID:      uuid.New(),
		Status:     domain.RunStatusFailed,
		NullPolicy: policy,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Error:      err.Error(),
	}
	if stage, ok := apperrors.StageOf(err); ok {
		report.FailedStage = stage
	}
	return report
}
