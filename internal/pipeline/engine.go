package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rail-fusion/internal/dataset"
	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/pkg/logger"
)

// Inputs - сырые таблицы одного запуска
type Inputs struct {
	Shapes     *dataset.Table
	Speeds     *dataset.Table
	Stations   *dataset.Table
	Ridership  *dataset.Table
	Communes   *dataset.Table
	Population *dataset.Table
}

// Result holds the two canonical tables together with the intermediate ones.
type Result struct {
	Shapes       []domain.LineSegment
	Speeds       []domain.SpeedSegment
	Segments     []domain.JoinedSegment
	Ridership    []domain.YearlyRidership
	Stations     []domain.Station
	Communes     []domain.CommunePopulation
	StationYears []domain.StationYearRecord
	Report       *domain.RunReport
}

// StageObserver получает статистику каждой завершённой стадии
type StageObserver interface {
	ObserveStage(report domain.StageReport)
}

// EmptyResultWarning is recorded when a stage yields no rows. The empty table flows on.
type EmptyResultWarning struct {
	Stage string
}

func (w EmptyResultWarning) String() string {
	return fmt.Sprintf("stage %s produced no rows", w.Stage)
}

type Engine struct {
	opts     Options
	logger   *zap.Logger
	observer StageObserver
}

func NewEngine(opts Options, log *zap.Logger, observer StageObserver) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline options: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{opts: opts, logger: log, observer: observer}, nil
}

func (e *Engine) Options() Options {
	return e.opts
}

// run собирает статистику стадий одного запуска
type run struct {
	engine *Engine
	logger *zap.Logger

	mu       sync.Mutex
	stages   []domain.StageReport
	warnings []string
}

func (r *run) stage(ctx context.Context, name string, rowsIn int, fn func() (int, error)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}

	log := logger.ForStage(r.logger, name)
	start := time.Now()
	rowsOut, err := fn()
	elapsed := time.Since(start)
	if err != nil {
		log.Error("Stage failed", zap.Int("rows_in", rowsIn), zap.Error(err))
		return err
	}

	report := domain.StageReport{Stage: name, RowsIn: rowsIn, RowsOut: rowsOut, Duration: elapsed}
	log.Info("Stage completed",
		zap.Int("rows_in", rowsIn),
		zap.Int("rows_out", rowsOut),
		zap.Duration("duration", elapsed))

	r.mu.Lock()
	r.stages = append(r.stages, report)
	if rowsOut == 0 {
		w := EmptyResultWarning{Stage: name}
		r.warnings = append(r.warnings, w.String())
		log.Warn("Stage produced no rows", zap.Int("rows_in", rowsIn))
	}
	r.mu.Unlock()

	if r.engine.observer != nil {
		r.engine.observer.ObserveStage(report)
	}
	return nil
}

// Run executes both sub-pipelines. The first failing stage aborts the run and no result
// is returned.
func (e *Engine) Run(ctx context.Context, in *Inputs) (*Result, error) {
	if in == nil {
		return nil, fmt.Errorf("pipeline inputs are nil")
	}

	report := &domain.RunReport{
		RunID:      uuid.New(),
		NullPolicy: e.opts.NullPolicy,
		StartedAt:  time.Now().UTC(),
	}
	log := logger.ForRun(e.logger, report.RunID.String())
	r := &run{engine: e, logger: log}
	res := &Result{}

	log.Info("Starting fusion run",
		zap.String("null_policy", string(e.opts.NullPolicy)),
		zap.Int("year_from", e.opts.Years.From),
		zap.Int("year_to", e.opts.Years.To),
		zap.Bool("concurrent", e.opts.Concurrent))

	if e.opts.Concurrent {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return e.segments(gctx, r, in, res) })
		g.Go(func() error { return e.stationYears(gctx, r, in, res) })
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		if err := e.segments(ctx, r, in, res); err != nil {
			return nil, err
		}
		if err := e.stationYears(ctx, r, in, res); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(r.stages, func(i, j int) bool {
		return stageRank(r.stages[i].Stage) < stageRank(r.stages[j].Stage)
	})
	report.Status = domain.RunStatusSucceeded
	report.FinishedAt = time.Now().UTC()
	report.Stages = r.stages
	report.Warnings = r.warnings
	report.SegmentCount = len(res.Segments)
	report.StationYearCount = len(res.StationYears)
	res.Report = report

	log.Info("Fusion run completed",
		zap.Int("segments", report.SegmentCount),
		zap.Int("station_years", report.StationYearCount),
		zap.Int("warnings", len(report.Warnings)),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))
	return res, nil
}

// segments - подпайплайн участков: формы, скорости, пространственное соединение
func (e *Engine) segments(ctx context.Context, r *run, in *Inputs, res *Result) error {
	cols := e.opts.Columns

	if err := r.stage(ctx, StageLineShapeFilter, in.Shapes.Len(), func() (int, error) {
		out, err := FilterLineShapes(in.Shapes, cols.Shapes)
		res.Shapes = out
		return len(out), err
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, StageSpeedSegmentFilter, in.Speeds.Len(), func() (int, error) {
		out, err := FilterSpeedSegments(in.Speeds, cols.Speeds, e.opts.NullPolicy)
		res.Speeds = out
		return len(out), err
	}); err != nil {
		return err
	}

	return r.stage(ctx, StageSpatialSegmentJoiner, len(res.Shapes), func() (int, error) {
		out, err := JoinSegments(res.Shapes, res.Speeds, e.opts.Tolerance)
		res.Segments = out
		return len(out), err
	})
}

// stationYears - подпайплайн станций: пассажиропоток, станции, коммуны, слияние
func (e *Engine) stationYears(ctx context.Context, r *run, in *Inputs, res *Result) error {
	cols := e.opts.Columns

	if err := r.stage(ctx, StageRidershipReshaper, in.Ridership.Len(), func() (int, error) {
		out, err := ReshapeRidership(in.Ridership, cols.Ridership, e.opts.Years)
		res.Ridership = out
		return len(out), err
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, StageStationRegistryFilter, in.Stations.Len(), func() (int, error) {
		out, err := FilterStations(in.Stations, cols.Stations)
		res.Stations = out
		return len(out), err
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, StageCommunePopulationJoiner, in.Communes.Len(), func() (int, error) {
		out, err := JoinCommunePopulation(in.Communes, in.Population, cols.Communes, cols.Population)
		res.Communes = out
		return len(out), err
	}); err != nil {
		return err
	}

	return r.stage(ctx, StageNetworkFusionEngine, len(res.Stations), func() (int, error) {
		out, err := FuseStationYears(res.Stations, res.Ridership, res.Communes)
		res.StationYears = out
		return len(out), err
	})
}
