package fusion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/domain/repository"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
	"github.com/rail-fusion/internal/worker"
)

const retryBackoff = 2 * time.Second

// Runner выполняет запуск пайплайна, реализуется usecase.FusionUseCase
type Runner interface {
	Run(ctx context.Context, req domain.FusionRunRequest) (*domain.RunReport, error)
}

// FusionWorker читает запросы на запуск из стрима и выполняет их по одному
type FusionWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	runner       Runner
	consumerName string
	maxRetries   int
	backoff      time.Duration
}

// NewFusionWorker создает воркер. Пустой consumerName заменяется на hostname-pid.
func NewFusionWorker(
	streamRepo repository.StreamRepository,
	runner Runner,
	consumerGroup string,
	consumerName string,
	maxRetries int,
	logger *zap.Logger,
) *FusionWorker {
	if consumerName == "" {
		hostname, _ := os.Hostname()
		consumerName = fmt.Sprintf("%s-%d", hostname, os.Getpid())
	}

	return &FusionWorker{
		BaseWorker:   worker.NewBaseWorker("fusion-run", consumerGroup, logger),
		streamRepo:   streamRepo,
		runner:       runner,
		consumerName: consumerName,
		maxRetries:   maxRetries,
		backoff:      retryBackoff,
	}
}

// SetBackoff меняет паузу между повторами
func (w *FusionWorker) SetBackoff(d time.Duration) {
	w.backoff = d
}

func (w *FusionWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting FusionWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamFusionRun, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := w.Context(ctx)
	defer cancel()

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamFusionRun, w.ConsumerGroup(), w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for msg := range messages {
		w.handle(ctx, msg)
	}

	logger.Info("Worker stopped")
	return nil
}

// handle подтверждает сообщение после успешного запуска, ошибки данных
// или исчерпания повторов. При остановке воркера сообщение остаётся в pending.
func (w *FusionWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var req domain.FusionRunRequest
	if err := json.Unmarshal([]byte(msg.Data), &req); err != nil {
		logger.Warn("Dropping malformed run request", zap.Error(err))
		w.ack(ctx, msg.ID)
		return
	}
	if req.RequestID == uuid.Nil {
		req.RequestID = uuid.New()
	}
	if req.NullPolicy != "" && !req.NullPolicy.Valid() {
		logger.Warn("Dropping run request with unknown null policy", zap.String("null_policy", string(req.NullPolicy)))
		w.ack(ctx, msg.ID)
		return
	}

	logger = logger.With(zap.String("request_id", req.RequestID.String()))

	for attempt := 0; ; attempt++ {
		report, err := w.runner.Run(ctx, req)
		if err == nil {
			logger.Info("Run request processed",
				zap.String("run_id", report.RunID.String()),
				zap.Int("station_years", report.StationYearCount))
			break
		}
		if ctx.Err() != nil {
			logger.Warn("Run interrupted, leaving message pending", zap.Error(err))
			return
		}
		if _, isStage := apperrors.StageOf(err); isStage {
			logger.Error("Run failed on input data", zap.Error(err))
			break
		}
		if attempt >= w.maxRetries {
			logger.Error("Run failed, retries exhausted", zap.Int("attempts", attempt+1), zap.Error(err))
			break
		}

		logger.Warn("Run failed, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
		select {
		case <-time.After(w.backoff):
		case <-ctx.Done():
			return
		}
	}

	w.ack(ctx, msg.ID)
}

func (w *FusionWorker) ack(ctx context.Context, id string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamFusionRun, w.ConsumerGroup(), id); err != nil {
		w.Logger().Error("Failed to ack message", zap.String("message_id", id), zap.Error(err))
	}
}
