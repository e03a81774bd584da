package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rail-fusion/internal/config"
	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/domain/repository"
)

// Backends
const (
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendNATS  = "nats"
)

// Notifier публикует событие о завершении запуска
type Notifier interface {
	Notify(ctx context.Context, event *domain.FusionDoneEvent) error
	Close()
}

// PublisherMetrics - счётчики публикаций, реализуется metrics.Collector
type PublisherMetrics interface {
	IncPublished()
	IncPublishErrors()
	ObservePublish(ms float64)
	SetConnected(connected bool)
}

// New выбирает реализацию по cfg.Backend. streams нужен только для redis.
func New(cfg *config.NotifyConfig, streams repository.StreamRepository, m PublisherMetrics, logger *zap.Logger) (Notifier, error) {
	switch cfg.Backend {
	case BackendNone, "":
		return Nop{}, nil
	case BackendRedis:
		if streams == nil {
			return nil, fmt.Errorf("redis notifier requires a stream repository")
		}
		return NewStreamNotifier(streams, domain.StreamFusionDone, m, logger), nil
	case BackendNATS:
		return NewNATSNotifier(cfg.NATSURL, cfg.NATSSubject, m, logger)
	default:
		return nil, fmt.Errorf("unknown notify backend %q", cfg.Backend)
	}
}

// Nop ничего не публикует
type Nop struct{}

func (Nop) Notify(context.Context, *domain.FusionDoneEvent) error { return nil }
func (Nop) Close()                                                {}

// StreamNotifier пишет событие в Redis Stream
type StreamNotifier struct {
	streams repository.StreamRepository
	stream  string
	metrics PublisherMetrics
	logger  *zap.Logger
}

func NewStreamNotifier(streams repository.StreamRepository, stream string, m PublisherMetrics, logger *zap.Logger) *StreamNotifier {
	return &StreamNotifier{streams: streams, stream: stream, metrics: m, logger: logger}
}

func (n *StreamNotifier) Notify(ctx context.Context, event *domain.FusionDoneEvent) error {
	start := time.Now()
	err := n.streams.PublishToStream(ctx, n.stream, event)
	observe(n.metrics, start, err)
	if err != nil {
		return fmt.Errorf("failed to publish done event: %w", err)
	}

	n.logger.Info("Done event published",
		zap.String("stream", n.stream),
		zap.String("request_id", event.RequestID.String()),
		zap.String("status", string(event.Report.Status)))
	return nil
}

func (n *StreamNotifier) Close() {}

func observe(m PublisherMetrics, start time.Time, err error) {
	if m == nil {
		return
	}
	m.ObservePublish(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		m.IncPublishErrors()
		return
	}
	m.IncPublished()
}
