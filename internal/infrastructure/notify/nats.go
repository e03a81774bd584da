package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain"
)

// NATSNotifier публикует событие в subject.<status>
type NATSNotifier struct {
	nc      *nats.Conn
	subject string
	metrics PublisherMetrics
	logger  *zap.Logger
}

func NewNATSNotifier(url, subject string, m PublisherMetrics, logger *zap.Logger) (*NATSNotifier, error) {
	nc, err := nats.Connect(url,
		nats.Name("rail-fusion"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.SetConnected(false)
			}
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(true)
			}
			logger.Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(false)
			}
			logger.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	if m != nil {
		m.SetConnected(true)
	}

	logger.Info("NATS connected", zap.String("url", url), zap.String("subject", subject))
	return &NATSNotifier{nc: nc, subject: subject, metrics: m, logger: logger}, nil
}

func (n *NATSNotifier) Notify(ctx context.Context, event *domain.FusionDoneEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal done event: %w", err)
	}

	subject := Subject(n.subject, string(event.Report.Status))
	start := time.Now()
	err = n.nc.Publish(subject, payload)
	if err == nil {
		err = n.nc.FlushWithContext(ctx)
	}
	observe(n.metrics, start, err)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	n.logger.Info("Done event published",
		zap.String("subject", subject),
		zap.String("request_id", event.RequestID.String()))
	return nil
}

func (n *NATSNotifier) Close() {
	if n.nc != nil {
		n.nc.Drain() //nolint:errcheck
		n.nc.Close()
	}
}

var tokenReplacer = strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")

// Subject строит subject из базового префикса и токена
func Subject(base, token string) string {
	token = tokenReplacer.Replace(strings.TrimSpace(token))
	if token == "" {
		token = "_"
	}
	return base + "." + token
}
