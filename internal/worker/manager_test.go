package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type blockingWorker struct {
	*BaseWorker
	started atomic.Bool
	err     error
}

func (w *blockingWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	if w.err != nil {
		return w.err
	}
	ctx, cancel := w.Context(ctx)
	defer cancel()
	<-ctx.Done()
	return nil
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	w := &blockingWorker{BaseWorker: NewBaseWorker("blocking", "g", zap.NewNop())}
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, w.started.Load, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.True(t, w.IsStopped())
	assert.Empty(t, m.Errors())

	// Stop is idempotent
	assert.NoError(t, w.Stop())
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_CollectsErrors(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	m.Register(&blockingWorker{BaseWorker: NewBaseWorker("broken", "g", zap.NewNop()), err: errors.New("boom")})

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Stop())

	errs := m.Errors()
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "broken: boom")
}

func TestWorkerManager_ShutdownTimeout(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	m.timeout = 20 * time.Millisecond
	stuck := make(chan struct{})
	defer close(stuck)
	m.Register(stuckWorker{stuck: stuck})

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Stop())
}

type stuckWorker struct {
	stuck chan struct{}
}

func (w stuckWorker) Start(context.Context) error { <-w.stuck; return nil }
func (w stuckWorker) Stop() error                 { return nil }
func (w stuckWorker) Name() string                { return "stuck" }
