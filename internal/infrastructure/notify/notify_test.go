package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/config"
	"github.com/rail-fusion/internal/domain"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

type countingMetrics struct {
	published, errors, observed int
	connected                   bool
}

func (c *countingMetrics) IncPublished()          { c.published++ }
func (c *countingMetrics) IncPublishErrors()      { c.errors++ }
func (c *countingMetrics) ObservePublish(float64) { c.observed++ }
func (c *countingMetrics) SetConnected(v bool)    { c.connected = v }

func TestNew(t *testing.T) {
	logger := zap.NewNop()

	n, err := New(&config.NotifyConfig{Backend: BackendNone}, nil, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)

	_, err = New(&config.NotifyConfig{Backend: BackendRedis}, nil, nil, logger)
	assert.Error(t, err)

	n, err = New(&config.NotifyConfig{Backend: BackendRedis}, new(MockStreamRepository), nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &StreamNotifier{}, n)

	_, err = New(&config.NotifyConfig{Backend: "kafka"}, nil, nil, logger)
	assert.Error(t, err)
}

func TestStreamNotifier_Notify(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		streams := new(MockStreamRepository)
		m := &countingMetrics{}
		event := &domain.FusionDoneEvent{RequestID: uuid.New(), Report: domain.RunReport{Status: domain.RunStatusSucceeded}}
		streams.On("PublishToStream", mock.Anything, domain.StreamFusionDone, event).Return(nil)
		n := NewStreamNotifier(streams, domain.StreamFusionDone, m, zap.NewNop())

		// Act
		err := n.Notify(context.Background(), event)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, m.published)
		assert.Equal(t, 1, m.observed)
		streams.AssertExpectations(t)
	})

	t.Run("publish error", func(t *testing.T) {
		streams := new(MockStreamRepository)
		m := &countingMetrics{}
		streams.On("PublishToStream", mock.Anything, domain.StreamFusionDone, mock.Anything).Return(errors.New("redis down"))
		n := NewStreamNotifier(streams, domain.StreamFusionDone, m, zap.NewNop())

		err := n.Notify(context.Background(), &domain.FusionDoneEvent{})

		assert.ErrorContains(t, err, "redis down")
		assert.Equal(t, 1, m.errors)
		assert.Zero(t, m.published)
	})
}

func TestSubject(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"succeeded", "railfusion.done.succeeded"},
		{" failed ", "railfusion.done.failed"},
		{"a.b*c>", "railfusion.done.a_b_c_"},
		{"", "railfusion.done._"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Subject("railfusion.done", tt.token))
	}
}
