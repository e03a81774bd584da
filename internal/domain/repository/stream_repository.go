package repository

import (
	"context"

	"github.com/rail-fusion/internal/domain"
)

// StreamRepository - очереди запусков поверх Redis Streams.
// Полезная нагрузка сообщения лежит в поле "data" в виде JSON.
type StreamRepository interface {
	// ConsumeStream читает сообщения группы, канал закрывается при отмене ctx
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)

	AckMessage(ctx context.Context, stream, group, messageID string) error

	// CreateConsumerGroup создаёт группу и стрим, существующая группа не ошибка
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// PublishToStream сериализует data в JSON и добавляет в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
