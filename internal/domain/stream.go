package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamFusionRun  = "stream:railfusion:run"
	StreamFusionDone = "stream:railfusion:done"
)

// FusionRunRequest - входящий запрос на запуск пайплайна
type FusionRunRequest struct {
	RequestID  uuid.UUID  `json:"request_id"`
	NullPolicy NullPolicy `json:"null_policy,omitempty"`
	Refetch    bool       `json:"refetch,omitempty"`
}

// FusionDoneEvent - результат запуска пайплайна
type FusionDoneEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Report    RunReport `json:"report"`
	Error     string    `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream, Data содержит JSON из поля "data"
type StreamMessage struct {
	ID   string
	Data string
}
