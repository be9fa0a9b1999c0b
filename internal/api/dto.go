package api

import (
	"github.com/shaiso/Actuator/internal/domain"
)

// ExecuteRequest — запрос на выполнение действия.
type ExecuteRequest struct {
	Config   *domain.ActionConfig     `json:"config"`
	Instance *domain.WorkflowInstance `json:"instance,omitempty"`
	Extra    map[string]any           `json:"extra,omitempty"`

	// Async — поставить действие в очередь вместо синхронного выполнения.
	Async bool `json:"async,omitempty"`
}

// QueuedResponse — ответ на асинхронный запрос.
type QueuedResponse struct {
	RequestID string `json:"request_id"`
}

// ValidateRequest — запрос на проверку конфигурации.
type ValidateRequest struct {
	Config *domain.ActionConfig `json:"config"`
}

// ValidateResponse — конфигурация прошла проверку.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}
