package api

import (
	"context"
	"log/slog"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/mq"
)

// Executor — движок действий (*actions.Dispatcher).
type Executor interface {
	Execute(ctx context.Context, cfg *domain.ActionConfig, inst *domain.WorkflowInstance, extra map[string]any) domain.ExecutionResult
	Validate(cfg *domain.ActionConfig) error
	Kinds() []domain.ActionKind
}

// FunctionLister — реестр функций (*functions.Registry).
type FunctionLister interface {
	Names() []string
}

// RequestPublisher ставит действие в очередь (*mq.Publisher).
type RequestPublisher interface {
	PublishActionRequested(ctx context.Context, payload mq.ActionRequestedPayload) error
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	executor  Executor
	functions FunctionLister
	publisher RequestPublisher
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Executor  Executor
	Functions FunctionLister

	// Publisher — для асинхронного выполнения (nil — async недоступен).
	Publisher RequestPublisher

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		executor:  cfg.Executor,
		functions: cfg.Functions,
		publisher: cfg.Publisher,
		logger:    logger,
	}
}
