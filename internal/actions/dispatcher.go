package actions

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
	"github.com/shaiso/Actuator/internal/mail"
	"github.com/shaiso/Actuator/internal/telemetry"
)

// Deps — внешние зависимости действий.
//
// Любое поле может быть nil: действие, которому не хватает зависимости,
// возвращает ошибку конфигурации, а не падает.
type Deps struct {
	Renderer  engine.Renderer
	Mailer    mail.Mailer
	HTTP      HTTPDoer
	Store     ObjectStore
	Functions FunctionResolver
	Notifier  Notifier
	Roles     RoleDirectory
}

func (d Deps) withDefaults() Deps {
	if d.Renderer == nil {
		d.Renderer = engine.NewTemplateEngine()
	}
	if d.HTTP == nil {
		d.HTTP = &http.Client{}
	}
	return d
}

// Dispatcher выбирает Handler по типу действия и выполняет его.
type Dispatcher struct {
	handlers map[domain.ActionKind]Handler
	contexts *engine.ContextBuilder
	logger   *slog.Logger
}

// New создаёт Dispatcher со всеми пятью типами действий.
func New(deps Deps, settings Settings, logger *slog.Logger) *Dispatcher {
	deps = deps.withDefaults()
	settings = settings.withDefaults()

	return NewDispatcher(logger,
		NewEmailAction(deps, settings),
		NewAPICallAction(deps, settings),
		NewUpdateAction(deps, settings),
		NewFunctionAction(deps, settings),
		NewNotificationAction(deps, settings),
	)
}

// NewDispatcher создаёт Dispatcher с заданным набором обработчиков.
func NewDispatcher(logger *slog.Logger, handlers ...Handler) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		handlers: make(map[domain.ActionKind]Handler, len(handlers)),
		contexts: engine.NewContextBuilder(),
		logger:   logger,
	}
	for _, h := range handlers {
		d.Register(h)
	}
	return d
}

// Register добавляет обработчик. Повторная регистрация типа заменяет прежний.
func (d *Dispatcher) Register(h Handler) {
	d.handlers[h.Kind()] = h
}

// Kinds возвращает зарегистрированные типы в алфавитном порядке.
func (d *Dispatcher) Kinds() []domain.ActionKind {
	kinds := make([]domain.ActionKind, 0, len(d.handlers))
	for kind := range d.handlers {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// Validate проверяет конфигурацию без выполнения.
func (d *Dispatcher) Validate(cfg *domain.ActionConfig) error {
	if cfg != nil {
		if _, ok := d.handlers[cfg.Kind]; !ok && cfg.Kind.IsKnown() {
			return engine.NewValidationError(cfg.ID, "kind",
				fmt.Sprintf("Unsupported action type: %s", cfg.Kind), engine.ErrUnknownActionKind)
		}
	}
	return engine.Validate(cfg)
}

// Execute выполняет действие и всегда возвращает результат.
//
// extra подмешивается в контекст шаблонов поверх вычисленных разделов.
func (d *Dispatcher) Execute(
	ctx context.Context,
	cfg *domain.ActionConfig,
	inst *domain.WorkflowInstance,
	extra map[string]any,
) (result domain.ExecutionResult) {
	start := time.Now()
	kind, actionID, instanceID := "unknown", "", ""
	if cfg != nil {
		actionID = cfg.ID
		if cfg.Kind != "" {
			kind = string(cfg.Kind)
		}
	}
	if inst != nil {
		instanceID = inst.ID
	}

	logger := telemetry.ForAction(d.logger, kind, actionID, instanceID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("action panicked", "panic", r, "stack", string(debug.Stack()))
			result = domain.Failure(domain.ErrorInternal, fmt.Sprintf("Action failed: %v", r))
		}
		report(logger, result)
		telemetry.ObserveAction(kind, string(result.Status), time.Since(start))
	}()

	if cfg == nil {
		return domain.Failure(domain.ErrorConfiguration, "action config is nil")
	}

	handler, ok := d.handlers[cfg.Kind]
	if !ok {
		return domain.Failure(domain.ErrorUnsupported, fmt.Sprintf("Unsupported action type: %s", cfg.Kind))
	}

	if err := engine.Validate(cfg); err != nil {
		return domain.Failure(domain.ErrorConfiguration, err.Error())
	}

	req := &Request{
		Config:          cfg,
		Instance:        inst,
		TemplateContext: d.contexts.Build(inst, extra),
	}
	return handler.Execute(ctx, req)
}

// report логирует результат: ошибки на уровне error, предупреждения на warn.
func report(logger *slog.Logger, result domain.ExecutionResult) {
	switch result.Status {
	case domain.ResultError:
		logger.Error("action failed",
			"error_kind", result.ErrorKind,
			"message", result.Message,
		)
	case domain.ResultWarning:
		logger.Warn("action completed with warnings", "message", result.Message)
	default:
		logger.Debug("action completed")
	}
}
