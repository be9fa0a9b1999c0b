package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Форматы вывода логов (LOG_FORMAT).
const (
	FormatJSON = "json"
	FormatText = "text"
)

// redacted заменяет значения секретных атрибутов.
const redacted = "[REDACTED]"

// secretKeys — атрибуты, значения которых не попадают в лог
// (учётные данные ApiCallAction, SMTP).
var secretKeys = map[string]bool{
	"password":         true,
	"token":            true,
	"authorization":    true,
	"auth_credentials": true,
	"api_key":          true,
}

// LogOptions — параметры логгера процесса.
type LogOptions struct {
	Level   slog.Level
	Format  string
	Service string
	Output  io.Writer
}

// ParseLevel разбирает уровень логирования: debug, info, warn, error
// в любом регистре, а также смещения вида "info+2".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// NewLogger создаёт логгер по опциям. Каждая запись получает атрибут service.
func NewLogger(opts LogOptions) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       opts.Level,
		AddSource:   opts.Level <= slog.LevelDebug,
		ReplaceAttr: redactSecrets,
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, FormatText) {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	return logger
}

// SetupLogger создаёт логгер процесса из LOG_LEVEL и LOG_FORMAT
// и делает его глобальным. Некорректный LOG_LEVEL не фатален:
// используется info, а предупреждение пишется в лог.
func SetupLogger(service string) *slog.Logger {
	level, levelErr := ParseLevel(os.Getenv("LOG_LEVEL"))

	logger := NewLogger(LogOptions{
		Level:   level,
		Format:  os.Getenv("LOG_FORMAT"),
		Service: service,
	})
	slog.SetDefault(logger)

	if levelErr != nil {
		logger.Warn("falling back to info level", "error", levelErr)
	}
	return logger
}

func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}

type loggerKey struct{}

// WithLogger добавляет логгер в контекст.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext извлекает логгер из контекста, иначе возвращает глобальный.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ForAction — логгер одного выполнения: тип действия, его ID
// и экземпляр workflow (пустые значения не добавляются).
func ForAction(logger *slog.Logger, kind, actionID, instanceID string) *slog.Logger {
	attrs := []any{"action_kind", kind}
	if actionID != "" {
		attrs = append(attrs, "action_id", actionID)
	}
	if instanceID != "" {
		attrs = append(attrs, "instance_id", instanceID)
	}
	return logger.With(attrs...)
}

// WithRequestID возвращает логгер с добавленным request_id.
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}
