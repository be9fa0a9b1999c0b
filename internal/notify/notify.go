package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shaiso/Actuator/internal/domain"
)

// ErrNoSink — для типа уведомления не настроен канал.
var ErrNoSink = errors.New("no sink for notification type")

// Sink — канал доставки уведомлений.
type Sink interface {
	Dispatch(ctx context.Context, n *domain.Notification) error
}

// SinkFunc — адаптер функции к Sink.
type SinkFunc func(ctx context.Context, n *domain.Notification) error

// Dispatch вызывает f.
func (f SinkFunc) Dispatch(ctx context.Context, n *domain.Notification) error {
	return f(ctx, n)
}

// Router — Sink, выбирающий канал по типу уведомления.
type Router struct {
	sinks  map[domain.NotificationType]Sink
	logger *slog.Logger
}

// NewRouter создаёт пустой Router.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		sinks:  make(map[domain.NotificationType]Sink),
		logger: logger,
	}
}

// Handle назначает канал для типа уведомления.
func (r *Router) Handle(t domain.NotificationType, sink Sink) *Router {
	r.sinks[t] = sink
	return r
}

// Dispatch отправляет уведомление в канал его типа.
func (r *Router) Dispatch(ctx context.Context, n *domain.Notification) error {
	sink, ok := r.sinks[n.Type]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSink, n.Type)
	}

	if err := sink.Dispatch(ctx, n); err != nil {
		return fmt.Errorf("dispatch %s notification: %w", n.Type, err)
	}

	r.logger.Debug("notification dispatched",
		"notification_id", n.ID,
		"type", n.Type,
		"recipients", len(n.Recipients),
	)
	return nil
}

// Store — хранилище in-app уведомлений (repo.NotificationRepo).
type Store interface {
	Create(ctx context.Context, n *domain.Notification) error
}

// StoreSink — канал in_app: уведомление сохраняется в БД.
type StoreSink struct {
	store Store
}

// NewStoreSink создаёт StoreSink.
func NewStoreSink(store Store) *StoreSink {
	return &StoreSink{store: store}
}

// Dispatch сохраняет уведомление.
func (s *StoreSink) Dispatch(ctx context.Context, n *domain.Notification) error {
	return s.store.Create(ctx, n)
}

// Publisher — публикация уведомлений в очередь (mq.Publisher).
type Publisher interface {
	PublishNotification(ctx context.Context, n *domain.Notification) error
}

// QueueSink — каналы push и sms: уведомление публикуется в RabbitMQ.
type QueueSink struct {
	publisher Publisher
}

// NewQueueSink создаёт QueueSink.
func NewQueueSink(publisher Publisher) *QueueSink {
	return &QueueSink{publisher: publisher}
}

// Dispatch публикует уведомление.
func (s *QueueSink) Dispatch(ctx context.Context, n *domain.Notification) error {
	return s.publisher.PublishNotification(ctx, n)
}

// LogSink — канал, который только пишет уведомление в лог.
// Подставляется, когда RabbitMQ или БД недоступны при локальном запуске.
func LogSink(logger *slog.Logger) Sink {
	return SinkFunc(func(_ context.Context, n *domain.Notification) error {
		logger.Info("notification",
			"notification_id", n.ID,
			"type", n.Type,
			"recipients", n.Recipients,
			"title", n.Title,
			"priority", n.Priority,
		)
		return nil
	})
}
