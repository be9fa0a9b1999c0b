package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/mq"
)

const defaultPrefetch = 10

// Executor выполняет действие (реализован *actions.Dispatcher).
type Executor interface {
	Execute(ctx context.Context, cfg *domain.ActionConfig, inst *domain.WorkflowInstance, extra map[string]any) domain.ExecutionResult
}

// ResultPublisher публикует результат выполнения (реализован *mq.Publisher).
type ResultPublisher interface {
	PublishActionCompleted(ctx context.Context, payload mq.ActionCompletedPayload) error
}

// Worker выполняет действия, запрошенные через очередь actions.requested.
//
// Worker не хранит состояния: несколько экземпляров потребляют
// из одной очереди, результат каждого запроса уходит в actions.completed.
type Worker struct {
	executor  Executor
	publisher ResultPublisher
	conn      *mq.Connection
	prefetch  int

	consumer *mq.Consumer

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Worker.
type Config struct {
	// Executor — исполнитель действий (обязателен).
	Executor Executor

	// Publisher — куда отправлять результаты (nil — результаты только логируются).
	Publisher ResultPublisher

	// Conn — соединение с RabbitMQ.
	Conn *mq.Connection

	// Prefetch — сколько запросов брать из очереди одновременно (default: 10).
	Prefetch int

	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		executor:  cfg.Executor,
		publisher: cfg.Publisher,
		conn:      cfg.Conn,
		prefetch:  prefetch,
		logger:    logger,
	}
}

// Start запускает consumer очереди actions.requested.
func (w *Worker) Start(ctx context.Context) error {
	if w.executor == nil {
		return ErrNoExecutor
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker", "prefetch", w.prefetch)

	w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
		Queue:    string(mq.QueueActionsRequested),
		Handler:  w.handleActionRequested,
		Prefetch: w.prefetch,
	})

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("action consumer error", "error", err)
		}
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker и ждёт завершения текущих действий.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	if w.consumer != nil {
		w.consumer.Stop()
	}

	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}
