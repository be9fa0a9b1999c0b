// Actuator Worker — выполняет действия из очереди.
//
// Worker:
//   - Получает запросы из actions.requested
//   - Выполняет действие через движок действий
//   - Публикует ExecutionResult в actions.completed
//
// Workers масштабируются горизонтально.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Actuator/internal/app"
	"github.com/shaiso/Actuator/internal/config"
	"github.com/shaiso/Actuator/internal/telemetry"
	"github.com/shaiso/Actuator/internal/worker"
)

func main() {
	// .env читается до логгера: LOG_LEVEL и LOG_FORMAT могут быть заданы в нём
	cfg, err := config.Load()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger("actuator-worker")
	logger.Info("starting actuator-worker")

	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := app.Build(ctx, cfg, "actuator-worker", logger)
	if err != nil {
		logger.Error("failed to build runtime", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	// Без RabbitMQ воркеру нечего потреблять
	if rt.MQ == nil {
		logger.Error("RabbitMQ is required for actuator-worker")
		os.Exit(1)
	}

	w := worker.New(worker.Config{
		Executor:  rt.Dispatcher,
		Publisher: rt.Publisher,
		Conn:      rt.MQ,
		Prefetch:  cfg.WorkerPrefetch,
		Logger:    logger,
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !rt.MQ.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("amqp disconnected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":" + cfg.WorkerPort

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем worker
	w.Stop()
	logger.Info("actuator-worker stopped")
}
