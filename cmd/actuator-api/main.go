// Actuator API — HTTP-интерфейс движка действий.
//
// API:
//   - Выполняет действие синхронно и возвращает ExecutionResult
//   - Ставит действие в очередь actuator-worker (async)
//   - Проверяет конфигурации действий без выполнения
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Actuator/internal/api"
	"github.com/shaiso/Actuator/internal/app"
	"github.com/shaiso/Actuator/internal/config"
	"github.com/shaiso/Actuator/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// .env читается до логгера: LOG_LEVEL и LOG_FORMAT могут быть заданы в нём
	cfg, err := config.Load()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger("actuator-api")
	logger.Info("starting actuator-api")

	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := app.Build(ctx, cfg, "actuator-api", logger)
	if err != nil {
		logger.Error("failed to build runtime", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	hcfg := api.Config{
		Executor:  rt.Dispatcher,
		Functions: rt.Functions,
		Logger:    logger,
	}
	if rt.Publisher != nil {
		hcfg.Publisher = rt.Publisher
	}
	handler := api.NewHandler(hcfg)

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":" + cfg.APIPort

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
