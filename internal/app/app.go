package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Actuator/internal/actions"
	"github.com/shaiso/Actuator/internal/config"
	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
	"github.com/shaiso/Actuator/internal/functions"
	"github.com/shaiso/Actuator/internal/mail"
	"github.com/shaiso/Actuator/internal/mq"
	"github.com/shaiso/Actuator/internal/notify"
	"github.com/shaiso/Actuator/internal/repo"
)

// Runtime — собранные зависимости процесса.
//
// Pool, MQ и Publisher могут быть nil: процесс запускается без БД
// или RabbitMQ, а действия, которым они нужны, возвращают ошибку
// конфигурации.
type Runtime struct {
	Dispatcher *actions.Dispatcher
	Functions  *functions.Registry

	Pool      *pgxpool.Pool
	MQ        *mq.Connection
	Publisher *mq.Publisher

	logger *slog.Logger
}

// Build подключается к БД и RabbitMQ и собирает движок действий.
// name — имя процесса для соединения с RabbitMQ.
func Build(ctx context.Context, cfg *config.Config, name string, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{
		Functions: functions.Default(),
		logger:    logger,
	}

	models, err := repo.LoadModels(cfg.ModelsFile)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}

	// DB pool
	rt.Pool, err = repo.NewPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Warn("database not available, update actions disabled", "error", err)
	} else {
		logger.Info("database connected")
	}

	// RabbitMQ
	rt.MQ, err = mq.NewConnection(cfg.RabbitMQURL, name, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, queued channels disabled", "error", err)
	} else {
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(ctx, rt.MQ); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		rt.Publisher = mq.NewPublisher(rt.MQ, logger)
	}

	deps := actions.Deps{
		Renderer:  engine.NewTemplateEngine(engine.WithStrictVariables(cfg.TemplateStrict)),
		Mailer:    newMailer(cfg, logger),
		Functions: rt.Functions,
		Notifier:  rt.notifier(),
	}
	if rt.Pool != nil {
		deps.Store = repo.NewObjectRepo(rt.Pool, models)
		deps.Roles = repo.NewRoleRepo(rt.Pool)
	}

	rt.Dispatcher = actions.New(deps, cfg.Actions, logger)
	return rt, nil
}

// notifier маршрутизирует уведомления по каналам.
// Недоступный канал заменяется записью в лог.
func (rt *Runtime) notifier() *notify.Router {
	router := notify.NewRouter(rt.logger)

	if rt.Pool != nil {
		router.Handle(domain.NotificationInApp, notify.NewStoreSink(repo.NewNotificationRepo(rt.Pool)))
	} else {
		router.Handle(domain.NotificationInApp, notify.LogSink(rt.logger))
	}

	queued := notify.LogSink(rt.logger)
	if rt.Publisher != nil {
		queued = notify.NewQueueSink(rt.Publisher)
	}
	router.Handle(domain.NotificationPush, queued).
		Handle(domain.NotificationSMS, queued)

	return router
}

func newMailer(cfg *config.Config, logger *slog.Logger) mail.Mailer {
	if cfg.MailBackend == config.MailBackendSMTP {
		logger.Info("mail backend: smtp", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
		return mail.NewSMTPMailer(cfg.SMTP, logger)
	}
	logger.Info("mail backend: log")
	return mail.NewLogMailer(logger)
}

// Close закрывает соединения с RabbitMQ и БД.
func (rt *Runtime) Close() {
	if rt.MQ != nil {
		if err := rt.MQ.Close(); err != nil {
			rt.logger.Warn("failed to close RabbitMQ connection", "error", err)
		}
	}
	if rt.Pool != nil {
		rt.Pool.Close()
	}
}
