// Package worker выполняет действия workflow, запрошенные через RabbitMQ.
//
// # Обзор
//
// Worker потребляет очередь actions.requested (обменник actuator.actions),
// выполняет каждое действие через Executor (*actions.Dispatcher)
// и публикует результат в actions.completed.
//
//	w := worker.New(worker.Config{
//	    Executor:  dispatcher,
//	    Publisher: publisher,
//	    Conn:      mqConn,
//	    Logger:    logger,
//	})
//
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// # Подтверждение сообщений
//
//   - Некорректный payload или запрос без config — nack без requeue (DLQ)
//   - Любой результат действия (success, warning, error) — ack
//   - Сбой публикации результата только логируется
//
// Действия не повторяются: решение о повторе принимает вызывающий движок
// workflow по полученному результату.
package worker
