// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений
//   - consumer.go   — потребление сообщений
//
// Типы сообщений:
//   - action.requested — действие ожидает выполнения
//   - action.completed — действие выполнено (результат)
//   - notification     — push/sms уведомление для шлюзов доставки
//
// Exchanges:
//   - actuator.actions       — запросы и результаты действий
//   - actuator.notifications — уведомления
//   - actuator.dlq           — dead letter queue
package mq
