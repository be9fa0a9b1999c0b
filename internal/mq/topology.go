package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeActions       Exchange = "actuator.actions"
	ExchangeNotifications Exchange = "actuator.notifications"
	ExchangeDLQ           Exchange = "actuator.dlq"
)

// Queues — имена очередей.
const (
	QueueActionsRequested  Queue = "actions.requested"
	QueueActionsCompleted  Queue = "actions.completed"
	QueueNotificationsPush Queue = "notifications.push"
	QueueNotificationsSMS  Queue = "notifications.sms"
	QueueDLQActions        Queue = "dlq.actions"
)

// Routing keys.
const (
	RoutingKeyRequested  RoutingKey = "requested"
	RoutingKeyCompleted  RoutingKey = "completed"
	RoutingKeyPush       RoutingKey = "push"
	RoutingKeySMS        RoutingKey = "sms"
	RoutingKeyDLQActions RoutingKey = "actions"
)

// exchanges — все обменники (direct, durable).
var exchanges = []Exchange{
	ExchangeActions,
	ExchangeNotifications,
	ExchangeDLQ,
}

// queues — очереди и их аргументы.
var queues = []struct {
	name Queue
	args amqp.Table
}{
	// actions.requested — некорректные запросы уходят в DLQ
	{QueueActionsRequested, amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQActions),
	}},
	{QueueActionsCompleted, nil},
	{QueueNotificationsPush, nil},
	{QueueNotificationsSMS, nil},
	{QueueDLQActions, nil},
}

// bindings — привязки очередей к обменникам.
var bindings = []struct {
	queue      Queue
	routingKey RoutingKey
	exchange   Exchange
}{
	{QueueActionsRequested, RoutingKeyRequested, ExchangeActions},
	{QueueActionsCompleted, RoutingKeyCompleted, ExchangeActions},
	{QueueNotificationsPush, RoutingKeyPush, ExchangeNotifications},
	{QueueNotificationsSMS, RoutingKeySMS, ExchangeNotifications},
	{QueueDLQActions, RoutingKeyDLQActions, ExchangeDLQ},
}

// SetupTopology объявляет обменники, очереди и привязки. Идемпотентна.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		for _, ex := range exchanges {
			if err := ch.ExchangeDeclare(string(ex), "direct", true, false, false, false, nil); err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex, err)
			}
		}

		for _, q := range queues {
			if _, err := ch.QueueDeclare(string(q.name), true, false, false, false, q.args); err != nil {
				return fmt.Errorf("declare queue %s: %w", q.name, err)
			}
		}

		for _, b := range bindings {
			if err := ch.QueueBind(string(b.queue), string(b.routingKey), string(b.exchange), false, nil); err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
			}
		}
		return nil
	})
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Actuator RabbitMQ Topology:

    actuator.actions (direct)
    ├── actions.requested [routing: requested]
    │       Consumer: actuator-worker
    │       DLQ: dlq.actions
    └── actions.completed [routing: completed]
            Consumer: workflow engine

    actuator.notifications (direct)
    ├── notifications.push [routing: push]
    └── notifications.sms  [routing: sms]
            Consumer: delivery gateways

    actuator.dlq (direct)
    └── dlq.actions [routing: actions]
            Manual processing
  `
}

// RoutingKeyForNotification возвращает routing key канала уведомлений.
func RoutingKeyForNotification(notificationType string) (RoutingKey, bool) {
	switch notificationType {
	case string(RoutingKeyPush):
		return RoutingKeyPush, true
	case string(RoutingKeySMS):
		return RoutingKeySMS, true
	default:
		return "", false
	}
}
