package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Actuator/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeActionRequested MessageType = "action.requested"
	MessageTypeActionCompleted MessageType = "action.completed"
	MessageTypeNotification    MessageType = "notification"
)

// Message — конверт любого сообщения.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка (при чтении — map[string]any с json.Number).
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// ActionRequestedPayload — запрос на выполнение действия.
type ActionRequestedPayload struct {
	RequestID string                   `json:"request_id"`
	Config    *domain.ActionConfig     `json:"config"`
	Instance  *domain.WorkflowInstance `json:"instance"`
	Extra     map[string]any           `json:"extra,omitempty"`
}

// ActionCompletedPayload — результат выполнения действия.
type ActionCompletedPayload struct {
	RequestID  string                 `json:"request_id"`
	InstanceID string                 `json:"instance_id,omitempty"`
	ActionID   string                 `json:"action_id,omitempty"`
	Kind       domain.ActionKind      `json:"kind"`
	Result     domain.ExecutionResult `json:"result"`
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(ctx,
			string(exchange),
			string(routingKey),
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishJSON оборачивает payload в Message и публикует его.
func (p *Publisher) PublishJSON(ctx context.Context, exchange Exchange, routingKey RoutingKey, msgType MessageType, payload any) error {
	return p.Publish(ctx, exchange, routingKey, NewMessage(msgType, payload))
}

// PublishActionRequested ставит действие в очередь на выполнение.
// Потребитель: actuator-worker.
func (p *Publisher) PublishActionRequested(ctx context.Context, payload ActionRequestedPayload) error {
	return p.PublishJSON(ctx, ExchangeActions, RoutingKeyRequested, MessageTypeActionRequested, payload)
}

// PublishActionCompleted публикует результат выполнения действия.
// Потребитель: движок workflow.
func (p *Publisher) PublishActionCompleted(ctx context.Context, payload ActionCompletedPayload) error {
	return p.PublishJSON(ctx, ExchangeActions, RoutingKeyCompleted, MessageTypeActionCompleted, payload)
}

// PublishNotification публикует уведомление в канал push или sms.
func (p *Publisher) PublishNotification(ctx context.Context, n *domain.Notification) error {
	key, ok := RoutingKeyForNotification(string(n.Type))
	if !ok {
		return fmt.Errorf("no queue for notification type %s", n.Type)
	}
	return p.PublishJSON(ctx, ExchangeNotifications, key, MessageTypeNotification, n)
}

// NewMessage создаёт конверт с новым ID.
func NewMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}
