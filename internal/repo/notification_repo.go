package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shaiso/Actuator/internal/domain"
)

// NotificationRepo — репозиторий in-app уведомлений.
type NotificationRepo struct {
	db DB
}

// NewNotificationRepo создаёт новый NotificationRepo.
func NewNotificationRepo(db DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create сохраняет уведомление: по строке на каждого получателя, в одной транзакции.
func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	dataJSON, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	query := `
		INSERT INTO workflow_notifications
			(id, notification_id, recipient_id, type, title, message, priority, data, instance_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, recipient := range n.Recipients {
			_, err := tx.Exec(ctx, query,
				uuid.New(),
				n.ID,
				recipient,
				n.Type,
				n.Title,
				n.Message,
				n.Priority,
				dataJSON,
				nullString(n.InstanceID),
				n.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert notification for %s: %w", recipient, err)
			}
		}
		return nil
	})
}

// nullString возвращает nil для пустой строки.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
