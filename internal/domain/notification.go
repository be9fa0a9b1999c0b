package domain

import "time"

// Notification — уведомление, переданное каналу доставки.
type Notification struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	Recipients []string         `json:"recipients"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Priority   Priority         `json:"priority"`
	Data       map[string]any   `json:"data,omitempty"`

	// InstanceID — экземпляр workflow, породивший уведомление (может быть пустым).
	InstanceID string    `json:"instance_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
