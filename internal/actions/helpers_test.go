package actions

import (
	"context"
	"errors"
	"sync"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/mail"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeNotifier struct {
	sent []*domain.Notification
	err  error
}

func (n *fakeNotifier) Dispatch(_ context.Context, notification *domain.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification)
	return nil
}

type fakeRoles map[string][]string

func (r fakeRoles) UsersWithRoles(_ context.Context, roles []string) ([]string, error) {
	var out []string
	for _, role := range roles {
		users, ok := r[role]
		if !ok {
			return nil, errors.New("unknown role " + role)
		}
		out = append(out, users...)
	}
	return out, nil
}

// testInstance — экземпляр workflow над заказом shop.order#42.
func testInstance() *domain.WorkflowInstance {
	return &domain.WorkflowInstance{
		ID:       "inst-1",
		Status:   "active",
		Workflow: domain.Workflow{ID: "wf-1", Name: "Order fulfilment"},
		User:     &domain.User{ID: "7", Username: "alice", Email: "alice@example.com"},
		Target: &domain.Object{
			App:   "shop",
			Model: "order",
			PK:    42,
			Fields: map[string]any{
				"status":         "pending",
				"number":         "A-42",
				"customer_email": "bob@example.com",
				"watchers":       []any{"carol@example.com", "dave@example.com"},
				"customer_id":    7,
			},
		},
	}
}

func emailConfig(recipientType domain.RecipientType, recipients ...string) *domain.ActionConfig {
	return &domain.ActionConfig{
		ID:   "send-mail",
		Kind: domain.ActionKindEmail,
		Email: &domain.EmailConfig{
			SubjectTemplate: "Order {{ object.id }} shipped",
			BodyTemplate:    "Hello {{ user.username }}",
			RecipientType:   recipientType,
			Recipients:      recipients,
		},
	}
}
