package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Actuator/internal/domain"
)

func notificationConfig(recipientType domain.RecipientType, recipients ...string) *domain.ActionConfig {
	return &domain.ActionConfig{
		ID:   "notify",
		Kind: domain.ActionKindNotification,
		Notification: &domain.NotificationConfig{
			NotificationType: domain.NotificationInApp,
			TitleTemplate:    "Order {{ object.number }}",
			MessageTemplate:  "Approved by {{ user.username }}",
			RecipientType:    recipientType,
			Recipients:       recipients,
			Data:             map[string]any{"order": "{{ object.id }}", "step": 2},
		},
	}
}

func TestNotificationAction_Users(t *testing.T) {
	notifier := &fakeNotifier{}
	d := New(Deps{Notifier: notifier}, DefaultSettings(), nil)

	result := d.Execute(context.Background(), notificationConfig(domain.RecipientUser, "1", "2", "1"), testInstance(), nil)

	require.Equal(t, domain.ResultSuccess, result.Status, result.Message)
	require.Len(t, notifier.sent, 1)

	n := notifier.sent[0]
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, domain.NotificationInApp, n.Type)
	assert.Equal(t, []string{"1", "2"}, n.Recipients)
	assert.Equal(t, "Order A-42", n.Title)
	assert.Equal(t, "Approved by alice", n.Message)
	assert.Equal(t, domain.PriorityMedium, n.Priority)
	assert.Equal(t, map[string]any{"order": "42", "step": 2}, n.Data)
	assert.Equal(t, "inst-1", n.InstanceID)
	assert.Equal(t, n.ID, result.Details["notification_id"])
}

func TestNotificationAction_Roles(t *testing.T) {
	notifier := &fakeNotifier{}
	roles := fakeRoles{"managers": {"10", "11"}, "auditors": {"11", "12"}}
	d := New(Deps{Notifier: notifier, Roles: roles}, DefaultSettings(), nil)

	cfg := notificationConfig(domain.RecipientRole, "managers", "auditors")
	cfg.Notification.Priority = domain.PriorityHigh

	result := d.Execute(context.Background(), cfg, testInstance(), nil)

	require.Equal(t, domain.ResultSuccess, result.Status, result.Message)
	assert.Equal(t, []string{"10", "11", "12"}, notifier.sent[0].Recipients)
	assert.Equal(t, domain.PriorityHigh, notifier.sent[0].Priority)
}

func TestNotificationAction_RolesWithoutDirectory(t *testing.T) {
	d := New(Deps{Notifier: &fakeNotifier{}}, DefaultSettings(), nil)

	result := d.Execute(context.Background(), notificationConfig(domain.RecipientRole, "managers"), testInstance(), nil)

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Equal(t, domain.ErrorConfiguration, result.ErrorKind)
}

func TestNotificationAction_Expression(t *testing.T) {
	notifier := &fakeNotifier{}
	d := New(Deps{Notifier: notifier}, DefaultSettings(), nil)

	result := d.Execute(context.Background(), notificationConfig(domain.RecipientExpression, "[user.id, '99']"), testInstance(), nil)

	require.Equal(t, domain.ResultSuccess, result.Status, result.Message)
	assert.Equal(t, []string{"7", "99"}, notifier.sent[0].Recipients)
}

func TestNotificationAction_NoRecipients(t *testing.T) {
	notifier := &fakeNotifier{}
	d := New(Deps{Notifier: notifier}, DefaultSettings(), nil)

	result := d.Execute(context.Background(), notificationConfig(domain.RecipientUser), testInstance(), nil)

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Equal(t, domain.ErrorResolution, result.ErrorKind)
	assert.Contains(t, result.Message, "recipients")
	assert.Empty(t, notifier.sent)
}

func TestNotificationAction_SinkError(t *testing.T) {
	d := New(Deps{Notifier: &fakeNotifier{err: errors.New("broker down")}}, DefaultSettings(), nil)

	result := d.Execute(context.Background(), notificationConfig(domain.RecipientUser, "1"), testInstance(), nil)

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Equal(t, domain.ErrorTransport, result.ErrorKind)
	assert.Contains(t, result.Message, "broker down")
}
