package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
)

// NotificationAction — отправка уведомления (in_app, push, sms) через Notifier.
//
// Details: notification_id, type, recipients, title.
type NotificationAction struct {
	renderer   engine.Renderer
	notifier   Notifier
	recipients *RecipientResolver
	timeout    time.Duration
	now        func() time.Time
}

// NewNotificationAction создаёт NotificationAction.
func NewNotificationAction(deps Deps, settings Settings) *NotificationAction {
	deps = deps.withDefaults()
	settings = settings.withDefaults()
	return &NotificationAction{
		renderer:   deps.Renderer,
		notifier:   deps.Notifier,
		recipients: NewRecipientResolver(deps.Roles),
		timeout:    settings.NotifyTimeout,
		now:        time.Now,
	}
}

// Kind возвращает notification.
func (a *NotificationAction) Kind() domain.ActionKind { return domain.ActionKindNotification }

// Execute рендерит уведомление, определяет получателей и передаёт его в канал.
func (a *NotificationAction) Execute(ctx context.Context, req *Request) domain.ExecutionResult {
	cfg := req.Config.Notification
	if a.notifier == nil {
		return missingDependency(domain.ActionKindNotification, "a notification sink")
	}

	title, err := a.renderer.Render(cfg.TitleTemplate, req.TemplateContext)
	if err != nil {
		return templateError("notification title", err)
	}
	message, err := a.renderer.Render(cfg.MessageTemplate, req.TemplateContext)
	if err != nil {
		return templateError("notification message", err)
	}

	var data map[string]any
	if len(cfg.Data) > 0 {
		rendered, err := engine.RenderValue(a.renderer, cfg.Data, req.TemplateContext)
		if err != nil {
			return templateError("notification data", err)
		}
		data = rendered.(map[string]any)
	}

	recipients, err := a.recipients.Resolve(ctx, cfg.RecipientType, notificationStrategies, cfg.Recipients, req)
	if err != nil {
		return domain.FailureFromError(err, domain.ErrorResolution)
	}
	if len(recipients) == 0 {
		return resolutionError("No recipients specified for notification")
	}

	priority := cfg.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	n := &domain.Notification{
		ID:         uuid.NewString(),
		Type:       cfg.NotificationType,
		Recipients: recipients,
		Title:      title,
		Message:    message,
		Priority:   priority,
		Data:       data,
		InstanceID: req.InstanceID(),
		CreatedAt:  a.now().UTC(),
	}

	sendCtx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.notifier.Dispatch(sendCtx, n); err != nil {
		return transportError("Failed to send %s notification: %v", n.Type, err)
	}

	return domain.Success(
		fmt.Sprintf("Notification sent to %d recipient(s)", len(recipients)),
		map[string]any{
			"notification_id": n.ID,
			"type":            n.Type,
			"recipients":      recipients,
			"title":           title,
		},
	)
}
