package worker

import (
	"context"
	"fmt"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/mq"
	"github.com/shaiso/Actuator/internal/telemetry"
)

// handleActionRequested выполняет одно действие из очереди actions.requested.
//
// Некорректный запрос отклоняется без повтора (уходит в DLQ).
// Результат действия, в том числе error, сообщение подтверждает:
// повторять действия воркер не должен.
func (w *Worker) handleActionRequested(ctx context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.ActionRequestedPayload](&delivery.Message)
	if err != nil {
		return err
	}
	if payload.Config == nil {
		return fmt.Errorf("%w: %w: config is missing", mq.ErrPermanent, ErrInvalidRequest)
	}

	requestID := payload.RequestID
	if requestID == "" {
		requestID = delivery.Message.ID
	}

	logger := telemetry.WithRequestID(w.logger, requestID)
	logger.Debug("action requested", "kind", payload.Config.Kind, "action_id", payload.Config.ID)

	extra := domain.NormalizeMap(payload.Extra)
	result := w.executor.Execute(ctx, payload.Config, payload.Instance, extra)

	completed := mq.ActionCompletedPayload{
		RequestID: requestID,
		ActionID:  payload.Config.ID,
		Kind:      payload.Config.Kind,
		Result:    result,
	}
	if payload.Instance != nil {
		completed.InstanceID = payload.Instance.ID
	}

	logger.Info("action executed",
		"kind", completed.Kind,
		"instance_id", completed.InstanceID,
		"status", result.Status,
	)

	if w.publisher == nil {
		return nil
	}
	if err := w.publisher.PublishActionCompleted(ctx, completed); err != nil {
		// Действие уже выполнено, повтор приведёт к повторному побочному эффекту.
		logger.Error("failed to publish action.completed", "error", err)
	}
	return nil
}
