package engine

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shaiso/Actuator/internal/domain"
)

// Допустимые HTTP-методы ApiCallAction.
var validMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
	http.MethodHead:   true,
}

// Допустимые стратегии получателей для каждого типа действия.
var (
	emailRecipientTypes = map[domain.RecipientType]bool{
		domain.RecipientStatic:     true,
		domain.RecipientField:      true,
		domain.RecipientExpression: true,
	}
	notificationRecipientTypes = map[domain.RecipientType]bool{
		domain.RecipientUser:       true,
		domain.RecipientRole:       true,
		domain.RecipientExpression: true,
	}
)

// ParseActionConfig парсит JSON в ActionConfig и валидирует результат.
func ParseActionConfig(data []byte) (*domain.ActionConfig, error) {
	var cfg domain.ActionConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse action config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate выполняет проверку ActionConfig до выполнения.
//
// Проверяет только структуру: обязательные ключи, допустимые значения
// перечислений и стратегий получателей. Шаблоны не рендерятся.
func Validate(cfg *domain.ActionConfig) error {
	if cfg == nil {
		return NewValidationError("", "kind", "action config is nil", ErrMissingConfig)
	}

	switch cfg.Kind {
	case domain.ActionKindEmail:
		if cfg.Email == nil {
			return missingConfig(cfg)
		}
		return validateEmail(cfg.ID, cfg.Email)
	case domain.ActionKindAPI:
		if cfg.API == nil {
			return missingConfig(cfg)
		}
		return validateAPI(cfg.ID, cfg.API)
	case domain.ActionKindUpdate:
		if cfg.Update == nil {
			return missingConfig(cfg)
		}
		return validateUpdate(cfg.ID, cfg.Update)
	case domain.ActionKindFunction:
		if cfg.Function == nil {
			return missingConfig(cfg)
		}
		return validateFunction(cfg.ID, cfg.Function)
	case domain.ActionKindNotification:
		if cfg.Notification == nil {
			return missingConfig(cfg)
		}
		return validateNotification(cfg.ID, cfg.Notification)
	default:
		return NewValidationError(cfg.ID, "kind",
			fmt.Sprintf("Unsupported action type: %s", cfg.Kind), ErrUnknownActionKind)
	}
}

func missingConfig(cfg *domain.ActionConfig) error {
	return NewValidationError(cfg.ID, "config",
		fmt.Sprintf("%s action has no config", cfg.Kind), ErrMissingConfig)
}

func required(actionID, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(actionID, field,
			fmt.Sprintf("%s is required", field), ErrMissingField)
	}
	return nil
}

func validateEmail(id string, c *domain.EmailConfig) error {
	if err := required(id, "subject_template", c.SubjectTemplate); err != nil {
		return err
	}
	if err := required(id, "recipient_type", string(c.RecipientType)); err != nil {
		return err
	}
	if !emailRecipientTypes[c.RecipientType] {
		return NewValidationError(id, "recipient_type",
			fmt.Sprintf("Unsupported recipient type: %s", c.RecipientType), ErrInvalidValue)
	}
	if c.RecipientType != domain.RecipientStatic && c.Recipients.First() == "" {
		return NewValidationError(id, "recipients",
			fmt.Sprintf("recipients is required for recipient type %s", c.RecipientType), ErrMissingField)
	}
	return nil
}

func validateAPI(id string, c *domain.APICallConfig) error {
	if err := required(id, "method", c.Method); err != nil {
		return err
	}
	if !validMethods[strings.ToUpper(c.Method)] {
		return NewValidationError(id, "method",
			fmt.Sprintf("Unsupported HTTP method: %s", c.Method), ErrInvalidValue)
	}
	if err := required(id, "url_template", c.URLTemplate); err != nil {
		return err
	}

	switch c.AuthType {
	case "", domain.AuthNone, domain.AuthBasic:
	default:
		return NewValidationError(id, "auth_type",
			fmt.Sprintf("Unsupported auth type: %s", c.AuthType), ErrInvalidValue)
	}

	if c.Timeout < 0 {
		return NewValidationError(id, "timeout", "timeout must not be negative", ErrInvalidValue)
	}

	for _, code := range c.SuccessCodes {
		if code < 100 || code > 599 {
			return NewValidationError(id, "success_codes",
				fmt.Sprintf("invalid status code: %d", code), ErrInvalidValue)
		}
	}
	return nil
}

func validateUpdate(id string, c *domain.UpdateConfig) error {
	if len(c.Fields) == 0 {
		return NewValidationError(id, "fields", "fields is required", ErrMissingField)
	}

	switch c.TargetType {
	case domain.TargetSelf:
		return nil
	case domain.TargetRelated:
		return required(id, "related_object_path", c.RelatedObjectPath)
	case domain.TargetModel:
		if err := required(id, "model_app_label", c.ModelAppLabel); err != nil {
			return err
		}
		if err := required(id, "model_name", c.ModelName); err != nil {
			return err
		}
		if err := required(id, "object_id_field", c.ObjectIDField); err != nil {
			return err
		}
		if c.ObjectID == nil || c.ObjectID == "" {
			return NewValidationError(id, "object_id", "object_id is required", ErrMissingField)
		}
		return nil
	case "":
		return NewValidationError(id, "target_type", "target_type is required", ErrMissingField)
	default:
		return NewValidationError(id, "target_type",
			fmt.Sprintf("Unsupported target type: %s", c.TargetType), ErrInvalidValue)
	}
}

func validateFunction(id string, c *domain.FunctionConfig) error {
	return required(id, "function_path", c.FunctionPath)
}

func validateNotification(id string, c *domain.NotificationConfig) error {
	if err := required(id, "notification_type", string(c.NotificationType)); err != nil {
		return err
	}
	if !c.NotificationType.IsValid() {
		return NewValidationError(id, "notification_type",
			fmt.Sprintf("Unsupported notification type: %s", c.NotificationType), ErrInvalidValue)
	}
	if err := required(id, "title_template", c.TitleTemplate); err != nil {
		return err
	}
	if err := required(id, "message_template", c.MessageTemplate); err != nil {
		return err
	}
	if err := required(id, "recipient_type", string(c.RecipientType)); err != nil {
		return err
	}
	if !notificationRecipientTypes[c.RecipientType] {
		return NewValidationError(id, "recipient_type",
			fmt.Sprintf("Unsupported recipient type: %s", c.RecipientType), ErrInvalidValue)
	}
	if c.Priority != "" && !c.Priority.IsValid() {
		return NewValidationError(id, "priority",
			fmt.Sprintf("Unsupported priority: %s", c.Priority), ErrInvalidValue)
	}
	return nil
}
