package domain

import (
	"encoding/json"
	"fmt"
)

// ActionConfig — декларативная конфигурация действия.
//
// Тегирован полем Kind; заполнен ровно один из указателей на
// конфигурацию конкретного типа. Движок никогда не изменяет ActionConfig.
//
// JSON-формат:
//
//	{"id": "notify", "name": "Notify customer", "kind": "email", "config": {...}}
type ActionConfig struct {
	// ID — идентификатор действия в определении workflow.
	ID string

	// Name — человекочитаемое имя.
	Name string

	// Kind — тип действия.
	Kind ActionKind

	Email        *EmailConfig
	API          *APICallConfig
	Update       *UpdateConfig
	Function     *FunctionConfig
	Notification *NotificationConfig

	// Raw — исходная конфигурация (сохраняется для неизвестных типов).
	Raw json.RawMessage
}

// actionConfigJSON — форма ActionConfig на проводе.
type actionConfigJSON struct {
	ID     string          `json:"id,omitempty"`
	Name   string          `json:"name,omitempty"`
	Kind   ActionKind      `json:"kind"`
	Config json.RawMessage `json:"config,omitempty"`
}

// UnmarshalJSON разбирает конфигурацию в структуру, соответствующую Kind.
func (a *ActionConfig) UnmarshalJSON(data []byte) error {
	var wire actionConfigJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*a = ActionConfig{
		ID:   wire.ID,
		Name: wire.Name,
		Kind: wire.Kind,
		Raw:  wire.Config,
	}

	if len(wire.Config) == 0 || string(wire.Config) == "null" {
		return nil
	}

	var target any
	switch wire.Kind {
	case ActionKindEmail:
		a.Email = &EmailConfig{}
		target = a.Email
	case ActionKindAPI:
		a.API = &APICallConfig{}
		target = a.API
	case ActionKindUpdate:
		a.Update = &UpdateConfig{}
		target = a.Update
	case ActionKindFunction:
		a.Function = &FunctionConfig{}
		target = a.Function
	case ActionKindNotification:
		a.Notification = &NotificationConfig{}
		target = a.Notification
	default:
		// Неизвестный тип: оставляем Raw, диспетчер вернёт ошибку.
		return nil
	}

	if err := DecodeJSON(wire.Config, target); err != nil {
		return fmt.Errorf("decode %s config: %w", wire.Kind, err)
	}
	a.normalize()
	return nil
}

// normalize приводит числа в произвольных значениях конфигурации к int64/float64.
func (a *ActionConfig) normalize() {
	switch {
	case a.Update != nil:
		a.Update.ObjectID = NormalizeNumbers(a.Update.ObjectID)
		a.Update.Fields = NormalizeMap(a.Update.Fields)
	case a.Function != nil:
		if a.Function.Args != nil {
			a.Function.Args = NormalizeNumbers(a.Function.Args).([]any)
		}
		a.Function.Kwargs = NormalizeMap(a.Function.Kwargs)
	case a.Notification != nil:
		a.Notification.Data = NormalizeMap(a.Notification.Data)
	}
}

// MarshalJSON сериализует конфигурацию в формат {"kind", "config"}.
func (a ActionConfig) MarshalJSON() ([]byte, error) {
	var cfg any
	switch {
	case a.Email != nil:
		cfg = a.Email
	case a.API != nil:
		cfg = a.API
	case a.Update != nil:
		cfg = a.Update
	case a.Function != nil:
		cfg = a.Function
	case a.Notification != nil:
		cfg = a.Notification
	}

	wire := actionConfigJSON{ID: a.ID, Name: a.Name, Kind: a.Kind, Config: a.Raw}
	if cfg != nil {
		raw, err := json.Marshal(cfg)
		if err != nil {
			return nil, err
		}
		wire.Config = raw
	}
	return json.Marshal(wire)
}

// EmailConfig — конфигурация EmailAction.
type EmailConfig struct {
	SubjectTemplate string        `json:"subject_template"`
	BodyTemplate    string        `json:"body_template"`
	FromEmail       string        `json:"from_email,omitempty"`
	RecipientType   RecipientType `json:"recipient_type"`

	// Recipients — список адресов (static), имя поля (field)
	// или выражение (expression).
	Recipients StringList `json:"recipients"`

	CC        []string `json:"cc,omitempty"`
	BCC       []string `json:"bcc,omitempty"`
	HTMLEmail bool     `json:"html_email,omitempty"`
}

// APICallConfig — конфигурация ApiCallAction.
type APICallConfig struct {
	Method          string            `json:"method"`
	URLTemplate     string            `json:"url_template"`
	Headers         map[string]string `json:"headers,omitempty"`
	BodyTemplate    string            `json:"body_template,omitempty"`
	AuthType        AuthType          `json:"auth_type,omitempty"`
	AuthCredentials map[string]string `json:"auth_credentials,omitempty"`

	// Timeout — таймаут запроса в секундах. 0 — значение по умолчанию.
	Timeout float64 `json:"timeout,omitempty"`

	// SuccessCodes — коды ответа, считающиеся успехом.
	// Пустой список — {200, 201, 202, 204}.
	SuccessCodes []int `json:"success_codes,omitempty"`
}

// UpdateConfig — конфигурация UpdateAction.
type UpdateConfig struct {
	TargetType        TargetType `json:"target_type"`
	RelatedObjectPath string     `json:"related_object_path,omitempty"`
	ModelAppLabel     string     `json:"model_app_label,omitempty"`
	ModelName         string     `json:"model_name,omitempty"`
	ObjectIDField     string     `json:"object_id_field,omitempty"`

	// ObjectID — значение для поиска; строка рендерится как шаблон.
	ObjectID any `json:"object_id,omitempty"`

	// Fields — новые значения полей: литерал, строка-шаблон
	// или {"type": "expression", "value": "<шаблон>"}.
	Fields map[string]any `json:"fields"`
}

// FunctionConfig — конфигурация FunctionAction.
type FunctionConfig struct {
	FunctionPath string         `json:"function_path"`
	Args         []any          `json:"args,omitempty"`
	Kwargs       map[string]any `json:"kwargs,omitempty"`
}

// NotificationConfig — конфигурация NotificationAction.
type NotificationConfig struct {
	NotificationType NotificationType `json:"notification_type"`
	TitleTemplate    string           `json:"title_template"`
	MessageTemplate  string           `json:"message_template"`
	RecipientType    RecipientType    `json:"recipient_type"`
	Recipients       StringList       `json:"recipients"`
	Priority         Priority         `json:"priority,omitempty"`
	Data             map[string]any   `json:"data,omitempty"`
}

// StringList — список строк, который в JSON может быть строкой или массивом.
//
// Числа внутри массива приводятся к строке (ID пользователей часто числовые).
type StringList []string

// UnmarshalJSON принимает "a", ["a", "b"], [1, 2] и null.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := DecodeJSON(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*l = nil
	case string:
		*l = StringList{v}
	case []any:
		out := make(StringList, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case json.Number:
				out = append(out, s.String())
			default:
				return fmt.Errorf("recipients: unsupported element %T", item)
			}
		}
		*l = out
	default:
		return fmt.Errorf("recipients: expected string or list, got %T", raw)
	}
	return nil
}

// First возвращает первый элемент или пустую строку.
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}
