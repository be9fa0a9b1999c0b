package domain

// ActionKind — тип действия (тег ActionConfig).
//
// Множество закрыто: email, api, update, function, notification.
// Любое другое значение диспетчер отклоняет как неподдерживаемое.
type ActionKind string

const (
	// ActionKindEmail — отправка письма.
	ActionKindEmail ActionKind = "email"

	// ActionKindAPI — вызов внешнего HTTP API.
	ActionKindAPI ActionKind = "api"

	// ActionKindUpdate — транзакционное изменение записи в БД.
	ActionKindUpdate ActionKind = "update"

	// ActionKindFunction — вызов зарегистрированной функции.
	ActionKindFunction ActionKind = "function"

	// ActionKindNotification — отправка уведомления (in_app, push, sms).
	ActionKindNotification ActionKind = "notification"
)

// ActionKinds возвращает все известные типы действий.
func ActionKinds() []ActionKind {
	return []ActionKind{
		ActionKindEmail,
		ActionKindAPI,
		ActionKindUpdate,
		ActionKindFunction,
		ActionKindNotification,
	}
}

// IsKnown возвращает true, если тип входит в закрытое множество.
func (k ActionKind) IsKnown() bool {
	switch k {
	case ActionKindEmail, ActionKindAPI, ActionKindUpdate, ActionKindFunction, ActionKindNotification:
		return true
	default:
		return false
	}
}

// ResultStatus — итоговый статус выполнения действия.
type ResultStatus string

const (
	// ResultSuccess — побочный эффект выполнен.
	ResultSuccess ResultStatus = "success"

	// ResultError — действие не выполнено.
	ResultError ResultStatus = "error"

	// ResultWarning — действие выполнено частично (например, часть адресов отброшена).
	ResultWarning ResultStatus = "warning"
)

// RecipientType — стратегия определения получателей.
type RecipientType string

const (
	// RecipientStatic — список адресов берётся из конфигурации как есть.
	RecipientStatic RecipientType = "static"

	// RecipientField — адреса читаются из поля целевого объекта.
	RecipientField RecipientType = "field"

	// RecipientExpression — адреса вычисляются выражением над контекстом.
	RecipientExpression RecipientType = "expression"

	// RecipientUser — список ID пользователей из конфигурации.
	RecipientUser RecipientType = "user"

	// RecipientRole — все пользователи с указанными ролями.
	RecipientRole RecipientType = "role"
)

// TargetType — способ найти объект для UpdateAction.
type TargetType string

const (
	// TargetSelf — целевой объект workflow instance.
	TargetSelf TargetType = "self"

	// TargetRelated — объект по цепочке атрибутов от целевого.
	TargetRelated TargetType = "related"

	// TargetModel — объект по (app label, model, поле, значение).
	TargetModel TargetType = "model"
)

// NotificationType — канал уведомления.
type NotificationType string

const (
	NotificationInApp NotificationType = "in_app"
	NotificationPush  NotificationType = "push"
	NotificationSMS   NotificationType = "sms"
)

// IsValid проверяет, что канал известен.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationInApp, NotificationPush, NotificationSMS:
		return true
	default:
		return false
	}
}

// Priority — приоритет уведомления.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid проверяет, что приоритет известен.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// AuthType — схема аутентификации для ApiCallAction.
type AuthType string

const (
	AuthNone  AuthType = "none"
	AuthBasic AuthType = "basic"
)
