package actions

import (
	"context"
	"net/http"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/functions"
)

// Request — всё, что нужно Handler для одного выполнения.
type Request struct {
	// Config — конфигурация действия (только чтение).
	Config *domain.ActionConfig

	// Instance — экземпляр workflow (может быть nil).
	Instance *domain.WorkflowInstance

	// TemplateContext — контекст шаблонов, собранный Dispatcher.
	TemplateContext map[string]any
}

// Target возвращает целевой объект экземпляра или nil.
func (r *Request) Target() *domain.Object {
	if r.Instance == nil {
		return nil
	}
	return r.Instance.Target
}

// InstanceID возвращает ID экземпляра или пустую строку.
func (r *Request) InstanceID() string {
	if r.Instance == nil {
		return ""
	}
	return r.Instance.ID
}

// Handler — реализация одного типа действия.
//
// Execute обязан вернуть результат на любом пути выполнения;
// паники перехватывает Dispatcher.
type Handler interface {
	Kind() domain.ActionKind
	Execute(ctx context.Context, req *Request) domain.ExecutionResult
}

// HTTPDoer — HTTP-клиент ApiCallAction (*http.Client).
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ObjectStore — доступ к доменным объектам для UpdateAction.
type ObjectStore interface {
	// GetByKey ищет объект app.model, у которого field = value.
	GetByKey(ctx context.Context, app, model, field string, value any) (*domain.Object, error)

	// Reload перечитывает объект по его первичному ключу.
	Reload(ctx context.Context, obj *domain.Object) (*domain.Object, error)

	// Related загружает объект по внешнему ключу field.
	Related(ctx context.Context, obj *domain.Object, field string) (*domain.Object, error)

	// SaveInTransaction атомарно записывает изменённые поля и журнал изменений.
	SaveInTransaction(ctx context.Context, obj *domain.Object, changes []domain.ChangeRecord) error
}

// FunctionResolver — реестр функций FunctionAction.
type FunctionResolver interface {
	Resolve(name string) (functions.Func, error)
}

// Notifier — канал доставки уведомлений.
type Notifier interface {
	Dispatch(ctx context.Context, n *domain.Notification) error
}

// RoleDirectory — поиск пользователей по ролям.
type RoleDirectory interface {
	UsersWithRoles(ctx context.Context, roles []string) ([]string, error)
}
