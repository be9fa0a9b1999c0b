package domain

import (
	"fmt"
	"maps"
	"time"
)

// WorkflowInstance — read-only представление экземпляра workflow,
// которое передаёт вызывающая сторона (движок состояний).
type WorkflowInstance struct {
	// ID — идентификатор экземпляра.
	ID string `json:"id"`

	// Status — текущий статус экземпляра.
	Status string `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Data — накопленные данные экземпляра (произвольный JSON).
	Data map[string]any `json:"data,omitempty"`

	// Workflow — определение, к которому относится экземпляр.
	Workflow Workflow `json:"workflow"`

	// CurrentStep — текущий шаг (nil, если шаг не выбран).
	CurrentStep *Step `json:"current_step,omitempty"`

	// User — пользователь, инициировавший переход (nil для системных переходов).
	User *User `json:"user,omitempty"`

	// Target — объект, над которым работает workflow (например, заказ).
	Target *Object `json:"target,omitempty"`
}

// Workflow — определение workflow.
type Workflow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Step — шаг workflow.
type Step struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User — действующий пользователь.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	DateJoined  time.Time `json:"date_joined"`
}

// Object — обобщённая доменная сущность: (app label, model, pk) + значения полей.
//
// Значением поля может быть вложенный *Object или map[string]any —
// так передаются заранее загруженные связанные объекты.
type Object struct {
	App    string         `json:"app"`
	Model  string         `json:"model"`
	PK     any            `json:"id"`
	Fields map[string]any `json:"fields,omitempty"`
}

// ObjectRef — ссылка на объект без значений полей.
type ObjectRef struct {
	App   string `json:"app"`
	Model string `json:"model"`
	PK    any    `json:"id"`
}

// Ref возвращает ссылку на объект.
func (o *Object) Ref() ObjectRef {
	return ObjectRef{App: o.App, Model: o.Model, PK: o.PK}
}

// Label возвращает "app.model" (как model label в Django).
func (o *Object) Label() string {
	return o.App + "." + o.Model
}

// String возвращает "app.model#pk".
func (o *Object) String() string {
	return fmt.Sprintf("%s#%v", o.Label(), o.PK)
}

// Get возвращает значение атрибута.
// "pk" и "id" без явного поля возвращают первичный ключ.
func (o *Object) Get(name string) (any, bool) {
	if v, ok := o.Fields[name]; ok {
		return v, true
	}
	if name == "pk" || name == "id" {
		return o.PK, o.PK != nil
	}
	return nil, false
}

// Set устанавливает значение поля.
func (o *Object) Set(name string, value any) {
	if o.Fields == nil {
		o.Fields = make(map[string]any)
	}
	o.Fields[name] = value
}

// Clone возвращает копию объекта с собственной картой полей.
// Вложенные объекты не копируются.
func (o *Object) Clone() *Object {
	clone := *o
	clone.Fields = maps.Clone(o.Fields)
	if clone.Fields == nil {
		clone.Fields = make(map[string]any)
	}
	return &clone
}

// ObjectFromMap строит Object из вложенной карты (связанный объект,
// переданный как JSON). Ключи "app", "model", "id" трактуются как мета-данные,
// остальные — как поля.
func ObjectFromMap(m map[string]any) *Object {
	obj := &Object{Fields: make(map[string]any, len(m))}
	for k, v := range m {
		switch k {
		case "app":
			obj.App, _ = v.(string)
		case "model":
			obj.Model, _ = v.(string)
		case "id", "pk":
			obj.PK = v
		case "fields":
			if fields, ok := v.(map[string]any); ok {
				maps.Copy(obj.Fields, fields)
			}
		default:
			obj.Fields[k] = v
		}
	}
	return obj
}

// UnmarshalJSON разбирает экземпляр; числа в Data становятся int64/float64.
func (w *WorkflowInstance) UnmarshalJSON(data []byte) error {
	type plain WorkflowInstance
	var p plain
	if err := DecodeJSON(data, &p); err != nil {
		return err
	}
	p.Data = NormalizeMap(p.Data)
	*w = WorkflowInstance(p)
	return nil
}

// UnmarshalJSON разбирает объект; PK и значения полей проходят NormalizeNumbers.
func (o *Object) UnmarshalJSON(data []byte) error {
	type plain Object
	var p plain
	if err := DecodeJSON(data, &p); err != nil {
		return err
	}
	p.PK = NormalizeNumbers(p.PK)
	p.Fields = NormalizeMap(p.Fields)
	*o = Object(p)
	return nil
}
