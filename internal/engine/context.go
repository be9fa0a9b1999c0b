package engine

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/shaiso/Actuator/internal/domain"
)

// Разделы контекста шаблонов.
const (
	SectionWorkflow = "workflow"
	SectionInstance = "instance"
	SectionStep     = "step"
	SectionUser     = "user"
	SectionObject   = "object"
)

// ContextBuilder собирает контекст шаблонов из экземпляра workflow.
//
// Контекст строится заново при каждом выполнении и не кэшируется:
// данные объекта могут измениться между действиями одного перехода.
type ContextBuilder struct{}

// NewContextBuilder создаёт ContextBuilder.
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{}
}

// Build возвращает контекст с разделами workflow, instance, step, user, object.
//
// extra подмешивается последним и может перекрыть любой ключ верхнего уровня:
// явно переданный контекст важнее вычисленного.
func (b *ContextBuilder) Build(inst *domain.WorkflowInstance, extra map[string]any) map[string]any {
	ctx := map[string]any{
		SectionWorkflow: nil,
		SectionInstance: nil,
		SectionStep:     stepSection(nil),
		SectionUser:     nil,
		SectionObject:   nil,
	}

	if inst != nil {
		ctx[SectionWorkflow] = map[string]any{
			"id":          inst.Workflow.ID,
			"name":        inst.Workflow.Name,
			"description": inst.Workflow.Description,
		}
		ctx[SectionInstance] = map[string]any{
			"id":         inst.ID,
			"status":     inst.Status,
			"created_at": inst.CreatedAt,
			"updated_at": inst.UpdatedAt,
			"data":       inst.Data,
		}
		ctx[SectionStep] = stepSection(inst.CurrentStep)
		if inst.User != nil {
			ctx[SectionUser] = userSection(inst.User)
		}
		if inst.Target != nil {
			ctx[SectionObject] = objectSection(inst.Target)
		}
	}

	maps.Copy(ctx, extra)
	return ctx
}

func stepSection(step *domain.Step) map[string]any {
	if step == nil {
		return map[string]any{"id": nil, "name": nil, "description": nil}
	}
	return map[string]any{
		"id":          step.ID,
		"name":        step.Name,
		"description": step.Description,
	}
}

func userSection(u *domain.User) map[string]any {
	return map[string]any{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"is_staff":     u.IsStaff,
		"is_superuser": u.IsSuperuser,
		"date_joined":  u.DateJoined,
	}
}

// objectSection — id/model/app плюс все скалярные поля объекта.
func objectSection(obj *domain.Object) map[string]any {
	section := make(map[string]any, len(obj.Fields)+3)
	section["id"] = obj.PK
	section["model"] = obj.Model
	section["app"] = obj.App
	for name, value := range obj.Fields {
		if isScalar(value) {
			section[name] = value
		}
	}
	return section
}

// isScalar — значение поля, которое попадает в раздел object.
// Связанные объекты, карты и списки пропускаются.
func isScalar(v any) bool {
	switch v.(type) {
	case *domain.Object, map[string]any, []any:
		return false
	case nil, string, bool, json.Number, time.Time, *time.Time, fmt.Stringer:
		return true
	}
	kind := reflect.ValueOf(v).Kind()
	return (kind >= reflect.Bool && kind <= reflect.Complex128) || kind == reflect.String
}
