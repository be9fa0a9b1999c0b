package actions

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
	"github.com/shaiso/Actuator/internal/repo"
)

// UpdateAction — атомарное изменение полей объекта.
//
// Объект вызывающей стороны не изменяется и не служит источником
// старых значений: цель перечитывается из хранилища, новые значения
// вычисляются на копии и записываются одним вызовом SaveInTransaction.
//
// Details: changes ([]domain.ChangeRecord), object (ссылка на объект).
type UpdateAction struct {
	renderer engine.Renderer
	store    ObjectStore
	timeout  time.Duration
}

// NewUpdateAction создаёт UpdateAction.
func NewUpdateAction(deps Deps, settings Settings) *UpdateAction {
	deps = deps.withDefaults()
	settings = settings.withDefaults()
	return &UpdateAction{
		renderer: deps.Renderer,
		store:    deps.Store,
		timeout:  settings.DBTimeout,
	}
}

// Kind возвращает update.
func (a *UpdateAction) Kind() domain.ActionKind { return domain.ActionKindUpdate }

// Execute находит объект, вычисляет новые значения и сохраняет их.
func (a *UpdateAction) Execute(ctx context.Context, req *Request) domain.ExecutionResult {
	cfg := req.Config.Update
	if a.store == nil {
		return missingDependency(domain.ActionKindUpdate, "an object store")
	}

	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	target, err := a.resolveTarget(ctx, cfg, req)
	if err != nil {
		return domain.FailureFromError(err, domain.ErrorResolution)
	}

	updated := target.Clone()
	changes := make([]domain.ChangeRecord, 0, len(cfg.Fields))
	for _, field := range sortedKeys(cfg.Fields) {
		value, err := a.fieldValue(cfg.Fields[field], req.TemplateContext)
		if err != nil {
			return templateError(fmt.Sprintf("field %s", field), err)
		}
		old, _ := target.Get(field)
		changes = append(changes, domain.ChangeRecord{Field: field, Old: old, New: value})
		updated.Set(field, value)
	}

	if err := a.store.SaveInTransaction(ctx, updated, changes); err != nil {
		return domain.Failure(domain.ErrorPersistence, fmt.Sprintf("Failed to update %s: %v", target, err))
	}

	return domain.Success(
		fmt.Sprintf("Updated %d field(s) on %s", len(changes), target),
		map[string]any{
			"changes": changes,
			"object":  target.Ref(),
		},
	)
}

// resolveTarget находит объект для изменения.
func (a *UpdateAction) resolveTarget(ctx context.Context, cfg *domain.UpdateConfig, req *Request) (*domain.Object, error) {
	switch cfg.TargetType {
	case domain.TargetSelf:
		if target := req.Target(); target != nil {
			return a.reload(ctx, target)
		}
		return nil, domain.NewActionError(domain.ErrorResolution, "Workflow instance has no target object", nil)

	case domain.TargetRelated:
		return a.walkPath(ctx, req.Target(), cfg.RelatedObjectPath)

	case domain.TargetModel:
		return a.lookupModel(ctx, cfg, req.TemplateContext)

	default:
		return nil, domain.NewActionError(domain.ErrorConfiguration,
			fmt.Sprintf("Unsupported target type: %s", cfg.TargetType), nil)
	}
}

// walkPath проходит related_object_path по атрибутам начиная с объекта.
//
// Вложенный объект (или map) берётся как есть, иначе внешний ключ
// разрешается через ObjectStore.Related. Отсутствие любого звена — ошибка.
func (a *UpdateAction) walkPath(ctx context.Context, start *domain.Object, path string) (*domain.Object, error) {
	if start == nil {
		return nil, domain.NewActionError(domain.ErrorResolution, "Workflow instance has no target object", nil)
	}

	cur, stored := start, false
	for _, hop := range strings.Split(path, ".") {
		next, fromStore, err := a.hop(ctx, cur, hop)
		if err != nil {
			return nil, domain.NewActionError(domain.ErrorResolution,
				fmt.Sprintf("Cannot resolve related object %q at %q", path, hop), err)
		}
		cur, stored = next, fromStore
	}
	if stored {
		return cur, nil
	}
	return a.reload(ctx, cur)
}

// hop делает один шаг пути; fromStore — объект только что прочитан из хранилища.
func (a *UpdateAction) hop(ctx context.Context, obj *domain.Object, field string) (*domain.Object, bool, error) {
	if value, ok := obj.Fields[field]; ok {
		switch v := value.(type) {
		case *domain.Object:
			return v, false, nil
		case map[string]any:
			related := domain.ObjectFromMap(v)
			if related.App != "" && related.Model != "" {
				return related, false, nil
			}
		case nil:
			return nil, false, fmt.Errorf("%s.%s is empty", obj, field)
		}
	}
	related, err := a.store.Related(ctx, obj, field)
	return related, true, err
}

// reload заменяет снимок объекта от вызывающей стороны текущей строкой из хранилища.
func (a *UpdateAction) reload(ctx context.Context, snapshot *domain.Object) (*domain.Object, error) {
	if snapshot.PK == nil {
		return nil, domain.NewActionError(domain.ErrorResolution,
			fmt.Sprintf("Object %s has no primary key", snapshot), nil)
	}

	obj, err := a.store.Reload(ctx, snapshot)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, domain.NewActionError(domain.ErrorResolution,
			fmt.Sprintf("Object %s not found", snapshot), nil)
	}
	if err != nil {
		return nil, domain.NewActionError(domain.ErrorPersistence,
			fmt.Sprintf("Failed to load %s", snapshot), err)
	}
	return obj, nil
}

// lookupModel ищет объект по (app, model, object_id_field = object_id).
func (a *UpdateAction) lookupModel(ctx context.Context, cfg *domain.UpdateConfig, data map[string]any) (*domain.Object, error) {
	id := cfg.ObjectID
	if s, ok := id.(string); ok {
		rendered, err := a.renderer.Render(s, data)
		if err != nil {
			return nil, domain.NewActionError(domain.ErrorTemplate, "Failed to render object_id", err)
		}
		id = rendered
	}

	obj, err := a.store.GetByKey(ctx, cfg.ModelAppLabel, cfg.ModelName, cfg.ObjectIDField, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, domain.NewActionError(domain.ErrorResolution,
			fmt.Sprintf("Object %s.%s with %s=%v not found", cfg.ModelAppLabel, cfg.ModelName, cfg.ObjectIDField, id), nil)
	}
	if err != nil {
		return nil, domain.NewActionError(domain.ErrorPersistence,
			fmt.Sprintf("Failed to load %s.%s", cfg.ModelAppLabel, cfg.ModelName), err)
	}
	return obj, nil
}

// fieldValue вычисляет новое значение поля.
//
// Строка рендерится как шаблон, {"type": "expression", "value": "..."}
// рендерится так же, остальное записывается как литерал.
func (a *UpdateAction) fieldValue(spec any, data map[string]any) (any, error) {
	switch v := spec.(type) {
	case string:
		return a.renderer.Render(v, data)
	case map[string]any:
		if v["type"] == "expression" {
			tmpl, _ := v["value"].(string)
			return a.renderer.Render(tmpl, data)
		}
	}
	return spec, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
