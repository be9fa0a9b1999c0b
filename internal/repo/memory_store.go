package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/shaiso/Actuator/internal/domain"
)

// MemoryStore — хранилище объектов в памяти с тем же контрактом, что ObjectRepo.
// Используется в тестах и при локальном запуске без БД.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[domain.ObjectRef]*domain.Object
	models  *ModelRegistry
	history map[domain.ObjectRef][]domain.ChangeRecord
}

// NewMemoryStore создаёт хранилище с начальным набором объектов.
func NewMemoryStore(models *ModelRegistry, objects ...*domain.Object) *MemoryStore {
	if models == nil {
		models = NewModelRegistry()
	}
	s := &MemoryStore{
		objects: make(map[domain.ObjectRef]*domain.Object),
		models:  models,
		history: make(map[domain.ObjectRef][]domain.ChangeRecord),
	}
	for _, obj := range objects {
		s.Put(obj)
	}
	return s
}

// Put сохраняет копию объекта.
func (s *MemoryStore) Put(obj *domain.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[refKey(obj)] = obj.Clone()
}

// Get возвращает копию объекта по ссылке.
func (s *MemoryStore) Get(app, model string, pk any) (*domain.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[domain.ObjectRef{App: app, Model: model, PK: fmt.Sprint(pk)}]
	if !ok {
		return nil, false
	}
	return obj.Clone(), true
}

// History возвращает журнал изменений объекта.
func (s *MemoryStore) History(app, model string, pk any) []domain.ChangeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ChangeRecord(nil), s.history[domain.ObjectRef{App: app, Model: model, PK: fmt.Sprint(pk)}]...)
}

// GetByKey ищет объект app.model, у которого field = value.
// Значения сравниваются в строковом виде: "42" совпадает с 42.
func (s *MemoryStore) GetByKey(_ context.Context, app, model, field string, value any) (*domain.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := fmt.Sprint(value)
	for ref, obj := range s.objects {
		if ref.App != app || ref.Model != model {
			continue
		}
		got, ok := obj.Get(field)
		if ok && fmt.Sprint(got) == want {
			return obj.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s with %s=%v", ErrNotFound, label(app, model), field, value)
}

// Reload возвращает текущую копию сохранённого объекта.
func (s *MemoryStore) Reload(_ context.Context, obj *domain.Object) (*domain.Object, error) {
	stored, ok := s.Get(obj.App, obj.Model, obj.PK)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, obj)
	}
	return stored, nil
}

// Related загружает объект по внешнему ключу, описанному в реестре моделей.
func (s *MemoryStore) Related(ctx context.Context, obj *domain.Object, field string) (*domain.Object, error) {
	relApp, relModel, err := s.models.Relation(obj.App, obj.Model, field)
	if err != nil {
		return nil, err
	}

	fk, ok := foreignKey(obj, field)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no value for %s", ErrNotFound, obj, field)
	}

	return s.GetByKey(ctx, relApp, relModel, s.models.Lookup(relApp, relModel).PK, fk)
}

// SaveInTransaction применяет изменения к сохранённому объекту целиком или не применяет вовсе.
// Поля, не упомянутые в changes, не трогаются.
func (s *MemoryStore) SaveInTransaction(_ context.Context, obj *domain.Object, changes []domain.ChangeRecord) error {
	if len(changes) == 0 {
		return ErrNoChanges
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := refKey(obj)
	stored, ok := s.objects[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, obj)
	}

	updated := stored.Clone()
	for _, c := range changes {
		updated.Set(c.Field, c.New)
	}
	s.objects[key] = updated
	s.history[key] = append(s.history[key], changes...)
	return nil
}

// refKey — ключ карты; PK приводится к строке, чтобы 42 и "42" совпадали.
func refKey(obj *domain.Object) domain.ObjectRef {
	return domain.ObjectRef{App: obj.App, Model: obj.Model, PK: fmt.Sprint(obj.PK)}
}
