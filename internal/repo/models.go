package repo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ModelMeta — как модель Django хранится в PostgreSQL.
type ModelMeta struct {
	// Table — имя таблицы. По умолчанию "<app>_<model>".
	Table string `json:"table,omitempty"`

	// PK — колонка первичного ключа. По умолчанию "id".
	PK string `json:"pk,omitempty"`

	// Relations — внешние ключи: имя поля → "app.model".
	// Значение ключа читается из поля "<name>_id" (или "<name>").
	Relations map[string]string `json:"relations,omitempty"`
}

// ModelRegistry — описания моделей по метке "app.model".
//
// Модели без описания получают соглашения Django по умолчанию.
type ModelRegistry struct {
	mu     sync.RWMutex
	models map[string]ModelMeta
}

// NewModelRegistry создаёт пустой реестр.
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{models: make(map[string]ModelMeta)}
}

// LoadModels читает реестр из JSON-файла вида {"shop.order": {"table": "...", "relations": {...}}}.
// Пустой путь — пустой реестр.
func LoadModels(path string) (*ModelRegistry, error) {
	r := NewModelRegistry()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read models file: %w", err)
	}

	var models map[string]ModelMeta
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, fmt.Errorf("parse models file: %w", err)
	}
	for label, meta := range models {
		r.Register(label, meta)
	}
	return r, nil
}

// Register добавляет описание модели.
func (r *ModelRegistry) Register(label string, meta ModelMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[strings.ToLower(label)] = meta
}

// Lookup возвращает описание модели с подставленными значениями по умолчанию.
func (r *ModelRegistry) Lookup(app, model string) ModelMeta {
	r.mu.RLock()
	meta := r.models[label(app, model)]
	r.mu.RUnlock()

	if meta.Table == "" {
		meta.Table = strings.ToLower(app) + "_" + strings.ToLower(model)
	}
	if meta.PK == "" {
		meta.PK = "id"
	}
	return meta
}

// Relation возвращает (app, model) модели, на которую ссылается поле.
func (r *ModelRegistry) Relation(app, model, field string) (string, string, error) {
	target, ok := r.Lookup(app, model).Relations[field]
	if !ok {
		return "", "", fmt.Errorf("%w: %s.%s", ErrUnknownRelation, label(app, model), field)
	}
	relApp, relModel, ok := strings.Cut(target, ".")
	if !ok {
		return "", "", fmt.Errorf("%w: bad target %q for %s.%s", ErrUnknownRelation, target, label(app, model), field)
	}
	return relApp, relModel, nil
}

func label(app, model string) string {
	return strings.ToLower(app) + "." + strings.ToLower(model)
}
