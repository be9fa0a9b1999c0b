package functions

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrNotFound — функция не зарегистрирована.
	ErrNotFound = errors.New("function not found")

	// ErrDuplicate — функция с таким именем уже зарегистрирована.
	ErrDuplicate = errors.New("function already registered")

	// ErrInvalidArgs — функция получила недопустимые аргументы.
	ErrInvalidArgs = errors.New("invalid function arguments")
)

// Func — функция, вызываемая FunctionAction.
//
// args и kwargs уже отрендерены. Возвращаемое значение
// попадает в details.result результата действия.
type Func func(ctx context.Context, args []any, kwargs map[string]any) (any, error)

// Registry — потокобезопасный реестр функций по имени.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Default создаёт реестр со встроенными функциями.
func Default() *Registry {
	r := NewRegistry()
	for name, fn := range builtins {
		r.MustRegister(name, fn)
	}
	return r
}

// Register добавляет функцию под именем name ("text.upper").
func (r *Registry) Register(name string, fn Func) error {
	if name == "" || fn == nil {
		return fmt.Errorf("register function: empty name or nil func")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister — Register, паникующий при ошибке. Для кода инициализации.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Resolve возвращает функцию по имени.
func (r *Registry) Resolve(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fn, nil
}

// Names возвращает отсортированный список зарегистрированных имён.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
