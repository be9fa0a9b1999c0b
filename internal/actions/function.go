package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
	"github.com/shaiso/Actuator/internal/functions"
)

// FunctionAction — вызов функции из реестра по имени function_path.
//
// Details: function, result.
type FunctionAction struct {
	renderer engine.Renderer
	registry FunctionResolver
	timeout  time.Duration
}

// NewFunctionAction создаёт FunctionAction.
func NewFunctionAction(deps Deps, settings Settings) *FunctionAction {
	deps = deps.withDefaults()
	settings = settings.withDefaults()
	return &FunctionAction{
		renderer: deps.Renderer,
		registry: deps.Functions,
		timeout:  settings.FunctionTimeout,
	}
}

// Kind возвращает function.
func (a *FunctionAction) Kind() domain.ActionKind { return domain.ActionKindFunction }

// Execute рендерит аргументы и вызывает функцию.
func (a *FunctionAction) Execute(ctx context.Context, req *Request) domain.ExecutionResult {
	cfg := req.Config.Function
	if a.registry == nil {
		return missingDependency(domain.ActionKindFunction, "a function registry")
	}

	fn, err := a.registry.Resolve(cfg.FunctionPath)
	if err != nil {
		return configurationError("Function not found: %s", cfg.FunctionPath)
	}

	args := make([]any, len(cfg.Args))
	for i, arg := range cfg.Args {
		args[i], err = engine.RenderValue(a.renderer, arg, req.TemplateContext)
		if err != nil {
			return templateError(fmt.Sprintf("argument %d", i), err)
		}
	}

	kwargs := make(map[string]any, len(cfg.Kwargs))
	for name, arg := range cfg.Kwargs {
		kwargs[name], err = engine.RenderValue(a.renderer, arg, req.TemplateContext)
		if err != nil {
			return templateError(fmt.Sprintf("argument %s", name), err)
		}
	}

	callCtx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	result, err := call(callCtx, fn, args, kwargs)
	if err != nil {
		return domain.Failure(domain.ErrorInternal, fmt.Sprintf("Function %s failed: %v", cfg.FunctionPath, err))
	}

	return domain.Success(
		fmt.Sprintf("Function %s executed", cfg.FunctionPath),
		map[string]any{
			"function": cfg.FunctionPath,
			"result":   result,
		},
	)
}

type callResult struct {
	value any
	err   error
}

// call выполняет функцию в отдельной горутине: паника превращается в ошибку,
// а истёкший контекст прерывает ожидание.
func call(ctx context.Context, fn functions.Func, args []any, kwargs map[string]any) (any, error) {
	done := make(chan callResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		value, err := fn(ctx, args, kwargs)
		done <- callResult{value: value, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
