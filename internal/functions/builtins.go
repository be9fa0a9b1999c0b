package functions

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// builtins — функции, доступные в любом процессе.
var builtins = map[string]Func{
	"text.upper":    textUpper,
	"text.lower":    textLower,
	"text.slugify":  textSlugify,
	"time.now":      timeNow,
	"workflow.echo": workflowEcho,
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

func firstArg(args []any) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: expected 1 argument", ErrInvalidArgs)
	}
	if args[0] == nil {
		return "", nil
	}
	return fmt.Sprint(args[0]), nil
}

func textUpper(_ context.Context, args []any, _ map[string]any) (any, error) {
	s, err := firstArg(args)
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(s), nil
}

func textLower(_ context.Context, args []any, _ map[string]any) (any, error) {
	s, err := firstArg(args)
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

// textSlugify: "Hello, World!" -> "hello-world".
func textSlugify(_ context.Context, args []any, _ map[string]any) (any, error) {
	s, err := firstArg(args)
	if err != nil {
		return nil, err
	}
	slug := nonSlugRe.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-"), nil
}

// timeNow возвращает текущее время UTC. kwargs.format — Go layout, по умолчанию RFC3339.
func timeNow(_ context.Context, _ []any, kwargs map[string]any) (any, error) {
	layout := time.RFC3339
	if f, ok := kwargs["format"].(string); ok && f != "" {
		layout = f
	}
	return time.Now().UTC().Format(layout), nil
}

// workflowEcho возвращает свои аргументы. Для отладки конфигураций.
func workflowEcho(_ context.Context, args []any, kwargs map[string]any) (any, error) {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return map[string]any{"args": args, "kwargs": kwargs}, nil
}
