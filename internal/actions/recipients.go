package actions

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
)

// Стратегии получателей, допустимые для каждого типа действия.
var (
	emailStrategies = []domain.RecipientType{
		domain.RecipientStatic,
		domain.RecipientField,
		domain.RecipientExpression,
	}
	notificationStrategies = []domain.RecipientType{
		domain.RecipientUser,
		domain.RecipientRole,
		domain.RecipientExpression,
	}
)

// RecipientResolver превращает (recipient_type, recipients) в список получателей.
//
// Пустой результат не является ошибкой: решение принимает действие.
// Ошибки возвращаются как *domain.ActionError с классом из таксономии.
type RecipientResolver struct {
	roles RoleDirectory
}

// NewRecipientResolver создаёт резолвер. roles может быть nil.
func NewRecipientResolver(roles RoleDirectory) *RecipientResolver {
	return &RecipientResolver{roles: roles}
}

// Resolve вычисляет получателей стратегией strategy, если она входит в allowed.
func (r *RecipientResolver) Resolve(
	ctx context.Context,
	strategy domain.RecipientType,
	allowed []domain.RecipientType,
	spec domain.StringList,
	req *Request,
) ([]string, error) {
	if !slices.Contains(allowed, strategy) {
		return nil, domain.NewActionError(domain.ErrorConfiguration,
			fmt.Sprintf("Unsupported recipient type: %s", strategy), nil)
	}

	var (
		out []string
		err error
	)
	switch strategy {
	case domain.RecipientStatic, domain.RecipientUser:
		out = spec
	case domain.RecipientField:
		out, err = r.fromField(spec.First(), req.Target())
	case domain.RecipientRole:
		out, err = r.fromRoles(ctx, spec)
	case domain.RecipientExpression:
		out, err = r.fromExpressions(spec, req.TemplateContext)
	}
	if err != nil {
		return nil, err
	}
	return dedupe(out), nil
}

// fromField читает получателей из поля целевого объекта.
//
// Строка — один адрес, список — несколько, объект или map — его email.
func (r *RecipientResolver) fromField(field string, target *domain.Object) ([]string, error) {
	if target == nil {
		return nil, domain.NewActionError(domain.ErrorResolution,
			fmt.Sprintf("Cannot read recipients from field %q: workflow instance has no target object", field), nil)
	}

	value, ok := engine.Lookup(target, field)
	if !ok {
		return nil, nil
	}
	return addresses(value), nil
}

func addresses(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, addresses(item)...)
		}
		return out
	case *domain.Object:
		if email, ok := v.Get("email"); ok {
			if s, ok := email.(string); ok {
				return []string{s}
			}
		}
	case map[string]any:
		if s, ok := v["email"].(string); ok {
			return []string{s}
		}
	}
	return nil
}

func (r *RecipientResolver) fromRoles(ctx context.Context, roles []string) ([]string, error) {
	if r.roles == nil {
		return nil, domain.NewActionError(domain.ErrorConfiguration,
			"Recipient type role requires a role directory, none configured", nil)
	}

	users, err := r.roles.UsersWithRoles(ctx, roles)
	if err != nil {
		return nil, domain.NewActionError(domain.ErrorResolution,
			fmt.Sprintf("Failed to resolve users for roles %s", strings.Join(roles, ", ")), err)
	}
	return users, nil
}

// fromExpressions вычисляет каждое выражение над контекстом шаблонов
// и объединяет результаты.
func (r *RecipientResolver) fromExpressions(exprs []string, env map[string]any) ([]string, error) {
	var out []string
	for _, src := range exprs {
		if strings.TrimSpace(src) == "" {
			continue
		}

		// Без expr.Env: разделы контекста могут быть nil (user при системном
		// переходе), типы проверяются только при выполнении.
		program, err := expr.Compile(src, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, domain.NewActionError(domain.ErrorConfiguration,
				fmt.Sprintf("Invalid recipient expression %q", src), err)
		}

		value, err := expr.Run(program, env)
		if err != nil {
			return nil, domain.NewActionError(domain.ErrorResolution,
				fmt.Sprintf("Failed to evaluate recipient expression %q", src), err)
		}
		out = append(out, expressionValues(value)...)
	}
	return out, nil
}

// expressionValues приводит результат выражения к списку строк.
// Строка через запятую разбивается на части, числа (ID пользователей) форматируются.
func expressionValues(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return strings.Split(v, ",")
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, expressionValues(item)...)
		}
		return out
	case map[string]any, *domain.Object:
		return addresses(v)
	default:
		return []string{domain.FormatValue(v)}
	}
}

// dedupe убирает пустые значения и дубликаты, сохраняя порядок.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
