package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
)

func TestRecipientResolver_DisallowedStrategy(t *testing.T) {
	req := &Request{Instance: testInstance()}

	_, err := NewRecipientResolver(nil).Resolve(context.Background(),
		domain.RecipientUser, emailStrategies, domain.StringList{"1"}, req)

	var actionErr *domain.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, domain.ErrorConfiguration, actionErr.Kind)
}

func TestRecipientResolver_FieldWithoutTarget(t *testing.T) {
	req := &Request{}

	_, err := NewRecipientResolver(nil).Resolve(context.Background(),
		domain.RecipientField, emailStrategies, domain.StringList{"email"}, req)

	var actionErr *domain.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, domain.ErrorResolution, actionErr.Kind)
}

func TestRecipientResolver_ExpressionShapes(t *testing.T) {
	inst := testInstance()
	req := &Request{
		Instance:        inst,
		TemplateContext: engine.NewContextBuilder().Build(inst, map[string]any{"owners": []any{"x@example.com", nil}}),
	}

	got, err := NewRecipientResolver(nil).Resolve(context.Background(),
		domain.RecipientExpression, emailStrategies,
		domain.StringList{"owners", `"a@example.com, b@example.com"`, "missing"},
		req)

	require.NoError(t, err)
	assert.Equal(t, []string{"x@example.com", "a@example.com", "b@example.com"}, got)
}

func TestRecipientResolver_ExpressionNumbers(t *testing.T) {
	inst := testInstance()
	req := &Request{
		Instance:        inst,
		TemplateContext: engine.NewContextBuilder().Build(inst, map[string]any{"owner_ids": []any{float64(1000000), int64(2345678)}}),
	}

	got, err := NewRecipientResolver(nil).Resolve(context.Background(),
		domain.RecipientExpression, []domain.RecipientType{domain.RecipientExpression},
		domain.StringList{"owner_ids", "1500000.0 * 2"},
		req)

	require.NoError(t, err)
	assert.Equal(t, []string{"1000000", "2345678", "3000000"}, got)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{" a ", "", "b", "a"}))
	assert.Empty(t, dedupe(nil))
}
