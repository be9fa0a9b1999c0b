package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Actuator/internal/domain"
)

func executeEmail(t *testing.T, mailer *fakeMailer, cfg *domain.ActionConfig) domain.ExecutionResult {
	t.Helper()
	return New(Deps{Mailer: mailer}, DefaultSettings(), nil).Execute(context.Background(), cfg, testInstance(), nil)
}

func TestEmailAction_Static(t *testing.T) {
	mailer := &fakeMailer{}

	result := executeEmail(t, mailer, emailConfig(domain.RecipientStatic, "a@b.com"))

	require.Equal(t, domain.ResultSuccess, result.Status, result.Message)
	assert.Equal(t, "Order 42 shipped", result.Details["subject"])
	assert.Equal(t, []string{"a@b.com"}, result.Details["recipients"])

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "Order 42 shipped", msg.Subject)
	assert.Equal(t, "Hello alice", msg.Body)
	assert.Equal(t, "webmaster@localhost", msg.From)
	assert.Empty(t, msg.HTMLBody)
}

func TestEmailAction_EmptyStaticRecipients(t *testing.T) {
	mailer := &fakeMailer{}

	result := executeEmail(t, mailer, emailConfig(domain.RecipientStatic))

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Equal(t, domain.ErrorResolution, result.ErrorKind)
	assert.Contains(t, result.Message, "recipients")
	assert.Empty(t, mailer.sent)
}

func TestEmailAction_FieldRecipients(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"string", "customer_email", []string{"bob@example.com"}},
		{"list", "watchers", []string{"carol@example.com", "dave@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{}

			result := executeEmail(t, mailer, emailConfig(domain.RecipientField, tt.field))

			require.Equal(t, domain.ResultSuccess, result.Status, result.Message)
			require.Len(t, mailer.sent, 1)
			assert.Equal(t, tt.want, mailer.sent[0].To)
		})
	}
}

func TestEmailAction_FieldObjectWithEmail(t *testing.T) {
	mailer := &fakeMailer{}
	inst := testInstance()
	inst.Target.Fields["customer"] = &domain.Object{
		App: "crm", Model: "customer", PK: 7,
		Fields: map[string]any{"email": "eve@example.com"},
	}

	result := New(Deps{Mailer: mailer}, DefaultSettings(), nil).
		Execute(context.Background(), emailConfig(domain.RecipientField, "customer"), inst, nil)

	require.Equal(t, domain.ResultSuccess, result.Status, result.Message)
	assert.Equal(t, []string{"eve@example.com"}, mailer.sent[0].To)
}

func TestEmailAction_FieldMissing(t *testing.T) {
	result := executeEmail(t, &fakeMailer{}, emailConfig(domain.RecipientField, "nope"))

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Contains(t, result.Message, "No recipients")
}

func TestEmailAction_ExpressionRecipients(t *testing.T) {
	mailer := &fakeMailer{}

	result := executeEmail(t, mailer, emailConfig(domain.RecipientExpression,
		`user.email`,
		`object.number == "A-42" ? "vip@example.com" : "ops@example.com"`,
	))

	require.Equal(t, domain.ResultSuccess, result.Status, result.Message)
	assert.Equal(t, []string{"alice@example.com", "vip@example.com"}, mailer.sent[0].To)
}

func TestEmailAction_InvalidExpression(t *testing.T) {
	result := executeEmail(t, &fakeMailer{}, emailConfig(domain.RecipientExpression, `user.email +`))

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Equal(t, domain.ErrorConfiguration, result.ErrorKind)
}

func TestEmailAction_InvalidAddresses(t *testing.T) {
	mailer := &fakeMailer{}

	result := executeEmail(t, mailer, emailConfig(domain.RecipientStatic, "a@b.com", "not-an-address"))

	require.Equal(t, domain.ResultWarning, result.Status, result.Message)
	assert.Equal(t, []string{"not-an-address"}, result.Details["invalid_recipients"])
	assert.Equal(t, []string{"a@b.com"}, mailer.sent[0].To)
}

func TestEmailAction_OnlyInvalidAddresses(t *testing.T) {
	mailer := &fakeMailer{}

	result := executeEmail(t, mailer, emailConfig(domain.RecipientStatic, "broken"))

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Equal(t, domain.ErrorResolution, result.ErrorKind)
	assert.Empty(t, mailer.sent)
}

func TestEmailAction_HTML(t *testing.T) {
	mailer := &fakeMailer{}
	cfg := emailConfig(domain.RecipientStatic, "a@b.com")
	cfg.Email.BodyTemplate = "<p>Hello <b>{{ user.username }}</b></p>"
	cfg.Email.HTMLEmail = true
	cfg.Email.FromEmail = "shop@example.com"
	cfg.Email.CC = []string{"{{ user.email }}"}

	result := executeEmail(t, mailer, cfg)

	require.Equal(t, domain.ResultSuccess, result.Status, result.Message)
	msg := mailer.sent[0]
	assert.Equal(t, "<p>Hello <b>alice</b></p>", msg.HTMLBody)
	assert.Equal(t, "Hello alice", msg.Body)
	assert.Equal(t, "shop@example.com", msg.From)
	assert.Equal(t, []string{"alice@example.com"}, msg.CC)
}

func TestEmailAction_TransportError(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("connection refused")}

	result := executeEmail(t, mailer, emailConfig(domain.RecipientStatic, "a@b.com"))

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Equal(t, domain.ErrorTransport, result.ErrorKind)
	assert.Contains(t, result.Message, "connection refused")
}

func TestEmailAction_TemplateError(t *testing.T) {
	cfg := emailConfig(domain.RecipientStatic, "a@b.com")
	cfg.Email.SubjectTemplate = "{{ if }}"

	result := executeEmail(t, &fakeMailer{}, cfg)

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Equal(t, domain.ErrorTemplate, result.ErrorKind)
}

func TestEmailAction_NoMailer(t *testing.T) {
	result := New(Deps{}, DefaultSettings(), nil).
		Execute(context.Background(), emailConfig(domain.RecipientStatic, "a@b.com"), testInstance(), nil)

	assert.Equal(t, domain.ResultError, result.Status)
	assert.Equal(t, domain.ErrorConfiguration, result.ErrorKind)
}
