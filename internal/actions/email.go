package actions

import (
	"context"
	"fmt"
	netmail "net/mail"
	"time"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
	"github.com/shaiso/Actuator/internal/mail"
)

// EmailAction — отправка письма через mail.Mailer.
//
// Details успешного результата: subject, recipients (и cc, bcc, если заданы).
// Некорректные адреса отбрасываются, результат тогда — warning
// со списком invalid_recipients.
type EmailAction struct {
	renderer   engine.Renderer
	mailer     mail.Mailer
	recipients *RecipientResolver
	from       string
	timeout    time.Duration
}

// NewEmailAction создаёт EmailAction.
func NewEmailAction(deps Deps, settings Settings) *EmailAction {
	deps = deps.withDefaults()
	settings = settings.withDefaults()
	return &EmailAction{
		renderer:   deps.Renderer,
		mailer:     deps.Mailer,
		recipients: NewRecipientResolver(deps.Roles),
		from:       settings.DefaultFromEmail,
		timeout:    settings.MailTimeout,
	}
}

// Kind возвращает email.
func (a *EmailAction) Kind() domain.ActionKind { return domain.ActionKindEmail }

// Execute рендерит письмо, определяет получателей и отправляет.
func (a *EmailAction) Execute(ctx context.Context, req *Request) domain.ExecutionResult {
	cfg := req.Config.Email
	if a.mailer == nil {
		return missingDependency(domain.ActionKindEmail, "a mail transport")
	}

	to, err := a.recipients.Resolve(ctx, cfg.RecipientType, emailStrategies, cfg.Recipients, req)
	if err != nil {
		return domain.FailureFromError(err, domain.ErrorResolution)
	}

	subject, err := a.renderer.Render(cfg.SubjectTemplate, req.TemplateContext)
	if err != nil {
		return templateError("email subject", err)
	}

	var body string
	if cfg.BodyTemplate != "" {
		body, err = a.renderer.Render(cfg.BodyTemplate, req.TemplateContext)
		if err != nil {
			return templateError("email body", err)
		}
	}

	cc, err := a.renderList(cfg.CC, req.TemplateContext)
	if err != nil {
		return templateError("email cc", err)
	}
	bcc, err := a.renderList(cfg.BCC, req.TemplateContext)
	if err != nil {
		return templateError("email bcc", err)
	}

	to, invalid := splitAddresses(to)
	cc, invalidCC := splitAddresses(cc)
	bcc, invalidBCC := splitAddresses(bcc)
	invalid = append(invalid, invalidCC...)
	invalid = append(invalid, invalidBCC...)

	if len(to) == 0 {
		result := resolutionError("No recipients specified for email action")
		if len(invalid) > 0 {
			result = result.WithDetails(map[string]any{"invalid_recipients": invalid})
		}
		return result
	}

	from := cfg.FromEmail
	if from == "" {
		from = a.from
	}

	msg := mail.Message{
		From:    from,
		To:      to,
		CC:      cc,
		BCC:     bcc,
		Subject: subject,
	}
	if cfg.HTMLEmail {
		msg.HTMLBody = body
		msg.Body = mail.PlainText(body)
	} else {
		msg.Body = body
	}

	sendCtx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.mailer.Send(sendCtx, msg); err != nil {
		return transportError("Failed to send email: %v", err)
	}

	details := map[string]any{
		"subject":    subject,
		"recipients": to,
	}
	if len(cc) > 0 {
		details["cc"] = cc
	}
	if len(bcc) > 0 {
		details["bcc"] = bcc
	}

	if len(invalid) > 0 {
		details["invalid_recipients"] = invalid
		return domain.Warning(
			fmt.Sprintf("Email sent to %d recipient(s), skipped %d invalid address(es)", len(to), len(invalid)),
			details,
		)
	}
	return domain.Success(fmt.Sprintf("Email sent to %d recipient(s)", len(to)), details)
}

func (a *EmailAction) renderList(templates []string, data map[string]any) ([]string, error) {
	if len(templates) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		s, err := a.renderer.Render(t, data)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return dedupe(out), nil
}

// splitAddresses делит адреса на корректные и некорректные (RFC 5322).
func splitAddresses(addrs []string) (valid, invalid []string) {
	for _, addr := range addrs {
		if _, err := netmail.ParseAddress(addr); err != nil {
			invalid = append(invalid, addr)
			continue
		}
		valid = append(valid, addr)
	}
	return valid, invalid
}
