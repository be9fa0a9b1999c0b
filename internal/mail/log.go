package mail

import (
	"context"
	"log/slog"
)

// LogMailer — Mailer, который только пишет письмо в лог.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer создаёт LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// Send пишет письмо в лог на уровне INFO.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	body := msg.Body
	if msg.HTMLBody != "" {
		body = msg.HTMLBody
	}
	m.logger.Info("email",
		"from", msg.From,
		"to", msg.To,
		"cc", msg.CC,
		"bcc", msg.BCC,
		"subject", msg.Subject,
		"html", msg.HTMLBody != "",
		"body", body,
	)
	return nil
}
