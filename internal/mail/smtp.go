package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig — параметры SMTP-сервера.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// TLS — "mandatory", "opportunistic" (по умолчанию) или "none".
	TLS string

	Timeout time.Duration
}

// SMTPMailer — Mailer поверх SMTP.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer создаёт SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send отправляет письмо. Соединение открывается на каждое письмо.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	gm, err := buildMsg(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	client, err := gomail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("%w: create client: %v", ErrSend, err)
	}

	if err := client.DialAndSendWithContext(ctx, gm); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	m.logger.Debug("email sent",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}

func (m *SMTPMailer) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithTLSPolicy(tlsPolicy(m.cfg.TLS)),
	}
	if m.cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(m.cfg.Port))
	}
	if m.cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(m.cfg.Timeout))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

func tlsPolicy(name string) gomail.TLSPolicy {
	switch name {
	case "mandatory":
		return gomail.TLSMandatory
	case "none":
		return gomail.NoTLS
	default:
		return gomail.TLSOpportunistic
	}
}

// buildMsg переводит Message в письмо go-mail.
func buildMsg(msg Message) (*gomail.Msg, error) {
	gm := gomail.NewMsg()
	if err := gm.From(msg.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := gm.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if len(msg.CC) > 0 {
		if err := gm.Cc(msg.CC...); err != nil {
			return nil, fmt.Errorf("cc: %w", err)
		}
	}
	if len(msg.BCC) > 0 {
		if err := gm.Bcc(msg.BCC...); err != nil {
			return nil, fmt.Errorf("bcc: %w", err)
		}
	}
	gm.Subject(msg.Subject)

	if msg.HTMLBody != "" {
		plain := msg.Body
		if plain == "" {
			plain = PlainText(msg.HTMLBody)
		}
		gm.SetBodyString(gomail.TypeTextPlain, plain)
		gm.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	} else {
		gm.SetBodyString(gomail.TypeTextPlain, msg.Body)
	}
	return gm, nil
}
