package actions

import (
	"context"
	"time"
)

// Settings — настройки движка, передаются явно при создании.
type Settings struct {
	// DefaultFromEmail — отправитель писем, если from_email не задан.
	DefaultFromEmail string

	// HTTPTimeout — таймаут ApiCallAction, если в конфигурации нет timeout.
	HTTPTimeout time.Duration

	// MailTimeout ограничивает отправку письма.
	MailTimeout time.Duration

	// DBTimeout ограничивает чтение и сохранение объектов в UpdateAction.
	DBTimeout time.Duration

	// NotifyTimeout ограничивает доставку уведомления.
	NotifyTimeout time.Duration

	// FunctionTimeout ограничивает вызов функции.
	FunctionTimeout time.Duration
}

// DefaultSettings возвращает настройки по умолчанию.
func DefaultSettings() Settings {
	return Settings{
		DefaultFromEmail: "webmaster@localhost",
		HTTPTimeout:      30 * time.Second,
		MailTimeout:      30 * time.Second,
		DBTimeout:        10 * time.Second,
		NotifyTimeout:    10 * time.Second,
		FunctionTimeout:  30 * time.Second,
	}
}

// withDefaults заполняет нулевые поля значениями по умолчанию.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.DefaultFromEmail == "" {
		s.DefaultFromEmail = d.DefaultFromEmail
	}
	if s.HTTPTimeout <= 0 {
		s.HTTPTimeout = d.HTTPTimeout
	}
	if s.MailTimeout <= 0 {
		s.MailTimeout = d.MailTimeout
	}
	if s.DBTimeout <= 0 {
		s.DBTimeout = d.DBTimeout
	}
	if s.NotifyTimeout <= 0 {
		s.NotifyTimeout = d.NotifyTimeout
	}
	if s.FunctionTimeout <= 0 {
		s.FunctionTimeout = d.FunctionTimeout
	}
	return s
}

// withTimeout — context.WithTimeout, который игнорирует d <= 0.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
