package mail

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrSend — ошибка отправки письма.
var ErrSend = errors.New("mail send failed")

// Message — письмо, готовое к отправке.
type Message struct {
	From    string
	To      []string
	CC      []string
	BCC     []string
	Subject string

	// Body — текстовое тело письма.
	Body string

	// HTMLBody — HTML-тело; если задано, Body отправляется как альтернатива.
	HTMLBody string
}

// Mailer — транспорт почты.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var (
	tagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe = regexp.MustCompile(`\n{3,}`)
)

// PlainText строит текстовую альтернативу HTML-тела.
func PlainText(html string) string {
	text := tagRe.ReplaceAllString(html, "")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`).Replace(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, "\n\n"))
}
