package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	html := "<h1>Order shipped</h1>\n<p>Hello &amp; welcome</p>"
	assert.Equal(t, "Order shipped\nHello & welcome", PlainText(html))
}

func TestBuildMsg(t *testing.T) {
	msg := Message{
		From:     "shop@example.com",
		To:       []string{"a@example.com"},
		CC:       []string{"c@example.com"},
		Subject:  "Hi",
		HTMLBody: "<b>Hi</b>",
	}

	gm, err := buildMsg(msg)
	require.NoError(t, err)

	recipients, err := gm.GetRecipients()
	require.NoError(t, err)
	assert.Contains(t, recipients, "a@example.com")
	assert.Contains(t, recipients, "c@example.com")
}

func TestBuildMsg_InvalidFrom(t *testing.T) {
	_, err := buildMsg(Message{From: "not an address", To: []string{"a@example.com"}})
	assert.Error(t, err)
}

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := NewLogMailer(logger).Send(context.Background(), Message{
		From:    "shop@example.com",
		To:      []string{"a@example.com"},
		Subject: "Order 42 shipped",
		Body:    "Thanks",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Order 42 shipped")
	assert.Contains(t, buf.String(), "a@example.com")
}
