package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Actuator/internal/domain"
)

type fakeStore struct {
	created []*domain.Notification
	err     error
}

func (s *fakeStore) Create(_ context.Context, n *domain.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, n)
	return nil
}

type fakePublisher struct {
	published []*domain.Notification
}

func (p *fakePublisher) PublishNotification(_ context.Context, n *domain.Notification) error {
	p.published = append(p.published, n)
	return nil
}

func TestRouter_Dispatch(t *testing.T) {
	store := &fakeStore{}
	publisher := &fakePublisher{}

	router := NewRouter(nil).
		Handle(domain.NotificationInApp, NewStoreSink(store)).
		Handle(domain.NotificationPush, NewQueueSink(publisher)).
		Handle(domain.NotificationSMS, NewQueueSink(publisher))

	ctx := context.Background()
	require.NoError(t, router.Dispatch(ctx, &domain.Notification{ID: "1", Type: domain.NotificationInApp}))
	require.NoError(t, router.Dispatch(ctx, &domain.Notification{ID: "2", Type: domain.NotificationPush}))
	require.NoError(t, router.Dispatch(ctx, &domain.Notification{ID: "3", Type: domain.NotificationSMS}))

	require.Len(t, store.created, 1)
	assert.Equal(t, "1", store.created[0].ID)
	require.Len(t, publisher.published, 2)
	assert.Equal(t, "2", publisher.published[0].ID)
	assert.Equal(t, "3", publisher.published[1].ID)
}

func TestRouter_NoSink(t *testing.T) {
	err := NewRouter(nil).Dispatch(context.Background(), &domain.Notification{Type: domain.NotificationSMS})
	assert.ErrorIs(t, err, ErrNoSink)
}

func TestRouter_SinkError(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	router := NewRouter(nil).Handle(domain.NotificationInApp, NewStoreSink(store))

	err := router.Dispatch(context.Background(), &domain.Notification{Type: domain.NotificationInApp})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	err := sink.Dispatch(context.Background(), &domain.Notification{ID: "n-1", Title: "Order shipped"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Order shipped")
}
