package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventsUnderTest(t *testing.T) *QueueEventsService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewQueueEventsService(client, testLogger())
}

func TestPublishSubscribe(t *testing.T) {
	events := newEventsUnderTest(t)
	ctx := context.Background()

	received, closeSub := events.Subscribe(ctx)
	defer closeSub()

	// Give the subscriber a moment to register before publishing.
	time.Sleep(50 * time.Millisecond)

	sent := QueueEvent{Type: QueueEventInsert, TokenID: uuid.New(), ClinicID: uuid.New()}
	events.Publish(ctx, sent)

	select {
	case got := <-received:
		assert.Equal(t, sent, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for queue event")
	}
}

func TestSubscribe_CloseReleasesChannel(t *testing.T) {
	events := newEventsUnderTest(t)

	received, closeSub := events.Subscribe(context.Background())
	time.Sleep(50 * time.Millisecond)
	closeSub()

	select {
	case _, open := <-received:
		assert.False(t, open, "event channel closes with the subscription")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestPublish_RedisDownIsSwallowed(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	events := NewQueueEventsService(client, testLogger())

	require.NotPanics(t, func() {
		events.Publish(context.Background(), QueueEvent{Type: QueueEventUpdate, TokenID: uuid.New(), ClinicID: uuid.New()})
	})
}
