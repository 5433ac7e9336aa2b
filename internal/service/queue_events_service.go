package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// QueueEventChannel is the Redis pub/sub channel carrying queue_tokens
// table changes. Events are table-wide; subscribers re-run their own query
// rather than patching per-row, which is acceptable at clinic queue volumes.
const QueueEventChannel = "queue_tokens:changes"

// Queue event types
const (
	QueueEventInsert = "insert"
	QueueEventUpdate = "update"
)

// QueueEvent describes a change to the queue_tokens table.
type QueueEvent struct {
	Type     string    `json:"type"`
	TokenID  uuid.UUID `json:"token_id"`
	ClinicID uuid.UUID `json:"clinic_id"`
}

// QueueEventsService fans queue_tokens changes out to live dashboard feeds
// through Redis pub/sub.
type QueueEventsService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewQueueEventsService(redisClient *redis.Client, log *logrus.Logger) *QueueEventsService {
	return &QueueEventsService{
		redisClient: redisClient,
		log:         log,
	}
}

// Publish emits a change event. Failures are logged and swallowed: a lost
// notification only delays a dashboard refresh, it never breaks a booking.
func (s *QueueEventsService) Publish(ctx context.Context, event QueueEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warnf("Failed to marshal queue event: %+v", err)
		return
	}

	if err := s.redisClient.Publish(ctx, QueueEventChannel, payload).Err(); err != nil {
		s.log.Warnf("Failed to publish queue event: %+v", err)
	}
}

// Subscribe starts a pub/sub subscription and returns a channel of events.
// The returned close function releases the subscription; callers must
// invoke it when the consuming view goes away.
func (s *QueueEventsService) Subscribe(ctx context.Context) (<-chan QueueEvent, func()) {
	pubsub := s.redisClient.Subscribe(ctx, QueueEventChannel)
	events := make(chan QueueEvent, 16)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event QueueEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.log.Warnf("Failed to decode queue event: %+v", err)
				continue
			}

			select {
			case events <- event:
			default:
				// Slow consumer: drop rather than block the pub/sub reader.
				// The consumer re-queries on the next event anyway.
			}
		}
	}()

	return events, func() {
		if err := pubsub.Close(); err != nil {
			s.log.Warnf("Failed to close queue event subscription: %+v", err)
		}
	}
}
