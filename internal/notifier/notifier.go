package notifier

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rentora/billing-engine/internal/domain"
)

// Dispatcher delivers fire-and-forget notification events. Implementations
// must never block the calling workflow and never surface delivery failures
// to it; the caller's transaction has already committed.
type Dispatcher interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]interface{})
}

const channel = "notifications"

type redisDispatcher struct {
	client *redis.Client
}

// NewRedisDispatcher publishes events to the notifications pub/sub channel,
// where the delivery service (push/SMS/email) picks them up.
func NewRedisDispatcher(client *redis.Client) Dispatcher {
	return &redisDispatcher{client: client}
}

func (d *redisDispatcher) Notify(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]interface{}) {
	event := domain.NotificationEvent{
		UserID:  userID,
		Type:    eventType,
		Payload: payload,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("notifier: failed to encode %s event for user %s: %v", eventType, userID, err)
		return
	}

	if err := d.client.Publish(ctx, channel, body).Err(); err != nil {
		log.Printf("notifier: failed to publish %s event for user %s: %v", eventType, userID, err)
	}
}

type logDispatcher struct{}

// NewLogDispatcher writes events to the process log. Used in development
// and as a fallback when Redis is not configured.
func NewLogDispatcher() Dispatcher {
	return &logDispatcher{}
}

func (d *logDispatcher) Notify(_ context.Context, userID uuid.UUID, eventType string, payload map[string]interface{}) {
	log.Printf("notify user=%s type=%s payload=%v", userID, eventType, payload)
}
