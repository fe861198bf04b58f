package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"skillswap/internal/domain/community"
	"skillswap/internal/shared/biztime"
	"skillswap/internal/shared/goroutine"
	"skillswap/internal/shared/logger"
)

const (
	communityChannelPrefix = "skillswap:community:"
	userChannelPrefix      = "skillswap:user:"
)

// MembershipEnvelope wraps a lifecycle event for wire transport. Timestamp is
// stamped at publish time so subscribers can order events without trusting
// their own clocks.
type MembershipEnvelope struct {
	Event     community.Event `json:"event"`
	Timestamp int64           `json:"timestamp"`
}

// MembershipEventHandler is a callback function for handling membership events
type MembershipEventHandler func(ctx context.Context, envelope MembershipEnvelope)

// MembershipEventSubscriber defines the interface for subscribing to membership events
type MembershipEventSubscriber interface {
	SubscribeCommunity(ctx context.Context, communityID uint, handler MembershipEventHandler) error
	SubscribeUser(ctx context.Context, userID uint, handler MembershipEventHandler) error
}

// RedisNotificationHub fans lifecycle events out over Redis Pub/Sub. Each
// community and each user has its own channel, so presence surfaces can
// subscribe to exactly the streams they render. Publish failures surface as
// errors for the caller to log; nothing is retried.
type RedisNotificationHub struct {
	client *redis.Client
	logger logger.Interface
}

// NewRedisNotificationHub creates a new Redis-based notification hub.
func NewRedisNotificationHub(client *redis.Client, logger logger.Interface) *RedisNotificationHub {
	return &RedisNotificationHub{
		client: client,
		logger: logger,
	}
}

// SendToCommunity publishes an event to every subscriber of the community's channel.
func (h *RedisNotificationHub) SendToCommunity(ctx context.Context, communityID uint, event community.Event) error {
	return h.publish(ctx, fmt.Sprintf("%s%d", communityChannelPrefix, communityID), event)
}

// SendToUser publishes an event to the user's private channel.
func (h *RedisNotificationHub) SendToUser(ctx context.Context, userID uint, event community.Event) error {
	return h.publish(ctx, fmt.Sprintf("%s%d", userChannelPrefix, userID), event)
}

func (h *RedisNotificationHub) publish(ctx context.Context, channel string, event community.Event) error {
	envelope := MembershipEnvelope{
		Event:     event,
		Timestamp: biztime.NowUTC().Unix(),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal membership event: %w", err)
	}

	if err := h.client.Publish(ctx, channel, data).Err(); err != nil {
		h.logger.Errorw("failed to publish membership event",
			"channel", channel,
			"event_type", event.Type,
			"error", err,
		)
		return fmt.Errorf("failed to publish membership event: %w", err)
	}

	h.logger.Debugw("membership event published",
		"channel", channel,
		"event_type", event.Type,
	)
	return nil
}

// SubscribeCommunity subscribes to a community's event channel and calls the
// handler for each event. Blocks until ctx is cancelled; reconnects with
// exponential backoff when the Redis connection drops.
func (h *RedisNotificationHub) SubscribeCommunity(ctx context.Context, communityID uint, handler MembershipEventHandler) error {
	return h.subscribeWithReconnect(ctx, fmt.Sprintf("%s%d", communityChannelPrefix, communityID), handler)
}

// SubscribeUser subscribes to a user's private event channel.
func (h *RedisNotificationHub) SubscribeUser(ctx context.Context, userID uint, handler MembershipEventHandler) error {
	return h.subscribeWithReconnect(ctx, fmt.Sprintf("%s%d", userChannelPrefix, userID), handler)
}

func (h *RedisNotificationHub) subscribeWithReconnect(ctx context.Context, channel string, handler MembershipEventHandler) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := h.subscribe(ctx, channel, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		h.logger.Warnw("membership event subscription disconnected, reconnecting",
			"channel", channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (h *RedisNotificationHub) subscribe(ctx context.Context, channel string, handler MembershipEventHandler) error {
	pubsub := h.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	_, err := pubsub.Receive(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	h.logger.Infow("subscribed to membership event channel",
		"channel", channel,
	)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			h.logger.Infow("membership event subscriber stopped",
				"channel", channel,
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				h.logger.Warnw("membership event channel closed",
					"channel", channel,
				)
				return nil
			}

			var envelope MembershipEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				h.logger.Warnw("failed to unmarshal membership event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			// Handle in background so a slow handler cannot stall the event loop
			goroutine.SafeGo(h.logger, "membership-event-handler-"+channel, func() {
				handler(context.Background(), envelope)
			})
		}
	}
}
