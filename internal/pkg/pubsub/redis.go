package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/sse"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis from a redis:// URL.
// Returns nil if the URL is empty (Redis not configured).
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// RedisRelay fans events out across API instances. Publish writes to a Redis
// channel; Run relays every message on that channel into the local hub.
type RedisRelay struct {
	client  *redis.Client
	channel string
	local   sse.Publisher
}

func NewRedisRelay(client *redis.Client, channel string, local sse.Publisher) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		local:   local,
	}
}

type wireEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Publish implements sse.Publisher
func (r *RedisRelay) Publish(ctx context.Context, event sse.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Run blocks until ctx is cancelled, relaying channel messages to the local hub
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("redis subscribe: %w", err)
	}
	slog.Info("Redis relay subscribed", "channel", r.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var ev wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				slog.Warn("Dropping malformed relay message", "channel", r.channel, "error", err)
				continue
			}
			if err := r.local.Publish(ctx, sse.Event{Event: ev.Event, Data: ev.Data}); err != nil {
				slog.Error("Failed to relay event", "event", ev.Event, "error", err)
			}
		}
	}
}
