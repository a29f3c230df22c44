//go:build integration

package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisRelay_DeliversToLocalHub(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	hub := sse.NewHub()
	events, cleanup := hub.Subscribe()
	defer cleanup()

	relay := NewRedisRelay(client, "vms:test-events", hub)
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	// Give the subscription a moment to register before publishing
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, "vms:test-events").Result()
		return err == nil && n["vms:test-events"] > 0
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, relay.Publish(ctx, sse.Event{Event: "visitor_added", Data: map[string]string{"id": "v-1"}}))

	select {
	case ev := <-events:
		assert.Equal(t, "visitor_added", ev.Event)
		raw, ok := ev.Data.(json.RawMessage)
		require.True(t, ok)
		assert.JSONEq(t, `{"id":"v-1"}`, string(raw))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for relayed event")
	}

	cancel()
	assert.NoError(t, <-done)
}
