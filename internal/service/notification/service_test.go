package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/sse"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to, subject, body string
}

type fakeEmail struct {
	mu    sync.Mutex
	sent  []sentEmail
	err   error
	block chan struct{}
}

func (f *fakeEmail) Send(_ context.Context, to, subject, body string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{to, subject, body})
	return f.err
}

func waitResult(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for side effect result")
		return nil
	}
}

func TestDispatcher_NotifySendsEmail(t *testing.T) {
	mail := &fakeEmail{}
	d := NewDispatcher(mail, sse.NewHub(), metrics.NewNop(), Config{WorkerCount: 1, QueueSize: 4})
	defer d.Stop()

	err := waitResult(t, d.Notify(notification.Message{To: "bob@x.com", Subject: "New Visitor Registered", Body: "hi"}))
	require.NoError(t, err)

	mail.mu.Lock()
	defer mail.mu.Unlock()
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "bob@x.com", mail.sent[0].to)
}

func TestDispatcher_BroadcastReachesHub(t *testing.T) {
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe()
	defer cleanup()

	d := NewDispatcher(&fakeEmail{}, hub, metrics.NewNop(), Config{WorkerCount: 1, QueueSize: 4})
	defer d.Stop()

	require.NoError(t, waitResult(t, d.Broadcast(notification.EventVisitorAdded, "payload")))

	ev := <-events
	assert.Equal(t, notification.EventVisitorAdded, ev.Event)
	assert.Equal(t, "payload", ev.Data)
}

func TestDispatcher_FailureIsCountedNotPanicking(t *testing.T) {
	m := metrics.NewNop()
	d := NewDispatcher(&fakeEmail{err: errors.New("smtp down")}, sse.NewHub(), m, Config{WorkerCount: 1, QueueSize: 4})
	defer d.Stop()

	err := waitResult(t, d.Notify(notification.Message{To: "bob@x.com"}))
	assert.ErrorContains(t, err, "smtp down")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SideEffectFailures.WithLabelValues(metrics.KindEmail)))
}

func TestDispatcher_QueueFullDropsWithoutBlocking(t *testing.T) {
	m := metrics.NewNop()
	mail := &fakeEmail{block: make(chan struct{})}
	d := NewDispatcher(mail, sse.NewHub(), m, Config{WorkerCount: 1, QueueSize: 1})

	// First task occupies the worker, second fills the queue
	first := d.Notify(notification.Message{To: "a@x.com"})
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, 5*time.Millisecond)
	second := d.Notify(notification.Message{To: "b@x.com"})

	dropped := d.Notify(notification.Message{To: "c@x.com"})
	assert.ErrorIs(t, waitResult(t, dropped), notification.ErrQueueFull)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsDropped))

	close(mail.block)
	assert.NoError(t, waitResult(t, first))
	assert.NoError(t, waitResult(t, second))
	d.Stop()
}

func TestDispatcher_StopDrainsAndRejectsLateTasks(t *testing.T) {
	mail := &fakeEmail{}
	d := NewDispatcher(mail, sse.NewHub(), metrics.NewNop(), Config{WorkerCount: 2, QueueSize: 8})

	for i := 0; i < 5; i++ {
		d.Notify(notification.Message{To: "bob@x.com"})
	}
	d.Stop()
	d.Stop()

	mail.mu.Lock()
	assert.Len(t, mail.sent, 5)
	mail.mu.Unlock()

	assert.ErrorIs(t, waitResult(t, d.Notify(notification.Message{To: "late@x.com"})), notification.ErrDispatcherStopped)
}
