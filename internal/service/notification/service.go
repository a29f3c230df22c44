package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/sse"
)

// Config holds dispatcher configuration
type Config struct {
	WorkerCount int           // default: 2
	QueueSize   int           // default: 256
	TaskTimeout time.Duration // default: 30 seconds
}

type task struct {
	kind   string
	msg    notification.Message
	event  sse.Event
	result chan error
}

// Dispatcher runs notification and broadcast side effects on background
// workers. Submitting never blocks: when the queue is full the task is dropped.
type Dispatcher struct {
	email     email.EmailService
	publisher sse.Publisher
	metrics   *metrics.Metrics
	config    Config

	queue   chan task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher creates a dispatcher and starts its background workers
func NewDispatcher(emailService email.EmailService, publisher sse.Publisher, m *metrics.Metrics, cfg Config) *Dispatcher {
	// Set defaults
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 30 * time.Second
	}

	d := &Dispatcher{
		email:     emailService,
		publisher: publisher,
		metrics:   m,
		config:    cfg,
		queue:     make(chan task, cfg.QueueSize),
	}

	// Start background workers
	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	slog.Info("Notification dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)

	return d
}

// Notify implements notification.Notifier
func (d *Dispatcher) Notify(msg notification.Message) <-chan error {
	return d.submit(task{kind: metrics.KindEmail, msg: msg})
}

// Broadcast implements notification.Broadcaster
func (d *Dispatcher) Broadcast(event string, payload interface{}) <-chan error {
	return d.submit(task{kind: metrics.KindBroadcast, event: sse.Event{Event: event, Data: payload}})
}

func (d *Dispatcher) submit(t task) <-chan error {
	t.result = make(chan error, 1)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		slog.Warn("Dispatcher stopped, dropping side effect", "kind", t.kind)
		t.result <- notification.ErrDispatcherStopped
		return t.result
	}

	select {
	case d.queue <- t:
	default:
		d.metrics.NotificationsDropped.Inc()
		slog.Warn("Notification queue full, dropping side effect", "kind", t.kind, "queue_size", d.config.QueueSize)
		t.result <- notification.ErrQueueFull
	}
	return t.result
}

// worker is the background worker that drains the queue
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for t := range d.queue {
		err := d.run(t)
		if err != nil {
			d.metrics.SideEffectFailures.WithLabelValues(t.kind).Inc()
			slog.Error("Side effect failed", "worker", id, "kind", t.kind, "error", err)
		}
		t.result <- err
	}
}

func (d *Dispatcher) run(t task) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.TaskTimeout)
	defer cancel()

	switch t.kind {
	case metrics.KindEmail:
		return d.email.Send(ctx, t.msg.To, t.msg.Subject, t.msg.Body)
	default:
		return d.publisher.Publish(ctx, t.event)
	}
}

// Stop drains queued side effects and waits for the workers to exit
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	slog.Info("Notification dispatcher stopped")
}
