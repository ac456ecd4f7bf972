package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/palmwine/internal/adapter/broker"
	"github.com/polkiloo/palmwine/internal/adapter/whatsapp"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/metrics"
)

const sendTimeout = 10 * time.Second

// NotificationDispatcher delivers notifications from a bounded queue with a worker pool.
// Notify never blocks; when the queue is full the notification is dropped.
type NotificationDispatcher struct {
	sink      whatsapp.Sink
	publisher broker.Publisher
	workers   int
	logger    *slog.Logger

	queue   chan model.Notification
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
	stopped bool
}

// NewNotificationDispatcher constructs the dispatcher. publisher may be nil.
func NewNotificationDispatcher(sink whatsapp.Sink, publisher broker.Publisher, workers, queueSize int, logger *slog.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &NotificationDispatcher{
		sink:      sink,
		publisher: publisher,
		workers:   workers,
		logger:    logger,
		queue:     make(chan model.Notification, queueSize),
	}
}

// Notify enqueues n for delivery.
func (d *NotificationDispatcher) Notify(n model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		d.drop(n, "dispatcher stopped")
		return
	}
	select {
	case d.queue <- n:
		metrics.Notifications.WithLabelValues("queued").Inc()
	default:
		d.drop(n, "queue full")
	}
}

func (d *NotificationDispatcher) drop(n model.Notification, reason string) {
	metrics.Notifications.WithLabelValues("dropped").Inc()
	d.logger.Error("notification dropped",
		slog.String("reason", reason),
		slog.String("kind", string(n.Kind)),
		slog.String("order", n.OrderNumber),
	)
}

// Start launches the workers.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.stopped = false

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop stops accepting notifications, delivers what is already queued and waits for the workers.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *NotificationDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *NotificationDispatcher) drain() {
	for {
		select {
		case n := <-d.queue:
			d.deliver(context.Background(), n)
		default:
			return
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, n model.Notification) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := d.sink.Send(sendCtx, n); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		d.logger.Error("notification delivery failed",
			slog.String("kind", string(n.Kind)),
			slog.String("order", n.OrderNumber),
			slog.String("error", err.Error()),
		)
	} else {
		metrics.Notifications.WithLabelValues("sent").Inc()
	}

	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(sendCtx, n); err != nil {
		d.logger.Error("event publish failed",
			slog.String("kind", string(n.Kind)),
			slog.String("error", err.Error()),
		)
	}
}
