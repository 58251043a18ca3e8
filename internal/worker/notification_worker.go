package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/service"
)

// ErrQueueFull is returned by Publish when the delivery queue has no room.
var ErrQueueFull = errors.New("notification queue full")

// ErrStopped is returned by Publish after Stop.
var ErrStopped = errors.New("notification worker stopped")

var _ events.Dispatcher = (*NotificationWorker)(nil)

type queued struct {
	ctx   context.Context
	event events.Event
}

// NotificationWorker is a Dispatcher that hands events to a background
// goroutine, so mail delivery never runs on the request path.
type NotificationWorker struct {
	next   events.Dispatcher
	queue  chan queued
	logger *zap.Logger

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
	once    sync.Once
}

// NewNotificationWorker buffers up to size events in front of next.
func NewNotificationWorker(next events.Dispatcher, size int, logger *zap.Logger) *NotificationWorker {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		next:   next,
		queue:  make(chan queued, size),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// StartNotificationWorker subscribes the notification handlers and starts delivery.
func StartNotificationWorker(w *NotificationWorker, notificationService *service.NotificationService) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	w.Start()
}

// Subscribe registers handler on the underlying dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.next.Subscribe(eventType, handler)
}

// Publish enqueues event. The request context's values survive but its
// cancellation does not.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}
	select {
	case w.queue <- queued{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the delivery goroutine.
func (w *NotificationWorker) Start() {
	go w.run()
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for item := range w.queue {
		if err := w.next.Publish(item.ctx, item.event); err != nil {
			w.logger.Warn("notification delivery failed",
				zap.String("event", string(item.event.Type)),
				zap.String("ticket_id", item.event.TicketID),
				zap.Error(err))
		}
	}
}

// Stop rejects new events and waits until queued ones are delivered or ctx ends.
func (w *NotificationWorker) Stop(ctx context.Context) {
	w.once.Do(func() {
		w.mu.Lock()
		w.stopped = true
		close(w.queue)
		w.mu.Unlock()
	})
	select {
	case <-w.done:
	case <-ctx.Done():
		w.logger.Warn("notification queue not drained before shutdown", zap.Int("pending", len(w.queue)))
	}
}
