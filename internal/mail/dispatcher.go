package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wondertwin-ai/videoinvite/internal/metrics"
)

const sendTimeout = 30 * time.Second

// Dispatcher delivers messages on a single background worker so request
// handlers never wait for the transport. Failures are logged, never retried.
type Dispatcher struct {
	transport Transport
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan Message

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher starts the worker. size is the queue capacity.
func NewDispatcher(t Transport, size int, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		transport: t,
		logger:    logger,
		metrics:   m,
		queue:     make(chan Message, size),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue hands m to the worker without blocking. It reports false when the
// queue is full or the dispatcher is closed; the message is then dropped.
func (d *Dispatcher) Enqueue(m Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(m, "dispatcher closed")
		return false
	}
	select {
	case d.queue <- m:
		return true
	default:
		d.drop(m, "queue full")
		return false
	}
}

func (d *Dispatcher) drop(m Message, reason string) {
	d.metrics.Mail(string(m.Kind), "dropped")
	d.logger.Error("mail dropped", "reason", reason, "kind", m.Kind, "message_id", m.ID, "subject", m.Subject)
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for m := range d.queue {
		d.send(m)
	}
}

func (d *Dispatcher) send(m Message) {
	ctx, cancel := context.WithTimeout(d.ctx, sendTimeout)
	defer cancel()

	start := time.Now()
	if err := d.transport.Send(ctx, m); err != nil {
		d.metrics.Mail(string(m.Kind), "failed")
		d.logger.Error("mail send failed", "kind", m.Kind, "message_id", m.ID, "err", err)
		return
	}
	d.metrics.Mail(string(m.Kind), "sent")
	d.logger.Debug("mail sent", "kind", m.Kind, "message_id", m.ID, "duration", time.Since(start))
}

// Close stops accepting messages and waits for the queue to drain. If ctx
// expires first, in-flight sends are cancelled and ctx.Err() is returned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-d.done
		return ctx.Err()
	}
}
