package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/wondertwin-ai/videoinvite/internal/store"
)

const defaultOutboxLimit = 500

// OutboxEntry is a message captured by the memory transport.
type OutboxEntry struct {
	ID      string    `json:"id"`
	SentAt  time.Time `json:"sent_at"`
	Message Message   `json:"message"`
}

// MemoryTransport records messages instead of delivering them. It backs
// local development and the /admin/outbox endpoint.
type MemoryTransport struct {
	outbox *store.Store[OutboxEntry]
	logger *slog.Logger
}

// NewMemoryTransport keeps at most limit messages (0 = unbounded).
func NewMemoryTransport(logger *slog.Logger, limit int) *MemoryTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryTransport{
		outbox: store.New[OutboxEntry]("msg", limit),
		logger: logger,
	}
}

// Send stores m in the outbox.
func (t *MemoryTransport) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := t.outbox.NextID()
	t.outbox.Set(id, OutboxEntry{ID: id, SentAt: time.Now().UTC(), Message: m})
	t.logger.Info("mail captured",
		"id", id,
		"kind", m.Kind,
		"to", m.To,
		"subject", m.Subject,
	)
	return nil
}

// Outbox returns a page of captured messages.
func (t *MemoryTransport) Outbox(cursor string, limit int) store.Page[OutboxEntry] {
	return t.outbox.Paginate(cursor, limit)
}

// Get returns the captured message with the given outbox ID.
func (t *MemoryTransport) Get(id string) (OutboxEntry, bool) {
	return t.outbox.Get(id)
}

// Len returns the number of captured messages.
func (t *MemoryTransport) Len() int {
	return t.outbox.Count()
}

// Messages returns every captured message in send order.
func (t *MemoryTransport) Messages() []Message {
	entries := t.outbox.List()
	out := make([]Message, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

// MessagesTo returns captured messages addressed to email.
func (t *MemoryTransport) MessagesTo(email string) []Message {
	entries := t.outbox.Filter(func(_ string, e OutboxEntry) bool {
		for _, a := range e.Message.To {
			if a.Email == email {
				return true
			}
		}
		return false
	})
	out := make([]Message, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

// Reset empties the outbox.
func (t *MemoryTransport) Reset() {
	t.outbox.Reset()
}
