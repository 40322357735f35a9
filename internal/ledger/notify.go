package ledger

import (
	"github.com/rs/zerolog"
)

// Notification is an outbound Telegram message produced by a committed
// ledger mutation. Delivery is best-effort: the ledger never waits for
// it and never rolls back state when it fails.
type Notification struct {
	ChatID int64
	Text   string
}

// Queue decouples ledger transactions from the chat transport. Mutations
// enqueue after commit; the worker drains and sends. A full queue drops
// the message with a warning rather than blocking a ledger call.
type Queue struct {
	ch  chan Notification
	log zerolog.Logger
}

func NewQueue(size int, log zerolog.Logger) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{
		ch:  make(chan Notification, size),
		log: log.With().Str("component", "notify").Logger(),
	}
}

// Emit enqueues a notification without blocking.
func (q *Queue) Emit(n Notification) {
	select {
	case q.ch <- n:
	default:
		q.log.Warn().Int64("chat_id", n.ChatID).Msg("notification queue full, dropping message")
	}
}

// Events exposes the queue for the dispatcher worker.
func (q *Queue) Events() <-chan Notification {
	return q.ch
}

// Close stops the queue; pending notifications can still be drained.
func (q *Queue) Close() {
	close(q.ch)
}
