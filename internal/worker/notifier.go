package worker

import (
	"context"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/rs/zerolog"

	"horda-bot/internal/ledger"
)

// Notifier drains the ledger's outbound queue and delivers each message
// over Telegram. Delivery is fire-and-forget: a failed send is logged
// and dropped, never retried, and never reported back to the ledger.
type Notifier struct {
	Bot   *telego.Bot
	Queue *ledger.Queue
	Log   zerolog.Logger
}

func NewNotifier(bot *telego.Bot, queue *ledger.Queue, log zerolog.Logger) *Notifier {
	return &Notifier{
		Bot:   bot,
		Queue: queue,
		Log:   log.With().Str("component", "notifier").Logger(),
	}
}

// Run blocks until ctx is cancelled or the queue is closed.
func (n *Notifier) Run(ctx context.Context) {
	n.Log.Info().Msg("notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			n.Log.Info().Msg("notification dispatcher stopped")
			return
		case note, ok := <-n.Queue.Events():
			if !ok {
				n.Log.Info().Msg("notification queue closed")
				return
			}
			n.send(ctx, note)
		}
	}
}

func (n *Notifier) send(ctx context.Context, note ledger.Notification) {
	_, err := n.Bot.SendMessage(ctx, tu.Message(
		tu.ID(note.ChatID),
		note.Text,
	).WithParseMode(telego.ModeMarkdown))
	if err != nil {
		n.Log.Warn().Err(err).Int64("chat_id", note.ChatID).Msg("failed to deliver notification")
		return
	}
	n.Log.Debug().Int64("chat_id", note.ChatID).Msg("notification delivered")
}
