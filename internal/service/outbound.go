package service

import (
	"context"

	tele "gopkg.in/telebot.v4"
)

// Outbound is the delivery side effect boundary of the services. The
// Telegram-backed implementation lives in the bot package; tests use a
// recording fake. Delivery failures are returned, not retried here.
type Outbound interface {
	Send(ctx context.Context, recipient int64, text string, markup *tele.ReplyMarkup) error
	SendDocument(ctx context.Context, recipient int64, doc *tele.Document) error
}
