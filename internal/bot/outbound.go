package bot

import (
	"context"
	"errors"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

var errOutboundUnbound = errors.New("bot: outbound channel not bound yet")

// Outbound adapts the running tele.Bot to the service-layer outbound
// channel. The bot instance only exists once RunTelegram has started,
// so the adapter is constructed early and bound from the OnStart hook.
type Outbound struct {
	bot atomic.Pointer[tele.Bot]
}

// NewOutbound returns an unbound adapter.
func NewOutbound() *Outbound {
	return &Outbound{}
}

// Bind attaches the live bot instance.
func (o *Outbound) Bind(b *tele.Bot) {
	o.bot.Store(b)
}

// Send delivers a text message to a single recipient.
func (o *Outbound) Send(ctx context.Context, recipient int64, text string, markup *tele.ReplyMarkup) error {
	b := o.bot.Load()
	if b == nil {
		return errOutboundUnbound
	}
	if markup != nil {
		_, err := b.Send(&tele.User{ID: recipient}, text, markup)
		return err
	}
	_, err := b.Send(&tele.User{ID: recipient}, text)
	return err
}

// SendDocument delivers a document to a single recipient.
func (o *Outbound) SendDocument(ctx context.Context, recipient int64, doc *tele.Document) error {
	b := o.bot.Load()
	if b == nil {
		return errOutboundUnbound
	}
	_, err := b.Send(&tele.User{ID: recipient}, doc)
	return err
}
