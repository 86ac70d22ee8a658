package bot

import (
	"errors"
	"log/slog"

	"github.com/m3rciful/lecturebot/core/logger"
	tghelpers "github.com/m3rciful/lecturebot/core/telegram/helpers"
	"github.com/m3rciful/lecturebot/internal/service"
	"github.com/m3rciful/lecturebot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// replyErr translates service errors into user-facing replies. Stale
// references (deleted entities behind old buttons) clear any pending
// flow so the user lands back on solid ground.
func (b *Bot) replyErr(c tele.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.states.Clear(c.Sender().ID)
		return c.Send(msgGone, homeMarkup())
	case errors.Is(err, service.ErrRootOnly), errors.Is(err, service.ErrRootImmutable):
		return c.Send(msgRootOnly)
	default:
		ctx := tghelpers.BuildContext(c)
		logger.Error(ctx, "tg", "handler.failed",
			slog.String("err", err.Error()),
		)
		b.states.Clear(c.Sender().ID)
		return c.Send(msgInternal, homeMarkup())
	}
}
