package bot

import (
	"fmt"
	"strconv"

	"github.com/m3rciful/lecturebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/lecturebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// handleManageLinks renders the admin link list. It is re-rendered
// after every mutation so the shown order always reflects storage.
func (b *Bot) handleManageLinks(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	links, err := b.links.List(ctx)
	if err != nil {
		return b.replyErr(c, err)
	}
	if len(links) == 0 {
		return tghelpers.EditOrSendMD(c, "No links yet.", manageLinksMarkup(nil))
	}
	return tghelpers.EditOrSendMD(c, "Links (tap to manage):", manageLinksMarkup(links))
}

func (b *Bot) handleAddLinkStart(c tele.Context) error {
	b.states.StartFlow(c.Sender().ID, StepLinkTitle, nil)
	return c.Send("Send the link title:", cancelMarkup())
}

func (b *Bot) handleLinkMenu(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	link, err := b.links.Get(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf("%s\n%s", link.Title, link.URL),
		linkMenuMarkup(id))
}

func (b *Bot) handleEditLinkTitleStart(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	b.states.StartFlow(c.Sender().ID, StepEditLinkTitle, map[string]string{
		fieldLinkID: strconv.FormatInt(id, 10),
	})
	return c.Send("Send the new link title:", cancelMarkup())
}

func (b *Bot) handleEditLinkURLStart(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	b.states.StartFlow(c.Sender().ID, StepEditLinkURL, map[string]string{
		fieldLinkID: strconv.FormatInt(id, 10),
	})
	return c.Send("Send the new URL:", cancelMarkup())
}

func (b *Bot) handleLinkUp(c tele.Context) error {
	return b.moveLink(c, true)
}

func (b *Bot) handleLinkDown(c tele.Context) error {
	return b.moveLink(c, false)
}

func (b *Bot) moveLink(c tele.Context, up bool) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if up {
		err = b.links.MoveUp(ctx, id)
	} else {
		err = b.links.MoveDown(ctx, id)
	}
	if err != nil {
		return b.replyErr(c, err)
	}
	return b.handleManageLinks(c)
}

func (b *Bot) handleDeleteLinkConfirm(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	link, err := b.links.Get(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf("Delete link %s?", link.Title),
		confirmMarkup(cbDeleteLinkYes, id, cbManageLinks))
}

func (b *Bot) handleDeleteLinkExecute(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.links.Delete(ctx, c.Sender().ID, id); err != nil {
		return b.replyErr(c, err)
	}
	return b.handleManageLinks(c)
}
