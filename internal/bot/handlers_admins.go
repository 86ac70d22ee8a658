package bot

import (
	"fmt"
	"strconv"

	"github.com/m3rciful/lecturebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/lecturebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// handleAdminsMenu shows the delegated-admin registry. Any admin can
// look; mutations are rejected for everyone but the root admin at the
// service layer.
func (b *Bot) handleAdminsMenu(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	admins, err := b.admins.Delegated(ctx)
	if err != nil {
		return b.replyErr(c, err)
	}
	text := fmt.Sprintf("Delegated admins: %d\nRoot admin: %d\n\nTap an admin to revoke, or use /addadmin <id> and /removeadmin <id>.",
		len(admins), b.access.RootID())
	return tghelpers.EditOrSendMD(c, text, adminListMarkup(admins))
}

func (b *Bot) handleAddAdminStart(c tele.Context) error {
	if !b.access.IsRoot(c.Sender().ID) {
		return c.Send(msgRootOnly)
	}
	b.states.StartFlow(c.Sender().ID, StepNewAdminID, nil)
	return c.Send("Send the numeric Telegram ID of the new admin:", cancelMarkup())
}

func (b *Bot) handleRemoveAdminStart(c tele.Context) error {
	if !b.access.IsRoot(c.Sender().ID) {
		return c.Send(msgRootOnly)
	}
	b.states.StartFlow(c.Sender().ID, StepRemoveAdminID, nil)
	return c.Send("Send the numeric Telegram ID of the admin to remove:", cancelMarkup())
}

func (b *Bot) handleRemoveAdminConfirm(c tele.Context) error {
	if !b.access.IsRoot(c.Sender().ID) {
		return c.Send(msgRootOnly)
	}
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf("Revoke admin rights from %d?", id),
		confirmMarkup(cbRemoveAdminYes, id, cbAdmins))
}

func (b *Bot) handleRemoveAdminExecute(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.admins.Remove(ctx, c.Sender().ID, id); err != nil {
		return b.replyErr(c, err)
	}
	return b.handleAdminsMenu(c)
}

// handleAddAdminCommand is the one-shot command variant of the add
// flow. A malformed argument gets a usage hint instead of silence.
func (b *Bot) handleAddAdminCommand(c tele.Context) error {
	id, ok := parseIDArg(c)
	if !ok {
		return c.Send("Usage: /addadmin <numeric user id>")
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.admins.Add(ctx, c.Sender().ID, id); err != nil {
		return b.replyErr(c, err)
	}
	return c.Send(fmt.Sprintf("Admin %d added.", id))
}

func (b *Bot) handleRemoveAdminCommand(c tele.Context) error {
	id, ok := parseIDArg(c)
	if !ok {
		return c.Send("Usage: /removeadmin <numeric user id>")
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.admins.Remove(ctx, c.Sender().ID, id); err != nil {
		return b.replyErr(c, err)
	}
	return c.Send(fmt.Sprintf("Admin %d removed.", id))
}

func parseIDArg(c tele.Context) (int64, bool) {
	args := c.Args()
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
