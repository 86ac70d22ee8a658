package bot

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tghelpers "github.com/m3rciful/lecturebot/core/telegram/helpers"
	"github.com/m3rciful/lecturebot/core/telegram/state"
	"github.com/m3rciful/lecturebot/internal/service"
	"github.com/m3rciful/lecturebot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// registerFlowHandlers wires every conversation step to its
// continuation handler. Called once from New.
func (b *Bot) registerFlowHandlers() {
	state.RegisterHandler(StepSubjectName, b.adminStep(b.stepSubjectName))
	state.RegisterHandler(StepEditSubjectName, b.adminStep(b.stepEditSubjectName))
	state.RegisterHandler(StepLectureTitle, b.adminStep(b.stepLectureTitle))
	state.RegisterHandler(StepLectureFile, b.adminStep(b.stepLectureFile))
	state.RegisterHandler(StepEditLectureTitle, b.adminStep(b.stepEditLectureTitle))
	state.RegisterHandler(StepLinkTitle, b.adminStep(b.stepLinkTitle))
	state.RegisterHandler(StepLinkURL, b.adminStep(b.stepLinkURL))
	state.RegisterHandler(StepEditLinkTitle, b.adminStep(b.stepEditLinkTitle))
	state.RegisterHandler(StepEditLinkURL, b.adminStep(b.stepEditLinkURL))
	state.RegisterHandler(StepBroadcastText, b.adminStep(b.stepBroadcastText))
	state.RegisterHandler(StepNewAdminID, b.adminStep(b.stepNewAdminID))
	state.RegisterHandler(StepRemoveAdminID, b.adminStep(b.stepRemoveAdminID))

	state.RegisterHandler(StepReportText, b.stepReportText)
	state.RegisterHandler(StepMissingSubject, b.stepMissingSubject)
	state.RegisterHandler(StepMissingLecture, b.stepMissingLecture)
	state.RegisterHandler(StepMissingUpload, b.stepMissingUpload)
}

// adminStep guards flow continuations that only admins can start. If
// rights were revoked mid-flow the pending flow is silently dropped.
func (b *Bot) adminStep(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !b.isAdmin(c.Sender().ID) {
			b.states.Clear(c.Sender().ID)
			return nil
		}
		return h(c)
	}
}

// trimmedText returns the message text with surrounding whitespace
// removed; empty means the update carried no usable text.
func trimmedText(c tele.Context) string {
	return strings.TrimSpace(c.Text())
}

// --- subject flows ---

func (b *Bot) stepSubjectName(c tele.Context) error {
	name := trimmedText(c)
	if name == "" {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	uid := c.Sender().ID
	subject, err := b.catalog.AddSubject(ctx, uid, name)
	if errors.Is(err, storage.ErrDuplicate) {
		return c.Send("A subject with that name already exists. Try another name:", cancelMarkup())
	}
	if err != nil {
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send(fmt.Sprintf("Subject %s added.", subject.Name), adminPanelBackMarkup())
}

func (b *Bot) stepEditSubjectName(c tele.Context) error {
	name := trimmedText(c)
	if name == "" {
		return nil
	}
	uid := c.Sender().ID
	id, ok := b.states.FieldInt64(uid, fieldSubjectID)
	if !ok {
		b.states.Clear(uid)
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.catalog.RenameSubject(ctx, uid, id, name); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return c.Send("A subject with that name already exists. Try another name:", cancelMarkup())
		}
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send("Subject renamed.", adminPanelBackMarkup())
}

// --- lecture flows ---

func (b *Bot) stepLectureTitle(c tele.Context) error {
	title := trimmedText(c)
	if title == "" {
		return nil
	}
	uid := c.Sender().ID
	b.states.Advance(uid, StepLectureFile, map[string]string{fieldLectureTitle: title})
	return c.Send("Now send the lecture file (PDF):", cancelMarkup())
}

func (b *Bot) stepLectureFile(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Document == nil {
		return c.Send("That is not a file. Send the lecture as a document:", cancelMarkup())
	}
	uid := c.Sender().ID
	subjectID, ok := b.states.FieldInt64(uid, fieldSubjectID)
	title, okTitle := b.states.Field(uid, fieldLectureTitle)
	if !ok || !okTitle {
		b.states.Clear(uid)
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	lecture, err := b.catalog.AddLecture(ctx, uid, subjectID, title, msg.Document.FileID)
	if err != nil {
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send(fmt.Sprintf("Lecture %s uploaded.", lecture.Title), adminPanelBackMarkup())
}

func (b *Bot) stepEditLectureTitle(c tele.Context) error {
	title := trimmedText(c)
	if title == "" {
		return nil
	}
	uid := c.Sender().ID
	id, ok := b.states.FieldInt64(uid, fieldLectureID)
	if !ok {
		b.states.Clear(uid)
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.catalog.RenameLecture(ctx, uid, id, title); err != nil {
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send("Lecture renamed.", adminPanelBackMarkup())
}

// --- link flows ---

func (b *Bot) stepLinkTitle(c tele.Context) error {
	title := trimmedText(c)
	if title == "" {
		return nil
	}
	uid := c.Sender().ID
	b.states.Advance(uid, StepLinkURL, map[string]string{fieldLinkTitle: title})
	return c.Send("Now send the URL:", cancelMarkup())
}

func (b *Bot) stepLinkURL(c tele.Context) error {
	raw := trimmedText(c)
	if raw == "" {
		return nil
	}
	if !validURL(raw) {
		return c.Send("That does not look like a URL. Send a full http(s) link:", cancelMarkup())
	}
	uid := c.Sender().ID
	title, ok := b.states.Field(uid, fieldLinkTitle)
	if !ok {
		b.states.Clear(uid)
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	link, err := b.links.Add(ctx, uid, title, raw)
	if err != nil {
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send(fmt.Sprintf("Link %s added.", link.Title), adminPanelBackMarkup())
}

func (b *Bot) stepEditLinkTitle(c tele.Context) error {
	title := trimmedText(c)
	if title == "" {
		return nil
	}
	uid := c.Sender().ID
	id, ok := b.states.FieldInt64(uid, fieldLinkID)
	if !ok {
		b.states.Clear(uid)
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.links.Rename(ctx, uid, id, title); err != nil {
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send("Link renamed.", adminPanelBackMarkup())
}

func (b *Bot) stepEditLinkURL(c tele.Context) error {
	raw := trimmedText(c)
	if raw == "" {
		return nil
	}
	if !validURL(raw) {
		return c.Send("That does not look like a URL. Send a full http(s) link:", cancelMarkup())
	}
	uid := c.Sender().ID
	id, ok := b.states.FieldInt64(uid, fieldLinkID)
	if !ok {
		b.states.Clear(uid)
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.links.SetURL(ctx, uid, id, raw); err != nil {
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send("Link URL updated.", adminPanelBackMarkup())
}

// --- broadcast and admin registry flows ---

func (b *Bot) stepBroadcastText(c tele.Context) error {
	text := trimmedText(c)
	if text == "" {
		return nil
	}
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)
	res, err := b.broadcast.ToAllUsers(ctx, uid, text)
	if err != nil {
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send(fmt.Sprintf("Broadcast sent: %d delivered, %d failed.", res.Delivered, res.Failed), adminPanelBackMarkup())
}

func (b *Bot) stepNewAdminID(c tele.Context) error {
	uid := c.Sender().ID
	id, err := strconv.ParseInt(trimmedText(c), 10, 64)
	if err != nil || id <= 0 {
		return c.Send("Send a numeric Telegram user ID:", cancelMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.admins.Add(ctx, uid, id); err != nil {
		if errors.Is(err, service.ErrRootOnly) || errors.Is(err, service.ErrRootImmutable) {
			b.states.Clear(uid)
			return c.Send(msgRootOnly)
		}
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send(fmt.Sprintf("Admin %d added.", id), adminPanelBackMarkup())
}

func (b *Bot) stepRemoveAdminID(c tele.Context) error {
	uid := c.Sender().ID
	id, err := strconv.ParseInt(trimmedText(c), 10, 64)
	if err != nil || id <= 0 {
		return c.Send("Send a numeric Telegram user ID:", cancelMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.admins.Remove(ctx, uid, id); err != nil {
		if errors.Is(err, service.ErrRootOnly) || errors.Is(err, service.ErrRootImmutable) {
			b.states.Clear(uid)
			return c.Send(msgRootOnly)
		}
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send(fmt.Sprintf("Admin %d removed.", id), adminPanelBackMarkup())
}

// --- student flows ---

func (b *Bot) stepReportText(c tele.Context) error {
	text := trimmedText(c)
	if text == "" {
		return nil
	}
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)
	report := fmt.Sprintf("⚠️ Problem report from %d:\n\n%s", uid, text)
	if _, err := b.broadcast.ToAdmins(ctx, report, ""); err != nil {
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send("Thanks, your report was forwarded to the admins.", homeMarkup())
}

func (b *Bot) stepMissingSubject(c tele.Context) error {
	text := trimmedText(c)
	if text == "" {
		return nil
	}
	uid := c.Sender().ID
	b.states.Advance(uid, StepMissingLecture, map[string]string{fieldMissingSubject: text})
	return c.Send("Which lecture is missing?", cancelMarkup())
}

func (b *Bot) stepMissingLecture(c tele.Context) error {
	text := trimmedText(c)
	if text == "" {
		return nil
	}
	uid := c.Sender().ID
	b.states.Advance(uid, StepMissingUpload, map[string]string{fieldMissingLecture: text})
	return c.Send(fmt.Sprintf("If you have the file, send it now. Otherwise reply %q.", msgSkipKeyword), cancelMarkup())
}

// stepMissingUpload accepts either a document or the skip keyword;
// anything else re-prompts.
func (b *Bot) stepMissingUpload(c tele.Context) error {
	uid := c.Sender().ID
	fileID := ""
	if msg := c.Message(); msg != nil && msg.Document != nil {
		fileID = msg.Document.FileID
	} else if !strings.EqualFold(trimmedText(c), msgSkipKeyword) {
		return c.Send(fmt.Sprintf("Send a file or reply %q.", msgSkipKeyword), cancelMarkup())
	}

	subject, _ := b.states.Field(uid, fieldMissingSubject)
	lecture, _ := b.states.Field(uid, fieldMissingLecture)
	ctx := tghelpers.BuildContext(c)
	report := fmt.Sprintf("📂 Missing files report from %d:\nSubject: %s\nLecture: %s", uid, subject, lecture)
	if _, err := b.broadcast.ToAdmins(ctx, report, fileID); err != nil {
		return b.replyErr(c, err)
	}
	b.states.Clear(uid)
	return c.Send("Thanks, the admins were notified.", homeMarkup())
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
