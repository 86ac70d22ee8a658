package bot

import (
	"fmt"

	tghelpers "github.com/m3rciful/lecturebot/core/telegram/helpers"
	"github.com/m3rciful/lecturebot/core/telegram/callbacks"
	"github.com/m3rciful/lecturebot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) handleStart(c tele.Context) error {
	b.states.Clear(c.Sender().ID)
	return tghelpers.SendMD(c, msgWelcome, mainMenu())
}

// handleHome doubles as the universal cancel: it abandons any pending
// flow and shows the main menu.
func (b *Bot) handleHome(c tele.Context) error {
	b.states.Clear(c.Sender().ID)
	return tghelpers.EditOrSendMD(c, msgChooseService, mainMenu())
}

func (b *Bot) handleUnknownText(c tele.Context) error {
	return c.Send(msgChooseService, mainMenu())
}

func (b *Bot) handleSubjects(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	subjects, err := b.catalog.Subjects(ctx)
	if err != nil {
		return b.replyErr(c, err)
	}
	if len(subjects) == 0 {
		return tghelpers.EditOrSendMD(c, "No subjects yet.", homeMarkup())
	}
	return tghelpers.EditOrSendMD(c, "Pick a subject:", subjectListMarkup(subjects, cbOpenSubject, cbHome))
}

func (b *Bot) handleOpenSubject(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, homeMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	subject, err := b.catalog.Subject(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	lectures, err := b.catalog.Lectures(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	if len(lectures) == 0 {
		return tghelpers.EditOrSendMD(c,
			fmt.Sprintf("No lectures in %s yet.", subject.Name),
			subjectBackMarkup())
	}
	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf("Lectures in %s:", subject.Name),
		lectureListMarkup(lectures, cbOpenLecture, cbSubjects))
}

func (b *Bot) handleOpenLecture(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, homeMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	lecture, err := b.catalog.Lecture(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	doc := &tele.Document{
		File:    tele.File{FileID: lecture.FileID},
		Caption: lecture.Title,
	}
	if err := c.Send(doc); err != nil {
		return b.replyErr(c, err)
	}
	return c.Send("Anything else?", lectureNavMarkup(lecture.SubjectID))
}

func (b *Bot) handleLinks(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	links, err := b.links.List(ctx)
	if err != nil {
		return b.replyErr(c, err)
	}
	if len(links) == 0 {
		return tghelpers.EditOrSendMD(c, "No links yet.", homeMarkup())
	}
	return tghelpers.EditOrSendMD(c, "Important links:", linksMarkup(links))
}

func (b *Bot) handleReportStart(c tele.Context) error {
	b.states.StartFlow(c.Sender().ID, StepReportText, nil)
	return tghelpers.SendMD(c, "Describe the problem in one message:", cancelMarkup())
}

func (b *Bot) handleMissingStart(c tele.Context) error {
	b.states.StartFlow(c.Sender().ID, StepMissingSubject, nil)
	return tghelpers.SendMD(c, "Which subject has missing files?", cancelMarkup())
}

func subjectBackMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "↩️ Subjects", Unique: cbSubjects},
		{Text: "🏠 Home", Unique: cbHome},
	})
}

func lectureNavMarkup(subjectID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "↩️ More lectures", Unique: cbOpenSubject, Data: fmt.Sprintf("%d", subjectID)},
		{Text: "📚 Subjects", Unique: cbSubjects},
		{Text: "🏠 Home", Unique: cbHome},
	})
}
