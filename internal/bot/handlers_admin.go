package bot

import (
	"fmt"
	"strconv"

	"github.com/m3rciful/lecturebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/lecturebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) handleAdminPanel(c tele.Context) error {
	b.states.Clear(c.Sender().ID)
	return tghelpers.EditOrSendMD(c, "Admin panel:", adminPanelMarkup())
}

// --- subjects ---

func (b *Bot) handleAddSubjectStart(c tele.Context) error {
	b.states.StartFlow(c.Sender().ID, StepSubjectName, nil)
	return c.Send("Send the new subject name:", cancelMarkup())
}

func (b *Bot) handleEditSubjectPick(c tele.Context) error {
	return b.sendSubjectPicker(c, cbEditSubject, "Pick a subject to rename:")
}

func (b *Bot) handleEditSubjectStart(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	subject, err := b.catalog.Subject(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	b.states.StartFlow(c.Sender().ID, StepEditSubjectName, map[string]string{
		fieldSubjectID: strconv.FormatInt(id, 10),
	})
	return c.Send(fmt.Sprintf("Send the new name for %s:", subject.Name), cancelMarkup())
}

func (b *Bot) handleDeleteSubjectPick(c tele.Context) error {
	return b.sendSubjectPicker(c, cbDeleteSubject, "Pick a subject to delete:")
}

// handleDeleteSubjectConfirm only shows the confirmation prompt; the
// subject is untouched until the explicit confirm press.
func (b *Bot) handleDeleteSubjectConfirm(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	subject, err := b.catalog.Subject(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf("Delete %s and all of its lectures?", subject.Name),
		confirmMarkup(cbDeleteSubjectYes, id, cbAdminPanel))
}

func (b *Bot) handleDeleteSubjectExecute(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.catalog.DeleteSubject(ctx, c.Sender().ID, id); err != nil {
		return b.replyErr(c, err)
	}
	return tghelpers.EditOrSendMD(c, "Subject deleted.", adminPanelBackMarkup())
}

// --- lectures ---

func (b *Bot) handleAddLecturePick(c tele.Context) error {
	return b.sendSubjectPicker(c, cbAddLectureSubject, "Pick the subject for the new lecture:")
}

func (b *Bot) handleAddLectureStart(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	subject, err := b.catalog.Subject(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	b.states.StartFlow(c.Sender().ID, StepLectureTitle, map[string]string{
		fieldSubjectID: strconv.FormatInt(id, 10),
	})
	return c.Send(fmt.Sprintf("Send the lecture title for %s:", subject.Name), cancelMarkup())
}

func (b *Bot) handleEditLecturePickSubject(c tele.Context) error {
	return b.sendSubjectPicker(c, cbEditLectureSubject, "Pick the subject of the lecture:")
}

func (b *Bot) handleEditLecturePick(c tele.Context) error {
	return b.sendLecturePicker(c, cbEditLecture, "Pick a lecture to rename:")
}

func (b *Bot) handleEditLectureStart(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	lecture, err := b.catalog.Lecture(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	b.states.StartFlow(c.Sender().ID, StepEditLectureTitle, map[string]string{
		fieldLectureID: strconv.FormatInt(id, 10),
	})
	return c.Send(fmt.Sprintf("Send the new title for %s:", lecture.Title), cancelMarkup())
}

func (b *Bot) handleDeleteLecturePickSubject(c tele.Context) error {
	return b.sendSubjectPicker(c, cbDeleteLectureSubject, "Pick the subject of the lecture:")
}

func (b *Bot) handleDeleteLecturePick(c tele.Context) error {
	return b.sendLecturePicker(c, cbDeleteLecture, "Pick a lecture to delete:")
}

func (b *Bot) handleDeleteLectureConfirm(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	lecture, err := b.catalog.Lecture(ctx, id)
	if err != nil {
		return b.replyErr(c, err)
	}
	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf("Delete lecture %s?", lecture.Title),
		confirmMarkup(cbDeleteLectureYes, id, cbAdminPanel))
}

func (b *Bot) handleDeleteLectureExecute(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.catalog.DeleteLecture(ctx, c.Sender().ID, id); err != nil {
		return b.replyErr(c, err)
	}
	return tghelpers.EditOrSendMD(c, "Lecture deleted.", adminPanelBackMarkup())
}

// --- broadcast, stats, maintenance ---

func (b *Bot) handleBroadcastStart(c tele.Context) error {
	b.states.StartFlow(c.Sender().ID, StepBroadcastText, nil)
	return c.Send("Send the announcement text:", cancelMarkup())
}

func (b *Bot) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	stats, err := b.catalog.Stats(ctx)
	if err != nil {
		return b.replyErr(c, err)
	}
	text := fmt.Sprintf("📊 Stats\n\nSubjects: %d\nLectures: %d\nUsers: %d",
		stats.Subjects, stats.Lectures, stats.Users)
	return tghelpers.EditOrSendMD(c, text, adminPanelBackMarkup())
}

func (b *Bot) handleMaintenanceOn(c tele.Context) error {
	b.svc.SetMaintenance(true)
	b.audit.Record(c.Sender().ID, "Enabled Maintenance Mode")
	return tghelpers.EditOrSendMD(c, "Maintenance mode enabled. Only admins can use the bot.", adminPanelBackMarkup())
}

func (b *Bot) handleMaintenanceOff(c tele.Context) error {
	b.svc.SetMaintenance(false)
	b.audit.Record(c.Sender().ID, "Disabled Maintenance Mode")
	return tghelpers.EditOrSendMD(c, "Maintenance mode disabled.", adminPanelBackMarkup())
}

// --- shared pickers ---

func (b *Bot) sendSubjectPicker(c tele.Context, unique, prompt string) error {
	ctx := tghelpers.BuildContext(c)
	subjects, err := b.catalog.Subjects(ctx)
	if err != nil {
		return b.replyErr(c, err)
	}
	if len(subjects) == 0 {
		return tghelpers.EditOrSendMD(c, "No subjects yet. Add one first.", adminPanelBackMarkup())
	}
	return tghelpers.EditOrSendMD(c, prompt, subjectListMarkup(subjects, unique, cbAdminPanel))
}

func (b *Bot) sendLecturePicker(c tele.Context, unique, prompt string) error {
	subjectID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Send(msgGone, adminPanelBackMarkup())
	}
	ctx := tghelpers.BuildContext(c)
	lectures, err := b.catalog.Lectures(ctx, subjectID)
	if err != nil {
		return b.replyErr(c, err)
	}
	if len(lectures) == 0 {
		return tghelpers.EditOrSendMD(c, "This subject has no lectures.", adminPanelBackMarkup())
	}
	return tghelpers.EditOrSendMD(c, prompt, lectureListMarkup(lectures, unique, cbAdminPanel))
}
