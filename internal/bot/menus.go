package bot

import (
	"fmt"
	"strconv"

	"github.com/m3rciful/lecturebot/core/telegram/keyboard"
	"github.com/m3rciful/lecturebot/internal/models"

	tele "gopkg.in/telebot.v4"
)

func mainMenu() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "📚 Subjects", Unique: cbSubjects}},
		[]keyboard.InlineBtn{{Text: "🔗 Important links", Unique: cbLinks}},
		[]keyboard.InlineBtn{
			{Text: "⚠️ Report a problem", Unique: cbReport},
			{Text: "📂 Missing files", Unique: cbMissing},
		},
	)
}

func homeMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🏠 Home", Unique: cbHome},
	})
}

// cancelMarkup is shown under flow prompts; pressing it abandons the
// pending flow via the home handler.
func cancelMarkup() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(cbHome)
}

func adminPanelMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "➕ Add subject", Unique: cbAddSubject},
			{Text: "✏️ Edit subject", Unique: cbEditSubjectPick},
		},
		[]keyboard.InlineBtn{
			{Text: "🗑 Delete subject", Unique: cbDeleteSubjectPick},
			{Text: "📤 Upload lecture", Unique: cbAddLecturePick},
		},
		[]keyboard.InlineBtn{
			{Text: "✏️ Edit lecture", Unique: cbEditLecturePickSubject},
			{Text: "🗑 Delete lecture", Unique: cbDeleteLecturePick},
		},
		[]keyboard.InlineBtn{
			{Text: "🔗 Manage links", Unique: cbManageLinks},
			{Text: "📣 Broadcast", Unique: cbBroadcast},
		},
		[]keyboard.InlineBtn{
			{Text: "📊 Stats", Unique: cbStats},
			{Text: "👥 Admins", Unique: cbAdmins},
		},
		[]keyboard.InlineBtn{
			{Text: "🔧 Maintenance on", Unique: cbMaintenanceOn},
			{Text: "✅ Maintenance off", Unique: cbMaintenanceOff},
		},
		[]keyboard.InlineBtn{{Text: "🏠 Home", Unique: cbHome}},
	)
}

func adminPanelBackMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "↩️ Admin panel", Unique: cbAdminPanel},
		{Text: "🏠 Home", Unique: cbHome},
	})
}

// subjectListMarkup renders one button per subject carrying the given
// unique, plus a trailing back row.
func subjectListMarkup(subjects []models.Subject, unique string, backUnique string) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(subjects)+1)
	for _, s := range subjects {
		btns = append(btns, keyboard.InlineBtn{
			Text:   s.Name,
			Unique: unique,
			Data:   strconv.FormatInt(s.ID, 10),
		})
	}
	btns = append(btns, keyboard.InlineBtn{Text: "↩️ Back", Unique: backUnique})
	return keyboard.InlineButtons(btns)
}

func lectureListMarkup(lectures []models.Lecture, unique string, backUnique string) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(lectures)+1)
	for _, l := range lectures {
		btns = append(btns, keyboard.InlineBtn{
			Text:   l.Title,
			Unique: unique,
			Data:   strconv.FormatInt(l.ID, 10),
		})
	}
	btns = append(btns, keyboard.InlineBtn{Text: "↩️ Back", Unique: backUnique})
	return keyboard.InlineButtons(btns)
}

// linksMarkup renders the public links view: every link is a URL button.
func linksMarkup(links []models.Link) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(links)+1)
	for _, l := range links {
		rows = append(rows, markup.Row(markup.URL(l.Title, l.URL)))
	}
	rows = append(rows, markup.Row(*homeBtn(markup)))
	markup.Inline(rows...)
	return markup
}

func homeBtn(markup *tele.ReplyMarkup) *tele.Btn {
	b := markup.Data("🏠 Home", cbHome)
	return &b
}

// manageLinksMarkup renders the admin links list; each link opens its
// own submenu.
func manageLinksMarkup(links []models.Link) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(links)+2)
	for i, l := range links {
		btns = append(btns, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%d. %s", i+1, l.Title),
			Unique: cbLinkMenu,
			Data:   strconv.FormatInt(l.ID, 10),
		})
	}
	btns = append(btns,
		keyboard.InlineBtn{Text: "➕ Add link", Unique: cbAddLink},
		keyboard.InlineBtn{Text: "↩️ Admin panel", Unique: cbAdminPanel},
	)
	return keyboard.InlineButtons(btns)
}

func linkMenuMarkup(id int64) *tele.ReplyMarkup {
	data := strconv.FormatInt(id, 10)
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✏️ Rename", Unique: cbEditLinkTitle, Data: data},
			{Text: "🔗 Change URL", Unique: cbEditLinkURL, Data: data},
		},
		[]keyboard.InlineBtn{
			{Text: "⬆️ Move up", Unique: cbLinkUp, Data: data},
			{Text: "⬇️ Move down", Unique: cbLinkDown, Data: data},
		},
		[]keyboard.InlineBtn{
			{Text: "🗑 Delete", Unique: cbDeleteLink, Data: data},
			{Text: "↩️ Back", Unique: cbManageLinks},
		},
	)
}

// confirmMarkup renders the second phase of a destructive action:
// explicit confirm carrying the id, and a cancel that goes back without
// touching anything.
func confirmMarkup(yesUnique string, id int64, cancelUnique string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Yes, delete", Unique: yesUnique, Data: strconv.FormatInt(id, 10)},
		{Text: "❌ Cancel", Unique: cancelUnique},
	})
}

// adminListMarkup renders delegated admins for removal plus the add
// entry point.
func adminListMarkup(admins []int64) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(admins)+2)
	for _, id := range admins {
		btns = append(btns, keyboard.InlineBtn{
			Text:   strconv.FormatInt(id, 10),
			Unique: cbRemoveAdminFor,
			Data:   strconv.FormatInt(id, 10),
		})
	}
	btns = append(btns,
		keyboard.InlineBtn{Text: "➕ Add admin", Unique: cbAddAdmin},
		keyboard.InlineBtn{Text: "↩️ Admin panel", Unique: cbAdminPanel},
	)
	return keyboard.InlineButtons(btns)
}
