package bot

import "github.com/m3rciful/lecturebot/core/telegram/state"

// Conversation steps. A user is in at most one of these at a time;
// starting a new flow replaces whatever step was pending.
const (
	// Subject management.
	StepSubjectName     state.State = "await_subject_name"
	StepEditSubjectName state.State = "await_edit_subject_name"

	// Lecture upload and editing.
	StepLectureTitle     state.State = "await_lecture_title"
	StepLectureFile      state.State = "await_lecture_file"
	StepEditLectureTitle state.State = "await_edit_lecture_title"

	// Important-links management.
	StepLinkTitle     state.State = "await_link_title"
	StepLinkURL       state.State = "await_link_url"
	StepEditLinkTitle state.State = "await_edit_link_title"
	StepEditLinkURL   state.State = "await_edit_link_url"

	// Student-facing flows.
	StepReportText     state.State = "await_report_text"
	StepMissingSubject state.State = "await_missing_subject"
	StepMissingLecture state.State = "await_missing_lecture"
	StepMissingUpload  state.State = "await_missing_upload"

	// Broadcast and admin registry.
	StepBroadcastText state.State = "await_broadcast_text"
	StepNewAdminID    state.State = "await_new_admin_id"
	StepRemoveAdminID state.State = "await_remove_admin_id"
)

// Field keys for partial flow input.
const (
	fieldSubjectID      = "subject_id"
	fieldLectureID      = "lecture_id"
	fieldLinkID         = "link_id"
	fieldLectureTitle   = "lecture_title"
	fieldLinkTitle      = "link_title"
	fieldMissingSubject = "missing_subject"
	fieldMissingLecture = "missing_lecture"
)
