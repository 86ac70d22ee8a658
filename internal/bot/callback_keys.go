package bot

// Callback uniques. Payload, where present, is the numeric id of the
// entity the button acts on.
const (
	cbHome        = "home"
	cbSubjects    = "go_subjects"
	cbLinks       = "go_links"
	cbOpenSubject = "sub" // payload: subject id
	cbOpenLecture = "lec" // payload: lecture id
	cbReport      = "report_problem"
	cbMissing     = "missing_files"

	cbAdminPanel = "adm_panel"

	cbAddSubject        = "adm_add_subject"
	cbEditSubjectPick   = "adm_edit_subject"
	cbEditSubject       = "edit_sub" // payload: subject id
	cbDeleteSubjectPick = "adm_del_subject"
	cbDeleteSubject     = "del_sub"     // payload: subject id, shows confirmation
	cbDeleteSubjectYes  = "del_sub_yes" // payload: subject id, executes

	cbAddLecturePick         = "adm_add_lecture"
	cbAddLectureSubject      = "addlec_sub" // payload: subject id
	cbEditLecturePickSubject = "adm_edit_lecture"
	cbEditLectureSubject     = "edlec_sub" // payload: subject id
	cbEditLecture            = "edit_lec"  // payload: lecture id
	cbDeleteLecturePick      = "adm_del_lecture"
	cbDeleteLectureSubject   = "dellec_sub"  // payload: subject id
	cbDeleteLecture          = "del_lec"     // payload: lecture id, shows confirmation
	cbDeleteLectureYes       = "del_lec_yes" // payload: lecture id, executes

	cbManageLinks   = "adm_links"
	cbAddLink       = "adm_add_link"
	cbLinkMenu      = "lnk"       // payload: link id
	cbEditLinkTitle = "lnk_title" // payload: link id
	cbEditLinkURL   = "lnk_url"   // payload: link id
	cbLinkUp        = "lnk_up"    // payload: link id
	cbLinkDown      = "lnk_down"  // payload: link id
	cbDeleteLink    = "del_lnk"     // payload: link id, shows confirmation
	cbDeleteLinkYes = "del_lnk_yes" // payload: link id, executes

	cbBroadcast = "adm_broadcast"
	cbStats     = "adm_stats"

	cbAdmins         = "adm_admins"
	cbAddAdmin       = "adm_add_admin"
	cbRemoveAdmin    = "adm_rm_admin"
	cbRemoveAdminFor = "rm_adm"     // payload: admin id, shows confirmation
	cbRemoveAdminYes = "rm_adm_yes" // payload: admin id, executes

	cbMaintenanceOn  = "adm_maint_on"
	cbMaintenanceOff = "adm_maint_off"
)
