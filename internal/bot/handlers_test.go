package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	coreconfig "github.com/m3rciful/lecturebot/core/config"
	tg "github.com/m3rciful/lecturebot/core/telegram"
	"github.com/m3rciful/lecturebot/internal/models"
	"github.com/m3rciful/lecturebot/internal/storage/memory"
)

// slowStore stretches the lecture insert long enough for a second update
// to arrive while the first is still in flight.
type slowStore struct {
	*memory.Store
}

func (s *slowStore) CreateLecture(ctx context.Context, subjectID int64, title, fileID string) (models.Lecture, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.CreateLecture(ctx, subjectID, title, fileID)
}

func TestDeleteSubjectRequiresConfirmation(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)
	ctx := context.Background()

	sub, err := store.CreateSubject(ctx, "Math")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}

	// First press only prompts; nothing is deleted.
	c := callbackCtx(testAdminID, cbDeleteSubject, sub.ID)
	if err := b.handleDeleteSubjectConfirm(c); err != nil {
		t.Fatalf("confirm prompt: %v", err)
	}
	if _, err := store.GetSubject(ctx, sub.ID); err != nil {
		t.Fatalf("subject deleted before confirmation: %v", err)
	}

	// Explicit confirm press performs the deletion.
	c = callbackCtx(testAdminID, cbDeleteSubjectYes, sub.ID)
	if err := b.handleDeleteSubjectExecute(c); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := store.GetSubject(ctx, sub.ID); err == nil {
		t.Fatal("subject survived confirmed deletion")
	}
}

func TestDeleteSubjectStaleButton(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)

	c := callbackCtx(testAdminID, cbDeleteSubjectYes, 999)
	if err := b.handleDeleteSubjectExecute(c); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := c.lastText(t); got != msgGone {
		t.Fatalf("reply = %q, want %q", got, msgGone)
	}
}

func TestAddSubjectFlow(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)

	start := callbackCtx(testAdminID, cbAddSubject, 0)
	if err := b.handleAddSubjectStart(start); err != nil {
		t.Fatalf("start flow: %v", err)
	}
	if got := b.states.GetState(testAdminID); got != StepSubjectName {
		t.Fatalf("state = %q, want %q", got, StepSubjectName)
	}

	reply := textCtx(testAdminID, "Linear Algebra")
	if err := b.states.ManagerHandler(reply); err != nil {
		t.Fatalf("flow continuation: %v", err)
	}

	subjects, err := store.ListSubjects(context.Background())
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(subjects) != 1 || subjects[0].Name != "Linear Algebra" {
		t.Fatalf("subjects = %v", subjects)
	}
	if b.states.InProgress(testAdminID) {
		t.Fatal("flow should be finished")
	}
}

func TestLectureUploadFlow(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)
	ctx := context.Background()

	sub, _ := store.CreateSubject(ctx, "Math")

	pick := callbackCtx(testAdminID, cbAddLectureSubject, sub.ID)
	if err := b.handleAddLectureStart(pick); err != nil {
		t.Fatalf("pick subject: %v", err)
	}

	title := textCtx(testAdminID, "Intro")
	if err := b.states.ManagerHandler(title); err != nil {
		t.Fatalf("title step: %v", err)
	}
	if got := b.states.GetState(testAdminID); got != StepLectureFile {
		t.Fatalf("state = %q, want %q", got, StepLectureFile)
	}

	// Plain text at the file step re-prompts instead of creating anything.
	noise := textCtx(testAdminID, "here you go")
	if err := b.states.ManagerHandler(noise); err != nil {
		t.Fatalf("noise step: %v", err)
	}
	if n, _ := store.CountLectures(ctx); n != 0 {
		t.Fatal("lecture created from plain text")
	}

	upload := documentCtx(testAdminID, "file-123")
	if err := b.states.ManagerHandler(upload); err != nil {
		t.Fatalf("file step: %v", err)
	}

	lectures, err := store.ListLectures(ctx, sub.ID)
	if err != nil {
		t.Fatalf("list lectures: %v", err)
	}
	if len(lectures) != 1 || lectures[0].Title != "Intro" || lectures[0].FileID != "file-123" {
		t.Fatalf("lectures = %+v", lectures)
	}
	if b.states.InProgress(testAdminID) {
		t.Fatal("flow should be finished")
	}
}

// Two rapid document updates from the same admin during the upload step
// must produce exactly one lecture; the second dispatch sees the cleared
// state and is dropped.
func TestConcurrentUploadsApplyOnce(t *testing.T) {
	store := memory.New()
	cfg := &coreconfig.Config{
		Telegram: coreconfig.TelegramConfig{
			Token:       "test-token",
			RootAdminID: testRootID,
		},
	}
	b := New(cfg, &slowStore{Store: store})
	mustAddAdmin(t, store, testAdminID)
	ctx := context.Background()

	sub, err := store.CreateSubject(ctx, "Algorithms")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	b.states.StartFlow(testAdminID, StepLectureFile, map[string]string{
		fieldSubjectID:    strconv.FormatInt(sub.ID, 10),
		fieldLectureTitle: "Intro",
	})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.states.ManagerHandler(documentCtx(testAdminID, "file-1")); err != nil {
				t.Errorf("continuation: %v", err)
			}
		}()
	}
	wg.Wait()

	lectures, err := store.ListLectures(ctx, sub.ID)
	if err != nil {
		t.Fatalf("list lectures: %v", err)
	}
	if len(lectures) != 1 {
		t.Fatalf("got %d lectures, want 1", len(lectures))
	}
}

func TestStartingNewFlowReplacesPending(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)

	_ = b.handleAddSubjectStart(callbackCtx(testAdminID, cbAddSubject, 0))
	_ = b.handleBroadcastStart(callbackCtx(testAdminID, cbBroadcast, 0))

	if got := b.states.GetState(testAdminID); got != StepBroadcastText {
		t.Fatalf("state = %q, want %q", got, StepBroadcastText)
	}
}

func TestHomeCancelsPendingFlow(t *testing.T) {
	b, _ := newTestBot(t)

	_ = b.handleReportStart(callbackCtx(testGuestID, cbReport, 0))
	if !b.states.InProgress(testGuestID) {
		t.Fatal("report flow should be pending")
	}

	if err := b.handleHome(callbackCtx(testGuestID, cbHome, 0)); err != nil {
		t.Fatalf("home: %v", err)
	}
	if b.states.InProgress(testGuestID) {
		t.Fatal("home should abandon the pending flow")
	}
}

// While a step is armed, stateless buttons must not fire; only home
// breaks out of the flow.
func TestButtonsIgnoredDuringFlow(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)

	reg := tg.NewRegistry()
	b.registerCallbacks(reg)

	_ = b.handleBroadcastStart(callbackCtx(testAdminID, cbBroadcast, 0))
	if got := b.states.GetState(testAdminID); got != StepBroadcastText {
		t.Fatalf("state = %q, want %q", got, StepBroadcastText)
	}

	subjects, ok := reg.GetCallback(cbSubjects)
	if !ok {
		t.Fatal("subjects callback not registered")
	}
	c := callbackCtx(testAdminID, cbSubjects, 0)
	if err := subjects(c); err != nil {
		t.Fatalf("subjects: %v", err)
	}
	if len(c.sent) != 0 {
		t.Fatalf("stateless button replied %v during an active flow", c.sent)
	}
	if got := b.states.GetState(testAdminID); got != StepBroadcastText {
		t.Fatalf("state = %q after stateless press, want %q", got, StepBroadcastText)
	}

	home, ok := reg.GetCallback(cbHome)
	if !ok {
		t.Fatal("home callback not registered")
	}
	if err := home(callbackCtx(testAdminID, cbHome, 0)); err != nil {
		t.Fatalf("home: %v", err)
	}
	if b.states.InProgress(testAdminID) {
		t.Fatal("home should abandon the pending flow")
	}
}

func TestRevokedAdminFlowIsDropped(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)

	_ = b.handleAddSubjectStart(callbackCtx(testAdminID, cbAddSubject, 0))
	if err := store.RemoveAdmin(context.Background(), testAdminID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	reply := textCtx(testAdminID, "Sneaky Subject")
	if err := b.states.ManagerHandler(reply); err != nil {
		t.Fatalf("continuation: %v", err)
	}
	if n, _ := store.CountSubjects(context.Background()); n != 0 {
		t.Fatal("revoked admin created a subject")
	}
	if b.states.InProgress(testAdminID) {
		t.Fatal("pending flow should be dropped")
	}
}

func TestMissingFilesFlowWithSkip(t *testing.T) {
	b, _ := newTestBot(t)

	_ = b.handleMissingStart(callbackCtx(testGuestID, cbMissing, 0))
	if err := b.states.ManagerHandler(textCtx(testGuestID, "Math")); err != nil {
		t.Fatalf("subject step: %v", err)
	}
	if err := b.states.ManagerHandler(textCtx(testGuestID, "Lecture 3")); err != nil {
		t.Fatalf("lecture step: %v", err)
	}

	// Irrelevant text keeps the step alive.
	if err := b.states.ManagerHandler(textCtx(testGuestID, "maybe later")); err != nil {
		t.Fatalf("noise step: %v", err)
	}
	if got := b.states.GetState(testGuestID); got != StepMissingUpload {
		t.Fatalf("state = %q, want %q", got, StepMissingUpload)
	}

	done := textCtx(testGuestID, "Skip")
	if err := b.states.ManagerHandler(done); err != nil {
		t.Fatalf("skip step: %v", err)
	}
	if b.states.InProgress(testGuestID) {
		t.Fatal("flow should be finished after skip")
	}
}

func TestAddAdminCommandUsageHint(t *testing.T) {
	b, _ := newTestBot(t)

	c := textCtx(testRootID, "/addadmin abc")
	c.args = []string{"abc"}
	if err := b.handleAddAdminCommand(c); err != nil {
		t.Fatalf("command: %v", err)
	}
	if got := c.lastText(t); !strings.HasPrefix(got, "Usage:") {
		t.Fatalf("reply = %q, want usage hint", got)
	}
}

func TestAddAdminCommandRootOnly(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)

	c := textCtx(testAdminID, "/addadmin 30")
	c.args = []string{"30"}
	if err := b.handleAddAdminCommand(c); err != nil {
		t.Fatalf("command: %v", err)
	}
	if got := c.lastText(t); got != msgRootOnly {
		t.Fatalf("reply = %q, want %q", got, msgRootOnly)
	}
	if ok, _ := store.IsAdmin(context.Background(), 30); ok {
		t.Fatal("delegated admin managed to add an admin")
	}
}

func TestAddAdminCommandByRoot(t *testing.T) {
	b, store := newTestBot(t)

	c := textCtx(testRootID, "/addadmin 30")
	c.args = []string{"30"}
	if err := b.handleAddAdminCommand(c); err != nil {
		t.Fatalf("command: %v", err)
	}
	if ok, _ := store.IsAdmin(context.Background(), 30); !ok {
		t.Fatal("admin not added")
	}
}

func TestMaintenanceToggle(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)

	if b.svc.Maintenance() {
		t.Fatal("maintenance should start disabled")
	}
	if err := b.handleMaintenanceOn(callbackCtx(testAdminID, cbMaintenanceOn, 0)); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !b.svc.Maintenance() {
		t.Fatal("maintenance not enabled")
	}
	if err := b.handleMaintenanceOff(callbackCtx(testAdminID, cbMaintenanceOff, 0)); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if b.svc.Maintenance() {
		t.Fatal("maintenance not disabled")
	}
}

func TestLinkReorderFromMenu(t *testing.T) {
	b, store := newTestBot(t)
	mustAddAdmin(t, store, testAdminID)
	ctx := context.Background()

	first, _ := store.CreateLink(ctx, "Site", "https://example.com")
	second, _ := store.CreateLink(ctx, "Forum", "https://example.org")

	if err := b.handleLinkUp(callbackCtx(testAdminID, cbLinkUp, second.ID)); err != nil {
		t.Fatalf("move up: %v", err)
	}

	links, err := store.ListLinks(ctx)
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	if links[0].ID != second.ID || links[1].ID != first.ID {
		t.Fatalf("order = %+v, want swapped", links)
	}
}
