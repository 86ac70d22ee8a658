package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/lecturebot/internal/access"
	"github.com/m3rciful/lecturebot/internal/storage/memory"
)

const rootID int64 = 10

func TestBroadcastContinuesPastFailures(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	for _, id := range []int64{100, 101, 102} {
		if err := store.RegisterUser(ctx, id); err != nil {
			t.Fatalf("register user: %v", err)
		}
	}

	out := newFakeOutbound()
	out.failFor[101] = errors.New("forbidden: bot was blocked by the user")

	s := NewBroadcast(store, access.NewResolver(rootID, store), out, testAudit(t))
	res, err := s.ToAllUsers(ctx, rootID, "exam moved to Friday")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	if res.Recipients != 3 || res.Delivered != 2 || res.Failed != 1 {
		t.Fatalf("result = %+v, want {3 2 1}", res)
	}
	for _, m := range out.texts() {
		if m.Recipient == 101 {
			t.Fatal("failed recipient should not appear in deliveries")
		}
		if !strings.HasPrefix(m.Text, "Announcement:") {
			t.Fatalf("missing announcement prefix: %q", m.Text)
		}
	}
}

func TestReportReachesRootAndDelegatedAdmins(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	if err := store.AddAdmin(ctx, 20); err != nil {
		t.Fatalf("add admin: %v", err)
	}

	out := newFakeOutbound()
	s := NewBroadcast(store, access.NewResolver(rootID, store), out, testAudit(t))

	res, err := s.ToAdmins(ctx, "projector is broken", "")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if res.Recipients != 2 || res.Delivered != 2 {
		t.Fatalf("result = %+v, want both admins reached", res)
	}

	got := map[int64]bool{}
	for _, m := range out.texts() {
		got[m.Recipient] = true
	}
	if !got[rootID] || !got[20] {
		t.Fatalf("recipients = %v, want root and delegated admin", got)
	}
}

func TestReportForwardsAttachedFile(t *testing.T) {
	store := memory.New()
	out := newFakeOutbound()
	s := NewBroadcast(store, access.NewResolver(rootID, store), out, testAudit(t))

	if _, err := s.ToAdmins(context.Background(), "missing lecture 3", "file-abc"); err != nil {
		t.Fatalf("report: %v", err)
	}

	var docs int
	for _, m := range out.texts() {
		if m.Doc != nil {
			docs++
			if m.Doc.File.FileID != "file-abc" {
				t.Fatalf("file id = %q, want file-abc", m.Doc.File.FileID)
			}
		}
	}
	if docs != 1 {
		t.Fatalf("documents sent = %d, want 1", docs)
	}
}
