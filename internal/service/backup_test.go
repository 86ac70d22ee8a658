package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m3rciful/lecturebot/internal/access"
	"github.com/m3rciful/lecturebot/internal/storage/memory"
)

func TestBackupDeliversBothFilesToEveryAdmin(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "db.dump")
	auditFile := filepath.Join(dir, "admin_log.txt")
	for _, p := range []string{snapshot, auditFile} {
		if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	store := memory.New()
	ctx := context.Background()
	_ = store.AddAdmin(ctx, 20)

	out := newFakeOutbound()
	s := NewBackup(access.NewResolver(rootID, store), out, snapshot, auditFile)
	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	perAdmin := map[int64]int{}
	for _, m := range out.texts() {
		if m.Doc == nil {
			t.Fatalf("backup sent a non-document message to %d", m.Recipient)
		}
		perAdmin[m.Recipient]++
	}
	if perAdmin[rootID] != 2 || perAdmin[20] != 2 {
		t.Fatalf("deliveries per admin = %v, want 2 each", perAdmin)
	}
}

func TestBackupSkipsMissingFiles(t *testing.T) {
	store := memory.New()
	out := newFakeOutbound()
	s := NewBackup(access.NewResolver(rootID, store), out, "/nonexistent/db.dump", "")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.texts()) != 0 {
		t.Fatalf("deliveries = %d, want 0", len(out.texts()))
	}
}
