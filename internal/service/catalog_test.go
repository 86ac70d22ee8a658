package service

import (
	"context"
	"errors"
	"testing"

	"github.com/m3rciful/lecturebot/internal/storage"
	"github.com/m3rciful/lecturebot/internal/storage/memory"
)

func TestAddSubjectRejectsDuplicateName(t *testing.T) {
	s := NewCatalog(memory.New(), testAudit(t))
	ctx := context.Background()

	if _, err := s.AddSubject(ctx, 1, "Math"); err != nil {
		t.Fatalf("add subject: %v", err)
	}
	if _, err := s.AddSubject(ctx, 1, "Math"); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestAddLectureRequiresSubject(t *testing.T) {
	s := NewCatalog(memory.New(), testAudit(t))

	_, err := s.AddLecture(context.Background(), 1, 42, "Intro", "file-1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSubjectCascadesToLectures(t *testing.T) {
	store := memory.New()
	s := NewCatalog(store, testAudit(t))
	ctx := context.Background()

	sub, err := s.AddSubject(ctx, 1, "Math")
	if err != nil {
		t.Fatalf("add subject: %v", err)
	}
	lec, err := s.AddLecture(ctx, 1, sub.ID, "Intro", "file-1")
	if err != nil {
		t.Fatalf("add lecture: %v", err)
	}

	if err := s.DeleteSubject(ctx, 1, sub.ID); err != nil {
		t.Fatalf("delete subject: %v", err)
	}

	if _, err := s.Lecture(ctx, lec.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("lecture survived the cascade: err = %v", err)
	}
	count, err := store.CountLectures(ctx)
	if err != nil {
		t.Fatalf("count lectures: %v", err)
	}
	if count != 0 {
		t.Fatalf("lectures left after cascade: %d", count)
	}
}

func TestDeleteSubjectMissing(t *testing.T) {
	s := NewCatalog(memory.New(), testAudit(t))

	if err := s.DeleteSubject(context.Background(), 1, 42); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRenameLectureMissing(t *testing.T) {
	s := NewCatalog(memory.New(), testAudit(t))

	if err := s.RenameLecture(context.Background(), 1, 42, "New"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStatsCountsEntities(t *testing.T) {
	store := memory.New()
	s := NewCatalog(store, testAudit(t))
	ctx := context.Background()

	sub, _ := s.AddSubject(ctx, 1, "Math")
	_, _ = s.AddLecture(ctx, 1, sub.ID, "Intro", "file-1")
	_, _ = s.AddLecture(ctx, 1, sub.ID, "Limits", "file-2")
	_ = store.RegisterUser(ctx, 100)
	_ = store.RegisterUser(ctx, 101)
	_ = store.RegisterUser(ctx, 100) // idempotent

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Subjects != 1 || stats.Lectures != 2 || stats.Users != 2 {
		t.Fatalf("stats = %+v, want {1 2 2}", stats)
	}
}
