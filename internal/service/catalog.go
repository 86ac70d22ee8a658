package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/lecturebot/core/logger"
	"github.com/m3rciful/lecturebot/internal/audit"
	"github.com/m3rciful/lecturebot/internal/models"
	"github.com/m3rciful/lecturebot/internal/storage"
)

// Catalog manages subjects and their lectures.
type Catalog struct {
	store storage.Storage
	audit *audit.Log
}

// NewCatalog builds the catalog service.
func NewCatalog(store storage.Storage, auditLog *audit.Log) *Catalog {
	return &Catalog{store: store, audit: auditLog}
}

func (s *Catalog) Subjects(ctx context.Context) ([]models.Subject, error) {
	return s.store.ListSubjects(ctx)
}

func (s *Catalog) Subject(ctx context.Context, id int64) (models.Subject, error) {
	return s.store.GetSubject(ctx, id)
}

func (s *Catalog) Lectures(ctx context.Context, subjectID int64) ([]models.Lecture, error) {
	return s.store.ListLectures(ctx, subjectID)
}

func (s *Catalog) Lecture(ctx context.Context, id int64) (models.Lecture, error) {
	return s.store.GetLecture(ctx, id)
}

// AddSubject creates a subject with a unique name.
func (s *Catalog) AddSubject(ctx context.Context, adminID int64, name string) (models.Subject, error) {
	sub, err := s.store.CreateSubject(ctx, name)
	if err != nil {
		return models.Subject{}, err
	}
	logger.SVCSubjects.Info("subject added",
		slog.String("event", "subjects.add"),
		slog.Int64("subject_id", sub.ID),
	)
	s.audit.Record(adminID, fmt.Sprintf("Added Subject: %s", name))
	return sub, nil
}

// RenameSubject updates a subject name.
func (s *Catalog) RenameSubject(ctx context.Context, adminID, id int64, name string) error {
	if err := s.store.RenameSubject(ctx, id, name); err != nil {
		return err
	}
	s.audit.Record(adminID, fmt.Sprintf("Renamed Subject %d to: %s", id, name))
	return nil
}

// DeleteSubject removes a subject and, through storage, every lecture it
// owns.
func (s *Catalog) DeleteSubject(ctx context.Context, adminID, id int64) error {
	if err := s.store.DeleteSubject(ctx, id); err != nil {
		return err
	}
	logger.SVCSubjects.Info("subject deleted",
		slog.String("event", "subjects.delete"),
		slog.Int64("subject_id", id),
	)
	s.audit.Record(adminID, fmt.Sprintf("Deleted Subject: %d", id))
	return nil
}

// AddLecture attaches an uploaded document to an existing subject.
// A missing subject is rejected with storage.ErrNotFound; orphan
// lectures cannot be created.
func (s *Catalog) AddLecture(ctx context.Context, adminID, subjectID int64, title, fileID string) (models.Lecture, error) {
	lec, err := s.store.CreateLecture(ctx, subjectID, title, fileID)
	if err != nil {
		return models.Lecture{}, err
	}
	logger.SVCLectures.Info("lecture added",
		slog.String("event", "lectures.add"),
		slog.Int64("subject_id", subjectID),
		slog.Int64("lecture_id", lec.ID),
	)
	s.audit.Record(adminID, fmt.Sprintf("Uploaded Lecture: %s", title))
	return lec, nil
}

// RenameLecture updates a lecture title.
func (s *Catalog) RenameLecture(ctx context.Context, adminID, id int64, title string) error {
	if err := s.store.RenameLecture(ctx, id, title); err != nil {
		return err
	}
	s.audit.Record(adminID, fmt.Sprintf("Renamed Lecture %d to: %s", id, title))
	return nil
}

// DeleteLecture removes one lecture.
func (s *Catalog) DeleteLecture(ctx context.Context, adminID, id int64) error {
	if err := s.store.DeleteLecture(ctx, id); err != nil {
		return err
	}
	logger.SVCLectures.Info("lecture deleted",
		slog.String("event", "lectures.delete"),
		slog.Int64("lecture_id", id),
	)
	s.audit.Record(adminID, fmt.Sprintf("Deleted Lecture: %d", id))
	return nil
}

// Stats aggregates the counters shown in the admin panel.
type Stats struct {
	Subjects int
	Lectures int
	Users    int
}

// Stats collects catalog counters.
func (s *Catalog) Stats(ctx context.Context) (Stats, error) {
	subjects, err := s.store.CountSubjects(ctx)
	if err != nil {
		return Stats{}, err
	}
	lectures, err := s.store.CountLectures(ctx)
	if err != nil {
		return Stats{}, err
	}
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Subjects: subjects, Lectures: lectures, Users: users}, nil
}
