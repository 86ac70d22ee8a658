package storage

import (
	"context"
	"errors"

	"github.com/m3rciful/lecturebot/internal/models"
)

var (
	// ErrNotFound signals the referenced entity no longer exists.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicate signals a unique constraint violation.
	ErrDuplicate = errors.New("storage: duplicate")
)

// Storage is the persistence boundary of the bot. Implementations must
// keep every mutation atomic per call: a failed call leaves no partial
// entity behind. Deleting a subject cascades to its lectures.
type Storage interface {
	// Users. Registration is idempotent; users are never deleted.
	RegisterUser(ctx context.Context, userID int64) error
	ListUsers(ctx context.Context) ([]int64, error)

	// Admin registry (delegated admins only; the root admin lives in config).
	ListAdmins(ctx context.Context) ([]int64, error)
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	AddAdmin(ctx context.Context, userID int64) error
	RemoveAdmin(ctx context.Context, userID int64) error

	// Subjects.
	CreateSubject(ctx context.Context, name string) (models.Subject, error)
	GetSubject(ctx context.Context, id int64) (models.Subject, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	RenameSubject(ctx context.Context, id int64, name string) error
	DeleteSubject(ctx context.Context, id int64) error

	// Lectures. Creation requires an existing subject.
	CreateLecture(ctx context.Context, subjectID int64, title, fileID string) (models.Lecture, error)
	GetLecture(ctx context.Context, id int64) (models.Lecture, error)
	ListLectures(ctx context.Context, subjectID int64) ([]models.Lecture, error)
	RenameLecture(ctx context.Context, id int64, title string) error
	DeleteLecture(ctx context.Context, id int64) error

	// Links, always listed sorted by (position, id) ascending.
	CreateLink(ctx context.Context, title, url string) (models.Link, error)
	GetLink(ctx context.Context, id int64) (models.Link, error)
	ListLinks(ctx context.Context) ([]models.Link, error)
	UpdateLinkTitle(ctx context.Context, id int64, title string) error
	UpdateLinkURL(ctx context.Context, id int64, url string) error
	DeleteLink(ctx context.Context, id int64) error
	// SwapLinkPositions exchanges the position values of two links as a
	// single atomic mutation.
	SwapLinkPositions(ctx context.Context, a, b models.Link) error

	// Counters for the stats panel.
	CountSubjects(ctx context.Context) (int, error)
	CountLectures(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)
}
