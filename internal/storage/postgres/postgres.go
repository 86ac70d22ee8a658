package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/m3rciful/lecturebot/internal/models"
	"github.com/m3rciful/lecturebot/internal/storage"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store implements storage.Storage on top of Postgres via sqlx.
type Store struct {
	db *sqlx.DB
}

// New wraps an established sqlx connection.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return storage.ErrDuplicate
		case pgForeignKeyViolation:
			return storage.ErrNotFound
		}
	}
	return err
}

// RegisterUser inserts the user if unseen; repeat calls are no-ops.
func (s *Store) RegisterUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("register user: %w", translate(err))
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM users ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("list users: %w", translate(err))
	}
	return ids, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM admins ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("list admins: %w", translate(err))
	}
	return ids, nil
}

func (s *Store) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("is admin: %w", translate(err))
	}
	return exists, nil
}

func (s *Store) AddAdmin(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("add admin: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrDuplicate
	}
	return nil
}

func (s *Store) RemoveAdmin(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admins WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("remove admin: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CreateSubject(ctx context.Context, name string) (models.Subject, error) {
	var sub models.Subject
	err := s.db.GetContext(ctx, &sub,
		`INSERT INTO subjects (name) VALUES ($1) RETURNING id, name`, name)
	if err != nil {
		return models.Subject{}, fmt.Errorf("create subject: %w", translate(err))
	}
	return sub, nil
}

func (s *Store) GetSubject(ctx context.Context, id int64) (models.Subject, error) {
	var sub models.Subject
	err := s.db.GetContext(ctx, &sub, `SELECT id, name FROM subjects WHERE id = $1`, id)
	if err != nil {
		return models.Subject{}, fmt.Errorf("get subject: %w", translate(err))
	}
	return sub, nil
}

func (s *Store) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subs := []models.Subject{}
	if err := s.db.SelectContext(ctx, &subs,
		`SELECT id, name FROM subjects ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list subjects: %w", translate(err))
	}
	return subs, nil
}

func (s *Store) RenameSubject(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subjects SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("rename subject: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteSubject removes the subject; owned lectures go with it via the
// ON DELETE CASCADE foreign key.
func (s *Store) DeleteSubject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CreateLecture(ctx context.Context, subjectID int64, title, fileID string) (models.Lecture, error) {
	var lec models.Lecture
	err := s.db.GetContext(ctx, &lec,
		`INSERT INTO lectures (subject_id, title, file_id) VALUES ($1, $2, $3)
		 RETURNING id, subject_id, title, file_id`,
		subjectID, title, fileID)
	if err != nil {
		return models.Lecture{}, fmt.Errorf("create lecture: %w", translate(err))
	}
	return lec, nil
}

func (s *Store) GetLecture(ctx context.Context, id int64) (models.Lecture, error) {
	var lec models.Lecture
	err := s.db.GetContext(ctx, &lec,
		`SELECT id, subject_id, title, file_id FROM lectures WHERE id = $1`, id)
	if err != nil {
		return models.Lecture{}, fmt.Errorf("get lecture: %w", translate(err))
	}
	return lec, nil
}

func (s *Store) ListLectures(ctx context.Context, subjectID int64) ([]models.Lecture, error) {
	lecs := []models.Lecture{}
	if err := s.db.SelectContext(ctx, &lecs,
		`SELECT id, subject_id, title, file_id FROM lectures WHERE subject_id = $1 ORDER BY id`,
		subjectID); err != nil {
		return nil, fmt.Errorf("list lectures: %w", translate(err))
	}
	return lecs, nil
}

func (s *Store) RenameLecture(ctx context.Context, id int64, title string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE lectures SET title = $2 WHERE id = $1`, id, title)
	if err != nil {
		return fmt.Errorf("rename lecture: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLecture(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lecture: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateLink appends the link at the end of the order.
func (s *Store) CreateLink(ctx context.Context, title, url string) (models.Link, error) {
	var link models.Link
	err := s.db.GetContext(ctx, &link,
		`INSERT INTO links (title, url, position)
		 VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM links))
		 RETURNING id, title, url, position`,
		title, url)
	if err != nil {
		return models.Link{}, fmt.Errorf("create link: %w", translate(err))
	}
	return link, nil
}

func (s *Store) GetLink(ctx context.Context, id int64) (models.Link, error) {
	var link models.Link
	err := s.db.GetContext(ctx, &link,
		`SELECT id, title, url, position FROM links WHERE id = $1`, id)
	if err != nil {
		return models.Link{}, fmt.Errorf("get link: %w", translate(err))
	}
	return link, nil
}

func (s *Store) ListLinks(ctx context.Context) ([]models.Link, error) {
	links := []models.Link{}
	if err := s.db.SelectContext(ctx, &links,
		`SELECT id, title, url, position FROM links ORDER BY position, id`); err != nil {
		return nil, fmt.Errorf("list links: %w", translate(err))
	}
	return links, nil
}

func (s *Store) UpdateLinkTitle(ctx context.Context, id int64, title string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE links SET title = $2 WHERE id = $1`, id, title)
	if err != nil {
		return fmt.Errorf("update link title: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateLinkURL(ctx context.Context, id int64, url string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE links SET url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("update link url: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLink(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete link: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SwapLinkPositions exchanges the two position values in one transaction.
func (s *Store) SwapLinkPositions(ctx context.Context, a, b models.Link) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("swap links: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE links SET position = $2 WHERE id = $1`, a.ID, b.Position); err != nil {
		return fmt.Errorf("swap links: %w", translate(err))
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE links SET position = $2 WHERE id = $1`, b.ID, a.Position); err != nil {
		return fmt.Errorf("swap links: %w", translate(err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("swap links: %w", err)
	}
	return nil
}

func (s *Store) CountSubjects(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM subjects`)
}

func (s *Store) CountLectures(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM lectures`)
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (s *Store) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("count: %w", translate(err))
	}
	return n, nil
}

var _ storage.Storage = (*Store)(nil)
