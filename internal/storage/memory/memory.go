// Package memory provides an in-memory storage.Storage used by tests and
// local development. Semantics mirror the Postgres implementation,
// including the lecture cascade on subject deletion.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m3rciful/lecturebot/internal/models"
	"github.com/m3rciful/lecturebot/internal/storage"
)

// Store is a mutex-protected in-memory storage implementation.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]struct{}
	admins   map[int64]struct{}
	subjects map[int64]models.Subject
	lectures map[int64]models.Lecture
	links    map[int64]models.Link
	nextID   int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[int64]struct{}),
		admins:   make(map[int64]struct{}),
		subjects: make(map[int64]models.Subject),
		lectures: make(map[int64]models.Lecture),
		links:    make(map[int64]models.Link),
	}
}

func (s *Store) nextIdentity() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) RegisterUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = struct{}{}
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.users), nil
}

func (s *Store) ListAdmins(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.admins), nil
}

func (s *Store) IsAdmin(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[userID]
	return ok, nil
}

func (s *Store) AddAdmin(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[userID]; ok {
		return storage.ErrDuplicate
	}
	s.admins[userID] = struct{}{}
	return nil
}

func (s *Store) RemoveAdmin(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[userID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.admins, userID)
	return nil
}

func (s *Store) CreateSubject(_ context.Context, name string) (models.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subjects {
		if sub.Name == name {
			return models.Subject{}, storage.ErrDuplicate
		}
	}
	sub := models.Subject{ID: s.nextIdentity(), Name: name}
	s.subjects[sub.ID] = sub
	return sub, nil
}

func (s *Store) GetSubject(_ context.Context, id int64) (models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subjects[id]
	if !ok {
		return models.Subject{}, storage.ErrNotFound
	}
	return sub, nil
}

func (s *Store) ListSubjects(_ context.Context) ([]models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := make([]models.Subject, 0, len(s.subjects))
	for _, sub := range s.subjects {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Name != subs[j].Name {
			return subs[i].Name < subs[j].Name
		}
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

func (s *Store) RenameSubject(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subjects[id]
	if !ok {
		return storage.ErrNotFound
	}
	sub.Name = name
	s.subjects[id] = sub
	return nil
}

func (s *Store) DeleteSubject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.subjects, id)
	for lid, lec := range s.lectures {
		if lec.SubjectID == id {
			delete(s.lectures, lid)
		}
	}
	return nil
}

func (s *Store) CreateLecture(_ context.Context, subjectID int64, title, fileID string) (models.Lecture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[subjectID]; !ok {
		return models.Lecture{}, storage.ErrNotFound
	}
	lec := models.Lecture{ID: s.nextIdentity(), SubjectID: subjectID, Title: title, FileID: fileID}
	s.lectures[lec.ID] = lec
	return lec, nil
}

func (s *Store) GetLecture(_ context.Context, id int64) (models.Lecture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lec, ok := s.lectures[id]
	if !ok {
		return models.Lecture{}, storage.ErrNotFound
	}
	return lec, nil
}

func (s *Store) ListLectures(_ context.Context, subjectID int64) ([]models.Lecture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lecs := []models.Lecture{}
	for _, lec := range s.lectures {
		if lec.SubjectID == subjectID {
			lecs = append(lecs, lec)
		}
	}
	sort.Slice(lecs, func(i, j int) bool { return lecs[i].ID < lecs[j].ID })
	return lecs, nil
}

func (s *Store) RenameLecture(_ context.Context, id int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lec, ok := s.lectures[id]
	if !ok {
		return storage.ErrNotFound
	}
	lec.Title = title
	s.lectures[id] = lec
	return nil
}

func (s *Store) DeleteLecture(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lectures[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.lectures, id)
	return nil
}

func (s *Store) CreateLink(_ context.Context, title, url string) (models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxPos := 0
	for _, l := range s.links {
		if l.Position > maxPos {
			maxPos = l.Position
		}
	}
	link := models.Link{ID: s.nextIdentity(), Title: title, URL: url, Position: maxPos + 1}
	s.links[link.ID] = link
	return link, nil
}

func (s *Store) GetLink(_ context.Context, id int64) (models.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[id]
	if !ok {
		return models.Link{}, storage.ErrNotFound
	}
	return link, nil
}

func (s *Store) ListLinks(_ context.Context) ([]models.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	links := make([]models.Link, 0, len(s.links))
	for _, l := range s.links {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Position != links[j].Position {
			return links[i].Position < links[j].Position
		}
		return links[i].ID < links[j].ID
	})
	return links, nil
}

func (s *Store) UpdateLinkTitle(_ context.Context, id int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[id]
	if !ok {
		return storage.ErrNotFound
	}
	link.Title = title
	s.links[id] = link
	return nil
}

func (s *Store) UpdateLinkURL(_ context.Context, id int64, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[id]
	if !ok {
		return storage.ErrNotFound
	}
	link.URL = url
	s.links[id] = link
	return nil
}

func (s *Store) DeleteLink(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.links, id)
	return nil
}

func (s *Store) SwapLinkPositions(_ context.Context, a, b models.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	la, okA := s.links[a.ID]
	lb, okB := s.links[b.ID]
	if !okA || !okB {
		return storage.ErrNotFound
	}
	la.Position, lb.Position = b.Position, a.Position
	s.links[a.ID] = la
	s.links[b.ID] = lb
	return nil
}

func (s *Store) CountSubjects(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subjects), nil
}

func (s *Store) CountLectures(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lectures), nil
}

func (s *Store) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func sortedKeys(m map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var _ storage.Storage = (*Store)(nil)
