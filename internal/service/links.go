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

// Links manages the curated important-links list, including its
// position-based ordering.
type Links struct {
	store storage.Storage
	audit *audit.Log
}

// NewLinks builds the link service.
func NewLinks(store storage.Storage, auditLog *audit.Log) *Links {
	return &Links{store: store, audit: auditLog}
}

// List returns all links sorted by (position, id).
func (s *Links) List(ctx context.Context) ([]models.Link, error) {
	return s.store.ListLinks(ctx)
}

// Get returns one link by id.
func (s *Links) Get(ctx context.Context, id int64) (models.Link, error) {
	return s.store.GetLink(ctx, id)
}

// Add appends a link at the end of the order.
func (s *Links) Add(ctx context.Context, adminID int64, title, url string) (models.Link, error) {
	link, err := s.store.CreateLink(ctx, title, url)
	if err != nil {
		return models.Link{}, err
	}
	logger.SVCLinks.Info("link added",
		slog.String("event", "links.add"),
		slog.Int64("link_id", link.ID),
	)
	s.audit.Record(adminID, fmt.Sprintf("Added Link: %s", title))
	return link, nil
}

// Rename updates a link title.
func (s *Links) Rename(ctx context.Context, adminID, id int64, title string) error {
	if err := s.store.UpdateLinkTitle(ctx, id, title); err != nil {
		return err
	}
	s.audit.Record(adminID, fmt.Sprintf("Renamed Link %d to: %s", id, title))
	return nil
}

// SetURL updates a link target.
func (s *Links) SetURL(ctx context.Context, adminID, id int64, url string) error {
	if err := s.store.UpdateLinkURL(ctx, id, url); err != nil {
		return err
	}
	s.audit.Record(adminID, fmt.Sprintf("Changed Link %d URL", id))
	return nil
}

// Delete removes a link.
func (s *Links) Delete(ctx context.Context, adminID, id int64) error {
	if err := s.store.DeleteLink(ctx, id); err != nil {
		return err
	}
	logger.SVCLinks.Info("link deleted",
		slog.String("event", "links.delete"),
		slog.Int64("link_id", id),
	)
	s.audit.Record(adminID, fmt.Sprintf("Deleted Link: %d", id))
	return nil
}

// MoveUp swaps the link with its predecessor in the (position, id) order.
// Moving the first item is a no-op.
func (s *Links) MoveUp(ctx context.Context, id int64) error {
	return s.move(ctx, id, -1)
}

// MoveDown swaps the link with its successor in the (position, id) order.
// Moving the last item is a no-op.
func (s *Links) MoveDown(ctx context.Context, id int64) error {
	return s.move(ctx, id, +1)
}

// move re-reads the full sorted list and exchanges the two position
// values of the target and its neighbour. O(n) read, two field writes;
// list sizes are tens of entries, human-curated.
func (s *Links) move(ctx context.Context, id int64, dir int) error {
	links, err := s.store.ListLinks(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, l := range links {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return storage.ErrNotFound
	}
	other := idx + dir
	if other < 0 || other >= len(links) {
		return nil
	}
	if err := s.store.SwapLinkPositions(ctx, links[idx], links[other]); err != nil {
		return err
	}
	logger.SVCLinks.Debug("link moved",
		slog.String("event", "links.move"),
		slog.Int64("link_id", id),
	)
	return nil
}
