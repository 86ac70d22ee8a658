package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/lecturebot/core/logger"
	"github.com/m3rciful/lecturebot/internal/access"
	"github.com/m3rciful/lecturebot/internal/audit"
	"github.com/m3rciful/lecturebot/internal/storage"
)

// ErrRootImmutable is returned on attempts to add or remove the root
// admin through the registry.
var ErrRootImmutable = errors.New("service: root admin cannot be modified")

// ErrRootOnly is returned when a delegated admin attempts a root-only
// operation. It maps to a user-visible permission error, not a silent
// no-op.
var ErrRootOnly = errors.New("service: operation restricted to root admin")

// Admins manages the delegated-admin registry. All mutations are
// restricted to the root admin.
type Admins struct {
	store  storage.Storage
	access *access.Resolver
	audit  *audit.Log
}

// NewAdmins builds the admin registry service.
func NewAdmins(store storage.Storage, resolver *access.Resolver, auditLog *audit.Log) *Admins {
	return &Admins{store: store, access: resolver, audit: auditLog}
}

// Add grants delegated-admin rights to a user. Only the root admin may
// call this; the root id itself is implicit and cannot be added.
func (s *Admins) Add(ctx context.Context, actorID, newAdminID int64) error {
	if !s.access.IsRoot(actorID) {
		return ErrRootOnly
	}
	if newAdminID == s.access.RootID() {
		return ErrRootImmutable
	}
	if err := s.store.AddAdmin(ctx, newAdminID); err != nil {
		return err
	}
	logger.SVCAdmins.Info("admin added",
		slog.String("event", "admins.add"),
		slog.Int64("admin_id", newAdminID),
	)
	s.audit.Record(actorID, fmt.Sprintf("Added Admin: %d", newAdminID))
	return nil
}

// Remove revokes delegated-admin rights. Only the root admin may call
// this; the root admin can never be removed.
func (s *Admins) Remove(ctx context.Context, actorID, adminID int64) error {
	if !s.access.IsRoot(actorID) {
		return ErrRootOnly
	}
	if adminID == s.access.RootID() {
		return ErrRootImmutable
	}
	if err := s.store.RemoveAdmin(ctx, adminID); err != nil {
		return err
	}
	logger.SVCAdmins.Info("admin removed",
		slog.String("event", "admins.remove"),
		slog.Int64("admin_id", adminID),
	)
	s.audit.Record(actorID, fmt.Sprintf("Removed Admin: %d", adminID))
	return nil
}

// Delegated lists the revocable admins (root excluded).
func (s *Admins) Delegated(ctx context.Context) ([]int64, error) {
	return s.store.ListAdmins(ctx)
}
