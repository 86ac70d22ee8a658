// Package access resolves permission tiers. The root admin is a fixed
// configured identity; delegated admins come from the storage-backed
// registry and are revocable.
package access

import (
	"context"
	"log/slog"

	"github.com/m3rciful/lecturebot/core/logger"
	"github.com/m3rciful/lecturebot/internal/models"
	"github.com/m3rciful/lecturebot/internal/storage"
)

// Resolver answers role questions about Telegram users.
type Resolver struct {
	rootID int64
	store  storage.Storage
}

// NewResolver builds a resolver bound to the root admin id.
func NewResolver(rootID int64, store storage.Storage) *Resolver {
	return &Resolver{rootID: rootID, store: store}
}

// RoleOf resolves a user's tier. A registry lookup failure degrades to
// guest: never grant privileges on error.
func (r *Resolver) RoleOf(ctx context.Context, userID int64) models.Role {
	if userID == r.rootID {
		return models.RoleRootAdmin
	}
	ok, err := r.store.IsAdmin(ctx, userID)
	if err != nil {
		logger.SVCAdmins.Warn("role lookup failed",
			slog.String("event", "access.role"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return models.RoleGuest
	}
	if ok {
		return models.RoleAdmin
	}
	return models.RoleGuest
}

// IsAdmin reports whether the user is the root admin or a delegated admin.
func (r *Resolver) IsAdmin(ctx context.Context, userID int64) bool {
	return r.RoleOf(ctx, userID) != models.RoleGuest
}

// IsRoot reports whether the user is the fixed root admin.
func (r *Resolver) IsRoot(userID int64) bool {
	return userID == r.rootID
}

// RootID returns the configured root admin id.
func (r *Resolver) RootID() int64 {
	return r.rootID
}

// AllAdmins returns the root admin plus every delegated admin, deduplicated.
func (r *Resolver) AllAdmins(ctx context.Context) ([]int64, error) {
	ids, err := r.store.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(ids)+1)
	out = append(out, r.rootID)
	for _, id := range ids {
		if id != r.rootID {
			out = append(out, id)
		}
	}
	return out, nil
}
