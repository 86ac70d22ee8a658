package service

import (
	"context"
	"errors"
	"testing"

	"github.com/m3rciful/lecturebot/internal/access"
	"github.com/m3rciful/lecturebot/internal/storage"
	"github.com/m3rciful/lecturebot/internal/storage/memory"
)

func newAdminsService(t *testing.T) (*Admins, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewAdmins(store, access.NewResolver(rootID, store), testAudit(t)), store
}

func TestAdminsAddRequiresRoot(t *testing.T) {
	s, store := newAdminsService(t)
	ctx := context.Background()
	if err := store.AddAdmin(ctx, 20); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	// A delegated admin cannot grow the registry.
	if err := s.Add(ctx, 20, 30); !errors.Is(err, ErrRootOnly) {
		t.Fatalf("err = %v, want ErrRootOnly", err)
	}
	if ok, _ := store.IsAdmin(ctx, 30); ok {
		t.Fatal("rejected add must not mutate the registry")
	}
}

func TestAdminsRemoveRequiresRoot(t *testing.T) {
	s, store := newAdminsService(t)
	ctx := context.Background()
	_ = store.AddAdmin(ctx, 20)
	_ = store.AddAdmin(ctx, 21)

	if err := s.Remove(ctx, 20, 21); !errors.Is(err, ErrRootOnly) {
		t.Fatalf("err = %v, want ErrRootOnly", err)
	}
	if ok, _ := store.IsAdmin(ctx, 21); !ok {
		t.Fatal("rejected remove must not mutate the registry")
	}
}

func TestAdminsRootLifecycle(t *testing.T) {
	s, store := newAdminsService(t)
	ctx := context.Background()

	if err := s.Add(ctx, rootID, 20); err != nil {
		t.Fatalf("add: %v", err)
	}
	if ok, _ := store.IsAdmin(ctx, 20); !ok {
		t.Fatal("admin not added")
	}
	if err := s.Remove(ctx, rootID, 20); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ok, _ := store.IsAdmin(ctx, 20); ok {
		t.Fatal("admin not removed")
	}
}

func TestAdminsRootIsImmutable(t *testing.T) {
	s, _ := newAdminsService(t)
	ctx := context.Background()

	if err := s.Add(ctx, rootID, rootID); !errors.Is(err, ErrRootImmutable) {
		t.Fatalf("add root: err = %v, want ErrRootImmutable", err)
	}
	if err := s.Remove(ctx, rootID, rootID); !errors.Is(err, ErrRootImmutable) {
		t.Fatalf("remove root: err = %v, want ErrRootImmutable", err)
	}
}

func TestAdminsRemoveMissing(t *testing.T) {
	s, _ := newAdminsService(t)

	if err := s.Remove(context.Background(), rootID, 99); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
