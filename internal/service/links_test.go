package service

import (
	"context"
	"errors"
	"testing"

	"github.com/m3rciful/lecturebot/internal/storage"
	"github.com/m3rciful/lecturebot/internal/storage/memory"
)

func linkTitles(t *testing.T, s *Links) []string {
	t.Helper()
	links, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	titles := make([]string, len(links))
	for i, l := range links {
		titles[i] = l.Title
	}
	return titles
}

func seedLinks(t *testing.T, s *Links, titles ...string) {
	t.Helper()
	for _, title := range titles {
		if _, err := s.Add(context.Background(), 1, title, "https://example.com/"+title); err != nil {
			t.Fatalf("add link %s: %v", title, err)
		}
	}
}

func TestLinksAppendInOrder(t *testing.T) {
	s := NewLinks(memory.New(), testAudit(t))
	seedLinks(t, s, "a", "b", "c")

	got := linkTitles(t, s)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestLinksMoveUpSwapsWithPredecessor(t *testing.T) {
	s := NewLinks(memory.New(), testAudit(t))
	seedLinks(t, s, "a", "b", "c")

	links, _ := s.List(context.Background())
	if err := s.MoveUp(context.Background(), links[1].ID); err != nil {
		t.Fatalf("move up: %v", err)
	}

	got := linkTitles(t, s)
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestLinksMoveDownSwapsWithSuccessor(t *testing.T) {
	s := NewLinks(memory.New(), testAudit(t))
	seedLinks(t, s, "a", "b", "c")

	links, _ := s.List(context.Background())
	if err := s.MoveDown(context.Background(), links[0].ID); err != nil {
		t.Fatalf("move down: %v", err)
	}

	got := linkTitles(t, s)
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestLinksMoveEdgesAreNoOps(t *testing.T) {
	s := NewLinks(memory.New(), testAudit(t))
	seedLinks(t, s, "a", "b")

	links, _ := s.List(context.Background())
	if err := s.MoveUp(context.Background(), links[0].ID); err != nil {
		t.Fatalf("move up on first: %v", err)
	}
	if err := s.MoveDown(context.Background(), links[1].ID); err != nil {
		t.Fatalf("move down on last: %v", err)
	}

	got := linkTitles(t, s)
	want := []string{"a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order changed at the edge: %v", got)
		}
	}
}

func TestLinksMoveMissingLink(t *testing.T) {
	s := NewLinks(memory.New(), testAudit(t))
	seedLinks(t, s, "a")

	if err := s.MoveUp(context.Background(), 999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLinksDeleteKeepsRemainingOrder(t *testing.T) {
	s := NewLinks(memory.New(), testAudit(t))
	seedLinks(t, s, "a", "b", "c")

	links, _ := s.List(context.Background())
	if err := s.Delete(context.Background(), 1, links[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got := linkTitles(t, s)
	want := []string{"a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
