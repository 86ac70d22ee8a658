package state

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

const (
	stepA State = "await_a"
	stepB State = "await_b"
)

// stepContext implements the slice of tele.Context that dispatch touches.
type stepContext struct {
	tele.Context
	sender *tele.User
	store  map[string]any
}

func (s *stepContext) Sender() *tele.User          { return s.sender }
func (s *stepContext) Chat() *tele.Chat            { return &tele.Chat{ID: s.sender.ID} }
func (s *stepContext) Update() tele.Update         { return tele.Update{} }
func (s *stepContext) Set(key string, v interface{}) { s.store[key] = v }
func (s *stepContext) Get(key string) interface{}    { return s.store[key] }

func TestStartFlowReplacesPendingFlow(t *testing.T) {
	m := NewMemoryManager()
	m.StartFlow(1, stepA, map[string]string{"subject": "Algorithms"})
	m.SetField(1, "title", "Lecture 1")

	m.StartFlow(1, stepB, nil)

	if got := m.GetState(1); got != stepB {
		t.Fatalf("state = %s, expected %s", got, stepB)
	}
	if _, ok := m.Field(1, "subject"); ok {
		t.Fatal("field from the replaced flow survived")
	}
	if _, ok := m.Field(1, "title"); ok {
		t.Fatal("field from the replaced flow survived")
	}
}

func TestClearResetsToIdle(t *testing.T) {
	m := NewMemoryManager()
	m.StartFlow(7, stepA, map[string]string{"k": "v"})
	if !m.InProgress(7) {
		t.Fatal("expected flow in progress")
	}
	m.Clear(7)
	if m.InProgress(7) {
		t.Fatal("expected idle after clear")
	}
	if got := m.GetState(7); got != StateIdle {
		t.Fatalf("state = %s, expected idle", got)
	}
}

func TestAdvanceKeepsCollectedFields(t *testing.T) {
	m := NewMemoryManager()
	m.StartFlow(3, stepA, map[string]string{"subject_id": "42"})
	m.Advance(3, stepB, map[string]string{"title": "Intro"})

	if got := m.GetState(3); got != stepB {
		t.Fatalf("state = %s, expected %s", got, stepB)
	}
	if v, ok := m.Field(3, "subject_id"); !ok || v != "42" {
		t.Fatalf("subject_id = %q (%v), expected 42", v, ok)
	}
	id, ok := m.FieldInt64(3, "subject_id")
	if !ok || id != 42 {
		t.Fatalf("FieldInt64 = %d (%v), expected 42", id, ok)
	}
	if v, ok := m.Field(3, "title"); !ok || v != "Intro" {
		t.Fatalf("title = %q (%v), expected Intro", v, ok)
	}
}

func TestFieldInt64RejectsMalformed(t *testing.T) {
	m := NewMemoryManager()
	m.StartFlow(3, stepA, map[string]string{"subject_id": "forty-two"})
	if _, ok := m.FieldInt64(3, "subject_id"); ok {
		t.Fatal("expected malformed integer to be rejected")
	}
}

// A slow step handler must not run twice when two updates from the same
// user arrive back to back: the second dispatch has to see the state the
// first one left behind.
func TestManagerHandlerSerializesSameUser(t *testing.T) {
	const stepOnce State = "await_single_apply"

	m := NewMemoryManager()
	var applied int32
	RegisterHandler(stepOnce, func(c tele.Context) error {
		time.Sleep(5 * time.Millisecond) // storage round-trip
		atomic.AddInt32(&applied, 1)
		m.Clear(c.Sender().ID)
		return nil
	})
	m.StartFlow(4, stepOnce, nil)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := &stepContext{sender: &tele.User{ID: 4}, store: map[string]any{}}
			if err := m.ManagerHandler(c); err != nil {
				t.Errorf("dispatch: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&applied); got != 1 {
		t.Fatalf("step applied %d times, want 1", got)
	}
}

func TestConcurrentAccessSameUser(t *testing.T) {
	m := NewMemoryManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.StartFlow(9, stepA, map[string]string{"k": "v"})
		}()
		go func() {
			defer wg.Done()
			m.Clear(9)
		}()
	}
	wg.Wait()
	// Either outcome is fine; the store just must not race or stack flows.
	st := m.GetState(9)
	if st != StateIdle && st != stepA {
		t.Fatalf("unexpected state %s", st)
	}
}
