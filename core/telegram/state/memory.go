package state

import (
	"strconv"
	"sync"

	"github.com/m3rciful/lecturebot/core/logger"
	tghelpers "github.com/m3rciful/lecturebot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	dispatchMu sync.Mutex
	dispatch   map[int64]*sync.Mutex
}

// NewMemoryManager constructs the in-memory Manager implementation.
// Conversation state is process-local; flows are short enough that a
// restart losing them is acceptable.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
		dispatch: make(map[int64]*sync.Mutex),
	}
}

// StartFlow replaces any pending flow for the user unconditionally.
// There is no queueing of interrupted flows.
func (m *memoryManager) StartFlow(userID int64, st State, fields map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session := &Session{Step: st, Fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		session.Fields[k] = v
	}
	m.sessions[userID] = session
}

// Advance moves the user to the next step, keeping fields gathered so far.
func (m *memoryManager) Advance(userID int64, st State, fields map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if !ok {
		session = &Session{Fields: make(map[string]string)}
		m.sessions[userID] = session
	}
	session.Step = st
	for k, v := range fields {
		session.Fields[k] = v
	}
}

// SetField stores one partial input value for the user's pending flow.
func (m *memoryManager) SetField(userID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if !ok {
		session = &Session{Step: StateIdle, Fields: make(map[string]string)}
		m.sessions[userID] = session
	}
	session.Fields[key] = value
}

// Field retrieves one partial input value by key.
func (m *memoryManager) Field(userID int64, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[userID]
	if !ok {
		return "", false
	}
	val, ok := session.Fields[key]
	return val, ok
}

// FieldInt64 retrieves a partial input value and parses it as int64.
func (m *memoryManager) FieldInt64(userID int64, key string) (int64, bool) {
	val, found := m.Field(userID, key)
	if !found {
		return 0, false
	}
	v, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GetState returns the current step of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if session, ok := m.sessions[userID]; ok {
		return session.Step
	}
	return StateIdle
}

// InProgress reports whether the user currently has an active step.
func (m *memoryManager) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[userID]
	return ok && session.Step != StateIdle
}

// Clear tears the session down: idle step, fields discarded.
func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// dispatchLock returns the lock serializing step dispatch for one user.
// Separate from mu: step handlers re-enter the manager via Advance/Clear.
func (m *memoryManager) dispatchLock(userID int64) *sync.Mutex {
	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()
	l, ok := m.dispatch[userID]
	if !ok {
		l = &sync.Mutex{}
		m.dispatch[userID] = l
	}
	return l
}

// ManagerHandler executes the handler registered for the user's current step,
// if any. The step lookup and the handler run under a per-user lock, so a
// second update from the same user observes whatever state the first one left
// behind instead of the step both of them started from.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	lock := m.dispatchLock(userID)
	lock.Lock()
	defer lock.Unlock()

	current := m.GetState(userID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	if handler, ok := fsmHandlers[current]; ok {
		return handler(c)
	}
	return nil
}
