package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores the conversation step and partial input for a user.
type Session struct {
	Step   State
	Fields map[string]string
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	// StartFlow replaces any pending flow for the user with a fresh one.
	StartFlow(userID int64, st State, fields map[string]string)
	// Advance moves the user to the next step, merging the given fields
	// into the partial input collected so far.
	Advance(userID int64, st State, fields map[string]string)
	SetField(userID int64, key, value string)
	Field(userID int64, key string) (string, bool)
	FieldInt64(userID int64, key string) (int64, bool)

	GetState(userID int64) State
	InProgress(userID int64) bool
	// Clear resets the user to idle and discards partial fields.
	Clear(userID int64)

	ManagerHandler(c tele.Context) error
}
