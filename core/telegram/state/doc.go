// Package state tracks per-user conversation steps for multi-step dialogs.
// A user has at most one active step; starting a new flow replaces the
// previous one, partial fields included.
package state
