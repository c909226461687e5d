package state

import "time"

// State identifies a finite-state-machine step of a conversation flow.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = "idle"

// Session stores the flow state and accumulated step data for one user.
type Session struct {
	State    State
	TempData map[string]any
	Touched  time.Time
}

// Manager orchestrates user sessions. Entries are keyed per user, so two
// users never share a cursor; implementations must be safe for concurrent
// use.
type Manager interface {
	SetState(userID int64, st State)
	GetState(userID int64) State
	SetTemp(userID int64, key string, value any)
	GetTemp(userID int64, key string) (any, bool)
	GetTempInt64(userID int64, key string) (int64, bool)

	// InProgress reports whether the user has an active flow; the message
	// router gives such updates to the flow machine before anything else.
	InProgress(userID int64) bool

	// Clear drops the whole session: flow completion, cancellation, or
	// /home-equivalent navigation.
	Clear(userID int64)

	// Sweep evicts sessions untouched for longer than ttl and returns how
	// many were dropped.
	Sweep(ttl time.Duration) int
}
