package store

import "sync"

// SyncState is the coarse health of the remote-synced storage tier.
type SyncState int

const (
	StateSynced SyncState = iota
	StateSyncing
	StateOffline
	StateNeedSignIn
	StateError
)

func (s SyncState) String() string {
	switch s {
	case StateSynced:
		return "synced"
	case StateSyncing:
		return "syncing"
	case StateOffline:
		return "offline"
	case StateNeedSignIn:
		return "need_sign_in"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// SyncStatus is the current sync health. Message is set only for StateError.
type SyncStatus struct {
	State   SyncState
	Message string
}

func (s SyncStatus) String() string {
	if s.State == StateError && s.Message != "" {
		return s.State.String() + ": " + s.Message
	}
	return s.State.String()
}

// Synced, Syncing, Offline, and NeedSignIn are the fixed status values.
var (
	Synced     = SyncStatus{State: StateSynced}
	Syncing    = SyncStatus{State: StateSyncing}
	Offline    = SyncStatus{State: StateOffline}
	NeedSignIn = SyncStatus{State: StateNeedSignIn}
)

// ErrorStatus builds a StateError status carrying a diagnostic message.
func ErrorStatus(message string) SyncStatus {
	return SyncStatus{State: StateError, Message: message}
}

// StatusCell is a shared last-write-wins holder for the current SyncStatus.
// It is constructed explicitly and injected, never a package global, so tests
// can run independent instances.
type StatusCell struct {
	mu     sync.RWMutex
	status SyncStatus
}

// NewStatusCell creates a cell holding initial.
func NewStatusCell(initial SyncStatus) *StatusCell {
	return &StatusCell{status: initial}
}

// Get returns the current status. The two fields are copied under the lock so
// a concurrent Set cannot produce a torn read of an error message.
func (c *StatusCell) Get() SyncStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Set replaces the current status.
func (c *StatusCell) Set(status SyncStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}
