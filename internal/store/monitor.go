package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultSettleDelay is how long the monitor waits after a remote change
// notification before reporting Synced again.
const DefaultSettleDelay = time.Second

// AccountStatus is the result of probing the remote account.
type AccountStatus int

const (
	AccountAvailable AccountStatus = iota
	AccountNoAccount
	AccountRestricted
	AccountCouldNotDetermine
	AccountTemporarilyUnavailable
)

// AccountProbe queries the remote account and connectivity state.
type AccountProbe interface {
	CheckStatus(ctx context.Context) (AccountStatus, error)
}

// Monitor tracks the health of the remote-sync tier. Only the latest status
// is retained; consumers must treat it as a live, eventually-stale indicator,
// not a transactional guarantee.
type Monitor struct {
	cell        *StatusCell
	probe       AccountProbe
	hasIdentity bool
	settleDelay time.Duration

	mu         sync.Mutex
	generation int
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithSettleDelay overrides the settle delay. Used in tests.
func WithSettleDelay(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.settleDelay = d
	}
}

// NewMonitor creates a Monitor over the shared status cell. hasIdentity is
// false when no remote account is configured at all; the monitor then pins
// the status to Offline instead of probing.
func NewMonitor(cell *StatusCell, probe AccountProbe, hasIdentity bool, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		cell:        cell,
		probe:       probe,
		hasIdentity: hasIdentity,
		settleDelay: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Status returns the current sync status.
func (m *Monitor) Status() SyncStatus {
	return m.cell.Get()
}

// NotifyRemoteChange records that the synced backend reported a change: the
// status flips to Syncing immediately and settles back to Synced after the
// settle delay, unless a newer event or an error supersedes it.
func (m *Monitor) NotifyRemoteChange() {
	m.mu.Lock()
	m.generation++
	generation := m.generation
	m.mu.Unlock()

	m.cell.Set(Syncing)

	time.AfterFunc(m.settleDelay, func() {
		m.mu.Lock()
		superseded := m.generation != generation
		m.mu.Unlock()
		if superseded {
			return
		}
		m.cell.Set(Synced)
	})
}

// Retry probes the remote account on demand and maps the outcome onto the
// status cell. Called once at startup and whenever the user asks to retry.
func (m *Monitor) Retry(ctx context.Context) {
	m.mu.Lock()
	m.generation++
	m.mu.Unlock()

	if !m.hasIdentity {
		m.cell.Set(Offline)
		return
	}

	status, err := m.probe.CheckStatus(ctx)
	if err != nil {
		slog.Default().Debug("account probe failed", "error", err)
		m.cell.Set(ErrorStatus(err.Error()))
		return
	}

	switch status {
	case AccountAvailable:
		m.cell.Set(Synced)
	case AccountNoAccount:
		m.cell.Set(NeedSignIn)
	default:
		// Restricted, undetermined, temporarily unavailable, and any
		// unknown variant all read as offline.
		m.cell.Set(Offline)
	}
}
