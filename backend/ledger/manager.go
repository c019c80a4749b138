package ledger

import (
	"context"
	"sync"
	"time"

	"project/backend/store"
)

// Manager keeps one live tracker per user for the current process. A
// tracker is only registered once its hydration succeeds, so a registered
// tracker is always ready; a failed Start is retried by calling Start
// again.
type Manager struct {
	store   store.ProgressStore
	timeout time.Duration

	mu       sync.Mutex
	trackers map[uint]*Tracker
}

func NewManager(s store.ProgressStore, timeout time.Duration) *Manager {
	return &Manager{
		store:    s,
		timeout:  timeout,
		trackers: make(map[uint]*Tracker),
	}
}

// Start begins a fresh tracking session for the user: a new 7-day window
// anchored at start, hydrated from the remote store. An existing session
// for the user is replaced.
func (m *Manager) Start(ctx context.Context, userID uint, start time.Time, actionIDs []string) (*Tracker, error) {
	tracker := New(m.store, userID, start, actionIDs, m.timeout)
	if err := tracker.Hydrate(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.trackers[userID] = tracker
	m.mu.Unlock()
	return tracker, nil
}

// Get returns the user's live tracker, if any.
func (m *Manager) Get(userID uint) (*Tracker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tracker, ok := m.trackers[userID]
	return tracker, ok
}
