// Package ledger holds the progress tracking core: a fixed 7-day window of
// per-action completion flags, kept consistent with the remote progress
// store through optimistic updates with rollback, and the streak and
// completion-rate metrics derived from it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"project/backend/store"
)

// WindowDays is the length of a tracking session's date window.
const WindowDays = 7

const dateLayout = "2006-01-02"

// ErrNotReady is returned by Toggle until hydration from the remote store
// has succeeded.
var ErrNotReady = errors.New("ledger not hydrated")

// SyncError reports a failed remote mutation. The local ledger has already
// been reverted to its pre-toggle value; the caller may retry by toggling
// again.
type SyncError struct {
	Op       string // "upsert" or "delete"
	Date     string
	ActionID string
	Err      error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s (%s, %s): %v", e.Op, e.Date, e.ActionID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// DateOf formats a time as the ledger's ISO calendar date.
func DateOf(t time.Time) string {
	return t.Format(dateLayout)
}

type cell struct {
	date     string
	actionID string
}

// Tracker owns one user's tracking session: the ledger over the fixed
// window and every mutation against the remote store. The date axis is
// fixed at construction and never rolls forward.
type Tracker struct {
	store    store.ProgressStore
	userID   uint
	dates    []string // 7 consecutive dates, ascending
	actions  []string // committed action IDs
	timeout  time.Duration

	mu    sync.RWMutex
	grid  map[cell]bool
	ready bool

	// Toggles on the same (date, actionID) are serialized; a second
	// toggle on a key waits for the first's remote mutation to settle.
	lockMu   sync.Mutex
	keyLocks map[cell]*sync.Mutex
}

// New builds an unhydrated tracker whose window is the 7 consecutive
// dates starting at start.
func New(s store.ProgressStore, userID uint, start time.Time, actionIDs []string, timeout time.Duration) *Tracker {
	dates := make([]string, WindowDays)
	for i := range dates {
		dates[i] = DateOf(start.AddDate(0, 0, i))
	}
	t := &Tracker{
		store:    s,
		userID:   userID,
		dates:    dates,
		actions:  append([]string(nil), actionIDs...),
		timeout:  timeout,
		grid:     make(map[cell]bool, WindowDays*len(actionIDs)),
		keyLocks: make(map[cell]*sync.Mutex),
	}
	for _, date := range dates {
		for _, actionID := range t.actions {
			t.grid[cell{date, actionID}] = false
		}
	}
	return t
}

// Hydrate seeds the ledger from the remote store. Every cell defaults to
// false; fetched entries overlay their value. Entries outside the window
// or for uncommitted actions are ignored. On failure the tracker stays
// not ready and no toggle is accepted; Hydrate may be retried.
func (t *Tracker) Hydrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	entries, err := t.store.Query(ctx, t.userID, t.dates[0], t.dates[len(t.dates)-1])
	if err != nil {
		return fmt.Errorf("hydrate ledger: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for key := range t.grid {
		t.grid[key] = false
	}
	for _, entry := range entries {
		key := cell{entry.Date, entry.ActionID}
		if _, ok := t.grid[key]; ok {
			t.grid[key] = entry.Completed
		}
	}
	t.ready = true
	return nil
}

// Ready reports whether hydration has succeeded.
func (t *Tracker) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ready
}

// Toggle flips the completion flag for (date, actionID), applying the new
// value locally before the matching remote mutation is issued: an upsert
// for true, a delete for false. If the remote call fails, the exact key
// is reverted to its pre-toggle value and a *SyncError is returned. A
// toggle outside the window or for an uncommitted action is a no-op. The
// returned bool is the value the ledger holds once the call settles.
func (t *Tracker) Toggle(ctx context.Context, date, actionID string) (bool, error) {
	if !t.Ready() {
		return false, ErrNotReady
	}

	key := cell{date, actionID}
	t.mu.RLock()
	_, tracked := t.grid[key]
	t.mu.RUnlock()
	if !tracked {
		return false, nil
	}

	lock := t.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	t.mu.Lock()
	oldValue := t.grid[key]
	newValue := !oldValue
	t.grid[key] = newValue
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var op string
	var err error
	if newValue {
		op = "upsert"
		err = t.store.Upsert(ctx, t.userID, date, actionID, true)
	} else {
		op = "delete"
		err = t.store.Delete(ctx, t.userID, date, actionID)
	}
	if err != nil {
		t.mu.Lock()
		t.grid[key] = oldValue
		t.mu.Unlock()
		return oldValue, &SyncError{Op: op, Date: date, ActionID: actionID, Err: err}
	}
	return newValue, nil
}

// Completed reports the ledger value for a key; unknown keys read false.
func (t *Tracker) Completed(date, actionID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.grid[cell{date, actionID}]
}

// Dates returns the window's dates in chronological order.
func (t *Tracker) Dates() []string {
	return append([]string(nil), t.dates...)
}

// Actions returns the committed action IDs.
func (t *Tracker) Actions() []string {
	return append([]string(nil), t.actions...)
}

// DayProgress is one ledger row as served to clients.
type DayProgress struct {
	Date      string          `json:"date"`
	Completed map[string]bool `json:"completed"`
}

// Board returns the full ledger in chronological order.
func (t *Tracker) Board() []DayProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	board := make([]DayProgress, 0, len(t.dates))
	for _, date := range t.dates {
		day := DayProgress{Date: date, Completed: make(map[string]bool, len(t.actions))}
		for _, actionID := range t.actions {
			day.Completed[actionID] = t.grid[cell{date, actionID}]
		}
		board = append(board, day)
	}
	return board
}

func (t *Tracker) keyLock(key cell) *sync.Mutex {
	t.lockMu.Lock()
	defer t.lockMu.Unlock()
	lock, ok := t.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		t.keyLocks[key] = lock
	}
	return lock
}
