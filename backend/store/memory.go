package store

import (
	"context"
	"sync"

	"project/backend/models"
)

// MemoryProgressStore is an in-memory ProgressStore. It backs the unit
// tests; the hooks let a test fail or stall a specific remote mutation.
type MemoryProgressStore struct {
	mu   sync.Mutex
	rows map[progressKey]bool

	QueryErr   error
	UpsertHook func(userID uint, date, actionID string, completed bool) error
	DeleteHook func(userID uint, date, actionID string) error

	Upserts int
	Deletes int
}

type progressKey struct {
	userID   uint
	date     string
	actionID string
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{rows: make(map[progressKey]bool)}
}

func (s *MemoryProgressStore) Query(ctx context.Context, userID uint, startDate, endDate string) ([]models.ProgressEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.QueryErr != nil {
		return nil, s.QueryErr
	}
	var entries []models.ProgressEntry
	for key, completed := range s.rows {
		if key.userID != userID || key.date < startDate || key.date > endDate {
			continue
		}
		entries = append(entries, models.ProgressEntry{
			UserID:    key.userID,
			Date:      key.date,
			ActionID:  key.actionID,
			Completed: completed,
		})
	}
	return entries, nil
}

func (s *MemoryProgressStore) Upsert(ctx context.Context, userID uint, date, actionID string, completed bool) error {
	if hook := s.UpsertHook; hook != nil {
		if err := hook(userID, date, actionID, completed); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Upserts++
	s.rows[progressKey{userID, date, actionID}] = completed
	return nil
}

func (s *MemoryProgressStore) Delete(ctx context.Context, userID uint, date, actionID string) error {
	if hook := s.DeleteHook; hook != nil {
		if err := hook(userID, date, actionID); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deletes++
	delete(s.rows, progressKey{userID, date, actionID})
	return nil
}

// Seed inserts a row directly, bypassing hooks and counters.
func (s *MemoryProgressStore) Seed(userID uint, date, actionID string, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[progressKey{userID, date, actionID}] = completed
}

// Completed reports the stored value for a key; absent means false.
func (s *MemoryProgressStore) Completed(userID uint, date, actionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[progressKey{userID, date, actionID}]
}

// MemoryKV is an in-memory KV for wizard store tests.
type MemoryKV struct {
	mu     sync.Mutex
	values map[kvKey]string

	GetErr error
	SetErr error
}

type kvKey struct {
	userID uint
	field  string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[kvKey]string)}
}

func (s *MemoryKV) Get(ctx context.Context, userID uint, field string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	value, ok := s.values[kvKey{userID, field}]
	return value, ok, nil
}

func (s *MemoryKV) Set(ctx context.Context, userID uint, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.values[kvKey{userID, field}] = value
	return nil
}
