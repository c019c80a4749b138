package ledger

import "math"

// Streak counts consecutive fully-completed dates from the start of the
// window forward, stopping at the first date on or before today that is
// not fully completed. Dates after today never break the streak.
func (t *Tracker) Streak(today string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	streak := 0
	for _, date := range t.dates {
		if date > today {
			continue
		}
		if t.dayCompleteLocked(date) {
			streak++
		} else {
			break
		}
	}
	return streak
}

// CompletionRate is the percentage of completed cells across the whole
// window, rounded to the nearest integer. An empty grid yields 0.
func (t *Tracker) CompletionRate() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := len(t.dates) * len(t.actions)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, value := range t.grid {
		if value {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

func (t *Tracker) dayCompleteLocked(date string) bool {
	for _, actionID := range t.actions {
		if !t.grid[cell{date, actionID}] {
			return false
		}
	}
	return true
}
