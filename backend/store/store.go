// Package store defines the persistence collaborators consumed by the
// wizard and the progress tracker, plus their GORM/Postgres
// implementations. The tracker only ever sees these interfaces.
package store

import (
	"context"

	"project/backend/models"
)

// ProgressStore is the authoritative remote table of per-user completion
// rows. Upsert and Delete are idempotent: repeating an identical call is a
// no-op, and deleting an absent row is not an error. Completed=false rows
// are never stored — the representation is sparse.
type ProgressStore interface {
	Query(ctx context.Context, userID uint, startDate, endDate string) ([]models.ProgressEntry, error)
	Upsert(ctx context.Context, userID uint, date, actionID string, completed bool) error
	Delete(ctx context.Context, userID uint, date, actionID string) error
}

// KV is the durable per-user key/value store backing the wizard state.
type KV interface {
	Get(ctx context.Context, userID uint, field string) (value string, ok bool, err error)
	Set(ctx context.Context, userID uint, field, value string) error
}
