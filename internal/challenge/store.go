package challenge

import (
	"context"
	"time"
)

// DefinitionStore is the persistence contract for challenge definitions.
// Lookups that find nothing return (nil, nil); callers must check before
// use.
type DefinitionStore interface {
	GetByID(ctx context.Context, id string) (*Definition, error)
	GetByStatus(ctx context.Context, statuses ...Status) ([]*Definition, error)
	Create(ctx context.Context, def *Definition) (string, error)
	Update(ctx context.Context, def *Definition) error
	Delete(ctx context.Context, id string) error
}

// RecordStore is the persistence contract for participation records.
// Create assigns and returns the record id; Update is a full overwrite at
// the record's id; Delete is a hard delete.
type RecordStore interface {
	GetByID(ctx context.Context, id string) (*Record, error)
	GetByUserAndName(ctx context.Context, userID, name string) (*Record, error)
	// GetActiveForUser returns records whose state is not failed and whose
	// window has not closed. Completed records are included until the
	// window ends.
	GetActiveForUser(ctx context.Context, userID string, now time.Time) ([]Record, error)
	GetAllByName(ctx context.Context, name string) ([]Record, error)
	Create(ctx context.Context, rec Record) (string, error)
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
}
