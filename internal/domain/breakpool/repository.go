package breakpool

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for break-pool entries
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindByBreak(ctx context.Context, customerRef, breakID string) (*Entry, error)
	FindOpenByCustomer(ctx context.Context, customerRef string) ([]Entry, error)
	Insert(ctx context.Context, entries []Entry) error
	Save(ctx context.Context, entry *Entry) error
}
