package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderLineRepository provides access to the order-line ledger
type OrderLineRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderLine, error)
	// FindOpenByCustomer returns the customer's lines that are not settled,
	// oldest first. Duplicate merge keys among them are a legacy condition the
	// Merge Coordinator folds away.
	FindOpenByCustomer(ctx context.Context, customerRef string) ([]OrderLine, error)
	// FindByItem returns every line (any customer) for an item/card pair,
	// used for global accumulation and the threshold reprice sweep.
	FindByItem(ctx context.Context, item, cardNo string) ([]OrderLine, error)
	// FindSameDay locates lines matching the merge fields whose creation date
	// (not time) equals day. Legacy snapshots without a line ID resolve
	// through this fuzzy path.
	FindSameDay(ctx context.Context, customerRef, item, cardNo string, day time.Time) ([]OrderLine, error)
	// SumQuantityByItem returns the global accumulated quantity for an item,
	// optionally narrowed to one card number.
	SumQuantityByItem(ctx context.Context, item, cardNo string) (int, error)
	Insert(ctx context.Context, lines []OrderLine) error
	Save(ctx context.Context, line *OrderLine) error
	Delete(ctx context.Context, id uuid.UUID) error
}
