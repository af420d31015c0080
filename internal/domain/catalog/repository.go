package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository provides access to the product catalog
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByKey looks up a product by item name and card number. Box products
	// carry an empty card number and are keyed by item alone.
	FindByKey(ctx context.Context, item, cardNo string) (*Product, error)
	FindAllAvailable(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	// UpdateStock persists a new remaining-stock value for a box product
	UpdateStock(ctx context.Context, id uuid.UUID, remainingStock int) error
}
