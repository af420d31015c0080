package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry a customer can order: a single card (identified
// by item + card number) or a sealed box (identified by item alone).
type Product struct {
	ID             uuid.UUID
	Item           string
	CardNo         string
	BasePrice      decimal.Decimal
	ThresholdQty   int             // volume needed to unlock ThresholdPrice; 0 = no discount
	ThresholdPrice decimal.Decimal // discounted unit price once ThresholdQty is reached
	RemainingStock int             // box products only; floor 0
	IsBox          bool
	Available      bool
	ImageURL       string
	ArrivalStatus  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProduct creates a catalog product. The IsBox flag is mandatory at
// data-entry time; box membership is never inferred from the item name.
func NewProduct(item, cardNo string, basePrice decimal.Decimal, isBox bool) (*Product, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Item name cannot be empty")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Base price cannot be negative")
	}
	now := time.Now()
	return &Product{
		ID:             uuid.New(),
		Item:           item,
		CardNo:         strings.TrimSpace(cardNo),
		BasePrice:      basePrice,
		ThresholdPrice: decimal.Zero,
		IsBox:          isBox,
		Available:      true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// SetVolumeDiscount configures the threshold pricing for the product
func (p *Product) SetVolumeDiscount(thresholdQty int, thresholdPrice decimal.Decimal) error {
	if thresholdQty < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Threshold quantity cannot be negative")
	}
	if thresholdPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Threshold price cannot be negative")
	}
	p.ThresholdQty = thresholdQty
	p.ThresholdPrice = thresholdPrice
	p.UpdatedAt = time.Now()
	return nil
}

// HasVolumeDiscount reports whether threshold pricing is configured
func (p *Product) HasVolumeDiscount() bool {
	return p.ThresholdQty > 0 && p.ThresholdPrice.IsPositive()
}

// DecrementStock reduces remaining stock by qty, flooring at zero.
// Stock is only tracked for box products.
func (p *Product) DecrementStock(qty int) {
	p.RemainingStock -= qty
	if p.RemainingStock < 0 {
		p.RemainingStock = 0
	}
	p.UpdatedAt = time.Now()
}

// Close marks the product as no longer orderable
func (p *Product) Close() {
	p.Available = false
	p.UpdatedAt = time.Now()
}
