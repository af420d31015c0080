package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineStatus represents the payment lifecycle of an order line
type LineStatus string

const (
	LineStatusSubmitted            LineStatus = "SUBMITTED"
	LineStatusAwaitingConfirmation LineStatus = "AWAITING_CONFIRMATION"
	LineStatusSettled              LineStatus = "SETTLED"
)

// IsValid checks if the status is a valid LineStatus
func (s LineStatus) IsValid() bool {
	switch s {
	case LineStatusSubmitted, LineStatusAwaitingConfirmation, LineStatusSettled:
		return true
	}
	return false
}

// String returns the string representation of LineStatus
func (s LineStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions are strictly forward: SUBMITTED, AWAITING_CONFIRMATION, then SETTLED.
func (s LineStatus) CanTransitionTo(target LineStatus) bool {
	switch s {
	case LineStatusSubmitted:
		return target == LineStatusAwaitingConfirmation || target == LineStatusSettled
	case LineStatusAwaitingConfirmation:
		return target == LineStatusSettled
	case LineStatusSettled:
		return false // terminal
	}
	return false
}

// MergeKey identifies one logical, aggregable order line for a customer.
// Submissions sharing a key are folded into a single row.
type MergeKey struct {
	CustomerRef string
	Item        string
	CardNo      string
	IsBox       bool
}

// NewMergeKey builds a normalized merge key
func NewMergeKey(customerRef, item, cardNo string, isBox bool) MergeKey {
	return MergeKey{
		CustomerRef: strings.TrimSpace(customerRef),
		Item:        strings.TrimSpace(item),
		CardNo:      strings.TrimSpace(cardNo),
		IsBox:       isBox,
	}
}

// String renders the key for logging and lock-free map grouping
func (k MergeKey) String() string {
	box := "N"
	if k.IsBox {
		box = "Y"
	}
	return fmt.Sprintf("%s||%s||%s||%s", k.CustomerRef, k.Item, k.CardNo, box)
}

// OrderLine is one customer's aggregated position in a catalog item.
// The Merge Coordinator is the only writer of quantity and price; the
// Settlement Reconciler is the only writer of deposit and status.
type OrderLine struct {
	ID             uuid.UUID
	CustomerRef    string
	Item           string
	CardNo         string
	IsBox          bool
	Quantity       int
	UnitPrice      decimal.Decimal
	TotalFee       decimal.Decimal
	Deposit        decimal.Decimal
	Balance        decimal.Decimal
	Status         LineStatus
	ArrivalStatus  string
	ImageURL       string
	PaymentMethod  string
	GatewayTradeNo string
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOrderLine creates a freshly submitted line with zero deposit
func NewOrderLine(key MergeKey, quantity int, unitPrice decimal.Decimal) (*OrderLine, error) {
	if key.CustomerRef == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer reference cannot be empty")
	}
	if key.Item == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Item cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit price cannot be negative")
	}

	now := time.Now()
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return &OrderLine{
		ID:          uuid.New(),
		CustomerRef: key.CustomerRef,
		Item:        key.Item,
		CardNo:      key.CardNo,
		IsBox:       key.IsBox,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalFee:    total,
		Deposit:     decimal.Zero,
		Balance:     total,
		Status:      LineStatusSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Key returns the line's merge key
func (l *OrderLine) Key() MergeKey {
	return NewMergeKey(l.CustomerRef, l.Item, l.CardNo, l.IsBox)
}

// IsOpen reports whether the line can still absorb merged quantity
func (l *OrderLine) IsOpen() bool {
	return l.Status != LineStatusSettled
}

// Absorb folds additional quantity into the line at the given unit price and
// recomputes total and balance against the accumulated deposit.
func (l *OrderLine) Absorb(quantity int, unitPrice decimal.Decimal, extraDeposit decimal.Decimal) error {
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if !l.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "Cannot merge into a settled order line")
	}
	l.Quantity += quantity
	l.Deposit = l.Deposit.Add(extraDeposit)
	l.UnitPrice = unitPrice
	l.recalculate()
	return nil
}

// Reprice applies a new unit price, recomputing total and balance.
// Callers must first check for manual overrides (catalog.IsManualOverride).
func (l *OrderLine) Reprice(unitPrice decimal.Decimal) {
	l.UnitPrice = unitPrice
	l.recalculate()
}

// MarkAwaitingConfirmation flags the line while its payment is in flight
func (l *OrderLine) MarkAwaitingConfirmation() error {
	if !l.Status.CanTransitionTo(LineStatusAwaitingConfirmation) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move order line to awaiting confirmation from %s", l.Status))
	}
	l.Status = LineStatusAwaitingConfirmation
	l.UpdatedAt = time.Now()
	return nil
}

// ApplySettlement adds a confirmed payment to the deposit, recomputes the
// balance, and settles the line.
func (l *OrderLine) ApplySettlement(amount decimal.Decimal, method, gatewayTradeNo string, paidAt time.Time) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Settlement amount cannot be negative")
	}
	if l.Status == LineStatusSettled {
		return shared.NewDomainError("INVALID_STATE", "Order line is already settled")
	}
	l.Deposit = l.Deposit.Add(amount)
	l.recalculate()
	l.Status = LineStatusSettled
	l.PaymentMethod = method
	l.GatewayTradeNo = gatewayTradeNo
	l.PaidAt = &paidAt
	l.UpdatedAt = time.Now()
	return nil
}

// recalculate restores the balance invariant: balance = total - deposit, floored at zero
func (l *OrderLine) recalculate() {
	l.TotalFee = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	l.Balance = l.TotalFee.Sub(l.Deposit)
	if l.Balance.IsNegative() {
		l.Balance = decimal.Zero
	}
	l.UpdatedAt = time.Now()
}
