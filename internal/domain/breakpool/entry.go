package breakpool

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryStatus represents the payment lifecycle of a break-pool entry
type EntryStatus string

const (
	EntryStatusSubmitted            EntryStatus = "SUBMITTED"
	EntryStatusAwaitingConfirmation EntryStatus = "AWAITING_CONFIRMATION"
	EntryStatusSettled              EntryStatus = "SETTLED"
)

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// Entry is one customer's stake in a group break: a shared lot jointly funded
// by several customers, each carrying an individual balance.
type Entry struct {
	ID             uuid.UUID
	BreakID        string
	BreakName      string
	CustomerRef    string
	TotalFee       decimal.Decimal
	Paid           decimal.Decimal
	Status         EntryStatus
	PaymentMethod  string
	GatewayTradeNo string
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewEntry creates a break-pool entry with nothing paid yet
func NewEntry(breakID, breakName, customerRef string, totalFee decimal.Decimal) (*Entry, error) {
	breakID = strings.TrimSpace(breakID)
	if breakID == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Break ID cannot be empty")
	}
	if strings.TrimSpace(customerRef) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer reference cannot be empty")
	}
	if totalFee.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Total fee cannot be negative")
	}
	now := time.Now()
	return &Entry{
		ID:          uuid.New(),
		BreakID:     breakID,
		BreakName:   strings.TrimSpace(breakName),
		CustomerRef: strings.TrimSpace(customerRef),
		TotalFee:    totalFee,
		Paid:        decimal.Zero,
		Status:      EntryStatusSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Outstanding returns the unpaid remainder, floored at zero
func (e *Entry) Outstanding() decimal.Decimal {
	out := e.TotalFee.Sub(e.Paid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// IsSettled reports whether the entry is fully funded
func (e *Entry) IsSettled() bool {
	return e.Status == EntryStatusSettled
}

// MarkAwaitingConfirmation flags the entry while its payment is in flight
func (e *Entry) MarkAwaitingConfirmation() error {
	if e.Status == EntryStatusSettled {
		return shared.NewDomainError("INVALID_STATE", "Break entry is already settled")
	}
	e.Status = EntryStatusAwaitingConfirmation
	e.UpdatedAt = time.Now()
	return nil
}

// ApplyPayment accumulates a confirmed payment. The entry settles only once
// the paid amount covers the total fee; a partial payment leaves it awaiting
// confirmation.
func (e *Entry) ApplyPayment(amount decimal.Decimal, method, gatewayTradeNo string, paidAt time.Time) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment amount cannot be negative")
	}
	e.Paid = e.Paid.Add(amount)
	if e.TotalFee.IsPositive() && e.Paid.GreaterThanOrEqual(e.TotalFee) {
		e.Status = EntryStatusSettled
	} else {
		e.Status = EntryStatusAwaitingConfirmation
	}
	e.PaymentMethod = method
	e.GatewayTradeNo = gatewayTradeNo
	e.PaidAt = &paidAt
	e.UpdatedAt = time.Now()
	return nil
}
