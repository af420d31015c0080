package payment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType distinguishes what a pending payment covers
type PaymentType string

const (
	PaymentTypeOrder PaymentType = "order"
	PaymentTypeBreak PaymentType = "break"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeOrder || t == PaymentTypeBreak
}

// PaymentStatus represents the gateway outcome of a pending payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// SnapshotLine records one balance captured at checkout time. The line ID
// pins settlement to the exact ledger row; the item key plus capture date is
// the fallback when that row was since merged away.
type SnapshotLine struct {
	OrderLineID *uuid.UUID      `json:"order_line_id,omitempty"`
	BreakID     string          `json:"break_id,omitempty"`
	Item        string          `json:"item,omitempty"`
	CardNo      string          `json:"card_no,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	CapturedAt  time.Time       `json:"captured_at"`
}

// PendingPayment tracks one gateway checkout from creation until the server
// callback resolves it. TradeNo is the merchant-side identifier sent to the
// gateway and must be unique.
type PendingPayment struct {
	ID             uuid.UUID
	TradeNo        string
	CustomerRef    string
	Amount         decimal.Decimal
	PaymentType    PaymentType
	Snapshot       string
	Status         PaymentStatus
	RtnCode        string
	RtnMsg         string
	GatewayTradeNo string
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTradeNo builds a merchant trade number from the current time.
// The NC prefix plus millisecond timestamp stays within the gateway's
// 20-character limit.
func NewTradeNo(now time.Time) string {
	return fmt.Sprintf("NC%d", now.UnixMilli())
}

// NewPendingPayment creates a pending payment with its balance snapshot
func NewPendingPayment(tradeNo, customerRef string, amount decimal.Decimal, paymentType PaymentType, snapshot []SnapshotLine) (*PendingPayment, error) {
	tradeNo = strings.TrimSpace(tradeNo)
	if tradeNo == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Trade number cannot be empty")
	}
	if len(tradeNo) > 20 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Trade number cannot exceed 20 characters")
	}
	if strings.TrimSpace(customerRef) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer reference cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment type")
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Failed to encode payment snapshot")
	}
	now := time.Now()
	return &PendingPayment{
		ID:          uuid.New(),
		TradeNo:     tradeNo,
		CustomerRef: strings.TrimSpace(customerRef),
		Amount:      amount,
		PaymentType: paymentType,
		Snapshot:    string(raw),
		Status:      PaymentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SnapshotLines decodes the captured balance snapshot
func (p *PendingPayment) SnapshotLines() ([]SnapshotLine, error) {
	if p.Snapshot == "" {
		return nil, nil
	}
	var lines []SnapshotLine
	if err := json.Unmarshal([]byte(p.Snapshot), &lines); err != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Corrupt payment snapshot")
	}
	return lines, nil
}

// IsPending reports whether the payment still awaits a gateway outcome
func (p *PendingPayment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// MarkSuccess resolves the payment as paid. Success and failure are terminal;
// a second resolution attempt is rejected so replayed callbacks cannot mutate
// the record twice.
func (p *PendingPayment) MarkSuccess(rtnCode, rtnMsg, gatewayTradeNo string, paidAt time.Time) error {
	if !p.IsPending() {
		return shared.NewDomainError("INVALID_STATE", "Payment is already resolved")
	}
	p.Status = PaymentStatusSuccess
	p.RtnCode = rtnCode
	p.RtnMsg = rtnMsg
	p.GatewayTradeNo = gatewayTradeNo
	p.PaidAt = &paidAt
	p.UpdatedAt = time.Now()
	return nil
}

// MarkFailed resolves the payment as failed
func (p *PendingPayment) MarkFailed(rtnCode, rtnMsg string) error {
	if !p.IsPending() {
		return shared.NewDomainError("INVALID_STATE", "Payment is already resolved")
	}
	p.Status = PaymentStatusFailed
	p.RtnCode = rtnCode
	p.RtnMsg = rtnMsg
	p.UpdatedAt = time.Now()
	return nil
}
