package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ningscard/backend/internal/domain/payment"
	"github.com/ningscard/backend/internal/infrastructure/ecpay"
)

// CheckoutRequest selects which pending balances one gateway payment covers
type CheckoutRequest struct {
	CustomerRef string              `json:"customer_ref" validate:"required"`
	PaymentType payment.PaymentType `json:"payment_type" validate:"required"`
	LineIDs     []uuid.UUID         `json:"line_ids"`
	BreakIDs    []string            `json:"break_ids"`
}

// CheckoutResponse returns the trade number and the signed cashier form
type CheckoutResponse struct {
	TradeNo  string          `json:"trade_no"`
	Amount   decimal.Decimal `json:"amount"`
	Redirect ecpay.Redirect  `json:"redirect"`
}

// StatusResponse reports the resolved state of one pending payment
type StatusResponse struct {
	TradeNo string          `json:"trade_no"`
	Status  string          `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
	RtnCode string          `json:"rtn_code,omitempty"`
	RtnMsg  string          `json:"rtn_msg,omitempty"`
	PaidAt  *time.Time      `json:"paid_at,omitempty"`
}
