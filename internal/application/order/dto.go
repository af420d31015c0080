package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ningscard/backend/internal/domain/order"
)

// SubmitEntry is one requested position in a submission
type SubmitEntry struct {
	Item     string `json:"item" validate:"required"`
	CardNo   string `json:"card_no"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	IsBox    bool   `json:"is_box"`
}

// SubmitRequest is a customer's batch of order entries
type SubmitRequest struct {
	CustomerRef string        `json:"customer_ref" validate:"required"`
	Entries     []SubmitEntry `json:"entries" validate:"required,min=1,dive"`
}

// SubmitResult reports the outcome of a submission
type SubmitResult struct {
	AcceptedCount int `json:"accepted_count"`
}

// LineResponse is the API shape of one ledger row
type LineResponse struct {
	ID            uuid.UUID       `json:"id"`
	Item          string          `json:"item"`
	CardNo        string          `json:"card_no,omitempty"`
	IsBox         bool            `json:"is_box"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalFee      decimal.Decimal `json:"total_fee"`
	Deposit       decimal.Decimal `json:"deposit"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	ArrivalStatus string          `json:"arrival_status,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToLineResponse converts a domain order line to its API shape
func ToLineResponse(l *order.OrderLine) LineResponse {
	return LineResponse{
		ID:            l.ID,
		Item:          l.Item,
		CardNo:        l.CardNo,
		IsBox:         l.IsBox,
		Quantity:      l.Quantity,
		UnitPrice:     l.UnitPrice,
		TotalFee:      l.TotalFee,
		Deposit:       l.Deposit,
		Balance:       l.Balance,
		Status:        l.Status.String(),
		ArrivalStatus: l.ArrivalStatus,
		ImageURL:      l.ImageURL,
		CreatedAt:     l.CreatedAt,
	}
}
