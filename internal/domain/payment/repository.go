package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for pending payments
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PendingPayment, error)
	FindByTradeNo(ctx context.Context, tradeNo string) (*PendingPayment, error)
	Insert(ctx context.Context, payment *PendingPayment) error
	Save(ctx context.Context, payment *PendingPayment) error
}
