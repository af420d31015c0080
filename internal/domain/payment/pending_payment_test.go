package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTradeNo(t *testing.T) {
	now := time.UnixMilli(1719820800000)
	tradeNo := NewTradeNo(now)

	assert.Equal(t, "NC1719820800000", tradeNo)
	assert.LessOrEqual(t, len(tradeNo), 20)
}

func TestNewPendingPayment(t *testing.T) {
	lineID := uuid.New()
	snapshot := []SnapshotLine{
		{OrderLineID: &lineID, Item: "OP09 Booster", CardNo: "001", Balance: decimal.NewFromInt(350), CapturedAt: time.Now()},
	}

	p, err := NewPendingPayment("NC1719820800000", "0912345678", decimal.NewFromInt(350), PaymentTypeOrder, snapshot)
	require.NoError(t, err)

	assert.Equal(t, PaymentStatusPending, p.Status)
	assert.True(t, p.IsPending())

	lines, err := p.SnapshotLines()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, lineID, *lines[0].OrderLineID)
	assert.True(t, lines[0].Balance.Equal(decimal.NewFromInt(350)))
}

func TestNewPendingPayment_Validation(t *testing.T) {
	tests := []struct {
		name        string
		tradeNo     string
		customerRef string
		amount      decimal.Decimal
		paymentType PaymentType
	}{
		{"empty trade no", "", "0912345678", decimal.NewFromInt(100), PaymentTypeOrder},
		{"trade no too long", "NC123456789012345678901", "0912345678", decimal.NewFromInt(100), PaymentTypeOrder},
		{"empty customer", "NC1", "", decimal.NewFromInt(100), PaymentTypeOrder},
		{"zero amount", "NC1", "0912345678", decimal.Zero, PaymentTypeOrder},
		{"negative amount", "NC1", "0912345678", decimal.NewFromInt(-5), PaymentTypeBreak},
		{"invalid type", "NC1", "0912345678", decimal.NewFromInt(100), PaymentType("refund")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPendingPayment(tt.tradeNo, tt.customerRef, tt.amount, tt.paymentType, nil)
			assert.Error(t, err)
		})
	}
}

func TestPendingPayment_MarkSuccess(t *testing.T) {
	p, err := NewPendingPayment("NC1", "0912345678", decimal.NewFromInt(100), PaymentTypeOrder, nil)
	require.NoError(t, err)

	paidAt := time.Now()
	require.NoError(t, p.MarkSuccess("1", "Succeeded", "2407011234567890", paidAt))

	assert.Equal(t, PaymentStatusSuccess, p.Status)
	assert.False(t, p.IsPending())
	assert.Equal(t, "2407011234567890", p.GatewayTradeNo)

	// a resolved payment cannot be resolved again
	assert.Error(t, p.MarkSuccess("1", "Succeeded", "replay", paidAt))
	assert.Error(t, p.MarkFailed("10200095", "CheckMacValue Error"))
}

func TestPendingPayment_MarkFailed(t *testing.T) {
	p, err := NewPendingPayment("NC1", "0912345678", decimal.NewFromInt(100), PaymentTypeOrder, nil)
	require.NoError(t, err)

	require.NoError(t, p.MarkFailed("10100058", "Payment failed"))
	assert.Equal(t, PaymentStatusFailed, p.Status)
	assert.Error(t, p.MarkSuccess("1", "Succeeded", "EC1", time.Now()))
}

func TestPendingPayment_SnapshotBreakLines(t *testing.T) {
	snapshot := []SnapshotLine{
		{BreakID: "BRK-2024-07", Balance: decimal.NewFromInt(450), CapturedAt: time.Now()},
	}
	p, err := NewPendingPayment("NC2", "0912345678", decimal.NewFromInt(450), PaymentTypeBreak, snapshot)
	require.NoError(t, err)

	lines, err := p.SnapshotLines()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Nil(t, lines[0].OrderLineID)
	assert.Equal(t, "BRK-2024-07", lines[0].BreakID)
}
