package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewOrderLine(t *testing.T) {
	key := NewMergeKey("0912345678", "Topps Now", "TN-100", false)
	line, err := NewOrderLine(key, 12, decimal.NewFromInt(80))
	assert.NoError(t, err)

	assert.Equal(t, 12, line.Quantity)
	assert.True(t, line.TotalFee.Equal(decimal.NewFromInt(960)))
	assert.True(t, line.Balance.Equal(decimal.NewFromInt(960)))
	assert.True(t, line.Deposit.IsZero())
	assert.Equal(t, LineStatusSubmitted, line.Status)
}

func TestNewOrderLineValidation(t *testing.T) {
	tests := []struct {
		name     string
		key      MergeKey
		quantity int
		price    decimal.Decimal
	}{
		{"empty customer", NewMergeKey("", "Item", "", false), 1, decimal.NewFromInt(10)},
		{"empty item", NewMergeKey("0912", "", "", false), 1, decimal.NewFromInt(10)},
		{"zero quantity", NewMergeKey("0912", "Item", "", false), 0, decimal.NewFromInt(10)},
		{"negative price", NewMergeKey("0912", "Item", "", false), 1, decimal.NewFromInt(-10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrderLine(tt.key, tt.quantity, tt.price)
			assert.Error(t, err)
		})
	}
}

func TestMergeKeyNormalization(t *testing.T) {
	a := NewMergeKey(" alice ", " Box A", "", true)
	b := NewMergeKey("alice", "Box A", "", true)
	assert.Equal(t, a, b)
	assert.Equal(t, "alice||Box A||||Y", a.String())
}

func TestAbsorbSumsQuantityAndKeepsDeposit(t *testing.T) {
	key := NewMergeKey("alice", "Topps Now", "TN-100", false)
	line, _ := NewOrderLine(key, 3, decimal.NewFromInt(100))
	line.Deposit = decimal.NewFromInt(100)
	line.recalculate()

	err := line.Absorb(2, decimal.NewFromInt(100), decimal.NewFromInt(50))
	assert.NoError(t, err)

	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.TotalFee.Equal(decimal.NewFromInt(500)))
	assert.True(t, line.Deposit.Equal(decimal.NewFromInt(150)))
	assert.True(t, line.Balance.Equal(decimal.NewFromInt(350)))
}

func TestAbsorbRejectsSettledLine(t *testing.T) {
	key := NewMergeKey("alice", "Topps Now", "TN-100", false)
	line, _ := NewOrderLine(key, 1, decimal.NewFromInt(100))
	assert.NoError(t, line.ApplySettlement(decimal.NewFromInt(100), "ECPay", "TR1", time.Now()))

	assert.Error(t, line.Absorb(1, decimal.NewFromInt(100), decimal.Zero))
}

func TestApplySettlementArithmetic(t *testing.T) {
	// base=100, threshold reached: unit 80, 12 units = 960
	key := NewMergeKey("alice", "Topps Now", "TN-100", false)
	line, _ := NewOrderLine(key, 12, decimal.NewFromInt(80))

	paidAt := time.Now()
	err := line.ApplySettlement(decimal.NewFromInt(500), "ECPay", "EC123", paidAt)
	assert.NoError(t, err)

	assert.True(t, line.Deposit.Equal(decimal.NewFromInt(500)))
	assert.True(t, line.Balance.Equal(decimal.NewFromInt(460)))
	assert.Equal(t, LineStatusSettled, line.Status)
	assert.Equal(t, "EC123", line.GatewayTradeNo)
}

func TestApplySettlementIsTerminal(t *testing.T) {
	key := NewMergeKey("alice", "Topps Now", "TN-100", false)
	line, _ := NewOrderLine(key, 2, decimal.NewFromInt(100))

	assert.NoError(t, line.ApplySettlement(decimal.NewFromInt(200), "ECPay", "EC1", time.Now()))
	// the same settlement again must be rejected, not re-applied
	assert.Error(t, line.ApplySettlement(decimal.NewFromInt(200), "ECPay", "EC1", time.Now()))
	assert.True(t, line.Deposit.Equal(decimal.NewFromInt(200)))
}

func TestBalanceNeverNegative(t *testing.T) {
	key := NewMergeKey("alice", "Topps Now", "TN-100", false)
	line, _ := NewOrderLine(key, 1, decimal.NewFromInt(100))

	assert.NoError(t, line.ApplySettlement(decimal.NewFromInt(150), "ECPay", "EC1", time.Now()))
	assert.False(t, line.Balance.IsNegative())
	assert.True(t, line.Balance.IsZero())
}

func TestLineStatusTransitions(t *testing.T) {
	assert.True(t, LineStatusSubmitted.CanTransitionTo(LineStatusAwaitingConfirmation))
	assert.True(t, LineStatusSubmitted.CanTransitionTo(LineStatusSettled))
	assert.True(t, LineStatusAwaitingConfirmation.CanTransitionTo(LineStatusSettled))

	// no backward transitions
	assert.False(t, LineStatusAwaitingConfirmation.CanTransitionTo(LineStatusSubmitted))
	assert.False(t, LineStatusSettled.CanTransitionTo(LineStatusAwaitingConfirmation))
	assert.False(t, LineStatusSettled.CanTransitionTo(LineStatusSubmitted))
}
