package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ningscard/backend/internal/domain/order"
	"github.com/ningscard/backend/internal/domain/shared"
)

func newLine(t *testing.T, customerRef, item, cardNo string, quantity int, unitPrice int64) *order.OrderLine {
	t.Helper()
	key := order.NewMergeKey(customerRef, item, cardNo, false)
	line, err := order.NewOrderLine(key, quantity, decimal.NewFromInt(unitPrice))
	require.NoError(t, err)
	return line
}

func TestGormOrderLineRepository_InsertAndFindByID(t *testing.T) {
	repo := NewGormOrderLineRepository(setupTestDB(t))
	ctx := context.Background()

	line := newLine(t, "0912345678", "OP09 Booster", "001", 5, 100)
	require.NoError(t, repo.Insert(ctx, []order.OrderLine{*line}))

	found, err := repo.FindByID(ctx, line.ID)
	require.NoError(t, err)
	assert.Equal(t, line.ID, found.ID)
	assert.Equal(t, 5, found.Quantity)
	assert.True(t, found.TotalFee.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, order.LineStatusSubmitted, found.Status)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderLineRepository_FindOpenByCustomer(t *testing.T) {
	repo := NewGormOrderLineRepository(setupTestDB(t))
	ctx := context.Background()

	open := newLine(t, "0912345678", "OP09 Booster", "001", 2, 100)
	settled := newLine(t, "0912345678", "OP10 Booster", "002", 1, 120)
	require.NoError(t, settled.ApplySettlement(decimal.NewFromInt(120), "Credit", "EC1", time.Now()))
	other := newLine(t, "0955555555", "OP09 Booster", "001", 3, 100)
	require.NoError(t, repo.Insert(ctx, []order.OrderLine{*open, *settled, *other}))

	lines, err := repo.FindOpenByCustomer(ctx, "0912345678")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, open.ID, lines[0].ID)
}

func TestGormOrderLineRepository_SumQuantityByItem(t *testing.T) {
	repo := NewGormOrderLineRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, []order.OrderLine{
		*newLine(t, "0912345678", "OP09 Booster", "001", 4, 100),
		*newLine(t, "0955555555", "OP09 Booster", "001", 7, 100),
		*newLine(t, "0955555555", "OP09 Booster", "002", 9, 100),
	}))

	total, err := repo.SumQuantityByItem(ctx, "OP09 Booster", "001")
	require.NoError(t, err)
	assert.Equal(t, 11, total)

	total, err = repo.SumQuantityByItem(ctx, "Nonexistent", "")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestGormOrderLineRepository_FindSameDay(t *testing.T) {
	repo := NewGormOrderLineRepository(setupTestDB(t))
	ctx := context.Background()

	today := newLine(t, "0912345678", "OP09 Booster", "001", 2, 100)
	yesterday := newLine(t, "0912345678", "OP09 Booster", "001", 3, 100)
	yesterday.CreatedAt = yesterday.CreatedAt.AddDate(0, 0, -1)
	require.NoError(t, repo.Insert(ctx, []order.OrderLine{*today, *yesterday}))

	lines, err := repo.FindSameDay(ctx, "0912345678", "OP09 Booster", "001", time.Now())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, today.ID, lines[0].ID)
}

func TestGormOrderLineRepository_SaveAndDelete(t *testing.T) {
	repo := NewGormOrderLineRepository(setupTestDB(t))
	ctx := context.Background()

	line := newLine(t, "0912345678", "OP09 Booster", "001", 2, 100)
	require.NoError(t, repo.Insert(ctx, []order.OrderLine{*line}))

	require.NoError(t, line.Absorb(3, decimal.NewFromInt(100), decimal.Zero))
	require.NoError(t, repo.Save(ctx, line))

	found, err := repo.FindByID(ctx, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)

	require.NoError(t, repo.Delete(ctx, line.ID))
	_, err = repo.FindByID(ctx, line.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
