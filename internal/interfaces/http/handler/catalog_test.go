package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/ningscard/backend/internal/application/catalog"
	"github.com/ningscard/backend/internal/domain/catalog"
	"github.com/ningscard/backend/internal/domain/order"
)

func TestCatalogHandler_ListReturnsEffectivePrices(t *testing.T) {
	lineRepo := newFakeLineRepo()
	productRepo := newFakeProductRepo()

	p, err := catalog.NewProduct("OP09", "001", decimal.NewFromInt(100), false)
	require.NoError(t, err)
	require.NoError(t, p.SetVolumeDiscount(10, decimal.NewFromInt(80)))
	productRepo.add(p)

	line, err := order.NewOrderLine(order.NewMergeKey("@bob", "OP09", "001", false), 12, decimal.NewFromInt(80))
	require.NoError(t, err)
	require.NoError(t, lineRepo.Insert(context.Background(), []order.OrderLine{*line}))

	engine := newTestEngine(t, NewCatalogHandler(catalogapp.NewService(productRepo, lineRepo)))

	w := doJSON(t, engine, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                         `json:"success"`
		Data    []catalogapp.ProductResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.True(t, resp.Data[0].EffectivePrice.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 12, resp.Data[0].AccumulatedQty)
}

func TestCatalogHandler_ListEmptyCatalog(t *testing.T) {
	engine := newTestEngine(t, NewCatalogHandler(catalogapp.NewService(newFakeProductRepo(), newFakeLineRepo())))

	w := doJSON(t, engine, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, w.Code)
}
