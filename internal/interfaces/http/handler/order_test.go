package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderapp "github.com/ningscard/backend/internal/application/order"
	"github.com/ningscard/backend/internal/domain/catalog"
	"github.com/ningscard/backend/internal/interfaces/http/dto"
)

func newOrderFixture(t *testing.T) (*fakeLineRepo, *fakeProductRepo, *OrderHandler) {
	t.Helper()
	lineRepo := newFakeLineRepo()
	productRepo := newFakeProductRepo()
	mergeService := orderapp.NewMergeService(lineRepo, productRepo, noopLocker{}, nil, nil)
	queryService := orderapp.NewQueryService(lineRepo)
	return lineRepo, productRepo, NewOrderHandler(mergeService, queryService)
}

func seedProduct(t *testing.T, repo *fakeProductRepo, item, cardNo string, base float64, isBox bool, stock int) {
	t.Helper()
	p, err := catalog.NewProduct(item, cardNo, decimal.NewFromFloat(base), isBox)
	require.NoError(t, err)
	p.RemainingStock = stock
	repo.add(p)
}

func TestOrderHandler_SubmitAcceptsEntries(t *testing.T) {
	lineRepo, productRepo, h := newOrderFixture(t)
	seedProduct(t, productRepo, "OP09", "001", 100, false, 0)
	engine := newTestEngine(t, h)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/orders",
		`{"customer_ref":"@alice","entries":[{"item":"OP09","card_no":"001","quantity":2},{"item":"OP09","card_no":"001","quantity":3}]}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, lineRepo.lines, 1)
}

func TestOrderHandler_SubmitRejectsMalformedBody(t *testing.T) {
	_, _, h := newOrderFixture(t)
	engine := newTestEngine(t, h)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/orders",
		`{"customer_ref":"","entries":[]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
	assert.NotEmpty(t, resp.Details)
}

func TestOrderHandler_SubmitInsufficientStockMapsTo422(t *testing.T) {
	_, productRepo, h := newOrderFixture(t)
	seedProduct(t, productRepo, "OP09 Booster Box", "", 5000, true, 1)
	engine := newTestEngine(t, h)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/orders",
		`{"customer_ref":"@alice","entries":[{"item":"OP09 Booster Box","quantity":3,"is_box":true}]}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
}

func TestOrderHandler_SubmitUnknownItemMapsTo404(t *testing.T) {
	_, _, h := newOrderFixture(t)
	engine := newTestEngine(t, h)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/orders",
		`{"customer_ref":"@alice","entries":[{"item":"No Such Item","quantity":1}]}`)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_PendingRequiresCustomerRef(t *testing.T) {
	_, _, h := newOrderFixture(t)
	engine := newTestEngine(t, h)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/orders/pending", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_PendingReturnsLines(t *testing.T) {
	_, productRepo, h := newOrderFixture(t)
	seedProduct(t, productRepo, "OP09", "001", 100, false, 0)
	engine := newTestEngine(t, h)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/orders",
		`{"customer_ref":"@alice","entries":[{"item":"OP09","card_no":"001","quantity":2}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/orders/pending?customer_ref=%40alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                    `json:"success"`
		Data    []orderapp.LineResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "OP09", resp.Data[0].Item)
	assert.Equal(t, 2, resp.Data[0].Quantity)
	assert.True(t, resp.Data[0].TotalFee.Equal(decimal.NewFromInt(200)))
}
