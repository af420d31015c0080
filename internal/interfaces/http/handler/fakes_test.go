package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ningscard/backend/internal/domain/breakpool"
	"github.com/ningscard/backend/internal/domain/catalog"
	"github.com/ningscard/backend/internal/domain/order"
	"github.com/ningscard/backend/internal/domain/payment"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/ningscard/backend/internal/infrastructure/ecpay"
	"github.com/ningscard/backend/internal/interfaces/http/middleware"
	"github.com/ningscard/backend/internal/interfaces/http/router"
)

type fakeLineRepo struct {
	lines map[uuid.UUID]order.OrderLine
}

func newFakeLineRepo() *fakeLineRepo {
	return &fakeLineRepo{lines: make(map[uuid.UUID]order.OrderLine)}
}

func (f *fakeLineRepo) FindByID(ctx context.Context, id uuid.UUID) (*order.OrderLine, error) {
	if l, ok := f.lines[id]; ok {
		return &l, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeLineRepo) FindOpenByCustomer(ctx context.Context, customerRef string) ([]order.OrderLine, error) {
	var out []order.OrderLine
	for _, l := range f.lines {
		if l.CustomerRef == customerRef && l.Status != order.LineStatusSettled {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLineRepo) FindByItem(ctx context.Context, item, cardNo string) ([]order.OrderLine, error) {
	var out []order.OrderLine
	for _, l := range f.lines {
		if l.Item == item && l.CardNo == cardNo {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLineRepo) FindSameDay(ctx context.Context, customerRef, item, cardNo string, day time.Time) ([]order.OrderLine, error) {
	var out []order.OrderLine
	for _, l := range f.lines {
		if l.CustomerRef == customerRef && l.Item == item && l.CardNo == cardNo &&
			l.CreatedAt.Format("2006-01-02") == day.Format("2006-01-02") {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLineRepo) SumQuantityByItem(ctx context.Context, item, cardNo string) (int, error) {
	sum := 0
	for _, l := range f.lines {
		if l.Item == item && (cardNo == "" || l.CardNo == cardNo) {
			sum += l.Quantity
		}
	}
	return sum, nil
}

func (f *fakeLineRepo) Insert(ctx context.Context, lines []order.OrderLine) error {
	for _, l := range lines {
		f.lines[l.ID] = l
	}
	return nil
}

func (f *fakeLineRepo) Save(ctx context.Context, line *order.OrderLine) error {
	f.lines[line.ID] = *line
	return nil
}

func (f *fakeLineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.lines, id)
	return nil
}

type fakeProductRepo struct {
	products map[string]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*catalog.Product)}
}

func productKey(item, cardNo string) string { return item + "|" + cardNo }

func (f *fakeProductRepo) add(p *catalog.Product) {
	f.products[productKey(p.Item, p.CardNo)] = p
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) FindByKey(ctx context.Context, item, cardNo string) (*catalog.Product, error) {
	if p, ok := f.products[productKey(item, cardNo)]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) FindAllAvailable(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.products {
		if p.Available {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	f.products[productKey(product.Item, product.CardNo)] = product
	return nil
}

func (f *fakeProductRepo) UpdateStock(ctx context.Context, id uuid.UUID, remainingStock int) error {
	for _, p := range f.products {
		if p.ID == id {
			p.RemainingStock = remainingStock
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeBreakRepo struct {
	entries map[uuid.UUID]breakpool.Entry
}

func newFakeBreakRepo() *fakeBreakRepo {
	return &fakeBreakRepo{entries: make(map[uuid.UUID]breakpool.Entry)}
}

func (f *fakeBreakRepo) FindByID(ctx context.Context, id uuid.UUID) (*breakpool.Entry, error) {
	if e, ok := f.entries[id]; ok {
		return &e, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeBreakRepo) FindByBreak(ctx context.Context, customerRef, breakID string) (*breakpool.Entry, error) {
	for _, e := range f.entries {
		if e.CustomerRef == customerRef && e.BreakID == breakID {
			entry := e
			return &entry, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeBreakRepo) FindOpenByCustomer(ctx context.Context, customerRef string) ([]breakpool.Entry, error) {
	var out []breakpool.Entry
	for _, e := range f.entries {
		if e.CustomerRef == customerRef && e.Status != breakpool.EntryStatusSettled {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeBreakRepo) Insert(ctx context.Context, entries []breakpool.Entry) error {
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return nil
}

func (f *fakeBreakRepo) Save(ctx context.Context, entry *breakpool.Entry) error {
	f.entries[entry.ID] = *entry
	return nil
}

type fakePendingRepo struct {
	payments map[string]payment.PendingPayment
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{payments: make(map[string]payment.PendingPayment)}
}

func (f *fakePendingRepo) FindByID(ctx context.Context, id uuid.UUID) (*payment.PendingPayment, error) {
	for _, p := range f.payments {
		if p.ID == id {
			pp := p
			return &pp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakePendingRepo) FindByTradeNo(ctx context.Context, tradeNo string) (*payment.PendingPayment, error) {
	if p, ok := f.payments[tradeNo]; ok {
		return &p, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakePendingRepo) Insert(ctx context.Context, p *payment.PendingPayment) error {
	if _, ok := f.payments[p.TradeNo]; ok {
		return shared.ErrAlreadyExists
	}
	f.payments[p.TradeNo] = *p
	return nil
}

func (f *fakePendingRepo) Save(ctx context.Context, p *payment.PendingPayment) error {
	f.payments[p.TradeNo] = *p
	return nil
}

type noopLocker struct{}

func (noopLocker) Acquire(ctx context.Context, name string, maxWait time.Duration) (func(), error) {
	return func() {}, nil
}

func gatewayConfig() *ecpay.Config {
	return &ecpay.Config{
		MerchantID: "2000132",
		HashKey:    "5294y06JbISpM5x9",
		HashIV:     "v77hoKGq4kWxNNIS",
		ReturnURL:  "https://example.com/api/v1/payments/ecpay/callback",
		IsSandbox:  true,
	}
}

// newTestEngine builds a gin engine with the production middleware chain
// and the given handlers registered under /api/v1.
func newTestEngine(t *testing.T, registrars ...router.RouteRegistrar) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine)
	for _, reg := range registrars {
		r.Register(reg)
	}
	r.Setup()
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}
