package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ningscard/backend/internal/domain/catalog"
	"github.com/ningscard/backend/internal/domain/order"
	"github.com/ningscard/backend/internal/domain/shared"
)

// Notifier delivers the merchant email after a successful submission
type Notifier interface {
	OrderSubmitted(ctx context.Context, customerRef string, lines []order.OrderLine) error
}

// MergeService coordinates order submissions against the shared ledger.
// All writes happen under the store-wide lock: stock is validated before any
// mutation, entries sharing a merge key collapse into one row, and every
// accepted submission triggers a global threshold reprice sweep.
type MergeService struct {
	lineRepo    order.OrderLineRepository
	productRepo catalog.ProductRepository
	locker      shared.Locker
	notifier    Notifier
	logger      *zap.Logger
}

// NewMergeService creates a new MergeService
func NewMergeService(
	lineRepo order.OrderLineRepository,
	productRepo catalog.ProductRepository,
	locker shared.Locker,
	notifier Notifier,
	logger *zap.Logger,
) *MergeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MergeService{
		lineRepo:    lineRepo,
		productRepo: productRepo,
		locker:      locker,
		notifier:    notifier,
		logger:      logger,
	}
}

// itemKey identifies a product position independent of customer
type itemKey struct {
	Item   string
	CardNo string
}

// Submit processes one customer submission end to end. On any rejection the
// ledger and stock are left untouched.
func (s *MergeService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if req.CustomerRef == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer reference cannot be empty")
	}
	if len(req.Entries) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Submission must contain at least one entry")
	}

	release, err := s.locker.Acquire(ctx, shared.LedgerLockName, shared.DefaultLockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	// fold the submission itself by merge key before touching the ledger
	grouped := make(map[order.MergeKey]int)
	keyOrder := make([]order.MergeKey, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if entry.Quantity <= 0 {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
		}
		key := order.NewMergeKey(req.CustomerRef, entry.Item, entry.CardNo, entry.IsBox)
		if key.Item == "" {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Item cannot be empty")
		}
		if _, seen := grouped[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		grouped[key] += entry.Quantity
	}

	// resolve products and total the requested quantity per position
	products := make(map[itemKey]*catalog.Product)
	requested := make(map[itemKey]int)
	for _, key := range keyOrder {
		ik := itemKey{Item: key.Item, CardNo: key.CardNo}
		if _, ok := products[ik]; !ok {
			product, err := s.productRepo.FindByKey(ctx, key.Item, key.CardNo)
			if err != nil {
				return nil, err
			}
			if !product.Available {
				return nil, shared.NewDomainError("VALIDATION_ERROR",
					fmt.Sprintf("Item %s is no longer orderable", key.Item))
			}
			if product.IsBox != key.IsBox {
				return nil, shared.NewDomainError("VALIDATION_ERROR",
					fmt.Sprintf("Item %s box flag does not match the catalog", key.Item))
			}
			products[ik] = product
		}
		requested[ik] += grouped[key]
	}

	// all-or-nothing stock validation for box products, before any mutation
	for ik, qty := range requested {
		product := products[ik]
		if product.IsBox && qty > product.RemainingStock {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for %s: requested %d, remaining %d",
					product.Item, qty, product.RemainingStock))
		}
	}

	// effective unit price per position, counting the incoming quantity
	// toward the global accumulation
	unitPrices := make(map[itemKey]decimal.Decimal)
	for ik, qty := range requested {
		product := products[ik]
		existing, err := s.lineRepo.SumQuantityByItem(ctx, ik.Item, ik.CardNo)
		if err != nil {
			return nil, err
		}
		unitPrices[ik] = catalog.UnitPrice(
			product.BasePrice, existing+qty, product.ThresholdQty, product.ThresholdPrice)
	}

	// merge each position into the customer's ledger
	accepted := 0
	var touched []order.OrderLine
	for _, key := range keyOrder {
		ik := itemKey{Item: key.Item, CardNo: key.CardNo}
		unitPrice := unitPrices[ik]

		open, err := s.lineRepo.FindOpenByCustomer(ctx, key.CustomerRef)
		if err != nil {
			return nil, err
		}

		var target *order.OrderLine
		for i := range open {
			line := open[i]
			if line.Key() != key {
				continue
			}
			if target == nil {
				target = &line
				continue
			}
			// legacy duplicate rows fold into the first and disappear
			if err := target.Absorb(line.Quantity, unitPrice, line.Deposit); err != nil {
				return nil, err
			}
			if err := s.lineRepo.Delete(ctx, line.ID); err != nil {
				return nil, err
			}
		}

		if target != nil {
			if err := target.Absorb(grouped[key], unitPrice, decimal.Zero); err != nil {
				return nil, err
			}
			if err := s.lineRepo.Save(ctx, target); err != nil {
				return nil, err
			}
			touched = append(touched, *target)
		} else {
			line, err := order.NewOrderLine(key, grouped[key], unitPrice)
			if err != nil {
				return nil, err
			}
			if err := s.lineRepo.Insert(ctx, []order.OrderLine{*line}); err != nil {
				return nil, err
			}
			touched = append(touched, *line)
		}
		accepted++
	}

	// global reprice sweep across every customer holding the touched items
	for ik := range unitPrices {
		if err := s.repriceItem(ctx, ik, products[ik]); err != nil {
			return nil, err
		}
	}

	// stock decrement happens last, floored at zero
	for ik, qty := range requested {
		product := products[ik]
		if !product.IsBox {
			continue
		}
		product.DecrementStock(qty)
		if err := s.productRepo.UpdateStock(ctx, product.ID, product.RemainingStock); err != nil {
			return nil, err
		}
	}

	s.notifyAsync(req.CustomerRef, touched)

	return &SubmitResult{AcceptedCount: accepted}, nil
}

// repriceItem reapplies threshold pricing to every open line of one item.
// Lines whose stored total was edited by hand keep their total.
func (s *MergeService) repriceItem(ctx context.Context, ik itemKey, product *catalog.Product) error {
	accumulated, err := s.lineRepo.SumQuantityByItem(ctx, ik.Item, ik.CardNo)
	if err != nil {
		return err
	}
	unitPrice := catalog.UnitPrice(
		product.BasePrice, accumulated, product.ThresholdQty, product.ThresholdPrice)

	lines, err := s.lineRepo.FindByItem(ctx, ik.Item, ik.CardNo)
	if err != nil {
		return err
	}
	for i := range lines {
		line := lines[i]
		if !line.IsOpen() {
			continue
		}
		if catalog.IsManualOverride(line.TotalFee, line.Quantity, line.UnitPrice) {
			continue
		}
		if line.UnitPrice.Equal(unitPrice) {
			continue
		}
		line.Reprice(unitPrice)
		if err := s.lineRepo.Save(ctx, &line); err != nil {
			return err
		}
	}
	return nil
}

// notifyAsync fires the merchant email without blocking the submission
func (s *MergeService) notifyAsync(customerRef string, lines []order.OrderLine) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.OrderSubmitted(ctx, customerRef, lines); err != nil {
			s.logger.Warn("order notification failed",
				zap.String("customer_ref", customerRef),
				zap.Error(err))
		}
	}()
}
