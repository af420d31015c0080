package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ningscard/backend/internal/domain/breakpool"
	"github.com/ningscard/backend/internal/domain/order"
	"github.com/ningscard/backend/internal/domain/payment"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/ningscard/backend/internal/infrastructure/ecpay"
)

// ECPay credit checkout bounds, in TWD
var (
	minTradeAmount = decimal.NewFromInt(1)
	maxTradeAmount = decimal.NewFromInt(20000)
)

// CheckoutService turns a customer's selected pending balances into one
// signed gateway checkout. The balances are snapshotted into the pending
// payment so the callback can settle exactly what was quoted.
type CheckoutService struct {
	pendingRepo payment.Repository
	lineRepo    order.OrderLineRepository
	breakRepo   breakpool.Repository
	gateway     *ecpay.Config
	locker      shared.Locker
	now         func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	pendingRepo payment.Repository,
	lineRepo order.OrderLineRepository,
	breakRepo breakpool.Repository,
	gateway *ecpay.Config,
	locker shared.Locker,
) *CheckoutService {
	return &CheckoutService{
		pendingRepo: pendingRepo,
		lineRepo:    lineRepo,
		breakRepo:   breakRepo,
		gateway:     gateway,
		locker:      locker,
		now:         time.Now,
	}
}

// Checkout creates a pending payment over the selected balances and returns
// the signed cashier form. Covered order lines move to awaiting confirmation
// so a second checkout cannot double-charge them.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	if strings.TrimSpace(req.CustomerRef) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer reference cannot be empty")
	}
	if !req.PaymentType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment type")
	}

	release, err := s.locker.Acquire(ctx, shared.LedgerLockName, shared.DefaultLockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.now()
	var (
		snapshot  []payment.SnapshotLine
		total     decimal.Decimal
		itemNames []string
		lines     []*order.OrderLine
		entries   []*breakpool.Entry
	)

	switch req.PaymentType {
	case payment.PaymentTypeOrder:
		if len(req.LineIDs) == 0 {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "No order lines selected")
		}
		for _, id := range req.LineIDs {
			line, err := s.lineRepo.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if line.CustomerRef != req.CustomerRef {
				return nil, shared.NewDomainError("VALIDATION_ERROR", "Order line belongs to another customer")
			}
			if !line.IsOpen() {
				return nil, shared.NewDomainError("INVALID_STATE",
					fmt.Sprintf("Order line for %s is already settled", line.Item))
			}
			lineID := line.ID
			snapshot = append(snapshot, payment.SnapshotLine{
				OrderLineID: &lineID,
				Item:        line.Item,
				CardNo:      line.CardNo,
				Balance:     line.Balance,
				CapturedAt:  now,
			})
			total = total.Add(line.Balance)
			itemNames = append(itemNames, line.Item)
			lines = append(lines, line)
		}
	case payment.PaymentTypeBreak:
		if len(req.BreakIDs) == 0 {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "No breaks selected")
		}
		for _, breakID := range req.BreakIDs {
			entry, err := s.breakRepo.FindByBreak(ctx, req.CustomerRef, breakID)
			if err != nil {
				return nil, err
			}
			if entry.IsSettled() {
				return nil, shared.NewDomainError("INVALID_STATE",
					fmt.Sprintf("Break %s is already settled", breakID))
			}
			snapshot = append(snapshot, payment.SnapshotLine{
				BreakID:    entry.BreakID,
				Item:       entry.BreakName,
				Balance:    entry.Outstanding(),
				CapturedAt: now,
			})
			total = total.Add(entry.Outstanding())
			itemNames = append(itemNames, entry.BreakName)
			entries = append(entries, entry)
		}
	}

	if total.LessThan(minTradeAmount) || total.GreaterThan(maxTradeAmount) {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Payment amount %s is outside the allowed range 1-20000", total))
	}

	tradeNo := payment.NewTradeNo(now)
	pending, err := payment.NewPendingPayment(tradeNo, req.CustomerRef, total, req.PaymentType, snapshot)
	if err != nil {
		return nil, err
	}
	if err := s.pendingRepo.Insert(ctx, pending); err != nil {
		return nil, err
	}

	for _, line := range lines {
		if line.Status == order.LineStatusSubmitted {
			if err := line.MarkAwaitingConfirmation(); err != nil {
				return nil, err
			}
			if err := s.lineRepo.Save(ctx, line); err != nil {
				return nil, err
			}
		}
	}
	for _, entry := range entries {
		if entry.Status == breakpool.EntryStatusSubmitted {
			if err := entry.MarkAwaitingConfirmation(); err != nil {
				return nil, err
			}
			if err := s.breakRepo.Save(ctx, entry); err != nil {
				return nil, err
			}
		}
	}

	redirect := s.gateway.BuildRedirect(ecpay.CheckoutRequest{
		TradeNo:     tradeNo,
		TotalAmount: total,
		TradeDesc:   "Card order payment",
		ItemName:    strings.Join(itemNames, "#"),
		CustomerRef: req.CustomerRef,
		RelatedIDs:  relatedIDs(snapshot),
		TradeDate:   now,
	})

	return &CheckoutResponse{
		TradeNo:  tradeNo,
		Amount:   total,
		Redirect: redirect,
	}, nil
}

// GetStatus reports the current state of a pending payment
func (s *CheckoutService) GetStatus(ctx context.Context, tradeNo string) (*StatusResponse, error) {
	pending, err := s.pendingRepo.FindByTradeNo(ctx, tradeNo)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{
		TradeNo: pending.TradeNo,
		Status:  pending.Status.String(),
		Amount:  pending.Amount,
		RtnCode: pending.RtnCode,
		RtnMsg:  pending.RtnMsg,
		PaidAt:  pending.PaidAt,
	}, nil
}

// relatedIDs joins the snapshot's record identifiers for the gateway's
// custom field
func relatedIDs(snapshot []payment.SnapshotLine) string {
	ids := make([]string, 0, len(snapshot))
	for _, line := range snapshot {
		switch {
		case line.OrderLineID != nil:
			ids = append(ids, line.OrderLineID.String())
		case line.BreakID != "":
			ids = append(ids, line.BreakID)
		}
	}
	return strings.Join(ids, ",")
}
