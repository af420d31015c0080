package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ningscard/backend/internal/domain/breakpool"
	"github.com/ningscard/backend/internal/domain/order"
	"github.com/ningscard/backend/internal/domain/payment"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/ningscard/backend/internal/infrastructure/ecpay"
)

// Gateway acknowledgement bodies. ECPay retries the callback until it
// receives AckOK, so every handled outcome must answer with it; AckReject
// asks the gateway to keep the trade unresolved.
const (
	AckOK               = "1|OK"
	ackCheckMacError    = "0|CheckMacValue Error"
	ackUnknownTrade     = "0|Unknown Trade"
	ackProcessingFailed = "0|Processing Failed"
)

const paymentDateLayout = "2006/01/02 15:04:05"

var taipeiZone = time.FixedZone("Asia/Taipei", 8*60*60)

// ReconcileService applies gateway payment callbacks to the ledger. It runs
// under the same store-wide lock as order merging, and the pending payment's
// status doubles as the idempotency guard: a replayed callback for a resolved
// trade is acknowledged without touching the ledger again.
type ReconcileService struct {
	pendingRepo payment.Repository
	lineRepo    order.OrderLineRepository
	breakRepo   breakpool.Repository
	gateway     *ecpay.Config
	locker      shared.Locker
	logger      *zap.Logger
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(
	pendingRepo payment.Repository,
	lineRepo order.OrderLineRepository,
	breakRepo breakpool.Repository,
	gateway *ecpay.Config,
	locker shared.Locker,
	logger *zap.Logger,
) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{
		pendingRepo: pendingRepo,
		lineRepo:    lineRepo,
		breakRepo:   breakRepo,
		gateway:     gateway,
		locker:      locker,
		logger:      logger,
	}
}

// Handle processes one server-to-server callback and returns the plain-text
// acknowledgement body for the gateway.
func (s *ReconcileService) Handle(ctx context.Context, params map[string]string) string {
	if !s.gateway.Verify(params) {
		s.logger.Warn("callback signature verification failed",
			zap.String("merchant_trade_no", params["MerchantTradeNo"]))
		return ackCheckMacError
	}

	// gateway test traffic carries a valid signature but no real payment
	if params["SimulatePaid"] == "1" {
		s.logger.Info("simulated payment acknowledged",
			zap.String("merchant_trade_no", params["MerchantTradeNo"]))
		return AckOK
	}

	tradeNo := params["MerchantTradeNo"]
	if tradeNo == "" {
		return ackUnknownTrade
	}

	release, err := s.locker.Acquire(ctx, shared.LedgerLockName, shared.DefaultLockWait)
	if err != nil {
		s.logger.Error("callback could not acquire ledger lock",
			zap.String("merchant_trade_no", tradeNo), zap.Error(err))
		return ackProcessingFailed
	}
	defer release()

	pending, err := s.pendingRepo.FindByTradeNo(ctx, tradeNo)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("callback for unknown trade",
				zap.String("merchant_trade_no", tradeNo))
			return ackUnknownTrade
		}
		s.logger.Error("callback lookup failed",
			zap.String("merchant_trade_no", tradeNo), zap.Error(err))
		return ackProcessingFailed
	}

	// replay of an already-resolved trade
	if !pending.IsPending() {
		s.logger.Info("duplicate callback ignored",
			zap.String("merchant_trade_no", tradeNo),
			zap.String("status", pending.Status.String()))
		return AckOK
	}

	rtnCode := params["RtnCode"]
	rtnMsg := params["RtnMsg"]

	if rtnCode != "1" {
		if err := pending.MarkFailed(rtnCode, rtnMsg); err != nil {
			s.logger.Error("failed to record payment failure",
				zap.String("merchant_trade_no", tradeNo), zap.Error(err))
			return ackProcessingFailed
		}
		if err := s.pendingRepo.Save(ctx, pending); err != nil {
			s.logger.Error("failed to persist payment failure",
				zap.String("merchant_trade_no", tradeNo), zap.Error(err))
			return ackProcessingFailed
		}
		s.logger.Info("payment failed at gateway",
			zap.String("merchant_trade_no", tradeNo),
			zap.String("rtn_code", rtnCode), zap.String("rtn_msg", rtnMsg))
		return AckOK
	}

	paidAt := s.parsePaymentDate(params["PaymentDate"])
	method := params["PaymentType"]
	gatewayTradeNo := params["TradeNo"]

	snapshot, err := pending.SnapshotLines()
	if err != nil {
		s.logger.Error("corrupt snapshot on pending payment",
			zap.String("merchant_trade_no", tradeNo), zap.Error(err))
		return ackProcessingFailed
	}

	switch pending.PaymentType {
	case payment.PaymentTypeOrder:
		err = s.settleOrderLines(ctx, pending, snapshot, method, gatewayTradeNo, paidAt)
	case payment.PaymentTypeBreak:
		err = s.settleBreakEntries(ctx, pending, snapshot, method, gatewayTradeNo, paidAt)
	}
	if err != nil {
		s.logger.Error("callback settlement failed",
			zap.String("merchant_trade_no", tradeNo), zap.Error(err))
		return ackProcessingFailed
	}

	if err := pending.MarkSuccess(rtnCode, rtnMsg, gatewayTradeNo, paidAt); err != nil {
		s.logger.Error("failed to resolve pending payment",
			zap.String("merchant_trade_no", tradeNo), zap.Error(err))
		return ackProcessingFailed
	}
	if err := s.pendingRepo.Save(ctx, pending); err != nil {
		s.logger.Error("failed to persist resolved payment",
			zap.String("merchant_trade_no", tradeNo), zap.Error(err))
		return ackProcessingFailed
	}

	s.logger.Info("payment settled",
		zap.String("merchant_trade_no", tradeNo),
		zap.String("customer_ref", pending.CustomerRef),
		zap.String("amount", pending.Amount.String()))
	return AckOK
}

// settleOrderLines applies each snapshot balance to its ledger row. A line
// that was merged away since checkout resolves through the same-day match;
// a line that cannot be found at all is logged and skipped so one stale row
// does not block the rest of the payment.
func (s *ReconcileService) settleOrderLines(ctx context.Context, pending *payment.PendingPayment, snapshot []payment.SnapshotLine, method, gatewayTradeNo string, paidAt time.Time) error {
	for _, snap := range snapshot {
		line, err := s.resolveOrderLine(ctx, pending.CustomerRef, snap)
		if err != nil {
			if errors.Is(err, shared.ErrUnmatchedRecord) {
				s.logger.Warn("snapshot line has no ledger row, skipping",
					zap.String("merchant_trade_no", pending.TradeNo),
					zap.String("item", snap.Item),
					zap.String("card_no", snap.CardNo))
				continue
			}
			return err
		}
		if !line.IsOpen() {
			s.logger.Warn("snapshot line already settled, skipping",
				zap.String("merchant_trade_no", pending.TradeNo),
				zap.String("item", snap.Item))
			continue
		}
		if err := line.ApplySettlement(snap.Balance, method, gatewayTradeNo, paidAt); err != nil {
			return err
		}
		if err := s.lineRepo.Save(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReconcileService) resolveOrderLine(ctx context.Context, customerRef string, snap payment.SnapshotLine) (*order.OrderLine, error) {
	if snap.OrderLineID != nil {
		line, err := s.lineRepo.FindByID(ctx, *snap.OrderLineID)
		if err == nil {
			return line, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	// legacy snapshots, or rows merged away after checkout
	candidates, err := s.lineRepo.FindSameDay(ctx, customerRef, snap.Item, snap.CardNo, snap.CapturedAt)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].IsOpen() {
			return &candidates[i], nil
		}
	}
	return nil, shared.ErrUnmatchedRecord
}

func (s *ReconcileService) settleBreakEntries(ctx context.Context, pending *payment.PendingPayment, snapshot []payment.SnapshotLine, method, gatewayTradeNo string, paidAt time.Time) error {
	for _, snap := range snapshot {
		entry, err := s.breakRepo.FindByBreak(ctx, pending.CustomerRef, snap.BreakID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("snapshot break has no entry, skipping",
					zap.String("merchant_trade_no", pending.TradeNo),
					zap.String("break_id", snap.BreakID))
				continue
			}
			return err
		}
		if err := entry.ApplyPayment(snap.Balance, method, gatewayTradeNo, paidAt); err != nil {
			return err
		}
		if err := s.breakRepo.Save(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReconcileService) parsePaymentDate(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	paidAt, err := time.ParseInLocation(paymentDateLayout, raw, taipeiZone)
	if err != nil {
		return time.Now()
	}
	return paidAt
}
