package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ningscard/backend/internal/domain/payment"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/ningscard/backend/internal/infrastructure/persistence/models"
)

// GormPendingPaymentRepository implements payment.Repository using GORM
type GormPendingPaymentRepository struct {
	db *gorm.DB
}

// NewGormPendingPaymentRepository creates a new GormPendingPaymentRepository
func NewGormPendingPaymentRepository(db *gorm.DB) *GormPendingPaymentRepository {
	return &GormPendingPaymentRepository{db: db}
}

// FindByID finds a pending payment by its ID
func (r *GormPendingPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PendingPayment, error) {
	var model models.PendingPaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTradeNo finds a pending payment by its merchant trade number
func (r *GormPendingPaymentRepository) FindByTradeNo(ctx context.Context, tradeNo string) (*payment.PendingPayment, error) {
	var model models.PendingPaymentModel
	if err := r.db.WithContext(ctx).
		Where("trade_no = ?", tradeNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Insert persists a new pending payment. The unique index on trade_no turns
// a duplicate into ErrAlreadyExists.
func (r *GormPendingPaymentRepository) Insert(ctx context.Context, p *payment.PendingPayment) error {
	model := models.PendingPaymentModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates an existing pending payment
func (r *GormPendingPaymentRepository) Save(ctx context.Context, p *payment.PendingPayment) error {
	model := models.PendingPaymentModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPendingPaymentRepository implements Repository
var _ payment.Repository = (*GormPendingPaymentRepository)(nil)
