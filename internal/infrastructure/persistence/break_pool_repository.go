package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ningscard/backend/internal/domain/breakpool"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/ningscard/backend/internal/infrastructure/persistence/models"
)

// GormBreakPoolRepository implements breakpool.Repository using GORM
type GormBreakPoolRepository struct {
	db *gorm.DB
}

// NewGormBreakPoolRepository creates a new GormBreakPoolRepository
func NewGormBreakPoolRepository(db *gorm.DB) *GormBreakPoolRepository {
	return &GormBreakPoolRepository{db: db}
}

// FindByID finds a break-pool entry by its ID
func (r *GormBreakPoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*breakpool.Entry, error) {
	var model models.BreakPoolEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBreak finds a customer's entry in one break
func (r *GormBreakPoolRepository) FindByBreak(ctx context.Context, customerRef, breakID string) (*breakpool.Entry, error) {
	var model models.BreakPoolEntryModel
	if err := r.db.WithContext(ctx).
		Where("customer_ref = ? AND break_id = ?", customerRef, breakID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByCustomer returns the customer's unsettled entries, oldest first
func (r *GormBreakPoolRepository) FindOpenByCustomer(ctx context.Context, customerRef string) ([]breakpool.Entry, error) {
	var rows []models.BreakPoolEntryModel
	if err := r.db.WithContext(ctx).
		Where("customer_ref = ? AND status <> ?", customerRef, breakpool.EntryStatusSettled).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]breakpool.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, *rows[i].ToDomain())
	}
	return entries, nil
}

// Insert persists new break-pool entries
func (r *GormBreakPoolRepository) Insert(ctx context.Context, entries []breakpool.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.BreakPoolEntryModel, 0, len(entries))
	for i := range entries {
		rows = append(rows, *models.BreakPoolEntryModelFromDomain(&entries[i]))
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// Save updates an existing break-pool entry
func (r *GormBreakPoolRepository) Save(ctx context.Context, entry *breakpool.Entry) error {
	model := models.BreakPoolEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormBreakPoolRepository implements Repository
var _ breakpool.Repository = (*GormBreakPoolRepository)(nil)
