package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ningscard/backend/internal/domain/order"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/ningscard/backend/internal/infrastructure/persistence/models"
)

// GormOrderLineRepository implements order.OrderLineRepository using GORM
type GormOrderLineRepository struct {
	db *gorm.DB
}

// NewGormOrderLineRepository creates a new GormOrderLineRepository
func NewGormOrderLineRepository(db *gorm.DB) *GormOrderLineRepository {
	return &GormOrderLineRepository{db: db}
}

// FindByID finds an order line by its ID
func (r *GormOrderLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.OrderLine, error) {
	var model models.OrderLineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByCustomer returns the customer's unsettled lines, oldest first
func (r *GormOrderLineRepository) FindOpenByCustomer(ctx context.Context, customerRef string) ([]order.OrderLine, error) {
	var rows []models.OrderLineModel
	if err := r.db.WithContext(ctx).
		Where("customer_ref = ? AND status <> ?", customerRef, order.LineStatusSettled).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLines(rows), nil
}

// FindByItem returns every line for an item/card pair across all customers
func (r *GormOrderLineRepository) FindByItem(ctx context.Context, item, cardNo string) ([]order.OrderLine, error) {
	var rows []models.OrderLineModel
	if err := r.db.WithContext(ctx).
		Where("item = ? AND card_no = ?", item, cardNo).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLines(rows), nil
}

// FindSameDay finds lines matching the merge fields created on the given day
func (r *GormOrderLineRepository) FindSameDay(ctx context.Context, customerRef, item, cardNo string, day time.Time) ([]order.OrderLine, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var rows []models.OrderLineModel
	if err := r.db.WithContext(ctx).
		Where("customer_ref = ? AND item = ? AND card_no = ?", customerRef, item, cardNo).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLines(rows), nil
}

// SumQuantityByItem returns the global accumulated quantity for an item
func (r *GormOrderLineRepository) SumQuantityByItem(ctx context.Context, item, cardNo string) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderLineModel{}).
		Where("item = ? AND card_no = ?", item, cardNo).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// Insert persists new order lines
func (r *GormOrderLineRepository) Insert(ctx context.Context, lines []order.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.OrderLineModel, 0, len(lines))
	for i := range lines {
		rows = append(rows, *models.OrderLineModelFromDomain(&lines[i]))
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// Save updates an existing order line
func (r *GormOrderLineRepository) Save(ctx context.Context, line *order.OrderLine) error {
	model := models.OrderLineModelFromDomain(line)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an order line
func (r *GormOrderLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.OrderLineModel{}, "id = ?", id).Error
}

func toDomainLines(rows []models.OrderLineModel) []order.OrderLine {
	lines := make([]order.OrderLine, 0, len(rows))
	for i := range rows {
		lines = append(lines, *rows[i].ToDomain())
	}
	return lines
}

// Ensure GormOrderLineRepository implements OrderLineRepository
var _ order.OrderLineRepository = (*GormOrderLineRepository)(nil)
