package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ningscard/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	Item           string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_product_item_card,priority:1"`
	CardNo         string          `gorm:"type:varchar(50);uniqueIndex:idx_product_item_card,priority:2"`
	BasePrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ThresholdQty   int             `gorm:"not null;default:0"`
	ThresholdPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingStock int             `gorm:"not null;default:0"`
	IsBox          bool            `gorm:"not null;default:false"`
	// Available is a pointer: GORM skips zero-value fields that carry a
	// default tag on insert, so a plain false would never reach the database.
	Available     *bool     `gorm:"not null;default:true;index"`
	ImageURL      string    `gorm:"type:text"`
	ArrivalStatus string    `gorm:"type:varchar(50)"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:             m.ID,
		Item:           m.Item,
		CardNo:         m.CardNo,
		BasePrice:      m.BasePrice,
		ThresholdQty:   m.ThresholdQty,
		ThresholdPrice: m.ThresholdPrice,
		RemainingStock: m.RemainingStock,
		IsBox:          m.IsBox,
		Available:      m.Available != nil && *m.Available,
		ImageURL:       m.ImageURL,
		ArrivalStatus:  m.ArrivalStatus,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.Item = p.Item
	m.CardNo = p.CardNo
	m.BasePrice = p.BasePrice
	m.ThresholdQty = p.ThresholdQty
	m.ThresholdPrice = p.ThresholdPrice
	m.RemainingStock = p.RemainingStock
	m.IsBox = p.IsBox
	available := p.Available
	m.Available = &available
	m.ImageURL = p.ImageURL
	m.ArrivalStatus = p.ArrivalStatus
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
