package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ningscard/backend/internal/domain/breakpool"
)

// BreakPoolEntryModel is the persistence model for the break-pool Entry domain entity.
type BreakPoolEntryModel struct {
	ID             uuid.UUID             `gorm:"type:uuid;primary_key"`
	BreakID        string                `gorm:"type:varchar(100);not null;uniqueIndex:idx_break_entry,priority:2"`
	BreakName      string                `gorm:"type:varchar(200)"`
	CustomerRef    string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_break_entry,priority:1"`
	TotalFee       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Paid           decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status         breakpool.EntryStatus `gorm:"type:varchar(30);not null;default:'SUBMITTED';index"`
	PaymentMethod  string                `gorm:"type:varchar(50)"`
	GatewayTradeNo string                `gorm:"type:varchar(50)"`
	PaidAt         *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BreakPoolEntryModel) TableName() string {
	return "break_pool_entries"
}

// ToDomain converts the persistence model to a domain Entry entity.
func (m *BreakPoolEntryModel) ToDomain() *breakpool.Entry {
	return &breakpool.Entry{
		ID:             m.ID,
		BreakID:        m.BreakID,
		BreakName:      m.BreakName,
		CustomerRef:    m.CustomerRef,
		TotalFee:       m.TotalFee,
		Paid:           m.Paid,
		Status:         m.Status,
		PaymentMethod:  m.PaymentMethod,
		GatewayTradeNo: m.GatewayTradeNo,
		PaidAt:         m.PaidAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Entry entity.
func (m *BreakPoolEntryModel) FromDomain(e *breakpool.Entry) {
	m.ID = e.ID
	m.BreakID = e.BreakID
	m.BreakName = e.BreakName
	m.CustomerRef = e.CustomerRef
	m.TotalFee = e.TotalFee
	m.Paid = e.Paid
	m.Status = e.Status
	m.PaymentMethod = e.PaymentMethod
	m.GatewayTradeNo = e.GatewayTradeNo
	m.PaidAt = e.PaidAt
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// BreakPoolEntryModelFromDomain creates a new persistence model from a domain Entry entity.
func BreakPoolEntryModelFromDomain(e *breakpool.Entry) *BreakPoolEntryModel {
	m := &BreakPoolEntryModel{}
	m.FromDomain(e)
	return m
}
