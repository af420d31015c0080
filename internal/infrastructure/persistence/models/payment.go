package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ningscard/backend/internal/domain/payment"
)

// PendingPaymentModel is the persistence model for the PendingPayment domain entity.
type PendingPaymentModel struct {
	ID             uuid.UUID             `gorm:"type:uuid;primary_key"`
	TradeNo        string                `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerRef    string                `gorm:"type:varchar(50);not null;index"`
	Amount         decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PaymentType    payment.PaymentType   `gorm:"type:varchar(20);not null"`
	Snapshot       string                `gorm:"type:text"`
	Status         payment.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	RtnCode        string                `gorm:"type:varchar(20)"`
	RtnMsg         string                `gorm:"type:varchar(200)"`
	GatewayTradeNo string                `gorm:"type:varchar(50)"`
	PaidAt         *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PendingPaymentModel) TableName() string {
	return "pending_payments"
}

// ToDomain converts the persistence model to a domain PendingPayment entity.
func (m *PendingPaymentModel) ToDomain() *payment.PendingPayment {
	return &payment.PendingPayment{
		ID:             m.ID,
		TradeNo:        m.TradeNo,
		CustomerRef:    m.CustomerRef,
		Amount:         m.Amount,
		PaymentType:    m.PaymentType,
		Snapshot:       m.Snapshot,
		Status:         m.Status,
		RtnCode:        m.RtnCode,
		RtnMsg:         m.RtnMsg,
		GatewayTradeNo: m.GatewayTradeNo,
		PaidAt:         m.PaidAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain PendingPayment entity.
func (m *PendingPaymentModel) FromDomain(p *payment.PendingPayment) {
	m.ID = p.ID
	m.TradeNo = p.TradeNo
	m.CustomerRef = p.CustomerRef
	m.Amount = p.Amount
	m.PaymentType = p.PaymentType
	m.Snapshot = p.Snapshot
	m.Status = p.Status
	m.RtnCode = p.RtnCode
	m.RtnMsg = p.RtnMsg
	m.GatewayTradeNo = p.GatewayTradeNo
	m.PaidAt = p.PaidAt
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// PendingPaymentModelFromDomain creates a new persistence model from a domain PendingPayment entity.
func PendingPaymentModelFromDomain(p *payment.PendingPayment) *PendingPaymentModel {
	m := &PendingPaymentModel{}
	m.FromDomain(p)
	return m
}
