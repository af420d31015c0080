package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ningscard/backend/internal/domain/order"
)

// OrderLineModel is the persistence model for the OrderLine domain entity.
type OrderLineModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key"`
	CustomerRef    string           `gorm:"type:varchar(50);not null;index:idx_order_line_customer"`
	Item           string           `gorm:"type:varchar(200);not null;index:idx_order_line_item,priority:1"`
	CardNo         string           `gorm:"type:varchar(50);index:idx_order_line_item,priority:2"`
	IsBox          bool             `gorm:"not null;default:false"`
	Quantity       int              `gorm:"not null"`
	UnitPrice      decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	TotalFee       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Deposit        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Balance        decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Status         order.LineStatus `gorm:"type:varchar(30);not null;default:'SUBMITTED';index"`
	ArrivalStatus  string           `gorm:"type:varchar(50)"`
	ImageURL       string           `gorm:"type:text"`
	PaymentMethod  string           `gorm:"type:varchar(50)"`
	GatewayTradeNo string           `gorm:"type:varchar(50)"`
	PaidAt         *time.Time
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine entity.
func (m *OrderLineModel) ToDomain() *order.OrderLine {
	return &order.OrderLine{
		ID:             m.ID,
		CustomerRef:    m.CustomerRef,
		Item:           m.Item,
		CardNo:         m.CardNo,
		IsBox:          m.IsBox,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		TotalFee:       m.TotalFee,
		Deposit:        m.Deposit,
		Balance:        m.Balance,
		Status:         m.Status,
		ArrivalStatus:  m.ArrivalStatus,
		ImageURL:       m.ImageURL,
		PaymentMethod:  m.PaymentMethod,
		GatewayTradeNo: m.GatewayTradeNo,
		PaidAt:         m.PaidAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderLine entity.
func (m *OrderLineModel) FromDomain(l *order.OrderLine) {
	m.ID = l.ID
	m.CustomerRef = l.CustomerRef
	m.Item = l.Item
	m.CardNo = l.CardNo
	m.IsBox = l.IsBox
	m.Quantity = l.Quantity
	m.UnitPrice = l.UnitPrice
	m.TotalFee = l.TotalFee
	m.Deposit = l.Deposit
	m.Balance = l.Balance
	m.Status = l.Status
	m.ArrivalStatus = l.ArrivalStatus
	m.ImageURL = l.ImageURL
	m.PaymentMethod = l.PaymentMethod
	m.GatewayTradeNo = l.GatewayTradeNo
	m.PaidAt = l.PaidAt
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// OrderLineModelFromDomain creates a new persistence model from a domain OrderLine entity.
func OrderLineModelFromDomain(l *order.OrderLine) *OrderLineModel {
	m := &OrderLineModel{}
	m.FromDomain(l)
	return m
}
