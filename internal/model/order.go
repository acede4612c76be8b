package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle statuses. Only delivered orders count toward realized
// revenue; the analytics status table still reports every status.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every lifecycle status in pipeline order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Order is a customer checkout transaction. Items are immutable once created;
// only Status may change afterwards.
type Order struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerEmail *string
	Items         []OrderItem     `gorm:"foreignKey:OrderID"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"index;not null;default:'pending'"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time
}

// OrderItem is a resolved line: UnitFinalPrice is the per-unit price after
// size/addon/offer resolution and TotalPrice = UnitFinalPrice × Quantity.
// Price keeps the plain catalog unit price for legacy rows where
// UnitFinalPrice is NULL — the aggregator falls back to Price × Quantity.
// UnitCost snapshots the wholesale cost at checkout time so profit figures
// stay stable against later catalog edits; NULL on legacy rows (the
// aggregator then joins against the live catalog).
type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductName string    `gorm:"not null"`
	ImageURL    *string
	SizeID      *string
	AddonIDs    []string `gorm:"type:jsonb;serializer:json"`
	Quantity    int      `gorm:"not null"`

	Price          decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	UnitFinalPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	UnitCost       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	TotalPrice     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
}
