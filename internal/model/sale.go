package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the point-in-time product copy embedded in a cashier
// sale line. Unlike order items (which reference the catalog by id), a sale
// carries everything needed for analytics — including the wholesale cost —
// so no catalog lookup miss is possible later.
type ProductSnapshot struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Wholesale *WholesaleInfo  `json:"wholesale,omitempty"`
}

// SaleItem is a resolved cashier sale line.
type SaleItem struct {
	Product        ProductSnapshot `json:"product"`
	SizeID         *string         `json:"size_id,omitempty"`
	AddonIDs       []string        `json:"addon_ids,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitFinalPrice decimal.Decimal `json:"unit_final_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// Sale is an in-store cashier transaction. It has no lifecycle status — a
// sale is final the moment it is recorded — and lives in the redis ledger
// (a JSON array under a single key), not in Postgres.
type Sale struct {
	ID           uuid.UUID       `json:"id"`
	Items        []SaleItem      `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CustomerName string          `json:"customer_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
