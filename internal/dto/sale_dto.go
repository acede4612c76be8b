package dto

import (
	"github.com/shopspring/decimal"

	"storely/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string   `json:"product_id" validate:"required,uuid"`
	SizeID    *string  `json:"size_id"`
	AddonIDs  []string `json:"addon_ids"`
	Quantity  int      `json:"quantity"   validate:"required,min=1"`
}

// RecordSaleRequest registers an in-store cashier sale. Lines are priced
// from the live catalog at record time and the full product is snapshotted
// into the ledger entry.
type RecordSaleRequest struct {
	Items        []SaleItemRequest `json:"items"         validate:"required,min=1,dive"`
	CustomerName string            `json:"customer_name" validate:"omitempty,max=120"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is applied in-process: the ledger holds full history under one
// key, unlike orders which are windowed at the query boundary.
type SaleFilter struct {
	Days  int `form:"days,default=30"  validate:"min=0"`
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	Product        model.ProductSnapshot `json:"product"`
	SizeID         *string               `json:"size_id,omitempty"`
	AddonIDs       []string              `json:"addon_ids,omitempty"`
	Quantity       int                   `json:"quantity"`
	UnitFinalPrice decimal.Decimal       `json:"unit_final_price"`
	TotalPrice     decimal.Decimal       `json:"total_price"`
}

type SaleResponse struct {
	ID           string             `json:"id"`
	Items        []SaleItemResponse `json:"items"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	CustomerName string             `json:"customer_name,omitempty"`
	CreatedAt    string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
