package dto

import (
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CheckoutItemRequest struct {
	ProductID string   `json:"product_id" validate:"required,uuid"`
	SizeID    *string  `json:"size_id"`
	AddonIDs  []string `json:"addon_ids"`
	Quantity  int      `json:"quantity"   validate:"required,min=1"`
}

// CheckoutRequest creates an order. Items may be given explicitly; when the
// list is empty the caller's cart is checked out instead.
type CheckoutRequest struct {
	Items []CheckoutItemRequest `json:"items" validate:"omitempty,dive"`
	// CustomerEmail: optional — when present, the email worker sends the
	// order confirmation (and later the delivered receipt PDF).
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type OrderFilter struct {
	UserID *string `form:"-"`
	Status string  `form:"status"` // pending | confirmed | shipped | delivered | cancelled | all
	Page   int     `form:"page,default=1"   validate:"min=1"`
	Limit  int     `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ProductID      string           `json:"product_id"`
	ProductName    string           `json:"product_name"`
	ImageURL       *string          `json:"image_url,omitempty"`
	SizeID         *string          `json:"size_id,omitempty"`
	AddonIDs       []string         `json:"addon_ids,omitempty"`
	Quantity       int              `json:"quantity"`
	Price          decimal.Decimal  `json:"price"`
	UnitFinalPrice *decimal.Decimal `json:"unit_final_price,omitempty"`
	TotalPrice     decimal.Decimal  `json:"total_price"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Items     []OrderItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	Status    string              `json:"status"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
