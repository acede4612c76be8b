package dto

import (
	"github.com/shopspring/decimal"

	"storely/internal/pricing"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AddCartItemRequest adds (or merges) one line into the caller's cart.
type AddCartItemRequest struct {
	ProductID string   `json:"product_id" validate:"required,uuid"`
	SizeID    *string  `json:"size_id"`
	AddonIDs  []string `json:"addon_ids"`
	Quantity  int      `json:"quantity"   validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// CartItemResponse is one re-priced cart line. Prices are recomputed from
// the live catalog on every read so a catalog edit is reflected immediately.
type CartItemResponse struct {
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	ImageURL    *string           `json:"image_url,omitempty"`
	SizeID      *string           `json:"size_id,omitempty"`
	AddonIDs    []string          `json:"addon_ids,omitempty"`
	Quantity    int               `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"` // offer-adjusted
	Breakdown   pricing.Breakdown `json:"breakdown"`
	TotalPrice  decimal.Decimal   `json:"total_price"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     decimal.Decimal    `json:"total"`
}
