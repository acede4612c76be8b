package dto

import (
	"github.com/shopspring/decimal"

	"storely/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SizeRequest struct {
	ID    string          `json:"id"    validate:"required,min=1,max=40"`
	Label string          `json:"label" validate:"required,min=1,max=60"`
	Price decimal.Decimal `json:"price" validate:"required"`
}

type AddonRequest struct {
	ID         string          `json:"id"          validate:"required,min=1,max=40"`
	Label      string          `json:"label"       validate:"required,min=1,max=60"`
	PriceDelta decimal.Decimal `json:"price_delta" validate:"required"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=2,max=120"`
	Description *string         `json:"description"`
	Category    string          `json:"category"    validate:"required"`
	ImageURL    *string         `json:"image_url"   validate:"omitempty,url"`
	Price       decimal.Decimal `json:"price"       validate:"required"`
	Sizes       []SizeRequest   `json:"sizes"       validate:"omitempty,dive"`
	Addons      []AddonRequest  `json:"addons"      validate:"omitempty,dive"`

	SpecialOffer       bool             `json:"special_offer"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage" validate:"min=0,max=100"`
	DiscountPrice      *decimal.Decimal `json:"discount_price"`
	OfferEndsAt        *string          `json:"offer_ends_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`

	// PurchasePrice is the wholesale unit cost; omit it to exclude the
	// product from cost/profit aggregates.
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=2,max=120"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"   validate:"omitempty,url"`
	Price       *decimal.Decimal `json:"price"`
	Sizes       []SizeRequest    `json:"sizes"       validate:"omitempty,dive"`
	Addons      []AddonRequest   `json:"addons"      validate:"omitempty,dive"`

	SpecialOffer       *bool            `json:"special_offer"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" validate:"omitempty,min=0,max=100"`
	DiscountPrice      *decimal.Decimal `json:"discount_price"`
	OfferEndsAt        *string          `json:"offer_ends_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`

	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Category        string `form:"category"`
	Search          string `form:"search"`
	IncludeInactive bool   `form:"include_inactive"`
	Page            int    `form:"page,default=1"   validate:"min=1"`
	Limit           int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	ImageURL    *string         `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
	Sizes       []model.Size    `json:"sizes,omitempty"`
	Addons      []model.Addon   `json:"addons,omitempty"`

	SpecialOffer       bool             `json:"special_offer"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	DiscountPrice      *decimal.Decimal `json:"discount_price,omitempty"`
	OfferEndsAt        *string          `json:"offer_ends_at,omitempty"`

	// EffectivePrice is the offer-adjusted base price shown on storefront
	// listings (no size/addon selection applied yet).
	EffectivePrice decimal.Decimal `json:"effective_price"`

	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
