package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Size is a selectable product variant. Its Price REPLACES the product base
// price — it is not an increment.
type Size struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// Addon is an optional extra whose PriceDelta is ADDED to the unit price.
type Addon struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// WholesaleInfo carries the unit cost paid to acquire the product.
// Used only for profit computation; a product without it still contributes
// to revenue and quantity aggregates but never to cost.
type WholesaleInfo struct {
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// Product is a catalog entry. Sizes, Addons and Wholesale are stored as jsonb
// documents rather than join tables: they are small, read-whole, and owned
// exclusively by the product row.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    string `gorm:"index;not null"`
	ImageURL    *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Sizes       []Size          `gorm:"type:jsonb;serializer:json"`
	Addons      []Addon         `gorm:"type:jsonb;serializer:json"`

	// Special offer: DiscountPrice (explicit) wins over DiscountPercentage.
	SpecialOffer       bool            `gorm:"not null;default:false"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2)"`
	DiscountPrice      *decimal.Decimal `gorm:"type:decimal(10,2)"`
	OfferEndsAt        *time.Time

	Wholesale *WholesaleInfo `gorm:"type:jsonb;serializer:json"`

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OfferActive reports whether the special offer applies at instant t.
// An absent OfferEndsAt means the offer has no expiry.
func (p *Product) OfferActive(t time.Time) bool {
	if !p.SpecialOffer {
		return false
	}
	return p.OfferEndsAt == nil || p.OfferEndsAt.After(t)
}
