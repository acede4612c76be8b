// Package pricing resolves the canonical unit price of a cart/order/sale
// line from a product and the customer's size/addon selection.
//
// The resolver is pure: no I/O, no clock, no errors. Stale selections
// (size or addon ids that no longer exist on the product) degrade silently
// to "contributes nothing" — they are expected steady state, not faults.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"storely/internal/model"
)

// Breakdown explains how a unit price was assembled.
type Breakdown struct {
	Base       decimal.Decimal `json:"base"`                // size price when matched, product base price otherwise
	SizeID     string          `json:"size_id,omitempty"`   // matched size id, empty when the base price applied
	AddonTotal decimal.Decimal `json:"addon_total"`         // sum of matched addon deltas
	AddonIDs   []string        `json:"addon_ids,omitempty"` // matched addon ids, stale ids dropped
}

// Resolve computes the pre-offer unit price for one product line.
// A matched size REPLACES the base price; addon deltas are additive.
// The special offer is deliberately NOT applied here — callers apply it
// exactly once via ApplyOffer, which keeps display prices and discounted
// checkout prices from double-discounting.
func Resolve(p *model.Product, selectedSizeID *string, selectedAddonIDs []string) (decimal.Decimal, Breakdown) {
	bd := Breakdown{Base: p.Price, AddonTotal: decimal.Zero}

	if selectedSizeID != nil {
		for _, s := range p.Sizes {
			if s.ID == *selectedSizeID {
				bd.Base = s.Price
				bd.SizeID = s.ID
				break
			}
		}
	}

	for _, id := range selectedAddonIDs {
		for _, a := range p.Addons {
			if a.ID == id {
				bd.AddonTotal = bd.AddonTotal.Add(a.PriceDelta)
				bd.AddonIDs = append(bd.AddonIDs, a.ID)
				break
			}
		}
	}

	return bd.Base.Add(bd.AddonTotal), bd
}

// ApplyOffer applies the product's special offer to an already-resolved
// unit price, once. An explicit DiscountPrice wins; otherwise the
// percentage is taken off the RESOLVED base+addon price, not off the raw
// catalog price. Inactive or expired offers return the price unchanged.
func ApplyOffer(p *model.Product, resolved decimal.Decimal, now time.Time) decimal.Decimal {
	if !p.OfferActive(now) {
		return resolved
	}
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	if p.DiscountPercentage.IsZero() {
		return resolved
	}
	factor := decimal.NewFromInt(1).Sub(p.DiscountPercentage.Div(decimal.NewFromInt(100)))
	return resolved.Mul(factor).Round(2)
}

// LineTotal is the invariant totalPrice = unitFinalPrice × quantity.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}
