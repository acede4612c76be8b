package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storely/internal/apierror"
	"storely/internal/dto"
	"storely/internal/pricing"
	"storely/internal/repository"
)

var ErrCartItemNotFound = apierror.New("Cart item not found")

type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, index int, req dto.UpdateCartItemRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, index int) (*dto.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	store    repository.CartStore
	products repository.ProductRepository
}

func NewCartService(store repository.CartStore, products repository.ProductRepository) CartService {
	return &cartService{store: store, products: products}
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, lines)
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.New("Invalid product id")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.Active {
		return nil, ErrProductNotFound
	}

	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Merge into an existing line when the selection matches exactly;
	// otherwise a new line is appended.
	merged := false
	for i := range lines {
		if sameSelection(lines[i], productID, req.SizeID, req.AddonIDs) {
			lines[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, repository.CartLine{
			ProductID: productID,
			SizeID:    req.SizeID,
			AddonIDs:  req.AddonIDs,
			Quantity:  req.Quantity,
		})
	}

	if err := s.store.Set(ctx, userID, lines); err != nil {
		return nil, err
	}
	return s.price(ctx, lines)
}

func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, index int, req dto.UpdateCartItemRequest) (*dto.CartResponse, error) {
	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(lines) {
		return nil, ErrCartItemNotFound
	}
	lines[index].Quantity = req.Quantity
	if err := s.store.Set(ctx, userID, lines); err != nil {
		return nil, err
	}
	return s.price(ctx, lines)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, index int) (*dto.CartResponse, error) {
	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(lines) {
		return nil, ErrCartItemNotFound
	}
	lines = append(lines[:index], lines[index+1:]...)
	if err := s.store.Set(ctx, userID, lines); err != nil {
		return nil, err
	}
	return s.price(ctx, lines)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Clear(ctx, userID)
}

// price re-computes every line against the live catalog. Lines whose product
// was removed or deactivated since they were added are dropped silently.
func (s *cartService) price(ctx context.Context, lines []repository.CartLine) (*dto.CartResponse, error) {
	now := time.Now()
	items := make([]dto.CartItemResponse, 0, len(lines))
	total := decimal.Zero
	count := 0

	for _, ln := range lines {
		product, err := s.products.FindByID(ctx, ln.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		if !product.Active {
			continue
		}

		resolved, breakdown := pricing.Resolve(product, ln.SizeID, ln.AddonIDs)
		unit := pricing.ApplyOffer(product, resolved, now)
		lineTotal := pricing.LineTotal(unit, ln.Quantity)

		items = append(items, dto.CartItemResponse{
			ProductID:   ln.ProductID.String(),
			ProductName: product.Name,
			ImageURL:    product.ImageURL,
			SizeID:      ln.SizeID,
			AddonIDs:    ln.AddonIDs,
			Quantity:    ln.Quantity,
			UnitPrice:   unit,
			Breakdown:   breakdown,
			TotalPrice:  lineTotal,
		})
		total = total.Add(lineTotal)
		count += ln.Quantity
	}

	return &dto.CartResponse{Items: items, ItemCount: count, Total: total}, nil
}

func sameSelection(ln repository.CartLine, productID uuid.UUID, sizeID *string, addonIDs []string) bool {
	if ln.ProductID != productID {
		return false
	}
	if (ln.SizeID == nil) != (sizeID == nil) {
		return false
	}
	if ln.SizeID != nil && *ln.SizeID != *sizeID {
		return false
	}
	a := slices.Clone(ln.AddonIDs)
	b := slices.Clone(addonIDs)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
