package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"storely/internal/apierror"
	"storely/internal/dto"
	"storely/internal/model"
	"storely/internal/pricing"
	"storely/internal/repository"
)

const productCacheTTL = 10 * time.Minute

var ErrProductNotFound = apierror.New("Product not found")

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type productService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func productCacheKey(id uuid.UUID) string { return "product:" + id.String() }

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	offerEndsAt, err := parseOfferEnd(req.OfferEndsAt)
	if err != nil {
		return nil, err
	}
	product := &model.Product{
		ID:                 uuid.New(),
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		ImageURL:           req.ImageURL,
		Price:              req.Price,
		Sizes:              sizesFromRequest(req.Sizes),
		Addons:             addonsFromRequest(req.Addons),
		SpecialOffer:       req.SpecialOffer,
		DiscountPercentage: req.DiscountPercentage,
		DiscountPrice:      req.DiscountPrice,
		OfferEndsAt:        offerEndsAt,
		Active:             true,
	}
	if req.PurchasePrice != nil {
		product.Wholesale = &model.WholesaleInfo{PurchasePrice: *req.PurchasePrice}
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	resp := toProductResponse(product, time.Now())
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	if cached, err := s.rdb.Get(ctx, productCacheKey(id)).Result(); err == nil {
		var product model.Product
		if jsonErr := json.Unmarshal([]byte(cached), &product); jsonErr == nil {
			resp := toProductResponse(&product, time.Now())
			return &resp, nil
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := s.rdb.Set(ctx, productCacheKey(id), data, productCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("product_id", id.String()).Msg("product cache write failed")
		}
	}
	resp := toProductResponse(product, time.Now())
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i], now))
	}
	totalPages := 0
	if filter.Limit > 0 {
		totalPages = (int(total) + filter.Limit - 1) / filter.Limit
	}
	return &dto.ProductListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Sizes != nil {
		product.Sizes = sizesFromRequest(req.Sizes)
	}
	if req.Addons != nil {
		product.Addons = addonsFromRequest(req.Addons)
	}
	if req.PurchasePrice != nil {
		product.Wholesale = &model.WholesaleInfo{PurchasePrice: *req.PurchasePrice}
	}
	if req.SpecialOffer != nil {
		product.SpecialOffer = *req.SpecialOffer
	}
	if req.DiscountPercentage != nil {
		product.DiscountPercentage = *req.DiscountPercentage
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = req.DiscountPrice
	}
	if req.OfferEndsAt != nil {
		offerEndsAt, err := parseOfferEnd(req.OfferEndsAt)
		if err != nil {
			return nil, err
		}
		product.OfferEndsAt = offerEndsAt
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	resp := toProductResponse(product, time.Now())
	return &resp, nil
}

func (s *productService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.rdb.Del(ctx, productCacheKey(id)).Err(); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("product cache invalidation failed")
	}
}

// ── Mapping helpers ──

func parseOfferEnd(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, apierror.New("Invalid offer_ends_at timestamp")
	}
	return &t, nil
}

func sizesFromRequest(in []dto.SizeRequest) []model.Size {
	out := make([]model.Size, 0, len(in))
	for _, s := range in {
		out = append(out, model.Size{ID: s.ID, Label: s.Label, Price: s.Price})
	}
	return out
}

func addonsFromRequest(in []dto.AddonRequest) []model.Addon {
	out := make([]model.Addon, 0, len(in))
	for _, a := range in {
		out = append(out, model.Addon{ID: a.ID, Label: a.Label, PriceDelta: a.PriceDelta})
	}
	return out
}

// toProductResponse maps a catalog row to its API shape, computing the
// offer-adjusted price as of now.
func toProductResponse(p *model.Product, now time.Time) dto.ProductResponse {
	var offerEndsAt *string
	if p.OfferEndsAt != nil {
		s := p.OfferEndsAt.UTC().Format(time.RFC3339)
		offerEndsAt = &s
	}
	return dto.ProductResponse{
		ID:                 p.ID.String(),
		Name:               p.Name,
		Description:        p.Description,
		Category:           p.Category,
		ImageURL:           p.ImageURL,
		Price:              p.Price,
		Sizes:              p.Sizes,
		Addons:             p.Addons,
		SpecialOffer:       p.SpecialOffer,
		DiscountPercentage: p.DiscountPercentage,
		DiscountPrice:      p.DiscountPrice,
		OfferEndsAt:        offerEndsAt,
		EffectivePrice:     pricing.ApplyOffer(p, p.Price, now),
		Active:             p.Active,
		CreatedAt:          p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
