package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storely/internal/apierror"
	"storely/internal/dto"
	"storely/internal/model"
	"storely/internal/pricing"
	"storely/internal/repository"
)

type SaleService interface {
	Record(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	ledger   repository.SaleLedger
	products repository.ProductRepository
}

func NewSaleService(ledger repository.SaleLedger, products repository.ProductRepository) SaleService {
	return &saleService{ledger: ledger, products: products}
}

func (s *saleService) Record(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	now := time.Now()
	sale := &model.Sale{
		ID:           uuid.New(),
		CustomerName: req.CustomerName,
		CreatedAt:    now,
	}

	for _, it := range req.Items {
		productID, err := uuid.Parse(it.ProductID)
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

		resolved, _ := pricing.Resolve(product, it.SizeID, it.AddonIDs)
		unit := pricing.ApplyOffer(product, resolved, now)
		lineTotal := pricing.LineTotal(unit, it.Quantity)

		// Snapshot the full product, wholesale cost included: the ledger
		// entry must stay self-contained for later profit aggregation.
		sale.Items = append(sale.Items, model.SaleItem{
			Product: model.ProductSnapshot{
				ID:        product.ID,
				Name:      product.Name,
				Category:  product.Category,
				Price:     product.Price,
				Wholesale: product.Wholesale,
			},
			SizeID:         it.SizeID,
			AddonIDs:       it.AddonIDs,
			Quantity:       it.Quantity,
			UnitFinalPrice: unit,
			TotalPrice:     lineTotal,
		})
		sale.TotalAmount = sale.TotalAmount.Add(lineTotal)
	}

	if err := s.ledger.Append(ctx, sale); err != nil {
		return nil, err
	}
	resp := saleResponse(sale)
	return &resp, nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	history, err := s.ledger.List(ctx)
	if err != nil {
		return nil, err
	}

	// Window + paginate in-process, newest first. Days == 0 means full history.
	var cutoff time.Time
	if filter.Days > 0 {
		cutoff = time.Now().AddDate(0, 0, -filter.Days)
	}
	sales := make([]model.Sale, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].CreatedAt.Before(cutoff) {
			continue
		}
		sales = append(sales, history[i])
	}

	total := len(sales)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	items := make([]dto.SaleResponse, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, saleResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleResponse(sale *model.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, dto.SaleItemResponse{
			Product:        it.Product,
			SizeID:         it.SizeID,
			AddonIDs:       it.AddonIDs,
			Quantity:       it.Quantity,
			UnitFinalPrice: it.UnitFinalPrice,
			TotalPrice:     it.TotalPrice,
		})
	}
	return dto.SaleResponse{
		ID:           sale.ID.String(),
		Items:        items,
		TotalAmount:  sale.TotalAmount,
		CustomerName: sale.CustomerName,
		CreatedAt:    sale.CreatedAt.UTC().Format(time.RFC3339),
	}
}
