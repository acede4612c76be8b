package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"storely/internal/apierror"
	"storely/internal/dto"
	"storely/internal/model"
	"storely/internal/pricing"
	"storely/internal/repository"
	"storely/internal/worker"
)

var (
	ErrOrderNotFound     = apierror.New("Order not found")
	ErrEmptyCheckout     = apierror.New("Nothing to check out: cart is empty and no items were given")
	ErrInvalidTransition = apierror.New("Invalid status transition")
)

// statusTransitions maps a status to the statuses it may move to. The
// pipeline is strictly forward; cancellation is allowed anywhere before
// delivery. Delivered and cancelled are terminal.
var statusTransitions = map[string][]string{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:   {model.OrderStatusDelivered, model.OrderStatusCancelled},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.OrderResponse, error)
}

type orderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	cart       repository.CartStore
	dispatcher *worker.Dispatcher

	storeName      string
	pdfStoragePath string
	receiptPDF     func(storeName string, order *model.Order, storagePath string) (string, error)
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	cart repository.CartStore,
	dispatcher *worker.Dispatcher,
	storeName, pdfStoragePath string,
	receiptPDF func(string, *model.Order, string) (string, error),
) OrderService {
	return &orderService{
		orders:         orders,
		products:       products,
		cart:           cart,
		dispatcher:     dispatcher,
		storeName:      storeName,
		pdfStoragePath: pdfStoragePath,
		receiptPDF:     receiptPDF,
	}
}

func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error) {
	lines, fromCart, err := s.checkoutLines(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCheckout
	}

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		CustomerEmail: req.CustomerEmail,
		Status:        model.OrderStatusPending,
	}

	for _, ln := range lines {
		product, err := s.products.FindByID(ctx, ln.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if !product.Active {
			return nil, ErrProductNotFound
		}

		// Price the line exactly once: resolve size/addons, then the offer.
		// The snapshot below keeps the order immutable against later catalog
		// edits.
		resolved, _ := pricing.Resolve(product, ln.SizeID, ln.AddonIDs)
		unit := pricing.ApplyOffer(product, resolved, now)
		lineTotal := pricing.LineTotal(unit, ln.Quantity)

		item := model.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      product.ID,
			ProductName:    product.Name,
			ImageURL:       product.ImageURL,
			SizeID:         ln.SizeID,
			AddonIDs:       ln.AddonIDs,
			Quantity:       ln.Quantity,
			Price:          product.Price,
			UnitFinalPrice: &unit,
			TotalPrice:     lineTotal,
		}
		if product.Wholesale != nil {
			cost := product.Wholesale.PurchasePrice
			item.UnitCost = &cost
		}

		order.Items = append(order.Items, item)
		order.Total = order.Total.Add(lineTotal)
	}

	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	if fromCart {
		if err := s.cart.Clear(ctx, userID); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("cart clear after checkout failed")
		}
	}

	s.enqueueConfirmation(ctx, order)

	resp := orderResponse(order)
	return &resp, nil
}

func (s *orderService) checkoutLines(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) ([]repository.CartLine, bool, error) {
	if len(req.Items) > 0 {
		lines := make([]repository.CartLine, 0, len(req.Items))
		for _, it := range req.Items {
			productID, err := uuid.Parse(it.ProductID)
			if err != nil {
				return nil, false, apierror.New("Invalid product id")
			}
			lines = append(lines, repository.CartLine{
				ProductID: productID,
				SizeID:    it.SizeID,
				AddonIDs:  it.AddonIDs,
				Quantity:  it.Quantity,
			})
		}
		return lines, false, nil
	}
	lines, err := s.cart.Get(ctx, userID)
	return lines, true, err
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	resp := orderResponse(order)
	return &resp, nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !transitionAllowed(order.Status, status) {
		return nil, ErrInvalidTransition
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	order.UpdatedAt = time.Now()

	if status == model.OrderStatusDelivered {
		s.enqueueReceipt(ctx, order)
	}

	resp := orderResponse(order)
	return &resp, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ── Email jobs ──

func (s *orderService) enqueueConfirmation(ctx context.Context, order *model.Order) {
	if order.CustomerEmail == nil || s.dispatcher == nil {
		return
	}
	payload := worker.EmailJobPayload{
		ToEmail: *order.CustomerEmail,
		Subject: fmt.Sprintf("%s — order %s received", s.storeName, shortID(order.ID)),
		Body: fmt.Sprintf("Thanks for your order!\n\nOrder %s for %s is being prepared. We'll let you know when it ships.",
			shortID(order.ID), order.Total.StringFixed(2)),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("order_id", order.ID.String()).Msg("confirmation email enqueue failed")
	}
}

func (s *orderService) enqueueReceipt(ctx context.Context, order *model.Order) {
	if order.CustomerEmail == nil || s.dispatcher == nil {
		return
	}
	pdfPath := ""
	if s.receiptPDF != nil {
		path, err := s.receiptPDF(s.storeName, order, s.pdfStoragePath)
		if err != nil {
			// The receipt is a courtesy attachment — the email still goes out.
			log.Error().Err(err).Str("order_id", order.ID.String()).Msg("receipt PDF generation failed")
		} else {
			pdfPath = path
		}
	}
	payload := worker.EmailJobPayload{
		ToEmail: *order.CustomerEmail,
		Subject: fmt.Sprintf("%s — order %s delivered", s.storeName, shortID(order.ID)),
		Body:    "Your order has been delivered. Your receipt is attached.",
		PDFPath: pdfPath,
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("order_id", order.ID.String()).Msg("receipt email enqueue failed")
	}
}

// ── Mapping helpers ──

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func orderResponse(o *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:      it.ProductID.String(),
			ProductName:    it.ProductName,
			ImageURL:       it.ImageURL,
			SizeID:         it.SizeID,
			AddonIDs:       it.AddonIDs,
			Quantity:       it.Quantity,
			Price:          it.Price,
			UnitFinalPrice: it.UnitFinalPrice,
			TotalPrice:     it.TotalPrice,
		})
	}
	return dto.OrderResponse{
		ID:        o.ID.String(),
		UserID:    o.UserID.String(),
		Items:     items,
		Total:     o.Total,
		Status:    o.Status,
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// runTx runs fn inside a transaction; a nil db (stubbed repositories in
// tests) runs fn directly with a nil tx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}
