package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storely/internal/dto"
	"storely/internal/model"
	"storely/internal/repository"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

// testProduct: base 100.00, size "l" at 120.00, addon "extra" at +10.00,
// wholesale cost 60.00, 10% offer with no expiry.
func testProduct() *model.Product {
	return &model.Product{
		ID:       uuid.New(),
		Name:     "Espresso Machine",
		Category: "appliances",
		Price:    dec("100.00"),
		Sizes: []model.Size{
			{ID: "l", Label: "Large", Price: dec("120.00")},
		},
		Addons: []model.Addon{
			{ID: "extra", Label: "Extended warranty", PriceDelta: dec("10.00")},
		},
		SpecialOffer:       true,
		DiscountPercentage: dec("10"),
		Wholesale:          &model.WholesaleInfo{PurchasePrice: dec("60.00")},
		Active:             true,
	}
}

func newTestOrderService(orders *stubOrderRepo, products *stubProductRepo, cart *stubCartStore) OrderService {
	return NewOrderService(orders, products, cart, nil, "Storely", "/tmp", nil)
}

func TestCheckoutPricesLinesOnce(t *testing.T) {
	product := testProduct()
	orders := newStubOrderRepo()
	svc := newTestOrderService(orders, newStubProductRepo(product), newStubCartStore())

	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items: []dto.CheckoutItemRequest{{
			ProductID: product.ID.String(),
			SizeID:    strPtr("l"),
			AddonIDs:  []string{"extra"},
			Quantity:  2,
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	// size 120 + addon 10 = 130, 10% offer applied once -> 117.00
	line := resp.Items[0]
	require.NotNil(t, line.UnitFinalPrice)
	assert.True(t, dec("117.00").Equal(*line.UnitFinalPrice), "got %s", line.UnitFinalPrice)
	assert.True(t, dec("234.00").Equal(line.TotalPrice))
	assert.True(t, dec("100.00").Equal(line.Price), "Price keeps the plain catalog unit price")
	assert.True(t, dec("234.00").Equal(resp.Total))
	assert.Equal(t, model.OrderStatusPending, resp.Status)

	// the persisted row snapshots the wholesale cost
	stored, err := orders.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.NotNil(t, stored.Items[0].UnitCost)
	assert.True(t, dec("60.00").Equal(*stored.Items[0].UnitCost))
}

func TestCheckoutWithoutWholesaleLeavesCostNil(t *testing.T) {
	product := testProduct()
	product.Wholesale = nil
	orders := newStubOrderRepo()
	svc := newTestOrderService(orders, newStubProductRepo(product), newStubCartStore())

	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items: []dto.CheckoutItemRequest{{ProductID: product.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	stored, err := orders.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Nil(t, stored.Items[0].UnitCost)
}

func TestCheckoutFromCartClearsCart(t *testing.T) {
	product := testProduct()
	cart := newStubCartStore()
	userID := uuid.New()
	cart.carts[userID] = []repository.CartLine{
		{ProductID: product.ID, Quantity: 3},
	}
	svc := newTestOrderService(newStubOrderRepo(), newStubProductRepo(product), cart)

	resp, err := svc.Checkout(context.Background(), userID, dto.CheckoutRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.Equal(t, 1, cart.cleared)
	assert.Empty(t, cart.carts[userID])
}

func TestCheckoutExplicitItemsKeepCart(t *testing.T) {
	product := testProduct()
	cart := newStubCartStore()
	userID := uuid.New()
	cart.carts[userID] = []repository.CartLine{{ProductID: product.ID, Quantity: 1}}
	svc := newTestOrderService(newStubOrderRepo(), newStubProductRepo(product), cart)

	_, err := svc.Checkout(context.Background(), userID, dto.CheckoutRequest{
		Items: []dto.CheckoutItemRequest{{ProductID: product.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, cart.cleared)
	assert.Len(t, cart.carts[userID], 1)
}

func TestCheckoutEmpty(t *testing.T) {
	svc := newTestOrderService(newStubOrderRepo(), newStubProductRepo(), newStubCartStore())

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{})
	assert.ErrorIs(t, err, ErrEmptyCheckout)
}

func TestCheckoutInactiveProduct(t *testing.T) {
	product := testProduct()
	product.Active = false
	svc := newTestOrderService(newStubOrderRepo(), newStubProductRepo(product), newStubCartStore())

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items: []dto.CheckoutItemRequest{{ProductID: product.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{model.OrderStatusPending, model.OrderStatusConfirmed, true},
		{model.OrderStatusConfirmed, model.OrderStatusShipped, true},
		{model.OrderStatusShipped, model.OrderStatusDelivered, true},
		{model.OrderStatusPending, model.OrderStatusCancelled, true},
		{model.OrderStatusShipped, model.OrderStatusCancelled, true},
		{model.OrderStatusPending, model.OrderStatusDelivered, false},
		{model.OrderStatusPending, model.OrderStatusShipped, false},
		{model.OrderStatusDelivered, model.OrderStatusCancelled, false},
		{model.OrderStatusCancelled, model.OrderStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			order := &model.Order{
				ID:        uuid.New(),
				UserID:    uuid.New(),
				Status:    tc.from,
				Total:     dec("10.00"),
				CreatedAt: time.Now(),
			}
			orders := newStubOrderRepo(order)
			svc := newTestOrderService(orders, newStubProductRepo(), newStubCartStore())

			resp, err := svc.UpdateStatus(context.Background(), order.ID, tc.to)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, resp.Status)
				assert.Equal(t, tc.to, order.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tc.from, order.Status)
			}
		})
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := newTestOrderService(newStubOrderRepo(), newStubProductRepo(), newStubCartStore())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
