package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storely/internal/dto"
	"storely/internal/repository"
)

func TestCartAddMergesIdenticalSelection(t *testing.T) {
	product := testProduct()
	store := newStubCartStore()
	svc := NewCartService(store, newStubProductRepo(product))
	userID := uuid.New()

	req := dto.AddCartItemRequest{
		ProductID: product.ID.String(),
		SizeID:    strPtr("l"),
		AddonIDs:  []string{"extra"},
		Quantity:  1,
	}
	_, err := svc.AddItem(context.Background(), userID, req)
	require.NoError(t, err)

	resp, err := svc.AddItem(context.Background(), userID, req)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
}

func TestCartAddDifferentSizeIsNewLine(t *testing.T) {
	product := testProduct()
	store := newStubCartStore()
	svc := NewCartService(store, newStubProductRepo(product))
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, dto.AddCartItemRequest{
		ProductID: product.ID.String(), SizeID: strPtr("l"), Quantity: 1,
	})
	require.NoError(t, err)

	resp, err := svc.AddItem(context.Background(), userID, dto.AddCartItemRequest{
		ProductID: product.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
}

func TestCartRepricesFromLiveCatalog(t *testing.T) {
	product := testProduct()
	products := newStubProductRepo(product)
	store := newStubCartStore()
	svc := NewCartService(store, products)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, dto.AddCartItemRequest{
		ProductID: product.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)

	// catalog edit after the item was added
	product.Price = dec("200.00")

	resp, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	// 200 with the 10% offer -> 180.00
	assert.True(t, dec("180.00").Equal(resp.Items[0].UnitPrice), "got %s", resp.Items[0].UnitPrice)
}

func TestCartDropsDeactivatedProducts(t *testing.T) {
	product := testProduct()
	store := newStubCartStore()
	svc := NewCartService(store, newStubProductRepo(product))
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, dto.AddCartItemRequest{
		ProductID: product.ID.String(), Quantity: 2,
	})
	require.NoError(t, err)

	product.Active = false

	resp, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.ItemCount)
	assert.True(t, resp.Total.IsZero())
}

func TestCartUpdateAndRemoveByIndex(t *testing.T) {
	product := testProduct()
	store := newStubCartStore()
	svc := NewCartService(store, newStubProductRepo(product))
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, dto.AddCartItemRequest{
		ProductID: product.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)

	resp, err := svc.UpdateItem(context.Background(), userID, 0, dto.UpdateCartItemRequest{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Items[0].Quantity)

	resp, err = svc.RemoveItem(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	_, err = svc.RemoveItem(context.Background(), userID, 0)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc := NewCartService(newStubCartStore(), newStubProductRepo())

	_, err := svc.AddItem(context.Background(), uuid.New(), dto.AddCartItemRequest{
		ProductID: uuid.NewString(), Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

// stubCartStore satisfies repository.CartStore.
var _ repository.CartStore = (*stubCartStore)(nil)
