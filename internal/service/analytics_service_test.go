package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storely/internal/analytics"
	"storely/internal/model"
	"storely/internal/repository"
)

func deliveredOrder(productID uuid.UUID, createdAt time.Time) *model.Order {
	return &model.Order{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Status:    model.OrderStatusDelivered,
		Total:     dec("100.00"),
		CreatedAt: createdAt,
		Items: []model.OrderItem{{
			ID:             uuid.New(),
			ProductID:      productID,
			ProductName:    "Espresso Machine",
			Quantity:       1,
			Price:          dec("100.00"),
			UnitFinalPrice: decPtr("100.00"),
			UnitCost:       decPtr("60.00"),
			TotalPrice:     dec("100.00"),
		}},
	}
}

func cashierSale(productID uuid.UUID, createdAt time.Time) model.Sale {
	return model.Sale{
		ID:        uuid.New(),
		CreatedAt: createdAt,
		Items: []model.SaleItem{{
			Product: model.ProductSnapshot{
				ID:        productID,
				Name:      "Espresso Machine",
				Price:     dec("100.00"),
				Wholesale: &model.WholesaleInfo{PurchasePrice: dec("60.00")},
			},
			Quantity:       2,
			UnitFinalPrice: dec("90.00"),
			TotalPrice:     dec("180.00"),
		}},
		TotalAmount: dec("180.00"),
	}
}

func newTestAnalyticsService(orders *stubOrderRepo, ledger *stubLedger, products *stubProductRepo) AnalyticsService {
	return NewAnalyticsService(orders, ledger, products, "Storely", "/tmp", nil)
}

func TestAnalyticsReportCombinesSources(t *testing.T) {
	productID := uuid.New()
	now := time.Now()
	orders := newStubOrderRepo(deliveredOrder(productID, now.AddDate(0, 0, -2)))
	ledger := &stubLedger{sales: []model.Sale{cashierSale(productID, now.AddDate(0, 0, -1))}}

	svc := newTestAnalyticsService(orders, ledger, newStubProductRepo())
	resp, err := svc.Report(context.Background(), 30)
	require.NoError(t, err)
	require.NotNil(t, resp.Report)
	assert.False(t, resp.CashierLedgerUnavailable)

	// 100 online + 180 cashier
	assert.True(t, dec("280").Equal(resp.Report.TotalRevenue), "got %s", resp.Report.TotalRevenue)
	assert.True(t, dec("100").Equal(resp.Report.RevenueBySource[analytics.SourceOnline].Revenue))
	assert.True(t, dec("180").Equal(resp.Report.RevenueBySource[analytics.SourceCashier].Revenue))
}

func TestAnalyticsCorruptLedgerZeroesCashierSource(t *testing.T) {
	productID := uuid.New()
	orders := newStubOrderRepo(deliveredOrder(productID, time.Now().AddDate(0, 0, -2)))
	ledger := &stubLedger{listErr: fmt.Errorf("%w under %q", repository.ErrCorruptLedger, repository.LedgerKey)}

	svc := newTestAnalyticsService(orders, ledger, newStubProductRepo())
	resp, err := svc.Report(context.Background(), 30)
	require.NoError(t, err)

	assert.True(t, resp.CashierLedgerUnavailable)
	assert.True(t, dec("100").Equal(resp.Report.TotalRevenue))
	assert.True(t, resp.Report.RevenueBySource[analytics.SourceCashier].Revenue.IsZero())
}

func TestAnalyticsOtherLedgerErrorsPropagate(t *testing.T) {
	orders := newStubOrderRepo()
	ledger := &stubLedger{listErr: errors.New("connection refused")}

	svc := newTestAnalyticsService(orders, ledger, newStubProductRepo())
	_, err := svc.Report(context.Background(), 30)
	assert.Error(t, err)
}

func TestAnalyticsRevenueVariant(t *testing.T) {
	productID := uuid.New()
	now := time.Now()
	orders := newStubOrderRepo(deliveredOrder(productID, now.AddDate(0, 0, -2)))
	ledger := &stubLedger{sales: []model.Sale{cashierSale(productID, now.AddDate(0, 0, -1))}}

	svc := newTestAnalyticsService(orders, ledger, newStubProductRepo())
	resp, err := svc.Revenue(context.Background(), 30)
	require.NoError(t, err)

	assert.True(t, dec("280").Equal(resp.Report.TotalRevenue))
	assert.True(t, dec("100").Equal(resp.Report.OnlineRevenue))
	assert.True(t, dec("180").Equal(resp.Report.CashierRevenue))
}

func TestAnalyticsExportJSON(t *testing.T) {
	productID := uuid.New()
	orders := newStubOrderRepo(deliveredOrder(productID, time.Now().AddDate(0, 0, -2)))
	ledger := &stubLedger{}

	svc := newTestAnalyticsService(orders, ledger, newStubProductRepo())
	filename, data, err := svc.ExportJSON(context.Background(), 30)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "analytics-"))
	assert.True(t, strings.HasSuffix(filename, ".json"))
	assert.Contains(t, string(data), `"timeRange": "Last 30 days"`)
	assert.Contains(t, string(data), `"totalRevenue"`)
}
