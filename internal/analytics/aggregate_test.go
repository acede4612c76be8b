package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storely/internal/model"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func order(status string, total string, ts time.Time, items ...model.OrderItem) model.Order {
	return model.Order{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Status:    status,
		Total:     dec(total),
		CreatedAt: ts,
		Items:     items,
	}
}

func orderItem(productID uuid.UUID, name string, qty int, unitFinal string, unitCost *decimal.Decimal) model.OrderItem {
	uf := dec(unitFinal)
	return model.OrderItem{
		ProductID:      productID,
		ProductName:    name,
		Quantity:       qty,
		Price:          uf,
		UnitFinalPrice: &uf,
		UnitCost:       unitCost,
		TotalPrice:     uf.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func sale(total string, ts time.Time, items ...model.SaleItem) model.Sale {
	return model.Sale{
		ID:          uuid.New(),
		TotalAmount: dec(total),
		CreatedAt:   ts,
		Items:       items,
	}
}

func saleItem(productID uuid.UUID, name string, qty int, unitFinal string, wholesale *model.WholesaleInfo) model.SaleItem {
	uf := dec(unitFinal)
	return model.SaleItem{
		Product: model.ProductSnapshot{
			ID:        productID,
			Name:      name,
			Price:     uf,
			Wholesale: wholesale,
		},
		Quantity:       qty,
		UnitFinalPrice: uf,
		TotalPrice:     uf.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestStatusGateOnRevenue(t *testing.T) {
	pid := uuid.New()
	orders := []model.Order{
		order(model.OrderStatusDelivered, "500", testNow, orderItem(pid, "Drill", 1, "500", nil)),
		order(model.OrderStatusPending, "500", testNow, orderItem(pid, "Drill", 1, "500", nil)),
	}

	r := Aggregate(orders, nil, nil, Options{WindowDays: 30, Now: testNow})

	assert.True(t, dec("500").Equal(r.TotalRevenue), "only the delivered order counts, got %s", r.TotalRevenue)
	assert.True(t, dec("500").Equal(r.RevenueBySource[SourceOnline].Revenue))

	// The pipeline table sees both at the same time.
	assert.Equal(t, 1, r.AnalysisByStatus[model.OrderStatusPending].Count)
	assert.True(t, dec("500").Equal(r.AnalysisByStatus[model.OrderStatusPending].Revenue))
	assert.Equal(t, 1, r.AnalysisByStatus[model.OrderStatusDelivered].Count)
	assert.True(t, dec("500").Equal(r.AnalysisByStatus[model.OrderStatusDelivered].Revenue))

	// All five statuses are always present, zero-valued when unused.
	assert.Len(t, r.AnalysisByStatus, 5)
	assert.Equal(t, 0, r.AnalysisByStatus[model.OrderStatusCancelled].Count)
}

func TestCashierSalesAlwaysCounted(t *testing.T) {
	pid := uuid.New()
	sales := []model.Sale{
		sale("300", testNow, saleItem(pid, "Hammer", 2, "150", nil)),
	}

	r := Aggregate(nil, sales, nil, Options{WindowDays: 30, Now: testNow})

	assert.True(t, dec("300").Equal(r.RevenueBySource[SourceCashier].Revenue))
	assert.True(t, dec("300").Equal(r.TotalRevenue))
}

func TestCostOmissionDoesNotDropRevenue(t *testing.T) {
	pid := uuid.New()
	// Product exists in the catalog but carries no wholesale info.
	catalog := []model.Product{{ID: pid, Name: "Tape Measure", Price: dec("40")}}
	orders := []model.Order{
		order(model.OrderStatusDelivered, "80", testNow, orderItem(pid, "Tape Measure", 2, "40", nil)),
	}

	r := Aggregate(orders, nil, catalog, Options{WindowDays: 30, Now: testNow})

	assert.True(t, dec("80").Equal(r.TotalRevenue))
	assert.True(t, r.TotalCost.IsZero())

	require.Len(t, r.TopSellingProducts, 1)
	assert.Equal(t, 2, r.TopSellingProducts[0].Quantity)

	require.Len(t, r.TopProfitableProducts, 1)
	top := r.TopProfitableProducts[0]
	assert.True(t, top.Profit.Equal(top.Revenue), "profit = revenue − 0 when no cost data")
	assert.True(t, dec("1").Equal(top.ProfitMargin))
}

func TestCostSnapshotPreferredOverCatalog(t *testing.T) {
	pid := uuid.New()
	// Catalog says the cost is 60 today, but the order snapshotted 50.
	catalog := []model.Product{{
		ID: pid, Name: "Angle Grinder", Price: dec("100"),
		Wholesale: &model.WholesaleInfo{PurchasePrice: dec("60")},
	}}
	orders := []model.Order{
		order(model.OrderStatusDelivered, "100", testNow, orderItem(pid, "Angle Grinder", 1, "100", decPtr("50"))),
	}

	r := Aggregate(orders, nil, catalog, Options{WindowDays: 30, Now: testNow})
	assert.True(t, dec("50").Equal(r.TotalCost))

	// A legacy row without snapshot joins against the live catalog.
	orders[0].Items[0].UnitCost = nil
	r = Aggregate(orders, nil, catalog, Options{WindowDays: 30, Now: testNow})
	assert.True(t, dec("60").Equal(r.TotalCost))
}

func TestSaleCostFromEmbeddedSnapshot(t *testing.T) {
	pid := uuid.New()
	sales := []model.Sale{
		sale("200", testNow, saleItem(pid, "Wrench Set", 2, "100", &model.WholesaleInfo{PurchasePrice: dec("70")})),
	}

	// Empty catalog on purpose: sales never need it.
	r := Aggregate(nil, sales, nil, Options{WindowDays: 30, Now: testNow})

	assert.True(t, dec("200").Equal(r.TotalRevenue))
	assert.True(t, dec("140").Equal(r.TotalCost))
	assert.True(t, dec("60").Equal(r.TotalProfit))
	assert.True(t, dec("0.3").Equal(r.ProfitMargin))
}

func TestUnitFinalPriceFallback(t *testing.T) {
	pid := uuid.New()
	// Legacy order line: no resolved unit price, only the plain price.
	it := model.OrderItem{
		ProductID:   pid,
		ProductName: "Pliers",
		Quantity:    3,
		Price:       dec("25"),
		TotalPrice:  dec("75"),
	}
	orders := []model.Order{order(model.OrderStatusDelivered, "75", testNow, it)}

	r := Aggregate(orders, nil, nil, Options{WindowDays: 30, Now: testNow})

	require.Len(t, r.TopSellingProducts, 1)
	assert.True(t, dec("75").Equal(r.TopSellingProducts[0].Revenue), "falls back to price × quantity")
}

func TestZeroRevenueMarginSafety(t *testing.T) {
	r := Aggregate(nil, nil, nil, Options{WindowDays: 30, Now: testNow})

	assert.True(t, r.TotalRevenue.IsZero())
	assert.True(t, r.ProfitMargin.IsZero())
	assert.Empty(t, r.TopProfitableProducts)
	assert.Empty(t, r.Monthly)
	assert.Len(t, r.AnalysisByStatus, 5)
}

func TestIdempotence(t *testing.T) {
	pid := uuid.New()
	orders := []model.Order{
		order(model.OrderStatusDelivered, "500", testNow, orderItem(pid, "Drill", 1, "500", decPtr("300"))),
		order(model.OrderStatusShipped, "120", testNow.Add(-24*time.Hour), orderItem(pid, "Drill", 1, "120", nil)),
	}
	sales := []model.Sale{
		sale("300", testNow, saleItem(pid, "Drill", 2, "150", &model.WholesaleInfo{PurchasePrice: dec("90")})),
	}
	catalog := []model.Product{{ID: pid, Name: "Drill", Price: dec("500")}}
	opts := Options{WindowDays: 30, Now: testNow}

	first := Aggregate(orders, sales, catalog, opts)
	second := Aggregate(orders, sales, catalog, opts)
	assert.Equal(t, first, second)
}

func TestRankingOrderAndTruncation(t *testing.T) {
	var orders []model.Order
	for i := 0; i < 12; i++ {
		pid := uuid.New()
		// Product i sells i+1 units at 10 each with cost 4: profit scales with i.
		qty := i + 1
		it := orderItem(pid, "P", qty, "10", decPtr("4"))
		total := decimal.NewFromInt(int64(qty * 10))
		orders = append(orders, order(model.OrderStatusDelivered, total.String(), testNow, it))
	}

	r := Aggregate(orders, nil, nil, Options{WindowDays: 30, Now: testNow})

	assert.Len(t, r.TopProfitableProducts, 10)
	assert.Len(t, r.TopSellingProducts, 10)
	assert.Equal(t, 12, r.TopSellingProducts[0].Quantity)
	assert.True(t, r.TopProfitableProducts[0].Profit.GreaterThanOrEqual(r.TopProfitableProducts[9].Profit))
}

func TestMonthlyBuckets(t *testing.T) {
	pid := uuid.New()
	march := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	january := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	orders := []model.Order{
		order(model.OrderStatusDelivered, "100", march, orderItem(pid, "Drill", 1, "100", nil)),
		order(model.OrderStatusPending, "999", march, orderItem(pid, "Drill", 1, "999", nil)),
	}
	sales := []model.Sale{
		sale("50", january, saleItem(pid, "Drill", 1, "50", nil)),
	}

	r := Aggregate(orders, sales, nil, Options{Now: testNow}) // no window: keep January

	require.Len(t, r.Monthly, 2)
	assert.Equal(t, "2024-01", r.Monthly[0].Month, "lexicographic order is chronological")
	assert.Equal(t, "2024-03", r.Monthly[1].Month)

	jan, mar := r.Monthly[0], r.Monthly[1]
	assert.Equal(t, 1, jan.Sales)
	assert.True(t, dec("50").Equal(jan.Revenue))

	assert.Equal(t, 2, mar.Orders, "order count includes every status")
	assert.True(t, dec("100").Equal(mar.Revenue), "revenue only from the delivered order")
}

func TestWindowFilterAppliesToSales(t *testing.T) {
	pid := uuid.New()
	sales := []model.Sale{
		sale("100", testNow.AddDate(0, 0, -5), saleItem(pid, "Drill", 1, "100", nil)),
		sale("999", testNow.AddDate(0, 0, -90), saleItem(pid, "Drill", 1, "999", nil)),
	}

	r := Aggregate(nil, sales, nil, Options{WindowDays: 30, Now: testNow})

	assert.True(t, dec("100").Equal(r.TotalRevenue), "the 90-day-old ledger entry is outside the window")
}
