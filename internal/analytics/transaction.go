package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storely/internal/model"
)

// Source tags which channel produced a transaction.
type Source string

const (
	SourceOnline  Source = "online"  // customer checkout, carries a lifecycle status
	SourceCashier Source = "cashier" // in-store sale, final on creation
)

// Line is the source-agnostic view of one resolved line item.
// UnitFinalPrice is nil on legacy rows — revenue then falls back to
// Price × Quantity. UnitCost is nil when no cost snapshot exists — the
// aggregator then joins against the live catalog (orders only; cashier
// sales always snapshot).
type Line struct {
	ProductID      uuid.UUID
	ProductName    string
	Quantity       int
	Price          decimal.Decimal
	UnitFinalPrice *decimal.Decimal
	UnitCost       *decimal.Decimal
}

// Transaction is the tagged union both aggregation passes fold over.
// RevenueEligible encodes the one source-specific rule: online orders are
// eligible only when delivered, cashier sales always.
type Transaction struct {
	Source          Source
	Status          string // one of model.OrderStatuses for online, empty for cashier
	RevenueEligible bool
	Total           decimal.Decimal
	Timestamp       time.Time
	Lines           []Line
}

// FromOrder converts a persisted order into the common transaction shape.
func FromOrder(o *model.Order) Transaction {
	lines := make([]Line, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, Line{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			Price:          it.Price,
			UnitFinalPrice: it.UnitFinalPrice,
			UnitCost:       it.UnitCost,
		})
	}
	return Transaction{
		Source:          SourceOnline,
		Status:          o.Status,
		RevenueEligible: o.Status == model.OrderStatusDelivered,
		Total:           o.Total,
		Timestamp:       o.CreatedAt,
		Lines:           lines,
	}
}

// FromSale converts a cashier sale. The embedded product snapshot supplies
// the wholesale cost, so sale lines never need a catalog lookup.
func FromSale(s *model.Sale) Transaction {
	lines := make([]Line, 0, len(s.Items))
	for _, it := range s.Items {
		unitFinal := it.UnitFinalPrice
		var unitCost *decimal.Decimal
		if it.Product.Wholesale != nil {
			c := it.Product.Wholesale.PurchasePrice
			unitCost = &c
		}
		lines = append(lines, Line{
			ProductID:      it.Product.ID,
			ProductName:    it.Product.Name,
			Quantity:       it.Quantity,
			Price:          it.Product.Price,
			UnitFinalPrice: &unitFinal,
			UnitCost:       unitCost,
		})
	}
	return Transaction{
		Source:          SourceCashier,
		RevenueEligible: true,
		Total:           s.TotalAmount,
		Timestamp:       s.CreatedAt,
		Lines:           lines,
	}
}

// FromOrders maps a batch of orders.
func FromOrders(orders []model.Order) []Transaction {
	txs := make([]Transaction, 0, len(orders))
	for i := range orders {
		txs = append(txs, FromOrder(&orders[i]))
	}
	return txs
}

// FromSales maps a batch of sales.
func FromSales(sales []model.Sale) []Transaction {
	txs := make([]Transaction, 0, len(sales))
	for i := range sales {
		txs = append(txs, FromSale(&sales[i]))
	}
	return txs
}
