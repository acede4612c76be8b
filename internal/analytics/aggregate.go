// Package analytics rolls completed transactions from both sales channels
// into a consolidated profit report.
//
// The engine is pure and synchronous: it is handed already-fetched slices by
// its callers (it never touches Postgres or redis itself), and aggregating
// the same inputs twice yields deep-equal reports, so callers may recompute
// on every poll without correctness risk. Missing optional data — no
// wholesale cost, no resolved unit price, stale references — contributes
// nothing instead of erroring.
package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storely/internal/model"
)

// rankingSize caps both product rankings.
const rankingSize = 10

// monthKeyFormat buckets timestamps as "YYYY-MM"; lexicographic order of
// these keys is chronological order.
const monthKeyFormat = "2006-01"

// Options tunes one aggregation run. WindowDays ≤ 0 disables the window
// filter. Now defaults to time.Now() and exists so tests and the export
// path can pin the clock.
type Options struct {
	WindowDays int
	Now        time.Time
}

// Aggregate folds orders and sales into a ProfitReport.
//
// Orders normally arrive pre-windowed from the repository query; the filter
// here is applied uniformly anyway so full-history cashier sales (the ledger
// keeps everything) and orders are treated alike. catalog supplies wholesale
// costs for order lines that predate cost snapshotting.
func Aggregate(orders []model.Order, sales []model.Sale, catalog []model.Product, opts Options) *ProfitReport {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	txs := append(FromOrders(orders), FromSales(sales)...)
	return fold(txs, indexCatalog(catalog), now, opts.WindowDays)
}

// productAccum is the per-product running tally merged across both sources.
type productAccum struct {
	name     string
	quantity int
	revenue  decimal.Decimal
	cost     decimal.Decimal
}

func fold(txs []Transaction, catalog map[uuid.UUID]*model.Product, now time.Time, windowDays int) *ProfitReport {
	report := &ProfitReport{
		WindowDays:       windowDays,
		TotalRevenue:     decimal.Zero,
		TotalCost:        decimal.Zero,
		TotalProfit:      decimal.Zero,
		ProfitMargin:     decimal.Zero,
		RevenueBySource:  map[Source]SourceTotals{},
		AnalysisByStatus: map[string]StatusStat{},
	}

	// Pre-seed the status table so all five statuses are always present,
	// zero-valued when no order has that status.
	for _, st := range model.OrderStatuses {
		report.AnalysisByStatus[st] = StatusStat{Revenue: decimal.Zero}
	}
	perSource := map[Source]SourceTotals{
		SourceOnline:  {Revenue: decimal.Zero, Cost: decimal.Zero, Profit: decimal.Zero},
		SourceCashier: {Revenue: decimal.Zero, Cost: decimal.Zero, Profit: decimal.Zero},
	}

	var cutoff time.Time
	if windowDays > 0 {
		cutoff = now.AddDate(0, 0, -windowDays)
	}

	products := map[uuid.UUID]*productAccum{}
	months := map[string]*MonthlyStat{}

	for _, tx := range txs {
		if windowDays > 0 && tx.Timestamp.Before(cutoff) {
			continue
		}

		month := monthBucket(months, tx.Timestamp)

		switch tx.Source {
		case SourceOnline:
			month.Orders++
			// Pipeline table counts every status, revenue gate or not.
			st := report.AnalysisByStatus[tx.Status]
			st.Count++
			st.Revenue = st.Revenue.Add(tx.Total)
			report.AnalysisByStatus[tx.Status] = st
		case SourceCashier:
			month.Sales++
		}

		if !tx.RevenueEligible {
			continue
		}

		txCost := decimal.Zero
		for _, ln := range tx.Lines {
			qty := decimal.NewFromInt(int64(ln.Quantity))
			lineRevenue := lineUnitPrice(ln).Mul(qty)

			lineCost := decimal.Zero
			if c, ok := lineCostUnit(ln, catalog); ok {
				lineCost = c.Mul(qty)
			}
			txCost = txCost.Add(lineCost)

			acc, ok := products[ln.ProductID]
			if !ok {
				acc = &productAccum{name: ln.ProductName, revenue: decimal.Zero, cost: decimal.Zero}
				products[ln.ProductID] = acc
			}
			acc.quantity += ln.Quantity
			acc.revenue = acc.revenue.Add(lineRevenue)
			acc.cost = acc.cost.Add(lineCost)
		}

		src := perSource[tx.Source]
		src.Revenue = src.Revenue.Add(tx.Total)
		src.Cost = src.Cost.Add(txCost)
		perSource[tx.Source] = src

		month.Revenue = month.Revenue.Add(tx.Total)
		month.Cost = month.Cost.Add(txCost)
	}

	for src, totals := range perSource {
		totals.Profit = totals.Revenue.Sub(totals.Cost)
		report.RevenueBySource[src] = totals
		report.TotalRevenue = report.TotalRevenue.Add(totals.Revenue)
		report.TotalCost = report.TotalCost.Add(totals.Cost)
	}
	report.TotalProfit = report.TotalRevenue.Sub(report.TotalCost)
	report.ProfitMargin = safeMargin(report.TotalProfit, report.TotalRevenue)

	report.TopProfitableProducts, report.TopSellingProducts = rankings(products)
	report.Monthly = sortedMonths(months)

	return report
}

// lineUnitPrice prefers the resolved unit price and falls back to the plain
// catalog price for records written before unit prices were resolved.
func lineUnitPrice(ln Line) decimal.Decimal {
	if ln.UnitFinalPrice != nil {
		return *ln.UnitFinalPrice
	}
	return ln.Price
}

// lineCostUnit returns the per-unit wholesale cost: the line snapshot when
// present, otherwise the live catalog entry. ok is false when neither side
// carries cost data — the line then contributes zero cost, never an error.
func lineCostUnit(ln Line, catalog map[uuid.UUID]*model.Product) (decimal.Decimal, bool) {
	if ln.UnitCost != nil {
		return *ln.UnitCost, true
	}
	if p, ok := catalog[ln.ProductID]; ok && p.Wholesale != nil {
		return p.Wholesale.PurchasePrice, true
	}
	return decimal.Zero, false
}

func indexCatalog(catalog []model.Product) map[uuid.UUID]*model.Product {
	idx := make(map[uuid.UUID]*model.Product, len(catalog))
	for i := range catalog {
		idx[catalog[i].ID] = &catalog[i]
	}
	return idx
}

func monthBucket(months map[string]*MonthlyStat, ts time.Time) *MonthlyStat {
	key := ts.Format(monthKeyFormat)
	m, ok := months[key]
	if !ok {
		m = &MonthlyStat{Month: key, Revenue: decimal.Zero, Cost: decimal.Zero, Profit: decimal.Zero}
		months[key] = m
	}
	return m
}

// rankings derives both top-10 lists from the unified per-product map.
// Ties break on product id so that identical inputs always produce
// identical output ordering regardless of map iteration order.
func rankings(products map[uuid.UUID]*productAccum) (profitable, selling []ProductStat) {
	stats := make([]ProductStat, 0, len(products))
	for id, acc := range products {
		profit := acc.revenue.Sub(acc.cost)
		stats = append(stats, ProductStat{
			ProductID:    id.String(),
			ProductName:  acc.name,
			Quantity:     acc.quantity,
			Revenue:      acc.revenue,
			Cost:         acc.cost,
			Profit:       profit,
			ProfitMargin: safeMargin(profit, acc.revenue),
		})
	}

	byProfit := make([]ProductStat, len(stats))
	copy(byProfit, stats)
	sort.Slice(byProfit, func(i, j int) bool {
		if !byProfit[i].Profit.Equal(byProfit[j].Profit) {
			return byProfit[i].Profit.GreaterThan(byProfit[j].Profit)
		}
		return byProfit[i].ProductID < byProfit[j].ProductID
	})

	bySold := make([]ProductStat, len(stats))
	copy(bySold, stats)
	sort.Slice(bySold, func(i, j int) bool {
		if bySold[i].Quantity != bySold[j].Quantity {
			return bySold[i].Quantity > bySold[j].Quantity
		}
		return bySold[i].ProductID < bySold[j].ProductID
	})

	return truncate(byProfit), truncate(bySold)
}

func truncate(stats []ProductStat) []ProductStat {
	if len(stats) > rankingSize {
		return stats[:rankingSize]
	}
	return stats
}

func sortedMonths(months map[string]*MonthlyStat) []MonthlyStat {
	out := make([]MonthlyStat, 0, len(months))
	for _, m := range months {
		m.Profit = m.Revenue.Sub(m.Cost)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// safeMargin is profit/revenue guarded against division by zero: a report
// over zero revenue has margin 0, never NaN or Inf.
func safeMargin(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return profit.Div(revenue).Round(4)
}
