package analytics

import (
	"github.com/shopspring/decimal"
)

// Report types use camelCase JSON tags: the exported analytics document is a
// stable external contract consumed by the admin console and by downloads.

// SourceTotals breaks the headline figures down by channel.
type SourceTotals struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// ProductStat is one row of the per-product rankings.
// ProfitMargin is profit/revenue as a ratio, 0 when revenue is 0.
type ProductStat struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
}

// MonthlyStat is one YYYY-MM bucket of the time series. Revenue and cost are
// gated the same way as the headline figures (delivered orders + all sales);
// Orders counts every order regardless of status, Sales every sale.
type MonthlyStat struct {
	Month   string          `json:"month"` // "2024-03"
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
	Orders  int             `json:"orders"`
	Sales   int             `json:"sales"`
}

// StatusStat sums total and count per order status, independent of the
// revenue gate — operators see pipeline value here even though the headline
// figures only count delivered orders.
type StatusStat struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProfitReport is the consolidated analytics output.
type ProfitReport struct {
	WindowDays int `json:"windowDays"`

	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`

	RevenueBySource map[Source]SourceTotals `json:"revenueBySource"`

	TopProfitableProducts []ProductStat `json:"topProfitableProducts"`
	TopSellingProducts    []ProductStat `json:"topSellingProducts"`

	Monthly []MonthlyStat `json:"monthlyBreakdown"`

	AnalysisByStatus map[string]StatusStat `json:"analysisByStatus"`
}

// RevenueReport is the lighter variant used by the dashboard widget.
type RevenueReport struct {
	WindowDays     int             `json:"windowDays"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	OnlineRevenue  decimal.Decimal `json:"onlineRevenue"`
	CashierRevenue decimal.Decimal `json:"cashierRevenue"`
	OrderCount     int             `json:"orderCount"`
	SaleCount      int             `json:"saleCount"`
}

// Revenue extracts the light dashboard variant from a full report.
func (r *ProfitReport) Revenue() RevenueReport {
	orderCount := 0
	saleCount := 0
	for _, m := range r.Monthly {
		orderCount += m.Orders
		saleCount += m.Sales
	}
	return RevenueReport{
		WindowDays:     r.WindowDays,
		TotalRevenue:   r.TotalRevenue,
		OnlineRevenue:  r.RevenueBySource[SourceOnline].Revenue,
		CashierRevenue: r.RevenueBySource[SourceCashier].Revenue,
		OrderCount:     orderCount,
		SaleCount:      saleCount,
	}
}
