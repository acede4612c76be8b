package dto

import (
	"storely/internal/analytics"
)

// AnalyticsFilter is bound from the query string of the analytics endpoints.
type AnalyticsFilter struct {
	Days int `form:"days,default=30" validate:"min=1,max=3650"`
}

// AnalyticsResponse wraps the report with source-availability metadata.
// CashierLedgerUnavailable is set when the redis ledger is corrupt: the
// cashier contribution is then zero rather than partially aggregated, and
// the console can show a warning.
type AnalyticsResponse struct {
	Report                   *analytics.ProfitReport `json:"report"`
	CashierLedgerUnavailable bool                    `json:"cashier_ledger_unavailable,omitempty"`
}

// RevenueResponse is the dashboard widget payload.
type RevenueResponse struct {
	Report                   analytics.RevenueReport `json:"report"`
	CashierLedgerUnavailable bool                    `json:"cashier_ledger_unavailable,omitempty"`
}
