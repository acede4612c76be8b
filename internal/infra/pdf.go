package infra

// pdf.go — PDF generation using go-pdf/fpdf.
// Two artifacts are rendered here:
//   - order receipts mailed to customers when an order is delivered
//   - the analytics report export downloaded from the admin console

import (
	"fmt"
	"os"
	"path/filepath"

	"storely/internal/analytics"
	"storely/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GenerateOrderReceiptPDF renders a receipt for a delivered order.
// storagePath is created when missing; the absolute file path is returned.
func GenerateOrderReceiptPDF(storeName string, order *model.Order, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", order.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, storeName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Order receipt", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Order %s", order.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, order.CreatedAt.Format("02 Jan 2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Item table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.14
	col3 := contentW * 0.34

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range order.Items {
		name := item.ProductName
		if len(name) > 34 {
			name = name[:33] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+item.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, "$"+order.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}

// GenerateReportPDF renders the analytics export as a printable summary:
// headline totals, per-source breakdown and the top-10 profitable products.
func GenerateReportPDF(storeName string, doc analytics.ExportDocument, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("analytics-%s.pdf", doc.ExportDate[:10])
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, storeName+" — Analytics Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, doc.TimeRange+"  ·  exported "+doc.ExportDate, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Headline figures ─────────────────────────────────────────────────────
	r := doc.ProfitReport
	headline := []struct{ label, value string }{
		{"Total revenue", "$" + r.TotalRevenue.StringFixed(2)},
		{"Total cost", "$" + r.TotalCost.StringFixed(2)},
		{"Total profit", "$" + r.TotalProfit.StringFixed(2)},
		{"Profit margin", r.ProfitMargin.Mul(hundred).StringFixed(1) + "%"},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, h := range headline {
		pdf.CellFormat(contentW*0.4, 7, h.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW*0.6, 7, h.value, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}
	pdf.Ln(4)

	// ── Per-source ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Revenue by source", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, src := range []analytics.Source{analytics.SourceOnline, analytics.SourceCashier} {
		totals := r.RevenueBySource[src]
		line := fmt.Sprintf("%s — revenue $%s, cost $%s, profit $%s",
			src, totals.Revenue.StringFixed(2), totals.Cost.StringFixed(2), totals.Profit.StringFixed(2))
		pdf.CellFormat(contentW, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Top profitable products ──────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Top profitable products", "", 1, "L", false, 0, "")

	col1 := contentW * 0.44
	col2 := contentW * 0.12
	col3 := contentW * 0.22
	col4 := contentW * 0.22

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Revenue", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Profit", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range r.TopProfitableProducts {
		name := p.ProductName
		if len(name) > 38 {
			name = name[:37] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", p.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+p.Revenue.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+p.Profit.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
