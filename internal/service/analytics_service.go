package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"storely/internal/analytics"
	"storely/internal/dto"
	"storely/internal/model"
	"storely/internal/repository"
)

type AnalyticsService interface {
	Report(ctx context.Context, days int) (*dto.AnalyticsResponse, error)
	Revenue(ctx context.Context, days int) (*dto.RevenueResponse, error)
	// ExportJSON returns the download filename and the rendered document.
	ExportJSON(ctx context.Context, days int) (string, []byte, error)
	// ExportPDF renders the report to a PDF on disk and returns its path.
	ExportPDF(ctx context.Context, days int) (string, error)
}

type analyticsService struct {
	orders   repository.OrderRepository
	ledger   repository.SaleLedger
	products repository.ProductRepository

	storeName      string
	pdfStoragePath string
	reportPDF      func(storeName string, doc analytics.ExportDocument, storagePath string) (string, error)
	now            func() time.Time
}

func NewAnalyticsService(
	orders repository.OrderRepository,
	ledger repository.SaleLedger,
	products repository.ProductRepository,
	storeName, pdfStoragePath string,
	reportPDF func(string, analytics.ExportDocument, string) (string, error),
) AnalyticsService {
	return &analyticsService{
		orders:         orders,
		ledger:         ledger,
		products:       products,
		storeName:      storeName,
		pdfStoragePath: pdfStoragePath,
		reportPDF:      reportPDF,
		now:            time.Now,
	}
}

// build gathers both sources and the catalog, then folds them into a report.
// A corrupt cashier ledger zeroes that source (flagged in the response)
// instead of failing the whole report.
func (s *analyticsService) build(ctx context.Context, days int) (*analytics.ProfitReport, bool, error) {
	now := s.now()

	orders, err := s.orders.ListSince(ctx, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, false, err
	}

	ledgerUnavailable := false
	var sales []model.Sale
	sales, err = s.ledger.List(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrCorruptLedger) {
			return nil, false, err
		}
		log.Error().Err(err).Msg("analytics: cashier ledger corrupt — reporting online source only")
		sales = nil
		ledgerUnavailable = true
	}

	catalog, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, false, err
	}

	report := analytics.Aggregate(orders, sales, catalog, analytics.Options{
		WindowDays: days,
		Now:        now,
	})
	return report, ledgerUnavailable, nil
}

func (s *analyticsService) Report(ctx context.Context, days int) (*dto.AnalyticsResponse, error) {
	report, unavailable, err := s.build(ctx, days)
	if err != nil {
		return nil, err
	}
	return &dto.AnalyticsResponse{
		Report:                   report,
		CashierLedgerUnavailable: unavailable,
	}, nil
}

func (s *analyticsService) Revenue(ctx context.Context, days int) (*dto.RevenueResponse, error) {
	report, unavailable, err := s.build(ctx, days)
	if err != nil {
		return nil, err
	}
	return &dto.RevenueResponse{
		Report:                   report.Revenue(),
		CashierLedgerUnavailable: unavailable,
	}, nil
}

func (s *analyticsService) ExportJSON(ctx context.Context, days int) (string, []byte, error) {
	report, _, err := s.build(ctx, days)
	if err != nil {
		return "", nil, err
	}
	filename, doc := analytics.BuildExport(report, timeRange(days), s.now())
	data, err := doc.JSON()
	if err != nil {
		return "", nil, err
	}
	return filename, data, nil
}

func (s *analyticsService) ExportPDF(ctx context.Context, days int) (string, error) {
	report, _, err := s.build(ctx, days)
	if err != nil {
		return "", err
	}
	_, doc := analytics.BuildExport(report, timeRange(days), s.now())
	return s.reportPDF(s.storeName, doc, s.pdfStoragePath)
}

func timeRange(days int) string {
	return fmt.Sprintf("Last %d days", days)
}
