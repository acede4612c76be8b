package analytics

import (
	"encoding/json"
	"fmt"
	"time"
)

// ExportDocument is the downloadable analytics artifact: the full report
// plus export metadata. Its JSON shape is a stable external contract.
type ExportDocument struct {
	ExportDate string `json:"exportDate"` // RFC 3339
	TimeRange  string `json:"timeRange"`  // human-readable, e.g. "Last 30 days"
	*ProfitReport
}

// BuildExport wraps a report into its export document and returns the
// download filename, patterned analytics-<ISO-date>.json.
func BuildExport(report *ProfitReport, timeRange string, now time.Time) (string, ExportDocument) {
	filename := fmt.Sprintf("analytics-%s.json", now.Format("2006-01-02"))
	return filename, ExportDocument{
		ExportDate:   now.UTC().Format(time.RFC3339),
		TimeRange:    timeRange,
		ProfitReport: report,
	}
}

// JSON renders the document indented for download.
func (d ExportDocument) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
