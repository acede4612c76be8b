package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExport(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	report := Aggregate(nil, nil, nil, Options{WindowDays: 30, Now: now})

	filename, doc := BuildExport(report, "Last 30 days", now)
	assert.Equal(t, "analytics-2024-03-15.json", filename)

	raw, err := doc.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// The document is the flattened report plus export metadata.
	assert.Equal(t, "2024-03-15T10:30:00Z", decoded["exportDate"])
	assert.Equal(t, "Last 30 days", decoded["timeRange"])
	assert.Contains(t, decoded, "totalRevenue")
	assert.Contains(t, decoded, "analysisByStatus")
	assert.Contains(t, decoded, "revenueBySource")
}
