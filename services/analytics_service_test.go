package services

import (
	"context"
	"testing"

	"a3project/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetPortfolioStats verifies per-document progress is bucketed into the
// portfolio status bands.
func TestGetPortfolioStats(t *testing.T) {
	docs := newFakeDocumentRepository(
		models.A3{
			Header:  models.Header{ID: "A3-001-A", Title: "Done"},
			Actions: []models.Action{{ID: 1, Progress: fptr(100)}},
		},
		models.A3{
			Header:  models.Header{ID: "A3-002-A", Title: "Halfway"},
			Actions: []models.Action{{ID: 1, Progress: fptr(50)}},
		},
		models.A3{
			Header: models.Header{ID: "A3-003-A", Title: "Untouched"},
		},
	)
	svc := NewAnalyticsService(docs)

	stats, err := svc.GetPortfolioStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.Documents, 3)
	assert.Equal(t, 1, stats.StatusCounts["Completed"])
	assert.Equal(t, 1, stats.StatusCounts["On Track"])
	assert.Equal(t, 1, stats.StatusCounts["Not Started"])
}

// TestGetLagLeadComparison verifies the comparison is built for the
// requested series and unknown series fail explicitly.
func TestGetLagLeadComparison(t *testing.T) {
	docs := newFakeDocumentRepository(models.A3{
		Header: models.Header{ID: "A3-001-A"},
		Metrics: models.Metrics{
			Lag: models.Metric{
				Name:    "Scrap",
				Samples: []models.Sample{{Date: "2024-01-01", Value: fptr(10)}},
			},
		},
	})
	svc := NewAnalyticsService(docs)

	comparison, err := svc.GetLagLeadComparison(context.Background(), "001")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01"}, comparison.Dates)
	assert.Equal(t, []string{"Scrap"}, comparison.Metrics)

	_, err = svc.GetLagLeadComparison(context.Background(), "404")
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}
