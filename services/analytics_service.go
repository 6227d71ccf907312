package services

import (
	"context"

	"a3project/actions"
	"a3project/metrics"
	repository "a3project/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DocumentStats is one document's row in the portfolio overview.
type DocumentStats struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Status     string                `json:"status"`
	Percent    int                   `json:"percent"`
	LagSummary metrics.SampleSummary `json:"lagSummary"`
}

// PortfolioStats aggregates action progress and lag-metric summaries across
// every document in the store.
type PortfolioStats struct {
	StatusCounts map[string]int  `json:"statusCounts"`
	Documents    []DocumentStats `json:"documents"`
	StoreCounts  []bson.M        `json:"storeCounts"`
}

type AnalyticsService interface {
	GetPortfolioStats(ctx context.Context) (*PortfolioStats, error)
	GetLagLeadComparison(ctx context.Context, series string) (*metrics.Comparison, error)
}

type analyticsService struct {
	repo repository.DocumentRepository
}

func NewAnalyticsService(repo repository.DocumentRepository) AnalyticsService {
	return &analyticsService{
		repo: repo,
	}
}

func (s *analyticsService) GetPortfolioStats(ctx context.Context) (*PortfolioStats, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &PortfolioStats{
		StatusCounts: map[string]int{},
		Documents:    make([]DocumentStats, 0, len(all)),
	}

	for _, a3 := range all {
		percent := actions.AggregatePercent(a3.Actions, a3.ActionsSettings.Weighted)
		status := progressStatus(percent)
		stats.StatusCounts[status]++
		stats.Documents = append(stats.Documents, DocumentStats{
			ID:         a3.Header.ID,
			Title:      a3.Header.Title,
			Status:     status,
			Percent:    percent,
			LagSummary: metrics.SummarizeSamples(a3.Metrics.Lag.Samples),
		})
	}

	counts, err := s.repo.GetPortfolioCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats.StoreCounts = counts

	return stats, nil
}

func (s *analyticsService) GetLagLeadComparison(ctx context.Context, series string) (*metrics.Comparison, error) {
	a3, err := s.repo.GetBySeries(ctx, series)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}

	comparison := metrics.CompareDocument(a3.Metrics)
	return &comparison, nil
}

func progressStatus(percent int) string {
	switch {
	case percent >= 100:
		return "Completed"
	case percent >= 50:
		return "On Track"
	case percent >= 25:
		return "At Risk"
	case percent >= 1:
		return "Behind"
	default:
		return "Not Started"
	}
}
