package usecase

import (
	"context"

	"adwise/internal/domain"
	"adwise/pkg/logger"
	"adwise/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// stubRepo implements domain.CampaignRepository with overridable behavior
// per method. Unset methods return zero values.
type stubRepo struct {
	listFn    func(ctx context.Context) ([]domain.Campaign, error)
	getFn     func(ctx context.Context, id string) (domain.Campaign, error)
	createFn  func(ctx context.Context, draft domain.CampaignDraft) (domain.Campaign, error)
	latestFn  func(ctx context.Context, campaignID string) (domain.Analysis, bool, error)
	requestFn func(ctx context.Context, campaignID string) (domain.Analysis, error)
	bulkFn    func(ctx context.Context) ([]domain.Analysis, error)
	summaryFn func(ctx context.Context) (domain.DashboardSummary, error)
}

func (s *stubRepo) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubRepo) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.Campaign{}, nil
}

func (s *stubRepo) CreateCampaign(ctx context.Context, draft domain.CampaignDraft) (domain.Campaign, error) {
	if s.createFn != nil {
		return s.createFn(ctx, draft)
	}
	return domain.Campaign{}, nil
}

func (s *stubRepo) LatestAnalysis(ctx context.Context, campaignID string) (domain.Analysis, bool, error) {
	if s.latestFn != nil {
		return s.latestFn(ctx, campaignID)
	}
	return domain.Analysis{}, false, nil
}

func (s *stubRepo) RequestAnalysis(ctx context.Context, campaignID string) (domain.Analysis, error) {
	if s.requestFn != nil {
		return s.requestFn(ctx, campaignID)
	}
	return domain.Analysis{}, nil
}

func (s *stubRepo) RequestBulkAnalysis(ctx context.Context) ([]domain.Analysis, error) {
	if s.bulkFn != nil {
		return s.bulkFn(ctx)
	}
	return nil, nil
}

func (s *stubRepo) DashboardSummary(ctx context.Context) (domain.DashboardSummary, error) {
	if s.summaryFn != nil {
		return s.summaryFn(ctx)
	}
	return domain.DashboardSummary{}, nil
}

func testLogger() *logger.Logger {
	return logger.New("error")
}

func testMetrics() *metrics.Metrics {
	return metrics.NewWith(prometheus.NewRegistry())
}
