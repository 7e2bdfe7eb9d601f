package usecase

import (
	"context"
	"fmt"
	"math"

	"adwise/internal/domain"
	"adwise/pkg/logger"
	"adwise/pkg/metrics"
)

// CampaignService handles single-campaign submission and read projections.
type CampaignService struct {
	repo    domain.CampaignRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewCampaignService(
	repo domain.CampaignRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *CampaignService {
	return &CampaignService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// ValidateDraft applies the shape and range rules a draft must satisfy
// before submission. Malformed numeric input is rejected here rather than
// forwarded upstream.
func ValidateDraft(draft domain.CampaignDraft) error {
	if draft.Name == "" {
		return &domain.ValidationError{Field: "campaign_name", Reason: "must not be empty"}
	}
	if _, ok := domain.ParsePlatform(string(draft.Platform)); !ok {
		return &domain.ValidationError{Field: "platform", Reason: fmt.Sprintf("unknown platform %q", draft.Platform)}
	}
	if draft.Impressions < 0 {
		return &domain.ValidationError{Field: "impressions", Reason: "must not be negative"}
	}
	if draft.Clicks < 0 {
		return &domain.ValidationError{Field: "clicks", Reason: "must not be negative"}
	}
	if draft.Conversions < 0 {
		return &domain.ValidationError{Field: "conversions", Reason: "must not be negative"}
	}
	if draft.Spend < 0 || math.IsNaN(draft.Spend) || math.IsInf(draft.Spend, 0) {
		return &domain.ValidationError{Field: "spend", Reason: "must be a finite non-negative amount"}
	}
	if draft.Revenue < 0 || math.IsNaN(draft.Revenue) || math.IsInf(draft.Revenue, 0) {
		return &domain.ValidationError{Field: "revenue", Reason: "must be a finite non-negative amount"}
	}
	if draft.TargetAudience == "" {
		return &domain.ValidationError{Field: "target_audience", Reason: "must not be empty"}
	}
	if draft.AdCopy == "" {
		return &domain.ValidationError{Field: "ad_copy", Reason: "must not be empty"}
	}
	return nil
}

// Create validates a draft and submits it upstream. The returned campaign
// carries its upstream-assigned ID.
func (s *CampaignService) Create(ctx context.Context, draft domain.CampaignDraft) (domain.Campaign, error) {
	log := s.logger.WithContext(ctx).WithField("campaign_name", draft.Name)

	if err := ValidateDraft(draft); err != nil {
		log.WithError(err).Warn("Campaign draft rejected")
		return domain.Campaign{}, err
	}

	campaign, err := s.repo.CreateCampaign(ctx, draft)
	if err != nil {
		log.WithError(err).Error("Failed to create campaign")
		return domain.Campaign{}, fmt.Errorf("failed to create campaign: %w", err)
	}

	log.WithField("campaign_id", campaign.ID).Info("Campaign created")
	return campaign, nil
}

// List hydrates the locally known campaign set from the upstream store.
// Ordering is the upstream's; insertion order is assumed stable.
func (s *CampaignService) List(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := s.repo.ListCampaigns(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to list campaigns")
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// Get fetches one campaign by ID.
func (s *CampaignService) Get(ctx context.Context, id string) (domain.Campaign, error) {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("campaign_id", id).
			Error("Failed to fetch campaign")
		return domain.Campaign{}, fmt.Errorf("failed to fetch campaign: %w", err)
	}
	return campaign, nil
}

// ListWithMetrics returns every campaign paired with its derived ratios.
func (s *CampaignService) ListWithMetrics(ctx context.Context) ([]domain.CampaignMetrics, error) {
	campaigns, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	projected := make([]domain.CampaignMetrics, len(campaigns))
	for i, campaign := range campaigns {
		projected[i] = domain.CampaignMetrics{
			Campaign: campaign,
			Metrics:  domain.ComputeMetrics(campaign),
		}
	}
	return projected, nil
}

// Summary proxies the upstream dashboard aggregates.
func (s *CampaignService) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	summary, err := s.repo.DashboardSummary(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to fetch dashboard summary")
		return domain.DashboardSummary{}, fmt.Errorf("failed to fetch dashboard summary: %w", err)
	}
	return summary, nil
}
