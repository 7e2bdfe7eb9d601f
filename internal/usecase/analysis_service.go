package usecase

import (
	"context"
	"sync"
	"time"

	"adwise/internal/domain"
	"adwise/pkg/logger"
	"adwise/pkg/metrics"
)

// AnalysisService orchestrates AI analysis requests and owns the
// per-campaign latest-analysis cache.
type AnalysisService struct {
	repo    domain.CampaignRepository
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	latest map[string]domain.Analysis
}

func NewAnalysisService(
	repo domain.CampaignRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *AnalysisService {
	return &AnalysisService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		latest:  make(map[string]domain.Analysis),
	}
}

// AnalyzeOne requests a fresh analysis for a single campaign and caches the
// result. On failure the cache entry is left untouched and an AnalysisError
// is returned for the caller to surface.
func (s *AnalysisService) AnalyzeOne(ctx context.Context, campaignID string) (domain.Analysis, error) {
	log := s.logger.WithContext(ctx).WithField("campaign_id", campaignID)
	log.Info("Requesting campaign analysis")

	analysis, err := s.repo.RequestAnalysis(ctx, campaignID)
	if err != nil {
		s.metrics.RecordAnalysisRequest("single", "failed")
		log.WithError(err).Error("Campaign analysis failed")
		return domain.Analysis{}, &domain.AnalysisError{CampaignID: campaignID, Err: err}
	}

	s.upsert(analysis)
	s.metrics.RecordAnalysisRequest("single", "success")

	log.WithField("overall_score", analysis.OverallScore).Info("Campaign analysis completed")
	return analysis, nil
}

// AnalyzeAll triggers a bulk analysis upstream, then reconciles the cache by
// re-fetching the latest analysis for every known campaign, one at a time, in
// the order given. A failed fetch for one campaign never aborts the loop: the
// error is logged and counted, and the run still reports the created count
// from the bulk step. Only a failure of the bulk request itself propagates.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, campaigns []domain.Campaign) (domain.BulkAnalysisResult, error) {
	start := time.Now()
	log := s.logger.WithContext(ctx)
	log.WithField("known_campaigns", len(campaigns)).Info("Starting bulk analysis")

	created, err := s.repo.RequestBulkAnalysis(ctx)
	if err != nil {
		s.metrics.RecordAnalysisRequest("bulk", "failed")
		log.WithError(err).Error("Bulk analysis request failed")
		return domain.BulkAnalysisResult{}, err
	}

	result := domain.BulkAnalysisResult{Created: len(created)}

	// Sequential on purpose: one outbound fetch at a time keeps upstream load
	// predictable and the visitation order deterministic.
	for _, campaign := range campaigns {
		analysis, found, err := s.repo.LatestAnalysis(ctx, campaign.ID)
		if err != nil {
			s.metrics.RecordReconciliation("failed")
			log.WithError(err).WithField("campaign_id", campaign.ID).
				Warn("Reconciliation fetch failed, continuing")
			result.Failed = append(result.Failed, campaign.ID)
			continue
		}
		if !found {
			s.metrics.RecordReconciliation("absent")
			continue
		}

		s.upsert(analysis)
		s.metrics.RecordReconciliation("success")
		result.Refreshed++
	}

	s.metrics.RecordAnalysisRequest("bulk", "success")
	s.metrics.ObserveBulkAnalysis(time.Since(start))

	log.WithFields(map[string]any{
		"created":   result.Created,
		"refreshed": result.Refreshed,
		"failed":    len(result.Failed),
		"duration":  time.Since(start),
	}).Info("Bulk analysis completed")

	return result, nil
}

// Latest returns the cached most-recent analysis for a campaign.
func (s *AnalysisService) Latest(campaignID string) (domain.Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analysis, ok := s.latest[campaignID]
	return analysis, ok
}

// Snapshot returns a copy of the cache keyed by campaign ID.
func (s *AnalysisService) Snapshot() map[string]domain.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]domain.Analysis, len(s.latest))
	for id, analysis := range s.latest {
		snapshot[id] = analysis
	}
	return snapshot
}

// upsert replaces the cached entry for the analysis' campaign. Entries are
// never evicted; the cache lives for the lifetime of the process.
func (s *AnalysisService) upsert(analysis domain.Analysis) {
	s.mu.Lock()
	s.latest[analysis.CampaignID] = analysis
	size := len(s.latest)
	s.mu.Unlock()

	s.metrics.SetAnalysesCached(size)
}
