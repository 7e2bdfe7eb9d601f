package domain

import "time"

// Analysis is one AI-generated optimization result for a campaign.
// A campaign accumulates analyses over time; the engine only tracks the
// most recent one per campaign.
type Analysis struct {
	ID                    string    `json:"id"`
	CampaignID            string    `json:"campaign_id"`
	PerformanceAnalysis   string    `json:"performance_analysis"`
	BudgetRecommendations string    `json:"budget_recommendations"`
	TargetingSuggestions  string    `json:"targeting_suggestions"`
	CopyOptimization      string    `json:"copy_optimization"`
	ROIStrategies         string    `json:"roi_strategies"`
	OverallScore          int       `json:"overall_score"`
	CreatedAt             time.Time `json:"created_at"`
}

// BulkAnalysisResult summarizes one bulk-analyze run.
// Created counts analyses produced by the upstream bulk step; Refreshed and
// Failed count the per-campaign reconciliation fetches that followed.
type BulkAnalysisResult struct {
	Created   int      `json:"created"`
	Refreshed int      `json:"refreshed"`
	Failed    []string `json:"failed,omitempty"`
}
