package domain

// DerivedMetrics holds the standard ratios derived from a campaign's raw
// counters. They are recomputed on demand and never persisted.
type DerivedMetrics struct {
	CTR            float64 `json:"ctr"`             // clicks / impressions * 100
	ConversionRate float64 `json:"conversion_rate"` // conversions / clicks * 100
	CPA            float64 `json:"cpa"`             // spend / conversions
	ROAS           float64 `json:"roas"`            // revenue / spend
	ROI            float64 `json:"roi"`             // (revenue - spend) / spend * 100
}

// ComputeMetrics derives the standard ratios from a campaign's counters.
// Every division is guarded: a non-positive denominator yields 0 rather than
// NaN or Inf, except CPA which reports full spend when there are no
// conversions (the whole budget bought nothing).
func ComputeMetrics(c Campaign) DerivedMetrics {
	m := DerivedMetrics{CPA: c.Spend}

	if c.Impressions > 0 {
		m.CTR = float64(c.Clicks) / float64(c.Impressions) * 100
	}
	if c.Clicks > 0 {
		m.ConversionRate = float64(c.Conversions) / float64(c.Clicks) * 100
	}
	if c.Conversions > 0 {
		m.CPA = c.Spend / float64(c.Conversions)
	}
	if c.Spend > 0 {
		m.ROAS = c.Revenue / c.Spend
		m.ROI = (c.Revenue - c.Spend) / c.Spend * 100
	}

	return m
}

// ScoreTier buckets a 0-100 analysis score for display.
type ScoreTier string

const (
	TierHigh   ScoreTier = "high"
	TierMedium ScoreTier = "medium"
	TierLow    ScoreTier = "low"
)

// ClassifyScore maps an overall score to its severity tier.
// Thresholds: >= 80 high, >= 60 medium, below 60 low.
func ClassifyScore(score int) ScoreTier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

// CampaignMetrics pairs a campaign with its derived ratios for read views.
type CampaignMetrics struct {
	Campaign Campaign       `json:"campaign"`
	Metrics  DerivedMetrics `json:"metrics"`
}

// DashboardSummary is the aggregate projection computed by the upstream
// repository service. The engine proxies it untouched.
type DashboardSummary struct {
	TotalCampaigns int     `json:"total_campaigns"`
	TotalSpend     float64 `json:"total_spend"`
	TotalRevenue   float64 `json:"total_revenue"`
	AvgROI         float64 `json:"avg_roi"`
	TotalAnalyses  int     `json:"total_analyses"`
	AvgScore       float64 `json:"avg_score"`
}
