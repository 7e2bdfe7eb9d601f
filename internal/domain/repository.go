package domain

import "context"

// CampaignRepository is the boundary to the upstream campaign platform.
// Every method is a remote call: create, list and fetch operations are
// implemented by the external service and consumed here as an interface.
type CampaignRepository interface {
	ListCampaigns(ctx context.Context) ([]Campaign, error)
	GetCampaign(ctx context.Context, id string) (Campaign, error)
	CreateCampaign(ctx context.Context, draft CampaignDraft) (Campaign, error)

	// LatestAnalysis returns the most recent analysis for a campaign.
	// found is false when the campaign has never been analyzed.
	LatestAnalysis(ctx context.Context, campaignID string) (a Analysis, found bool, err error)

	// RequestAnalysis triggers a new AI analysis for one campaign.
	// Long-running; the upstream owns any timeout.
	RequestAnalysis(ctx context.Context, campaignID string) (Analysis, error)

	// RequestBulkAnalysis triggers analysis for every campaign lacking a
	// sufficiently recent one (recency policy is the upstream's) and returns
	// the newly created analyses.
	RequestBulkAnalysis(ctx context.Context) ([]Analysis, error)

	DashboardSummary(ctx context.Context) (DashboardSummary, error)
}

// TableSource turns an uploaded file into rows of named text fields.
// File parsing is an external collaborator's job; implementations adapt one
// concrete format to the row contract the validator consumes.
type TableSource interface {
	Rows() ([]Row, error)
}
