package domain

import (
	"strings"
	"time"
)

// Platform is one of the supported ad platforms.
type Platform string

const (
	PlatformGoogleAds    Platform = "Google Ads"
	PlatformFacebookAds  Platform = "Facebook Ads"
	PlatformInstagramAds Platform = "Instagram Ads"
	PlatformLinkedInAds  Platform = "LinkedIn Ads"
	PlatformTikTokAds    Platform = "TikTok Ads"
	PlatformTwitterAds   Platform = "Twitter Ads"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{
	PlatformGoogleAds,
	PlatformFacebookAds,
	PlatformInstagramAds,
	PlatformLinkedInAds,
	PlatformTikTokAds,
	PlatformTwitterAds,
}

// ParsePlatform matches free text against the supported platforms.
// Matching is case-insensitive after trimming; there is no default fallback.
func ParsePlatform(s string) (Platform, bool) {
	trimmed := strings.TrimSpace(s)
	for _, p := range Platforms {
		if strings.EqualFold(trimmed, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Campaign is one advertising campaign's recorded performance.
// Campaigns are immutable once created; the ID is assigned upstream.
type Campaign struct {
	ID             string    `json:"id"`
	Name           string    `json:"campaign_name"`
	Platform       Platform  `json:"platform"`
	Impressions    int       `json:"impressions"`
	Clicks         int       `json:"clicks"`
	Conversions    int       `json:"conversions"`
	Spend          float64   `json:"spend"`
	Revenue        float64   `json:"revenue"`
	TargetAudience string    `json:"target_audience"`
	AdCopy         string    `json:"ad_copy"`
	Keywords       string    `json:"keywords,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CampaignDraft carries every Campaign attribute except identity.
type CampaignDraft struct {
	Name           string   `json:"campaign_name"`
	Platform       Platform `json:"platform"`
	Impressions    int      `json:"impressions"`
	Clicks         int      `json:"clicks"`
	Conversions    int      `json:"conversions"`
	Spend          float64  `json:"spend"`
	Revenue        float64  `json:"revenue"`
	TargetAudience string   `json:"target_audience"`
	AdCopy         string   `json:"ad_copy"`
	Keywords       string   `json:"keywords,omitempty"`
}

// Row is one record of an uploaded tabular file, keyed by column name.
// The file itself is parsed by an external collaborator; the engine only
// ever sees rows of named text fields.
type Row map[string]string

// IngestResult is the outcome of validating one uploaded table.
type IngestResult struct {
	ValidDrafts []CampaignDraft `json:"valid_drafts"`
	Rejected    []RowError      `json:"rejected"`
}
