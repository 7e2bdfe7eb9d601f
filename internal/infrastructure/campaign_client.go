package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adwise/internal/domain"
	"adwise/pkg/logger"
	"adwise/pkg/metrics"

	"golang.org/x/time/rate"
)

// CampaignClient implements domain.CampaignRepository against the campaign
// platform HTTP API.
type CampaignClient struct {
	client         *http.Client
	analysisClient *http.Client
	baseURL        string
	logger         *logger.Logger
	metrics        *metrics.Metrics
	rateLimiter    *rate.Limiter
}

// ClientOptions configures the upstream client.
type ClientOptions struct {
	BaseURL string
	// Timeout bounds ordinary calls; AnalysisTimeout bounds the long-running
	// analyze and bulk-analyze calls.
	Timeout            time.Duration
	AnalysisTimeout    time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
}

func NewCampaignClient(opts ClientOptions, logger *logger.Logger, metrics *metrics.Metrics) *CampaignClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &CampaignClient{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		analysisClient: &http.Client{
			Timeout:   opts.AnalysisTimeout,
			Transport: transport,
		},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RateLimitPerSecond), opts.RateLimitBurst),
	}
}

// ListCampaigns fetches every stored campaign. Ordering is the upstream's.
func (c *CampaignClient) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	if err := c.getJSON(ctx, "list_campaigns", "/api/campaigns", &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetCampaign fetches one campaign by ID.
func (c *CampaignClient) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	var campaign domain.Campaign
	if err := c.getJSON(ctx, "get_campaign", "/api/campaigns/"+id, &campaign); err != nil {
		return domain.Campaign{}, err
	}
	return campaign, nil
}

// CreateCampaign submits a draft and returns the persisted campaign with its
// assigned ID. An upstream rejection of the shape maps to ValidationError.
func (c *CampaignClient) CreateCampaign(ctx context.Context, draft domain.CampaignDraft) (domain.Campaign, error) {
	const op = "create_campaign"
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordUpstreamFailure(op, "rate_limit")
		return domain.Campaign{}, fmt.Errorf("rate limit exceeded: %w", err)
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		c.metrics.RecordUpstreamFailure(op, "json_marshal")
		return domain.Campaign{}, fmt.Errorf("failed to marshal campaign draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/campaigns", bytes.NewReader(payload))
	if err != nil {
		c.metrics.RecordUpstreamFailure(op, "request_creation")
		return domain.Campaign{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamFailure(op, "network_error")
		return domain.Campaign{}, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity {
		c.metrics.RecordUpstreamCall(op, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return domain.Campaign{}, &domain.ValidationError{
			Field:  "draft",
			Reason: readErrorDetail(resp.Body),
		}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.metrics.RecordUpstreamCall(op, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return domain.Campaign{}, fmt.Errorf("campaign API returned status %d", resp.StatusCode)
	}

	var campaign domain.Campaign
	if err := json.NewDecoder(resp.Body).Decode(&campaign); err != nil {
		c.metrics.RecordUpstreamFailure(op, "json_parse")
		return domain.Campaign{}, fmt.Errorf("failed to parse campaign: %w", err)
	}

	c.metrics.RecordUpstreamCall(op, "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"campaign_id": campaign.ID,
		"duration":    duration,
	}).Info("Campaign created upstream")

	return campaign, nil
}

// LatestAnalysis returns the most recent analysis for a campaign, or
// found=false if it has never been analyzed. The upstream returns the full
// history; the newest entry is picked by creation time rather than by
// sequence position, since the history's ordering is unspecified.
func (c *CampaignClient) LatestAnalysis(ctx context.Context, campaignID string) (domain.Analysis, bool, error) {
	var history []domain.Analysis
	if err := c.getJSON(ctx, "latest_analysis", "/api/campaigns/"+campaignID+"/analysis", &history); err != nil {
		return domain.Analysis{}, false, err
	}
	if len(history) == 0 {
		return domain.Analysis{}, false, nil
	}

	latest := history[0]
	for _, analysis := range history[1:] {
		if analysis.CreatedAt.After(latest.CreatedAt) {
			latest = analysis
		}
	}
	return latest, true, nil
}

// RequestAnalysis triggers a new AI analysis for one campaign. The call is
// long-running; failures map to AnalysisError.
func (c *CampaignClient) RequestAnalysis(ctx context.Context, campaignID string) (domain.Analysis, error) {
	const op = "request_analysis"
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordUpstreamFailure(op, "rate_limit")
		return domain.Analysis{}, fmt.Errorf("rate limit exceeded: %w", err)
	}

	url := c.baseURL + "/api/campaigns/" + campaignID + "/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		c.metrics.RecordUpstreamFailure(op, "request_creation")
		return domain.Analysis{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.analysisClient.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamFailure(op, "network_error")
		return domain.Analysis{}, &domain.AnalysisError{
			CampaignID: campaignID,
			Err:        &domain.TransportError{Op: op, Err: err},
		}
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordUpstreamCall(op, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return domain.Analysis{}, &domain.AnalysisError{
			CampaignID: campaignID,
			Err:        fmt.Errorf("analysis API returned status %d", resp.StatusCode),
		}
	}

	var analysis domain.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		c.metrics.RecordUpstreamFailure(op, "json_parse")
		return domain.Analysis{}, &domain.AnalysisError{
			CampaignID: campaignID,
			Err:        fmt.Errorf("failed to parse analysis: %w", err),
		}
	}

	c.metrics.RecordUpstreamCall(op, "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"campaign_id":   campaignID,
		"overall_score": analysis.OverallScore,
		"duration":      duration,
	}).Info("Analysis completed upstream")

	return analysis, nil
}

// RequestBulkAnalysis triggers analysis for every campaign the upstream
// considers stale and returns the newly created analyses.
func (c *CampaignClient) RequestBulkAnalysis(ctx context.Context) ([]domain.Analysis, error) {
	const op = "request_bulk_analysis"
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordUpstreamFailure(op, "rate_limit")
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/campaigns/bulk-analyze", nil)
	if err != nil {
		c.metrics.RecordUpstreamFailure(op, "request_creation")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.analysisClient.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamFailure(op, "network_error")
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordUpstreamCall(op, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return nil, &domain.AnalysisError{
			Err: fmt.Errorf("bulk analysis API returned status %d", resp.StatusCode),
		}
	}

	var body struct {
		Message  string            `json:"message"`
		Analyses []domain.Analysis `json:"analyses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.metrics.RecordUpstreamFailure(op, "json_parse")
		return nil, fmt.Errorf("failed to parse bulk analysis response: %w", err)
	}

	c.metrics.RecordUpstreamCall(op, "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"created":  len(body.Analyses),
		"duration": duration,
	}).Info("Bulk analysis completed upstream")

	return body.Analyses, nil
}

// DashboardSummary fetches the upstream's aggregate projection.
func (c *CampaignClient) DashboardSummary(ctx context.Context) (domain.DashboardSummary, error) {
	var summary domain.DashboardSummary
	if err := c.getJSON(ctx, "dashboard_summary", "/api/dashboard/summary", &summary); err != nil {
		return domain.DashboardSummary{}, err
	}
	return summary, nil
}

// getJSON performs a rate-limited, instrumented GET and decodes the body.
func (c *CampaignClient) getJSON(ctx context.Context, op, path string, out any) error {
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordUpstreamFailure(op, "rate_limit")
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		c.metrics.RecordUpstreamFailure(op, "request_creation")
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamFailure(op, "network_error")
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordUpstreamCall(op, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return fmt.Errorf("campaign API returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.RecordUpstreamFailure(op, "json_parse")
		return fmt.Errorf("failed to parse response for %s: %w", path, err)
	}

	c.metrics.RecordUpstreamCall(op, "success", duration)
	return nil
}

// readErrorDetail extracts the upstream's error message, falling back to the
// raw body.
func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "rejected by upstream"
	}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return string(raw)
}
