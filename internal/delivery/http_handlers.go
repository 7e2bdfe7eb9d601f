package delivery

import (
	"errors"
	"net/http"

	"adwise/internal/domain"
	"adwise/internal/infrastructure"
	"adwise/internal/usecase"
	"adwise/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HTTPHandlers exposes the analytics engine over HTTP.
type HTTPHandlers struct {
	campaigns *usecase.CampaignService
	ingest    *usecase.IngestService
	analysis  *usecase.AnalysisService
	logger    *logger.Logger

	maxUploadSize int64
	maxRows       int
}

func NewHTTPHandlers(
	campaigns *usecase.CampaignService,
	ingest *usecase.IngestService,
	analysis *usecase.AnalysisService,
	logger *logger.Logger,
	maxUploadSize int64,
	maxRows int,
) *HTTPHandlers {
	return &HTTPHandlers{
		campaigns:     campaigns,
		ingest:        ingest,
		analysis:      analysis,
		logger:        logger,
		maxUploadSize: maxUploadSize,
		maxRows:       maxRows,
	}
}

// CreateCampaign submits a single campaign draft.
func (h *HTTPHandlers) CreateCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	var draft domain.CampaignDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	campaign, err := h.campaigns.Create(ctx, draft)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "Campaign draft rejected",
				"field":      validationErr.Field,
				"message":    validationErr.Reason,
				"request_id": requestID,
			})
			return
		}

		h.logger.WithContext(ctx).WithError(err).Error("Failed to create campaign")
		c.JSON(upstreamStatus(err), gin.H{
			"error":      "Failed to create campaign",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// ListCampaigns returns every campaign with derived metrics and, when
// available, the cached latest analysis.
func (h *HTTPHandlers) ListCampaigns(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	projected, err := h.campaigns.ListWithMetrics(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list campaigns")
		c.JSON(upstreamStatus(err), gin.H{
			"error":      "Failed to list campaigns",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	type campaignView struct {
		domain.CampaignMetrics
		LatestAnalysis *domain.Analysis `json:"latest_analysis,omitempty"`
		ScoreTier      domain.ScoreTier `json:"score_tier,omitempty"`
	}

	views := make([]campaignView, len(projected))
	for i, p := range projected {
		views[i] = campaignView{CampaignMetrics: p}
		if analysis, ok := h.analysis.Latest(p.Campaign.ID); ok {
			views[i].LatestAnalysis = &analysis
			views[i].ScoreTier = domain.ClassifyScore(analysis.OverallScore)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       views,
		"total":      len(views),
		"request_id": requestID,
	})
}

// GetCampaign returns one campaign with its derived metrics.
func (h *HTTPHandlers) GetCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")
	id := c.Param("id")

	campaign, err := h.campaigns.Get(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to fetch campaign")
		c.JSON(upstreamStatus(err), gin.H{
			"error":      "Failed to fetch campaign",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaign":   campaign,
		"metrics":    domain.ComputeMetrics(campaign),
		"request_id": requestID,
	})
}

// AnalyzeCampaign requests a fresh AI analysis for one campaign.
func (h *HTTPHandlers) AnalyzeCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")
	id := c.Param("id")

	analysis, err := h.analysis.AnalyzeOne(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).WithField("campaign_id", id).
			Error("Campaign analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Analysis failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis":   analysis,
		"score_tier": domain.ClassifyScore(analysis.OverallScore),
		"request_id": requestID,
	})
}

// BulkAnalyze triggers analysis for stale campaigns and reconciles the
// latest-analysis cache for every known campaign.
func (h *HTTPHandlers) BulkAnalyze(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	campaigns, err := h.campaigns.List(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to hydrate campaigns for bulk analysis")
		c.JSON(upstreamStatus(err), gin.H{
			"error":      "Failed to list campaigns",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	result, err := h.analysis.AnalyzeAll(ctx, campaigns)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Bulk analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Bulk analysis failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"created":    result.Created,
		"refreshed":  result.Refreshed,
		"failed":     len(result.Failed),
		"request_id": requestID,
	})
}

// BulkUpload ingests campaigns from an uploaded CSV file.
func (h *HTTPHandlers) BulkUpload(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Missing file",
			"message":    "multipart field 'file' is required",
			"request_id": requestID,
		})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":      "File too large",
			"request_id": requestID,
		})
		return
	}

	source := infrastructure.NewCSVSource(file, h.maxRows)
	rows, err := source.Rows()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Failed to parse file",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	result := h.ingest.UploadCampaigns(ctx, rows)

	c.JSON(http.StatusOK, gin.H{
		"created":        len(result.Created),
		"rejected":       result.Rejected,
		"failed_creates": result.FailedCreates,
		"campaigns":      result.Created,
		"request_id":     requestID,
	})
}

// GetDashboardSummary proxies the upstream aggregate projection.
func (h *HTTPHandlers) GetDashboardSummary(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	summary, err := h.campaigns.Summary(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to fetch dashboard summary")
		c.JSON(upstreamStatus(err), gin.H{
			"error":      "Failed to fetch summary",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// HealthCheck returns the health status of the service.
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "adwise",
		"request_id": c.GetString("request_id"),
	})
}

// upstreamStatus maps repository errors onto response codes: connectivity
// failures surface as 502, everything else as 500.
func upstreamStatus(err error) int {
	var transportErr *domain.TransportError
	if errors.As(err, &transportErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
