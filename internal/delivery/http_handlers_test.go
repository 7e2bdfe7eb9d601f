package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adwise/internal/domain"
	"adwise/internal/usecase"
	"adwise/pkg/logger"
	"adwise/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routerRepo implements domain.CampaignRepository for handler tests.
type routerRepo struct {
	campaigns []domain.Campaign
	bulkErr   error
}

func (r *routerRepo) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return r.campaigns, nil
}

func (r *routerRepo) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	for _, c := range r.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Campaign{}, errors.New("not found")
}

func (r *routerRepo) CreateCampaign(ctx context.Context, draft domain.CampaignDraft) (domain.Campaign, error) {
	campaign := domain.Campaign{
		ID:          "created-1",
		Name:        draft.Name,
		Platform:    draft.Platform,
		Impressions: draft.Impressions,
		Clicks:      draft.Clicks,
		Conversions: draft.Conversions,
		Spend:       draft.Spend,
		Revenue:     draft.Revenue,
	}
	r.campaigns = append(r.campaigns, campaign)
	return campaign, nil
}

func (r *routerRepo) LatestAnalysis(ctx context.Context, campaignID string) (domain.Analysis, bool, error) {
	return domain.Analysis{ID: "latest", CampaignID: campaignID, OverallScore: 81}, true, nil
}

func (r *routerRepo) RequestAnalysis(ctx context.Context, campaignID string) (domain.Analysis, error) {
	return domain.Analysis{ID: "fresh", CampaignID: campaignID, OverallScore: 64}, nil
}

func (r *routerRepo) RequestBulkAnalysis(ctx context.Context) ([]domain.Analysis, error) {
	if r.bulkErr != nil {
		return nil, r.bulkErr
	}
	return []domain.Analysis{{ID: "b1", CampaignID: "c1"}}, nil
}

func (r *routerRepo) DashboardSummary(ctx context.Context) (domain.DashboardSummary, error) {
	return domain.DashboardSummary{TotalCampaigns: len(r.campaigns)}, nil
}

func newTestRouter(t *testing.T, repo *routerRepo) http.Handler {
	t.Helper()

	log := logger.New("error")
	m := metrics.NewWith(prometheus.NewRegistry())

	campaignService := usecase.NewCampaignService(repo, log, m)
	ingestService := usecase.NewIngestService(repo, log, m)
	analysisService := usecase.NewAnalysisService(repo, log, m)

	handlers := NewHTTPHandlers(campaignService, ingestService, analysisService, log, 1<<20, 100)
	return NewHTTPRouter(handlers, log, m).SetupRoutes()
}

func TestCreateCampaignEndpoint(t *testing.T) {
	router := newTestRouter(t, &routerRepo{})

	body, _ := json.Marshal(domain.CampaignDraft{
		Name:           "Launch",
		Platform:       domain.PlatformGoogleAds,
		Impressions:    100,
		Clicks:         10,
		Conversions:    1,
		Spend:          50,
		Revenue:        120,
		TargetAudience: "founders",
		AdCopy:         "Try it",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.Campaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "created-1", created.ID)
}

func TestCreateCampaignEndpointRejectsInvalidDraft(t *testing.T) {
	router := newTestRouter(t, &routerRepo{})

	body, _ := json.Marshal(domain.CampaignDraft{Name: "", Platform: domain.PlatformGoogleAds})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "campaign_name")
}

func TestBulkAnalyzeEndpoint(t *testing.T) {
	repo := &routerRepo{campaigns: []domain.Campaign{{ID: "c1"}, {ID: "c2"}}}
	router := newTestRouter(t, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/bulk-analyze", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Created   int `json:"created"`
		Refreshed int `json:"refreshed"`
		Failed    int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 2, resp.Refreshed)
	assert.Zero(t, resp.Failed)
}

func TestBulkUploadEndpoint(t *testing.T) {
	repo := &routerRepo{}
	router := newTestRouter(t, repo)

	csv := strings.Join([]string{
		"campaign_name,platform,impressions,clicks,conversions,spend,revenue,target_audience,ad_copy,keywords",
		"Good One,Google Ads,1000,50,5,100,300,founders,Buy now,saas",
		"Bad One,Smoke Signals,1000,50,5,100,300,founders,Buy now,",
	}, "\n")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "campaigns.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/bulk-upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Created  int               `json:"created"`
		Rejected []domain.RowError `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Created)
	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, domain.ReasonUnknownPlatform, resp.Rejected[0].Reason)
	require.Len(t, repo.campaigns, 1)
	assert.Equal(t, "Good One", repo.campaigns[0].Name)
}

func TestListCampaignsEndpointAttachesMetricsAndTier(t *testing.T) {
	repo := &routerRepo{campaigns: []domain.Campaign{
		{ID: "c1", Impressions: 1000, Clicks: 100, Conversions: 10, Spend: 100, Revenue: 300},
	}}
	router := newTestRouter(t, repo)

	// Warm the analysis cache through the single-campaign path.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/c1/analyze", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Metrics        domain.DerivedMetrics `json:"metrics"`
			LatestAnalysis *domain.Analysis      `json:"latest_analysis"`
			ScoreTier      domain.ScoreTier      `json:"score_tier"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.InDelta(t, 10.0, resp.Data[0].Metrics.CTR, 1e-9)
	require.NotNil(t, resp.Data[0].LatestAnalysis)
	assert.Equal(t, domain.TierMedium, resp.Data[0].ScoreTier)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &routerRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
