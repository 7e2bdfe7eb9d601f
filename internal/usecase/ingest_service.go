package usecase

import (
	"context"
	"strconv"
	"strings"

	"adwise/internal/domain"
	"adwise/pkg/logger"
	"adwise/pkg/metrics"
)

// requiredColumns are the row fields a bulk upload must carry.
// keywords is optional and absent from this list.
var requiredColumns = []string{
	"campaign_name",
	"platform",
	"impressions",
	"clicks",
	"conversions",
	"spend",
	"revenue",
	"target_audience",
	"ad_copy",
}

// IngestService validates uploaded campaign tables and submits the valid
// drafts to the upstream repository.
type IngestService struct {
	repo    domain.CampaignRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewIngestService(
	repo domain.CampaignRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *IngestService {
	return &IngestService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// ParseAndValidate maps a table's rows into campaign drafts. It is total and
// side-effect free: a row failing any rule lands in Rejected with a reason
// code and the rest of the batch is unaffected. Numeric coercion happens
// here, once, and never downstream.
func (s *IngestService) ParseAndValidate(rows []domain.Row) domain.IngestResult {
	result := domain.IngestResult{}

	for i, row := range rows {
		draft, rowErr := validateRow(i, row)
		if rowErr != nil {
			result.Rejected = append(result.Rejected, *rowErr)
			s.metrics.RecordIngestRejection(string(rowErr.Reason))
			continue
		}
		result.ValidDrafts = append(result.ValidDrafts, draft)
	}

	s.metrics.RecordIngestRows("valid", len(result.ValidDrafts))
	s.metrics.RecordIngestRows("rejected", len(result.Rejected))

	return result
}

// validateRow checks one row against the ingestion contract and coerces it
// into a draft. The first violated rule wins.
func validateRow(index int, row domain.Row) (domain.CampaignDraft, *domain.RowError) {
	fields := make(map[string]string, len(row))
	for name, value := range row {
		fields[name] = strings.TrimSpace(value)
	}

	for _, column := range requiredColumns {
		if fields[column] == "" {
			return domain.CampaignDraft{}, &domain.RowError{
				Row:    index,
				Field:  column,
				Reason: domain.ReasonMissingField,
			}
		}
	}

	platform, ok := domain.ParsePlatform(fields["platform"])
	if !ok {
		return domain.CampaignDraft{}, &domain.RowError{
			Row:    index,
			Field:  "platform",
			Reason: domain.ReasonUnknownPlatform,
			Value:  fields["platform"],
		}
	}

	draft := domain.CampaignDraft{
		Name:           fields["campaign_name"],
		Platform:       platform,
		TargetAudience: fields["target_audience"],
		AdCopy:         fields["ad_copy"],
		Keywords:       fields["keywords"],
	}

	counters := []struct {
		column string
		dest   *int
	}{
		{"impressions", &draft.Impressions},
		{"clicks", &draft.Clicks},
		{"conversions", &draft.Conversions},
	}
	for _, c := range counters {
		value, err := strconv.Atoi(fields[c.column])
		if err != nil || value < 0 {
			return domain.CampaignDraft{}, &domain.RowError{
				Row:    index,
				Field:  c.column,
				Reason: domain.ReasonInvalidNumber,
				Value:  fields[c.column],
			}
		}
		*c.dest = value
	}

	amounts := []struct {
		column string
		dest   *float64
	}{
		{"spend", &draft.Spend},
		{"revenue", &draft.Revenue},
	}
	for _, a := range amounts {
		value, err := strconv.ParseFloat(fields[a.column], 64)
		if err != nil || value < 0 {
			return domain.CampaignDraft{}, &domain.RowError{
				Row:    index,
				Field:  a.column,
				Reason: domain.ReasonInvalidNumber,
				Value:  fields[a.column],
			}
		}
		*a.dest = value
	}

	return draft, nil
}

// UploadResult reports one bulk upload run.
type UploadResult struct {
	Created  []domain.Campaign `json:"created"`
	Rejected []domain.RowError `json:"rejected"`
	// FailedCreates counts valid drafts the upstream refused or that hit a
	// transport failure. The batch is never aborted by a single failure.
	FailedCreates int `json:"failed_creates"`
}

// UploadCampaigns validates the table and submits each valid draft upstream,
// sequentially. Per-draft create failures are logged and counted; the rest of
// the batch proceeds. There is no atomicity across the batch.
func (s *IngestService) UploadCampaigns(ctx context.Context, rows []domain.Row) UploadResult {
	log := s.logger.WithContext(ctx)
	log.WithField("rows", len(rows)).Info("Starting bulk campaign upload")

	validated := s.ParseAndValidate(rows)
	result := UploadResult{Rejected: validated.Rejected}

	for _, draft := range validated.ValidDrafts {
		campaign, err := s.repo.CreateCampaign(ctx, draft)
		if err != nil {
			result.FailedCreates++
			log.WithError(err).WithField("campaign_name", draft.Name).
				Warn("Campaign creation failed, continuing batch")
			continue
		}
		result.Created = append(result.Created, campaign)
	}

	log.WithFields(map[string]any{
		"created":        len(result.Created),
		"rejected":       len(result.Rejected),
		"failed_creates": result.FailedCreates,
	}).Info("Bulk campaign upload completed")

	return result
}
