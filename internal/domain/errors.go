package domain

import "fmt"

// ValidationError reports a campaign draft that fails shape or range rules
// before or during submission. Recoverable; surfaced per record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid campaign draft: %s: %s", e.Field, e.Reason)
}

// TransportError reports a connectivity failure on a remote call. The caller
// may retry the whole action; the engine itself never retries.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AnalysisError reports a remote AI analysis call that failed.
type AnalysisError struct {
	CampaignID string
	Err        error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed for campaign %s: %v", e.CampaignID, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// RowReason codes why a bulk ingestion row was rejected.
type RowReason string

const (
	ReasonMissingField    RowReason = "missing_field"
	ReasonInvalidNumber   RowReason = "invalid_number"
	ReasonUnknownPlatform RowReason = "unknown_platform"
)

// RowError records one rejected row of a bulk upload. Row errors are
// accumulated by the validator, never raised.
type RowError struct {
	Row    int       `json:"row"`
	Field  string    `json:"field"`
	Reason RowReason `json:"reason"`
	Value  string    `json:"value,omitempty"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: field %s: %s", e.Row, e.Field, e.Reason)
}
