package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AnalysisRun is a persisted analysis of one dataset under one filter state.
// Filter and Summary hold the JSON encodings produced by the caller.
type AnalysisRun struct {
	ID           string
	Sequence     int64
	CreatedAt    time.Time
	Source       string
	Fingerprint  string
	Filter       json.RawMessage
	Summary      json.RawMessage
	TotalItems   int
	FlaggedCount int
}

// RunRepo manages persisted analysis runs.
type RunRepo interface {
	// Save stores a run, assigning ID, Sequence and CreatedAt when unset.
	Save(ctx context.Context, run *AnalysisRun) error

	// Get returns the run whose ID equals or starts with idPrefix, or nil if
	// none match. An ambiguous prefix is an error.
	Get(ctx context.Context, idPrefix string) (*AnalysisRun, error)

	// List returns runs newest first.
	List(ctx context.Context, opts QueryOpts) ([]AnalysisRun, error)

	// ByFingerprint returns runs of the same dataset, newest first.
	ByFingerprint(ctx context.Context, fingerprint string) ([]AnalysisRun, error)

	// Prune deletes all but the N most recent runs.
	Prune(ctx context.Context, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a recorded LLM request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for a group of requests.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
