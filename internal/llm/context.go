package llm

import "context"

// Request purposes recorded in the event log.
const (
	PurposeNarrative = "report-narrative"
	PurposeUnknown   = "unknown"
)

type purposeKey struct{}

// WithPurpose labels the LLM requests made under ctx. An empty purpose
// keeps any label already set.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return PurposeUnknown
}
