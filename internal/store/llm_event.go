package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the llm_request_events table
// and the global sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

var llmEventColumns = []string{
	columnID, columnSequence, columnTimestamp, "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	insert := builder.Insert(LlmRequestEventsTable.Name).
		Columns(llmEventColumns[1:]...).
		Values(seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody)
	if err := execQuery(ctx, r.drv, insert); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	events, err := r.scan(ctx, newestFirst(r.selectEvents(), opts))
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	events, err := r.scan(ctx, r.selectEvents().Where(entsql.EQ(columnID, id)))
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "purpose", func(u *LLMUsage, key string) { u.Purpose = key })
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "model", func(u *LLMUsage, key string) { u.Model = key })
}

func (r *eventRepo) usage(ctx context.Context, column string, setKey func(*LLMUsage, string)) ([]LLMUsage, error) {
	sel := builder.Select(
		column,
		entsql.Count("*"),
		coalesceZero(entsql.Sum("input_tokens")),
		coalesceZero(entsql.Sum("output_tokens")),
		"CAST("+coalesceZero(entsql.Avg("latency_ms"))+" AS INTEGER)",
	).
		From(builder.Table(LlmRequestEventsTable.Name)).
		GroupBy(column).
		OrderBy(column)

	var out []LLMUsage
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			u   LLMUsage
			key string
		)
		if err := rows.Scan(&key, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return fmt.Errorf("scan LLM usage: %w", err)
		}
		setKey(&u, key)
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	return out, nil
}

func coalesceZero(expr string) string {
	return "COALESCE(" + expr + ", 0)"
}

func (r *eventRepo) selectEvents() *entsql.Selector {
	return builder.Select(llmEventColumns...).From(builder.Table(LlmRequestEventsTable.Name))
}

func (r *eventRepo) scan(ctx context.Context, sel *entsql.Selector) ([]LLMRequestEvent, error) {
	var events []LLMRequestEvent
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var e LLMRequestEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
			&e.RequestBody, &e.ResponseBody); err != nil {
			return fmt.Errorf("scan LLM event: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		events = append(events, e)
		return nil
	})
	return events, err
}
