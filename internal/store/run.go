package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const (
	columnID        = "id"
	columnSequence  = "sequence"
	columnTimestamp = "timestamp"
)

var runColumns = []string{
	columnID, columnSequence, columnTimestamp, "source", "fingerprint",
	"filter", "summary", "total_items", "flagged_count",
}

type runRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *runRepo) Save(ctx context.Context, run *AnalysisRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	run.Sequence = seqNum

	insert := builder.Insert(AnalysisRunsTable.Name).
		Columns(runColumns...).
		Values(run.ID, run.Sequence, run.CreatedAt, run.Source, run.Fingerprint,
			string(run.Filter), string(run.Summary), run.TotalItems, run.FlaggedCount)
	if err := execQuery(ctx, r.drv, insert); err != nil {
		return fmt.Errorf("save analysis run: %w", err)
	}
	return nil
}

func (r *runRepo) Get(ctx context.Context, idPrefix string) (*AnalysisRun, error) {
	sel := r.selectRuns().
		Where(entsql.Or(entsql.EQ(columnID, idPrefix), entsql.HasPrefix(columnID, idPrefix))).
		OrderBy(entsql.Desc(columnSequence)).
		Limit(2)
	runs, err := r.scan(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query analysis run: %w", err)
	}

	switch len(runs) {
	case 0:
		return nil, nil
	case 1:
		return &runs[0], nil
	}
	for i := range runs {
		if runs[i].ID == idPrefix {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("run id prefix %q is ambiguous", idPrefix)
}

func (r *runRepo) List(ctx context.Context, opts QueryOpts) ([]AnalysisRun, error) {
	runs, err := r.scan(ctx, newestFirst(r.selectRuns(), opts))
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	return runs, nil
}

func (r *runRepo) ByFingerprint(ctx context.Context, fingerprint string) ([]AnalysisRun, error) {
	sel := r.selectRuns().
		Where(entsql.EQ("fingerprint", fingerprint)).
		OrderBy(entsql.Desc(columnSequence))
	runs, err := r.scan(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query runs by fingerprint: %w", err)
	}
	return runs, nil
}

func (r *runRepo) Prune(ctx context.Context, keep int) error {
	recent := builder.Select(columnID).
		From(builder.Table(AnalysisRunsTable.Name)).
		OrderBy(entsql.Desc(columnSequence)).
		Limit(max(keep, 0))
	del := builder.Delete(AnalysisRunsTable.Name).
		Where(entsql.NotIn(columnID, recent))
	if err := execQuery(ctx, r.drv, del); err != nil {
		return fmt.Errorf("prune analysis runs: %w", err)
	}
	return nil
}

func (r *runRepo) selectRuns() *entsql.Selector {
	return builder.Select(runColumns...).From(builder.Table(AnalysisRunsTable.Name))
}

func (r *runRepo) scan(ctx context.Context, sel *entsql.Selector) ([]AnalysisRun, error) {
	var runs []AnalysisRun
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			run             AnalysisRun
			filter, summary []byte
		)
		if err := rows.Scan(&run.ID, &run.Sequence, &run.CreatedAt, &run.Source, &run.Fingerprint,
			&filter, &summary, &run.TotalItems, &run.FlaggedCount); err != nil {
			return fmt.Errorf("scan analysis run: %w", err)
		}
		run.CreatedAt = run.CreatedAt.UTC()
		run.Filter = filter
		run.Summary = summary
		runs = append(runs, run)
		return nil
	})
	return runs, err
}
