package store

import (
	"context"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var builder = entsql.Dialect(dialect.SQLite)

// boundsPredicate renders the sequence and time bounds of opts, or nil
// when opts has none.
func boundsPredicate(opts QueryOpts) *entsql.Predicate {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(columnSequence, opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(columnSequence, opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(columnTimestamp, opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(columnTimestamp, opts.To.UTC()))
	}
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	}
	return entsql.And(preds...)
}

// newestFirst applies opts to sel and orders it by descending sequence.
func newestFirst(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if p := boundsPredicate(opts); p != nil {
		sel.Where(p)
	}
	sel.OrderBy(entsql.Desc(columnSequence))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

// queryRows runs q and hands each row to scan.
func queryRows(ctx context.Context, drv *entsql.Driver, q entsql.Querier, scan func(*entsql.Rows) error) error {
	query, args := q.Query()
	rows := &entsql.Rows{}
	if err := drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func execQuery(ctx context.Context, drv *entsql.Driver, q entsql.Querier) error {
	query, args := q.Query()
	return drv.Exec(ctx, query, args, nil)
}
