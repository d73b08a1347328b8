package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/google/go-cmp/cmp"

	entschema "github.com/abhisek/gradelens/ent/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked with a file-based DB below.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileStoreUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradelens.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if seq <= prev {
			t.Errorf("sequence %d not greater than %d", seq, prev)
		}
		prev = seq
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("GRADELENS_DB", filepath.Join(dir, "custom", "db.sqlite"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if p != filepath.Join(dir, "custom", "db.sqlite") {
		t.Errorf("path = %q", p)
	}
	if _, err := os.Stat(filepath.Join(dir, "custom")); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}

	t.Setenv("GRADELENS_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "gradelens", "gradelens.db"); p != want {
		t.Errorf("path = %q, want %q", p, want)
	}
}

func TestRunSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	run := &AnalysisRun{
		Source:       "grades.csv",
		Fingerprint:  "abc123",
		Filter:       json.RawMessage(`{"questions":["Q1"]}`),
		Summary:      json.RawMessage(`{"total_items":3,"pearson_r":"NaN"}`),
		TotalItems:   3,
		FlaggedCount: 1,
	}
	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}
	if run.ID == "" || run.Sequence == 0 || run.CreatedAt.IsZero() {
		t.Fatalf("save did not assign identity: %+v", run)
	}

	got, err := repo.Get(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected run by prefix")
	}
	if got.ID != run.ID || got.Source != "grades.csv" || got.TotalItems != 3 || got.FlaggedCount != 1 {
		t.Errorf("got %+v", got)
	}
	if string(got.Summary) != string(run.Summary) {
		t.Errorf("summary = %s, want %s", got.Summary, run.Summary)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, run.CreatedAt)
	}

	missing, err := repo.Get(ctx, "does-not-exist")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}
}

func TestRunGetAmbiguousPrefix(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	for _, id := range []string{"aaaa-1", "aaaa-2"} {
		if err := repo.Save(ctx, &AnalysisRun{ID: id, Filter: json.RawMessage(`{}`), Summary: json.RawMessage(`{}`)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if _, err := repo.Get(ctx, "aaaa"); err == nil {
		t.Error("expected ambiguity error")
	}
	got, err := repo.Get(ctx, "aaaa-2")
	if err != nil || got == nil || got.ID != "aaaa-2" {
		t.Errorf("exact get = %+v, %v", got, err)
	}
}

func TestRunListAndPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		fp := "even"
		if i%2 == 1 {
			fp = "odd"
		}
		err := repo.Save(ctx, &AnalysisRun{
			Source:      "grades.csv",
			Fingerprint: fp,
			Filter:      json.RawMessage(`{}`),
			Summary:     json.RawMessage(`{}`),
			TotalItems:  i,
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	runs, err := repo.List(ctx, QueryOpts{Limit: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len = %d, want 3", len(runs))
	}
	if runs[0].TotalItems != 6 || runs[2].TotalItems != 4 {
		t.Errorf("not newest first: %d, %d", runs[0].TotalItems, runs[2].TotalItems)
	}

	odd, err := repo.ByFingerprint(ctx, "odd")
	if err != nil {
		t.Fatalf("by fingerprint: %v", err)
	}
	if len(odd) != 3 {
		t.Errorf("odd runs = %d, want 3", len(odd))
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("remaining runs = %d, want 5", len(all))
	}
	if all[0].TotalItems != 6 {
		t.Errorf("latest run total_items = %d, want 6", all[0].TotalItems)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "report-narrative", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "[user]\nhi", ResponseBody: `{"headline":"ok"}`},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "report-narrative", InputTokens: 300, OutputTokens: 70, LatencyMs: 400, Success: false, ErrorMessage: "rate limited"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "other", InputTokens: 10, OutputTokens: 5, LatencyMs: 60, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Model != "gpt-4o-mini" {
		t.Errorf("expected newest first, got %s", got[0].Model)
	}

	first, err := repo.GetLLMEvent(ctx, got[1].ID-1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first == nil || first.ResponseBody != `{"headline":"ok"}` || !first.Success {
		t.Errorf("unexpected event: %+v", first)
	}

	none, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || none != nil {
		t.Errorf("GetLLMEvent(9999) = %+v, %v", none, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	rn := byPurpose[1]
	if rn.Purpose != "report-narrative" || rn.Calls != 2 || rn.InputTokens != 400 || rn.OutputTokens != 120 || rn.AvgLatencyMs != 300 {
		t.Errorf("report-narrative usage = %+v", rn)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "claude-haiku-4-5" {
		t.Errorf("usage by model = %+v", byModel)
	}
}

type entType interface {
	Mixin() []ent.Mixin
	Fields() []ent.Field
}

type columnShape struct {
	Name string
	Type field.Type
}

func schemaShape(t entType, implicitID bool) []columnShape {
	var out []columnShape
	if implicitID {
		out = append(out, columnShape{"id", field.TypeInt})
	}
	var fields []ent.Field
	for _, m := range t.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	for _, f := range append(fields, t.Fields()...) {
		d := f.Descriptor()
		out = append(out, columnShape{d.Name, d.Info.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func tableShape(tbl *schema.Table) []columnShape {
	var out []columnShape
	for _, c := range tbl.Columns {
		out = append(out, columnShape{c.Name, c.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func TestTablesMatchEntSchema(t *testing.T) {
	tests := []struct {
		table      *schema.Table
		schema     entType
		implicitID bool
	}{
		{AnalysisRunsTable, entschema.AnalysisRun{}, false},
		{LlmRequestEventsTable, entschema.LLMRequestEvent{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			if diff := cmp.Diff(schemaShape(tt.schema, tt.implicitID), tableShape(tt.table)); diff != "" {
				t.Errorf("columns differ from ent schema (-schema +table):\n%s", diff)
			}
		})
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradelens.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	run := &AnalysisRun{Source: "grades.csv", Filter: json.RawMessage(`{}`), Summary: json.RawMessage(`{}`)}
	if err := s.RunRepo().Save(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	// Migration must be idempotent against an existing database.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.RunRepo().Get(ctx, run.ID)
	if err != nil || got == nil {
		t.Fatalf("get after reopen = %+v, %v", got, err)
	}
	next := &AnalysisRun{Filter: json.RawMessage(`{}`), Summary: json.RawMessage(`{}`)}
	if err := s.RunRepo().Save(ctx, next); err != nil {
		t.Fatalf("save after reopen: %v", err)
	}
	if next.Sequence <= run.Sequence {
		t.Errorf("sequence restarted: %d after %d", next.Sequence, run.Sequence)
	}
}

func TestQueryOptsBounds(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var seqs []int64
	for i := range 4 {
		run := &AnalysisRun{
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			Filter:     json.RawMessage(`{}`),
			Summary:    json.RawMessage(`{}`),
			TotalItems: i,
		}
		if err := repo.Save(ctx, run); err != nil {
			t.Fatalf("save: %v", err)
		}
		seqs = append(seqs, run.Sequence)
	}

	items := func(runs []AnalysisRun) []int {
		var out []int
		for _, r := range runs {
			out = append(out, r.TotalItems)
		}
		return out
	}

	tests := []struct {
		name string
		opts QueryOpts
		want []int
	}{
		{"after", QueryOpts{After: seqs[1]}, []int{3, 2}},
		{"before", QueryOpts{Before: seqs[1]}, []int{0}},
		{"time window", QueryOpts{From: base.Add(time.Hour), To: base.Add(2 * time.Hour)}, []int{2, 1}},
		{"limit with bound", QueryOpts{After: seqs[0], Limit: 1}, []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := repo.List(ctx, tt.opts)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if diff := cmp.Diff(tt.want, items(runs)); diff != "" {
				t.Errorf("runs (-want +got):\n%s", diff)
			}
		})
	}
}
