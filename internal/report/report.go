// Package report renders a markdown grading analysis report.
package report

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/abhisek/gradelens/internal/analytics"
	"github.com/abhisek/gradelens/internal/grading"
	"github.com/abhisek/gradelens/internal/narrative"
)

// DefaultTitle is used when no title is configured.
const DefaultTitle = "Grading Analysis Report"

//go:embed report.md.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"interpret": analytics.Interpret,
	"cell":      cell,
}).Parse(reportTemplate))

// Report is the data behind one rendered report.
type Report struct {
	Title       string
	Generated   time.Time
	Source      string
	Filter      string
	Summary     analytics.Summary
	BlandAltman analytics.BlandAltmanResult
	Students    []analytics.StudentStats
	Narrative   *narrative.Narrative
}

// New computes the statistics of records and attaches the rule-based
// narrative. Callers may replace Narrative before rendering.
func New(title, source, filter string, records []grading.DerivedRecord, now time.Time) *Report {
	if title == "" {
		title = DefaultTitle
	}
	s := analytics.Summarize(records)
	return &Report{
		Title:       title,
		Generated:   now,
		Source:      source,
		Filter:      filter,
		Summary:     s,
		BlandAltman: analytics.BlandAltman(records),
		Students:    analytics.ByStudent(records),
		Narrative:   narrative.Rules(s),
	}
}

// NarrativeInput returns the material an LLM narrative is written from.
func (r *Report) NarrativeInput() narrative.Input {
	return narrative.Input{
		Title:       r.Title,
		Filter:      r.Filter,
		Summary:     r.Summary,
		Students:    r.Students,
		BlandAltman: r.BlandAltman,
	}
}

// Render writes the markdown report to w.
func (r *Report) Render(w io.Writer) error {
	if err := tmpl.Execute(w, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
