// Package loader reads grading tables from CSV or JSON and normalizes them
// into grading records.
package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/gradelens/internal/grading"
)

// Format is an input encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from a file extension. Anything that is
// not .json is read as CSV.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// Policy controls how malformed values are handled.
type Policy int

const (
	// PolicyLenient keeps every row. Unparsable numbers become NaN, empty
	// optional cells take their defaults, and duplicates are reported but
	// kept.
	PolicyLenient Policy = iota
	// PolicyStrict rejects the whole input with a *ValidationError when any
	// value is unparsable or out of range, or a (student, question) pair
	// repeats.
	PolicyStrict
)

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "lenient"
}

// Options configures a load.
type Options struct {
	Format Format
	Policy Policy
	Logger *slog.Logger
}

// Duplicate is a (student, question) pair that appears on more than one row.
type Duplicate struct {
	StudentID  string `json:"student_id"`
	QuestionID string `json:"question_id"`
	Rows       []int  `json:"rows"`
}

// Dataset is a loaded and normalized grading table.
type Dataset struct {
	Source      string
	Records     []grading.GradingRecord
	Columns     []string
	Duplicates  []Duplicate
	Warnings    []Issue
	Fingerprint string
}

// HasColumn reports whether the input carried the named column.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.Columns, name)
}

// LoadFile opens path and loads it. An empty opts.Format is inferred from
// the file extension.
func LoadFile(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if opts.Format == "" {
		opts.Format = FormatFromPath(path)
	}
	ds, err := Load(f, opts)
	if err != nil {
		return nil, err
	}
	ds.Source = path
	return ds, nil
}

// Load reads a grading table from r. Missing required fields yield a
// *SchemaError. Under PolicyStrict, bad values yield a *ValidationError.
func Load(r io.Reader, opts Options) (*Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		t   *table
		err error
	)
	switch opts.Format {
	case FormatJSON:
		t, err = readJSON(r)
	case FormatCSV, "":
		t, err = readCSV(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", opts.Format)
	}
	if err != nil {
		return nil, err
	}

	if missing := t.missingRequired(); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	p := &rowParser{policy: opts.Policy}
	records := make([]grading.GradingRecord, len(t.rows))
	for i, row := range t.rows {
		records[i] = p.parse(i+1, row)
	}

	dups := findDuplicates(records)
	if opts.Policy == PolicyStrict {
		for _, d := range dups {
			for _, row := range d.Rows[1:] {
				p.issues = append(p.issues, Issue{
					Row:    row,
					Field:  grading.FieldStudentID + "/" + grading.FieldQuestionID,
					Value:  d.StudentID + "/" + d.QuestionID,
					Reason: fmt.Sprintf("duplicate of row %d", d.Rows[0]),
				})
			}
		}
		if len(p.issues) > 0 {
			slices.SortStableFunc(p.issues, func(a, b Issue) int { return a.Row - b.Row })
			return nil, &ValidationError{Issues: p.issues}
		}
	}

	if len(p.issues) > 0 {
		logger.Warn("coerced malformed values", "count", len(p.issues), "first", p.issues[0].String())
	}
	if len(dups) > 0 {
		logger.Warn("duplicate student/question pairs", "count", len(dups))
	}

	return &Dataset{
		Records:     records,
		Columns:     t.columns,
		Duplicates:  dups,
		Warnings:    p.issues,
		Fingerprint: grading.Fingerprint(records),
	}, nil
}

// table is a decoded input: the column names present and one cell map per
// row. Cells absent from a row are missing from its map.
type table struct {
	columns []string
	rows    []map[string]string
}

func (t *table) missingRequired() []string {
	var missing []string
	for _, f := range grading.RequiredFields {
		if !slices.Contains(t.columns, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func readCSV(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	cr.FieldsPerRecord = len(header)

	t := &table{columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = rec[i]
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func readJSON(r io.Reader) (*table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	schema, err := compiledRowsSchema()
	if err != nil {
		return nil, fmt.Errorf("compile row schema: %w", err)
	}
	if verr := schema.Validate(doc); verr != nil {
		// Missing keys surface as a SchemaError; anything else is malformed input.
		if missing := missingJSONFields(doc); len(missing) > 0 {
			return nil, &SchemaError{Missing: missing}
		}
		return nil, fmt.Errorf("invalid json input: %w", verr)
	}

	items, _ := doc.([]any)
	t := &table{}
	seen := make(map[string]bool)
	for _, item := range items {
		obj, _ := item.(map[string]any)
		row := make(map[string]string, len(obj))
		for k, v := range obj {
			row[k] = jsonCell(v)
			if !seen[k] {
				seen[k] = true
				t.columns = append(t.columns, k)
			}
		}
		t.rows = append(t.rows, row)
	}
	slices.Sort(t.columns)
	if len(items) == 0 {
		// An empty array carries no columns; treat it as a valid empty table.
		t.columns = slices.Clone(grading.RequiredFields)
	}
	return t, nil
}

func missingJSONFields(doc any) []string {
	items, ok := doc.([]any)
	if !ok {
		return nil
	}
	var missing []string
	for _, f := range grading.RequiredFields {
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if _, ok := obj[f]; !ok {
				missing = append(missing, f)
				break
			}
		}
	}
	return missing
}

func jsonCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// rowParser converts cell maps to records and collects issues.
type rowParser struct {
	policy Policy
	issues []Issue
}

func (p *rowParser) parse(row int, cells map[string]string) grading.GradingRecord {
	rec := grading.GradingRecord{
		StudentID:  strings.TrimSpace(cells[grading.FieldStudentID]),
		QuestionID: strings.TrimSpace(cells[grading.FieldQuestionID]),
		TAScore:    p.number(row, cells, grading.FieldTAScore),
		LLMScore:   p.number(row, cells, grading.FieldLLMScore),
		MaxPoints:  p.number(row, cells, grading.FieldMaxPoints),
		Confidence: p.confidence(row, cells),
		Flags:      p.flags(row, cells),
	}

	if p.policy == PolicyStrict {
		if rec.StudentID == "" {
			p.add(row, grading.FieldStudentID, "", "empty identifier")
		}
		if rec.QuestionID == "" {
			p.add(row, grading.FieldQuestionID, "", "empty identifier")
		}
		if mp := rec.MaxPoints; !math.IsNaN(mp) && (math.IsInf(mp, 0) || mp <= 0) {
			p.add(row, grading.FieldMaxPoints, cells[grading.FieldMaxPoints], "must be a positive finite number")
		}
	}
	return rec
}

func (p *rowParser) add(row int, field, value, reason string) {
	p.issues = append(p.issues, Issue{Row: row, Field: field, Value: value, Reason: reason})
}

func (p *rowParser) number(row int, cells map[string]string, field string) float64 {
	raw := strings.TrimSpace(cells[field])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		reason := "not a number"
		if raw == "" {
			reason = "empty value"
		}
		p.add(row, field, raw, reason)
		return math.NaN()
	}
	return v
}

func (p *rowParser) confidence(row int, cells map[string]string) float64 {
	raw, ok := cells[grading.FieldConfidence]
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return grading.DefaultConfidence
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.add(row, grading.FieldConfidence, raw, "not a number")
		return math.NaN()
	}
	if p.policy == PolicyStrict && !(v >= 0 && v <= 1) {
		p.add(row, grading.FieldConfidence, raw, "must be within [0, 1]")
	}
	return v
}

func (p *rowParser) flags(row int, cells map[string]string) bool {
	raw, ok := cells[grading.FieldFlags]
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return grading.DefaultFlags
	}
	switch strings.ToLower(raw) {
	case "yes", "y":
		return true
	case "no", "n":
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.add(row, grading.FieldFlags, raw, "not a boolean")
		return grading.DefaultFlags
	}
	return v
}

type pairKey struct{ student, question string }

func findDuplicates(records []grading.GradingRecord) []Duplicate {
	rows := make(map[pairKey][]int)
	var order []pairKey
	for i, r := range records {
		k := pairKey{r.StudentID, r.QuestionID}
		if _, ok := rows[k]; !ok {
			order = append(order, k)
		}
		rows[k] = append(rows[k], i+1)
	}

	var dups []Duplicate
	for _, k := range order {
		if len(rows[k]) > 1 {
			dups = append(dups, Duplicate{StudentID: k.student, QuestionID: k.question, Rows: rows[k]})
		}
	}
	return dups
}
