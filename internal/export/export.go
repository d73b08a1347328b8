// Package export writes derived grading records as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/abhisek/gradelens/internal/grading"
)

// Derived column names, in output order after the input columns.
const (
	ColError         = "error"
	ColAbsError      = "abs_error"
	ColPercentError  = "percent_error"
	ColNormalizedTA  = "normalized_ta"
	ColNormalizedLLM = "normalized_llm"
	ColAutoFlag      = "auto_flag"
)

var derivedColumns = []string{
	ColError, ColAbsError, ColPercentError, ColNormalizedTA, ColNormalizedLLM, ColAutoFlag,
}

// Options selects what gets exported.
type Options struct {
	// FlaggedOnly keeps only auto-flagged records.
	FlaggedOnly bool

	// Raw drops the derived columns.
	Raw bool

	// InputColumns restricts raw output to the columns present in the
	// input. Empty means all input fields.
	InputColumns []string
}

// Columns returns the header written for opts.
func Columns(opts Options) []string {
	var cols []string
	for _, f := range slices.Concat(grading.RequiredFields, grading.OptionalFields) {
		if opts.Raw && len(opts.InputColumns) > 0 && !slices.Contains(opts.InputColumns, f) {
			continue
		}
		cols = append(cols, f)
	}
	if !opts.Raw {
		cols = append(cols, derivedColumns...)
	}
	return cols
}

// WriteCSV writes records to w and returns the number of data rows.
// Floats are written in shortest round-trip form; non-finite values as
// NaN, +Inf or -Inf.
func WriteCSV(w io.Writer, records []grading.DerivedRecord, opts Options) (int, error) {
	cols := Columns(opts)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	n := 0
	row := make([]string, len(cols))
	for _, r := range records {
		if opts.FlaggedOnly && !r.AutoFlag {
			continue
		}
		for i, c := range cols {
			row[i] = field(r, c)
		}
		if err := cw.Write(row); err != nil {
			return n, fmt.Errorf("write row %d: %w", n+1, err)
		}
		n++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("flush csv: %w", err)
	}
	return n, nil
}

// FileName returns the default export file name for t.
func FileName(t time.Time) string {
	return "grading_analysis_" + t.Format("20060102_150405") + ".csv"
}

func field(r grading.DerivedRecord, col string) string {
	switch col {
	case grading.FieldStudentID:
		return r.StudentID
	case grading.FieldQuestionID:
		return r.QuestionID
	case grading.FieldTAScore:
		return formatFloat(r.TAScore)
	case grading.FieldLLMScore:
		return formatFloat(r.LLMScore)
	case grading.FieldMaxPoints:
		return formatFloat(r.MaxPoints)
	case grading.FieldConfidence:
		return formatFloat(r.Confidence)
	case grading.FieldFlags:
		return strconv.FormatBool(r.Flags)
	case ColError:
		return formatFloat(r.Error)
	case ColAbsError:
		return formatFloat(r.AbsError)
	case ColPercentError:
		return formatFloat(r.PercentError)
	case ColNormalizedTA:
		return formatFloat(r.NormalizedTA)
	case ColNormalizedLLM:
		return formatFloat(r.NormalizedLLM)
	case ColAutoFlag:
		return strconv.FormatBool(r.AutoFlag)
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
