package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhisek/gradelens/internal/grading"
)

var reviewColumns = []string{
	grading.FieldStudentID,
	grading.FieldQuestionID,
	grading.FieldTAScore,
	grading.FieldLLMScore,
	ColAbsError,
	ColPercentError,
	grading.FieldConfidence,
	"priority",
	"reasons",
}

// WriteReviewCSV writes a review queue to w, one row per item in queue
// order. Reasons are joined with ";".
func WriteReviewCSV(w io.Writer, items []grading.ReviewItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reviewColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, it := range items {
		reasons := make([]string, len(it.Reasons))
		for j, r := range it.Reasons {
			reasons[j] = string(r)
		}
		row := []string{
			it.StudentID,
			it.QuestionID,
			formatFloat(it.TAScore),
			formatFloat(it.LLMScore),
			formatFloat(it.AbsError),
			formatFloat(it.PercentError),
			formatFloat(it.Confidence),
			string(it.Priority),
			strings.Join(reasons, ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReviewFileName returns the default review queue file name for t.
func ReviewFileName(t time.Time) string {
	return "review_queue_" + t.Format("20060102_150405") + ".csv"
}
