package narrative

import (
	"fmt"
	"strings"

	"github.com/abhisek/gradelens/internal/analytics"
)

// maxStudentsInPrompt caps the per-student lines sent to the model.
const maxStudentsInPrompt = 5

const systemPrompt = `You review the agreement between an automated (LLM) grader and human teaching assistants (TAs).

Rules:
- Base every statement on the statistics provided. Do not invent numbers.
- Positive mean bias means the LLM scores higher than the TAs.
- Auto-flagged items have confidence below 0.6, percent error above 25, or absolute error above 30% of max points.
- "N/A" marks a statistic that is undefined for this data; say so rather than guessing.
- Keep the headline to one sentence. Findings and recommendations are short, plain sentences.
- Recommendations should be actionable for a grading team tuning prompts or rubrics.`

// buildUserMessage renders the statistics of in as plain text.
func buildUserMessage(in Input) string {
	s := in.Summary
	var b strings.Builder

	if in.Title != "" {
		fmt.Fprintf(&b, "Report: %s\n", in.Title)
	}
	if in.Filter != "" {
		fmt.Fprintf(&b, "Filters: %s\n", in.Filter)
	}
	fmt.Fprintf(&b, "Items: %d (%d students, %d questions)\n", s.TotalItems, s.TotalStudents, s.TotalQuestions)
	fmt.Fprintf(&b, "Flagged: %d (%s)\n", s.FlaggedCount, s.FlaggedPercent.Percent(1))
	fmt.Fprintf(&b, "Low confidence: %d, high error: %d\n", s.LowConfidenceCount, s.HighErrorCount)

	b.WriteString("\nStatistics:\n")
	for _, row := range analytics.Interpret(s) {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", row.Metric, row.Value, row.Rating.Label)
	}
	fmt.Fprintf(&b, "- MAE: %s\n", s.MAE.Fmt(2))
	fmt.Fprintf(&b, "- Max error: %s\n", s.MaxError.Fmt(2))
	fmt.Fprintf(&b, "- Mean confidence: %s\n", s.MeanConfidence.Fmt(2))

	ba := in.BlandAltman
	if ba.N > 0 {
		fmt.Fprintf(&b, "- Limits of agreement: [%s, %s], %d of %d within\n",
			ba.LowerLimit.Fmt(2), ba.UpperLimit.Fmt(2), ba.WithinLimits, ba.N)
	}

	if len(s.Questions) > 0 {
		b.WriteString("\nPer question (MAE, flagged/count):\n")
		for _, q := range s.Questions {
			fmt.Fprintf(&b, "- %s: %s, %d/%d\n", q.QuestionID, q.MAE.Fmt(2), q.Flagged, q.Count)
		}
	}

	if len(in.Students) > 0 {
		b.WriteString("\nStudents with the largest errors (MAE, flagged):\n")
		for _, st := range in.Students[:min(len(in.Students), maxStudentsInPrompt)] {
			fmt.Fprintf(&b, "- %s: %s, %d\n", st.StudentID, st.MAE.Fmt(2), st.Flagged)
		}
	}

	return b.String()
}
