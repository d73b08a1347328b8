package narrative

import (
	"fmt"
	"math"

	"github.com/abhisek/gradelens/internal/analytics"
)

// Rule thresholds for recommendations.
const (
	expandAgreementR  = 0.7
	focusQuestionsMAE = 2.0
)

// Rules builds the narrative from fixed thresholds over s.
func Rules(s analytics.Summary) *Narrative {
	return &Narrative{
		Headline:        headline(s),
		Findings:        findings(s),
		Recommendations: recommendations(s),
		Source:          SourceRules,
	}
}

func headline(s analytics.Summary) string {
	if s.TotalItems == 0 {
		return "No items match the current filters."
	}
	return fmt.Sprintf("%s agreement between LLM and TA scores across %d items (Pearson r = %s).",
		analytics.AgreementLevel(s.PearsonR), s.TotalItems, s.PearsonR.Fmt(3))
}

func findings(s analytics.Summary) []string {
	return []string{
		"Average model confidence: " + s.MeanConfidence.Fmt(2),
		biasFinding(s.MeanBias),
		"Agreement level: " + analytics.AgreementLevel(s.PearsonR),
	}
}

func biasFinding(bias analytics.Stat) string {
	if !bias.IsDefined() {
		return "Bias: undetermined"
	}
	direction := "lower"
	if bias > 0 {
		direction = "higher"
	}
	return fmt.Sprintf("Bias: LLM scores are on average %.2f points %s than TA scores",
		math.Abs(bias.Float()), direction)
}

func recommendations(s analytics.Summary) []string {
	var recs []string
	if s.PearsonR > expandAgreementR {
		recs = append(recs, "Model shows good agreement with TAs. Consider expanding automated grading.")
	} else {
		recs = append(recs, "Model needs improvement before wider deployment.")
	}
	if s.FlaggedCount > 0 {
		recs = append(recs, "Review flagged items to identify patterns for prompt improvement.")
	}
	if s.MAE > focusQuestionsMAE {
		recs = append(recs, "Focus on questions with highest error rates for prompt refinement.")
	}
	return recs
}
