package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/gradelens/internal/analytics"
)

const ruleWidth = 64

func rule() {
	fmt.Println(strings.Repeat("─", ruleWidth))
}

func printAnalysis(a analysis) {
	s := a.Summary

	filter := a.Filter.Describe()
	if filter == "" {
		filter = "none"
	}
	fmt.Printf("Source:     %s\n", a.Source)
	fmt.Printf("Filter:     %s\n", filter)
	fmt.Printf("Items:      %d (%d students, %d questions)\n", s.TotalItems, s.TotalStudents, s.TotalQuestions)
	if a.RunID != "" {
		fmt.Printf("Saved run:  %s (%d earlier runs of this dataset)\n", a.RunID, a.PriorRuns)
	}

	if s.TotalItems == 0 {
		fmt.Println("\nNo items match the current filters.")
		return
	}

	fmt.Println()
	fmt.Printf("%-22s  %-10s  %s\n", "Metric", "Value", "Interpretation")
	rule()
	for _, row := range analytics.Interpret(s) {
		fmt.Printf("%-22s  %-10s  %s %s\n", row.Metric, row.Value, row.Rating.Level.Symbol(), row.Rating.Label)
	}
	rule()
	fmt.Printf("%-22s  %s\n", "MAE", s.MAE.Fmt(2))
	fmt.Printf("%-22s  %s\n", "Max error", s.MaxError.Fmt(2))
	fmt.Printf("%-22s  %s / %s\n", "Pearson / Spearman p", s.PearsonP.Fmt(4), s.SpearmanP.Fmt(4))
	fmt.Printf("%-22s  %s\n", "Mean confidence", s.MeanConfidence.Fmt(2))
	fmt.Printf("%-22s  %d (%s)\n", "Flagged", s.FlaggedCount, s.FlaggedPercent.Percent(1))
	fmt.Printf("%-22s  %d\n", "Low confidence", s.LowConfidenceCount)
	fmt.Printf("%-22s  %d\n", "High error", s.HighErrorCount)
	fmt.Printf("%-22s  %s\n", "Agreement", analytics.AgreementLevel(s.PearsonR))

	if len(s.Questions) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("%-12s  %6s  %8s  %8s  %9s  %8s\n", "Question", "Items", "MAE", "Std", "Mean conf", "Flagged")
	rule()
	for _, q := range s.Questions {
		fmt.Printf("%-12s  %6d  %8s  %8s  %9s  %8d\n",
			truncate(q.QuestionID, 12), q.Count, q.MAE.Fmt(2), q.StdDev.Fmt(2), q.MeanConfidence.Fmt(2), q.Flagged)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
