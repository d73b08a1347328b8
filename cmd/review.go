package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradelens/internal/analytics"
	"github.com/abhisek/gradelens/internal/export"
	"github.com/abhisek/gradelens/internal/grading"
)

var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "List auto-flagged items, largest error first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		out, _ := cmd.Flags().GetString("output")

		ds, derived, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}
		view := analytics.NewCache().View(ds.Fingerprint, derived, fs)
		items := grading.ReviewQueue(view.Records)

		if out != "" {
			if out == "auto" {
				out = export.ReviewFileName(time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			if err := export.WriteReviewCSV(f, items); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %d items to %s\n", len(items), out)
			return nil
		}

		if len(items) == 0 {
			fmt.Println("No flagged items.")
			return nil
		}

		fmt.Printf("%d of %d items flagged for review\n\n", len(items), len(view.Records))
		fmt.Printf("%-10s  %-10s  %6s  %6s  %6s  %7s  %5s  %-6s  %s\n",
			"Student", "Question", "TA", "LLM", "|Err|", "Err %", "Conf", "Pri", "Reasons")
		fmt.Println(strings.Repeat("─", 96))

		shown := items
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}
		for _, it := range shown {
			pri := string(it.Priority)
			if pri == "" {
				pri = "-"
			}
			reasons := make([]string, len(it.Reasons))
			for i, r := range it.Reasons {
				reasons[i] = string(r)
			}
			fmt.Printf("%-10s  %-10s  %6.2f  %6.2f  %6.2f  %6.1f%%  %5.2f  %-6s  %s\n",
				truncate(it.StudentID, 10), truncate(it.QuestionID, 10),
				it.TAScore, it.LLMScore, it.AbsError, it.PercentError, it.Confidence,
				pri, strings.Join(reasons, ", "))
		}
		if len(shown) < len(items) {
			fmt.Printf("\n... %d more (use --limit 0 to show all)\n", len(items)-len(shown))
		}
		return nil
	},
}

func init() {
	addFilterFlags(reviewCmd)
	reviewCmd.Flags().IntP("limit", "n", 20, "Number of items to show (0 shows all)")
	reviewCmd.Flags().StringP("output", "o", "", `Write the queue as CSV to this file ("auto" picks a timestamped name)`)
}
