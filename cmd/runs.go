package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradelens/internal/analytics"
	"github.com/abhisek/gradelens/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.RunRepo().List(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No saved runs. Use `gradelens analyze --save` to record one.")
			return nil
		}

		fmt.Printf("%-8s  %-19s  %-32s  %6s  %7s\n", "ID", "Created", "Source", "Items", "Flagged")
		fmt.Println(strings.Repeat("─", 80))
		for _, r := range runs {
			fmt.Printf("%-8s  %-19s  %-32s  %6d  %7d\n",
				truncate(r.ID, 8),
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.Source, 32),
				r.TotalItems,
				r.FlaggedCount,
			)
		}
		return nil
	},
}

var runsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a saved run; any unique ID prefix works",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := s.RunRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("run %s not found", args[0])
		}

		if asJSON {
			var buf bytes.Buffer
			if err := json.Indent(&buf, run.Summary, "", "  "); err != nil {
				return fmt.Errorf("format summary: %w", err)
			}
			fmt.Println(buf.String())
			return nil
		}

		a := analysis{Source: run.Source, Fingerprint: run.Fingerprint}
		if err := json.Unmarshal(run.Filter, &a.Filter); err != nil {
			return fmt.Errorf("decode filter: %w", err)
		}
		var summary analytics.Summary
		if err := json.Unmarshal(run.Summary, &summary); err != nil {
			return fmt.Errorf("decode summary: %w", err)
		}
		a.Summary = summary

		fmt.Printf("Run:        %s\n", run.ID)
		fmt.Printf("Created:    %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		printAnalysis(a)
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	runsViewCmd.Flags().Bool("json", false, "Print the stored summary JSON")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsViewCmd)
}
