package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/gradelens/internal/analytics"
	"github.com/abhisek/gradelens/internal/grading"
	"github.com/abhisek/gradelens/internal/store"
)

// analysis is the outcome of one input file.
type analysis struct {
	Source      string              `json:"source"`
	Fingerprint string              `json:"fingerprint"`
	Filter      grading.FilterState `json:"filter"`
	Summary     analytics.Summary   `json:"summary"`
	RunID       string              `json:"run_id,omitempty"`
	PriorRuns   int                 `json:"prior_runs,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Summarize agreement between LLM and TA scores",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fs, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		save, _ := cmd.Flags().GetBool("save")
		parallel := cfg.Parallel
		if cmd.Flags().Changed("parallel") {
			parallel, _ = cmd.Flags().GetInt("parallel")
		}
		if parallel < 1 {
			return fmt.Errorf("parallel must be at least 1, got %d", parallel)
		}

		results, err := analyzeFiles(ctx, cmd, args, fs, parallel)
		if err != nil {
			return err
		}

		if save {
			if err := saveRuns(ctx, cmd, results); err != nil {
				return err
			}
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		for i, a := range results {
			if i > 0 {
				fmt.Println()
			}
			printAnalysis(a)
		}
		return nil
	},
}

// analyzeFiles runs the pipeline over every path, at most parallel at once.
// Results keep the order of paths.
func analyzeFiles(ctx context.Context, cmd *cobra.Command, paths []string, fs grading.FilterState, parallel int) ([]analysis, error) {
	results := make([]analysis, len(paths))
	cache := analytics.NewCache()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds, derived, err := loadDataset(cmd, path)
			if err != nil {
				return err
			}
			view := cache.View(ds.Fingerprint, derived, fs)
			results[i] = analysis{
				Source:      path,
				Fingerprint: ds.Fingerprint,
				Filter:      fs,
				Summary:     view.Summary,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// saveRuns persists each analysis and prunes old runs per keep_runs.
func saveRuns(ctx context.Context, cmd *cobra.Command, results []analysis) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	repo := s.RunRepo()
	for i := range results {
		a := &results[i]
		prior, err := repo.ByFingerprint(ctx, a.Fingerprint)
		if err != nil {
			return fmt.Errorf("query prior runs: %w", err)
		}

		filterJSON, err := json.Marshal(a.Filter)
		if err != nil {
			return fmt.Errorf("encode filter: %w", err)
		}
		summaryJSON, err := json.Marshal(a.Summary)
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		run := &store.AnalysisRun{
			Source:       a.Source,
			Fingerprint:  a.Fingerprint,
			Filter:       filterJSON,
			Summary:      summaryJSON,
			TotalItems:   a.Summary.TotalItems,
			FlaggedCount: a.Summary.FlaggedCount,
		}
		if err := repo.Save(ctx, run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		a.RunID = run.ID
		a.PriorRuns = len(prior)
		logger.Debug("run saved", "id", run.ID, "source", a.Source)
	}

	if cfg.KeepRuns > 0 {
		if err := repo.Prune(ctx, cfg.KeepRuns); err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
	}
	return nil
}

func init() {
	addFilterFlags(analyzeCmd)
	analyzeCmd.Flags().Bool("json", false, "Print results as JSON")
	analyzeCmd.Flags().Bool("save", false, "Persist the results as analysis runs")
	analyzeCmd.Flags().IntP("parallel", "p", 4, "Number of files analyzed at once (overrides config)")
}
