package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradelens/internal/grading"
	"github.com/abhisek/gradelens/internal/llm"
	"github.com/abhisek/gradelens/internal/narrative"
	"github.com/abhisek/gradelens/internal/report"
	"github.com/abhisek/gradelens/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Render a markdown analysis report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fs, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		title := cfg.Report.Title
		if cmd.Flags().Changed("title") {
			title, _ = cmd.Flags().GetString("title")
		}
		useLLM, _ := cmd.Flags().GetBool("narrative")
		out, _ := cmd.Flags().GetString("output")

		ds, derived, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}
		r := report.New(title, ds.Source, fs.Describe(), grading.Filter(derived, fs), time.Now())

		if useLLM {
			r.Narrative = writeNarrative(ctx, cmd, r)
		}

		var w io.Writer = os.Stdout
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		if err := r.Render(w); err != nil {
			return err
		}
		if w != os.Stdout {
			fmt.Fprintf(os.Stderr, "Report written to %s (narrative: %s)\n", out, r.Narrative.Source)
		}
		return nil
	},
}

// writeNarrative asks the configured LLM for the report narrative. Any
// failure, including a missing provider, keeps the rule-based one.
func writeNarrative(ctx context.Context, cmd *cobra.Command, r *report.Report) *narrative.Narrative {
	llmCfg := cfg.LLM
	if !llmCfg.Discover() {
		logger.Warn("no LLM provider configured; using rule-based narrative")
		return r.Narrative
	}

	s, err := openStore(cmd)
	if err != nil {
		logger.WithError(err).Warn("LLM events will not be recorded")
	} else {
		defer s.Close()
	}

	var events store.EventRepo
	if s != nil {
		events = s.EventRepo()
	}
	provider, err := llm.NewProvider(ctx, llmCfg, events, logger.Logger)
	if err != nil {
		logger.WithError(err).Warn("LLM provider unavailable; using rule-based narrative")
		return r.Narrative
	}

	gen := narrative.New(provider, narrative.Config{
		MaxTokens:   cfg.Report.MaxTokens,
		Temperature: narrative.DefaultConfig().Temperature,
		Timeout:     llmCfg.Timeout,
	}, logger.Logger)
	return gen.Write(ctx, r.NarrativeInput())
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().String("title", "", "Report title (overrides config)")
	reportCmd.Flags().Bool("narrative", false, "Write the summary with the configured LLM")
	reportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}
