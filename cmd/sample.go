package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradelens/internal/export"
	"github.com/abhisek/gradelens/internal/grading"
	"github.com/abhisek/gradelens/internal/sample"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a synthetic grading dataset as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := sample.DefaultOptions()
		opts.Students, _ = cmd.Flags().GetInt("students")
		opts.Questions, _ = cmd.Flags().GetInt("questions")
		opts.Seed, _ = cmd.Flags().GetUint64("seed")
		out, _ := cmd.Flags().GetString("output")

		if opts.Students < 1 || opts.Questions < 1 {
			return fmt.Errorf("students and questions must be at least 1")
		}

		var w io.Writer = os.Stdout
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}

		records := grading.Derive(sample.Generate(opts))
		n, err := export.WriteCSV(w, records, export.Options{Raw: true})
		if err != nil {
			return err
		}
		if out != "-" {
			fmt.Fprintf(os.Stderr, "Wrote %d sample records to %s\n", n, out)
		}
		return nil
	},
}

func init() {
	d := sample.DefaultOptions()
	sampleCmd.Flags().StringP("output", "o", "sample_grading_data.csv", `Output file ("-" for stdout)`)
	sampleCmd.Flags().Int("students", d.Students, "Number of students")
	sampleCmd.Flags().Int("questions", d.Questions, "Number of questions")
	sampleCmd.Flags().Uint64("seed", d.Seed, "Random seed")
}
