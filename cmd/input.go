package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradelens/internal/grading"
	"github.com/abhisek/gradelens/internal/loader"
)

// addFilterFlags registers the filter flags shared by the analysis commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("question", "q", nil, "Restrict to these question IDs")
	cmd.Flags().StringSliceP("student", "s", nil, "Restrict to these student IDs")
	cmd.Flags().Float64("min-confidence", grading.DefaultConfidenceLo, "Lower confidence bound (inclusive)")
	cmd.Flags().Float64("max-confidence", grading.DefaultConfidenceHi, "Upper confidence bound (inclusive)")
	cmd.Flags().Float64("max-error", grading.DefaultErrorThreshold, "Upper percent error bound (inclusive)")
	cmd.Flags().Bool("strict", false, "Reject the input if any value is invalid")
}

// filterFromFlags builds the filter state selected on the command line.
func filterFromFlags(cmd *cobra.Command) (grading.FilterState, error) {
	fs := grading.DefaultFilterState()
	if qs, _ := cmd.Flags().GetStringSlice("question"); len(qs) > 0 {
		fs.Questions = qs
	}
	if ss, _ := cmd.Flags().GetStringSlice("student"); len(ss) > 0 {
		fs.Students = ss
	}
	fs.ConfidenceRange.Lo, _ = cmd.Flags().GetFloat64("min-confidence")
	fs.ConfidenceRange.Hi, _ = cmd.Flags().GetFloat64("max-confidence")
	fs.ErrorThreshold, _ = cmd.Flags().GetFloat64("max-error")

	r := fs.ConfidenceRange
	if r.Lo < 0 || r.Hi > 1 || r.Lo > r.Hi {
		return fs, fmt.Errorf("confidence range %g..%g must lie within 0..1 with min <= max", r.Lo, r.Hi)
	}
	if fs.ErrorThreshold < 0 {
		return fs, fmt.Errorf("max-error must not be negative, got %g", fs.ErrorThreshold)
	}
	return fs, nil
}

// loadDataset reads path under the configured policy, or --strict when the
// command has it and it was set.
func loadDataset(cmd *cobra.Command, path string) (*loader.Dataset, []grading.DerivedRecord, error) {
	policy := loader.PolicyLenient
	strict := cfg.Strict
	if cmd.Flags().Lookup("strict") != nil && cmd.Flags().Changed("strict") {
		strict, _ = cmd.Flags().GetBool("strict")
	}
	if strict {
		policy = loader.PolicyStrict
	}

	log := logger.WithSource(path)
	ds, err := loader.LoadFile(path, loader.Options{Policy: policy, Logger: log.Logger})
	if err != nil {
		var schemaErr *loader.SchemaError
		var validationErr *loader.ValidationError
		switch {
		case errors.As(err, &schemaErr):
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		case errors.As(err, &validationErr):
			return nil, nil, fmt.Errorf("%s (strict mode): %w", path, err)
		}
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}

	for _, w := range ds.Warnings {
		log.Debug("coerced value", "issue", w.String())
	}
	for _, d := range ds.Duplicates {
		log.Debug("duplicate pair", "student", d.StudentID, "question", d.QuestionID, "rows", d.Rows)
	}
	log.Debug("dataset loaded", "records", len(ds.Records), "policy", policy.String(), "fingerprint", ds.Fingerprint)

	return ds, grading.Derive(ds.Records), nil
}
