package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradelens/internal/export"
	"github.com/abhisek/gradelens/internal/grading"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export records with calculated fields as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		flaggedOnly, _ := cmd.Flags().GetBool("flagged-only")
		raw, _ := cmd.Flags().GetBool("raw")
		out, _ := cmd.Flags().GetString("output")

		ds, derived, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}
		records := grading.Filter(derived, fs)

		var w io.Writer = os.Stdout
		if out != "-" {
			if out == "" {
				out = export.FileName(time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}

		n, err := export.WriteCSV(w, records, export.Options{
			FlaggedOnly:  flaggedOnly,
			Raw:          raw,
			InputColumns: ds.Columns,
		})
		if err != nil {
			return err
		}
		if out != "-" {
			fmt.Fprintf(os.Stderr, "Exported %d records to %s\n", n, out)
		}
		return nil
	},
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().Bool("flagged-only", false, "Export only auto-flagged records")
	exportCmd.Flags().Bool("raw", false, "Export the original columns only")
	exportCmd.Flags().StringP("output", "o", "", `Output file ("-" for stdout; default grading_analysis_<timestamp>.csv)`)
}
