package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/infra/csvbatch"
	"github.com/aalvaropc/sympactl/internal/infra/logger"
	"github.com/aalvaropc/sympactl/internal/ports"
	"github.com/aalvaropc/sympactl/internal/usecase"
)

func batchCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "batch <csv>",
		Short: "Apply CREATE/REPLACE/REMOVE rows from a CSV batch file",
		Long: "Each row is COMMAND,list,description. Failed rows are reported and the\n" +
			"batch continues; a malformed row stops the run (with --strict, before\n" +
			"any row is applied).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pretty" && format != "json" {
				return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
			}

			csvPath := args[0]
			f, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("open batch file: %w", err)
			}
			defer f.Close()

			var src ports.BatchSource
			if strict {
				ops, err := csvbatch.ParseAll(f)
				if err != nil {
					return err
				}
				src = usecase.Operations(ops)
			} else {
				src = csvbatch.NewReader(f)
			}

			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			var store ports.ReportStore = app.store
			if noSave {
				store = nil
			}

			out := cmd.OutOrStdout()
			ucOpts := []usecase.RunBatchOption{usecase.WithLogger(app.log)}
			if format == "pretty" {
				ucOpts = append(ucOpts, usecase.WithRowHook(func(r domain.RowResult) {
					printRow(out, r)
				}))
			}

			uc := usecase.NewRunBatch(app.lists, app.defs, app.manifests, store, ucOpts...)
			report, reportID, err := uc.Execute(cmd.Context(), csvPath, strict, src)

			logPath := ""
			if logger.IsReady() == nil {
				logPath = logger.Path()
			}
			if perr := printReport(out, report, reportID, logPath, format); perr != nil && err == nil {
				err = perr
			}
			if err != nil {
				return err
			}
			if report.Aborted() {
				fmt.Fprintln(cmd.ErrOrStderr(), styles.Error.Render("batch aborted: "+report.AbortError))
				return &exitError{code: 1}
			}
			return nil
		},
	}

	c.Flags().BoolVar(&strict, "strict", false, "Validate the whole file before applying any row")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save the batch report")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printRow(w io.Writer, r domain.RowResult) {
	fmt.Fprintf(w, "%s row %d %s %s", outcomeBadge(r.Outcome), r.Row, r.Command, r.List)
	if r.Outcome != domain.OutcomeOK {
		fmt.Fprintf(w, " (%s)", r.Outcome)
	}
	fmt.Fprintln(w)
	if r.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", r.Error)
	}
	if r.RollbackError != "" {
		fmt.Fprintf(w, "  rollback error: %s\n", r.RollbackError)
	}
}

func printReport(w io.Writer, report domain.BatchReport, reportID, logPath, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"report_id": reportID,
			"report":    report,
		})
	default:
		printSummary(w, report, reportID, logPath)
		return nil
	}
}

func printSummary(w io.Writer, report domain.BatchReport, reportID, logPath string) {
	total := report.EndedAt.Sub(report.StartedAt)
	if report.StartedAt.IsZero() || report.EndedAt.IsZero() {
		total = 0
	}

	var ok, skipped int
	for _, r := range report.Rows {
		switch r.Outcome {
		case domain.OutcomeOK:
			ok++
		case domain.OutcomeSkipped:
			skipped++
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Title.Render("Batch summary"))
	fmt.Fprintf(w, "File:     %s\n", report.CSVPath)
	fmt.Fprintf(w, "Rows:     %d (ok=%d skipped=%d failed=%d)\n", len(report.Rows), ok, skipped, report.Failures())
	fmt.Fprintf(w, "Duration: %s\n", total.Round(time.Millisecond))
	if reportID != "" {
		fmt.Fprintf(w, "Report:   %s\n", reportID)
	}
	if logPath != "" {
		fmt.Fprintf(w, "Log:      %s\n", logPath)
	}
}
