package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/docdown/docdown/internal/config"
	"github.com/docdown/docdown/internal/database"
)

// NewHistoryCmd creates the history command.
// It reads the crawl-history database written by previous crawl runs.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past crawl runs",
		Long: `History lists past crawl runs recorded in the local database.

Each crawl run stores its base URL, discovery method, output directory,
and per-page outcomes. Use --run-id to inspect the pages of one run.

Examples:
  # List the ten most recent runs
  docdown history

  # List all recorded runs
  docdown history --limit 0

  # Show every page of run 3
  docdown history --run-id 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of runs to list (0 = all)")
	cmd.Flags().Int64P("run-id", "r", 0,
		"Show the pages of a specific run instead of the run list")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("run-id")
	if err != nil {
		return err
	}

	// The database must already exist: listing history never creates an
	// empty one.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no crawl history yet: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if runID > 0 {
		return printRunPages(ctx, cmd, db, runID)
	}
	return printRuns(ctx, cmd, db, limit)
}

// printRuns renders the run list as a table.
func printRuns(ctx context.Context, cmd *cobra.Command, db *database.CrawlDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawl runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tMETHOD\tSAVED\tFAILED\tBASE URL")
	for _, run := range runs {
		status := ""
		if run.Interrupted {
			status = " (interrupted)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s%s\n",
			run.ID,
			formatRunTime(run.StartedAt),
			run.Method,
			run.PagesSaved,
			run.PagesFailed,
			run.BaseURL,
			status,
		)
	}
	return w.Flush()
}

// printRunPages renders the per-page outcomes of one run.
func printRunPages(ctx context.Context, cmd *cobra.Command, db *database.CrawlDB, runID int64) error {
	pages, err := db.RunPages(ctx, runID)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No pages recorded for run %d.\n", runID)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tURL\tOUTPUT")
	for _, page := range pages {
		status := strconv.Itoa(page.StatusCode)
		if page.Failed {
			status = "FAIL"
			if page.StatusCode != 0 {
				status = "FAIL " + strconv.Itoa(page.StatusCode)
			}
		}
		output := page.OutputPath
		if output == "" {
			output = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", status, page.URL, output)
	}
	return w.Flush()
}

// formatRunTime renders a run timestamp, tolerating the zero value for
// rows written by interrupted processes.
func formatRunTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
