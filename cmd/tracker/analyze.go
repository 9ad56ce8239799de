package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JustJay7/collections-tracker/internal/database"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rebuild the tracking ledger from the email cache",
	Long: `Run one analysis pass: load the case ledger and the email cache, match every
message against every case, replace the persisted ledger and record the run.`,
	RunE: runAnalyze,
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent analysis passes",
	RunE:  runRuns,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(current.db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		current.log.Info("Database migrations completed successfully")
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of runs to show")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if stats, err := current.svc.EmailCacheStats(); err == nil && stats.Stale {
		current.log.Warn("Email cache is stale; results may miss recent mail",
			"path", stats.Path, "last_updated", stats.LastUpdated)
	}

	run, err := current.svc.Run(cmd.Context(), "cli")
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(run)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, passStyle.Render("Analysis complete"), mutedStyle.Render(run.RunID))
	fmt.Fprintf(out, "  cases:             %d\n", run.Cases)
	fmt.Fprintf(out, "  messages:          %d\n", run.Messages)
	fmt.Fprintf(out, "  matches:           %d\n", run.Matches)
	fmt.Fprintf(out, "  unparseable dates: %d\n", run.UnparseableDates)
	fmt.Fprintf(out, "  duplicate names:   %d\n", run.DuplicateNames)
	for _, c := range run.CategoryCounts {
		fmt.Fprintf(out, "  %-18s %d\n", c.Category+":", c.Count)
	}
	return nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	runs, err := current.svc.Runs(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(runs)
	}

	out := cmd.OutOrStdout()
	for _, r := range runs {
		status := passStyle.Render("ok")
		if !r.Success {
			status = urgentStyle.Render("failed: " + r.ErrorMessage)
		}
		fmt.Fprintf(out, "%s  %s  %-4s cases=%d matches=%d  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"), shortID(r.RunID), r.Trigger, r.Cases, r.Matches, status)
	}
	return nil
}
