package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/report"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about the stored season table:
row and player counts, season range, run totals and the leading run scorer
and wicket taker of every season.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Rows == 0 {
		fmt.Fprintln(os.Stdout, "No stats stored yet. Run 'cricmetrics aggregate' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Player-season rows : %d\n", ov.Rows)
	fmt.Fprintf(os.Stdout, "  Seasons            : %d (%s to %s)\n", ov.Seasons, ov.EarliestSeason, ov.LatestSeason)
	fmt.Fprintf(os.Stdout, "  Players seen       : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Total runs         : %d\n", ov.TotalRuns)
	fmt.Fprintf(os.Stdout, "  Total wickets      : %d\n", ov.TotalWickets)

	seasons, err := db.GetSeasonOverviews()
	if err != nil {
		return fmt.Errorf("get season overviews: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Seasons ---\n\n")
	report.PrintSeasonOverviews(os.Stdout, seasons)
	return nil
}
