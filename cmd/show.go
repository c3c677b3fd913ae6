package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/report"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

var showLimit int

var showCmd = &cobra.Command{
	Use:   "show <season>",
	Short: "Show stored player stats for one season",
	Long: `Show every stored player row of a season, ordered by runs scored.

The season is the normalised label ("2007/08" is stored as "2007", matches
without a season as "Unknown").`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "show only the first N rows (0 = all)")
}

func runShow(cmd *cobra.Command, args []string) error {
	season := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.GetSeasonStats(season)
	if err != nil {
		return fmt.Errorf("get season stats: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No stats stored for season %q\n", season)
		return nil
	}
	if showLimit > 0 && showLimit < len(rows) {
		rows = rows[:showLimit]
	}

	fmt.Fprintf(os.Stdout, "\nSeason: %s  |  Players: %d\n\n", season, len(rows))
	report.PrintSeasonTable(os.Stdout, rows)
	return nil
}
