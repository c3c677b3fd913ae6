package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/report"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

// maxSuggestions caps the near-miss names printed when a player is not found.
const maxSuggestions = 10

// playerCmd is the cobra command for a player's season-by-season record.
var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Show a player's stats across all stored seasons",
	Long: `Show every stored season of a player plus a career total. The name must
match exactly as it appears in the match files; when it does not, names
containing the argument are suggested.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	return printPlayer(db, strings.Join(args, " "))
}

// printPlayer prints one player's seasons, or suggestions when the name is unknown.
func printPlayer(db *storage.DB, name string) error {
	rows, err := db.GetPlayerSeasons(name)
	if err != nil {
		return fmt.Errorf("get player seasons: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No data found for player %q\n", name)
		matches, err := db.SearchPlayers(name, maxSuggestions)
		if err != nil {
			return fmt.Errorf("search players: %w", err)
		}
		if len(matches) > 0 {
			fmt.Fprintf(os.Stderr, "Did you mean: %s\n", strings.Join(matches, ", "))
		}
		return nil
	}

	fmt.Fprintf(os.Stdout, "\nPlayer: %s  |  Seasons: %d\n\n", name, len(rows))
	report.PrintPlayerSeasons(os.Stdout, rows)
	return nil
}
