package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/storage"
)

var (
	dropForce bool
	dropRun   int64
)

// dropCmd deletes the metrics database file, or a single run from it.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the metrics database or one stored run",
	Long: `Permanently delete the SQLite metrics database. All stored runs and season
stats will be lost. Re-run 'cricmetrics aggregate' afterwards to rebuild.

With --run, only that run is removed together with the season rows it wrote.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().Int64Var(&dropRun, "run", 0, "delete only the run with this id")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropRun > 0 {
		return dropOneRun(dropRun)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files.
	for _, suffix := range []string{"-wal", "-shm"} {
		os.Remove(dbPath + suffix)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropOneRun(id int64) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ok, err := db.DeleteRun(id)
	if err != nil {
		return fmt.Errorf("delete run %d: %w", id, err)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "No run with id %d\n", id)
		return nil
	}
	fmt.Fprintf(os.Stdout, "Deleted run %d\n", id)
	return nil
}
