package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/archive"
	"github.com/pable/go-cricket-metrics/internal/config"
	"github.com/pable/go-cricket-metrics/internal/export"
	"github.com/pable/go-cricket-metrics/internal/metrics"
	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/pipeline"
	"github.com/pable/go-cricket-metrics/internal/profile"
	"github.com/pable/go-cricket-metrics/internal/report"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

var (
	aggArchive    string
	aggProfiles   string
	aggOut        string
	aggFormat     string
	aggWorkers    int
	aggNoStore    bool
	aggMetricsOut string
	aggProgress   int
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate a match archive into per-season player stats",
	Long: `Read every match file in the archive (a .zip or a directory of .json files),
accumulate batting, bowling and fielding counters per (season, player), join
the optional profile table and write one row per pair.

Results are also stored in the SQLite database for the list, show, player and
summary commands unless --no-store is given.`,
	Args: cobra.NoArgs,
	RunE: runAggregate,
}

func init() {
	defaults := config.DefaultConfig()
	f := aggregateCmd.Flags()
	f.StringVarP(&aggArchive, "archive", "a", defaults.Archive, "zip file or directory of match JSON files")
	f.StringVarP(&aggProfiles, "profiles", "p", "", "player profile CSV keyed by name (optional)")
	f.StringVarP(&aggOut, "out", "o", defaults.Output, "output file")
	f.StringVar(&aggFormat, "format", defaults.Format, "output format (csv, json)")
	f.IntVarP(&aggWorkers, "workers", "w", defaults.Workers, "parallel workers; 1 processes matches in archive order")
	f.BoolVar(&aggNoStore, "no-store", false, "do not write results to the database")
	f.StringVar(&aggMetricsOut, "metrics-out", "", "write Prometheus metrics in text format to this file")
	f.IntVar(&aggProgress, "progress", defaults.ProgressEvery, "log progress every N matches (0 disables)")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("archive") {
		cfg.Archive = aggArchive
	}
	if flags.Changed("profiles") {
		cfg.Profiles = aggProfiles
	}
	if flags.Changed("out") {
		cfg.Output = aggOut
	}
	if flags.Changed("format") {
		cfg.Format = aggFormat
	}
	if flags.Changed("workers") {
		cfg.Workers = aggWorkers
	}
	if aggNoStore {
		cfg.Store = false
	}
	cfg.MetricsOut = aggMetricsOut
	cfg.ProgressEvery = aggProgress
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	arc, err := archive.Open(cfg.Archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer arc.Close()

	var profiles *model.ProfileTable
	if cfg.Profiles != "" {
		profiles, err = profile.Load(cfg.Profiles)
		if err != nil {
			return fmt.Errorf("load profiles: %w", err)
		}
		log.Info("profiles loaded", "path", cfg.Profiles, "players", len(profiles.ByName))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := metrics.New()
	res, err := pipeline.Run(ctx, arc, pipeline.Options{
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
		Logger:        log,
		Metrics:       m,
	})
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	rows := export.Join(export.Flatten(res.Accumulator), profiles)
	if err := writeOutput(rows, profiles); err != nil {
		return err
	}
	log.Info("output written", "path", cfg.Output, "format", cfg.Format, "rows", len(rows))

	if cfg.Store {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()
		id, err := db.SaveRun(res.Summary, rows)
		if err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		res.Summary.ID = id
		log.Info("run stored", "db", cfg.DBPath, "run", id)
	}

	if cfg.MetricsOut != "" {
		if err := m.WriteTextfile(cfg.MetricsOut); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	report.PrintRunSummary(os.Stdout, res.Summary)
	fmt.Fprintf(os.Stdout, "Wrote %d rows to %s\n", len(rows), cfg.Output)
	return nil
}

func writeOutput(rows []model.SeasonRow, profiles *model.ProfileTable) error {
	w, err := export.Create(cfg.Format, cfg.Output, profiles)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := w.Write(rows); err != nil {
		w.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
