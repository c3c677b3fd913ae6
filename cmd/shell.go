package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/report"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgGreen, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgGreen, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("cricmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("cricmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "summary":
			shellSummary(db)
		case "show":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: show <season>")
				continue
			}
			shellShow(db, rest)
		case "player":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: player <name>")
				continue
			}
			if err := printPlayer(db, rest); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "sql":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			if err := printQuery(db, rest); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list stored aggregation runs"},
		{"summary", "overview of the stored seasons"},
		{"show <season>", "player table of one season"},
		{"player <name>", "a player's seasons and career total"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-20s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	runs, err := db.ListRuns()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(runs) == 0 {
		cMuted.Println("No runs stored yet.")
		return
	}
	report.PrintRunTable(os.Stdout, runs)
}

func shellSummary(db *storage.DB) {
	seasons, err := db.GetSeasonOverviews()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(seasons) == 0 {
		cMuted.Println("No stats stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "--- Seasons ---\n")
	report.PrintSeasonOverviews(os.Stdout, seasons)
}

func shellShow(db *storage.DB, season string) {
	rows, err := db.GetSeasonStats(season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cWarn.Fprintf(os.Stderr, "no stats for season %q\n", season)
		return
	}
	cHeader.Fprintf(os.Stdout, "--- Season %s (%d players) ---\n", season, len(rows))
	report.PrintSeasonTable(os.Stdout, rows)
}
