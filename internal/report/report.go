package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-cricket-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintRunSummary prints the counters of one aggregation run.
func PrintRunSummary(w io.Writer, r model.RunSummary) {
	fmt.Fprintf(w, "\n=== Run Summary ===\n\n")
	fmt.Fprintf(w, "  Archive            : %s\n", r.Archive)
	fmt.Fprintf(w, "  Entries read       : %d\n", r.EntriesRead)
	fmt.Fprintf(w, "  Matches processed  : %d\n", r.MatchesProcessed)
	fmt.Fprintf(w, "  Matches skipped    : %d (malformed %d, no info %d, no innings %d)\n",
		r.MatchesSkipped(), r.SkippedMalformed, r.SkippedNoInfo, r.SkippedNoInnings)
	fmt.Fprintf(w, "  Innings skipped    : %d\n", r.InningsSkipped)
	fmt.Fprintf(w, "  Deliveries         : %d\n", r.Deliveries)
	fmt.Fprintf(w, "  Player-season rows : %d\n\n", r.Keys)
}

// PrintRunTable lists stored runs.
func PrintRunTable(w io.Writer, runs []model.RunSummary) {
	table := newTable(w)
	table.Header("ID", "STARTED", "ARCHIVE", "READ", "PROCESSED", "SKIPPED", "DELIVERIES", "ROWS")
	for _, r := range runs {
		table.Append(
			strconv.FormatInt(r.ID, 10),
			r.StartedAt,
			r.Archive,
			strconv.Itoa(r.EntriesRead),
			strconv.Itoa(r.MatchesProcessed),
			strconv.Itoa(r.MatchesSkipped()),
			strconv.Itoa(r.Deliveries),
			strconv.Itoa(r.Keys),
		)
	}
	table.Render()
}

// PrintSeasonTable prints one row per player of a season, batting then
// bowling then fielding columns.
func PrintSeasonTable(w io.Writer, rows []model.SeasonRow) {
	table := newTable(w)
	table.Header(
		"NAME", "M", "RUNS", "BF", "SR", "4s", "6s",
		"OVERS", "CONC", "WKTS", "ECON", "AVG", "CT", "ST",
	)
	for _, r := range rows {
		table.Append(row(r.Name, r.PlayerSeasonStats)...)
	}
	table.Render()
}

// PrintPlayerSeasons prints a player's seasons followed by a career row.
func PrintPlayerSeasons(w io.Writer, rows []model.SeasonRow) {
	table := newTable(w)
	table.Header(
		"SEASON", "M", "RUNS", "BF", "SR", "4s", "6s",
		"OVERS", "CONC", "WKTS", "ECON", "AVG", "CT", "ST",
	)
	var career model.PlayerSeasonStats
	for _, r := range rows {
		career.Add(r.PlayerSeasonStats)
		table.Append(row(r.Season, r.PlayerSeasonStats)...)
	}
	if len(rows) > 1 {
		table.Append(row("CAREER", career)...)
	}
	table.Render()

	// Profile fields are the same across seasons; show them once.
	for _, r := range rows {
		if len(r.Profile) > 0 {
			PrintProfile(w, r.Profile)
			break
		}
	}
}

// PrintProfile prints joined profile fields as a two-column table.
func PrintProfile(w io.Writer, profile map[string]string) {
	keys := make([]string, 0, len(profile))
	for k := range profile {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "\n--- Profile ---\n\n")
	table := tablewriter.NewTable(w)
	table.Header("FIELD", "VALUE")
	for _, k := range keys {
		table.Append(k, profile[k])
	}
	table.Render()
}

// PrintSeasonOverviews prints one line per season with its leaders.
func PrintSeasonOverviews(w io.Writer, seasons []model.SeasonOverview) {
	table := newTable(w)
	table.Header("SEASON", "PLAYERS", "RUNS", "WKTS", "TOP SCORER", "R", "TOP BOWLER", "W")
	for _, s := range seasons {
		table.Append(
			s.Season,
			strconv.Itoa(s.Players),
			strconv.Itoa(s.Runs),
			strconv.Itoa(s.Wickets),
			s.TopScorer,
			strconv.Itoa(s.TopRuns),
			s.TopBowler,
			strconv.Itoa(s.TopWickets),
		)
	}
	table.Render()
}

// row renders label followed by the stat cells.
func row(label string, s model.PlayerSeasonStats) []any {
	cells := statCells(s)
	out := make([]any, 0, 1+len(cells))
	out = append(out, label)
	for _, c := range cells {
		out = append(out, c)
	}
	return out
}

func statCells(s model.PlayerSeasonStats) []string {
	sr, econ, avg := "—", "—", "—"
	if s.BallsFaced > 0 {
		sr = fmt.Sprintf("%.1f", s.StrikeRate())
	}
	if s.BallsBowled > 0 {
		econ = fmt.Sprintf("%.2f", s.Economy())
	}
	if a, ok := s.BowlingAverage(); ok {
		avg = fmt.Sprintf("%.1f", a)
	}
	return []string{
		strconv.Itoa(s.Matches),
		strconv.Itoa(s.RunsScored),
		strconv.Itoa(s.BallsFaced),
		sr,
		strconv.Itoa(s.Fours),
		strconv.Itoa(s.Sixes),
		s.Overs(),
		strconv.Itoa(s.RunsConceded),
		strconv.Itoa(s.Wickets),
		econ,
		avg,
		strconv.Itoa(s.Catches),
		strconv.Itoa(s.Stumpings),
	}
}
