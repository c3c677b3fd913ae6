package storage

import (
	"database/sql"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/pable/go-cricket-metrics/internal/model"
)

const seasonStatsColumns = `season, name,
	matches, innings_batted, runs_scored, balls_faced, fours, sixes,
	not_outs, high_score, centuries, fifties, innings_bowled,
	balls_bowled, runs_conceded, wickets, catches, stumpings, profile`

// SaveRun records a run and replaces the whole season table with rows in a
// single transaction. The store always reflects the latest run only.
func (db *DB) SaveRun(summary model.RunSummary, rows []model.SeasonRow) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs(archive, started_at, entries_read, matches_processed,
			skipped_malformed, skipped_no_info, skipped_no_innings,
			innings_skipped, deliveries, player_season_keys)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.Archive, summary.StartedAt, summary.EntriesRead, summary.MatchesProcessed,
		summary.SkippedMalformed, summary.SkippedNoInfo, summary.SkippedNoInnings,
		summary.InningsSkipped, summary.Deliveries, summary.Keys,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM season_stats`); err != nil {
		return 0, fmt.Errorf("clear season_stats: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO season_stats(run_id, ` + seasonStatsColumns + `)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range rows {
		profile, err := encodeProfile(r.Profile)
		if err != nil {
			return 0, fmt.Errorf("encode profile for %s: %w", r.Name, err)
		}
		s := r.PlayerSeasonStats
		_, err = stmt.Exec(
			runID, r.Season, r.Name,
			s.Matches, s.InningsBatted, s.RunsScored, s.BallsFaced, s.Fours, s.Sixes,
			s.NotOuts, s.HighScore, s.Centuries, s.Fifties, s.InningsBowled,
			s.BallsBowled, s.RunsConceded, s.Wickets, s.Catches, s.Stumpings, profile,
		)
		if err != nil {
			return 0, fmt.Errorf("insert season_stats for %s/%s: %w", r.Season, r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns all recorded runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, archive, started_at, entries_read, matches_processed,
		       skipped_malformed, skipped_no_info, skipped_no_innings,
		       innings_skipped, deliveries, player_season_keys
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		if err := rows.Scan(&r.ID, &r.Archive, &r.StartedAt, &r.EntriesRead, &r.MatchesProcessed,
			&r.SkippedMalformed, &r.SkippedNoInfo, &r.SkippedNoInnings,
			&r.InningsSkipped, &r.Deliveries, &r.Keys); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSeasonStats returns every row of a season ordered by runs scored.
func (db *DB) GetSeasonStats(season string) ([]model.SeasonRow, error) {
	return db.querySeasonRows(`
		SELECT `+seasonStatsColumns+`
		FROM season_stats WHERE season = ?
		ORDER BY runs_scored DESC, wickets DESC, name`, season)
}

// GetPlayerSeasons returns every season row for an exact player name.
func (db *DB) GetPlayerSeasons(name string) ([]model.SeasonRow, error) {
	return db.querySeasonRows(`
		SELECT `+seasonStatsColumns+`
		FROM season_stats WHERE name = ?
		ORDER BY season`, name)
}

// SearchPlayers returns distinct player names containing substr, case-insensitively.
func (db *DB) SearchPlayers(substr string, limit int) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT name FROM season_stats
		WHERE name LIKE ? ORDER BY name LIMIT ?`, "%"+substr+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (db *DB) querySeasonRows(query string, args ...any) ([]model.SeasonRow, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeasonRow
	for rows.Next() {
		var r model.SeasonRow
		var profile sql.NullString
		s := &r.PlayerSeasonStats
		if err := rows.Scan(&r.Season, &r.Name,
			&s.Matches, &s.InningsBatted, &s.RunsScored, &s.BallsFaced, &s.Fours, &s.Sixes,
			&s.NotOuts, &s.HighScore, &s.Centuries, &s.Fifties, &s.InningsBowled,
			&s.BallsBowled, &s.RunsConceded, &s.Wickets, &s.Catches, &s.Stumpings, &profile); err != nil {
			return nil, err
		}
		if profile.Valid && profile.String != "" {
			if err := sonic.UnmarshalString(profile.String, &r.Profile); err != nil {
				return nil, fmt.Errorf("decode profile for %s: %w", r.Name, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func encodeProfile(p map[string]string) (sql.NullString, error) {
	if p == nil {
		return sql.NullString{}, nil
	}
	s, err := sonic.ConfigStd.MarshalToString(p)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: s, Valid: true}, nil
}

// Overview holds store-wide totals for the summary command.
type Overview struct {
	Rows           int
	Seasons        int
	Players        int
	TotalRuns      int
	TotalWickets   int
	EarliestSeason string
	LatestSeason   string
}

// GetOverview returns totals across every stored season row.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT season), COUNT(DISTINCT name),
		       COALESCE(SUM(runs_scored), 0), COALESCE(SUM(wickets), 0),
		       MIN(season), MAX(season)
		FROM season_stats`).Scan(&ov.Rows, &ov.Seasons, &ov.Players,
		&ov.TotalRuns, &ov.TotalWickets, &earliest, &latest)
	if err != nil {
		return ov, err
	}
	ov.EarliestSeason, ov.LatestSeason = earliest.String, latest.String
	return ov, nil
}

// GetSeasonOverviews returns one line per season with its leading run scorer
// and wicket taker. Ties go to the alphabetically first name.
func (db *DB) GetSeasonOverviews() ([]model.SeasonOverview, error) {
	rows, err := db.conn.Query(`
		SELECT s.season, COUNT(*), SUM(s.runs_scored), SUM(s.wickets),
		       (SELECT name FROM season_stats b WHERE b.season = s.season
		          ORDER BY b.runs_scored DESC, b.name LIMIT 1),
		       MAX(s.runs_scored),
		       (SELECT name FROM season_stats w WHERE w.season = s.season
		          ORDER BY w.wickets DESC, w.name LIMIT 1),
		       MAX(s.wickets)
		FROM season_stats s
		GROUP BY s.season
		ORDER BY s.season`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeasonOverview
	for rows.Next() {
		var o model.SeasonOverview
		if err := rows.Scan(&o.Season, &o.Players, &o.Runs, &o.Wickets,
			&o.TopScorer, &o.TopRuns, &o.TopBowler, &o.TopWickets); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// DeleteRun removes a run. Season rows written by it go with it.
func (db *DB) DeleteRun(id int64) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
