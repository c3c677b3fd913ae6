package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cricket-metrics/internal/archive"
	"github.com/pable/go-cricket-metrics/internal/export"
	"github.com/pable/go-cricket-metrics/internal/metrics"
)

func matchJSON(season string, deliveries ...string) string {
	body := ""
	for i, d := range deliveries {
		if i > 0 {
			body += ","
		}
		body += d
	}
	return fmt.Sprintf(`{"info": {"season": %q}, "innings": [{"team": "X", "overs": [{"over": 0, "deliveries": [%s]}]}]}`,
		season, body)
}

func del(batter, bowler string, batterRuns, total int, extra string) string {
	if extra != "" {
		extra = ", " + extra
	}
	return fmt.Sprintf(`{"batter": %q, "bowler": %q, "runs": {"batter": %d, "extras": %d, "total": %d}%s}`,
		batter, bowler, batterRuns, total-batterRuns, total, extra)
}

func fixtureArchive(t *testing.T) string {
	t.Helper()
	files := map[string]string{
		"001.json": matchJSON("2007/08",
			del("A", "B", 6, 6, ""),
			del("A", "B", 0, 1, `"extras": {"wides": 1}`),
			del("A", "B", 0, 0, `"wickets": [{"kind": "caught", "player_out": "A", "fielders": [{"name": "C"}]}]`),
		),
		"002.json": matchJSON("2008",
			del("C", "A", 4, 4, ""),
			del("C", "A", 0, 5, `"extras": {"byes": 4, "noballs": 1}`),
			del("C", "A", 0, 0, `"wickets": [{"kind": "run out", "player_out": "C", "fielders": [{"name": "B"}]}]`),
		),
		"003.json":   matchJSON("2007/08", del("A", "D", 1, 1, "")),
		"004.json":   `{"info": {"season": "2008"}, "innings": [`,
		"005.json":   `{"innings": []}`,
		"006.json":   `{"info": {"season": "2008"}}`,
		"007.json":   `{"info": {}, "innings": [{"team": "X"}, {"team": "Y", "overs": [{"deliveries": [` + del("E", "F", 2, 2, "") + `]}]}]}`,
		"readme.txt": "ignored",
	}
	path := filepath.Join(t.TempDir(), "Archive.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func runFixture(t *testing.T, workers int, m *metrics.Metrics) *Result {
	t.Helper()
	arc, err := archive.Open(fixtureArchive(t))
	require.NoError(t, err)
	defer arc.Close()
	res, err := Run(context.Background(), arc, Options{Workers: workers, ProgressEvery: 2, Metrics: m})
	require.NoError(t, err)
	return res
}

func TestRun_Sequential(t *testing.T) {
	m := metrics.New()
	res := runFixture(t, 1, m)
	acc := res.Accumulator

	s := res.Summary
	assert.Equal(t, 7, s.EntriesRead)
	assert.Equal(t, 4, s.MatchesProcessed)
	assert.Equal(t, 1, s.SkippedMalformed)
	assert.Equal(t, 1, s.SkippedNoInfo)
	assert.Equal(t, 1, s.SkippedNoInnings)
	assert.Equal(t, 1, s.InningsSkipped)
	assert.Equal(t, 8, s.Deliveries)
	assert.Equal(t, acc.Len(), s.Keys)

	a, ok := acc.Lookup("2007", "A")
	require.True(t, ok)
	assert.Equal(t, 2, a.Matches)
	assert.Equal(t, 7, a.RunsScored)
	assert.Equal(t, 1, a.Sixes)
	assert.Equal(t, 3, a.BallsFaced)

	b, _ := acc.Lookup("2007", "B")
	assert.Equal(t, 7, b.RunsConceded)
	assert.Equal(t, 2, b.BallsBowled)
	assert.Equal(t, 1, b.Wickets)

	c, _ := acc.Lookup("2007", "C")
	assert.Equal(t, 1, c.Catches)
	assert.Equal(t, 1, c.Matches)

	a08, _ := acc.Lookup("2008", "A")
	assert.Equal(t, 5, a08.RunsConceded, "4 + (5 - 4 byes)")
	assert.Equal(t, 2, a08.BallsBowled)
	assert.Equal(t, 0, a08.Wickets, "run out is not the bowler's")

	b08, ok := acc.Lookup("2008", "B")
	require.True(t, ok, "run-out fielder gets a record")
	assert.Equal(t, 1, b08.Matches)

	e, ok := acc.Lookup("Unknown", "E")
	require.True(t, ok)
	assert.Equal(t, 2, e.RunsScored)

	_, ok = acc.Lookup("2008", "Z")
	assert.False(t, ok)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.MatchesProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchesSkipped.WithLabelValues(metrics.ReasonMalformed)))
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	seq := runFixture(t, 1, nil)
	par := runFixture(t, 4, nil)

	require.Equal(t, seq.Accumulator.Keys(), par.Accumulator.Keys())
	for _, k := range seq.Accumulator.Keys() {
		want, _ := seq.Accumulator.Lookup(k.Season, k.Name)
		got, _ := par.Accumulator.Lookup(k.Season, k.Name)
		assert.Equal(t, want, got, "key %v", k)
	}
	seq.Summary.StartedAt, par.Summary.StartedAt = "", ""
	assert.Equal(t, seq.Summary, par.Summary)
}

func TestRun_OutputIsByteIdentical(t *testing.T) {
	render := func(workers int) []byte {
		res := runFixture(t, workers, nil)
		var buf bytes.Buffer
		w, err := export.NewCSVWriter(&buf, nil)
		require.NoError(t, err)
		require.NoError(t, w.Write(export.Flatten(res.Accumulator)))
		require.NoError(t, w.Close())
		return buf.Bytes()
	}
	first := render(1)
	assert.Equal(t, first, render(1))
	assert.Equal(t, first, render(3))
}

func TestRun_Cancelled(t *testing.T) {
	arc, err := archive.Open(fixtureArchive(t))
	require.NoError(t, err)
	defer arc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, arc, Options{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
