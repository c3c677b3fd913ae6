package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Create opens path and returns a writer for format. The header (CSV) is
// written immediately.
func Create(format, path string, table *model.ProfileTable) (Writer, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	var w Writer
	switch format {
	case FormatCSV:
		w, err = NewCSVWriter(f, table)
	case FormatJSON:
		w, err = NewJSONWriter(f, table)
	default:
		err = fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// ---- CSV ----

// CSVWriter writes rows as CSV with a header row.
type CSVWriter struct {
	dst        io.Writer
	writer     *csv.Writer
	profileSrc []string
}

// NewCSVWriter writes the header to dst and returns the writer. If dst is an
// io.Closer it is closed by Close.
func NewCSVWriter(dst io.Writer, table *model.ProfileTable) (*CSVWriter, error) {
	src, out := ProfileColumns(table)
	header := append([]string{"season", "name"}, StatColumns...)
	header = append(header, out...)

	cw := &CSVWriter{dst: dst, writer: csv.NewWriter(dst), profileSrc: src}
	if err := cw.writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv header: %w", err)
	}
	return cw, nil
}

// Write appends rows.
func (cw *CSVWriter) Write(rows []model.SeasonRow) error {
	for _, r := range rows {
		record := make([]string, 0, 2+len(StatColumns)+len(cw.profileSrc))
		record = append(record, r.Season, r.Name)
		for _, v := range StatValues(r.PlayerSeasonStats) {
			record = append(record, strconv.Itoa(v))
		}
		for _, c := range cw.profileSrc {
			record = append(record, r.Profile[c])
		}
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the destination.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	if c, ok := cw.dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ---- JSON lines ----

type jsonRow struct {
	Season        string            `json:"season"`
	Name          string            `json:"name"`
	Matches       int               `json:"matches"`
	InningsBatted int               `json:"innings_batted"`
	RunsScored    int               `json:"runs_scored"`
	BallsFaced    int               `json:"balls_faced"`
	Fours         int               `json:"fours"`
	Sixes         int               `json:"sixes"`
	NotOuts       int               `json:"not_outs"`
	HighScore     int               `json:"high_score"`
	Centuries     int               `json:"centuries"`
	Fifties       int               `json:"fifties"`
	InningsBowled int               `json:"innings_bowled"`
	BallsBowled   int               `json:"balls_bowled"`
	RunsConceded  int               `json:"runs_conceded"`
	Wickets       int               `json:"wickets"`
	Catches       int               `json:"catches"`
	Stumpings     int               `json:"stumpings"`
	Profile       map[string]string `json:"profile,omitempty"`
}

// JSONWriter writes one JSON object per row. Profile fields are nested under
// "profile" and only present for matched names.
type JSONWriter struct {
	dst    io.Writer
	buf    *bufio.Writer
	hasCol bool
}

// NewJSONWriter returns a JSON lines writer on dst.
func NewJSONWriter(dst io.Writer, table *model.ProfileTable) (*JSONWriter, error) {
	return &JSONWriter{dst: dst, buf: bufio.NewWriter(dst), hasCol: table != nil}, nil
}

// Write appends rows.
func (jw *JSONWriter) Write(rows []model.SeasonRow) error {
	for _, r := range rows {
		s := r.PlayerSeasonStats
		jr := jsonRow{
			Season: r.Season, Name: r.Name,
			Matches: s.Matches, InningsBatted: s.InningsBatted, RunsScored: s.RunsScored,
			BallsFaced: s.BallsFaced, Fours: s.Fours, Sixes: s.Sixes, NotOuts: s.NotOuts,
			HighScore: s.HighScore, Centuries: s.Centuries, Fifties: s.Fifties,
			InningsBowled: s.InningsBowled, BallsBowled: s.BallsBowled,
			RunsConceded: s.RunsConceded, Wickets: s.Wickets, Catches: s.Catches,
			Stumpings: s.Stumpings,
		}
		if jw.hasCol {
			jr.Profile = r.Profile
		}
		// ConfigStd sorts map keys, keeping output byte-stable.
		b, err := sonic.ConfigStd.Marshal(&jr)
		if err != nil {
			return fmt.Errorf("marshal row %s/%s: %w", r.Season, r.Name, err)
		}
		if _, err := jw.buf.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("write json row: %w", err)
		}
	}
	return jw.buf.Flush()
}

// Close flushes and closes the destination.
func (jw *JSONWriter) Close() error {
	if err := jw.buf.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	if c, ok := jw.dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
