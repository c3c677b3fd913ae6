// Package profile loads the external player profile table.
package profile

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// NameColumn is the join column of the profile table.
const NameColumn = "name"

var (
	ErrNotFound      = errors.New("profile table not found")
	ErrMissingColumn = errors.New("profile table has no name column")
)

// Load reads a profile CSV from path.
func Load(path string) (*model.ProfileTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "open %s", path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a profile table. The first row is the header and must contain a
// "name" column. When a name appears more than once the first row wins, so a
// join never multiplies output rows.
func Read(r io.Reader) (*model.ProfileTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read profile header")
	}
	nameIdx := -1
	var cols []string
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = h
		if h == NameColumn && nameIdx < 0 {
			nameIdx = i
			continue
		}
		cols = append(cols, h)
	}
	if nameIdx < 0 {
		return nil, ErrMissingColumn
	}

	table := &model.ProfileTable{Columns: cols, ByName: make(map[string]model.Profile)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read profile row")
		}
		if nameIdx >= len(rec) || rec[nameIdx] == "" {
			continue
		}
		name := rec[nameIdx]
		if _, dup := table.ByName[name]; dup {
			continue
		}
		fields := make(map[string]string, len(cols))
		for i, v := range rec {
			if i == nameIdx || i >= len(header) {
				continue
			}
			fields[header[i]] = v
		}
		table.ByName[name] = model.Profile{Name: name, Fields: fields}
	}
	return table, nil
}
