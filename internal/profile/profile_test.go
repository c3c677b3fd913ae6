package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = `identifier,name,unique_name,country
ba607b88,MS Dhoni,MS Dhoni,India
dfe4f4b4,V Kohli,V Kohli,India
aaaaaaaa,V Kohli,V Kohli (2),Elsewhere
bbbbbbbb,,nameless,Nowhere
`

func TestRead(t *testing.T) {
	table, err := Read(strings.NewReader(people))
	require.NoError(t, err)

	assert.Equal(t, []string{"identifier", "unique_name", "country"}, table.Columns)
	require.Len(t, table.ByName, 2)
	assert.Equal(t, "India", table.ByName["MS Dhoni"].Fields["country"])
	assert.Equal(t, "dfe4f4b4", table.ByName["V Kohli"].Fields["identifier"], "first duplicate wins")
	_, hasName := table.ByName["MS Dhoni"].Fields["name"]
	assert.False(t, hasName)
}

func TestRead_NoNameColumn(t *testing.T) {
	_, err := Read(strings.NewReader("player,country\nX,Y\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "people.csv"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(people), 0o644))
	table, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, table.ByName, 2)
}
