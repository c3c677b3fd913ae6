// Package archive enumerates match documents stored in a zip file or a
// directory.
package archive

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by Open when the archive path does not exist.
var ErrNotFound = errors.New("archive not found")

const matchExt = ".json"

// Entry is one match document.
type Entry struct {
	Index int // position in visiting order, starting at 0
	Name  string
	Data  []byte
	Err   error // set when the entry exists but could not be read
}

// Archive is an opened match archive. Entries are visited in lexical name
// order so repeated runs see the same sequence.
type Archive struct {
	path  string
	zr    *zip.ReadCloser
	files map[string]*zip.File
	names []string
}

// Open opens a .zip file or a directory of .json files.
func Open(path string) (*Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "open %s", path)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	a := &Archive{path: path}
	if info.IsDir() {
		err = a.scanDir()
	} else {
		err = a.scanZip()
	}
	if err != nil {
		a.Close()
		return nil, err
	}
	sort.Strings(a.names)
	return a, nil
}

func (a *Archive) scanZip() error {
	zr, err := zip.OpenReader(a.path)
	if err != nil {
		return errors.Wrapf(err, "open zip %s", a.path)
	}
	a.zr = zr
	a.files = make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isMatchFile(f.Name) {
			continue
		}
		a.files[f.Name] = f
		a.names = append(a.names, f.Name)
	}
	return nil
}

func (a *Archive) scanDir() error {
	return filepath.WalkDir(a.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMatchFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(a.path, p)
		if err != nil {
			return err
		}
		a.names = append(a.names, filepath.ToSlash(rel))
		return nil
	})
}

func isMatchFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), matchExt)
}

// Path returns the path the archive was opened from.
func (a *Archive) Path() string { return a.path }

// Len returns the number of match documents.
func (a *Archive) Len() int { return len(a.names) }

// Names returns the entry names in visiting order.
func (a *Archive) Names() []string { return append([]string(nil), a.names...) }

// Walk calls fn for every entry in order. A read failure on a single entry is
// reported through Entry.Err rather than aborting the walk. Walk stops early if
// ctx is cancelled or fn returns an error.
func (a *Archive) Walk(ctx context.Context, fn func(Entry) error) error {
	for i, name := range a.names {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := a.read(name)
		e := Entry{Index: i, Name: name, Data: data}
		if err != nil {
			e.Err = errors.Wrapf(err, "read %s", name)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archive) read(name string) ([]byte, error) {
	if a.zr == nil {
		return os.ReadFile(filepath.Join(a.path, filepath.FromSlash(name)))
	}
	rc, err := a.files[name].Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Close releases the underlying zip reader, if any.
func (a *Archive) Close() error {
	if a.zr == nil {
		return nil
	}
	err := a.zr.Close()
	a.zr = nil
	return err
}
