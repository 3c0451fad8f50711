package vfs

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// OpenFileAndGetReader opens f; the caller closes f when done with the reader.
func OpenFileAndGetReader(f File) (*io.SectionReader, error) {
	if err := f.Open(); err != nil {
		return nil, errors.Wrapf(err, "cannot open file %q", f.Name())
	}
	r, err := f.Reader()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "cannot get file %q reader", f.Name())
	}
	return r, nil
}

func DirectoryGetFile(d Directory, name string) (File, error) {
	e, err := d.GetElement(name)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open file %q", name)
	}
	if e.IsDirectory() {
		return nil, errors.Errorf("%q is a directory, not a file", name)
	}
	return e.(File), nil
}

// FindFile looks name up in d ignoring case. Mission files reference their
// gamesys with whatever case the level editor used.
func FindFile(d Directory, name string) (File, error) {
	name = filepath.Base(name)
	if f, err := DirectoryGetFile(d, name); err == nil {
		return f, nil
	}
	list, err := d.List()
	if err != nil {
		return nil, err
	}
	for _, n := range list {
		if strings.EqualFold(n, name) {
			return DirectoryGetFile(d, n)
		}
	}
	return nil, errors.Errorf("%q not found in %q", name, d.Name())
}

// Glob returns files of d whose names end with ext, ignoring case, in List
// order.
func Glob(d Directory, ext string) ([]File, error) {
	list, err := d.List()
	if err != nil {
		return nil, err
	}
	res := make([]File, 0)
	for _, n := range list {
		if !strings.HasSuffix(strings.ToLower(n), strings.ToLower(ext)) {
			continue
		}
		e, err := d.GetElement(n)
		if err != nil {
			return nil, err
		}
		if f, ok := e.(File); ok {
			res = append(res, f)
		}
	}
	return res, nil
}
