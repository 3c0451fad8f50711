package vfs

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

type DirectoryDriver struct {
	path string
}

func NewDirectoryDriver(path string) *DirectoryDriver {
	return &DirectoryDriver{path: path}
}

func (dd *DirectoryDriver) Name() string      { return filepath.Base(dd.path) }
func (dd *DirectoryDriver) IsDirectory() bool { return true }
func (dd *DirectoryDriver) Path() string      { return dd.path }

// List returns entry names sorted.
func (dd *DirectoryDriver) List() ([]string, error) {
	entries, err := os.ReadDir(dd.path)
	if err != nil {
		return nil, errors.Wrapf(err, "list directory %q", dd.path)
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Name())
	}
	sort.Strings(result)
	return result, nil
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	newPath := filepath.Join(dd.path, name)
	s, err := os.Stat(newPath)
	if err != nil {
		return nil, errors.Wrapf(err, "stat")
	}
	if s.IsDir() {
		return NewDirectoryDriver(newPath), nil
	}
	return &DirectoryDriverFile{path: newPath, size: s.Size()}, nil
}

type DirectoryDriverFile struct {
	path string
	size int64
	f    *os.File
}

func NewDirectoryDriverFile(path string) (*DirectoryDriverFile, error) {
	s, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat")
	}
	if s.IsDir() {
		return nil, errors.Errorf("%q is a directory", path)
	}
	return &DirectoryDriverFile{path: path, size: s.Size()}, nil
}

func (ddf *DirectoryDriverFile) Name() string      { return filepath.Base(ddf.path) }
func (ddf *DirectoryDriverFile) IsDirectory() bool { return false }
func (ddf *DirectoryDriverFile) Path() string      { return ddf.path }
func (ddf *DirectoryDriverFile) Size() int64       { return ddf.size }

func (ddf *DirectoryDriverFile) Open() error {
	if ddf.f != nil {
		return errors.Errorf("file %q already opened", ddf.path)
	}
	f, err := os.Open(ddf.path)
	if err != nil {
		return errors.Wrapf(err, "open")
	}
	ddf.f = f
	return nil
}

func (ddf *DirectoryDriverFile) Close() error {
	if ddf.f == nil {
		return nil
	}
	err := ddf.f.Close()
	ddf.f = nil
	return err
}

func (ddf *DirectoryDriverFile) Reader() (*io.SectionReader, error) {
	if ddf.f == nil {
		return nil, errors.Errorf("file %q is not opened", ddf.path)
	}
	return io.NewSectionReader(ddf.f, 0, ddf.size), nil
}

func (ddf *DirectoryDriverFile) ReadAt(b []byte, off int64) (int, error) {
	if ddf.f == nil {
		return 0, errors.Errorf("file %q is not opened", ddf.path)
	}
	return ddf.f.ReadAt(b, off)
}
