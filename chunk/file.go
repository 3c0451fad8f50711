package chunk

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

// File is an opened container; chunk sections share the underlying ReaderAt.
type File struct {
	*TableOfContents
	name   string
	source io.ReaderAt
	size   int64
	closer io.Closer
}

type SubHeader struct {
	Name         string
	VersionMajor uint32
	VersionMinor uint32
}

func Open(name string, source io.ReaderAt, size int64) (*File, error) {
	toc, err := ReadTableOfContents(io.NewSectionReader(source, 0, size))
	if err != nil {
		return nil, errors.Wrapf(err, "read toc of %q", name)
	}
	for _, n := range toc.Names() {
		c := toc.chunks[n]
		if c.Offset+c.Length > uint64(size) {
			return nil, errors.Errorf("chunk %q [0x%x+0x%x] overruns %q (0x%x bytes)", n, c.Offset, c.Length, name, size)
		}
	}
	return &File{TableOfContents: toc, name: name, source: source, size: size}, nil
}

func OpenPath(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %q", path)
	}
	cf, err := Open(filepath.Base(path), f, st.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	cf.closer = f
	return cf, nil
}

func (f *File) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

func (f *File) Name() string { return f.name }
func (f *File) Size() int64  { return f.size }

// Section returns a reader scoped to the payload of the named chunk.
func (f *File) Section(name string) (*io.SectionReader, bool) {
	c, ok := f.Get(name)
	if !ok {
		return nil, false
	}
	return io.NewSectionReader(f.source, int64(c.Offset), int64(c.Length)), true
}

// Reader is Section wrapped into a primitive decoder.
func (f *File) Reader(name string) (*stream.Reader, bool) {
	s, ok := f.Section(name)
	if !ok {
		return nil, false
	}
	return stream.NewReader(s), true
}

func (f *File) ReadAll(name string) ([]byte, error) {
	s, ok := f.Section(name)
	if !ok {
		return nil, errors.Errorf("no chunk %q in %q", name, f.name)
	}
	b := make([]byte, s.Size())
	if _, err := io.ReadFull(s, b); err != nil {
		return nil, errors.Wrapf(err, "read chunk %q", name)
	}
	return b, nil
}

func (f *File) Header(name string) (SubHeader, error) {
	c, ok := f.Get(name)
	if !ok {
		return SubHeader{}, errors.Errorf("no chunk %q in %q", name, f.name)
	}
	r := stream.NewReader(io.NewSectionReader(f.source, int64(c.Offset)-SUB_HEADER_SIZE, SUB_HEADER_SIZE))
	var h SubHeader
	var err error
	if h.Name, err = r.FixedString(NAME_SIZE); err != nil {
		return h, errors.Wrapf(err, "chunk %q header", name)
	}
	if h.VersionMajor, err = r.U32(); err != nil {
		return h, errors.Wrapf(err, "chunk %q header", name)
	}
	if h.VersionMinor, err = r.U32(); err != nil {
		return h, errors.Wrapf(err, "chunk %q header", name)
	}
	return h, nil
}

// NamesWithPrefix lists chunk names starting with prefix, sorted.
func (f *File) NamesWithPrefix(prefix string) []string {
	res := make([]string, 0)
	for _, n := range f.Names() {
		if strings.HasPrefix(n, prefix) {
			res = append(res, n)
		}
	}
	sort.Strings(res)
	return res
}
