// Package chunk reads tagged container files: a table of contents mapping
// 12 byte chunk names to regions of the file.
package chunk

import (
	"io"
	"log"
	"sort"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

const (
	MAGIC            = 0xdeadbeef
	NAME_SIZE        = 12
	HEADER_SIZE      = 4 + 4 + 4 + 256 + 4
	SUB_HEADER_SIZE  = NAME_SIZE + 4 + 4 + 4
	TOC_ENTRY_SIZE   = NAME_SIZE + 4 + 4
	reservedAfterToc = 4 + 4 + 256
)

var ErrBadMagic = errors.New("bad container magic")

// Chunk offsets already point past the per-chunk sub header.
type Chunk struct {
	Offset uint64
	Length uint64
}

type TableOfContents struct {
	chunks map[string]Chunk
}

func ReadTableOfContents(rs io.ReadSeeker) (*TableOfContents, error) {
	r := stream.NewReader(rs)
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "seek header")
	}
	tocOffset, err := r.U32()
	if err != nil {
		return nil, errors.Wrapf(err, "read toc offset")
	}
	if err := r.Skip(reservedAfterToc); err != nil {
		return nil, errors.Wrapf(err, "skip header")
	}
	magic, err := r.U32()
	if err != nil {
		return nil, errors.Wrapf(err, "read magic")
	}
	if magic != MAGIC {
		return nil, errors.Wrapf(ErrBadMagic, "got 0x%.8x", magic)
	}

	if _, err := r.Seek(int64(tocOffset), io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "seek toc 0x%x", tocOffset)
	}
	count, err := r.U32()
	if err != nil {
		return nil, errors.Wrapf(err, "read chunk count")
	}
	left, err := r.Remaining()
	if err != nil {
		return nil, errors.Wrapf(err, "toc size")
	}
	if int64(count)*TOC_ENTRY_SIZE > left {
		return nil, errors.Errorf("toc declares %d chunks but only %d bytes follow", count, left)
	}

	toc := &TableOfContents{chunks: make(map[string]Chunk, count)}
	for i := uint32(0); i < count; i++ {
		name, err := r.FixedString(NAME_SIZE)
		if err != nil {
			return nil, errors.Wrapf(err, "read toc entry %d name", i)
		}
		offset, err := r.U32()
		if err != nil {
			return nil, errors.Wrapf(err, "read toc entry %q offset", name)
		}
		length, err := r.U32()
		if err != nil {
			return nil, errors.Wrapf(err, "read toc entry %q length", name)
		}
		if _, exists := toc.chunks[name]; exists {
			log.Printf("[chunk] duplicate chunk %q in toc, keeping the last one", name)
		}
		toc.chunks[name] = Chunk{
			Offset: uint64(offset) + SUB_HEADER_SIZE,
			Length: uint64(length),
		}
	}
	return toc, nil
}

func (toc *TableOfContents) Get(name string) (Chunk, bool) {
	c, ok := toc.chunks[name]
	return c, ok
}

func (toc *TableOfContents) Has(name string) bool {
	_, ok := toc.chunks[name]
	return ok
}

func (toc *TableOfContents) Len() int {
	return len(toc.chunks)
}

func (toc *TableOfContents) Names() []string {
	names := make([]string, 0, len(toc.chunks))
	for name := range toc.chunks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
