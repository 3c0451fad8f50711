package chunk

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

type builderChunk struct {
	name         string
	major, minor uint32
	data         []byte
}

// Builder assembles a container; chunks are laid out in insertion order.
type Builder struct {
	chunks []builderChunk
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Add(name string, data []byte) *Builder {
	return b.AddVersion(name, 0, 1, data)
}

func (b *Builder) AddVersion(name string, major, minor uint32, data []byte) *Builder {
	b.chunks = append(b.chunks, builderChunk{name: name, major: major, minor: minor, data: data})
	return b
}

func (b *Builder) Bytes() ([]byte, error) {
	w := stream.NewWriter()
	w.U32(0) // toc offset, patched below
	w.Zero(4 + 4 + 256)
	w.U32(MAGIC)

	offsets := make([]uint32, len(b.chunks))
	for i, c := range b.chunks {
		offsets[i] = uint32(w.Len())
		w.FixedString(c.name, NAME_SIZE)
		w.U32(c.major)
		w.U32(c.minor)
		w.U32(0)
		w.Raw(c.data)
	}

	tocOffset := uint32(w.Len())
	w.U32(uint32(len(b.chunks)))
	for i, c := range b.chunks {
		w.FixedString(c.name, NAME_SIZE)
		w.U32(offsets[i])
		w.U32(uint32(len(c.data)))
	}
	if err := w.Err(); err != nil {
		return nil, errors.Wrapf(err, "build container")
	}

	out := append([]byte(nil), w.Bytes()...)
	binary.LittleEndian.PutUint32(out[0:4], tocOffset)
	return out, nil
}

func (b *Builder) WriteTo(out io.Writer) (int64, error) {
	data, err := b.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := out.Write(data)
	return int64(n), err
}
