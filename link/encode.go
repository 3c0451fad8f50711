package link

import (
	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

func (rels Relations) Encode() ([]byte, error) {
	w := stream.NewWriter()
	w.U32(uint32(len(rels) - 1))
	for _, name := range rels[1:] {
		w.FixedString(name, RELATION_NAME_SIZE)
	}
	return w.Bytes(), w.Err()
}

func EncodeLinks(links []Link) []byte {
	w := stream.NewWriter()
	for _, l := range links {
		w.U32(uint32(l.ID))
		w.I32(l.Source)
		w.I32(l.Dest)
		w.U16(l.Flavor)
	}
	return w.Bytes()
}

// EncodeData writes an LD$ chunk. Every record must encode to size bytes.
func EncodeData(size int, links []Link) ([]byte, error) {
	w := stream.NewWriter()
	w.U32(uint32(size))
	for _, l := range links {
		raw, err := encodeData(l.Data, size)
		if err != nil {
			return nil, errors.Wrapf(err, "link 0x%x", l.ID)
		}
		w.U32(uint32(l.ID))
		w.Raw(raw)
	}
	return w.Bytes(), w.Err()
}

func encodeData(d Data, size int) ([]byte, error) {
	w := stream.NewWriter()
	switch d := d.(type) {
	case MetaProp:
		w.U32(d.Priority)
	case Contains:
		w.I32(d.Ordinal)
	case ScriptParams:
		w.FixedString(d.Param, size)
	case Opaque:
		w.Raw(d)
	default:
		return nil, errors.Errorf("unsupported link data %T", d)
	}
	if w.Len() != size {
		return nil, errors.Errorf("link data is %d bytes, record size is %d", w.Len(), size)
	}
	return w.Bytes(), w.Err()
}
