package property

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

const RECORD_HEADER_SIZE = 4 + 4

// ErrRecordLength marks a record whose declared length is shorter than
// what its decoder needs.
var ErrRecordLength = errors.New("property record length mismatch")

type Record struct {
	Template int32
	Kind     Kind
	Value    Value
	// Trailing holds bytes past the decoded value. Some kinds carry
	// undocumented trailing fields; they are kept opaque.
	Trailing []byte `json:",omitempty"`
}

// Decode decodes one value of kind from data and reports how many bytes the
// decoder consumed.
func Decode(kind Kind, data []byte) (Value, int, error) {
	if !kind.valid() {
		return nil, 0, errors.Errorf("invalid property kind %d", kind)
	}
	r := stream.NewBytesReader(data)
	v, err := definitions[kind].decode(r, len(data))
	if err != nil {
		if c := errors.Cause(err); c == io.EOF || c == io.ErrUnexpectedEOF {
			return nil, 0, errors.Wrapf(ErrRecordLength, "%s needs more than %d bytes", kind, len(data))
		}
		return nil, 0, errors.Wrapf(err, "decode %s", kind)
	}
	pos, err := r.Pos()
	if err != nil {
		return nil, 0, err
	}
	if pos > int64(len(data)) {
		return nil, 0, errors.Wrapf(ErrRecordLength, "%s consumed %d of %d bytes", kind, pos, len(data))
	}
	return v, int(pos), nil
}

// Merge combines an inherited value with a closer one according to the
// kind's policy.
func Merge(kind Kind, older, newer Value) Value {
	if older == nil {
		return newer
	}
	if newer == nil {
		return older
	}
	d := definitions[kind]
	if d.policy == Accumulate && d.merge != nil {
		return d.merge(older, newer)
	}
	return newer
}

// RecordError describes a record that was skipped.
type RecordError struct {
	Kind     Kind
	Template int32
	Offset   int64
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s record of template %d at 0x%x: %v", e.Kind, e.Template, e.Offset, e.Err)
}

func (e *RecordError) Cause() error  { return e.Err }
func (e *RecordError) Unwrap() error { return e.Err }

// ReadChunk reads {i32 template, u32 length, data} records to the end of the
// chunk. Records that fail to decode are skipped and returned as
// *RecordError; a truncated record header or body is fatal.
func ReadChunk(kind Kind, r *stream.Reader) ([]Record, []error, error) {
	records := make([]Record, 0)
	skipped := make([]error, 0)
	for {
		offset, err := r.Pos()
		if err != nil {
			return nil, nil, err
		}
		template, err := r.I32()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, errors.Wrapf(err, "%s record header at 0x%x", kind, offset)
		}
		length, err := r.U32()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s record header at 0x%x", kind, offset)
		}
		left, err := r.Remaining()
		if err != nil {
			return nil, nil, err
		}
		if int64(length) > left {
			return nil, nil, errors.Errorf("%s record of template %d at 0x%x declares %d bytes, %d left", kind, template, offset, length, left)
		}
		data, err := r.Bytes(int(length))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s record body at 0x%x", kind, offset)
		}

		v, consumed, err := Decode(kind, data)
		if err != nil {
			skipped = append(skipped, &RecordError{Kind: kind, Template: template, Offset: offset, Err: err})
			continue
		}
		rec := Record{Template: template, Kind: kind, Value: v}
		if consumed < len(data) {
			rec.Trailing = data[consumed:]
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}
