// Package stream decodes little-endian primitives from a seekable byte
// stream, including the engine's left-handed vector convention.
package stream

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/utils"
)

var ErrInvalidString = utils.ErrInvalidString

type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

type Reader struct {
	source io.ReadSeeker
	buf    [8]byte
}

func NewReader(source io.ReadSeeker) *Reader {
	return &Reader{source: source}
}

func NewBytesReader(b []byte) *Reader {
	return &Reader{source: bytes.NewReader(b)}
}

func (r *Reader) Pos() (int64, error) {
	return r.source.Seek(0, io.SeekCurrent)
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	return r.source.Seek(offset, whence)
}

func (r *Reader) Skip(n int64) error {
	_, err := r.source.Seek(n, io.SeekCurrent)
	return err
}

// Size reports the total stream length without moving the cursor.
func (r *Reader) Size() (int64, error) {
	pos, err := r.Pos()
	if err != nil {
		return 0, err
	}
	end, err := r.source.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	_, err = r.source.Seek(pos, io.SeekStart)
	return end, err
}

// Remaining is the number of bytes between the cursor and the end of stream.
func (r *Reader) Remaining() (int64, error) {
	pos, err := r.Pos()
	if err != nil {
		return 0, err
	}
	size, err := r.Size()
	if err != nil {
		return 0, err
	}
	return size - pos, nil
}

func (r *Reader) read(n int) ([]byte, error) {
	if _, err := io.ReadFull(r.source, r.buf[:n]); err != nil {
		return nil, err
	}
	return r.buf[:n], nil
}

func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("negative read size %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.source, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

func (r *Reader) Bool32() (bool, error) {
	v, err := r.U32()
	return v != 0, err
}

// F32 reads a float, NaN is stored by the tools for "unset" and becomes 0.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return Float(v), nil
}

func Float(bits uint32) float32 {
	f := math.Float32frombits(bits)
	if f != f {
		return 0
	}
	return f
}

func (r *Reader) FixedString(size int) (string, error) {
	b, err := r.Bytes(size)
	if err != nil {
		return "", err
	}
	return utils.BytesToString(b)
}

// LengthString reads a u32 length prefixed string.
func (r *Reader) LengthString() (string, error) {
	l, err := r.U32()
	if err != nil {
		return "", err
	}
	if left, err := r.Remaining(); err == nil && int64(l) > left {
		return "", errors.Wrapf(io.ErrUnexpectedEOF, "string of %d bytes, %d left", l, left)
	}
	return r.FixedString(int(l))
}

// Fixed reads a 16.16 fixed point value.
func (r *Reader) Fixed() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return float32(float64(v) / 65536.0), nil
}

// Angle reads a u16 binary angle and returns degrees.
func (r *Reader) Angle() (float32, error) {
	v, err := r.U16()
	if err != nil {
		return 0, err
	}
	return AngleToDegrees(v), nil
}

func AngleToDegrees(v uint16) float32 {
	return float32(float64(v) * 180.0 / 32768.0)
}

// Remap converts a stored (x, y, z) into the right-handed (-x, z, y).
func Remap(x, y, z float32) mgl32.Vec3 {
	return mgl32.Vec3{-x, z, y}
}

func (r *Reader) rawVec3() (x, y, z float32, err error) {
	if x, err = r.F32(); err != nil {
		return
	}
	if y, err = r.F32(); err != nil {
		return
	}
	z, err = r.F32()
	return
}

func (r *Reader) Vec3() (mgl32.Vec3, error) {
	x, y, z, err := r.rawVec3()
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return Remap(x, y, z), nil
}

func (r *Reader) Quat() (mgl32.Quat, error) {
	x, y, z, err := r.rawVec3()
	if err != nil {
		return mgl32.Quat{}, err
	}
	w, err := r.F32()
	if err != nil {
		return mgl32.Quat{}, err
	}
	q := mgl32.Quat{W: w, V: Remap(x, y, z)}
	if q.Len() == 0 {
		return q, nil
	}
	return q.Inverse(), nil
}

func (r *Reader) Plane() (Plane, error) {
	n, err := r.Vec3()
	if err != nil {
		return Plane{}, err
	}
	d, err := r.F32()
	if err != nil {
		return Plane{}, err
	}
	return Plane{Normal: n, Distance: d}, nil
}
