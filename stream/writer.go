package stream

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tommy-xr/shock2quest-sub001/utils"
)

// Writer is the encoding counterpart of Reader, used to build containers
// and fixtures. Encoding errors are sticky and reported by Err.
type Writer struct {
	buf bytes.Buffer
	err error
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Err() error        { return w.err }
func (w *Writer) Len() int          { return w.buf.Len() }
func (w *Writer) Bytes() []byte     { return w.buf.Bytes() }
func (w *Writer) Raw(b []byte)      { w.buf.Write(b) }
func (w *Writer) U8(v uint8)        { w.buf.WriteByte(v) }
func (w *Writer) I32(v int32)       { w.U32(uint32(v)) }
func (w *Writer) F32(v float32)     { w.U32(math.Float32bits(v)) }
func (w *Writer) Bool32(v bool)     { w.U32(b2u(v)) }
func (w *Writer) Zero(n int)        { w.buf.Write(make([]byte, n)) }
func (w *Writer) Angle(deg float32) { w.U16(uint16(math.Round(float64(deg) * 32768.0 / 180.0))) }

func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) FixedString(s string, size int) {
	b, err := utils.StringToBytesBuffer(s, size)
	if err != nil {
		if w.err == nil {
			w.err = err
		}
		b = make([]byte, size)
	}
	w.buf.Write(b)
}

func (w *Writer) LengthString(s string) {
	w.U32(uint32(len(s)))
	w.buf.WriteString(s)
}

// Vec3 stores v in the left-handed layout Reader.Vec3 expects.
func (w *Writer) Vec3(v mgl32.Vec3) {
	w.F32(-v[0])
	w.F32(v[2])
	w.F32(v[1])
}

func b2u(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
