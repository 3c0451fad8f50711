package stream

import (
	"io"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func TestPrimitives(t *testing.T) {
	w := NewWriter()
	w.U8(0x7f)
	w.U16(0xbeef)
	w.U32(0xdeadbeef)
	w.I32(-5)
	w.F32(1.5)
	w.U32(math.Float32bits(float32(math.NaN())))
	w.U32(0x00018000)
	w.U16(16384)
	w.FixedString("SymName", 12)
	w.LengthString("Pipe")

	r := NewBytesReader(w.Bytes())
	if v, err := r.U8(); err != nil || v != 0x7f {
		t.Fatalf("U8 = %v, %v", v, err)
	}
	if v, err := r.U16(); err != nil || v != 0xbeef {
		t.Fatalf("U16 = %v, %v", v, err)
	}
	if v, err := r.U32(); err != nil || v != 0xdeadbeef {
		t.Fatalf("U32 = %v, %v", v, err)
	}
	if v, err := r.I32(); err != nil || v != -5 {
		t.Fatalf("I32 = %v, %v", v, err)
	}
	if v, err := r.F32(); err != nil || v != 1.5 {
		t.Fatalf("F32 = %v, %v", v, err)
	}
	if v, err := r.F32(); err != nil || v != 0 {
		t.Fatalf("NaN must decode as 0, got %v, %v", v, err)
	}
	if v, err := r.Fixed(); err != nil || v != 1.5 {
		t.Fatalf("Fixed = %v, %v", v, err)
	}
	if v, err := r.Angle(); err != nil || v != 90 {
		t.Fatalf("Angle = %v, %v", v, err)
	}
	if v, err := r.FixedString(12); err != nil || v != "SymName" {
		t.Fatalf("FixedString = %q, %v", v, err)
	}
	if pos, _ := r.Pos(); pos != 1+2+4+4+4+4+4+2+12 {
		t.Fatalf("position after fixed string %d", pos)
	}
	if v, err := r.LengthString(); err != nil || v != "Pipe" {
		t.Fatalf("LengthString = %q, %v", v, err)
	}
	if _, err := r.U8(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestShortRead(t *testing.T) {
	r := NewBytesReader([]byte{1, 2})
	if _, err := r.U32(); err != io.ErrUnexpectedEOF {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
	if _, err := NewBytesReader([]byte("abc")).FixedString(16); err == nil {
		t.Fatalf("expected short fixed string error")
	}
}

func TestInvalidString(t *testing.T) {
	_, err := NewBytesReader([]byte{'o', 0xc3, 0x28, 0}).FixedString(4)
	if errors.Cause(err) != ErrInvalidString {
		t.Fatalf("expected ErrInvalidString, got %v", err)
	}
}

func TestFixedStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "x", "HitPoints", "exactly_16_bytes"} {
		w := NewWriter()
		w.FixedString(s, 16)
		if w.Err() != nil {
			t.Fatal(w.Err())
		}
		got, err := NewBytesReader(w.Bytes()).FixedString(16)
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestVec3Remap(t *testing.T) {
	w := NewWriter()
	w.F32(1)
	w.F32(2)
	w.F32(3)
	v, err := NewBytesReader(w.Bytes()).Vec3()
	if err != nil {
		t.Fatal(err)
	}
	if v != (mgl32.Vec3{-1, 3, 2}) {
		t.Fatalf("remap = %v", v)
	}

	w = NewWriter()
	w.Vec3(mgl32.Vec3{4, 5, 6})
	v, err = NewBytesReader(w.Bytes()).Vec3()
	if err != nil {
		t.Fatal(err)
	}
	if v != (mgl32.Vec3{4, 5, 6}) {
		t.Fatalf("writer/reader disagree: %v", v)
	}
}

func TestQuat(t *testing.T) {
	w := NewWriter()
	// 90 degrees around stored z, which becomes y after the remap
	s := float32(math.Sqrt2 / 2)
	w.F32(0)
	w.F32(0)
	w.F32(s)
	w.F32(s)
	q, err := NewBytesReader(w.Bytes()).Quat()
	if err != nil {
		t.Fatal(err)
	}
	want := mgl32.Quat{W: s, V: mgl32.Vec3{0, -s, 0}}
	if !q.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("quat = %v, want %v", q, want)
	}

	zero, err := NewBytesReader(make([]byte, 16)).Quat()
	if err != nil {
		t.Fatal(err)
	}
	if zero.W != 0 || zero.V != (mgl32.Vec3{}) {
		t.Fatalf("zero quat = %v", zero)
	}
}

func TestPlane(t *testing.T) {
	w := NewWriter()
	w.F32(0)
	w.F32(0)
	w.F32(1)
	w.F32(-8)
	p, err := NewBytesReader(w.Bytes()).Plane()
	if err != nil {
		t.Fatal(err)
	}
	if p.Normal != (mgl32.Vec3{0, 1, 0}) || p.Distance != -8 {
		t.Fatalf("plane = %+v", p)
	}
}

func TestSizeAndRemaining(t *testing.T) {
	r := NewBytesReader(make([]byte, 10))
	if err := r.Skip(3); err != nil {
		t.Fatal(err)
	}
	if n, err := r.Remaining(); err != nil || n != 7 {
		t.Fatalf("remaining %d, %v", n, err)
	}
	if pos, _ := r.Pos(); pos != 3 {
		t.Fatalf("Remaining moved the cursor to %d", pos)
	}
}
