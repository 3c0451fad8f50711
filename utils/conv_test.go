package utils

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/config"
)

var bytesToStringTests = []struct {
	in  []byte
	out string
}{
	{[]byte{}, ""},
	{[]byte{0, 'a', 'b'}, ""},
	{[]byte("medsci1\x00\x00\x00"), "medsci1"},
	{[]byte("exactly16bytes!!"), "exactly16bytes!!"},
	{[]byte("door\x00garbage"), "door"},
}

func TestBytesToString(t *testing.T) {
	for _, test := range bytesToStringTests {
		result, err := BytesToString(test.in)
		if err != nil {
			t.Errorf("BytesToString(%q) error %v", test.in, err)
		} else if result != test.out {
			t.Errorf("BytesToString(%q)=%q; expected %q", test.in, result, test.out)
		}
	}
}

func TestBytesToStringInvalid(t *testing.T) {
	if _, err := BytesToString([]byte{'a', 0xff, 0xfe}); errors.Cause(err) != ErrInvalidString {
		t.Fatalf("expected ErrInvalidString, got %v", err)
	}

	if err := config.SetEncoding("Windows 1252"); err != nil {
		t.Fatal(err)
	}
	defer config.SetEncoding("")

	s, err := BytesToString([]byte{'c', 'a', 'f', 0xe9})
	if err != nil {
		t.Fatal(err)
	}
	if s != "café" {
		t.Fatalf("got %q", s)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "obj_short", "sixteen_chars_xx"} {
		buf, err := StringToBytesBuffer(s, 16)
		if err != nil {
			t.Fatalf("StringToBytesBuffer(%q): %v", s, err)
		}
		if len(buf) != 16 {
			t.Fatalf("buffer length %d", len(buf))
		}
		back, err := BytesToString(buf)
		if err != nil {
			t.Fatal(err)
		}
		if back != s {
			t.Errorf("round trip %q -> %q", s, back)
		}
	}

	if _, err := StringToBytesBuffer("this string is too long", 8); err == nil {
		t.Fatalf("expected overflow error")
	}
}
