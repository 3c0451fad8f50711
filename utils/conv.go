package utils

import (
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/transform"

	"github.com/tommy-xr/shock2quest-sub001/config"
)

var ErrInvalidString = errors.New("invalid string bytes")

func BytesStringLength(bs []byte) int {
	if l := bytes.IndexByte(bs, 0); l == -1 {
		return len(bs)
	} else {
		return l
	}
}

// BytesToString truncates at the first NUL and decodes the rest with the
// configured charmap, or validates it as UTF-8 when none is set.
func BytesToString(bs []byte) (string, error) {
	bs = bs[:BytesStringLength(bs)]

	if cm := config.GetEncoding(); cm != nil {
		s, _, err := transform.Bytes(cm.NewDecoder(), bs)
		if err != nil {
			return "", errors.Wrapf(ErrInvalidString, "%v", err)
		}
		return string(s), nil
	}

	if !utf8.Valid(bs) {
		return "", errors.Wrapf(ErrInvalidString, "%q is not utf-8", bs)
	}
	return string(bs), nil
}

// StringToBytesBuffer encodes s into a zero padded buffer of bufSize bytes.
func StringToBytesBuffer(s string, bufSize int) ([]byte, error) {
	bs := []byte(s)
	if cm := config.GetEncoding(); cm != nil {
		var err error
		if bs, _, err = transform.Bytes(cm.NewEncoder(), bs); err != nil {
			return nil, errors.Wrapf(err, "encode %q", s)
		}
	}
	if len(bs) > bufSize {
		return nil, errors.Errorf("string %q does not fit into %d bytes", s, bufSize)
	}
	r := make([]byte, bufSize)
	copy(r, bs)
	return r, nil
}
