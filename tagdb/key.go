package tagdb

import "encoding/binary"

type TermKind uint8

const (
	// TermEnum matches keys listing Enum among their packed values.
	TermEnum TermKind = iota
	// TermInt matches keys whose [Min, Max] contains Value.
	TermInt
	// TermPresent matches any key of the same type.
	TermPresent
)

func (k TermKind) String() string {
	switch k {
	case TermEnum:
		return "enum"
	case TermInt:
		return "int"
	case TermPresent:
		return "present"
	}
	return "unknown"
}

type Term struct {
	Type     uint32
	Kind     TermKind
	Enum     uint8
	Value    int32
	Optional bool
}

func EnumTerm(tagType uint32, value uint8) Term {
	return Term{Type: tagType, Kind: TermEnum, Enum: value}
}

func IntTerm(tagType uint32, value int32) Term {
	return Term{Type: tagType, Kind: TermInt, Value: value}
}

func PresentTerm(tagType uint32) Term {
	return Term{Type: tagType, Kind: TermPresent}
}

func (t Term) AsOptional() Term {
	t.Optional = true
	return t
}

// Key is a branch label. Discrete sets of up to eight enum values are packed
// into the bytes of Min and Max, unused bytes hold 0xff.
type Key struct {
	Type  uint32
	Min   int32
	Max   int32
	Enums []uint8 `json:",omitempty"`
}

func NewKey(tagType uint32, min, max int32) Key {
	k := Key{Type: tagType, Min: min, Max: max}
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(min))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(max))
	for _, b := range buf {
		if b != 0xff {
			k.Enums = append(k.Enums, b)
		}
	}
	return k
}

func EnumKey(tagType uint32, values ...uint8) Key {
	if len(values) > 8 {
		panic("enum key holds at most 8 values")
	}
	var buf [8]byte
	for i := range buf {
		buf[i] = 0xff
	}
	copy(buf[:], values)
	return NewKey(tagType,
		int32(binary.LittleEndian.Uint32(buf[0:4])),
		int32(binary.LittleEndian.Uint32(buf[4:8])))
}

func RangeKey(tagType uint32, min, max int32) Key {
	return NewKey(tagType, min, max)
}

func (k Key) Matches(t Term) bool {
	if k.Type != t.Type {
		return false
	}
	switch t.Kind {
	case TermEnum:
		for _, e := range k.Enums {
			if e == t.Enum {
				return true
			}
		}
		return false
	case TermInt:
		return k.Min <= t.Value && t.Value <= k.Max
	case TermPresent:
		return true
	}
	return false
}
