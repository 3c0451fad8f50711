// Package namemap reads sparse index <-> name tables.
package namemap

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

const (
	NAME_SIZE = 16
	PRESENT   = '+'
)

type NameMap struct {
	UpperBound int32
	LowerBound int32
	Slots      uint32

	nameToIndex map[string]uint32
	indexToName map[uint32]string
}

func New() *NameMap {
	return &NameMap{
		nameToIndex: make(map[string]uint32),
		indexToName: make(map[uint32]string),
	}
}

func Read(r *stream.Reader) (*NameMap, error) {
	nm := New()
	var err error
	if nm.UpperBound, err = r.I32(); err != nil {
		return nil, errors.Wrapf(err, "namemap upper bound")
	}
	if nm.LowerBound, err = r.I32(); err != nil {
		return nil, errors.Wrapf(err, "namemap lower bound")
	}
	if nm.Slots, err = r.U32(); err != nil {
		return nil, errors.Wrapf(err, "namemap slot count")
	}
	for i := uint32(0); i < nm.Slots; i++ {
		flag, err := r.U8()
		if err != nil {
			return nil, errors.Wrapf(err, "namemap slot %d", i)
		}
		if flag != PRESENT {
			continue
		}
		name, err := r.FixedString(NAME_SIZE)
		if err != nil {
			return nil, errors.Wrapf(err, "namemap slot %d name", i)
		}
		nm.set(i, name)
	}
	return nm, nil
}

func (nm *NameMap) set(index uint32, name string) {
	name = strings.ToLower(name)
	nm.nameToIndex[name] = index
	nm.indexToName[index] = name
}

// Index looks the name up case-insensitively.
func (nm *NameMap) Index(name string) (uint32, bool) {
	i, ok := nm.nameToIndex[strings.ToLower(name)]
	return i, ok
}

func (nm *NameMap) Name(index uint32) (string, bool) {
	n, ok := nm.indexToName[index]
	return n, ok
}

func (nm *NameMap) Count() int {
	return len(nm.indexToName)
}

func (nm *NameMap) Indices() []uint32 {
	res := make([]uint32, 0, len(nm.indexToName))
	for i := range nm.indexToName {
		res = append(res, i)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Encode writes names in the slot layout; empty strings are absent slots.
func Encode(w *stream.Writer, slots []string) {
	w.I32(int32(len(slots)) - 1)
	w.I32(0)
	w.U32(uint32(len(slots)))
	for _, name := range slots {
		if name == "" {
			w.U8(0)
			continue
		}
		w.U8(PRESENT)
		w.FixedString(name, NAME_SIZE)
	}
}
