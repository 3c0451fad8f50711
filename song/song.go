// Package song reads SNG music tracks and walks their sections.
package song

import (
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
	"github.com/tommy-xr/shock2quest-sub001/weighted"
)

const (
	NAME_SIZE         = 9
	CONTACT_SIZE      = 27
	SECTION_NAME_SIZE = 36
	WAV_NAME_SIZE     = 32
	SCHEMA_NAME_SIZE  = 36
	MAX_SECTIONS      = 4096
)

var ErrNoOptions = errors.New("section has no options")

type SubOption struct {
	Next        uint32
	Probability uint32
}

type Option struct {
	Schema     string
	SubOptions []SubOption
}

// Keywords of the option: its schema name split on commas and spaces,
// lowercased.
func (o *Option) Keywords() []string {
	return splitKeywords(o.Schema)
}

func (o *Option) Matches(cue string) bool {
	cue = strings.ToLower(cue)
	for _, k := range o.Keywords() {
		if k == cue {
			return true
		}
	}
	return false
}

func splitKeywords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

type Section struct {
	Name    string
	Unk0    uint32
	Unk1    uint32
	Wav     string
	Options []Option
}

// NextOption picks the next section index. The first option whose keywords
// contain cue is used, option 0 when cue is empty or nothing matches.
func (s *Section) NextOption(src weighted.Source, cue string) (int, error) {
	if len(s.Options) == 0 {
		return 0, ErrNoOptions
	}
	opt := &s.Options[0]
	if cue != "" {
		for i := range s.Options {
			if s.Options[i].Matches(cue) {
				opt = &s.Options[i]
				break
			}
		}
	}
	weights := make([]uint32, len(opt.SubOptions))
	for i, sub := range opt.SubOptions {
		weights[i] = sub.Probability
	}
	idx, err := weighted.NewIndex(weights)
	if err != nil {
		return 0, errors.Wrapf(err, "section %q option %q", s.Name, opt.Schema)
	}
	return int(opt.SubOptions[idx.Pick(src)].Next), nil
}

type Song struct {
	Header   uint32
	Name     string
	Contact  string
	Sections []Section
}

func Read(in io.Reader) (*Song, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	r := stream.NewBytesReader(data)

	s := &Song{}
	if s.Header, err = r.U32(); err != nil {
		return nil, errors.Wrap(err, "header")
	}
	if s.Name, err = r.FixedString(NAME_SIZE); err != nil {
		return nil, errors.Wrap(err, "name")
	}
	if s.Contact, err = r.FixedString(CONTACT_SIZE); err != nil {
		return nil, errors.Wrap(err, "contact")
	}
	count, err := r.U32()
	if err != nil {
		return nil, errors.Wrap(err, "section count")
	}
	if count > MAX_SECTIONS {
		return nil, errors.Errorf("section count %d exceeds %d", count, MAX_SECTIONS)
	}
	s.Sections = make([]Section, count)
	for i := range s.Sections {
		if err := readSection(r, &s.Sections[i]); err != nil {
			return nil, errors.Wrapf(err, "section %d", i)
		}
	}
	return s, nil
}

func readSection(r *stream.Reader, sec *Section) error {
	var err error
	if sec.Name, err = r.FixedString(SECTION_NAME_SIZE); err != nil {
		return err
	}
	if sec.Unk0, err = r.U32(); err != nil {
		return err
	}
	if sec.Unk1, err = r.U32(); err != nil {
		return err
	}
	if sec.Wav, err = r.FixedString(WAV_NAME_SIZE); err != nil {
		return err
	}
	count, err := r.U32()
	if err != nil {
		return err
	}
	if left, err := r.Remaining(); err == nil && int64(count)*(SCHEMA_NAME_SIZE+4) > left {
		return errors.Errorf("%d options overrun file", count)
	}
	sec.Options = make([]Option, count)
	for i := range sec.Options {
		opt := &sec.Options[i]
		if opt.Schema, err = r.FixedString(SCHEMA_NAME_SIZE); err != nil {
			return errors.Wrapf(err, "option %d", i)
		}
		subCount, err := r.U32()
		if err != nil {
			return errors.Wrapf(err, "option %d", i)
		}
		if left, err := r.Remaining(); err == nil && int64(subCount)*8 > left {
			return errors.Errorf("option %d: %d sub options overrun file", i, subCount)
		}
		opt.SubOptions = make([]SubOption, subCount)
		for j := range opt.SubOptions {
			if opt.SubOptions[j].Next, err = r.U32(); err != nil {
				return errors.Wrapf(err, "option %d sub option %d", i, j)
			}
			if opt.SubOptions[j].Probability, err = r.U32(); err != nil {
				return errors.Wrapf(err, "option %d sub option %d", i, j)
			}
		}
	}
	return nil
}

func (s *Song) Encode(w *stream.Writer) {
	w.U32(s.Header)
	w.FixedString(s.Name, NAME_SIZE)
	w.FixedString(s.Contact, CONTACT_SIZE)
	w.U32(uint32(len(s.Sections)))
	for _, sec := range s.Sections {
		w.FixedString(sec.Name, SECTION_NAME_SIZE)
		w.U32(sec.Unk0)
		w.U32(sec.Unk1)
		w.FixedString(sec.Wav, WAV_NAME_SIZE)
		w.U32(uint32(len(sec.Options)))
		for _, opt := range sec.Options {
			w.FixedString(opt.Schema, SCHEMA_NAME_SIZE)
			w.U32(uint32(len(opt.SubOptions)))
			for _, sub := range opt.SubOptions {
				w.U32(sub.Next)
				w.U32(sub.Probability)
			}
		}
	}
}
