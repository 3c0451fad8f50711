package tagdb

import (
	"log"
	"strconv"

	"github.com/tommy-xr/shock2quest-sub001/namemap"
)

// Pair is a query criterion by name. An empty Value asks for the tag's
// presence only.
type Pair struct {
	Tag      string
	Value    string `json:",omitempty"`
	Optional bool   `json:",omitempty"`
}

// Vocabulary maps tag and value names to the indices stored in a trie.
type Vocabulary struct {
	Tags   *namemap.NameMap
	Values *namemap.NameMap
}

// Translate turns named pairs into terms. Pairs whose tag or value is not
// in the vocabulary are dropped; values absent from the value map that
// parse as integers become TermInt.
func (v Vocabulary) Translate(pairs []Pair) []Term {
	terms := make([]Term, 0, len(pairs))
	for _, p := range pairs {
		t, ok := v.term(p)
		if !ok {
			if Verbose {
				log.Printf("[tagdb] dropped unresolved pair %q=%q", p.Tag, p.Value)
			}
			continue
		}
		if p.Optional {
			t = t.AsOptional()
		}
		terms = append(terms, t)
	}
	return terms
}

func (v Vocabulary) term(p Pair) (Term, bool) {
	tag, ok := v.Tags.Index(p.Tag)
	if !ok {
		return Term{}, false
	}
	if p.Value == "" {
		return PresentTerm(tag), true
	}
	if v.Values != nil {
		if value, ok := v.Values.Index(p.Value); ok {
			if value >= 0xff {
				return Term{}, false
			}
			return EnumTerm(tag, uint8(value)), true
		}
	}
	if n, err := strconv.ParseInt(p.Value, 10, 32); err == nil {
		return IntTerm(tag, int32(n)), true
	}
	return Term{}, false
}

// Verbose enables logging of dropped pairs.
var Verbose = false
