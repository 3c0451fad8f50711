// Package speech reads the per-voice concept tries used to pick voice
// lines.
package speech

import (
	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/namemap"
	"github.com/tommy-xr/shock2quest-sub001/stream"
	"github.com/tommy-xr/shock2quest-sub001/tagdb"
	"github.com/tommy-xr/shock2quest-sub001/weighted"
)

const (
	CHUNK_NAME = "Speech_DB"
	MAX_VOICES = 1024
)

var (
	ErrUnknownVoice   = errors.New("unknown voice")
	ErrUnknownConcept = errors.New("unknown concept")
)

type Voice struct {
	// Concepts is indexed by concept index.
	Concepts []*tagdb.Database
}

type Database struct {
	Concepts *namemap.NameMap
	Tags     *namemap.NameMap
	Values   *namemap.NameMap
	Voices   []Voice
}

func Read(r *stream.Reader) (*Database, error) {
	db := &Database{}
	var err error
	if db.Concepts, err = namemap.Read(r); err != nil {
		return nil, errors.Wrap(err, "concepts")
	}
	if db.Tags, err = namemap.Read(r); err != nil {
		return nil, errors.Wrap(err, "tags")
	}
	if db.Values, err = namemap.Read(r); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	voiceCount, err := r.U32()
	if err != nil {
		return nil, errors.Wrap(err, "voice count")
	}
	if voiceCount > MAX_VOICES {
		return nil, errors.Errorf("voice count %d exceeds %d", voiceCount, MAX_VOICES)
	}
	db.Voices = make([]Voice, voiceCount)
	for v := range db.Voices {
		conceptCount, err := r.U32()
		if err != nil {
			return nil, errors.Wrapf(err, "voice %d concept count", v)
		}
		if left, err := r.Remaining(); err == nil && int64(conceptCount)*8 > left {
			return nil, errors.Errorf("voice %d: %d concepts overrun chunk", v, conceptCount)
		}
		db.Voices[v].Concepts = make([]*tagdb.Database, conceptCount)
		for c := range db.Voices[v].Concepts {
			if db.Voices[v].Concepts[c], err = tagdb.Read(r); err != nil {
				return nil, errors.Wrapf(err, "voice %d concept %d", v, c)
			}
		}
	}
	return db, nil
}

func (db *Database) Vocabulary() tagdb.Vocabulary {
	return tagdb.Vocabulary{Tags: db.Tags, Values: db.Values}
}

func (db *Database) concept(voice int, concept string) (*tagdb.Database, error) {
	if voice < 0 || voice >= len(db.Voices) {
		return nil, errors.Wrapf(ErrUnknownVoice, "voice %d", voice)
	}
	ci, ok := db.Concepts.Index(concept)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownConcept, "%q", concept)
	}
	concepts := db.Voices[voice].Concepts
	if int(ci) >= len(concepts) {
		return nil, errors.Wrapf(ErrUnknownConcept, "%q has no entry for voice %d", concept, voice)
	}
	return concepts[ci], nil
}

// QueryLeaves returns the matching leaves of a voice's concept trie.
func (db *Database) QueryLeaves(voice int, concept string, pairs []tagdb.Pair) ([]tagdb.Leaf, error) {
	tdb, err := db.concept(voice, concept)
	if err != nil {
		return nil, err
	}
	return tdb.QueryMatchAllLeaves(db.Vocabulary().Translate(pairs)), nil
}

// Query returns the schema ids of matching lines.
func (db *Database) Query(voice int, concept string, pairs []tagdb.Pair) ([]int32, error) {
	leaves, err := db.QueryLeaves(voice, concept, pairs)
	if err != nil {
		return nil, err
	}
	res := make([]int32, len(leaves))
	for i, l := range leaves {
		res[i] = l.Data
	}
	return res, nil
}

// Choose draws one schema id among the matches, weighted by leaf weight.
func (db *Database) Choose(src weighted.Source, voice int, concept string, pairs []tagdb.Pair) (int32, error) {
	leaves, err := db.QueryLeaves(voice, concept, pairs)
	if err != nil {
		return 0, err
	}
	return tagdb.ChooseLeaf(src, leaves)
}

// Encode writes a speech database. voices[v][c] is the trie of concept c.
func Encode(w *stream.Writer, concepts, tags, values []string, voices [][]*tagdb.Tree) {
	namemap.Encode(w, concepts)
	namemap.Encode(w, tags)
	namemap.Encode(w, values)
	w.U32(uint32(len(voices)))
	for _, v := range voices {
		w.U32(uint32(len(v)))
		for _, c := range v {
			tagdb.Encode(w, c)
		}
	}
}
