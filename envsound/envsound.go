// Package envsound picks environmental sounds from the ENV_SOUND trie by
// event and object tags.
package envsound

import (
	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/entity"
	"github.com/tommy-xr/shock2quest-sub001/namemap"
	"github.com/tommy-xr/shock2quest-sub001/stream"
	"github.com/tommy-xr/shock2quest-sub001/tagdb"
	"github.com/tommy-xr/shock2quest-sub001/weighted"
)

const CHUNK_NAME = "ENV_SOUND"

type Database struct {
	Tags   *namemap.NameMap
	Values *namemap.NameMap
	Tree   *tagdb.Database
}

func Read(r *stream.Reader) (*Database, error) {
	db := &Database{}
	var err error
	if db.Tags, err = namemap.Read(r); err != nil {
		return nil, errors.Wrap(err, "tags")
	}
	if db.Values, err = namemap.Read(r); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	if db.Tree, err = tagdb.Read(r); err != nil {
		return nil, errors.Wrap(err, "tag database")
	}
	return db, nil
}

// Translate resolves named pairs, silently dropping unknown names.
func (db *Database) Translate(pairs []tagdb.Pair) []tagdb.Term {
	return tagdb.Vocabulary{Tags: db.Tags, Values: db.Values}.Translate(pairs)
}

// Query returns schema ids matching every pair.
func (db *Database) Query(pairs []tagdb.Pair) []int32 {
	return db.Tree.QueryMatchAll(db.Translate(pairs))
}

// Choose draws a schema id among the matches by leaf weight.
func (db *Database) Choose(src weighted.Source, pairs []tagdb.Pair) (int32, error) {
	return tagdb.ChooseLeaf(src, db.Tree.QueryMatchAllLeaves(db.Translate(pairs)))
}

// EntityPairs extends event pairs with the object's class tags, which must
// match, and material tags, which may.
func EntityPairs(e *entity.Entity, event []tagdb.Pair) []tagdb.Pair {
	pairs := append([]tagdb.Pair(nil), event...)
	if e == nil {
		return pairs
	}
	for _, t := range e.ClassTags() {
		pairs = append(pairs, tagdb.Pair{Tag: t.Tag, Value: t.Value})
	}
	for _, t := range e.MaterialTags() {
		pairs = append(pairs, tagdb.Pair{Tag: t.Tag, Value: t.Value, Optional: true})
	}
	return pairs
}

// ForEntity queries with event pairs plus the entity's tags.
func (db *Database) ForEntity(e *entity.Entity, event []tagdb.Pair) []int32 {
	return db.Query(EntityPairs(e, event))
}

func (db *Database) ChooseForEntity(src weighted.Source, e *entity.Entity, event []tagdb.Pair) (int32, error) {
	return db.Choose(src, EntityPairs(e, event))
}

func Encode(w *stream.Writer, tags, values []string, tree *tagdb.Tree) {
	namemap.Encode(w, tags)
	namemap.Encode(w, values)
	tagdb.Encode(w, tree)
}
