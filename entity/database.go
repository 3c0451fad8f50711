// Package entity flattens per-template property and link records into
// resolved entities, following MetaProp inheritance.
package entity

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
	"github.com/tommy-xr/shock2quest-sub001/link"
	"github.com/tommy-xr/shock2quest-sub001/property"
)

// TemplateID is negative for archetypes and non-negative for concrete
// objects.
type TemplateID int32

func (id TemplateID) IsArchetype() bool { return id < 0 }

type Options struct {
	// Strict turns skipped property records into load errors.
	Strict bool
}

// Database holds the raw records of one or more containers. Records are
// immutable once read; resolved entities are cached.
type Database struct {
	props     map[TemplateID]map[property.Kind]property.Value
	links     map[TemplateID][]link.Link
	relations link.Relations
	// Skipped lists property records that failed to decode.
	Skipped []error

	lock     sync.Mutex
	lin      map[TemplateID][]TemplateID
	entities map[TemplateID]*Entity
}

func NewDatabase() *Database {
	return &Database{
		props:     make(map[TemplateID]map[property.Kind]property.Value),
		links:     make(map[TemplateID][]link.Link),
		relations: link.Relations{""},
		Skipped:   make([]error, 0),
	}
}

// Read loads every known property chunk and all links of f.
func Read(f *chunk.File, opts Options) (*Database, error) {
	db := NewDatabase()
	for _, kind := range property.Kinds() {
		r, ok := f.Reader(kind.ChunkName())
		if !ok {
			continue
		}
		records, skipped, err := property.ReadChunk(kind, r)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", f.Name(), kind.ChunkName())
		}
		if len(skipped) != 0 {
			if opts.Strict {
				return nil, errors.Wrapf(skipped[0], "%s: %s", f.Name(), kind.ChunkName())
			}
			for _, s := range skipped {
				log.Printf("[entity] %s: skipped %v", f.Name(), s)
			}
			db.Skipped = append(db.Skipped, skipped...)
		}
		for _, rec := range records {
			db.SetProperty(TemplateID(rec.Template), rec.Value)
		}
	}

	rels, links, err := link.Load(f)
	if err != nil {
		return nil, err
	}
	db.relations = rels
	for _, l := range links {
		db.AddLink(l)
	}
	return db, nil
}

// SetProperty declares v directly on id, replacing a previous value of
// the same kind.
func (db *Database) SetProperty(id TemplateID, v property.Value) {
	db.invalidate()
	m, ok := db.props[id]
	if !ok {
		m = make(map[property.Kind]property.Value)
		db.props[id] = m
	}
	m[v.Kind()] = v
}

func (db *Database) AddLink(l link.Link) {
	db.invalidate()
	if _, ok := db.relations.Flavor(l.Relation); !ok && l.Relation != "" {
		db.relations = append(db.relations, l.Relation)
	}
	src := TemplateID(l.Source)
	db.links[src] = append(db.links[src], l)
}

func (db *Database) invalidate() {
	db.lock.Lock()
	db.lin = nil
	db.entities = nil
	db.lock.Unlock()
}

func (db *Database) Relations() link.Relations { return db.relations }

// Has reports whether id declares at least one property or outgoing link.
func (db *Database) Has(id TemplateID) bool {
	if _, ok := db.props[id]; ok {
		return true
	}
	_, ok := db.links[id]
	return ok
}

// Templates returns all known template ids in ascending order.
func (db *Database) Templates() []TemplateID {
	seen := make(map[TemplateID]struct{}, len(db.props)+len(db.links))
	for id := range db.props {
		seen[id] = struct{}{}
	}
	for id := range db.links {
		seen[id] = struct{}{}
	}
	ids := make([]TemplateID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Direct returns the properties declared on id itself.
func (db *Database) Direct(id TemplateID) map[property.Kind]property.Value {
	res := make(map[property.Kind]property.Value, len(db.props[id]))
	for k, v := range db.props[id] {
		res[k] = v
	}
	return res
}

// DirectLinks returns the outgoing links declared on id itself.
func (db *Database) DirectLinks(id TemplateID) []link.Link {
	return append([]link.Link(nil), db.links[id]...)
}

// Parents returns the MetaProp parents of id in application order:
// ascending priority, ties broken by ascending link id. Parents that are
// not known templates are dropped.
func (db *Database) Parents(id TemplateID) []TemplateID {
	metas := make([]link.Link, 0)
	for _, l := range db.links[id] {
		if !strings.EqualFold(l.Relation, link.RelationMetaProp) {
			continue
		}
		if !db.Has(TemplateID(l.Dest)) {
			log.Printf("[entity] template %d: MetaProp link 0x%x to unknown template %d dropped", id, l.ID, l.Dest)
			continue
		}
		metas = append(metas, l)
	}
	sort.SliceStable(metas, func(i, j int) bool {
		pi, pj := metas[i].Priority(), metas[j].Priority()
		if pi != pj {
			return pi < pj
		}
		return metas[i].ID < metas[j].ID
	})
	res := make([]TemplateID, len(metas))
	for i, l := range metas {
		res[i] = TemplateID(l.Dest)
	}
	return res
}

// Merge combines archetype data with mission objects. Mission records
// replace gamesys records of the same template and kind; links of both
// are kept.
func Merge(gamesys, mission *Database) *Database {
	db := NewDatabase()
	for _, src := range []*Database{gamesys, mission} {
		if src == nil {
			continue
		}
		for id, props := range src.props {
			for _, v := range props {
				db.SetProperty(id, v)
			}
		}
		for _, id := range src.Templates() {
			for _, l := range src.links[id] {
				db.AddLink(l)
			}
		}
		db.Skipped = append(db.Skipped, src.Skipped...)
	}
	return db
}
