package entity

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/link"
	"github.com/tommy-xr/shock2quest-sub001/property"
)

var ErrUnknownTemplate = errors.New("unknown template")

// CycleError reports MetaProp inheritance that loops back on itself.
// Path starts and ends with the same template.
type CycleError struct {
	Path []TemplateID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprint(id)
	}
	return "metaproperty cycle: " + strings.Join(parts, " -> ")
}

// Linearize returns the ancestors of id followed by id itself. Each
// parent's own linearization is emitted in parent order and only the first
// occurrence of a template is kept.
func (db *Database) Linearize(id TemplateID) ([]TemplateID, error) {
	db.lock.Lock()
	defer db.lock.Unlock()
	return db.linearize(id, make([]TemplateID, 0), make(map[TemplateID]bool))
}

func (db *Database) linearize(id TemplateID, stack []TemplateID, onStack map[TemplateID]bool) ([]TemplateID, error) {
	if onStack[id] {
		path := make([]TemplateID, 0, len(stack)+1)
		for i, s := range stack {
			if s == id {
				path = append(path, stack[i:]...)
				break
			}
		}
		return nil, &CycleError{Path: append(path, id)}
	}
	if db.lin == nil {
		db.lin = make(map[TemplateID][]TemplateID)
	}
	if cached, ok := db.lin[id]; ok {
		return cached, nil
	}

	onStack[id] = true
	stack = append(stack, id)
	defer delete(onStack, id)

	res := make([]TemplateID, 0)
	seen := make(map[TemplateID]bool)
	for _, parent := range db.Parents(id) {
		sub, err := db.linearize(parent, stack, onStack)
		if err != nil {
			return nil, err
		}
		for _, a := range sub {
			if !seen[a] {
				seen[a] = true
				res = append(res, a)
			}
		}
	}
	if !seen[id] {
		res = append(res, id)
	}
	db.lin[id] = res
	return res, nil
}

// Resolve flattens the properties and links of id. Results are cached and
// shared between callers; they must not be modified.
func (db *Database) Resolve(id TemplateID) (*Entity, error) {
	db.lock.Lock()
	defer db.lock.Unlock()
	return db.resolve(id)
}

func (db *Database) resolve(id TemplateID) (*Entity, error) {
	if e, ok := db.entities[id]; ok {
		return e, nil
	}
	if !db.Has(id) {
		return nil, errors.Wrapf(ErrUnknownTemplate, "template %d", id)
	}
	order, err := db.linearize(id, make([]TemplateID, 0), make(map[TemplateID]bool))
	if err != nil {
		return nil, err
	}

	e := &Entity{
		ID:         id,
		Ancestors:  make([]TemplateID, len(order)-1),
		Properties: make(map[property.Kind]property.Value),
		Links:      make([]link.Link, 0),
	}
	copy(e.Ancestors, order)
	var keys []string
	for _, t := range order {
		for _, kind := range property.Kinds() {
			if v, ok := db.props[t][kind]; ok {
				e.Properties[kind] = property.Merge(kind, e.Properties[kind], v)
			}
		}
		e.Links, keys = overrideLinks(e.Links, keys, db.ownLinks(id, t))
	}

	if db.entities == nil {
		db.entities = make(map[TemplateID]*Entity)
	}
	db.entities[id] = e
	return e, nil
}

// ownLinks returns the resolvable links declared on t, re-sourced to id.
func (db *Database) ownLinks(id, t TemplateID) []link.Link {
	res := make([]link.Link, 0, len(db.links[t]))
	for _, l := range db.links[t] {
		if strings.EqualFold(l.Relation, link.RelationMetaProp) {
			continue
		}
		if !db.Has(TemplateID(l.Dest)) {
			continue
		}
		l.Source = int32(id)
		res = append(res, l)
	}
	return res
}

func linkKey(l *link.Link) string {
	return strings.ToLower(l.Relation) + "/" + l.Disambiguator()
}

// overrideLinks lays the links of one template over the inherited ones.
// Inherited links sharing a key with an own link are replaced, the own links
// of that key taking the place of the first inherited one. Own links never
// replace each other.
func overrideLinks(inherited []link.Link, inheritedKeys []string, own []link.Link) ([]link.Link, []string) {
	if len(own) == 0 {
		return inherited, inheritedKeys
	}
	ownKeys := make([]string, len(own))
	byKey := make(map[string][]int)
	for i := range own {
		ownKeys[i] = linkKey(&own[i])
		byKey[ownKeys[i]] = append(byKey[ownKeys[i]], i)
	}

	links := make([]link.Link, 0, len(inherited)+len(own))
	keys := make([]string, 0, len(inherited)+len(own))
	placed := make(map[string]bool)
	for i, l := range inherited {
		k := inheritedKeys[i]
		idx, overridden := byKey[k]
		if !overridden {
			links = append(links, l)
			keys = append(keys, k)
			continue
		}
		if placed[k] {
			continue
		}
		placed[k] = true
		for _, j := range idx {
			links = append(links, own[j])
			keys = append(keys, k)
		}
	}
	for i, l := range own {
		if !placed[ownKeys[i]] {
			links = append(links, l)
			keys = append(keys, ownKeys[i])
		}
	}
	return links, keys
}

// ResolveAll resolves every known template. A cycle anywhere fails the
// whole build.
func (db *Database) ResolveAll() (*World, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	w := &World{
		entities: make(map[TemplateID]*Entity),
		byName:   make(map[string]TemplateID),
		names:    make(map[TemplateID]string),
	}
	for _, id := range db.Templates() {
		e, err := db.resolve(id)
		if err != nil {
			return nil, err
		}
		w.entities[id] = e
		w.ids = append(w.ids, id)
		if name, ok := db.props[id][property.KindSymName].(property.SymName); ok && name != "" {
			w.names[id] = string(name)
			key := strings.ToLower(string(name))
			if prev, dup := w.byName[key]; dup {
				log.Printf("[entity] name %q used by templates %d and %d", name, prev, id)
				continue
			}
			w.byName[key] = id
		}
	}
	return w, nil
}
