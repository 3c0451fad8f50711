package entity

import (
	"sort"
	"strings"

	"github.com/tommy-xr/shock2quest-sub001/link"
	"github.com/tommy-xr/shock2quest-sub001/property"
)

// Entity is the flattened view of one template.
type Entity struct {
	ID TemplateID
	// Ancestors in application order, farthest first.
	Ancestors  []TemplateID
	Properties map[property.Kind]property.Value
	Links      []link.Link
}

func (e *Entity) Property(kind property.Kind) (property.Value, bool) {
	v, ok := e.Properties[kind]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	v, ok := e.Properties[property.KindSymName].(property.SymName)
	return string(v), ok
}

func (e *Entity) ShortName() (string, bool) {
	v, ok := e.Properties[property.KindObjShort].(property.ObjShort)
	return string(v), ok
}

func (e *Entity) ModelName() (string, bool) {
	v, ok := e.Properties[property.KindModelName].(property.ModelName)
	return string(v), ok
}

func (e *Entity) Position() (property.Position, bool) {
	v, ok := e.Properties[property.KindPosition].(property.Position)
	return v, ok
}

func (e *Entity) Scripts() []string {
	v, _ := e.Properties[property.KindScripts].(property.Scripts)
	return v.Names
}

func (e *Entity) ClassTags() []property.TagPair {
	v, _ := e.Properties[property.KindClassTags].(property.ClassTags)
	return v.Pairs()
}

func (e *Entity) MaterialTags() []property.TagPair {
	v, _ := e.Properties[property.KindMaterialTags].(property.MaterialTags)
	return v.Pairs()
}

func (e *Entity) SchemaPlayParams() (property.SchemaPlayParams, bool) {
	v, ok := e.Properties[property.KindSchemaPlayParams].(property.SchemaPlayParams)
	return v, ok
}

// LinksOf returns the resolved links of one relation.
func (e *Entity) LinksOf(relation string) []link.Link {
	res := make([]link.Link, 0)
	for _, l := range e.Links {
		if strings.EqualFold(l.Relation, relation) {
			res = append(res, l)
		}
	}
	return res
}

// InheritsFrom reports whether id is one of the entity's ancestors.
func (e *Entity) InheritsFrom(id TemplateID) bool {
	for _, a := range e.Ancestors {
		if a == id {
			return true
		}
	}
	return false
}

// World is the immutable result of one world build.
type World struct {
	entities map[TemplateID]*Entity
	byName   map[string]TemplateID
	names    map[TemplateID]string
	ids      []TemplateID
}

func (w *World) Get(id TemplateID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// ByName looks a template up by its own, non-inherited SymName.
func (w *World) ByName(name string) (*Entity, bool) {
	id, ok := w.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return w.entities[id], true
}

// NameOf returns the SymName declared on id itself.
func (w *World) NameOf(id TemplateID) (string, bool) {
	n, ok := w.names[id]
	return n, ok
}

func (w *World) Len() int { return len(w.ids) }

// IDs returns all template ids in ascending order.
func (w *World) IDs() []TemplateID {
	return append([]TemplateID(nil), w.ids...)
}

// Concrete returns the ids of non-archetype templates.
func (w *World) Concrete() []TemplateID {
	res := make([]TemplateID, 0)
	for _, id := range w.ids {
		if !id.IsArchetype() {
			res = append(res, id)
		}
	}
	return res
}

// Names returns the declared names, sorted.
func (w *World) Names() []string {
	res := make([]string, 0, len(w.byName))
	for _, id := range w.byName {
		if n, ok := w.entities[id].Name(); ok {
			res = append(res, n)
		}
	}
	sort.Strings(res)
	return res
}
