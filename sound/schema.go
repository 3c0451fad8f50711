// Package sound reads sound schemas: weighted lists of samples addressed
// by schema template id or name.
package sound

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/entity"
	"github.com/tommy-xr/shock2quest-sub001/property"
	"github.com/tommy-xr/shock2quest-sub001/stream"
	"github.com/tommy-xr/shock2quest-sub001/weighted"
)

const CHUNK_NAME = "SchSamp"

var ErrUnknownSchema = errors.New("unknown sound schema")

type Sample struct {
	Name      string
	Frequency uint8
}

type Schema struct {
	ID      entity.TemplateID
	Name    string `json:",omitempty"`
	Samples []Sample
	// PlayParams is nil when the schema template has no play params.
	PlayParams *property.SchemaPlayParams `json:",omitempty"`
}

// RandomSample draws a sample name weighted by frequency.
func (s *Schema) RandomSample(src weighted.Source) (string, error) {
	weights := make([]uint32, len(s.Samples))
	for i, smp := range s.Samples {
		weights[i] = uint32(smp.Frequency)
	}
	smp, err := weighted.Choose(src, s.Samples, weights)
	if err != nil {
		return "", errors.Wrapf(err, "schema %d", s.ID)
	}
	return smp.Name, nil
}

type Database struct {
	byID   map[entity.TemplateID]*Schema
	byName map[string]*Schema
	ids    []entity.TemplateID
}

// ReadSchemas reads a SchSamp chunk. world may be nil, then schemas are
// only addressable by id.
func ReadSchemas(r *stream.Reader, world *entity.World) (*Database, error) {
	db := &Database{
		byID:   make(map[entity.TemplateID]*Schema),
		byName: make(map[string]*Schema),
	}
	for {
		id, err := r.I32()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "schema %d header", len(db.ids))
		}
		count, err := r.U32()
		if err != nil {
			return nil, errors.Wrapf(err, "schema %d sample count", id)
		}
		if left, err := r.Remaining(); err == nil && int64(count)*5 > left {
			return nil, errors.Errorf("schema %d: %d samples overrun chunk", id, count)
		}
		s := &Schema{ID: entity.TemplateID(id), Samples: make([]Sample, count)}
		for i := range s.Samples {
			if s.Samples[i].Name, err = r.LengthString(); err != nil {
				return nil, errors.Wrapf(err, "schema %d sample %d", id, i)
			}
			if s.Samples[i].Frequency, err = r.U8(); err != nil {
				return nil, errors.Wrapf(err, "schema %d sample %d", id, i)
			}
		}
		db.add(s, world)
	}
	return db, nil
}

func (db *Database) add(s *Schema, world *entity.World) {
	if _, dup := db.byID[s.ID]; !dup {
		db.ids = append(db.ids, s.ID)
	}
	db.byID[s.ID] = s
	if world == nil {
		return
	}
	if name, ok := world.NameOf(s.ID); ok {
		s.Name = name
		db.byName[strings.ToLower(name)] = s
	}
	if e, ok := world.Get(s.ID); ok {
		if pp, ok := e.SchemaPlayParams(); ok {
			s.PlayParams = &pp
		}
	}
}

func (db *Database) ByID(id entity.TemplateID) (*Schema, bool) {
	s, ok := db.byID[id]
	return s, ok
}

func (db *Database) ByName(name string) (*Schema, bool) {
	s, ok := db.byName[strings.ToLower(name)]
	return s, ok
}

// IDs returns schema ids in chunk order.
func (db *Database) IDs() []entity.TemplateID {
	return append([]entity.TemplateID(nil), db.ids...)
}

func (db *Database) Len() int { return len(db.ids) }

func (db *Database) GetRandomSample(src weighted.Source, name string) (string, error) {
	s, ok := db.ByName(name)
	if !ok {
		return "", errors.Wrapf(ErrUnknownSchema, "%q", name)
	}
	return s.RandomSample(src)
}

func (db *Database) GetRandomSampleByID(src weighted.Source, id entity.TemplateID) (string, error) {
	s, ok := db.ByID(id)
	if !ok {
		return "", errors.Wrapf(ErrUnknownSchema, "id %d", id)
	}
	return s.RandomSample(src)
}

// Encode writes schemas in SchSamp layout.
func Encode(w *stream.Writer, schemas []Schema) {
	for _, s := range schemas {
		w.I32(int32(s.ID))
		w.U32(uint32(len(s.Samples)))
		for _, smp := range s.Samples {
			w.LengthString(smp.Name)
			w.U8(smp.Frequency)
		}
	}
}
