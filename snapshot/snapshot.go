// Package snapshot stores resolved worlds in a bbolt file so two builds of
// a mission can be compared.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"sort"
	"time"

	"github.com/pkg/errors"
	bbolt "go.etcd.io/bbolt"

	"github.com/tommy-xr/shock2quest-sub001/entity"
)

var (
	bucketMeta     = []byte("meta")
	bucketEntities = []byte("entities")

	keyCreated = []byte("created")
	keySource  = []byte("source")
)

// View is the stored form of one resolved entity.
type View struct {
	ID        entity.TemplateID
	Ancestors []entity.TemplateID
	// Properties are keyed by property kind name.
	Properties map[string]json.RawMessage
	Links      []json.RawMessage
}

type Snapshot struct {
	Source   string
	Created  time.Time
	Entities map[entity.TemplateID]*View
}

func idToKey(id entity.TemplateID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(int64(id)+1<<32))
	return buf
}

func keyToID(key []byte) entity.TemplateID {
	return entity.TemplateID(int64(binary.BigEndian.Uint64(key)) - 1<<32)
}

func encodeEntity(e *entity.Entity) ([]byte, error) {
	return json.Marshal(e)
}

// Save writes every entity of w to path, replacing a previous snapshot.
func Save(path, source string, w *entity.World) error {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return errors.Wrapf(err, "snapshot: open %s", path)
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketEntities} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
		}
		meta, err := tx.CreateBucket(bucketMeta)
		if err != nil {
			return err
		}
		created, err := time.Now().UTC().MarshalText()
		if err != nil {
			return err
		}
		if err := meta.Put(keyCreated, created); err != nil {
			return err
		}
		if err := meta.Put(keySource, []byte(source)); err != nil {
			return err
		}

		b, err := tx.CreateBucket(bucketEntities)
		if err != nil {
			return err
		}
		for _, id := range w.IDs() {
			e, _ := w.Get(id)
			data, err := encodeEntity(e)
			if err != nil {
				return errors.Wrapf(err, "snapshot: encode template %d", id)
			}
			if err := b.Put(idToKey(id), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func Load(path string) (*Snapshot, error) {
	db, err := bbolt.Open(path, 0400, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: open %s", path)
	}
	defer db.Close()

	s := &Snapshot{Entities: make(map[entity.TemplateID]*View)}
	err = db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		b := tx.Bucket(bucketEntities)
		if meta == nil || b == nil {
			return errors.New("not a snapshot file")
		}
		s.Source = string(meta.Get(keySource))
		if err := s.Created.UnmarshalText(meta.Get(keyCreated)); err != nil {
			return errors.Wrap(err, "created")
		}
		return b.ForEach(func(k, v []byte) error {
			var view View
			if err := json.Unmarshal(v, &view); err != nil {
				return errors.Wrapf(err, "template %d", keyToID(k))
			}
			s.Entities[keyToID(k)] = &view
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: load %s", path)
	}
	return s, nil
}

// FromWorld builds the in-memory form of a snapshot without a file.
func FromWorld(source string, w *entity.World) (*Snapshot, error) {
	s := &Snapshot{Source: source, Created: time.Now().UTC(), Entities: make(map[entity.TemplateID]*View)}
	for _, id := range w.IDs() {
		e, _ := w.Get(id)
		data, err := encodeEntity(e)
		if err != nil {
			return nil, errors.Wrapf(err, "template %d", id)
		}
		var view View
		if err := json.Unmarshal(data, &view); err != nil {
			return nil, errors.Wrapf(err, "template %d", id)
		}
		s.Entities[id] = &view
	}
	return s, nil
}

type ChangeType int

const (
	Added ChangeType = iota
	Removed
	Changed
)

func (c ChangeType) String() string {
	switch c {
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return "changed"
}

type Change struct {
	ID   entity.TemplateID
	Type ChangeType
	// Properties lists the kinds that differ for Changed entries.
	Properties []string `json:",omitempty"`
	Links      bool     `json:",omitempty"`
}

// Diff lists templates that differ between two snapshots, by ascending id.
func Diff(old, new *Snapshot) []Change {
	res := make([]Change, 0)
	for id, nv := range new.Entities {
		ov, ok := old.Entities[id]
		if !ok {
			res = append(res, Change{ID: id, Type: Added})
			continue
		}
		if c, changed := diffView(ov, nv); changed {
			res = append(res, c)
		}
	}
	for id := range old.Entities {
		if _, ok := new.Entities[id]; !ok {
			res = append(res, Change{ID: id, Type: Removed})
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func diffView(o, n *View) (Change, bool) {
	c := Change{ID: n.ID, Type: Changed, Properties: make([]string, 0)}
	for kind, nv := range n.Properties {
		if ov, ok := o.Properties[kind]; !ok || !bytes.Equal(ov, nv) {
			c.Properties = append(c.Properties, kind)
		}
	}
	for kind := range o.Properties {
		if _, ok := n.Properties[kind]; !ok {
			c.Properties = append(c.Properties, kind)
		}
	}
	sort.Strings(c.Properties)
	if len(o.Links) != len(n.Links) {
		c.Links = true
	} else {
		for i := range o.Links {
			if !bytes.Equal(o.Links[i], n.Links[i]) {
				c.Links = true
				break
			}
		}
	}
	changed := len(c.Properties) != 0 || c.Links || !equalIDs(o.Ancestors, n.Ancestors)
	return c, changed
}

func equalIDs(a, b []entity.TemplateID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
