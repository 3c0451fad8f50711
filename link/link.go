// Package link reads typed relations between templates from the
// Relations, L$ and LD$ chunks.
package link

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

const (
	RELATIONS_CHUNK     = "Relations"
	LINK_PREFIX         = "L$"
	DATA_PREFIX         = "LD$"
	RELATION_NAME_SIZE  = 32
	LINK_RECORD_SIZE    = 4 + 4 + 4 + 2
	SCRIPT_PARAMS_SIZE  = 32
	RelationMetaProp    = "MetaProp"
	RelationContains    = "Contains"
	RelationSwitchLink  = "SwitchLink"
	RelationScriptParam = "ScriptParams"
)

type ID uint32

// Link is a directed edge between two templates.
type Link struct {
	ID     ID
	Source int32
	Dest   int32
	// Flavor indexes the Relations chunk.
	Flavor   uint16
	Relation string
	Data     Data `json:",omitempty"`
}

type Data interface{}

type MetaProp struct {
	Priority uint32
}

type Contains struct {
	Ordinal int32
}

type ScriptParams struct {
	Param string
}

// Opaque holds data of relations this package does not interpret.
type Opaque []byte

// Disambiguator tells apart links of one relation leaving one template.
// Contains links with different ordinals to the same destination coexist.
func (l *Link) Disambiguator() string {
	switch d := l.Data.(type) {
	case Contains:
		return fmt.Sprintf("%d:%d", l.Dest, d.Ordinal)
	case ScriptParams:
		return fmt.Sprintf("%d:%s", l.Dest, strings.ToLower(d.Param))
	}
	return fmt.Sprint(l.Dest)
}

// Priority is the MetaProp priority, 0 for other relations.
func (l *Link) Priority() uint32 {
	if mp, ok := l.Data.(MetaProp); ok {
		return mp.Priority
	}
	return 0
}

func ChunkName(relation string) string {
	return LINK_PREFIX + relation
}

func DataChunkName(relation string) string {
	return DATA_PREFIX + relation
}

// Relations maps flavor indices to relation names. Index 0 is unused.
type Relations []string

func ReadRelations(r *stream.Reader) (Relations, error) {
	count, err := r.U32()
	if err != nil {
		return nil, errors.Wrap(err, "relation count")
	}
	if left, err := r.Remaining(); err == nil && int64(count)*RELATION_NAME_SIZE > left {
		return nil, errors.Errorf("relation count %d overruns chunk (%d bytes left)", count, left)
	}
	rels := make(Relations, 1, count+1)
	for i := uint32(1); i <= count; i++ {
		name, err := r.FixedString(RELATION_NAME_SIZE)
		if err != nil {
			return nil, errors.Wrapf(err, "relation %d", i)
		}
		rels = append(rels, name)
	}
	return rels, nil
}

func (rels Relations) Name(flavor uint16) (string, bool) {
	if flavor == 0 || int(flavor) >= len(rels) {
		return "", false
	}
	return rels[flavor], true
}

func (rels Relations) Flavor(name string) (uint16, bool) {
	for i := 1; i < len(rels); i++ {
		if strings.EqualFold(rels[i], name) {
			return uint16(i), true
		}
	}
	return 0, false
}

// ReadLinks reads fixed size records of an L$ chunk.
func ReadLinks(relation string, r *stream.Reader) ([]Link, error) {
	links := make([]Link, 0)
	for {
		id, err := r.U32()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "%s link %d", relation, len(links))
		}
		l := Link{ID: ID(id), Relation: relation}
		if l.Source, err = r.I32(); err != nil {
			return nil, errors.Wrapf(err, "%s link 0x%x", relation, id)
		}
		if l.Dest, err = r.I32(); err != nil {
			return nil, errors.Wrapf(err, "%s link 0x%x", relation, id)
		}
		if l.Flavor, err = r.U16(); err != nil {
			return nil, errors.Wrapf(err, "%s link 0x%x", relation, id)
		}
		links = append(links, l)
	}
	return links, nil
}

// ReadData reads an LD$ chunk: a u32 record size then {u32 link id, data}.
func ReadData(relation string, r *stream.Reader) (map[ID]Data, error) {
	size, err := r.U32()
	if err != nil {
		return nil, errors.Wrapf(err, "%s data size", relation)
	}
	res := make(map[ID]Data)
	for {
		id, err := r.U32()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "%s data record", relation)
		}
		raw, err := r.Bytes(int(size))
		if err != nil {
			return nil, errors.Wrapf(err, "%s data of link 0x%x", relation, id)
		}
		d, err := DecodeData(relation, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s data of link 0x%x", relation, id)
		}
		res[ID(id)] = d
	}
	return res, nil
}

func DecodeData(relation string, raw []byte) (Data, error) {
	r := stream.NewBytesReader(raw)
	switch relation {
	case RelationMetaProp:
		p, err := r.U32()
		return MetaProp{Priority: p}, err
	case RelationContains:
		o, err := r.I32()
		return Contains{Ordinal: o}, err
	case RelationScriptParam:
		n := len(raw)
		if n > SCRIPT_PARAMS_SIZE {
			n = SCRIPT_PARAMS_SIZE
		}
		s, err := r.FixedString(n)
		return ScriptParams{Param: s}, err
	}
	return Opaque(append([]byte(nil), raw...)), nil
}
