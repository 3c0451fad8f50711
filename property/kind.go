// Package property defines the closed set of property kinds stored in
// P$ chunks, how each is decoded and how values combine down an
// archetype chain.
package property

import (
	"strings"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

type Kind int

const (
	KindSymName Kind = iota
	KindObjShort
	KindModelName
	KindHitPoints
	KindMaxHitPoints
	KindRenderType
	KindAI
	KindScripts
	KindPosition
	KindScale
	KindImmobile
	KindFrobInfo
	KindPhysType
	KindLight
	KindAmbientHacked
	KindClassTags
	KindMaterialTags
	KindSchemaPlayParams
	KindTweqRotate
	kindCount
)

const CHUNK_PREFIX = "P$"

type Policy int

const (
	// Latest lets the value closest to the template replace inherited ones.
	Latest Policy = iota
	// Accumulate combines the inherited value with the closer one.
	Accumulate
)

func (p Policy) String() string {
	if p == Accumulate {
		return "accumulate"
	}
	return "latest"
}

type decodeFunc func(r *stream.Reader, size int) (Value, error)

type mergeFunc func(older, newer Value) Value

type definition struct {
	name   string
	chunk  string
	policy Policy
	decode decodeFunc
	merge  mergeFunc
}

var definitions = [kindCount]definition{
	KindSymName:          {name: "SymName", chunk: "P$SymName", decode: decodeSymName},
	KindObjShort:         {name: "ObjShort", chunk: "P$ObjShort", decode: decodeObjShort},
	KindModelName:        {name: "ModelName", chunk: "P$ModelName", decode: decodeModelName},
	KindHitPoints:        {name: "HitPoints", chunk: "P$HitPoints", decode: decodeHitPoints},
	KindMaxHitPoints:     {name: "MaxHitPoints", chunk: "P$MAX_HP", decode: decodeMaxHitPoints},
	KindRenderType:       {name: "RenderType", chunk: "P$RenderTyp", decode: decodeRenderType},
	KindAI:               {name: "AI", chunk: "P$AI", decode: decodeAI},
	KindScripts:          {name: "Scripts", chunk: "P$Scripts", decode: decodeScripts, policy: Accumulate, merge: mergeScripts},
	KindPosition:         {name: "Position", chunk: "P$Position", decode: decodePosition},
	KindScale:            {name: "Scale", chunk: "P$Scale", decode: decodeScale},
	KindImmobile:         {name: "Immobile", chunk: "P$Immobile", decode: decodeImmobile},
	KindFrobInfo:         {name: "FrobInfo", chunk: "P$FrobInfo", decode: decodeFrobInfo},
	KindPhysType:         {name: "PhysType", chunk: "P$PhysType", decode: decodePhysType},
	KindLight:            {name: "Light", chunk: "P$Light", decode: decodeLight},
	KindAmbientHacked:    {name: "AmbientHacked", chunk: "P$AmbientHac", decode: decodeAmbientHacked},
	KindClassTags:        {name: "ClassTags", chunk: "P$Class Tag", decode: decodeClassTags},
	KindMaterialTags:     {name: "MaterialTags", chunk: "P$Material T", decode: decodeMaterialTags},
	KindSchemaPlayParams: {name: "SchemaPlayParams", chunk: "P$SchPlayPar", decode: decodeSchemaPlayParams},
	KindTweqRotate:       {name: "TweqRotate", chunk: "P$CfgTweqRot", decode: decodeTweqRotate},
}

func (k Kind) valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	if !k.valid() {
		return "Unknown"
	}
	return definitions[k].name
}

func (k Kind) ChunkName() string {
	if !k.valid() {
		return ""
	}
	return definitions[k].chunk
}

func (k Kind) Policy() Policy {
	if !k.valid() {
		return Latest
	}
	return definitions[k].policy
}

func Kinds() []Kind {
	res := make([]Kind, kindCount)
	for i := range res {
		res[i] = Kind(i)
	}
	return res
}

func KindByChunk(chunk string) (Kind, bool) {
	for i, d := range definitions {
		if d.chunk == chunk {
			return Kind(i), true
		}
	}
	return 0, false
}

func KindByName(name string) (Kind, bool) {
	for i, d := range definitions {
		if strings.EqualFold(d.name, name) {
			return Kind(i), true
		}
	}
	return 0, false
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	kind, ok := KindByName(string(b))
	if !ok {
		return &UnknownKindError{Name: string(b)}
	}
	*k = kind
	return nil
}

type UnknownKindError struct {
	Name string
}

func (e *UnknownKindError) Error() string {
	return "unknown property kind " + e.Name
}
