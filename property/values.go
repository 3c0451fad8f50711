package property

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

type Value interface {
	Kind() Kind
}

type SymName string
type ObjShort string
type ModelName string
type HitPoints int32
type MaxHitPoints int32
type AI string
type Immobile bool
type ClassTags string
type MaterialTags string

func (SymName) Kind() Kind      { return KindSymName }
func (ObjShort) Kind() Kind     { return KindObjShort }
func (ModelName) Kind() Kind    { return KindModelName }
func (HitPoints) Kind() Kind    { return KindHitPoints }
func (MaxHitPoints) Kind() Kind { return KindMaxHitPoints }
func (AI) Kind() Kind           { return KindAI }
func (Immobile) Kind() Kind     { return KindImmobile }
func (ClassTags) Kind() Kind    { return KindClassTags }
func (MaterialTags) Kind() Kind { return KindMaterialTags }

type RenderType uint32

const (
	RenderNormal RenderType = iota
	RenderNotRendered
	RenderUnlit
	RenderEditorOnly
)

func (RenderType) Kind() Kind { return KindRenderType }

func (rt RenderType) String() string {
	switch rt {
	case RenderNormal:
		return "Normal"
	case RenderNotRendered:
		return "NotRendered"
	case RenderUnlit:
		return "Unlit"
	case RenderEditorOnly:
		return "EditorOnly"
	}
	return "Unknown"
}

const (
	SCRIPT_SLOTS     = 4
	SCRIPT_NAME_SIZE = 32
	MODEL_NAME_SIZE  = 16
	SCHEMA_NAME_SIZE = 16
)

type Scripts struct {
	Names       []string
	DontInherit bool
}

func (Scripts) Kind() Kind { return KindScripts }

type Position struct {
	Location mgl32.Vec3
	Cell     uint16
	// degrees
	Bank    float32
	Pitch   float32
	Heading float32
}

func (Position) Kind() Kind { return KindPosition }

func (p Position) Rotation() mgl32.Quat {
	return mgl32.AnglesToQuat(
		mgl32.DegToRad(p.Heading),
		mgl32.DegToRad(p.Pitch),
		mgl32.DegToRad(p.Bank),
		mgl32.YXZ)
}

type Scale mgl32.Vec3

func (Scale) Kind() Kind { return KindScale }

type FrobInfo struct {
	World     uint32
	Inventory uint32
	Tool      uint32
}

func (FrobInfo) Kind() Kind { return KindFrobInfo }

type PhysModel uint32

const (
	PhysOBB PhysModel = iota
	PhysSphere
	PhysSphereHat
	PhysNone
)

type PhysType struct {
	Model         PhysModel
	SubModels     uint32
	RemoveOnSleep bool
	Special       bool
}

func (PhysType) Kind() Kind { return KindPhysType }

type Light struct {
	Brightness float32
	Offset     mgl32.Vec3
	Radius     float32
}

func (Light) Kind() Kind { return KindLight }

type AmbientHacked struct {
	Radius int32
	Volume int32
	Flags  uint32
	Schema string
	Aux1   string
	Aux2   string
}

func (AmbientHacked) Kind() Kind { return KindAmbientHacked }

type SchemaPlayParams struct {
	Flags        uint32
	Volume       int32
	InitialDelay int32
	Pan          int32
	Fade         int32
}

func (SchemaPlayParams) Kind() Kind { return KindSchemaPlayParams }

type TweqAxis struct {
	Rate float32
	Low  float32
	High float32
}

type TweqRotate struct {
	Halt        uint8
	AnimFlags   uint8
	MiscFlags   uint8
	CurveFlags  uint8
	PrimaryAxis uint16
	Axes        [3]TweqAxis
}

func (TweqRotate) Kind() Kind { return KindTweqRotate }

// string properties have no fixed size, the record length is the string
func readSizedString(r *stream.Reader, size int) (string, error) {
	return r.FixedString(size)
}

func decodeSymName(r *stream.Reader, size int) (Value, error) {
	s, err := readSizedString(r, size)
	return SymName(s), err
}

func decodeObjShort(r *stream.Reader, size int) (Value, error) {
	s, err := readSizedString(r, size)
	return ObjShort(s), err
}

func decodeAI(r *stream.Reader, size int) (Value, error) {
	s, err := readSizedString(r, size)
	return AI(s), err
}

func decodeClassTags(r *stream.Reader, size int) (Value, error) {
	s, err := readSizedString(r, size)
	return ClassTags(s), err
}

func decodeMaterialTags(r *stream.Reader, size int) (Value, error) {
	s, err := readSizedString(r, size)
	return MaterialTags(s), err
}

func decodeModelName(r *stream.Reader, size int) (Value, error) {
	s, err := r.FixedString(MODEL_NAME_SIZE)
	return ModelName(s), err
}

func decodeHitPoints(r *stream.Reader, size int) (Value, error) {
	v, err := r.I32()
	return HitPoints(v), err
}

func decodeMaxHitPoints(r *stream.Reader, size int) (Value, error) {
	v, err := r.I32()
	return MaxHitPoints(v), err
}

func decodeImmobile(r *stream.Reader, size int) (Value, error) {
	v, err := r.Bool32()
	return Immobile(v), err
}

func decodeRenderType(r *stream.Reader, size int) (Value, error) {
	v, err := r.U32()
	if err != nil {
		return nil, err
	}
	if RenderType(v) > RenderEditorOnly {
		return nil, errors.Errorf("unknown render type %d", v)
	}
	return RenderType(v), nil
}

func decodeScripts(r *stream.Reader, size int) (Value, error) {
	s := Scripts{Names: make([]string, 0, SCRIPT_SLOTS)}
	for i := 0; i < SCRIPT_SLOTS; i++ {
		name, err := r.FixedString(SCRIPT_NAME_SIZE)
		if err != nil {
			return nil, errors.Wrapf(err, "script slot %d", i)
		}
		if name != "" {
			s.Names = append(s.Names, name)
		}
	}
	var err error
	s.DontInherit, err = r.Bool32()
	return s, err
}

func mergeScripts(older, newer Value) Value {
	n := newer.(Scripts)
	if n.DontInherit {
		return n
	}
	o := older.(Scripts)
	res := Scripts{Names: make([]string, 0, len(o.Names)+len(n.Names)), DontInherit: n.DontInherit}
	seen := make(map[string]struct{})
	for _, list := range [][]string{o.Names, n.Names} {
		for _, name := range list {
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			res.Names = append(res.Names, name)
		}
	}
	return res
}

func decodePosition(r *stream.Reader, size int) (Value, error) {
	var p Position
	var err error
	if p.Location, err = r.Vec3(); err != nil {
		return nil, err
	}
	if p.Cell, err = r.U16(); err != nil {
		return nil, err
	}
	if err = r.Skip(2); err != nil {
		return nil, err
	}
	if p.Bank, err = r.Angle(); err != nil {
		return nil, err
	}
	if p.Pitch, err = r.Angle(); err != nil {
		return nil, err
	}
	p.Heading, err = r.Angle()
	return p, err
}

// scale is a per-axis factor, only the axis order changes
func decodeScale(r *stream.Reader, size int) (Value, error) {
	var v [3]float32
	for i := range v {
		f, err := r.F32()
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	return Scale{v[0], v[2], v[1]}, nil
}

func decodeFrobInfo(r *stream.Reader, size int) (Value, error) {
	var f FrobInfo
	var err error
	if f.World, err = r.U32(); err != nil {
		return nil, err
	}
	if f.Inventory, err = r.U32(); err != nil {
		return nil, err
	}
	if f.Tool, err = r.U32(); err != nil {
		return nil, err
	}
	return f, r.Skip(4)
}

func decodePhysType(r *stream.Reader, size int) (Value, error) {
	var p PhysType
	model, err := r.U32()
	if err != nil {
		return nil, err
	}
	if PhysModel(model) > PhysNone {
		return nil, errors.Errorf("unknown physics model %d", model)
	}
	p.Model = PhysModel(model)
	if p.SubModels, err = r.U32(); err != nil {
		return nil, err
	}
	if p.RemoveOnSleep, err = r.Bool32(); err != nil {
		return nil, err
	}
	p.Special, err = r.Bool32()
	return p, err
}

func decodeLight(r *stream.Reader, size int) (Value, error) {
	var l Light
	var err error
	if l.Brightness, err = r.F32(); err != nil {
		return nil, err
	}
	if l.Offset, err = r.Vec3(); err != nil {
		return nil, err
	}
	l.Radius, err = r.F32()
	return l, err
}

func decodeAmbientHacked(r *stream.Reader, size int) (Value, error) {
	var a AmbientHacked
	var err error
	if a.Radius, err = r.I32(); err != nil {
		return nil, err
	}
	if a.Volume, err = r.I32(); err != nil {
		return nil, err
	}
	if a.Flags, err = r.U32(); err != nil {
		return nil, err
	}
	if a.Schema, err = r.FixedString(SCHEMA_NAME_SIZE); err != nil {
		return nil, err
	}
	if a.Aux1, err = r.FixedString(SCHEMA_NAME_SIZE); err != nil {
		return nil, err
	}
	a.Aux2, err = r.FixedString(SCHEMA_NAME_SIZE)
	return a, err
}

func decodeSchemaPlayParams(r *stream.Reader, size int) (Value, error) {
	var p SchemaPlayParams
	var err error
	if p.Flags, err = r.U32(); err != nil {
		return nil, err
	}
	if p.Volume, err = r.I32(); err != nil {
		return nil, err
	}
	if p.InitialDelay, err = r.I32(); err != nil {
		return nil, err
	}
	if p.Pan, err = r.I32(); err != nil {
		return nil, err
	}
	p.Fade, err = r.I32()
	return p, err
}

func decodeTweqRotate(r *stream.Reader, size int) (Value, error) {
	var t TweqRotate
	b, err := r.Bytes(4)
	if err != nil {
		return nil, err
	}
	t.Halt, t.AnimFlags, t.MiscFlags, t.CurveFlags = b[0], b[1], b[2], b[3]
	if t.PrimaryAxis, err = r.U16(); err != nil {
		return nil, err
	}
	if err = r.Skip(2); err != nil {
		return nil, err
	}
	for i := range t.Axes {
		a := &t.Axes[i]
		if a.Rate, err = r.F32(); err != nil {
			return nil, err
		}
		if a.Low, err = r.F32(); err != nil {
			return nil, err
		}
		if a.High, err = r.F32(); err != nil {
			return nil, err
		}
	}
	return t, nil
}
