package property

import (
	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

// Encode produces the on-disk bytes of a value, the inverse of Decode.
func Encode(v Value) ([]byte, error) {
	w := stream.NewWriter()
	switch v := v.(type) {
	case SymName:
		w.Raw(append([]byte(v), 0))
	case ObjShort:
		w.Raw(append([]byte(v), 0))
	case AI:
		w.Raw(append([]byte(v), 0))
	case ClassTags:
		w.Raw(append([]byte(v), 0))
	case MaterialTags:
		w.Raw(append([]byte(v), 0))
	case ModelName:
		w.FixedString(string(v), MODEL_NAME_SIZE)
	case HitPoints:
		w.I32(int32(v))
	case MaxHitPoints:
		w.I32(int32(v))
	case Immobile:
		w.Bool32(bool(v))
	case RenderType:
		w.U32(uint32(v))
	case Scripts:
		if len(v.Names) > SCRIPT_SLOTS {
			return nil, errors.Errorf("%d scripts do not fit into %d slots", len(v.Names), SCRIPT_SLOTS)
		}
		for i := 0; i < SCRIPT_SLOTS; i++ {
			name := ""
			if i < len(v.Names) {
				name = v.Names[i]
			}
			w.FixedString(name, SCRIPT_NAME_SIZE)
		}
		w.Bool32(v.DontInherit)
	case Position:
		w.Vec3(v.Location)
		w.U16(v.Cell)
		w.U16(0)
		w.Angle(v.Bank)
		w.Angle(v.Pitch)
		w.Angle(v.Heading)
	case Scale:
		w.F32(v[0])
		w.F32(v[2])
		w.F32(v[1])
	case FrobInfo:
		w.U32(v.World)
		w.U32(v.Inventory)
		w.U32(v.Tool)
		w.U32(0)
	case PhysType:
		w.U32(uint32(v.Model))
		w.U32(v.SubModels)
		w.Bool32(v.RemoveOnSleep)
		w.Bool32(v.Special)
	case Light:
		w.F32(v.Brightness)
		w.Vec3(v.Offset)
		w.F32(v.Radius)
	case AmbientHacked:
		w.I32(v.Radius)
		w.I32(v.Volume)
		w.U32(v.Flags)
		w.FixedString(v.Schema, SCHEMA_NAME_SIZE)
		w.FixedString(v.Aux1, SCHEMA_NAME_SIZE)
		w.FixedString(v.Aux2, SCHEMA_NAME_SIZE)
	case SchemaPlayParams:
		w.U32(v.Flags)
		w.I32(v.Volume)
		w.I32(v.InitialDelay)
		w.I32(v.Pan)
		w.I32(v.Fade)
	case TweqRotate:
		w.Raw([]byte{v.Halt, v.AnimFlags, v.MiscFlags, v.CurveFlags})
		w.U16(v.PrimaryAxis)
		w.U16(0)
		for _, a := range v.Axes {
			w.F32(a.Rate)
			w.F32(a.Low)
			w.F32(a.High)
		}
	default:
		return nil, errors.Errorf("cannot encode %T", v)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeChunk writes records in the P$ chunk layout.
func EncodeChunk(records []Record) ([]byte, error) {
	w := stream.NewWriter()
	for _, rec := range records {
		data, err := Encode(rec.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "template %d", rec.Template)
		}
		data = append(data, rec.Trailing...)
		w.I32(rec.Template)
		w.U32(uint32(len(data)))
		w.Raw(data)
	}
	return w.Bytes(), nil
}
