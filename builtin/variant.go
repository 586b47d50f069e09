package builtin

import (
	"math"
	"strconv"
	"unsafe"

	"github.com/wippyai/gdext/sys"
)

// VariantType is the tag of a Variant. Values match the host's numbering.
type VariantType uint32

const (
	VariantNil        VariantType = 0
	VariantBool       VariantType = 1
	VariantInt        VariantType = 2
	VariantFloat      VariantType = 3
	VariantString     VariantType = 4
	VariantVector3    VariantType = 9
	VariantStringName VariantType = 21
	VariantObject     VariantType = 24
)

func (t VariantType) String() string {
	switch t {
	case VariantNil:
		return "Nil"
	case VariantBool:
		return "bool"
	case VariantInt:
		return "int"
	case VariantFloat:
		return "float"
	case VariantString:
		return "String"
	case VariantVector3:
		return "Vector3"
	case VariantStringName:
		return "StringName"
	case VariantObject:
		return "Object"
	default:
		return "VariantType(" + strconv.FormatUint(uint64(t), 10) + ")"
	}
}

type variantOpaque struct {
	typ  VariantType
	_    uint32
	data [2]uint64
	ptr  unsafe.Pointer
}

// Variant is the tagged dynamic value used by reflective calls. Two variants
// are == when they hold the same type and representation; strings compare by
// host record, which the host interns.
type Variant struct {
	sys.ValueCell[variantOpaque]
}

func variantOf(t VariantType) Variant {
	var v Variant
	v.Opaque.typ = t
	return v
}

// Nil returns the variant representing "no value".
func Nil() Variant { return Variant{} }

func FromBool(b bool) Variant {
	v := variantOf(VariantBool)
	if b {
		v.Opaque.data[0] = 1
	}
	return v
}

func FromInt(i int64) Variant {
	v := variantOf(VariantInt)
	v.Opaque.data[0] = uint64(i)
	return v
}

func FromFloat(f float64) Variant {
	v := variantOf(VariantFloat)
	v.Opaque.data[0] = math.Float64bits(f)
	return v
}

func FromString(s GodotString) Variant {
	v := variantOf(VariantString)
	v.Opaque.ptr = s.Sys()
	return v
}

func FromStringName(n StringName) Variant {
	v := variantOf(VariantStringName)
	v.Opaque.ptr = n.Sys()
	return v
}

func FromVector3(vec Vector3) Variant {
	v := variantOf(VariantVector3)
	*(*Vector3)(unsafe.Pointer(&v.Opaque.data)) = vec
	return v
}

// FromObject stores an object reference. The variant does not own a reference
// count; converting it back into a handle does.
func FromObject(id sys.InstanceID, ptr sys.ObjectPtr) Variant {
	if ptr == nil {
		return Nil()
	}
	v := variantOf(VariantObject)
	v.Opaque.data[0] = uint64(id)
	v.Opaque.ptr = unsafe.Pointer(ptr)
	return v
}

func (v Variant) Type() VariantType { return v.Opaque.typ }

func (v Variant) IsNil() bool { return v.Opaque.typ == VariantNil }

func (v Variant) AsBool() (bool, bool) {
	if v.Opaque.typ != VariantBool {
		return false, false
	}
	return v.Opaque.data[0] != 0, true
}

func (v Variant) AsInt() (int64, bool) {
	if v.Opaque.typ != VariantInt {
		return 0, false
	}
	return int64(v.Opaque.data[0]), true
}

func (v Variant) AsFloat() (float64, bool) {
	if v.Opaque.typ != VariantFloat {
		return 0, false
	}
	return math.Float64frombits(v.Opaque.data[0]), true
}

func (v Variant) AsString() (GodotString, bool) {
	if v.Opaque.typ != VariantString {
		return GodotString{}, false
	}
	return GodotString{sys.NewPointerCell(v.Opaque.ptr)}, true
}

func (v Variant) AsStringName() (StringName, bool) {
	if v.Opaque.typ != VariantStringName {
		return StringName{}, false
	}
	return StringName{sys.NewPointerCell(v.Opaque.ptr)}, true
}

func (v Variant) AsVector3() (Vector3, bool) {
	if v.Opaque.typ != VariantVector3 {
		return Vector3{}, false
	}
	return *(*Vector3)(unsafe.Pointer(&v.Opaque.data)), true
}

// AsObject returns the stored identity and pointer. The object may have been
// destroyed since the variant was created.
func (v Variant) AsObject() (sys.InstanceID, sys.ObjectPtr, bool) {
	if v.Opaque.typ != VariantObject {
		return 0, nil, false
	}
	return sys.InstanceID(v.Opaque.data[0]), sys.ObjectPtr(v.Opaque.ptr), true
}

// String renders the value for diagnostics.
func (v Variant) String() string {
	switch v.Opaque.typ {
	case VariantNil:
		return "<null>"
	case VariantBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case VariantInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case VariantFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case VariantString:
		s, _ := v.AsString()
		return s.String()
	case VariantStringName:
		n, _ := v.AsStringName()
		return "&" + strconv.Quote(n.String())
	case VariantVector3:
		vec, _ := v.AsVector3()
		return vec.String()
	case VariantObject:
		id, _, _ := v.AsObject()
		return "<Object#" + id.String() + ">"
	default:
		return v.Opaque.typ.String()
	}
}
