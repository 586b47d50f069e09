package hostsim

import (
	"math"
	"unsafe"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/gdext/internal/layout"
	"github.com/wippyai/gdext/sys"
)

// Host-side variant tags.
const (
	variantNil        uint32 = 0
	variantBool       uint32 = 1
	variantInt        uint32 = 2
	variantFloat      uint32 = 3
	variantString     uint32 = 4
	variantVector3    uint32 = 9
	variantStringName uint32 = 21
	variantObject     uint32 = 24
)

// Go representations of decoded cells.
type (
	name    string
	vector3 struct{ X, Y, Z float32 }
)

type cellKind uint8

const (
	kindInvalid cellKind = iota
	kindBool
	kindInt
	kindFloat
	kindString
	kindStringName
	kindVector3
	kindObject
	kindVariant
)

func kindOf(t wit.Type) cellKind {
	switch t.(type) {
	case wit.Bool:
		return kindBool
	case wit.S64:
		return kindInt
	case wit.F64:
		return kindFloat
	case wit.String:
		return kindString
	}
	switch layout.Name(t) {
	case "string":
		return kindString
	case "string-name":
		return kindStringName
	case "vector3":
		return kindVector3
	case "object":
		return kindObject
	case "variant":
		return kindVariant
	}
	return kindInvalid
}

func (k cellKind) variantType() uint32 {
	switch k {
	case kindBool:
		return variantBool
	case kindInt:
		return variantInt
	case kindFloat:
		return variantFloat
	case kindString:
		return variantString
	case kindStringName:
		return variantStringName
	case kindVector3:
		return variantVector3
	case kindObject:
		return variantObject
	default:
		return variantNil
	}
}

type variantLayout struct {
	typ, data, ptr uint32
}

func newVariantLayout() variantLayout {
	info := layout.Of(layout.Variant)
	return variantLayout{
		typ:  info.FieldOffs["type"],
		data: info.FieldOffs["data"],
		ptr:  info.FieldOffs["ptr"],
	}
}

// decodeCell reads a ptrcall argument. Pointer kinds receive the host pointer
// itself as the cell.
func (e *Engine) decodeCell(cell unsafe.Pointer, k cellKind) any {
	switch k {
	case kindBool:
		return *(*sys.Bool)(cell) != sys.False
	case kindInt:
		return *(*int64)(cell)
	case kindFloat:
		return *(*float64)(cell)
	case kindString:
		return readString(cell)
	case kindStringName:
		return name(readString(cell))
	case kindVector3:
		return *(*vector3)(cell)
	case kindObject:
		return sys.ObjectPtr(cell)
	case kindVariant:
		return e.decodeVariant(cell)
	}
	return nil
}

// encodeCell writes a ptrcall return value. Pointer kinds write the host
// pointer into the slot the guest provided.
func (e *Engine) encodeCell(ret unsafe.Pointer, k cellKind, v any) {
	switch k {
	case kindBool:
		b, _ := v.(bool)
		*(*sys.Bool)(ret) = sys.BoolOf(b)
	case kindInt:
		i, _ := v.(int64)
		*(*int64)(ret) = i
	case kindFloat:
		f, _ := v.(float64)
		*(*float64)(ret) = f
	case kindString:
		s, _ := v.(string)
		writePointer(ret, unsafe.Pointer(intern(e.strs, s)))
	case kindStringName:
		n, _ := v.(name)
		writePointer(ret, unsafe.Pointer(intern(e.names, string(n))))
	case kindVector3:
		vec, _ := v.(vector3)
		*(*vector3)(ret) = vec
	case kindObject:
		p, _ := v.(sys.ObjectPtr)
		writePointer(ret, unsafe.Pointer(p))
	case kindVariant:
		e.encodeVariant(ret, v)
	}
}

func (e *Engine) decodeVariant(cell unsafe.Pointer) any {
	data := unsafe.Add(cell, e.variant.data)
	ptr := *(*unsafe.Pointer)(unsafe.Add(cell, e.variant.ptr))

	switch *(*uint32)(unsafe.Add(cell, e.variant.typ)) {
	case variantBool:
		return *(*uint64)(data) != 0
	case variantInt:
		return int64(*(*uint64)(data))
	case variantFloat:
		return math.Float64frombits(*(*uint64)(data))
	case variantString:
		return readString(ptr)
	case variantStringName:
		return name(readString(ptr))
	case variantVector3:
		return *(*vector3)(data)
	case variantObject:
		return sys.ObjectPtr(ptr)
	default:
		return nil
	}
}

func (e *Engine) encodeVariant(cell unsafe.Pointer, v any) {
	typ := variantNil
	var word0, word1 uint64
	var ptr unsafe.Pointer

	switch x := v.(type) {
	case bool:
		typ = variantBool
		if x {
			word0 = 1
		}
	case int64:
		typ = variantInt
		word0 = uint64(x)
	case float64:
		typ = variantFloat
		word0 = math.Float64bits(x)
	case string:
		typ = variantString
		ptr = unsafe.Pointer(intern(e.strs, x))
	case name:
		typ = variantStringName
		ptr = unsafe.Pointer(intern(e.names, string(x)))
	case vector3:
		typ = variantVector3
		var buf [2]uint64
		*(*vector3)(unsafe.Pointer(&buf)) = x
		word0, word1 = buf[0], buf[1]
	case sys.ObjectPtr:
		if t, ok := e.resolve(x); ok {
			typ = variantObject
			word0 = uint64(t.hdr.id)
			ptr = unsafe.Pointer(x)
		}
	}

	data := unsafe.Add(cell, e.variant.data)
	*(*uint32)(unsafe.Add(cell, e.variant.typ)) = typ
	*(*uint64)(data) = word0
	*(*uint64)(unsafe.Add(data, 8)) = word1
	*(*unsafe.Pointer)(unsafe.Add(cell, e.variant.ptr)) = ptr
}

// variantTypeOf returns the tag a decoded value would be encoded with.
func variantTypeOf(v any) uint32 {
	switch v.(type) {
	case bool:
		return variantBool
	case int64:
		return variantInt
	case float64:
		return variantFloat
	case string:
		return variantString
	case name:
		return variantStringName
	case vector3:
		return variantVector3
	case sys.ObjectPtr:
		return variantObject
	default:
		return variantNil
	}
}
