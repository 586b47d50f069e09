package sys

import "unsafe"

// Repr is the representation kind of a marshaled type.
type Repr uint8

const (
	// ReprPointer marks types whose cell is a single host pointer.
	ReprPointer Repr = iota
	// ReprValue marks types whose cell is their own inline bytes.
	ReprValue
)

func (r Repr) String() string {
	switch r {
	case ReprPointer:
		return "pointer"
	case ReprValue:
		return "value"
	default:
		return "unknown"
	}
}

// Ffi is implemented by pointers to every type that crosses the host boundary.
type Ffi interface {
	// Repr reports the representation kind. It never changes for a type.
	Repr() Repr

	// Sys exposes the backing storage as a raw cell for passing into host
	// calls. Pointer-backed values return the stored pointer, value-backed
	// values return the address of their inline storage.
	Sys() unsafe.Pointer

	// SysMut is Sys for call sites that let the host mutate the cell. The
	// caller must hold the only live reference to the value for the duration
	// of the host call; no other alias may assume the value is unchanged
	// afterwards. Nothing enforces this.
	SysMut() unsafe.Pointer
}

// Marshaled constrains a pointer to T that can be loaded from raw cells.
type Marshaled[T any] interface {
	*T
	Ffi

	// LoadSys reads the value from a raw cell. A value-backed type copies the
	// cell contents and the caller must not read the cell again.
	LoadSys(raw unsafe.Pointer)

	// InitSys lets init write the value into fresh storage by out-parameter.
	InitSys(init func(unsafe.Pointer))
}

// FromSys reconstructs a typed value from a raw cell.
func FromSys[T any, P Marshaled[T]](raw unsafe.Pointer) T {
	var v T
	P(&v).LoadSys(raw)
	return v
}

// FromSysInit allocates an uninitialized cell, lets init fill it and returns
// the resulting value.
func FromSysInit[T any, P Marshaled[T]](init func(unsafe.Pointer)) T {
	var v T
	P(&v).InitSys(init)
	return v
}

// SysArgs collects argument cells for a ptrcall.
func SysArgs(args ...Ffi) []unsafe.Pointer {
	if len(args) == 0 {
		return nil
	}
	out := make([]unsafe.Pointer, len(args))
	for i, a := range args {
		out[i] = a.Sys()
	}
	return out
}

// PointerCell is the storage of a pointer-backed type.
type PointerCell struct {
	ptr unsafe.Pointer
}

// NewPointerCell wraps an existing host pointer.
func NewPointerCell(ptr unsafe.Pointer) PointerCell {
	return PointerCell{ptr: ptr}
}

func (c *PointerCell) Repr() Repr { return ReprPointer }

func (c *PointerCell) Sys() unsafe.Pointer { return c.ptr }

func (c *PointerCell) SysMut() unsafe.Pointer { return c.ptr }

func (c *PointerCell) LoadSys(raw unsafe.Pointer) { c.ptr = raw }

func (c *PointerCell) InitSys(init func(unsafe.Pointer)) {
	var slot unsafe.Pointer
	init(unsafe.Pointer(&slot))
	c.ptr = slot
}

// WriteSys stores the pointer into a host-provided out-slot.
func (c *PointerCell) WriteSys(dst unsafe.Pointer) {
	*(*unsafe.Pointer)(dst) = c.ptr
}

// IsNull reports whether the cell holds no pointer.
func (c *PointerCell) IsNull() bool { return c.ptr == nil }

// ValueCell is the storage of a value-backed type whose layout is O.
type ValueCell[O any] struct {
	Opaque O
}

func (c *ValueCell[O]) Repr() Repr { return ReprValue }

func (c *ValueCell[O]) Sys() unsafe.Pointer { return unsafe.Pointer(&c.Opaque) }

func (c *ValueCell[O]) SysMut() unsafe.Pointer { return unsafe.Pointer(&c.Opaque) }

func (c *ValueCell[O]) LoadSys(raw unsafe.Pointer) { c.Opaque = *(*O)(raw) }

func (c *ValueCell[O]) InitSys(init func(unsafe.Pointer)) {
	init(unsafe.Pointer(&c.Opaque))
}

// WriteSys copies the inline bytes into a host-provided cell.
func (c *ValueCell[O]) WriteSys(dst unsafe.Pointer) {
	*(*O)(dst) = c.Opaque
}
