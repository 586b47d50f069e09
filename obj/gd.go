package obj

import (
	"unsafe"

	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

// Gd is a typed handle to a host object of class T or a subclass.
//
// A handle is a value: copying it aliases the same object without touching the
// host reference count. Use Share for a counted copy and Drop to release one.
// The zero Gd is the null handle.
type Gd[T any] struct {
	ptr sys.ObjectPtr
	id  sys.InstanceID
}

// handleOf wraps a raw object pointer, reading its identity from the host.
func handleOf[T any](ptr sys.ObjectPtr) Gd[T] {
	if ptr == nil {
		return Gd[T]{}
	}
	return Gd[T]{ptr: ptr, id: sys.Host().ObjectGetInstanceID(ptr)}
}

func (g *Gd[T]) Repr() sys.Repr { return sys.ReprPointer }

// Sys returns the object pointer as a cell.
func (g *Gd[T]) Sys() unsafe.Pointer { return unsafe.Pointer(g.ptr) }

func (g *Gd[T]) SysMut() unsafe.Pointer { return unsafe.Pointer(g.ptr) }

// LoadSys reinterprets a raw object pointer. The reference count is not
// changed: the handle takes over whatever reference the pointer carried.
func (g *Gd[T]) LoadSys(raw unsafe.Pointer) {
	*g = handleOf[T](sys.ObjectPtr(raw))
}

func (g *Gd[T]) InitSys(init func(unsafe.Pointer)) {
	var slot unsafe.Pointer
	init(unsafe.Pointer(&slot))
	g.LoadSys(slot)
}

// WriteSys stores the object pointer into a host-provided out-slot.
func (g *Gd[T]) WriteSys(dst unsafe.Pointer) {
	*(*unsafe.Pointer)(dst) = unsafe.Pointer(g.ptr)
}

var _ sys.Ffi = (*Gd[struct{}])(nil)

// ObjectPtr returns the raw host object pointer.
func (g Gd[T]) ObjectPtr() sys.ObjectPtr { return g.ptr }

// IsNull reports whether the handle references nothing.
func (g Gd[T]) IsNull() bool { return g.ptr == nil }

// IsInstanceValid asks the host whether the object still exists. It is false
// once the object is destroyed, through any handle or by the host itself.
func (g Gd[T]) IsInstanceValid() bool {
	if g.ptr == nil || !g.id.IsValid() {
		return false
	}
	return sys.Host().ObjectGetInstanceFromID(g.id) == g.ptr
}

// InstanceID returns the object's identity. The object must be alive.
func (g Gd[T]) InstanceID() sys.InstanceID {
	g.mustBeAlive("instance_id", errors.PhaseObject)
	return g.id
}

// Class returns the static class of the handle.
func (g Gd[T]) Class() *ClassInfo {
	return ClassOf[T]()
}

func (g Gd[T]) mustBeAlive(op string, phase errors.Phase) {
	if g.ptr == nil {
		panic(violation(op, errors.NullHandle(phase, ClassOf[T]().name)))
	}
	if !g.IsInstanceValid() {
		panic(violation(op, errors.DeadInstance(phase, ClassOf[T]().name, uint64(g.id))))
	}
}

// isRefCounted decides the memory model of the referenced object. A static
// class that is an ancestor of RefCounted, such as Object, may hold either
// kind, so the host is asked.
func (g Gd[T]) isRefCounted() bool {
	c := ClassOf[T]()
	if c.refCounted {
		return true
	}
	rc := reg.lookupName(refCountedClassName)
	if rc == nil || !IsA(rc, c) {
		return false
	}
	host := sys.Host()
	tag := host.ClassdbGetClassTag(nameSys(rc.name))
	return tag != nil && host.ObjectCastTo(g.ptr, tag) != nil
}

// Share returns a second handle to the same object. For reference-counted
// objects it takes a new reference, which the copy releases with Drop.
func (g Gd[T]) Share() Gd[T] {
	g.mustBeAlive("share", errors.PhaseObject)
	if g.isRefCounted() {
		refReference.Ptrcall(g.ptr, nil)
	}
	return g
}

// Drop releases the handle. For reference-counted objects it gives up the
// handle's reference and destroys the object when it was the last one. Manual
// objects are left alone; they must be freed explicitly or they leak. The
// handle is null afterwards.
func (g *Gd[T]) Drop() {
	if g.ptr == nil {
		return
	}
	if g.IsInstanceValid() && g.isRefCounted() {
		if callBool(refUnreference, g.ptr) {
			sys.Host().ObjectDestroy(g.ptr)
		}
	}
	*g = Gd[T]{}
}

// Free destroys a manually managed object now. Freeing a destroyed object or a
// reference-counted one is fatal.
func (g Gd[T]) Free() {
	name := ClassOf[T]().name
	if g.ptr == nil {
		panic(violation("free", errors.NullHandle(errors.PhaseObject, name)))
	}
	if !g.IsInstanceValid() {
		panic(violation("free", errors.DoubleFree(errors.PhaseObject, name, uint64(g.id))))
	}
	if g.isRefCounted() {
		panic(violation("free", errors.RefCountedFree(runtimeClass(g.ptr), uint64(g.id))))
	}
	sys.Host().ObjectDestroy(g.ptr)
}

// Deref returns a view of the object through which the methods of T and all
// its ancestors are called. For user classes it is the payload, as with Bind.
func (g Gd[T]) Deref() *T {
	c := ClassOf[T]()
	if c.domain == DomainUser {
		return g.Bind()
	}
	g.mustBeAlive("deref", errors.PhaseObject)
	v := new(T)
	any(v).(binder).bindPtr(g.ptr)
	return v
}

// Bind returns the payload of a user class instance.
func (g Gd[T]) Bind() *T {
	c := ClassOf[T]()
	if c.domain != DomainUser {
		panic(violation("bind", errors.NotUserClass(errors.PhaseObject, c.name)))
	}
	g.mustBeAlive("bind", errors.PhaseObject)

	payload, ok := payloadOf(g.ptr, c.name)
	if !ok {
		panic(violation("bind", errors.TypeMismatch(errors.PhaseObject, c.name, runtimeClass(g.ptr))))
	}
	return payload.(*T)
}

// String formats the handle as <Class#id> using the runtime class.
func (g Gd[T]) String() string {
	if !g.IsInstanceValid() {
		return "<Freed Object>"
	}
	return "<" + runtimeClass(g.ptr) + "#" + g.id.String() + ">"
}

func (g Gd[T]) GoString() string {
	class := "<freed>"
	if g.IsInstanceValid() {
		class = runtimeClass(g.ptr)
	}
	return "Gd { id: " + g.id.String() + ", class: " + class + " }"
}
