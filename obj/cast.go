package obj

import (
	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

// Upcast views a handle as one of its static ancestors. The handle's
// reference, if any, moves to the result.
//
// Go generics cannot state the ancestor bound, so the relation is checked
// against class metadata; asking for a class that is not an ancestor of T is a
// programming error and panics.
func Upcast[B, T any](g Gd[T]) Gd[B] {
	from, to := ClassOf[T](), ClassOf[B]()
	if !IsA(from, to) {
		panic(violation("upcast", errors.BadUpcast(from.name, to.name)))
	}
	return Gd[B]{ptr: g.ptr, id: g.id}
}

// TryCast converts a handle to class O if the host reports that the object's
// runtime class is O or a subclass. On failure it returns false and g remains
// valid; nothing is consumed.
func TryCast[O, T any](g Gd[T]) (Gd[O], bool) {
	to := ClassOf[O]()
	if !g.IsInstanceValid() {
		return Gd[O]{}, false
	}
	host := sys.Host()
	tag := host.ClassdbGetClassTag(nameSys(to.name))
	if tag == nil || host.ObjectCastTo(g.ptr, tag) == nil {
		return Gd[O]{}, false
	}
	return Gd[O]{ptr: g.ptr, id: g.id}, true
}

// Cast is TryCast for call sites that know the runtime class. An incompatible
// class is fatal.
func Cast[O, T any](g Gd[T]) Gd[O] {
	g.mustBeAlive("cast", errors.PhaseCast)
	out, ok := TryCast[O](g)
	if !ok {
		panic(violation("cast", errors.BadCast(runtimeClass(g.ptr), ClassOf[O]().name, uint64(g.id))))
	}
	return out
}
