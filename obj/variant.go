package obj

import (
	"unsafe"

	"github.com/wippyai/gdext/builtin"
	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

// ToVariant wraps the object in a variant. A null or dead handle becomes Nil.
// The variant does not hold a reference.
func (g Gd[T]) ToVariant() builtin.Variant {
	if !g.IsInstanceValid() {
		return builtin.Nil()
	}
	return builtin.FromObject(g.id, g.ptr)
}

// TryFromVariant extracts a handle of class T from an object variant. It
// fails for other variant types, destroyed objects and incompatible classes.
func TryFromVariant[T any](v builtin.Variant) (Gd[T], bool) {
	id, ptr, ok := v.AsObject()
	if !ok || sys.Host().ObjectGetInstanceFromID(id) != ptr {
		return Gd[T]{}, false
	}
	return TryFromInstanceID[T](id)
}

// FromVariant is TryFromVariant where failure is fatal.
func FromVariant[T any](v builtin.Variant) Gd[T] {
	g, ok := TryFromVariant[T](v)
	if !ok {
		got := v.Type().String()
		if id, _, isObject := v.AsObject(); isObject {
			got = "Object#" + id.String()
		}
		panic(violation("from_variant", errors.TypeMismatch(errors.PhaseCast, ClassOf[T]().name, got)))
	}
	return g
}

// Call invokes a method by name through the host's dynamic call path. A
// failed call is fatal.
func (g Gd[T]) Call(method string, args ...builtin.Variant) builtin.Variant {
	ret, err := g.call(method, args)
	if err != nil {
		panic(violation("call", err))
	}
	return ret
}

// TryCall is Call returning failures as an *errors.Error whose Value is the
// host's sys.CallError.
func (g Gd[T]) TryCall(method string, args ...builtin.Variant) (builtin.Variant, error) {
	ret, err := g.call(method, args)
	if err != nil {
		return builtin.Nil(), err
	}
	return ret, nil
}

func (g Gd[T]) call(method string, args []builtin.Variant) (builtin.Variant, *errors.Error) {
	if !g.IsInstanceValid() {
		return builtin.Nil(), errors.DeadInstance(errors.PhaseCall, ClassOf[T]().name, uint64(g.id))
	}

	name := builtin.FromStringName(builtin.NewStringName(method))
	cells := make([]unsafe.Pointer, 0, len(args)+1)
	cells = append(cells, name.Sys())
	for i := range args {
		cells = append(cells, args[i].Sys())
	}

	var ret builtin.Variant
	var callErr sys.CallError
	sys.Host().ObjectMethodBindCall(objectCall.Resolve(), g.ptr, cells, ret.SysMut(), &callErr)
	if !callErr.Ok() {
		err := errors.CallFailed(runtimeClass(g.ptr), method, &callErr)
		err.Value = callErr
		err.Instance = uint64(g.id)
		return builtin.Nil(), err
	}
	return ret, nil
}
