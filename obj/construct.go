package obj

import (
	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

// NewDefault creates an object of class T. User payloads are allocated
// zeroed and initialized through Init when they implement Initializer. The
// returned handle owns one reference if the class is reference counted.
func NewDefault[T any]() Gd[T] {
	c := ClassOf[T]()

	var ptr sys.ObjectPtr
	if c.domain == DomainUser {
		requireHosted(c)
		ptr = createDefault(c)
	} else {
		ptr = sys.Host().ClassdbConstructObject(nameSys(c.name))
		if ptr == nil {
			panic(violation("new", errors.New(errors.PhaseObject, errors.KindAllocation).
				Class(c.name).
				Detail("host could not construct %s", c.name).
				Build()))
		}
	}

	if c.refCounted {
		refInitRef.Ptrcall(ptr, nil)
	}
	return handleOf[T](ptr)
}

// NewWith creates an instance of user class T around payload.
func NewWith[T any](payload *T) Gd[T] {
	c := ClassOf[T]()
	if c.domain != DomainUser {
		panic(violation("new_with", errors.NotUserClass(errors.PhaseObject, c.name)))
	}
	if payload == nil {
		panic(violation("new_with", errors.InvalidInput(errors.PhaseObject, "nil payload for "+c.name)))
	}
	requireHosted(c)

	ptr := createInstance(c, payload, false)
	if c.refCounted {
		refInitRef.Ptrcall(ptr, nil)
	}
	return handleOf[T](ptr)
}

func requireHosted(c *ClassInfo) {
	if !c.hosted.Load() {
		panic(violation("new", errors.New(errors.PhaseClass, errors.KindNotInitialized).
			Class(c.name).
			Detail("user class is not registered with the host").
			Build()))
	}
}

// TryFromInstanceID looks up a live object by identity. It returns false when
// no object has the identity or its class is not T or a subclass. The handle
// owns a new reference for reference-counted objects.
func TryFromInstanceID[T any](id sys.InstanceID) (Gd[T], bool) {
	if !id.IsValid() {
		return Gd[T]{}, false
	}
	ptr := sys.Host().ObjectGetInstanceFromID(id)
	if ptr == nil {
		return Gd[T]{}, false
	}
	g, ok := TryCast[T](Gd[T]{ptr: ptr, id: id})
	if !ok {
		return Gd[T]{}, false
	}
	if g.isRefCounted() {
		refReference.Ptrcall(ptr, nil)
	}
	return g, true
}

// FromInstanceID is TryFromInstanceID for identities known to be live and of
// class T. Anything else is fatal.
func FromInstanceID[T any](id sys.InstanceID) Gd[T] {
	if g, ok := TryFromInstanceID[T](id); ok {
		return g
	}
	name := ClassOf[T]().name
	ptr := sys.Host().ObjectGetInstanceFromID(id)
	if ptr == nil {
		panic(violation("from_instance_id", errors.DeadInstance(errors.PhaseObject, name, uint64(id))))
	}
	panic(violation("from_instance_id", errors.BadCast(runtimeClass(ptr), name, uint64(id))))
}
