package obj

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

// Names of the engine classes the handle memory model depends on.
const (
	objectClassName     = "Object"
	refCountedClassName = "RefCounted"
)

// InstanceID is the host-assigned identity of a live object.
type InstanceID = sys.InstanceID

// Domain tells which side defined a class.
type Domain uint8

const (
	// DomainEngine classes exist in the host before the plugin loads.
	DomainEngine Domain = iota
	// DomainUser classes are defined by this plugin and registered with the host.
	DomainUser
)

func (d Domain) String() string {
	switch d {
	case DomainEngine:
		return "engine"
	case DomainUser:
		return "user"
	default:
		return "unknown"
	}
}

// ClassInfo is the static metadata of a class. It is immutable once
// registered, except for whether a user class is currently known to the host.
type ClassInfo struct {
	base       *ClassInfo
	typ        reflect.Type
	newValue   func() any
	name       string
	domain     Domain
	refCounted bool
	hosted     atomic.Bool
}

func (c *ClassInfo) Name() string { return c.name }

// Base returns the direct base class, or nil for the hierarchy root.
func (c *ClassInfo) Base() *ClassInfo { return c.base }

func (c *ClassInfo) Domain() Domain { return c.domain }

// Type returns the Go type declaring the class.
func (c *ClassInfo) Type() reflect.Type { return c.typ }

// IsRefCounted reports whether every instance of the class is reference
// counted by the host.
func (c *ClassInfo) IsRefCounted() bool { return c.refCounted }

// IsRegistered reports whether a user class is currently registered with the
// host. Engine classes always are.
func (c *ClassInfo) IsRegistered() bool {
	return c.domain == DomainEngine || c.hosted.Load()
}

// Native returns the closest engine class on the ancestor chain, which is the
// class the host allocates for instances of c.
func (c *ClassInfo) Native() *ClassInfo {
	k := c
	for k != nil && k.domain != DomainEngine {
		k = k.base
	}
	return k
}

func (c *ClassInfo) String() string { return c.name }

// IsA reports whether ancestor appears on the base chain of derived. A class is
// its own ancestor.
func IsA(derived, ancestor *ClassInfo) bool {
	if ancestor == nil {
		return false
	}
	for k := derived; k != nil; k = k.base {
		if k == ancestor {
			return true
		}
	}
	return false
}

type registry struct {
	byType map[reflect.Type]*ClassInfo
	byName map[string]*ClassInfo
	user   []*ClassInfo
	hosted []*ClassInfo
	mu     sync.RWMutex
}

var reg = &registry{
	byType: make(map[reflect.Type]*ClassInfo),
	byName: make(map[string]*ClassInfo),
}

func (r *registry) lookupType(t reflect.Type) *ClassInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byType[t]
}

func (r *registry) lookupName(name string) *ClassInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

var binderType = reflect.TypeFor[binder]()

// RegisterEngineClass declares T as the view type of a host-native class. T
// must be a struct embedding RawObject, directly or through its base view. A
// nil base declares the hierarchy root. Subclasses of reference-counted
// classes are reference counted.
//
// It is meant for package-level variables of generated class catalogs and
// panics on misuse.
func RegisterEngineClass[T any](name string, base *ClassInfo, refCounted bool) *ClassInfo {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct || !reflect.PointerTo(typ).Implements(binderType) {
		panic(errors.Registration(name, errors.InvalidInput(errors.PhaseClass,
			typ.String()+" does not embed obj.RawObject")))
	}

	c := &ClassInfo{
		name:       name,
		base:       base,
		typ:        typ,
		domain:     DomainEngine,
		refCounted: refCounted || (base != nil && base.refCounted),
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, dup := reg.byName[name]; dup {
		panic(errors.Registration(name, errors.InvalidInput(errors.PhaseClass, "class name already registered")))
	}
	if _, dup := reg.byType[typ]; dup {
		panic(errors.Registration(name, errors.InvalidInput(errors.PhaseClass, typ.String()+" already declares a class")))
	}
	reg.byName[name] = c
	reg.byType[typ] = c
	return c
}

// ClassOf returns the class declared by T. Using a handle to an undeclared
// type is a programming error and panics.
func ClassOf[T any]() *ClassInfo {
	typ := reflect.TypeFor[T]()
	if c := reg.lookupType(typ); c != nil {
		return c
	}
	panic(violation("class_of", errors.NotFound(errors.PhaseClass, "class for type", typ.String())))
}

// LookupClass finds a class by name.
func LookupClass(name string) (*ClassInfo, bool) {
	c := reg.lookupName(name)
	return c, c != nil
}

// Classes lists the classes of a domain sorted by name.
func Classes(domain Domain) []*ClassInfo {
	reg.mu.RLock()
	out := make([]*ClassInfo, 0, len(reg.byName))
	for _, c := range reg.byName {
		if c.domain == domain {
			out = append(out, c)
		}
	}
	reg.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
