package obj

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/internal/storage"
	"github.com/wippyai/gdext/sys"
)

// Initializer is implemented by user payloads that set their default state.
// NewDefault and host-initiated construction call Init after the payload is
// bound to its host object.
type Initializer interface {
	Init()
}

// Dropper is implemented by user payloads that want to know when their host
// object is destroyed.
type Dropper interface {
	Drop()
}

var _ storage.Dropper = Dropper(nil)

// ClassOption configures a user class registration.
type ClassOption func(*classSpec)

// WithName overrides the class name, which defaults to the Go type name.
func WithName(name string) ClassOption {
	return func(s *classSpec) {
		s.Name = name
	}
}

type classSpec struct {
	Name string `validate:"required,max=64,classname"`
	Base string `validate:"required,classname"`
}

var classNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("classname", func(fl validator.FieldLevel) bool {
		return classNamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// instances holds the payloads of live user objects, keyed by the instance
// token the host stores on each object.
var instances = newInstanceTable()

func newInstanceTable() *storage.Table {
	t := storage.NewTable()
	t.Subscribe(instanceLog{})
	return t
}

type instanceLog struct{}

func (instanceLog) OnStorageEvent(e storage.Event) {
	Logger().Debug("user instance "+e.Type.String(),
		zap.String("class", e.Class),
		zap.Uint32("token", uint32(e.Handle)))
}

// LiveInstances returns the number of user payloads whose host object has not
// been destroyed.
func LiveInstances() int {
	return instances.Len()
}

// Register declares T as a user class. T must be a struct. It extends the
// engine class whose view it embeds, or RefCounted when it embeds none.
// Extending another user class is not supported.
//
// The class becomes instantiable once RegisterClasses hands it to the host.
func Register[T any](opts ...ClassOption) (*ClassInfo, error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, errors.Registration(typ.String(),
			errors.InvalidInput(errors.PhaseClass, "user class must be a struct type"))
	}

	base, err := findBase(typ)
	if err != nil {
		return nil, errors.Registration(typ.Name(), err)
	}

	spec := classSpec{Name: typ.Name(), Base: base.name}
	for _, opt := range opts {
		opt(&spec)
	}
	if err := validate.Struct(spec); err != nil {
		return nil, errors.Registration(spec.Name, err)
	}

	c := &ClassInfo{
		name:       spec.Name,
		base:       base,
		typ:        typ,
		domain:     DomainUser,
		refCounted: base.refCounted,
		newValue:   func() any { return new(T) },
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, dup := reg.byName[c.name]; dup {
		return nil, errors.Registration(c.name,
			errors.InvalidInput(errors.PhaseClass, "class name already registered"))
	}
	if prev, dup := reg.byType[typ]; dup {
		return nil, errors.Registration(c.name,
			errors.InvalidInput(errors.PhaseClass, typ.String()+" is already registered as "+prev.name))
	}
	reg.byName[c.name] = c
	reg.byType[typ] = c
	reg.user = append(reg.user, c)
	return c, nil
}

// MustRegister is Register that panics on error.
func MustRegister[T any](opts ...ClassOption) *ClassInfo {
	c, err := Register[T](opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func findBase(typ reflect.Type) (*ClassInfo, error) {
	var base *ClassInfo
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.Anonymous || f.Type.Kind() != reflect.Struct {
			continue
		}
		c := reg.lookupType(f.Type)
		if c == nil {
			continue
		}
		if c.domain == DomainUser {
			return nil, errors.InvalidInput(errors.PhaseClass, "cannot extend user class "+c.name)
		}
		if base != nil {
			return nil, errors.InvalidInput(errors.PhaseClass,
				"embeds both "+base.name+" and "+c.name+"; only single inheritance is supported")
		}
		base = c
	}
	if base != nil {
		return base, nil
	}

	rc := reg.lookupName(refCountedClassName)
	if rc == nil {
		return nil, errors.NotFound(errors.PhaseClass, "default base class", refCountedClassName)
	}
	return rc, nil
}

// RegisterClasses registers every user class not yet known to the host, in
// declaration order. It is called from the Scene initialization level.
func RegisterClasses() error {
	host := sys.Host()
	lib := sys.Library()

	reg.mu.RLock()
	pending := make([]*ClassInfo, 0, len(reg.user))
	for _, c := range reg.user {
		if !c.hosted.Load() {
			pending = append(pending, c)
		}
	}
	reg.mu.RUnlock()

	for _, c := range pending {
		info := &sys.ClassCreationInfo{
			CreateInstance: func() sys.ObjectPtr {
				return createDefault(c)
			},
			FreeInstance: freeInstance,
		}
		host.ClassdbRegisterExtensionClass(lib, nameSys(c.name), nameSys(c.base.name), info)
		if host.ClassdbGetClassTag(nameSys(c.name)) == nil {
			return errors.Registration(c.name, errors.NotFound(errors.PhaseHost, "registered class", c.name))
		}

		c.hosted.Store(true)
		reg.mu.Lock()
		reg.hosted = append(reg.hosted, c)
		reg.mu.Unlock()
		Logger().Debug("user class registered", zap.String("class", c.name), zap.String("base", c.base.name))
	}
	return nil
}

// UnregisterClasses removes the user classes from the host in reverse
// registration order.
func UnregisterClasses() {
	host := sys.Host()
	lib := sys.Library()

	reg.mu.Lock()
	hosted := reg.hosted
	reg.hosted = nil
	reg.mu.Unlock()

	for i := len(hosted) - 1; i >= 0; i-- {
		c := hosted[i]
		if n := instances.Count(c.name); n > 0 {
			Logger().Warn("user class unregistered with live instances",
				zap.String("class", c.name), zap.Int("instances", n))
		}
		host.ClassdbUnregisterExtensionClass(lib, nameSys(c.name))
		c.hosted.Store(false)
		Logger().Debug("user class unregistered", zap.String("class", c.name))
	}
}

// createDefault builds a default payload; it backs host-initiated construction
// and NewDefault.
func createDefault(c *ClassInfo) sys.ObjectPtr {
	return createInstance(c, c.newValue(), true)
}

// createInstance allocates the native object, binds payload to it and attaches
// the payload's storage token.
func createInstance(c *ClassInfo, payload any, runInit bool) sys.ObjectPtr {
	host := sys.Host()
	native := c.Native()

	ptr := host.ClassdbConstructObject(nameSys(native.name))
	if ptr == nil {
		panic(violation("construct", errors.New(errors.PhaseObject, errors.KindAllocation).
			Class(c.name).
			Detail("host could not construct %s", native.name).
			Build()))
	}

	if b, ok := payload.(binder); ok {
		b.bindPtr(ptr)
	}
	if runInit {
		if i, ok := payload.(Initializer); ok {
			i.Init()
		}
	}

	token := instances.Insert(c.name, payload)
	host.ObjectSetInstance(ptr, nameSys(c.name), sys.InstancePtr(token))
	return ptr
}

func freeInstance(instance sys.InstancePtr) {
	instances.Remove(storage.Handle(instance))
}

// payloadOf returns the user payload attached to a host object, provided it
// was created for class.
func payloadOf(ptr sys.ObjectPtr, class string) (any, bool) {
	token := sys.Host().ObjectGetInstanceBinding(ptr, sys.Library())
	if token == 0 {
		return nil, false
	}
	return instances.GetClass(storage.Handle(token), class)
}
