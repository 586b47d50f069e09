package obj

import (
	"sync"
	"unsafe"

	"github.com/wippyai/gdext/builtin"
	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

// MethodBind is a lazily resolved host method. It is safe to declare as a
// package variable before the host is bound; the bind is looked up on first
// use and again whenever the bound host interface changes.
type MethodBind struct {
	iface  *sys.Interface
	ptr    sys.MethodBindPtr
	class  string
	method string
	mu     sync.Mutex
}

func NewMethodBind(class, method string) *MethodBind {
	return &MethodBind{class: class, method: method}
}

func (m *MethodBind) Class() string { return m.class }

func (m *MethodBind) Method() string { return m.method }

// Resolve returns the host bind. An unknown method is fatal.
func (m *MethodBind) Resolve() sys.MethodBindPtr {
	host := sys.Host()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.iface != host || m.ptr == nil {
		ptr := host.ClassdbGetMethodBind(nameSys(m.class), nameSys(m.method))
		if ptr == nil {
			panic(violation("method_bind", errors.NotFound(errors.PhaseCall, "method", m.class+"::"+m.method)))
		}
		m.iface, m.ptr = host, ptr
	}
	return m.ptr
}

// Ptrcall calls the method on self with statically typed cells. ret may be nil
// for methods without a return value.
func (m *MethodBind) Ptrcall(self sys.ObjectPtr, ret unsafe.Pointer, args ...unsafe.Pointer) {
	sys.Host().ObjectMethodBindPtrcall(m.Resolve(), self, args, ret)
}

// nameSys interns a name in the host and returns its cell.
func nameSys(s string) unsafe.Pointer {
	n := builtin.NewStringName(s)
	return n.Sys()
}

var (
	objectGetClass = NewMethodBind(objectClassName, "get_class")
	objectCall     = NewMethodBind(objectClassName, "call")

	refInitRef     = NewMethodBind(refCountedClassName, "init_ref")
	refReference   = NewMethodBind(refCountedClassName, "reference")
	refUnreference = NewMethodBind(refCountedClassName, "unreference")
)

func callBool(m *MethodBind, self sys.ObjectPtr) bool {
	var ret sys.Bool
	m.Ptrcall(self, unsafe.Pointer(&ret))
	return ret == sys.True
}

// runtimeClass asks the host for the class name of a live object.
func runtimeClass(ptr sys.ObjectPtr) string {
	s := sys.FromSysInit[builtin.GodotString](func(ret unsafe.Pointer) {
		objectGetClass.Ptrcall(ptr, ret)
	})
	return s.String()
}
