package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseMarshal Phase = "marshal" // opaque cell conversion
	PhaseClass   Phase = "class"   // class metadata and registration
	PhaseObject  Phase = "object"  // handle lifecycle (construct, free, liveness)
	PhaseCast    Phase = "cast"    // upcast/downcast
	PhaseCall    Phase = "call"    // method binds and dynamic calls
	PhaseInit    Phase = "init"    // library load and level callbacks
	PhaseHost    Phase = "host"    // host-side bookkeeping
)

// Kind categorizes the error
type Kind string

const (
	KindNullHandle     Kind = "null_handle"
	KindDeadInstance   Kind = "dead_instance"
	KindDoubleFree     Kind = "double_free"
	KindRefCountedFree Kind = "refcounted_free"
	KindBadCast        Kind = "bad_cast"
	KindBadUpcast      Kind = "bad_upcast"
	KindNotUserClass   Kind = "not_user_class"
	KindTypeMismatch   Kind = "type_mismatch"
	KindNotFound       Kind = "not_found"
	KindNotInitialized Kind = "not_initialized"
	KindInvalidInput   Kind = "invalid_input"
	KindRegistration   Kind = "registration"
	KindCallFailed     Kind = "call_failed"
	KindInvalidLevel   Kind = "invalid_level"
	KindAlreadyLoaded  Kind = "already_loaded"
	KindAllocation     Kind = "allocation"
)

// Error is the structured error type used throughout the binding layer
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Class    string
	Method   string
	Detail   string
	Instance uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	hasSubject := e.Class != "" || e.Method != "" || e.Instance != 0
	if hasSubject {
		b.WriteString(": ")
		var parts []string
		if e.Class != "" {
			target := e.Class
			if e.Method != "" {
				target += "::" + e.Method
			}
			parts = append(parts, "class "+target)
		} else if e.Method != "" {
			parts = append(parts, "method "+e.Method)
		}
		if e.Instance != 0 {
			parts = append(parts, "instance "+strconv.FormatUint(e.Instance, 10))
		}
		b.WriteString(strings.Join(parts, ", "))
	}

	if e.Detail != "" {
		if hasSubject {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Class sets the class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Method sets the method name
func (b *Builder) Method(name string) *Builder {
	b.err.Method = name
	return b
}

// Instance sets the host instance id
func (b *Builder) Instance(id uint64) *Builder {
	b.err.Instance = id
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Handle contract violations

// NullHandle creates an error for an operation on a handle without an object
func NullHandle(phase Phase, class string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNullHandle,
		Class:  class,
		Detail: "handle does not reference an object",
	}
}

// DeadInstance creates an error for an operation on a destroyed object
func DeadInstance(phase Phase, class string, id uint64) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindDeadInstance,
		Class:    class,
		Instance: id,
		Detail:   "object is no longer alive",
	}
}

// DoubleFree creates an error for freeing an object that was already destroyed
func DoubleFree(phase Phase, class string, id uint64) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindDoubleFree,
		Class:    class,
		Instance: id,
		Detail:   "object already destroyed",
	}
}

// RefCountedFree creates an error for freeing a reference-counted object
func RefCountedFree(class string, id uint64) *Error {
	return &Error{
		Phase:    PhaseObject,
		Kind:     KindRefCountedFree,
		Class:    class,
		Instance: id,
		Detail:   "reference-counted objects are destroyed when their last reference is dropped",
	}
}

// BadCast creates an error for a downcast the runtime class does not satisfy
func BadCast(from, to string, id uint64) *Error {
	return &Error{
		Phase:    PhaseCast,
		Kind:     KindBadCast,
		Class:    from,
		Instance: id,
		Detail:   fmt.Sprintf("object is not a %s", to),
	}
}

// BadUpcast creates an error for an upcast to a class that is not an ancestor
func BadUpcast(from, to string) *Error {
	return &Error{
		Phase:  PhaseCast,
		Kind:   KindBadUpcast,
		Class:  from,
		Detail: fmt.Sprintf("%s is not an ancestor", to),
	}
}

// NotUserClass creates an error for a payload operation on a host-native class
func NotUserClass(phase Phase, class string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotUserClass,
		Class:  class,
		Detail: "class has no guest payload",
	}
}

// TypeMismatch creates an error for a value of an unexpected dynamic type
func TypeMismatch(phase Phase, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// CallFailed creates an error for a failed host call
func CallFailed(class, method string, cause error) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindCallFailed,
		Class:  class,
		Method: method,
		Cause:  cause,
	}
}

// InvalidLevel creates an error for an initialization level outside the known range
func InvalidLevel(raw uint32) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindInvalidLevel,
		Detail: fmt.Sprintf("unknown initialization level %d", raw),
		Value:  raw,
	}
}

// AlreadyLoaded creates an error for a second library load in the same process
func AlreadyLoaded() *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindAlreadyLoaded,
		Detail: "library already loaded",
	}
}

// General constructors

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(class string, cause error) *Error {
	return &Error{
		Phase:  PhaseClass,
		Kind:   KindRegistration,
		Class:  class,
		Detail: "register class",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
