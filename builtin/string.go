package builtin

import (
	"unsafe"

	"github.com/wippyai/gdext/sys"
)

// GodotString is a host-owned string.
type GodotString struct {
	sys.PointerCell
}

// NewGodotString asks the host to create a string with the given contents.
func NewGodotString(s string) GodotString {
	return sys.FromSysInit[GodotString](func(dst unsafe.Pointer) {
		sys.Host().StringNewWithUTF8Chars(dst, s)
	})
}

// String returns the contents. A null string reads as empty.
func (s GodotString) String() string {
	if s.IsNull() {
		return ""
	}
	return sys.Host().StringToUTF8Chars(s.Sys())
}

// Equal compares contents.
func (s GodotString) Equal(other GodotString) bool {
	return s.String() == other.String()
}

// StringName is an interned host name used for classes, methods, and properties.
type StringName struct {
	sys.PointerCell
}

// NewStringName interns a name in the host.
func NewStringName(s string) StringName {
	return sys.FromSysInit[StringName](func(dst unsafe.Pointer) {
		sys.Host().StringNameNewWithUTF8Chars(dst, s)
	})
}

func (n StringName) String() string {
	if n.IsNull() {
		return ""
	}
	return sys.Host().StringNameToUTF8Chars(n.Sys())
}

// Equal compares contents.
func (n StringName) Equal(other StringName) bool {
	return n.String() == other.String()
}
