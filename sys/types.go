package sys

import (
	"strconv"
	"unsafe"
)

// Opaque host pointers. They always point at host-owned memory and are never
// dereferenced by the guest.
type (
	ObjectPtr     unsafe.Pointer
	ClassTag      unsafe.Pointer
	MethodBindPtr unsafe.Pointer
	LibraryPtr    unsafe.Pointer
)

// InstancePtr is the token the guest hands the host for its per-object
// storage. The host stores it and passes it back unchanged.
type InstancePtr uintptr

// InstanceID is the host-assigned identity of a live object. Zero is never a
// valid identity.
type InstanceID uint64

// TryInstanceIDFromInt64 converts a raw integer, rejecting zero.
func TryInstanceIDFromInt64(v int64) (InstanceID, bool) {
	if v == 0 {
		return 0, false
	}
	return InstanceID(uint64(v)), true
}

func (id InstanceID) IsValid() bool { return id != 0 }

func (id InstanceID) Int64() int64 { return int64(id) }

func (id InstanceID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Bool is the fixed-width boolean of the entry-point ABI.
type Bool uint8

const (
	False Bool = 0
	True  Bool = 1
)

// BoolOf converts a Go bool.
func BoolOf(b bool) Bool {
	if b {
		return True
	}
	return False
}

// InitializationLevel is the raw level value passed by the host.
type InitializationLevel uint32

const (
	InitializationCore    InitializationLevel = 0
	InitializationServers InitializationLevel = 1
	InitializationScene   InitializationLevel = 2
	InitializationEditor  InitializationLevel = 3
)

// CallErrorType is the outcome reported by a dynamic call.
type CallErrorType uint32

const (
	CallOK CallErrorType = iota
	CallErrorInvalidMethod
	CallErrorInvalidArgument
	CallErrorTooManyArguments
	CallErrorTooFewArguments
	CallErrorInstanceIsNull
)

func (t CallErrorType) String() string {
	switch t {
	case CallOK:
		return "ok"
	case CallErrorInvalidMethod:
		return "invalid method"
	case CallErrorInvalidArgument:
		return "invalid argument"
	case CallErrorTooManyArguments:
		return "too many arguments"
	case CallErrorTooFewArguments:
		return "too few arguments"
	case CallErrorInstanceIsNull:
		return "instance is null"
	default:
		return "call error " + strconv.FormatUint(uint64(t), 10)
	}
}

// CallError is the out-parameter of a dynamic call. Argument and Expected are
// meaningful for argument errors only.
type CallError struct {
	Type     CallErrorType
	Argument int32
	Expected int32
}

// Ok reports whether the call succeeded.
func (e *CallError) Ok() bool { return e.Type == CallOK }

func (e *CallError) Error() string {
	switch e.Type {
	case CallErrorInvalidArgument:
		return "invalid argument " + strconv.Itoa(int(e.Argument)) +
			" (expected variant type " + strconv.Itoa(int(e.Expected)) + ")"
	case CallErrorTooManyArguments, CallErrorTooFewArguments:
		return e.Type.String() + " (expected " + strconv.Itoa(int(e.Expected)) + ")"
	default:
		return e.Type.String()
	}
}
