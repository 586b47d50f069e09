// Package builtin provides the value types exchanged with the host.
//
// GodotString and StringName are pointer-backed: the guest value is the host
// record pointer. Vector3 and Variant are value-backed: their bytes are the
// cell. All of them satisfy sys.Marshaled through their pointer types.
package builtin
