// Package sys defines the raw host boundary: opaque pointer types, the host
// function table, the plugin entry-point contract, and the marshaling
// strategies every value crossing the boundary is declared with.
//
// # Representation kinds
//
// A marshaled type states exactly one representation kind:
//
//	ReprPointer  the cell holds a host pointer; the value is that pointer
//	ReprValue    the cell holds the value's bytes inline
//
// Pointer-backed types embed PointerCell, value-backed types embed ValueCell
// (or implement the same method set directly). Generic helpers FromSys and
// FromSysInit reconstruct values from raw cells without knowing which kind the
// type uses:
//
//	name := sys.FromSys[builtin.StringName](raw)
//	pos := sys.FromSysInit[builtin.Vector3](func(ret unsafe.Pointer) {
//		host.ObjectMethodBindPtrcall(mb, obj, nil, ret)
//	})
//
// Conversions perform no validation. Pairing a cell with the wrong type is
// undefined behavior; call sites are responsible for using the type the host
// function expects.
package sys
