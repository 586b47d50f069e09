// Package layout computes size, alignment, and field offsets of the cells
// exchanged with the host.
//
// Cell shapes are declared as WIT types (see types.go) and laid out with the
// usual C rules:
//   - Primitives: size equals alignment (u8=1, u32=4, u64=8, etc.)
//   - Records and tuples: fields laid out sequentially with padding for alignment
//   - Enums: smallest discriminant that fits the case count
//
// The host side decodes ptrcall and varcall cells with these offsets; the Go
// declarations of value-backed types are checked against them in tests.
//
// # Usage
//
//	info := layout.Of(layout.Variant)
//	typeOff := info.FieldOffs["type"]
package layout
