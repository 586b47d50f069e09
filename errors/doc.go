// Package errors provides structured error types for the gdext binding layer.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the class and method involved, the instance id of the
// host object (if any) and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCast, errors.KindBadCast).
//		Class("Node3D").
//		Instance(id).
//		Detail("runtime class %s is not a %s", actual, want).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DoubleFree(errors.PhaseObject, "Node3D", id)
//	err := errors.BadCast("Object", "Node3D", id)
//
// Contract violations on object handles are raised as panics whose value is an
// *Error, so recovered values can be matched with errors.Is/As just like returned errors.
package errors
