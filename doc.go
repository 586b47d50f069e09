// Package gdext lets Go code define classes and hold objects inside a host
// engine that owns object memory, the class hierarchy, and reference counting.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	gdext/               Root package with Memory and Allocator interfaces
//	├── sys/             Raw host boundary: pointer types, host function table, cell marshaling
//	├── builtin/         Marshaled value types (String, StringName, Vector3, Variant)
//	├── obj/             Class metadata, user class registration, typed handles Gd[T]
//	├── classes/         Views over host-native classes (Object, RefCounted, Node, ...)
//	├── extension/       Plugin entry point and initialization level registry
//	├── errors/          Structured error types for contract violations
//	├── internal/        Layout calculation, guest instance storage, simulated host
//	└── cmd/gdext/       Demo host CLI
//
// # Quick Start
//
// Define a class by embedding its base view and register it:
//
//	type Player struct {
//		classes.Node3D
//		Health int
//	}
//
//	func (p *Player) Init() { p.Health = 100 }
//
//	func init() { obj.MustRegister[Player]() }
//
// Export the entry point the host calls on load:
//
//	var Entry = extension.EntryPoint(extension.DefaultLibrary{})
//
// Once the Scene level is initialized, objects can be created and shared:
//
//	p := obj.NewDefault[Player]()
//	p.Deref().SetPosition(builtin.NewVector3(1, 2, 3))
//	node := obj.Upcast[classes.Node](p)
//	node.Free()
//
// # Ownership
//
// Handles to manually managed classes must be released with Free; dropping
// them leaks the object. Handles to reference-counted classes own one
// reference each and are released with Drop. Liveness is always queried from
// the host, never cached.
//
// # Thread Safety
//
// The binding performs no locking around host objects. Callers must ensure at
// most one mutating access to an object is in flight at a time.
package gdext
