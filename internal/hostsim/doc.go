// Package hostsim is an in-process host engine implementing sys.Interface.
//
// It owns a class database with the native classes Object, RefCounted,
// Resource, Node, and Node3D, an object heap, interned strings, and the host
// side of the plugin handshake. Object headers live in a fixed-size
// WebAssembly linear memory instantiated through wazero, so object pointers
// are stable addresses the guest can hold but never dereferences.
//
//	eng, err := hostsim.New(ctx, hostsim.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	defer eng.Close(ctx)
//
//	if err := eng.LoadExtension("demo", extension.EntryPoint(lib)); err != nil {
//		return err
//	}
//	eng.Startup()
//	defer eng.Shutdown()
//
// The engine is single-threaded. Host calls may re-enter the guest (instance
// free callbacks) and the guest may call back into the host from there, so no
// call holds a lock.
package hostsim
