package sys

import (
	"sync/atomic"

	"github.com/wippyai/gdext/errors"
)

type binding struct {
	iface   *Interface
	library LibraryPtr
}

var current atomic.Pointer[binding]

// Initialize binds the process to a host interface and library handle. It is
// called from the plugin entry point before anything else touches the host.
func Initialize(iface *Interface, library LibraryPtr) {
	current.Store(&binding{iface: iface, library: library})
}

// IsInitialized reports whether a host interface has been bound.
func IsInitialized() bool {
	return current.Load() != nil
}

// Host returns the bound host interface. It panics if the plugin has not been
// loaded.
func Host() *Interface {
	b := current.Load()
	if b == nil {
		panic(errors.NotInitialized(errors.PhaseHost, "host interface"))
	}
	return b.iface
}

// Library returns the library handle passed at load time.
func Library() LibraryPtr {
	b := current.Load()
	if b == nil {
		panic(errors.NotInitialized(errors.PhaseHost, "library handle"))
	}
	return b.library
}
