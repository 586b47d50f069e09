package hostsim

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

// library is the record behind the LibraryPtr handed to a plugin.
type library struct {
	init  sys.Initialization
	name  string
	level int
}

// LoadExtension calls a plugin entry point. Only one plugin can be loaded per
// engine.
func (e *Engine) LoadExtension(name string, entry sys.EntryFunc) error {
	if e.library != nil {
		return errors.New(errors.PhaseInit, errors.KindAlreadyLoaded).
			Detail("engine already hosts %s", e.library.name).
			Build()
	}

	lib := &library{name: name, level: -1}
	e.library = lib

	if entry(e.iface, sys.LibraryPtr(unsafe.Pointer(lib)), &lib.init) != sys.True {
		e.library = nil
		return errors.New(errors.PhaseInit, errors.KindRegistration).
			Detail("entry point of %s reported failure", name).
			Build()
	}
	if lib.init.Initialize == nil || lib.init.Deinitialize == nil {
		e.library = nil
		return errors.InvalidInput(errors.PhaseInit, "entry point did not provide level callbacks")
	}
	if lib.init.MinimumInitializationLevel > sys.InitializationEditor {
		e.library = nil
		return errors.InvalidLevel(uint32(lib.init.MinimumInitializationLevel))
	}

	e.log.Info("extension loaded",
		zap.String("library", name),
		zap.Uint32("minimum_level", uint32(lib.init.MinimumInitializationLevel)))
	return nil
}

// Startup initializes every level from the plugin's minimum up to Editor, in
// increasing order.
func (e *Engine) Startup() {
	lib := e.library
	if lib == nil {
		return
	}
	for level := int(lib.init.MinimumInitializationLevel); level <= int(sys.InitializationEditor); level++ {
		if level <= lib.level {
			continue
		}
		lib.init.Initialize(lib.init.Userdata, sys.InitializationLevel(level))
		lib.level = level
	}
}

// Shutdown deinitializes every initialized level in decreasing order.
func (e *Engine) Shutdown() {
	lib := e.library
	if lib == nil {
		return
	}
	for ; lib.level >= int(lib.init.MinimumInitializationLevel); lib.level-- {
		lib.init.Deinitialize(lib.init.Userdata, sys.InitializationLevel(lib.level))
	}
	lib.level = -1
}

// InitializedLevel returns the highest initialized level.
func (e *Engine) InitializedLevel() (sys.InitializationLevel, bool) {
	if e.library == nil || e.library.level < 0 {
		return 0, false
	}
	return sys.InitializationLevel(e.library.level), true
}

// Attach creates the library record without an entry point, for guests that
// bind sys directly. It fails if a library is already loaded.
func (e *Engine) Attach(name string) (sys.LibraryPtr, error) {
	if e.library != nil {
		return nil, errors.New(errors.PhaseInit, errors.KindAlreadyLoaded).
			Detail("engine already hosts %s", e.library.name).
			Build()
	}
	e.library = &library{name: name, level: -1}
	return sys.LibraryPtr(unsafe.Pointer(e.library)), nil
}
