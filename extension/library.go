package extension

import (
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

// Library is implemented by a plugin to set up its layers. LoadLibrary
// returns whether loading succeeded.
type Library interface {
	LoadLibrary(h *InitHandle) bool
}

// DefaultLibrary only installs the default layer.
type DefaultLibrary struct{}

func (DefaultLibrary) LoadLibrary(h *InitHandle) bool {
	DefaultInit(h)
	return true
}

// LibraryFunc adapts a function to Library.
type LibraryFunc func(h *InitHandle) bool

func (f LibraryFunc) LoadLibrary(h *InitHandle) bool { return f(h) }

// loaded is the handle of the loaded library. It is assigned once per
// process, by LoadLibrary, and read only by the level callbacks.
var loaded atomic.Pointer[InitHandle]

// EntryPoint returns the function the host calls to load the plugin.
func EntryPoint(lib Library) sys.EntryFunc {
	return func(iface *sys.Interface, library sys.LibraryPtr, init *sys.Initialization) sys.Bool {
		return LoadLibrary(lib, iface, library, init)
	}
}

// LoadLibrary claims the process-wide init handle, binds the host, builds the
// handle's layers from lib and fills in the host's initialization record. The
// record is filled even when lib reports failure. A second load in the same
// process is refused without touching the host binding.
func LoadLibrary(lib Library, iface *sys.Interface, library sys.LibraryPtr, init *sys.Initialization) sys.Bool {
	h := NewInitHandle()
	if !loaded.CompareAndSwap(nil, h) {
		Logger().Error("library load refused", zap.Error(errors.AlreadyLoaded()))
		return sys.False
	}

	sys.Initialize(iface, library)
	ok := lib.LoadLibrary(h)

	init.MinimumInitializationLevel = h.LowestInitLevel().ToSys()
	init.Userdata = nil
	init.Initialize = initializeLayer
	init.Deinitialize = deinitializeLayer

	Logger().Info("library loaded",
		zap.Bool("success", ok),
		zap.Stringer("lowest_level", h.LowestInitLevel()),
		zap.Int("layers", len(h.layers)))
	return sys.BoolOf(ok)
}

func initializeLayer(_ unsafe.Pointer, level sys.InitializationLevel) {
	h := loaded.Load()
	if h == nil {
		Logger().Error("initialize callback before load", zap.Uint32("level", uint32(level)))
		return
	}
	h.RunInitFunction(LevelFromSys(level))
}

func deinitializeLayer(_ unsafe.Pointer, level sys.InitializationLevel) {
	h := loaded.Load()
	if h == nil {
		Logger().Error("deinitialize callback before load", zap.Uint32("level", uint32(level)))
		return
	}
	h.RunDeinitFunction(LevelFromSys(level))
}
