package hostsim

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

func TestLoadExtension(t *testing.T) {
	e := newEngine(t)

	var calls []string
	var gotLib sys.LibraryPtr
	entry := func(iface *sys.Interface, lib sys.LibraryPtr, init *sys.Initialization) sys.Bool {
		assert.Same(t, e.Interface(), iface)
		gotLib = lib
		init.MinimumInitializationLevel = sys.InitializationServers
		init.Initialize = func(_ unsafe.Pointer, level sys.InitializationLevel) {
			calls = append(calls, "init", levelName(level))
		}
		init.Deinitialize = func(_ unsafe.Pointer, level sys.InitializationLevel) {
			calls = append(calls, "deinit", levelName(level))
		}
		return sys.True
	}

	require.NoError(t, e.LoadExtension("demo", entry))
	assert.NotNil(t, gotLib)
	_, ok := e.InitializedLevel()
	assert.False(t, ok)

	e.Startup()
	level, ok := e.InitializedLevel()
	require.True(t, ok)
	assert.Equal(t, sys.InitializationEditor, level)

	e.Startup()
	e.Shutdown()
	assert.Equal(t, []string{
		"init", "servers", "init", "scene", "init", "editor",
		"deinit", "editor", "deinit", "scene", "deinit", "servers",
	}, calls)

	err := e.LoadExtension("again", entry)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseInit, Kind: errors.KindAlreadyLoaded})
	_, err = e.Attach("again")
	assert.Error(t, err)
}

func TestLoadExtensionFailure(t *testing.T) {
	e := newEngine(t)

	failing := func(*sys.Interface, sys.LibraryPtr, *sys.Initialization) sys.Bool { return sys.False }
	assert.Error(t, e.LoadExtension("bad", failing))

	noCallbacks := func(*sys.Interface, sys.LibraryPtr, *sys.Initialization) sys.Bool { return sys.True }
	assert.Error(t, e.LoadExtension("bad", noCallbacks))

	badLevel := func(_ *sys.Interface, _ sys.LibraryPtr, init *sys.Initialization) sys.Bool {
		init.MinimumInitializationLevel = 9
		init.Initialize = func(unsafe.Pointer, sys.InitializationLevel) {}
		init.Deinitialize = func(unsafe.Pointer, sys.InitializationLevel) {}
		return sys.True
	}
	err := e.LoadExtension("bad", badLevel)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseInit, Kind: errors.KindInvalidLevel})

	// nothing stays loaded after a failure
	e.Startup()
	e.Shutdown()
	_, err = e.Attach("good")
	assert.NoError(t, err)
}

func levelName(l sys.InitializationLevel) string {
	switch l {
	case sys.InitializationCore:
		return "core"
	case sys.InitializationServers:
		return "servers"
	case sys.InitializationScene:
		return "scene"
	default:
		return "editor"
	}
}
