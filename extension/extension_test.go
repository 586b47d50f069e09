package extension

import (
	"context"
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	_ "github.com/wippyai/gdext/classes"
	"github.com/wippyai/gdext/internal/hostsim"
	"github.com/wippyai/gdext/obj"
	"github.com/wippyai/gdext/sys"
)

type Gem struct {
	Carats int
}

func (g *Gem) Init() { g.Carats = 3 }

func TestMain(m *testing.M) {
	obj.MustRegister[Gem]()
	os.Exit(m.Run())
}

// recorder is a layer that appends to a shared call log.
type recorder struct {
	name  string
	calls *[]string
}

func (r recorder) Initialize()   { *r.calls = append(*r.calls, "init "+r.name) }
func (r recorder) Deinitialize() { *r.calls = append(*r.calls, "deinit "+r.name) }

func newEngine(t *testing.T) *hostsim.Engine {
	t.Helper()
	e, err := hostsim.New(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		loaded.Store(nil)
		_ = e.Close(context.Background())
	})
	loaded.Store(nil)
	return e
}

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestLevelFromSys(t *testing.T) {
	logs := observe(t, zapcore.WarnLevel)

	for _, level := range Levels {
		assert.Equal(t, level, LevelFromSys(level.ToSys()))
	}
	assert.Equal(t, 0, logs.Len())

	assert.Equal(t, LevelScene, LevelFromSys(7))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, uint32(7), entry.ContextMap()["level"])
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "core", LevelCore.String())
	assert.Equal(t, "servers", LevelServers.String())
	assert.Equal(t, "scene", LevelScene.String())
	assert.Equal(t, "editor", LevelEditor.String())
	assert.Equal(t, "level(9)", Level(9).String())
	assert.Equal(t, sys.InitializationScene, Level(9).ToSys())
}

func TestInitHandle(t *testing.T) {
	h := NewInitHandle()
	assert.Equal(t, LevelScene, h.LowestInitLevel())
	assert.Empty(t, h.RegisteredLevels())

	// missing levels are no-ops
	h.RunInitFunction(LevelCore)
	h.RunDeinitFunction(LevelEditor)

	var calls []string
	h.RegisterLayer(LevelScene, recorder{"scene", &calls})
	h.RegisterLayer(LevelCore, recorder{"core", &calls})
	assert.Equal(t, LevelCore, h.LowestInitLevel())
	assert.Equal(t, []Level{LevelCore, LevelScene}, h.RegisteredLevels())

	for _, level := range Levels {
		h.RunInitFunction(level)
	}
	assert.Equal(t, []string{"init core", "init scene"}, calls)

	calls = nil
	for i := len(Levels) - 1; i >= 0; i-- {
		h.RunDeinitFunction(Levels[i])
	}
	assert.Equal(t, []string{"deinit scene", "deinit core"}, calls)
}

func TestRegisterLayerReplaces(t *testing.T) {
	h := NewInitHandle()
	var calls []string
	h.RegisterLayer(LevelServers, recorder{"first", &calls})
	h.RegisterLayer(LevelServers, recorder{"second", &calls})

	h.RunInitFunction(LevelServers)
	assert.Equal(t, []string{"init second"}, calls)

	layer, ok := h.Layer(LevelServers)
	require.True(t, ok)
	assert.Equal(t, "second", layer.(recorder).name)
	_, ok = h.Layer(LevelEditor)
	assert.False(t, ok)
}

func TestLayerFuncs(t *testing.T) {
	var n int
	f := LayerFuncs{Init: func() { n++ }}
	f.Initialize()
	f.Deinitialize()
	assert.Equal(t, 1, n)
}

func TestLoadThroughHost(t *testing.T) {
	e := newEngine(t)

	var calls []string
	lib := LibraryFunc(func(h *InitHandle) bool {
		h.RegisterLayer(LevelScene, recorder{"scene", &calls})
		h.RegisterLayer(LevelCore, recorder{"core", &calls})
		return true
	})

	require.NoError(t, e.LoadExtension("layers", EntryPoint(lib)))
	h := loaded.Load()
	require.NotNil(t, h)
	assert.Equal(t, LevelCore, h.LowestInitLevel())

	e.Startup()
	assert.Equal(t, []string{"init core", "init scene"}, calls)

	e.Shutdown()
	assert.Equal(t, []string{"init core", "init scene", "deinit scene", "deinit core"}, calls)
}

func TestLoadFillsRecord(t *testing.T) {
	e := newEngine(t)

	var init sys.Initialization
	init.Userdata = unsafe.Pointer(&init)
	got := LoadLibrary(LibraryFunc(func(*InitHandle) bool { return false }), e.Interface(), nil, &init)

	assert.Equal(t, sys.False, got)
	assert.Equal(t, sys.InitializationScene, init.MinimumInitializationLevel)
	assert.Nil(t, init.Userdata)
	assert.NotNil(t, init.Initialize)
	assert.NotNil(t, init.Deinitialize)
}

func TestSecondLoadRefused(t *testing.T) {
	e := newEngine(t)
	logs := observe(t, zapcore.ErrorLevel)

	require.NoError(t, e.LoadExtension("first", EntryPoint(DefaultLibrary{})))

	other, err := hostsim.New(context.Background())
	require.NoError(t, err)
	defer other.Close(context.Background())

	var init sys.Initialization
	assert.Equal(t, sys.False, LoadLibrary(DefaultLibrary{}, other.Interface(), nil, &init))
	assert.Nil(t, init.Initialize)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "library load refused", logs.All()[0].Message)

	// the refused load leaves the first host bound
	assert.Same(t, e.Interface(), sys.Host())
}

func TestCallbackBeforeLoad(t *testing.T) {
	loaded.Store(nil)
	logs := observe(t, zapcore.ErrorLevel)

	initializeLayer(nil, sys.InitializationScene)
	deinitializeLayer(nil, sys.InitializationScene)
	assert.Equal(t, 2, logs.Len())
}

func TestDefaultLibrary(t *testing.T) {
	e := newEngine(t)

	require.NoError(t, e.LoadExtension("gems", EntryPoint(DefaultLibrary{})))
	h := loaded.Load()
	require.NotNil(t, h)
	assert.Equal(t, []Level{LevelScene}, h.RegisteredLevels())
	assert.False(t, hostHas(e, "Gem"))

	e.Startup()
	require.True(t, hostHas(e, "Gem"))
	info, ok := obj.LookupClass("Gem")
	require.True(t, ok)
	assert.True(t, info.IsRegistered())

	gem := obj.NewDefault[Gem]()
	assert.Equal(t, 3, gem.Bind().Carats)
	assert.Equal(t, "Gem", gem.Class().Name())
	gem.Drop()

	e.Shutdown()
	assert.False(t, hostHas(e, "Gem"))
	assert.False(t, info.IsRegistered())
}

func TestShutdownWithLiveInstances(t *testing.T) {
	e := newEngine(t)
	core, logs := observer.New(zapcore.WarnLevel)
	obj.SetLogger(zap.New(core))
	t.Cleanup(func() { obj.SetLogger(zap.NewNop()) })

	require.NoError(t, e.LoadExtension("gems", EntryPoint(DefaultLibrary{})))
	e.Startup()

	gem := obj.NewDefault[Gem]()
	e.Shutdown()

	entries := logs.FilterMessage("user class unregistered with live instances").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Gem", entries[0].ContextMap()["class"])
	assert.Equal(t, int64(1), entries[0].ContextMap()["instances"])

	// the object outlives its class registration and is still released normally
	gem.Drop()
	assert.Equal(t, 0, obj.LiveInstances())
}

func hostHas(e *hostsim.Engine, class string) bool {
	for _, c := range e.Classes() {
		if c.Name == class {
			return c.Extension
		}
	}
	return false
}
