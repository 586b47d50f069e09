package extension

import (
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/gdext/obj"
)

// Layer is a unit of setup and teardown bound to one level.
type Layer interface {
	Initialize()
	Deinitialize()
}

// LayerFuncs adapts a pair of functions to Layer. Nil functions do nothing.
type LayerFuncs struct {
	Init   func()
	Deinit func()
}

func (f LayerFuncs) Initialize() {
	if f.Init != nil {
		f.Init()
	}
}

func (f LayerFuncs) Deinitialize() {
	if f.Deinit != nil {
		f.Deinit()
	}
}

// InitHandle holds at most one layer per level.
type InitHandle struct {
	layers map[Level]Layer
}

func NewInitHandle() *InitHandle {
	return &InitHandle{layers: make(map[Level]Layer)}
}

// RegisterLayer sets the layer of a level, replacing any previous one.
func (h *InitHandle) RegisterLayer(level Level, layer Layer) {
	if _, replaced := h.layers[level]; replaced {
		Logger().Debug("replacing layer", zap.Stringer("level", level))
	}
	h.layers[level] = layer
}

// Layer returns the layer registered at level.
func (h *InitHandle) Layer(level Level) (Layer, bool) {
	l, ok := h.layers[level]
	return l, ok
}

// LowestInitLevel is the first level the host must call back for. It is
// Scene when no layer is registered.
func (h *InitHandle) LowestInitLevel() Level {
	levels := h.RegisteredLevels()
	if len(levels) == 0 {
		return LevelScene
	}
	return levels[0]
}

// RegisteredLevels returns the levels that have a layer, in ascending order.
func (h *InitHandle) RegisteredLevels() []Level {
	out := make([]Level, 0, len(h.layers))
	for level := range h.layers {
		out = append(out, level)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RunInitFunction initializes the layer at level, if any. The host calls
// levels in increasing order; the handle does not check.
func (h *InitHandle) RunInitFunction(level Level) {
	if layer, ok := h.layers[level]; ok {
		Logger().Debug("initializing layer", zap.Stringer("level", level))
		layer.Initialize()
	}
}

// RunDeinitFunction deinitializes the layer at level, if any.
func (h *InitHandle) RunDeinitFunction(level Level) {
	if layer, ok := h.layers[level]; ok {
		Logger().Debug("deinitializing layer", zap.Stringer("level", level))
		layer.Deinitialize()
	}
}

// DefaultLayer registers user classes with the host on initialization and
// removes them, in reverse order, on deinitialization.
type DefaultLayer struct{}

func (DefaultLayer) Initialize() {
	if err := obj.RegisterClasses(); err != nil {
		Logger().Error("registering user classes", zap.Error(err))
	}
}

func (DefaultLayer) Deinitialize() {
	obj.UnregisterClasses()
}

// DefaultInit registers DefaultLayer at the Scene level.
func DefaultInit(h *InitHandle) {
	h.RegisterLayer(LevelScene, DefaultLayer{})
}
