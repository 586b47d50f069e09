package hostsim

import (
	"context"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/gdext"
	"github.com/wippyai/gdext/internal/layout"
	"github.com/wippyai/gdext/sys"
)

const firstInstanceID = 1 << 24

const (
	flagAlive  uint32 = 1 << 0
	flagQueued uint32 = 1 << 1
)

// Severity of a diagnostic report.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Report is a diagnostic printed through the host, by the guest or by the
// host itself.
type Report struct {
	Severity    Severity
	Description string
	Function    string
	File        string
	Line        int32
}

// Engine is a simulated host.
type Engine struct {
	log       *zap.Logger
	arena     *arena
	mem       gdext.Memory
	slots     *slotAllocator
	iface     *sys.Interface
	library   *library
	classes   map[string]*class
	strs      map[string]*hostString
	names     map[string]*hostString
	live      map[sys.InstanceID]uint32
	props     map[sys.InstanceID]map[string]any
	classList []*class
	queued    []sys.InstanceID
	reports   []Report
	hdr       headerLayout
	variant   variantLayout
	nextID    uint64
}

type header struct {
	id       sys.InstanceID
	instance sys.InstancePtr
	class    uint32
	ext      uint32
	refcount uint32
	flags    uint32
}

type headerLayout struct {
	size, id, class, ext, refcount, flags, instance uint32
}

func newHeaderLayout() headerLayout {
	info := layout.Of(layout.ObjectHeader)
	return headerLayout{
		size:     info.Size,
		id:       info.FieldOffs["id"],
		class:    info.FieldOffs["class"],
		ext:      info.FieldOffs["extension-class"],
		refcount: info.FieldOffs["refcount"],
		flags:    info.FieldOffs["flags"],
		instance: info.FieldOffs["instance"],
	}
}

// New creates an engine with the native class catalog installed.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	cfg := config{
		log:        zap.NewNop(),
		arenaPages: defaultArenaPages,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a, err := newArena(ctx, cfg.arenaPages)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		log:       cfg.log,
		arena:     a,
		mem:       a.mem,
		classes:   make(map[string]*class),
		strs:      make(map[string]*hostString),
		names:     make(map[string]*hostString),
		live:      make(map[sys.InstanceID]uint32),
		props:     make(map[sys.InstanceID]map[string]any),
		classList: []*class{nil},
		hdr:       newHeaderLayout(),
		variant:   newVariantLayout(),
		nextID:    firstInstanceID,
	}
	e.slots = newSlotAllocator(e.hdr.size, a.mem.Size())
	installNatives(e)
	e.iface = e.buildInterface()

	e.log.Debug("host engine created",
		zap.Uint32("arena_pages", cfg.arenaPages),
		zap.Int("native_classes", len(e.classes)))
	return e, nil
}

// Close releases the object heap. Objects still alive are leaked with it.
func (e *Engine) Close(ctx context.Context) error {
	if len(e.live) > 0 {
		e.log.Warn("closing engine with live objects", zap.Int("count", len(e.live)))
	}
	return e.arena.close(ctx)
}

// Interface returns the host function table handed to plugins.
func (e *Engine) Interface() *sys.Interface {
	return e.iface
}

// Reports returns the diagnostics recorded so far.
func (e *Engine) Reports() []Report {
	return append([]Report(nil), e.reports...)
}

// ClearReports discards recorded diagnostics.
func (e *Engine) ClearReports() {
	e.reports = nil
}

// ObjectCount returns the number of live objects.
func (e *Engine) ObjectCount() int {
	return len(e.live)
}

// IsAlive reports whether an object with the identity exists.
func (e *Engine) IsAlive(id sys.InstanceID) bool {
	_, ok := e.live[id]
	return ok
}

func (e *Engine) report(sev Severity, function, description string) {
	e.reports = append(e.reports, Report{
		Severity:    sev,
		Description: description,
		Function:    function,
		File:        "hostsim",
	})
	if sev == SeverityError {
		e.log.Warn("host error", zap.String("function", function), zap.String("description", description))
	} else {
		e.log.Info("host warning", zap.String("function", function), zap.String("description", description))
	}
}

func (e *Engine) readHeader(off uint32) (header, error) {
	var h header
	id, err := e.mem.ReadU64(off + e.hdr.id)
	if err != nil {
		return h, err
	}
	inst, err := e.mem.ReadU64(off + e.hdr.instance)
	if err != nil {
		return h, err
	}
	h.id = sys.InstanceID(id)
	h.instance = sys.InstancePtr(inst)
	if h.class, err = e.mem.ReadU32(off + e.hdr.class); err != nil {
		return h, err
	}
	if h.ext, err = e.mem.ReadU32(off + e.hdr.ext); err != nil {
		return h, err
	}
	if h.refcount, err = e.mem.ReadU32(off + e.hdr.refcount); err != nil {
		return h, err
	}
	h.flags, err = e.mem.ReadU32(off + e.hdr.flags)
	return h, err
}

func (e *Engine) writeHeader(off uint32, h header) error {
	if err := e.mem.WriteU64(off+e.hdr.id, uint64(h.id)); err != nil {
		return err
	}
	if err := e.mem.WriteU64(off+e.hdr.instance, uint64(h.instance)); err != nil {
		return err
	}
	if err := e.mem.WriteU32(off+e.hdr.class, h.class); err != nil {
		return err
	}
	if err := e.mem.WriteU32(off+e.hdr.ext, h.ext); err != nil {
		return err
	}
	if err := e.mem.WriteU32(off+e.hdr.refcount, h.refcount); err != nil {
		return err
	}
	return e.mem.WriteU32(off+e.hdr.flags, h.flags)
}

// target is a resolved live object.
type target struct {
	e   *Engine
	ptr sys.ObjectPtr
	off uint32
	hdr header
}

func (e *Engine) resolve(ptr sys.ObjectPtr) (target, bool) {
	off, ok := e.arena.offset(unsafe.Pointer(ptr))
	if !ok || off == 0 || off%e.hdr.size != 0 {
		return target{}, false
	}
	h, err := e.readHeader(off)
	if err != nil || h.flags&flagAlive == 0 {
		return target{}, false
	}
	return target{e: e, ptr: ptr, off: off, hdr: h}, true
}

func (t target) class() *class {
	if t.hdr.ext != 0 {
		return t.e.classList[t.hdr.ext]
	}
	return t.e.classList[t.hdr.class]
}

func (t *target) save() {
	if err := t.e.writeHeader(t.off, t.hdr); err != nil {
		t.e.report(SeverityError, "object_header", err.Error())
	}
}

func (t target) prop(key string, def any) any {
	if v, ok := t.e.props[t.hdr.id][key]; ok {
		return v
	}
	return def
}

func (t target) setProp(key string, v any) {
	m := t.e.props[t.hdr.id]
	if m == nil {
		m = make(map[string]any)
		t.e.props[t.hdr.id] = m
	}
	m[key] = v
}

func (e *Engine) allocObject(c *class) sys.ObjectPtr {
	off, err := e.slots.Alloc(e.hdr.size, 8)
	if err != nil {
		e.report(SeverityError, "classdb_construct_object", err.Error())
		return nil
	}
	e.nextID++
	h := header{
		id:    sys.InstanceID(e.nextID),
		class: c.index,
		flags: flagAlive,
	}
	if err := e.writeHeader(off, h); err != nil {
		e.slots.Free(off, e.hdr.size, 8)
		e.report(SeverityError, "classdb_construct_object", err.Error())
		return nil
	}
	e.live[h.id] = off
	e.log.Debug("object constructed", zap.String("class", c.name), zap.Uint64("id", uint64(h.id)))
	return sys.ObjectPtr(e.arena.ptr(off))
}

func (e *Engine) destroy(t target) {
	id := t.hdr.id
	ext := t.hdr.ext
	instance := t.hdr.instance
	className := t.class().name

	// dead before callbacks run, so re-entrant liveness queries see it gone
	t.hdr.flags = 0
	t.save()
	delete(e.live, id)

	if ext != 0 && instance != 0 {
		if c := e.classList[ext]; c.info != nil && c.info.FreeInstance != nil {
			c.info.FreeInstance(instance)
		}
	}

	delete(e.props, id)
	t.hdr = header{}
	t.save()
	e.slots.Free(t.off, e.hdr.size, 8)
	e.log.Debug("object destroyed", zap.String("class", className), zap.Uint64("id", uint64(id)))
}

// Destroy destroys an object from the host side, as scene teardown would.
func (e *Engine) Destroy(id sys.InstanceID) bool {
	off, ok := e.live[id]
	if !ok {
		return false
	}
	t, ok := e.resolve(sys.ObjectPtr(e.arena.ptr(off)))
	if !ok {
		return false
	}
	e.destroy(t)
	return true
}

// ProcessFrame destroys objects queued for deletion and returns how many were
// destroyed.
func (e *Engine) ProcessFrame() int {
	queued := e.queued
	e.queued = nil
	n := 0
	for _, id := range queued {
		if e.Destroy(id) {
			n++
		}
	}
	return n
}

// ClassOf returns the runtime class name of a live object.
func (e *Engine) ClassOf(id sys.InstanceID) (string, bool) {
	off, ok := e.live[id]
	if !ok {
		return "", false
	}
	t, ok := e.resolve(sys.ObjectPtr(e.arena.ptr(off)))
	if !ok {
		return "", false
	}
	return t.class().name, true
}
