package hostsim

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/gdext"
	"github.com/wippyai/gdext/errors"
)

const pageSize = 65536

// memoryModule encodes a module that only defines and exports one memory of
// exactly pages pages.
func memoryModule(pages uint32) []byte {
	limits := []byte{0x01, 0x01} // one memory, has max
	limits = appendULEB(limits, pages)
	limits = appendULEB(limits, pages)

	export := []byte{0x01, 0x06}
	export = append(export, "memory"...)
	export = append(export, 0x02, 0x00) // memory 0

	bin := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	bin = append(bin, 0x05)
	bin = appendULEB(bin, uint32(len(limits)))
	bin = append(bin, limits...)
	bin = append(bin, 0x07)
	bin = appendULEB(bin, uint32(len(export)))
	bin = append(bin, export...)
	return bin
}

func appendULEB(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

// arena is the object heap. The memory is allocated at its maximum size up
// front and never grows, so addresses inside it stay valid.
type arena struct {
	rt   wazero.Runtime
	mod  api.Module
	mem  *HeapMemory
	view []byte
	base unsafe.Pointer
}

func newArena(ctx context.Context, pages uint32) (*arena, error) {
	cfg := wazero.NewRuntimeConfigInterpreter().
		WithMemoryLimitPages(pages).
		WithMemoryCapacityFromMax(true)
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	mod, err := rt.InstantiateWithConfig(ctx, memoryModule(pages), wazero.NewModuleConfig().WithName("object-heap"))
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseHost, errors.KindAllocation, err, "instantiate object heap")
	}

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		rt.Close(ctx)
		return nil, errors.NotFound(errors.PhaseHost, "memory export", "memory")
	}
	view, ok := mem.Read(0, mem.Size())
	if !ok || len(view) == 0 {
		rt.Close(ctx)
		return nil, errors.AllocationFailed(errors.PhaseHost, pages*pageSize, 8)
	}

	return &arena{
		rt:   rt,
		mod:  mod,
		mem:  &HeapMemory{mem: mem},
		view: view,
		base: unsafe.Pointer(unsafe.SliceData(view)),
	}, nil
}

func (a *arena) ptr(off uint32) unsafe.Pointer {
	return unsafe.Add(a.base, off)
}

// offset maps a pointer back into the arena. ok is false for foreign pointers.
func (a *arena) offset(p unsafe.Pointer) (uint32, bool) {
	if p == nil {
		return 0, false
	}
	d := uintptr(p) - uintptr(a.base)
	if uintptr(p) < uintptr(a.base) || d >= uintptr(len(a.view)) {
		return 0, false
	}
	return uint32(d), true
}

func (a *arena) close(ctx context.Context) error {
	return a.rt.Close(ctx)
}

// HeapMemory wraps the wazero memory backing the object heap.
type HeapMemory struct {
	mem api.Memory
}

func (m *HeapMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *HeapMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *HeapMemory) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return val, nil
}

func (m *HeapMemory) ReadU64(offset uint32) (uint64, error) {
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return val, nil
}

func (m *HeapMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *HeapMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *HeapMemory) Size() uint32 {
	return m.mem.Size()
}

// slotAllocator hands out fixed-size header slots. Slot 0 is reserved so that
// no object lives at the arena base.
type slotAllocator struct {
	free     []uint32
	next     uint32
	slotSize uint32
	limit    uint32
}

func newSlotAllocator(slotSize, limit uint32) *slotAllocator {
	return &slotAllocator{
		next:     slotSize,
		slotSize: slotSize,
		limit:    limit,
	}
}

func (s *slotAllocator) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if size > s.slotSize || align > s.slotSize || s.slotSize%align != 0 {
		return 0, errors.AllocationFailed(errors.PhaseHost, size, align)
	}
	if n := len(s.free); n > 0 {
		off := s.free[n-1]
		s.free = s.free[:n-1]
		return off, nil
	}
	if s.next+s.slotSize > s.limit {
		return 0, errors.AllocationFailed(errors.PhaseHost, size, align)
	}
	off := s.next
	s.next += s.slotSize
	return off, nil
}

func (s *slotAllocator) Free(ptr, size, align uint32) {
	s.free = append(s.free, ptr)
}

// InUse returns the number of allocated slots.
func (s *slotAllocator) InUse() int {
	return int(s.next/s.slotSize) - 1 - len(s.free)
}

var (
	_ gdext.Memory      = (*HeapMemory)(nil)
	_ gdext.MemorySizer = (*HeapMemory)(nil)
	_ gdext.Allocator   = (*slotAllocator)(nil)
)
