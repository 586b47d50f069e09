package builtin

import (
	"testing"
	"unsafe"

	"github.com/wippyai/gdext/internal/layout"
)

func TestVariantLayoutMatchesHost(t *testing.T) {
	info := layout.Of(layout.Variant)
	var v variantOpaque

	if got := uint32(unsafe.Sizeof(v)); got != info.Size {
		t.Errorf("variant size = %d, host expects %d", got, info.Size)
	}
	offsets := map[string]uintptr{
		"type": unsafe.Offsetof(v.typ),
		"data": unsafe.Offsetof(v.data),
		"ptr":  unsafe.Offsetof(v.ptr),
	}
	for field, off := range offsets {
		if uint32(off) != info.FieldOffs[field] {
			t.Errorf("variant.%s offset = %d, host expects %d", field, off, info.FieldOffs[field])
		}
	}
}

func TestVector3LayoutMatchesHost(t *testing.T) {
	info := layout.Of(layout.Vector3)
	var v Vector3

	if got := uint32(unsafe.Sizeof(v)); got != info.Size {
		t.Errorf("vector3 size = %d, host expects %d", got, info.Size)
	}
	if got := uint32(unsafe.Offsetof(v.Z)); got != info.FieldOffs["z"] {
		t.Errorf("vector3.z offset = %d, host expects %d", got, info.FieldOffs["z"])
	}
	// a vector must fit the inline data words of a variant
	if info.Size > uint32(unsafe.Sizeof(variantOpaque{}.data)) {
		t.Errorf("vector3 (%d bytes) does not fit variant data", info.Size)
	}
}
