package builtin

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/gdext/sys"
)

// Vector3 is a value-backed 3D vector.
type Vector3 struct {
	X, Y, Z float32
}

func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v *Vector3) Repr() sys.Repr { return sys.ReprValue }

func (v *Vector3) Sys() unsafe.Pointer { return unsafe.Pointer(v) }

func (v *Vector3) SysMut() unsafe.Pointer { return unsafe.Pointer(v) }

func (v *Vector3) LoadSys(raw unsafe.Pointer) { *v = *(*Vector3)(raw) }

func (v *Vector3) InitSys(init func(unsafe.Pointer)) { init(unsafe.Pointer(v)) }

func (v *Vector3) WriteSys(dst unsafe.Pointer) { *(*Vector3)(dst) = *v }

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
