package obj

import "github.com/wippyai/gdext/sys"

// RawObject is the root of every class view. View types embed it, directly or
// through their base view, and issue method calls against ObjectPtr.
type RawObject struct {
	ptr sys.ObjectPtr
}

// ObjectPtr returns the host object the view is bound to.
func (o *RawObject) ObjectPtr() sys.ObjectPtr {
	return o.ptr
}

func (o *RawObject) bindPtr(ptr sys.ObjectPtr) {
	o.ptr = ptr
}

// binder is satisfied by every type embedding RawObject.
type binder interface {
	bindPtr(ptr sys.ObjectPtr)
}
