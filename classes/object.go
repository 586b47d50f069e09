package classes

import (
	"unsafe"

	"github.com/wippyai/gdext/builtin"
	"github.com/wippyai/gdext/obj"
	"github.com/wippyai/gdext/sys"
)

var (
	ObjectClass     = obj.RegisterEngineClass[Object]("Object", nil, false)
	RefCountedClass = obj.RegisterEngineClass[RefCounted]("RefCounted", ObjectClass, true)
	ResourceClass   = obj.RegisterEngineClass[Resource]("Resource", RefCountedClass, false)
	NodeClass       = obj.RegisterEngineClass[Node]("Node", ObjectClass, false)
	Node3DClass     = obj.RegisterEngineClass[Node3D]("Node3D", NodeClass, false)
)

// Object is the root of the class hierarchy.
type Object struct {
	obj.RawObject
}

// NewObject allocates a bare Object. It must be freed explicitly.
func NewObject() obj.Gd[Object] {
	return obj.NewDefault[Object]()
}

var (
	objectGetClass              = obj.NewMethodBind("Object", "get_class")
	objectGetInstanceID         = obj.NewMethodBind("Object", "get_instance_id")
	objectIsClass               = obj.NewMethodBind("Object", "is_class")
	objectSetMessageTranslation = obj.NewMethodBind("Object", "set_message_translation")
	objectCanTranslateMessages  = obj.NewMethodBind("Object", "can_translate_messages")
)

// GetClass returns the runtime class name.
func (o *Object) GetClass() builtin.GodotString {
	return sys.FromSysInit[builtin.GodotString](func(ret unsafe.Pointer) {
		objectGetClass.Ptrcall(o.ObjectPtr(), ret)
	})
}

func (o *Object) GetInstanceID() obj.InstanceID {
	var id int64
	objectGetInstanceID.Ptrcall(o.ObjectPtr(), unsafe.Pointer(&id))
	return obj.InstanceID(id)
}

// IsClass reports whether the object's runtime class is class or inherits it.
func (o *Object) IsClass(class string) bool {
	name := builtin.NewGodotString(class)
	var ret sys.Bool
	objectIsClass.Ptrcall(o.ObjectPtr(), unsafe.Pointer(&ret), name.Sys())
	return ret == sys.True
}

func (o *Object) SetMessageTranslation(enable bool) {
	arg := sys.BoolOf(enable)
	objectSetMessageTranslation.Ptrcall(o.ObjectPtr(), nil, unsafe.Pointer(&arg))
}

func (o *Object) CanTranslateMessages() bool {
	var ret sys.Bool
	objectCanTranslateMessages.Ptrcall(o.ObjectPtr(), unsafe.Pointer(&ret))
	return ret == sys.True
}

// RefCounted objects are destroyed by the host when their last reference is
// released.
type RefCounted struct {
	Object
}

// NewRefCounted allocates a RefCounted. The handle owns one reference.
func NewRefCounted() obj.Gd[RefCounted] {
	return obj.NewDefault[RefCounted]()
}

var refCountedGetReferenceCount = obj.NewMethodBind("RefCounted", "get_reference_count")

func (r *RefCounted) GetReferenceCount() int64 {
	var n int64
	refCountedGetReferenceCount.Ptrcall(r.ObjectPtr(), unsafe.Pointer(&n))
	return n
}

// Resource is a reference-counted data object.
type Resource struct {
	RefCounted
}

func NewResource() obj.Gd[Resource] {
	return obj.NewDefault[Resource]()
}

var (
	resourceSetName = obj.NewMethodBind("Resource", "set_name")
	resourceGetName = obj.NewMethodBind("Resource", "get_name")
)

func (r *Resource) SetName(name builtin.GodotString) {
	resourceSetName.Ptrcall(r.ObjectPtr(), nil, name.Sys())
}

func (r *Resource) GetName() builtin.GodotString {
	return sys.FromSysInit[builtin.GodotString](func(ret unsafe.Pointer) {
		resourceGetName.Ptrcall(r.ObjectPtr(), ret)
	})
}
