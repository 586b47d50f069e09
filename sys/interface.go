package sys

import "unsafe"

// Interface is the table of host functions handed to the plugin at load time.
//
// String arguments named class or method are StringName cells; contents are
// passed as Go strings. Argument slices hold one raw cell per parameter.
type Interface struct {
	VersionMajor uint32
	VersionMinor uint32
	VersionPatch uint32
	VersionName  string

	PrintError   func(description, function, file string, line int32)
	PrintWarning func(description, function, file string, line int32)

	StringNewWithUTF8Chars     func(dst unsafe.Pointer, contents string)
	StringToUTF8Chars          func(str unsafe.Pointer) string
	StringNameNewWithUTF8Chars func(dst unsafe.Pointer, contents string)
	StringNameToUTF8Chars      func(name unsafe.Pointer) string

	ObjectMethodBindCall     func(mb MethodBindPtr, obj ObjectPtr, args []unsafe.Pointer, ret unsafe.Pointer, err *CallError)
	ObjectMethodBindPtrcall  func(mb MethodBindPtr, obj ObjectPtr, args []unsafe.Pointer, ret unsafe.Pointer)
	ObjectDestroy            func(obj ObjectPtr)
	ObjectGetInstanceFromID  func(id InstanceID) ObjectPtr
	ObjectGetInstanceID      func(obj ObjectPtr) InstanceID
	ObjectCastTo             func(obj ObjectPtr, tag ClassTag) ObjectPtr
	ObjectSetInstance        func(obj ObjectPtr, class unsafe.Pointer, instance InstancePtr)
	ObjectGetInstanceBinding func(obj ObjectPtr, token LibraryPtr) InstancePtr

	ClassdbConstructObject          func(class unsafe.Pointer) ObjectPtr
	ClassdbGetMethodBind            func(class, method unsafe.Pointer) MethodBindPtr
	ClassdbGetClassTag              func(class unsafe.Pointer) ClassTag
	ClassdbRegisterExtensionClass   func(library LibraryPtr, class, parent unsafe.Pointer, info *ClassCreationInfo)
	ClassdbUnregisterExtensionClass func(library LibraryPtr, class unsafe.Pointer)
}

// ClassCreationInfo carries the callbacks the host uses to create and free
// instances of an extension class.
type ClassCreationInfo struct {
	// CreateInstance constructs a host object of the class with a fresh guest
	// payload and returns it.
	CreateInstance func() ObjectPtr

	// FreeInstance is called by the host while it destroys an object, with the
	// storage token set through ObjectSetInstance.
	FreeInstance func(instance InstancePtr)
}

// Initialization is filled by the plugin entry point.
type Initialization struct {
	MinimumInitializationLevel InitializationLevel
	Userdata                   unsafe.Pointer
	Initialize                 func(userdata unsafe.Pointer, level InitializationLevel)
	Deinitialize               func(userdata unsafe.Pointer, level InitializationLevel)
}

// EntryFunc is the signature of the single plugin entry point.
type EntryFunc func(iface *Interface, library LibraryPtr, init *Initialization) Bool
