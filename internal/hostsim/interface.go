package hostsim

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/gdext/sys"
)

func (e *Engine) buildInterface() *sys.Interface {
	return &sys.Interface{
		VersionMajor: 4,
		VersionMinor: 0,
		VersionPatch: 0,
		VersionName:  "hostsim 4.0",

		PrintError: func(description, function, file string, line int32) {
			e.print(SeverityError, description, function, file, line)
		},
		PrintWarning: func(description, function, file string, line int32) {
			e.print(SeverityWarning, description, function, file, line)
		},

		StringNewWithUTF8Chars: func(dst unsafe.Pointer, contents string) {
			writePointer(dst, unsafe.Pointer(intern(e.strs, contents)))
		},
		StringToUTF8Chars: readString,
		StringNameNewWithUTF8Chars: func(dst unsafe.Pointer, contents string) {
			writePointer(dst, unsafe.Pointer(intern(e.names, contents)))
		},
		StringNameToUTF8Chars: readString,

		ObjectMethodBindCall:     e.methodBindCall,
		ObjectMethodBindPtrcall:  e.methodBindPtrcall,
		ObjectDestroy:            e.objectDestroy,
		ObjectGetInstanceFromID:  e.objectFromID,
		ObjectGetInstanceID:      e.objectID,
		ObjectCastTo:             e.objectCastTo,
		ObjectSetInstance:        e.objectSetInstance,
		ObjectGetInstanceBinding: e.objectInstanceBinding,

		ClassdbConstructObject:          e.constructObject,
		ClassdbGetMethodBind:            e.methodBind,
		ClassdbGetClassTag:              e.classTag,
		ClassdbRegisterExtensionClass:   e.registerExtensionClass,
		ClassdbUnregisterExtensionClass: e.unregisterExtensionClass,
	}
}

func (e *Engine) print(sev Severity, description, function, file string, line int32) {
	e.reports = append(e.reports, Report{
		Severity:    sev,
		Description: description,
		Function:    function,
		File:        file,
		Line:        line,
	})
	fields := []zap.Field{
		zap.String("function", function),
		zap.String("file", file),
		zap.Int32("line", line),
	}
	if sev == SeverityError {
		e.log.Error(description, fields...)
	} else {
		e.log.Warn(description, fields...)
	}
}

func (e *Engine) objectDestroy(obj sys.ObjectPtr) {
	t, ok := e.resolve(obj)
	if !ok {
		e.report(SeverityError, "object_destroy", "object is not alive")
		return
	}
	e.destroy(t)
}

func (e *Engine) objectFromID(id sys.InstanceID) sys.ObjectPtr {
	off, ok := e.live[id]
	if !ok {
		return nil
	}
	return sys.ObjectPtr(e.arena.ptr(off))
}

func (e *Engine) objectID(obj sys.ObjectPtr) sys.InstanceID {
	t, ok := e.resolve(obj)
	if !ok {
		return 0
	}
	return t.hdr.id
}

func (e *Engine) objectCastTo(obj sys.ObjectPtr, tag sys.ClassTag) sys.ObjectPtr {
	if tag == nil {
		return nil
	}
	t, ok := e.resolve(obj)
	if !ok {
		return nil
	}
	if !t.class().isA((*class)(unsafe.Pointer(tag))) {
		return nil
	}
	return obj
}

func (e *Engine) objectSetInstance(obj sys.ObjectPtr, className unsafe.Pointer, instance sys.InstancePtr) {
	t, ok := e.resolve(obj)
	if !ok {
		e.report(SeverityError, "object_set_instance", "object is not alive")
		return
	}
	c, ok := e.classes[readString(className)]
	if !ok || !c.extension {
		e.report(SeverityError, "object_set_instance", "not an extension class: "+readString(className))
		return
	}
	if c.native() != e.classList[t.hdr.class] {
		e.report(SeverityError, "object_set_instance",
			c.name+" does not extend "+e.classList[t.hdr.class].name)
		return
	}
	t.hdr.ext = c.index
	t.hdr.instance = instance
	t.save()
}

func (e *Engine) objectInstanceBinding(obj sys.ObjectPtr, _ sys.LibraryPtr) sys.InstancePtr {
	t, ok := e.resolve(obj)
	if !ok {
		return 0
	}
	return t.hdr.instance
}

func (e *Engine) constructObject(className unsafe.Pointer) sys.ObjectPtr {
	name := readString(className)
	c, ok := e.classes[name]
	if !ok {
		e.report(SeverityError, "classdb_construct_object", "unknown class: "+name)
		return nil
	}
	if c.extension {
		if c.info == nil || c.info.CreateInstance == nil {
			e.report(SeverityError, "classdb_construct_object", "class is not instantiable: "+name)
			return nil
		}
		return c.info.CreateInstance()
	}
	return e.allocObject(c)
}

func (e *Engine) methodBind(className, methodName unsafe.Pointer) sys.MethodBindPtr {
	c, ok := e.classes[readString(className)]
	if !ok {
		e.report(SeverityError, "classdb_get_method_bind", "unknown class: "+readString(className))
		return nil
	}
	m := c.findMethod(readString(methodName))
	if m == nil {
		e.report(SeverityError, "classdb_get_method_bind",
			"unknown method: "+c.name+"::"+readString(methodName))
		return nil
	}
	return sys.MethodBindPtr(unsafe.Pointer(m))
}

func (e *Engine) classTag(className unsafe.Pointer) sys.ClassTag {
	c, ok := e.classes[readString(className)]
	if !ok {
		return nil
	}
	return sys.ClassTag(unsafe.Pointer(c))
}

func (e *Engine) registerExtensionClass(lib sys.LibraryPtr, className, parentName unsafe.Pointer, info *sys.ClassCreationInfo) {
	name := readString(className)
	if e.library == nil || sys.LibraryPtr(unsafe.Pointer(e.library)) != lib {
		e.report(SeverityError, "classdb_register_extension_class", "unknown library registering "+name)
		return
	}
	if _, exists := e.classes[name]; exists {
		e.report(SeverityError, "classdb_register_extension_class", "class already exists: "+name)
		return
	}
	parent, ok := e.classes[readString(parentName)]
	if !ok {
		e.report(SeverityError, "classdb_register_extension_class",
			"unknown parent class "+readString(parentName)+" for "+name)
		return
	}
	c := e.defineClass(name, parent, false)
	c.extension = true
	if info != nil {
		cp := *info
		c.info = &cp
	}
	e.log.Debug("extension class registered", zap.String("class", name), zap.String("parent", parent.name))
}

func (e *Engine) unregisterExtensionClass(lib sys.LibraryPtr, className unsafe.Pointer) {
	name := readString(className)
	c, ok := e.classes[name]
	if !ok || !c.extension {
		e.report(SeverityError, "classdb_unregister_extension_class", "not an extension class: "+name)
		return
	}
	if e.library == nil || sys.LibraryPtr(unsafe.Pointer(e.library)) != lib {
		e.report(SeverityError, "classdb_unregister_extension_class", "class registered by another library: "+name)
		return
	}
	for _, off := range e.live {
		if h, err := e.readHeader(off); err == nil && h.ext == c.index {
			e.report(SeverityWarning, "classdb_unregister_extension_class", "instances of "+name+" still alive")
			break
		}
	}
	c.registered = false
	delete(e.classes, name)
	e.log.Debug("extension class unregistered", zap.String("class", name))
}
