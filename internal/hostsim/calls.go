package hostsim

import (
	"unsafe"

	"github.com/wippyai/gdext/sys"
)

func (e *Engine) methodBindPtrcall(mb sys.MethodBindPtr, obj sys.ObjectPtr, args []unsafe.Pointer, ret unsafe.Pointer) {
	if mb == nil {
		e.report(SeverityError, "object_method_bind_ptrcall", "null method bind")
		return
	}
	m := (*method)(unsafe.Pointer(mb))
	t, ok := e.resolve(obj)
	if !ok {
		e.report(SeverityError, "object_method_bind_ptrcall", "instance is null calling "+m.name)
		return
	}
	if m.vararg {
		e.report(SeverityError, "object_method_bind_ptrcall", m.name+" is vararg and has no ptrcall")
		return
	}
	if !t.class().isA(m.class) {
		e.report(SeverityError, "object_method_bind_ptrcall",
			m.class.name+"::"+m.name+" called on "+t.class().name)
		return
	}
	if len(args) != len(m.params) {
		e.report(SeverityError, "object_method_bind_ptrcall", "argument count mismatch calling "+m.name)
		return
	}

	decoded := make([]any, len(args))
	for i, p := range m.params {
		decoded[i] = e.decodeCell(args[i], kindOf(p))
	}
	result := m.fn(t, decoded)
	if m.ret != nil && ret != nil {
		e.encodeCell(ret, kindOf(m.ret), result)
	}
}

func (e *Engine) methodBindCall(mb sys.MethodBindPtr, obj sys.ObjectPtr, args []unsafe.Pointer, ret unsafe.Pointer, callErr *sys.CallError) {
	*callErr = sys.CallError{}
	if mb == nil {
		callErr.Type = sys.CallErrorInvalidMethod
		return
	}
	m := (*method)(unsafe.Pointer(mb))
	t, ok := e.resolve(obj)
	if !ok {
		callErr.Type = sys.CallErrorInstanceIsNull
		return
	}
	if !t.class().isA(m.class) {
		callErr.Type = sys.CallErrorInvalidMethod
		return
	}

	values := make([]any, len(args))
	for i, a := range args {
		values[i] = e.decodeVariant(a)
	}

	if m.vararg {
		// dynamic dispatch: first argument names the method
		if len(values) < 1 {
			*callErr = sys.CallError{Type: sys.CallErrorTooFewArguments, Expected: 1}
			return
		}
		methodName, ok := values[0].(name)
		if !ok {
			s, isString := values[0].(string)
			if !isString {
				*callErr = sys.CallError{Type: sys.CallErrorInvalidArgument, Argument: 0, Expected: int32(variantStringName)}
				return
			}
			methodName = name(s)
		}
		m = t.class().findMethod(string(methodName))
		if m == nil || m.vararg {
			callErr.Type = sys.CallErrorInvalidMethod
			return
		}
		values = values[1:]
	}

	if len(values) > len(m.params) {
		*callErr = sys.CallError{Type: sys.CallErrorTooManyArguments, Expected: int32(len(m.params))}
		return
	}
	if len(values) < len(m.params) {
		*callErr = sys.CallError{Type: sys.CallErrorTooFewArguments, Expected: int32(len(m.params))}
		return
	}
	for i, p := range m.params {
		k := kindOf(p)
		if k == kindVariant {
			continue
		}
		if k == kindFloat {
			if n, isInt := values[i].(int64); isInt {
				values[i] = float64(n)
			}
		}
		if variantTypeOf(values[i]) != k.variantType() {
			*callErr = sys.CallError{
				Type:     sys.CallErrorInvalidArgument,
				Argument: int32(i),
				Expected: int32(k.variantType()),
			}
			return
		}
	}

	result := m.fn(t, values)
	if m.ret == nil {
		result = nil
	}
	if ret != nil {
		e.encodeVariant(ret, result)
	}
}
