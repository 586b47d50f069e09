package hostsim

import (
	"context"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/gdext/sys"
)

type testVariant struct {
	typ  uint32
	_    uint32
	data [2]uint64
	ptr  unsafe.Pointer
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	return e
}

func (e *Engine) testName(s string) unsafe.Pointer {
	var p unsafe.Pointer
	e.iface.StringNameNewWithUTF8Chars(unsafe.Pointer(&p), s)
	return p
}

func (e *Engine) testString(s string) unsafe.Pointer {
	var p unsafe.Pointer
	e.iface.StringNewWithUTF8Chars(unsafe.Pointer(&p), s)
	return p
}

func (e *Engine) testConstruct(t *testing.T, class string) sys.ObjectPtr {
	t.Helper()
	obj := e.iface.ClassdbConstructObject(e.testName(class))
	require.NotNil(t, obj, "construct %s", class)
	return obj
}

func (e *Engine) testBind(t *testing.T, class, method string) sys.MethodBindPtr {
	t.Helper()
	mb := e.iface.ClassdbGetMethodBind(e.testName(class), e.testName(method))
	require.NotNil(t, mb, "method bind %s::%s", class, method)
	return mb
}

func TestMemoryModule(t *testing.T) {
	bin := memoryModule(300)
	assert.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, bin[:8])
	// 300 needs two LEB bytes for min and max
	assert.Equal(t, []byte{0x05, 0x06, 0x01, 0x01, 0xac, 0x02, 0xac, 0x02}, bin[8:16])
	assert.Equal(t, byte(0x07), bin[16])

	assert.Equal(t, []byte{0x00}, appendULEB(nil, 0))
	assert.Equal(t, []byte{0x80, 0x01}, appendULEB(nil, 128))
}

func TestHeapMemory(t *testing.T) {
	e := newEngine(t, WithArenaPages(1))
	assert.Equal(t, uint32(pageSize), e.arena.mem.Size())

	require.NoError(t, e.mem.WriteU64(64, 0x1122334455667788))
	v, err := e.mem.ReadU64(64)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), v)

	_, err = e.mem.ReadU32(pageSize)
	assert.Error(t, err)
	assert.Error(t, e.mem.WriteU32(pageSize, 1))

	require.NoError(t, e.arena.mem.Write(128, []byte{1, 2, 3}))
	b, err := e.arena.mem.Read(128, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
	_, err = e.arena.mem.Read(pageSize-1, 2)
	assert.Error(t, err)
}

func TestConstructAndIdentity(t *testing.T) {
	e := newEngine(t)

	obj := e.testConstruct(t, "Node3D")
	id := e.iface.ObjectGetInstanceID(obj)
	assert.Greater(t, uint64(id), uint64(firstInstanceID))
	assert.Equal(t, obj, e.iface.ObjectGetInstanceFromID(id))
	assert.Equal(t, 1, e.ObjectCount())

	class, ok := e.ClassOf(id)
	require.True(t, ok)
	assert.Equal(t, "Node3D", class)

	assert.Nil(t, e.iface.ObjectGetInstanceFromID(0xDEADBEEF))
	assert.Nil(t, e.iface.ClassdbConstructObject(e.testName("Missing")))
	assert.NotEmpty(t, e.Reports())
}

func TestCastTo(t *testing.T) {
	e := newEngine(t)
	obj := e.testConstruct(t, "Node3D")

	tag := func(name string) sys.ClassTag {
		tg := e.iface.ClassdbGetClassTag(e.testName(name))
		require.NotNil(t, tg)
		return tg
	}

	assert.Equal(t, obj, e.iface.ObjectCastTo(obj, tag("Object")))
	assert.Equal(t, obj, e.iface.ObjectCastTo(obj, tag("Node")))
	assert.Equal(t, obj, e.iface.ObjectCastTo(obj, tag("Node3D")))
	assert.Nil(t, e.iface.ObjectCastTo(obj, tag("RefCounted")))
	assert.Nil(t, e.iface.ObjectCastTo(obj, nil))
	assert.Nil(t, e.iface.ClassdbGetClassTag(e.testName("Missing")))
}

func TestStrings(t *testing.T) {
	e := newEngine(t)

	a := e.testString("hello")
	b := e.testString("hello")
	assert.Equal(t, a, b, "strings are interned")
	assert.Equal(t, "hello", e.iface.StringToUTF8Chars(a))
	assert.Equal(t, "", e.iface.StringToUTF8Chars(nil))

	n := e.testName("hello")
	assert.NotEqual(t, a, n, "names and strings use separate tables")
	assert.Equal(t, "hello", e.iface.StringNameToUTF8Chars(n))
}

func TestPtrcall(t *testing.T) {
	e := newEngine(t)
	obj := e.testConstruct(t, "Node3D")

	pos := vector3{X: 1, Y: 2, Z: 3}
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Node3D", "set_position"), obj,
		[]unsafe.Pointer{unsafe.Pointer(&pos)}, nil)

	var got vector3
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Node3D", "get_position"), obj, nil, unsafe.Pointer(&got))
	assert.Equal(t, pos, got)

	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Node", "set_editor_description"), obj,
		[]unsafe.Pointer{e.testString("desc")}, nil)
	var desc unsafe.Pointer
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Node", "get_editor_description"), obj, nil, unsafe.Pointer(&desc))
	assert.Equal(t, "desc", e.iface.StringToUTF8Chars(desc))

	var class unsafe.Pointer
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Object", "get_class"), obj, nil, unsafe.Pointer(&class))
	assert.Equal(t, "Node3D", e.iface.StringToUTF8Chars(class))

	flag := sys.False
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Object", "set_message_translation"), obj,
		[]unsafe.Pointer{unsafe.Pointer(&flag)}, nil)
	can := sys.True
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Object", "can_translate_messages"), obj, nil, unsafe.Pointer(&can))
	assert.Equal(t, sys.False, can)

	var isNode sys.Bool
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Object", "is_class"), obj,
		[]unsafe.Pointer{e.testString("Node")}, unsafe.Pointer(&isNode))
	assert.Equal(t, sys.True, isNode)

	e.ClearReports()
	// Node3D method on a plain Object is rejected
	plain := e.testConstruct(t, "Object")
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Node3D", "get_position"), plain, nil, unsafe.Pointer(&got))
	require.Len(t, e.Reports(), 1)
	assert.Equal(t, SeverityError, e.Reports()[0].Severity)
}

func TestVarcall(t *testing.T) {
	e := newEngine(t)
	obj := e.testConstruct(t, "Node3D")
	id := e.iface.ObjectGetInstanceID(obj)
	call := e.testBind(t, "Object", "call")

	nameArg := func(s string) unsafe.Pointer {
		return unsafe.Pointer(&testVariant{typ: variantStringName, ptr: e.testName(s)})
	}

	var ret testVariant
	var callErr sys.CallError
	e.iface.ObjectMethodBindCall(call, obj, []unsafe.Pointer{nameArg("get_instance_id")}, unsafe.Pointer(&ret), &callErr)
	require.True(t, callErr.Ok(), callErr.Error())
	assert.Equal(t, variantInt, ret.typ)
	assert.Equal(t, uint64(id), ret.data[0])

	vecArg := testVariant{typ: variantVector3}
	*(*vector3)(unsafe.Pointer(&vecArg.data)) = vector3{X: 2.5, Y: 6.42, Z: -1.11}
	e.iface.ObjectMethodBindCall(call, obj,
		[]unsafe.Pointer{nameArg("set_position"), unsafe.Pointer(&vecArg)}, unsafe.Pointer(&ret), &callErr)
	require.True(t, callErr.Ok(), callErr.Error())
	assert.Equal(t, variantNil, ret.typ)

	e.iface.ObjectMethodBindCall(call, obj, []unsafe.Pointer{nameArg("get_position")}, unsafe.Pointer(&ret), &callErr)
	require.True(t, callErr.Ok(), callErr.Error())
	assert.Equal(t, vecArg, ret)

	tests := []struct {
		name string
		args []unsafe.Pointer
		want sys.CallError
	}{
		{"no method name", nil, sys.CallError{Type: sys.CallErrorTooFewArguments, Expected: 1}},
		{"bad method name", []unsafe.Pointer{unsafe.Pointer(&testVariant{typ: variantInt})},
			sys.CallError{Type: sys.CallErrorInvalidArgument, Expected: int32(variantStringName)}},
		{"unknown method", []unsafe.Pointer{nameArg("fly")}, sys.CallError{Type: sys.CallErrorInvalidMethod}},
		{"too few", []unsafe.Pointer{nameArg("set_position")},
			sys.CallError{Type: sys.CallErrorTooFewArguments, Expected: 1}},
		{"too many", []unsafe.Pointer{nameArg("get_position"), unsafe.Pointer(&vecArg)},
			sys.CallError{Type: sys.CallErrorTooManyArguments, Expected: 0}},
		{"wrong type", []unsafe.Pointer{nameArg("set_position"), unsafe.Pointer(&testVariant{typ: variantBool})},
			sys.CallError{Type: sys.CallErrorInvalidArgument, Argument: 0, Expected: int32(variantVector3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var callErr sys.CallError
			e.iface.ObjectMethodBindCall(call, obj, tt.args, unsafe.Pointer(&ret), &callErr)
			assert.Equal(t, tt.want, callErr)
		})
	}

	e.iface.ObjectDestroy(obj)
	e.iface.ObjectMethodBindCall(call, obj, []unsafe.Pointer{nameArg("get_instance_id")}, unsafe.Pointer(&ret), &callErr)
	assert.Equal(t, sys.CallErrorInstanceIsNull, callErr.Type)
}

func TestDestroy(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := newEngine(t, WithLogger(zap.New(core)))

	obj := e.testConstruct(t, "Node")
	id := e.iface.ObjectGetInstanceID(obj)
	e.iface.ObjectDestroy(obj)

	assert.Nil(t, e.iface.ObjectGetInstanceFromID(id))
	assert.Equal(t, sys.InstanceID(0), e.iface.ObjectGetInstanceID(obj))
	assert.False(t, e.IsAlive(id))
	assert.Equal(t, 0, e.ObjectCount())

	e.iface.ObjectDestroy(obj)
	require.Len(t, e.Reports(), 1)
	assert.Equal(t, "object_destroy", e.Reports()[0].Function)
	assert.Equal(t, 1, logs.FilterMessage("host error").Len())

	// the slot is recycled, the identity is not
	again := e.testConstruct(t, "Node")
	assert.Equal(t, obj, again)
	assert.NotEqual(t, id, e.iface.ObjectGetInstanceID(again))

	assert.True(t, e.Destroy(e.iface.ObjectGetInstanceID(again)))
	assert.False(t, e.Destroy(id))
}

func TestRefCounting(t *testing.T) {
	e := newEngine(t)
	obj := e.testConstruct(t, "RefCounted")

	call := func(method string) bool {
		var ret sys.Bool
		e.iface.ObjectMethodBindPtrcall(e.testBind(t, "RefCounted", method), obj, nil, unsafe.Pointer(&ret))
		return ret == sys.True
	}
	count := func() int64 {
		var n int64
		e.iface.ObjectMethodBindPtrcall(e.testBind(t, "RefCounted", "get_reference_count"), obj, nil, unsafe.Pointer(&n))
		return n
	}

	assert.True(t, call("init_ref"))
	assert.True(t, call("reference"))
	assert.Equal(t, int64(2), count())
	assert.False(t, call("unreference"))
	assert.True(t, call("unreference"))
	assert.Equal(t, int64(0), count())
}

func TestQueueFree(t *testing.T) {
	e := newEngine(t)
	obj := e.testConstruct(t, "Node")
	id := e.iface.ObjectGetInstanceID(obj)

	queueFree := e.testBind(t, "Node", "queue_free")
	e.iface.ObjectMethodBindPtrcall(queueFree, obj, nil, nil)
	e.iface.ObjectMethodBindPtrcall(queueFree, obj, nil, nil)

	var queued sys.Bool
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Node", "is_queued_for_deletion"), obj, nil, unsafe.Pointer(&queued))
	assert.Equal(t, sys.True, queued)
	assert.True(t, e.IsAlive(id))

	assert.Equal(t, 1, e.ProcessFrame())
	assert.False(t, e.IsAlive(id))
	assert.Equal(t, 0, e.ProcessFrame())
}

func TestArenaExhaustion(t *testing.T) {
	e := newEngine(t, WithArenaPages(1))
	capacity := pageSize/int(e.hdr.size) - 1

	for i := 0; i < capacity; i++ {
		require.NotNil(t, e.iface.ClassdbConstructObject(e.testName("Object")), "object %d", i)
	}
	assert.Equal(t, capacity, e.slots.InUse())
	assert.Nil(t, e.iface.ClassdbConstructObject(e.testName("Object")))
	assert.Equal(t, "classdb_construct_object", e.Reports()[0].Function)
}

func TestExtensionClass(t *testing.T) {
	e := newEngine(t)
	lib, err := e.Attach("test")
	require.NoError(t, err)

	var freed []sys.InstancePtr
	var created int
	info := &sys.ClassCreationInfo{
		CreateInstance: func() sys.ObjectPtr {
			created++
			obj := e.iface.ClassdbConstructObject(e.testName("Node3D"))
			e.iface.ObjectSetInstance(obj, e.testName("Player"), sys.InstancePtr(7))
			return obj
		},
		FreeInstance: func(instance sys.InstancePtr) {
			freed = append(freed, instance)
		},
	}
	e.iface.ClassdbRegisterExtensionClass(lib, e.testName("Player"), e.testName("Node3D"), info)
	require.Empty(t, e.Reports())

	obj := e.testConstruct(t, "Player")
	assert.Equal(t, 1, created)
	assert.Equal(t, sys.InstancePtr(7), e.iface.ObjectGetInstanceBinding(obj, lib))

	var class unsafe.Pointer
	e.iface.ObjectMethodBindPtrcall(e.testBind(t, "Object", "get_class"), obj, nil, unsafe.Pointer(&class))
	assert.Equal(t, "Player", e.iface.StringToUTF8Chars(class))

	playerTag := e.iface.ClassdbGetClassTag(e.testName("Player"))
	assert.Equal(t, obj, e.iface.ObjectCastTo(obj, playerTag))
	plain := e.testConstruct(t, "Node3D")
	assert.Nil(t, e.iface.ObjectCastTo(plain, playerTag))

	methods := e.Methods("Player")
	var names []string
	for _, m := range methods {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "get_position")
	assert.Contains(t, names, "call")

	e.iface.ObjectDestroy(obj)
	assert.Equal(t, []sys.InstancePtr{7}, freed)

	// duplicate and orphan registrations are rejected
	e.iface.ClassdbRegisterExtensionClass(lib, e.testName("Player"), e.testName("Node3D"), info)
	e.iface.ClassdbRegisterExtensionClass(lib, e.testName("Ghost"), e.testName("Missing"), info)
	assert.Len(t, e.Reports(), 2)

	e.iface.ClassdbUnregisterExtensionClass(lib, e.testName("Player"))
	assert.Nil(t, e.iface.ClassdbGetClassTag(e.testName("Player")))
}

func TestClassesListing(t *testing.T) {
	e := newEngine(t)
	classes := e.Classes()
	require.Len(t, classes, 5)
	assert.Equal(t, "Node", classes[0].Name)
	assert.Equal(t, "Object", classes[2].Name)
	assert.Equal(t, "", classes[2].Parent)

	byName := map[string]ClassInfo{}
	for _, c := range classes {
		byName[c.Name] = c
	}
	assert.True(t, byName["Resource"].RefCounted)
	assert.False(t, byName["Node3D"].RefCounted)
	assert.Equal(t, "Node", byName["Node3D"].Parent)
	assert.Nil(t, e.Methods("Missing"))
}
