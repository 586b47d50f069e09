package hostsim

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/gdext/internal/layout"
)

func params(types ...wit.Type) []wit.Type { return types }

func installNatives(e *Engine) {
	object := e.defineClass("Object", nil, false)
	object.define("get_class", nil, layout.GodotString, func(t target, _ []any) any {
		return t.class().name
	})
	object.define("get_instance_id", nil, wit.S64{}, func(t target, _ []any) any {
		return int64(t.hdr.id)
	})
	object.define("is_class", params(layout.GodotString), wit.Bool{}, func(t target, args []any) any {
		want, ok := t.e.classes[args[0].(string)]
		return ok && t.class().isA(want)
	})
	object.define("set_message_translation", params(wit.Bool{}), nil, func(t target, args []any) any {
		t.setProp("message_translation", args[0].(bool))
		return nil
	})
	object.define("can_translate_messages", nil, wit.Bool{}, func(t target, _ []any) any {
		return t.prop("message_translation", true)
	})
	object.methods["call"] = &method{
		class:  object,
		name:   "call",
		ret:    layout.Variant,
		vararg: true,
	}

	refCounted := e.defineClass("RefCounted", object, true)
	refCounted.define("init_ref", nil, wit.Bool{}, func(t target, _ []any) any {
		t.hdr.refcount++
		t.save()
		return true
	})
	refCounted.define("reference", nil, wit.Bool{}, func(t target, _ []any) any {
		t.hdr.refcount++
		t.save()
		return true
	})
	refCounted.define("unreference", nil, wit.Bool{}, func(t target, _ []any) any {
		if t.hdr.refcount > 0 {
			t.hdr.refcount--
			t.save()
		}
		return t.hdr.refcount == 0
	})
	refCounted.define("get_reference_count", nil, wit.S64{}, func(t target, _ []any) any {
		return int64(t.hdr.refcount)
	})

	resource := e.defineClass("Resource", refCounted, true)
	resource.define("set_name", params(layout.GodotString), nil, func(t target, args []any) any {
		t.setProp("resource_name", args[0].(string))
		return nil
	})
	resource.define("get_name", nil, layout.GodotString, func(t target, _ []any) any {
		return t.prop("resource_name", "")
	})

	node := e.defineClass("Node", object, false)
	node.define("set_name", params(layout.StringName), nil, func(t target, args []any) any {
		t.setProp("name", args[0].(name))
		return nil
	})
	node.define("get_name", nil, layout.StringName, func(t target, _ []any) any {
		return t.prop("name", name(""))
	})
	node.define("set_editor_description", params(layout.GodotString), nil, func(t target, args []any) any {
		t.setProp("editor_description", args[0].(string))
		return nil
	})
	node.define("get_editor_description", nil, layout.GodotString, func(t target, _ []any) any {
		return t.prop("editor_description", "")
	})
	node.define("queue_free", nil, nil, func(t target, _ []any) any {
		if t.hdr.flags&flagQueued == 0 {
			t.hdr.flags |= flagQueued
			t.save()
			t.e.queued = append(t.e.queued, t.hdr.id)
		}
		return nil
	})
	node.define("is_queued_for_deletion", nil, wit.Bool{}, func(t target, _ []any) any {
		return t.hdr.flags&flagQueued != 0
	})

	node3d := e.defineClass("Node3D", node, false)
	node3d.define("set_position", params(layout.Vector3), nil, func(t target, args []any) any {
		t.setProp("position", args[0].(vector3))
		return nil
	})
	node3d.define("get_position", nil, layout.Vector3, func(t target, _ []any) any {
		return t.prop("position", vector3{})
	})
}
