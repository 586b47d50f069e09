package classes

import (
	"unsafe"

	"github.com/wippyai/gdext/builtin"
	"github.com/wippyai/gdext/obj"
	"github.com/wippyai/gdext/sys"
)

// Node is a manually managed scene object. Nodes are freed with Gd.Free or
// queued for deletion with QueueFree.
type Node struct {
	Object
}

func NewNode() obj.Gd[Node] {
	return obj.NewDefault[Node]()
}

var (
	nodeSetName              = obj.NewMethodBind("Node", "set_name")
	nodeGetName              = obj.NewMethodBind("Node", "get_name")
	nodeSetEditorDescription = obj.NewMethodBind("Node", "set_editor_description")
	nodeGetEditorDescription = obj.NewMethodBind("Node", "get_editor_description")
	nodeQueueFree            = obj.NewMethodBind("Node", "queue_free")
	nodeIsQueuedForDeletion  = obj.NewMethodBind("Node", "is_queued_for_deletion")
)

func (n *Node) SetName(name builtin.StringName) {
	nodeSetName.Ptrcall(n.ObjectPtr(), nil, name.Sys())
}

func (n *Node) GetName() builtin.StringName {
	return sys.FromSysInit[builtin.StringName](func(ret unsafe.Pointer) {
		nodeGetName.Ptrcall(n.ObjectPtr(), ret)
	})
}

func (n *Node) SetEditorDescription(description builtin.GodotString) {
	nodeSetEditorDescription.Ptrcall(n.ObjectPtr(), nil, description.Sys())
}

func (n *Node) GetEditorDescription() builtin.GodotString {
	return sys.FromSysInit[builtin.GodotString](func(ret unsafe.Pointer) {
		nodeGetEditorDescription.Ptrcall(n.ObjectPtr(), ret)
	})
}

// QueueFree asks the host to destroy the node at the end of the current
// frame. Handles notice through IsInstanceValid afterwards.
func (n *Node) QueueFree() {
	nodeQueueFree.Ptrcall(n.ObjectPtr(), nil)
}

func (n *Node) IsQueuedForDeletion() bool {
	var ret sys.Bool
	nodeIsQueuedForDeletion.Ptrcall(n.ObjectPtr(), unsafe.Pointer(&ret))
	return ret == sys.True
}

// Node3D is a node with a position in 3D space.
type Node3D struct {
	Node
}

func NewNode3D() obj.Gd[Node3D] {
	return obj.NewDefault[Node3D]()
}

var (
	node3DSetPosition = obj.NewMethodBind("Node3D", "set_position")
	node3DGetPosition = obj.NewMethodBind("Node3D", "get_position")
)

func (n *Node3D) SetPosition(position builtin.Vector3) {
	node3DSetPosition.Ptrcall(n.ObjectPtr(), nil, position.Sys())
}

func (n *Node3D) GetPosition() builtin.Vector3 {
	return sys.FromSysInit[builtin.Vector3](func(ret unsafe.Pointer) {
		node3DGetPosition.Ptrcall(n.ObjectPtr(), ret)
	})
}
