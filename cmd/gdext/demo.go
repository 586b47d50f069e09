package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/gdext/builtin"
	"github.com/wippyai/gdext/classes"
	"github.com/wippyai/gdext/extension"
	"github.com/wippyai/gdext/obj"
)

// Player is a manually managed user class on Node3D.
type Player struct {
	classes.Node3D
	Health int
	Speed  float32
}

func (p *Player) Init() {
	p.Health = 100
	p.Speed = 2.5
}

func (p *Player) Move(by builtin.Vector3) {
	p.SetPosition(p.GetPosition().Add(by))
}

// Inventory is reference counted; it goes away with its last handle.
type Inventory struct {
	classes.RefCounted
	Items []string
}

func (inv *Inventory) Drop() {
	obj.Logger().Info("inventory dropped", zap.Int("items", len(inv.Items)))
}

type demoLibrary struct{}

func (demoLibrary) LoadLibrary(h *extension.InitHandle) bool {
	if _, err := obj.Register[Player](); err != nil {
		extension.Logger().Error("register Player", zap.Error(err))
		return false
	}
	if _, err := obj.Register[Inventory](); err != nil {
		extension.Logger().Error("register Inventory", zap.Error(err))
		return false
	}
	extension.DefaultInit(h)
	h.RegisterLayer(extension.LevelEditor, extension.LayerFuncs{
		Init:   func() { extension.Logger().Info("editor tools ready") },
		Deinit: func() { extension.Logger().Info("editor tools closed") },
	})
	return true
}

// runDemo walks through the handle lifecycle of both memory models.
func runDemo(w io.Writer) error {
	player := obj.NewDefault[Player]()
	p := player.Bind()
	fmt.Fprintf(w, "created %v with health %d\n", player, p.Health)

	p.SetName(builtin.NewStringName("hero"))
	p.Move(builtin.NewVector3(1, 2, 3))
	p.Move(builtin.NewVector3(0.5, 0, -1))
	fmt.Fprintf(w, "%s moved to %v\n", p.GetName(), p.GetPosition())

	node := obj.Upcast[classes.Node](player)
	got, err := node.TryCall("get_name")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "dynamic get_name on %#v: %v\n", node, got)

	if _, err := node.TryCall("jump"); err != nil {
		fmt.Fprintf(w, "dynamic jump: %v\n", err)
	}

	back := obj.FromVariant[Player](node.ToVariant())
	fmt.Fprintf(w, "variant round trip keeps identity: %t\n", back.InstanceID() == node.InstanceID())

	inventory := obj.NewDefault[Inventory]()
	inventory.Bind().Items = append(inventory.Bind().Items, "sword", "shield")
	shared := inventory.Share()
	fmt.Fprintf(w, "%v has %d references\n", inventory, inventory.Bind().GetReferenceCount())
	shared.Drop()
	fmt.Fprintf(w, "after dropping the copy: %d\n", inventory.Bind().GetReferenceCount())
	inventory.Drop()
	fmt.Fprintf(w, "inventory handle null: %t, live user instances: %d\n", inventory.IsNull(), obj.LiveInstances())

	node.Free()
	fmt.Fprintf(w, "after free: %v valid=%t\n", back, back.IsInstanceValid())
	return nil
}
