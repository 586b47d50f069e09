package obj_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/gdext/classes"
	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/internal/hostsim"
	"github.com/wippyai/gdext/obj"
	"github.com/wippyai/gdext/sys"
)

var engine *hostsim.Engine

type ObjPayload struct {
	Value int16
}

func (p *ObjPayload) Init() { p.Value = 111 }

type Tracker struct {
	drops *int
}

func (t *Tracker) Drop() { *t.drops++ }

type Player struct {
	classes.Node3D
	Name   string
	Health int
}

func (p *Player) Init() { p.Health = 100 }

// anything is declared but never handed to the host.
type anything struct {
	Count int
}

func TestMain(m *testing.M) {
	ctx := context.Background()
	e, err := hostsim.New(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	lib, err := e.Attach("obj-test")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sys.Initialize(e.Interface(), lib)
	engine = e

	obj.MustRegister[ObjPayload]()
	obj.MustRegister[Tracker]()
	obj.MustRegister[Player]()
	if err := obj.RegisterClasses(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	obj.MustRegister[anything](obj.WithName("Anything"))

	code := m.Run()
	obj.UnregisterClasses()
	_ = e.Close(ctx)
	os.Exit(code)
}

// expectFatal runs fn and returns the *errors.Error it panicked with.
func expectFatal(t *testing.T, kind errors.Kind, fn func()) *errors.Error {
	t.Helper()
	var got *errors.Error
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(*errors.Error)
			if !ok {
				t.Errorf("panic value is %T, want *errors.Error", r)
				return
			}
			got = err
		}()
		fn()
	}()
	require.NotNil(t, got, "expected a fatal error of kind %s", kind)
	assert.Equal(t, kind, got.Kind, got.Error())
	return got
}

func userObject() obj.Gd[ObjPayload] {
	return obj.NewWith(&ObjPayload{Value: 17943})
}
