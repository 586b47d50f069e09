package hostsim

import (
	"sort"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/gdext/sys"
)

type class struct {
	parent     *class
	info       *sys.ClassCreationInfo
	methods    map[string]*method
	name       string
	index      uint32
	refCounted bool
	extension  bool
	registered bool
}

func (c *class) isA(ancestor *class) bool {
	for k := c; k != nil; k = k.parent {
		if k == ancestor {
			return true
		}
	}
	return false
}

func (c *class) findMethod(name string) *method {
	for k := c; k != nil; k = k.parent {
		if m, ok := k.methods[name]; ok {
			return m
		}
	}
	return nil
}

// native returns the closest host-native ancestor.
func (c *class) native() *class {
	k := c
	for k != nil && k.extension {
		k = k.parent
	}
	return k
}

type method struct {
	fn     func(self target, args []any) any
	class  *class
	ret    wit.Type
	name   string
	params []wit.Type
	vararg bool
}

func (c *class) define(name string, params []wit.Type, ret wit.Type, fn func(self target, args []any) any) {
	c.methods[name] = &method{
		class:  c,
		name:   name,
		params: params,
		ret:    ret,
		fn:     fn,
	}
}

// MethodInfo describes a method for tooling.
type MethodInfo struct {
	Ret    wit.Type
	Class  string
	Name   string
	Params []wit.Type
	Vararg bool
}

// ClassInfo describes a registered class for tooling.
type ClassInfo struct {
	Name       string
	Parent     string
	RefCounted bool
	Extension  bool
}

func (e *Engine) defineClass(name string, parent *class, refCounted bool) *class {
	c := &class{
		name:       name,
		parent:     parent,
		methods:    make(map[string]*method),
		index:      uint32(len(e.classList)),
		refCounted: refCounted,
		registered: true,
	}
	if parent != nil && parent.refCounted {
		c.refCounted = true
	}
	e.classList = append(e.classList, c)
	e.classes[name] = c
	return c
}

// Classes lists registered classes sorted by name.
func (e *Engine) Classes() []ClassInfo {
	out := make([]ClassInfo, 0, len(e.classes))
	for _, c := range e.classes {
		ci := ClassInfo{
			Name:       c.name,
			RefCounted: c.refCounted,
			Extension:  c.extension,
		}
		if c.parent != nil {
			ci.Parent = c.parent.name
		}
		out = append(out, ci)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Methods lists the methods callable on a class, including inherited ones,
// sorted by name. The result is empty for unknown classes.
func (e *Engine) Methods(className string) []MethodInfo {
	c, ok := e.classes[className]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []MethodInfo
	for k := c; k != nil; k = k.parent {
		for name, m := range k.methods {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, MethodInfo{
				Class:  k.name,
				Name:   name,
				Params: m.params,
				Ret:    m.ret,
				Vararg: m.vararg,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
