package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/gdext/builtin"
	"github.com/wippyai/gdext/classes"
	"github.com/wippyai/gdext/internal/hostsim"
	"github.com/wippyai/gdext/internal/layout"
	"github.com/wippyai/gdext/obj"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#478CBF")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#478CBF"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// spawners construct one instance per class for the session, viewed as Object.
var spawners = map[string]func() obj.Gd[classes.Object]{
	"Object":     classes.NewObject,
	"RefCounted": func() obj.Gd[classes.Object] { return obj.Upcast[classes.Object](classes.NewRefCounted()) },
	"Resource":   func() obj.Gd[classes.Object] { return obj.Upcast[classes.Object](classes.NewResource()) },
	"Node":       func() obj.Gd[classes.Object] { return obj.Upcast[classes.Object](classes.NewNode()) },
	"Node3D":     func() obj.Gd[classes.Object] { return obj.Upcast[classes.Object](classes.NewNode3D()) },
	"Player":     func() obj.Gd[classes.Object] { return obj.Upcast[classes.Object](obj.NewDefault[Player]()) },
	"Inventory":  func() obj.Gd[classes.Object] { return obj.Upcast[classes.Object](obj.NewDefault[Inventory]()) },
}

type interactiveModel struct {
	err       error
	engine    *hostsim.Engine
	instances map[string]obj.Gd[classes.Object]
	result    string
	classes   []hostsim.ClassInfo
	funcs     []funcInfo
	inputs    []textinput.Model
	class     int
	selected  int
	focusIdx  int
	state     modelState
}

type funcInfo struct {
	name       string
	class      string
	resultType string
	params     []paramInfo
}

type paramInfo struct {
	name    string
	witType wit.Type
	typeStr string
}

type modelState int

const (
	stateSelectClass modelState = iota
	stateSelectFunc
	stateInputArgs
	stateShowResult
)

type callResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(engine *hostsim.Engine) *interactiveModel {
	m := &interactiveModel{
		engine:    engine,
		instances: make(map[string]obj.Gd[classes.Object]),
		state:     stateSelectClass,
	}
	for _, c := range engine.Classes() {
		if _, ok := spawners[c.Name]; ok {
			m.classes = append(m.classes, c)
		}
	}
	return m
}

func methodOf(mi hostsim.MethodInfo) funcInfo {
	fi := funcInfo{name: mi.Name, class: mi.Class}
	for i, p := range mi.Params {
		fi.params = append(fi.params, paramInfo{
			name:    fmt.Sprintf("arg%d", i),
			witType: p,
			typeStr: witTypeStr(p),
		})
	}
	if mi.Ret != nil {
		fi.resultType = witTypeStr(mi.Ret)
	}
	return fi
}

func (m *interactiveModel) loadMethods() {
	m.funcs = m.funcs[:0]
	for _, mi := range m.engine.Methods(m.classes[m.class].Name) {
		// variadic methods take free-form arguments the form cannot describe
		if mi.Vararg {
			continue
		}
		m.funcs = append(m.funcs, methodOf(mi))
	}
	m.selected = 0
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				m.release()
				return m, tea.Quit
			}

		case "up", "k":
			switch m.state {
			case stateSelectClass:
				if m.class > 0 {
					m.class--
				}
			case stateSelectFunc:
				if m.selected > 0 {
					m.selected--
				}
			}

		case "down", "j":
			switch m.state {
			case stateSelectClass:
				if m.class < len(m.classes)-1 {
					m.class++
				}
			case stateSelectFunc:
				if m.selected < len(m.funcs)-1 {
					m.selected++
				}
			}

		case "enter":
			switch m.state {
			case stateSelectClass:
				if len(m.classes) > 0 {
					m.loadMethods()
					m.state = stateSelectFunc
				}

			case stateSelectFunc:
				if len(m.funcs) == 0 {
					break
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callFunction
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callFunction

			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateSelectFunc:
				m.state = stateSelectClass
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	f := m.funcs[m.selected]
	m.inputs = make([]textinput.Model, len(f.params))
	for i, p := range f.params {
		ti := textinput.New()
		ti.Placeholder = p.typeStr
		ti.Prompt = p.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// instance returns the session object of the selected class, creating a new
// one when there is none or the previous one was destroyed.
func (m *interactiveModel) instance() obj.Gd[classes.Object] {
	name := m.classes[m.class].Name
	if g, ok := m.instances[name]; ok && g.IsInstanceValid() {
		return g
	}
	g := spawners[name]()
	m.instances[name] = g
	return g
}

func (m *interactiveModel) callFunction() (msg tea.Msg) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			msg = callResultMsg{err: err}
		}
	}()

	f := m.funcs[m.selected]
	args := make([]builtin.Variant, len(m.inputs))
	for i, input := range m.inputs {
		v, err := convertArg(input.Value(), f.params[i].witType)
		if err != nil {
			return callResultMsg{err: fmt.Errorf("%s: %w", f.params[i].name, err)}
		}
		args[i] = v
	}

	target := m.instance()
	result, err := target.TryCall(f.name, args...)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: fmt.Sprintf("%v on %v", result, target)}
}

// release gives back every session object: a reference for counted ones, a
// free for manual ones.
func (m *interactiveModel) release() {
	for name, g := range m.instances {
		if !g.IsInstanceValid() {
			continue
		}
		c, ok := obj.LookupClass(name)
		if ok && c.IsRefCounted() {
			g.Drop()
		} else {
			g.Free()
		}
	}
	clear(m.instances)
}

func convertArg(value string, t wit.Type) (builtin.Variant, error) {
	switch t {
	case layout.GodotString:
		return builtin.FromString(builtin.NewGodotString(value)), nil
	case layout.StringName:
		return builtin.FromStringName(builtin.NewStringName(value)), nil
	case layout.Vector3:
		parts := strings.Split(value, ",")
		if len(parts) != 3 {
			return builtin.Nil(), fmt.Errorf("want x,y,z")
		}
		var xyz [3]float32
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
			if err != nil {
				return builtin.Nil(), err
			}
			xyz[i] = float32(f)
		}
		return builtin.FromVector3(builtin.NewVector3(xyz[0], xyz[1], xyz[2])), nil
	}

	switch t.(type) {
	case wit.Bool:
		return builtin.FromBool(value == "true" || value == "1"), nil
	case wit.U8, wit.U16, wit.U32, wit.U64, wit.S8, wit.S16, wit.S32, wit.S64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return builtin.Nil(), err
		}
		return builtin.FromInt(v), nil
	case wit.F32, wit.F64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return builtin.Nil(), err
		}
		return builtin.FromFloat(v), nil
	default:
		return builtin.Nil(), fmt.Errorf("unsupported parameter type %s", witTypeStr(t))
	}
}

func (m *interactiveModel) View() string {
	if len(m.classes) == 0 {
		return errorStyle.Render("No classes to explore.\n\nPress q to quit.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("gdext"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%d objects alive", m.engine.ObjectCount()))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectClass:
		b.WriteString("Select a class:\n\n")
		for i, c := range m.classes {
			line := c.Name
			if c.Parent != "" {
				line += typeStyle.Render(" : " + c.Parent)
			}
			if i == m.class {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter methods • q quit"))

	case stateSelectFunc:
		b.WriteString(fmt.Sprintf("Methods of %s:\n\n", funcStyle.Render(m.classes[m.class].Name)))
		for i, f := range m.funcs {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + formatSignature(f)))
			} else {
				b.WriteString("  " + formatSignature(f))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • esc classes • q quit"))

	case stateInputArgs:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(f.name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(f.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(f.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatSignature(f funcInfo) string {
	var params []string
	for _, p := range f.params {
		params = append(params, p.name+": "+typeStyle.Render(p.typeStr))
	}
	result := ""
	if f.resultType != "" {
		result = " -> " + typeStyle.Render(f.resultType)
	}
	return funcStyle.Render(f.class+"."+f.name) + "(" + strings.Join(params, ", ") + ")" + result
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func runInteractive(engine *hostsim.Engine) error {
	p := tea.NewProgram(newInteractiveModel(engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
