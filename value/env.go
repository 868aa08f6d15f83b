package value

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Global maps names to values for the lifetime of one session.
type Global struct {
	bindings map[string]Value
}

func NewGlobal() *Global {
	return &Global{bindings: map[string]Value{}}
}

func (g *Global) Get(name string) (Value, bool) {
	val, ok := g.bindings[name]
	return val, ok
}

// Set silently overwrites any previous binding.
func (g *Global) Set(name string, val Value) Value {
	g.bindings[name] = val
	return val
}

func (g *Global) Len() int { return len(g.bindings) }

// Names returns the bound names in sorted order.
func (g *Global) Names() []string {
	names := maps.Keys(g.bindings)
	slices.Sort(names)
	return names
}

// Binding is one frame of a local binding chain: a parameter bound to an
// argument during a single call. Frames are never mutated.
type Binding struct {
	Name   string
	Value  Value
	Parent *Binding
}

func NewBinding(parent *Binding, name string, val Value) *Binding {
	return &Binding{Name: name, Value: val, Parent: parent}
}

// Lookup finds the innermost frame binding name.
func (b *Binding) Lookup(name string) (Value, bool) {
	for frame := b; frame != nil; frame = frame.Parent {
		if frame.Name == name {
			return frame.Value, true
		}
	}
	return nil, false
}

// Without returns the chain minus every frame binding name. Frames are
// shared when nothing below them changes.
func (b *Binding) Without(name string) *Binding {
	if b == nil {
		return nil
	}
	parent := b.Parent.Without(name)
	if b.Name == name {
		return parent
	}
	if parent == b.Parent {
		return b
	}
	return NewBinding(parent, b.Name, b.Value)
}
