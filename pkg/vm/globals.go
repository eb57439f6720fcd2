package vm

import "github.com/remtori/luago/pkg/core/value"

// Globals is the name→value binding table shared by all chunks run against
// it. The embedding host pre-populates it with natives before execution
// starts; during a run it is mutated only through the global-access
// opcodes, so every change is traceable to an instruction.
type Globals struct {
	bindings map[string]value.Value
}

// NewGlobals returns an empty global table.
func NewGlobals() *Globals {
	return &Globals{bindings: make(map[string]value.Value)}
}

// Get returns the value bound to name, or nil if the name is unbound.
// Reading an absent global is not an error.
func (g *Globals) Get(name string) value.Value {
	return g.bindings[name]
}

// Set creates or overwrites the binding for name. Binding a name to nil
// keeps the nil entry; lookups cannot tell it apart from absence.
func (g *Globals) Set(name string, v value.Value) {
	g.bindings[name] = v
}

// Len returns the number of bindings.
func (g *Globals) Len() int {
	return len(g.bindings)
}
