package scheme

import "sort"

// Env maps names to values. Variables and functions share one namespace.
// A forked Env layers its own bindings over its parent without copying or
// mutating it, so writes to the global Env stay visible through every fork.
type Env struct {
	vars   map[string]Value
	parent *Env
}

func NewEnv() *Env {
	return &Env{vars: make(map[string]Value)}
}

// Lookup fails with UnboundName; an unbound name never has a default value.
func (e *Env) Lookup(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, nil
		}
	}
	return Value{}, newError(UnboundName, Pos{}, "variable '%s' is not defined", name)
}

// Bind inserts or overwrites name in this Env.
func (e *Env) Bind(name string, v Value) {
	e.vars[name] = v
}

// Fork returns a new Env equal to e with extra layered on top.
func (e *Env) Fork(extra map[string]Value) *Env {
	vars := make(map[string]Value, len(extra))
	for k, v := range extra {
		vars[k] = v
	}
	return &Env{vars: vars, parent: e}
}

// Root returns the outermost Env of the chain.
func (e *Env) Root() *Env {
	env := e
	for env.parent != nil {
		env = env.parent
	}
	return env
}

// Names lists every visible name, sorted.
func (e *Env) Names() []string {
	seen := make(map[string]bool)
	for env := e; env != nil; env = env.parent {
		for k := range env.vars {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
