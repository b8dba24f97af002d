// env.go — chained name→value scopes.
package zpy

// Env is one scope frame with an optional parent link. Lookups walk
// outward. Function calls parent the fresh frame on the caller's
// currently active scope, not the scope where the function was defined;
// free names therefore resolve dynamically against the live call chain.
// That is the language's documented behavior, not an accident.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a scope with the given parent (nil for the global one).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name in this scope, overwriting any existing binding here
// and shadowing outer ones.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Assign updates the nearest scope that already owns name; when no scope
// owns it, the name is defined in this (innermost) scope.
func (e *Env) Assign(name string, v Value) {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.table[name]; ok {
			s.table[name] = v
			return
		}
	}
	e.table[name] = v
}

// Get walks the chain outward and reports whether name is bound.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}
