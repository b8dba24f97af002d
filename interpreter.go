// interpreter.go — public surface of the zpy interpreter.
//
// An Interpreter owns one Global environment (created once, alive for
// the whole session) and a registry of host builtins. Hosts may Define
// extra bindings in Global (for example __file__ / __dir__) before
// running anything.
//
// Entry points:
//   - EvalSource — lex + parse + run; returns the first syntax error
//     without executing when the source does not parse cleanly.
//   - Run — execute an already-parsed Program in Global. Used together
//     with ParseSource by hosts (the REPL) that want the parser's
//     statement-resynchronization behavior: report the errors, still
//     run the statements that parsed.
//
// Runtime failures travel inside the engine as rtErr panics (see
// errors.go); Run recovers them at this boundary and returns *Error.
// Execution is strictly single-threaded; an Interpreter must not be
// shared across goroutines.
package zpy

// BuiltinImpl is a host-provided function. It receives the interpreter
// handle and the already-evaluated argument values. A returned error is
// collapsed by the interpreter into an opaque BuiltinError; builtins
// that want script-visible failure detail return a result dictionary
// instead (the http_*/proc_* convention).
type BuiltinImpl func(ip *Interpreter, args []Value) (Value, error)

// Interpreter executes zpy programs against a persistent Global scope.
type Interpreter struct {
	Global *Env

	builtins map[string]BuiltinImpl

	env  *Env  // currently active scope during execution
	last Value // value of the most recent expression statement
}

// NewInterpreter returns an interpreter with the standard builtins
// registered and an empty Global scope.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		Global:   NewEnv(nil),
		builtins: make(map[string]BuiltinImpl),
	}
	registerCoreBuiltins(ip)
	registerDataBuiltins(ip)
	registerIOBuiltins(ip)
	return ip
}

// RegisterBuiltin installs (or replaces) a builtin. Builtins resolve
// before user-defined functions of the same name, so a def can never
// shadow one.
func (ip *Interpreter) RegisterBuiltin(name string, impl BuiltinImpl) {
	ip.builtins[name] = impl
}

// HasBuiltin reports whether name is registered.
func (ip *Interpreter) HasBuiltin(name string) bool {
	_, ok := ip.builtins[name]
	return ok
}

// EvalSource parses and runs src in the Global scope. Syntax errors are
// returned without executing anything; otherwise the result is the
// value of the last top-level expression statement (none when there was
// none), or a *Error on runtime failure.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	prog, errs := ParseSource(src)
	if len(errs) > 0 {
		return None, errs[0]
	}
	return ip.Run(prog)
}

// Run executes a parsed Program in the Global scope. A break, continue
// or return reaching the top level halts the remaining statements
// silently, exactly like everywhere else in the language.
func (ip *Interpreter) Run(prog *Program) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(rtErr)
			if !ok {
				panic(r)
			}
			out = None
			err = &Error{Kind: sig.kind, Msg: sig.msg, Line: sig.line, Col: sig.col}
		}
	}()
	ip.env = ip.Global
	ip.last = None
	ip.execStmts(prog.Stmts)
	return ip.last, nil
}
