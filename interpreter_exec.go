// interpreter_exec.go — statement execution and expression evaluation.
//
// Statement execution returns an explicit control-flow signal (flow)
// threaded back through every nesting level instead of shared mutable
// state:
//
//	Normal   — keep going
//	Break    — consumed by the nearest enclosing loop
//	Continue — consumed by the nearest enclosing loop
//	Return   — carries a value; consumed at the function-call boundary
//
// execStmts stops at the first non-normal signal. Loops reset Break and
// Continue to Normal and let anything else (Return) keep propagating.
// A call boundary consumes every signal: Return yields its value, a
// stray Break/Continue collapses to none.
//
// Evaluation order and coercion rules live in evalBinary and friends:
// truncating int division, float contagion, string concatenation and
// repetition, no short-circuit for and/or, negative indexing, byte-wise
// string iteration.
package zpy

import (
	"fmt"
	"math"
	"strings"
)

type ctrl int

const (
	ctrlNormal ctrl = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

type flow struct {
	kind  ctrl
	value Value
}

var flowNormal = flow{}

// execStmts runs statements in order, stopping as soon as the signal
// leaves normal.
func (ip *Interpreter) execStmts(stmts []Stmt) flow {
	for _, s := range stmts {
		if f := ip.execStmt(s); f.kind != ctrlNormal {
			return f
		}
	}
	return flowNormal
}

// execBlock runs a block body in a fresh child scope of the active one.
func (ip *Interpreter) execBlock(b *BlockStmt) flow {
	saved := ip.env
	ip.env = NewEnv(saved)
	f := ip.execStmts(b.Stmts)
	ip.env = saved
	return f
}

func (ip *Interpreter) execStmt(s Stmt) flow {
	switch st := s.(type) {
	case *ExprStmt:
		ip.last = ip.evalExpr(st.Expr)
		return flowNormal

	case *AssignStmt:
		v := ip.evalExpr(st.Value)
		ip.env.Assign(st.Name, v)
		return flowNormal

	case *IndexAssignStmt:
		obj := ip.evalExpr(st.Object)
		idx := ip.evalExpr(st.Index)
		val := ip.evalExpr(st.Value)
		ip.setIndex(obj, idx, val, st.Pos)
		return flowNormal

	case *AugAssignStmt:
		cur, ok := ip.env.Get(st.Name)
		if !ok {
			failAt(ErrUndefinedVariable, "undefined variable: "+st.Name, st.Pos)
		}
		v := ip.evalBinary(st.Op, cur, ip.evalExpr(st.Value), st.Pos)
		ip.env.Assign(st.Name, v)
		return flowNormal

	case *DelStmt:
		obj := ip.evalExpr(st.Object)
		idx := ip.evalExpr(st.Index)
		ip.delIndex(obj, idx, st.Pos)
		return flowNormal

	case *IfStmt:
		if Truthy(ip.evalExpr(st.Cond)) {
			return ip.execBlock(st.Then)
		}
		for _, br := range st.Elifs {
			if Truthy(ip.evalExpr(br.Cond)) {
				return ip.execBlock(br.Body)
			}
		}
		if st.Else != nil {
			return ip.execBlock(st.Else)
		}
		return flowNormal

	case *WhileStmt:
		for Truthy(ip.evalExpr(st.Cond)) {
			f := ip.execBlock(st.Body)
			switch f.kind {
			case ctrlBreak:
				return flowNormal
			case ctrlContinue, ctrlNormal:
				// next iteration
			default:
				return f
			}
		}
		return flowNormal

	case *ForStmt:
		return ip.execFor(st)

	case *BreakStmt:
		return flow{kind: ctrlBreak}

	case *ContinueStmt:
		return flow{kind: ctrlContinue}

	case *ReturnStmt:
		v := None
		if st.Value != nil {
			v = ip.evalExpr(st.Value)
		}
		return flow{kind: ctrlReturn, value: v}

	case *FuncDefStmt:
		fn := &Fun{Name: st.Name, Params: st.Params, Body: st.Body}
		ip.env.Define(st.Name, FunVal(fn))
		return flowNormal

	case *BlockStmt:
		return ip.execBlock(st)

	case *PassStmt:
		return flowNormal
	}
	failAt(ErrUnsupportedOperation, fmt.Sprintf("unknown statement %T", s), s.At())
	return flowNormal
}

// execFor iterates a list by element, a string by raw byte (one-byte
// strings, multi-byte UTF-8 sequences split), and a dict by its keys in
// insertion order. Each iteration binds the loop variable in a fresh
// child scope.
func (ip *Interpreter) execFor(st *ForStmt) flow {
	iter := ip.evalExpr(st.Iterable)

	runBody := func(elem Value) flow {
		saved := ip.env
		ip.env = NewEnv(saved)
		ip.env.Define(st.Var, elem)
		f := ip.execStmts(st.Body.Stmts)
		ip.env = saved
		return f
	}

	switch iter.Tag {
	case VTList:
		lst := iter.Data.(*ListObject)
		for i := 0; i < len(lst.Elems); i++ {
			f := runBody(lst.Elems[i])
			switch f.kind {
			case ctrlBreak:
				return flowNormal
			case ctrlContinue, ctrlNormal:
			default:
				return f
			}
		}
	case VTStr:
		s := iter.Data.(string)
		for i := 0; i < len(s); i++ {
			f := runBody(StrVal(s[i : i+1]))
			switch f.kind {
			case ctrlBreak:
				return flowNormal
			case ctrlContinue, ctrlNormal:
			default:
				return f
			}
		}
	case VTDict:
		d := iter.Data.(*DictObject)
		for i := 0; i < len(d.Keys); i++ {
			f := runBody(d.Keys[i])
			switch f.kind {
			case ctrlBreak:
				return flowNormal
			case ctrlContinue, ctrlNormal:
			default:
				return f
			}
		}
	default:
		failAt(ErrType, "cannot iterate over "+iter.Tag.String(), st.Pos)
	}
	return flowNormal
}

// ----- expression evaluation -----

func (ip *Interpreter) evalExpr(e Expr) Value {
	switch ex := e.(type) {
	case *IntLit:
		return IntVal(ex.Value)
	case *FloatLit:
		return FloatVal(ex.Value)
	case *StringLit:
		return StrVal(ex.Value)
	case *BoolLit:
		return BoolVal(ex.Value)
	case *NoneLit:
		return None
	case *Ident:
		v, ok := ip.env.Get(ex.Name)
		if !ok {
			failAt(ErrUndefinedVariable, "undefined variable: "+ex.Name, ex.Pos)
		}
		return v

	case *BinaryExpr:
		// and/or evaluate both operands; there is no short-circuiting.
		if ex.Op == "and" {
			l := ip.evalExpr(ex.Left)
			r := ip.evalExpr(ex.Right)
			return BoolVal(Truthy(l) && Truthy(r))
		}
		if ex.Op == "or" {
			l := ip.evalExpr(ex.Left)
			r := ip.evalExpr(ex.Right)
			return BoolVal(Truthy(l) || Truthy(r))
		}
		l := ip.evalExpr(ex.Left)
		r := ip.evalExpr(ex.Right)
		return ip.evalBinary(ex.Op, l, r, ex.Pos)

	case *UnaryExpr:
		v := ip.evalExpr(ex.Operand)
		if ex.Op == "not" {
			return BoolVal(!Truthy(v))
		}
		switch v.Tag {
		case VTInt:
			return IntVal(-v.Data.(int64))
		case VTFloat:
			return FloatVal(-v.Data.(float64))
		}
		failAt(ErrType, "unsupported operand type for unary -: "+v.Tag.String(), ex.Pos)

	case *CallExpr:
		return ip.evalCall(ex)

	case *IndexExpr:
		obj := ip.evalExpr(ex.Object)
		idx := ip.evalExpr(ex.Index)
		return ip.getIndex(obj, idx, ex.Pos)

	case *ListLit:
		elems := make([]Value, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = ip.evalExpr(el)
		}
		return NewList(elems)

	case *DictLit:
		d := NewDict()
		obj := d.Data.(*DictObject)
		for i := range ex.Keys {
			k := ip.evalExpr(ex.Keys[i])
			v := ip.evalExpr(ex.Values[i])
			obj.Set(k, v)
		}
		return d

	case *MethodCallExpr:
		obj := ip.evalExpr(ex.Object)
		args := make([]Value, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = ip.evalExpr(a)
		}
		return ip.callMethod(obj, ex.Method, args, ex.Pos)

	case *MembershipExpr:
		v := ip.evalExpr(ex.Value)
		coll := ip.evalExpr(ex.Collection)
		found := ip.contains(v, coll, ex.Pos)
		if ex.Negated {
			return BoolVal(!found)
		}
		return BoolVal(found)
	}
	failAt(ErrUnsupportedOperation, fmt.Sprintf("unknown expression %T", e), e.At())
	return None
}

// evalCall resolves builtins before user functions; a def can never
// shadow a builtin. All arguments are evaluated left to right before
// binding. Missing trailing arguments bind to none, extra arguments are
// dropped. The new scope is parented on the caller's active scope.
func (ip *Interpreter) evalCall(ex *CallExpr) Value {
	args := make([]Value, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = ip.evalExpr(a)
	}

	if impl, ok := ip.builtins[ex.Name]; ok {
		res, err := impl(ip, args)
		if err != nil {
			failAt(ErrBuiltin, err.Error(), ex.Pos)
		}
		return res
	}

	v, ok := ip.env.Get(ex.Name)
	if !ok {
		failAt(ErrUndefinedVariable, "undefined function: "+ex.Name, ex.Pos)
	}
	if v.Tag != VTFun {
		failAt(ErrType, fmt.Sprintf("'%s' is not a function", ex.Name), ex.Pos)
	}
	fn := v.Data.(*Fun)

	callEnv := NewEnv(ip.env)
	for i, p := range fn.Params {
		if i < len(args) {
			callEnv.Define(p, args[i])
		} else {
			callEnv.Define(p, None)
		}
	}

	saved := ip.env
	ip.env = callEnv
	f := ip.execStmts(fn.Body.Stmts)
	ip.env = saved

	// The call boundary consumes every signal.
	if f.kind == ctrlReturn {
		return f.value
	}
	return None
}

// ----- operators -----

func (ip *Interpreter) evalBinary(op string, l, r Value, pos Pos) Value {
	switch op {
	case "+":
		if l.Tag == VTInt && r.Tag == VTInt {
			return IntVal(l.Data.(int64) + r.Data.(int64))
		}
		if isNumber(l) && isNumber(r) {
			return FloatVal(toFloat(l) + toFloat(r))
		}
		if l.Tag == VTStr && r.Tag == VTStr {
			return StrVal(l.Data.(string) + r.Data.(string))
		}
	case "-":
		if l.Tag == VTInt && r.Tag == VTInt {
			return IntVal(l.Data.(int64) - r.Data.(int64))
		}
		if isNumber(l) && isNumber(r) {
			return FloatVal(toFloat(l) - toFloat(r))
		}
	case "*":
		if l.Tag == VTInt && r.Tag == VTInt {
			return IntVal(l.Data.(int64) * r.Data.(int64))
		}
		if isNumber(l) && isNumber(r) {
			return FloatVal(toFloat(l) * toFloat(r))
		}
		if l.Tag == VTStr && r.Tag == VTInt {
			return StrVal(repeatString(l.Data.(string), r.Data.(int64), pos))
		}
		if l.Tag == VTInt && r.Tag == VTStr {
			return StrVal(repeatString(r.Data.(string), l.Data.(int64), pos))
		}
	case "/":
		if l.Tag == VTInt && r.Tag == VTInt {
			d := r.Data.(int64)
			if d == 0 {
				failAt(ErrDivisionByZero, "division by zero", pos)
			}
			// Go's integer division truncates toward zero.
			return IntVal(l.Data.(int64) / d)
		}
		if isNumber(l) && isNumber(r) {
			d := toFloat(r)
			if d == 0 {
				failAt(ErrDivisionByZero, "division by zero", pos)
			}
			return FloatVal(toFloat(l) / d)
		}
	case "%":
		if l.Tag == VTInt && r.Tag == VTInt {
			d := r.Data.(int64)
			if d == 0 {
				failAt(ErrDivisionByZero, "modulo by zero", pos)
			}
			return IntVal(l.Data.(int64) % d)
		}
		if isNumber(l) && isNumber(r) {
			d := toFloat(r)
			if d == 0 {
				failAt(ErrDivisionByZero, "modulo by zero", pos)
			}
			return FloatVal(math.Mod(toFloat(l), d))
		}
	case "==":
		return BoolVal(valueEquals(l, r))
	case "!=":
		return BoolVal(!valueEquals(l, r))
	case "<", ">", "<=", ">=":
		return ip.evalComparison(op, l, r, pos)
	default:
		failAt(ErrUnsupportedOperation, "unknown operator: "+op, pos)
	}
	failAt(ErrType, fmt.Sprintf("unsupported operand types for %s: %s and %s",
		op, l.Tag, r.Tag), pos)
	return None
}

func (ip *Interpreter) evalComparison(op string, l, r Value, pos Pos) Value {
	var cmp int
	switch {
	case l.Tag == VTInt && r.Tag == VTInt:
		a, b := l.Data.(int64), r.Data.(int64)
		cmp = compareInt(a, b)
	case isNumber(l) && isNumber(r):
		a, b := toFloat(l), toFloat(r)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	case l.Tag == VTStr && r.Tag == VTStr:
		a, b := l.Data.(string), r.Data.(string)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	default:
		failAt(ErrType, fmt.Sprintf("cannot compare %s and %s", l.Tag, r.Tag), pos)
	}
	switch op {
	case "<":
		return BoolVal(cmp < 0)
	case ">":
		return BoolVal(cmp > 0)
	case "<=":
		return BoolVal(cmp <= 0)
	default:
		return BoolVal(cmp >= 0)
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// maxRepeatBytes bounds the result size of string repetition; beyond it
// the allocation is refused rather than attempted.
const maxRepeatBytes = 1 << 30

// repeatString implements string * int; a non-positive count yields "".
func repeatString(s string, n int64, pos Pos) string {
	if n <= 0 || len(s) == 0 {
		return ""
	}
	if n > maxRepeatBytes/int64(len(s)) {
		failAt(ErrOutOfMemory,
			fmt.Sprintf("string repetition of %d x %d bytes exceeds the %d byte limit",
				n, len(s), maxRepeatBytes), pos)
	}
	out := make([]byte, 0, int(n)*len(s))
	for i := int64(0); i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

// ----- indexing / deletion / membership -----

// normIndex maps a possibly negative index into [0,n) or reports -1.
func normIndex(idx int64, n int) int {
	if idx < 0 {
		idx += int64(n)
	}
	if idx < 0 || idx >= int64(n) {
		return -1
	}
	return int(idx)
}

func (ip *Interpreter) getIndex(obj, idx Value, pos Pos) Value {
	switch obj.Tag {
	case VTList:
		lst := obj.Data.(*ListObject)
		if idx.Tag != VTInt {
			failAt(ErrType, "list index must be an integer", pos)
		}
		i := normIndex(idx.Data.(int64), len(lst.Elems))
		if i < 0 {
			failAt(ErrIndexOutOfBounds, "list index out of range", pos)
		}
		return lst.Elems[i]
	case VTStr:
		s := obj.Data.(string)
		if idx.Tag != VTInt {
			failAt(ErrType, "string index must be an integer", pos)
		}
		i := normIndex(idx.Data.(int64), len(s))
		if i < 0 {
			failAt(ErrIndexOutOfBounds, "string index out of range", pos)
		}
		return StrVal(s[i : i+1])
	case VTDict:
		d := obj.Data.(*DictObject)
		i := d.Find(idx)
		if i < 0 {
			failAt(ErrKeyNotFound, "key not found: "+Repr(idx), pos)
		}
		return d.Vals[i]
	}
	failAt(ErrType, obj.Tag.String()+" is not indexable", pos)
	return None
}

func (ip *Interpreter) setIndex(obj, idx, val Value, pos Pos) {
	switch obj.Tag {
	case VTList:
		lst := obj.Data.(*ListObject)
		if idx.Tag != VTInt {
			failAt(ErrType, "list index must be an integer", pos)
		}
		i := normIndex(idx.Data.(int64), len(lst.Elems))
		if i < 0 {
			failAt(ErrIndexOutOfBounds, "list index out of range", pos)
		}
		lst.Elems[i] = val
		return
	case VTDict:
		obj.Data.(*DictObject).Set(idx, val)
		return
	case VTStr:
		failAt(ErrType, "strings are immutable", pos)
	}
	failAt(ErrType, obj.Tag.String()+" does not support index assignment", pos)
}

// delIndex removes a list element (ordered shift, negative index
// allowed) or the first structurally-equal dict key.
func (ip *Interpreter) delIndex(obj, idx Value, pos Pos) {
	switch obj.Tag {
	case VTList:
		lst := obj.Data.(*ListObject)
		if idx.Tag != VTInt {
			failAt(ErrType, "list index must be an integer", pos)
		}
		i := normIndex(idx.Data.(int64), len(lst.Elems))
		if i < 0 {
			failAt(ErrIndexOutOfBounds, "list index out of range", pos)
		}
		lst.Elems = append(lst.Elems[:i], lst.Elems[i+1:]...)
		return
	case VTDict:
		if !obj.Data.(*DictObject).Delete(idx) {
			failAt(ErrKeyNotFound, "key not found: "+Repr(idx), pos)
		}
		return
	}
	failAt(ErrType, "cannot delete from "+obj.Tag.String(), pos)
}

// contains implements the membership forms: element of a list,
// substring of a string, key of a dict.
func (ip *Interpreter) contains(v, coll Value, pos Pos) bool {
	switch coll.Tag {
	case VTList:
		for _, e := range coll.Data.(*ListObject).Elems {
			if valueEquals(e, v) {
				return true
			}
		}
		return false
	case VTStr:
		if v.Tag != VTStr {
			failAt(ErrType, "'in <string>' requires a string operand", pos)
		}
		return strings.Contains(coll.Data.(string), v.Data.(string))
	case VTDict:
		return coll.Data.(*DictObject).Find(v) >= 0
	}
	failAt(ErrType, coll.Tag.String()+" is not a collection", pos)
	return false
}
