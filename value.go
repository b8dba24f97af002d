// value.go — the zpy runtime value model.
//
// Value is a tagged union; the tag says which Go type sits in Data:
//
//	VTNone  → nil
//	VTBool  → bool
//	VTInt   → int64
//	VTFloat → float64
//	VTStr   → string (immutable byte sequence)
//	VTList  → *ListObject (shared, mutable)
//	VTDict  → *DictObject (shared, mutable, insertion-ordered)
//	VTFun   → *Fun
//
// Lists and dicts are reference types: assignment shares the underlying
// container, and `==` on lists/dicts/functions compares identity, never
// contents. Dict lookup is a linear scan by structural value equality
// (deepEqual), so any value — including another list or dict — can be a
// key; insertion order is the iteration order.
package zpy

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNone ValueTag = iota
	VTBool
	VTInt
	VTFloat
	VTStr
	VTList
	VTDict
	VTFun
)

func (t ValueTag) String() string {
	switch t {
	case VTNone:
		return "none"
	case VTBool:
		return "bool"
	case VTInt:
		return "int"
	case VTFloat:
		return "float"
	case VTStr:
		return "str"
	case VTList:
		return "list"
	case VTDict:
		return "dict"
	case VTFun:
		return "function"
	}
	return "unknown"
}

// Value is the universal runtime carrier.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// None is the singleton none value.
var None = Value{Tag: VTNone}

func BoolVal(b bool) Value    { return Value{Tag: VTBool, Data: b} }
func IntVal(n int64) Value    { return Value{Tag: VTInt, Data: n} }
func FloatVal(f float64) Value { return Value{Tag: VTFloat, Data: f} }
func StrVal(s string) Value   { return Value{Tag: VTStr, Data: s} }

// ListObject is the backing store of a list value. All list Values made
// from the same object alias the same storage.
type ListObject struct {
	Elems []Value
}

func NewList(elems []Value) Value {
	return Value{Tag: VTList, Data: &ListObject{Elems: elems}}
}

// DictObject keeps keys and values as parallel slices in insertion
// order. Lookup walks Keys comparing with deepEqual; there is no hash.
type DictObject struct {
	Keys []Value
	Vals []Value
}

func NewDict() Value {
	return Value{Tag: VTDict, Data: &DictObject{}}
}

// Find returns the position of key or -1.
func (d *DictObject) Find(key Value) int {
	for i, k := range d.Keys {
		if deepEqual(k, key) {
			return i
		}
	}
	return -1
}

// Set inserts or overwrites; a new key is appended, an existing key
// keeps its position.
func (d *DictObject) Set(key, val Value) {
	if i := d.Find(key); i >= 0 {
		d.Vals[i] = val
		return
	}
	d.Keys = append(d.Keys, key)
	d.Vals = append(d.Vals, val)
}

// Delete removes the first structurally-equal key with an ordered shift,
// preserving the remaining order. Reports whether the key was present.
func (d *DictObject) Delete(key Value) bool {
	i := d.Find(key)
	if i < 0 {
		return false
	}
	d.Keys = append(d.Keys[:i], d.Keys[i+1:]...)
	d.Vals = append(d.Vals[:i], d.Vals[i+1:]...)
	return true
}

// Fun is a user-defined function: a name, the parameter names, and a
// reference into the AST of the parse that defined it. The body is never
// copied, so the owning Program must outlive every call.
type Fun struct {
	Name   string
	Params []string
	Body   *BlockStmt
}

func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// Truthy implements condition semantics: none and the zero/empty value
// of every kind are false, everything else true. Functions are always
// true.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTNone:
		return false
	case VTBool:
		return v.Data.(bool)
	case VTInt:
		return v.Data.(int64) != 0
	case VTFloat:
		return v.Data.(float64) != 0
	case VTStr:
		return v.Data.(string) != ""
	case VTList:
		return len(v.Data.(*ListObject).Elems) > 0
	case VTDict:
		return len(v.Data.(*DictObject).Keys) > 0
	default:
		return true
	}
}

// valueEquals is the `==` operator: value equality for scalars (mixed
// int/float compares numerically), reference identity for lists, dicts
// and functions. Values of unrelated kinds are simply unequal.
func valueEquals(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		if a.Tag == VTInt && b.Tag == VTInt {
			return a.Data.(int64) == b.Data.(int64)
		}
		return toFloat(a) == toFloat(b)
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNone:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTList:
		return a.Data.(*ListObject) == b.Data.(*ListObject)
	case VTDict:
		return a.Data.(*DictObject) == b.Data.(*DictObject)
	case VTFun:
		return a.Data.(*Fun) == b.Data.(*Fun)
	}
	return false
}

// deepEqual is the structural equality used for dict-key lookup and
// membership in dicts: containers compare by contents here, unlike `==`.
func deepEqual(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		if a.Tag == VTInt && b.Tag == VTInt {
			return a.Data.(int64) == b.Data.(int64)
		}
		return toFloat(a) == toFloat(b)
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNone:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTList:
		ax := a.Data.(*ListObject).Elems
		bx := b.Data.(*ListObject).Elems
		if len(ax) != len(bx) {
			return false
		}
		for i := range ax {
			if !deepEqual(ax[i], bx[i]) {
				return false
			}
		}
		return true
	case VTDict:
		ad := a.Data.(*DictObject)
		bd := b.Data.(*DictObject)
		if len(ad.Keys) != len(bd.Keys) {
			return false
		}
		for i, k := range ad.Keys {
			j := bd.Find(k)
			if j < 0 || !deepEqual(ad.Vals[i], bd.Vals[j]) {
				return false
			}
		}
		return true
	case VTFun:
		return a.Data.(*Fun) == b.Data.(*Fun)
	}
	return false
}

func isNumber(v Value) bool { return v.Tag == VTInt || v.Tag == VTFloat }

func toFloat(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}

// Str renders a value the way print does: strings bare, everything else
// as Repr.
func Str(v Value) string {
	if v.Tag == VTStr {
		return v.Data.(string)
	}
	return Repr(v)
}

// Repr renders a value as source-like text: strings quoted, containers
// recursively, keywords for none/true/false.
func Repr(v Value) string {
	switch v.Tag {
	case VTNone:
		return "none"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTFloat:
		return formatFloat(v.Data.(float64))
	case VTStr:
		return strconv.Quote(v.Data.(string))
	case VTList:
		elems := v.Data.(*ListObject).Elems
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = Repr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTDict:
		d := v.Data.(*DictObject)
		parts := make([]string, len(d.Keys))
		for i := range d.Keys {
			parts[i] = Repr(d.Keys[i]) + ": " + Repr(d.Vals[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case VTFun:
		f := v.Data.(*Fun)
		return fmt.Sprintf("<function %s>", f.Name)
	}
	return "<unknown>"
}

// formatFloat keeps whole floats recognizable as floats ("3.0", not "3").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}
