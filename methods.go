// methods.go — the dot-call surface on lists, dicts, and strings.
// Dispatch is by receiver tag then method name; anything unknown is an
// unsupported operation at the call site.
package zpy

import (
	"fmt"
	"sort"
	"strings"
)

func (ip *Interpreter) callMethod(obj Value, name string, args []Value, pos Pos) Value {
	switch obj.Tag {
	case VTList:
		return ip.listMethod(obj.Data.(*ListObject), name, args, pos)
	case VTDict:
		return ip.dictMethod(obj.Data.(*DictObject), name, args, pos)
	case VTStr:
		return ip.strMethod(obj.Data.(string), name, args, pos)
	}
	failAt(ErrUnsupportedOperation,
		fmt.Sprintf("%s has no method '%s'", obj.Tag, name), pos)
	return None
}

func wantArgs(name string, args []Value, n int, pos Pos) {
	if len(args) != n {
		failAt(ErrType, fmt.Sprintf("%s() takes %d argument(s), got %d",
			name, n, len(args)), pos)
	}
}

// ----- list methods -----

func (ip *Interpreter) listMethod(lst *ListObject, name string, args []Value, pos Pos) Value {
	switch name {
	case "append":
		wantArgs("append", args, 1, pos)
		lst.Elems = append(lst.Elems, args[0])
		return None

	case "pop":
		// pop() takes the last element, pop(i) a specific one.
		if len(args) > 1 {
			failAt(ErrType, fmt.Sprintf("pop() takes at most 1 argument, got %d", len(args)), pos)
		}
		if len(lst.Elems) == 0 {
			failAt(ErrIndexOutOfBounds, "pop from empty list", pos)
		}
		i := len(lst.Elems) - 1
		if len(args) == 1 {
			if args[0].Tag != VTInt {
				failAt(ErrType, "pop() index must be an integer", pos)
			}
			i = normIndex(args[0].Data.(int64), len(lst.Elems))
			if i < 0 {
				failAt(ErrIndexOutOfBounds, "pop index out of range", pos)
			}
		}
		v := lst.Elems[i]
		lst.Elems = append(lst.Elems[:i], lst.Elems[i+1:]...)
		return v

	case "insert":
		wantArgs("insert", args, 2, pos)
		if args[0].Tag != VTInt {
			failAt(ErrType, "insert() index must be an integer", pos)
		}
		// insert clamps like Python: past-the-end appends, before the
		// start prepends.
		i := args[0].Data.(int64)
		n := int64(len(lst.Elems))
		if i < 0 {
			i += n
			if i < 0 {
				i = 0
			}
		}
		if i > n {
			i = n
		}
		lst.Elems = append(lst.Elems, None)
		copy(lst.Elems[i+1:], lst.Elems[i:])
		lst.Elems[i] = args[1]
		return None

	case "remove":
		wantArgs("remove", args, 1, pos)
		for i, e := range lst.Elems {
			if valueEquals(e, args[0]) {
				lst.Elems = append(lst.Elems[:i], lst.Elems[i+1:]...)
				return None
			}
		}
		failAt(ErrKeyNotFound, "remove(): value not in list", pos)

	case "index":
		wantArgs("index", args, 1, pos)
		for i, e := range lst.Elems {
			if valueEquals(e, args[0]) {
				return IntVal(int64(i))
			}
		}
		failAt(ErrKeyNotFound, "index(): value not in list", pos)

	case "reverse":
		wantArgs("reverse", args, 0, pos)
		for i, j := 0, len(lst.Elems)-1; i < j; i, j = i+1, j-1 {
			lst.Elems[i], lst.Elems[j] = lst.Elems[j], lst.Elems[i]
		}
		return None

	case "sort":
		wantArgs("sort", args, 0, pos)
		// Sorting requires a homogeneous list of numbers or strings.
		bad := false
		sort.SliceStable(lst.Elems, func(i, j int) bool {
			a, b := lst.Elems[i], lst.Elems[j]
			switch {
			case isNumber(a) && isNumber(b):
				return toFloat(a) < toFloat(b)
			case a.Tag == VTStr && b.Tag == VTStr:
				return a.Data.(string) < b.Data.(string)
			}
			bad = true
			return false
		})
		if bad {
			failAt(ErrType, "sort(): list elements are not comparable", pos)
		}
		return None
	}
	failAt(ErrUnsupportedOperation, "list has no method '"+name+"'", pos)
	return None
}

// ----- dict methods -----

func (ip *Interpreter) dictMethod(d *DictObject, name string, args []Value, pos Pos) Value {
	switch name {
	case "keys":
		wantArgs("keys", args, 0, pos)
		out := make([]Value, len(d.Keys))
		copy(out, d.Keys)
		return NewList(out)

	case "values":
		wantArgs("values", args, 0, pos)
		out := make([]Value, len(d.Vals))
		copy(out, d.Vals)
		return NewList(out)

	case "items":
		wantArgs("items", args, 0, pos)
		out := make([]Value, len(d.Keys))
		for i := range d.Keys {
			out[i] = NewList([]Value{d.Keys[i], d.Vals[i]})
		}
		return NewList(out)

	case "get":
		// get(key) or get(key, default); a missing key is not an error.
		if len(args) < 1 || len(args) > 2 {
			failAt(ErrType, fmt.Sprintf("get() takes 1 or 2 arguments, got %d", len(args)), pos)
		}
		if i := d.Find(args[0]); i >= 0 {
			return d.Vals[i]
		}
		if len(args) == 2 {
			return args[1]
		}
		return None

	case "has":
		wantArgs("has", args, 1, pos)
		return BoolVal(d.Find(args[0]) >= 0)
	}
	failAt(ErrUnsupportedOperation, "dict has no method '"+name+"'", pos)
	return None
}

// ----- string methods -----

func (ip *Interpreter) strMethod(s string, name string, args []Value, pos Pos) Value {
	argStr := func(i int, what string) string {
		if args[i].Tag != VTStr {
			failAt(ErrType, name+"() "+what+" must be a string", pos)
		}
		return args[i].Data.(string)
	}

	switch name {
	case "upper":
		wantArgs("upper", args, 0, pos)
		return StrVal(strings.ToUpper(s))

	case "lower":
		wantArgs("lower", args, 0, pos)
		return StrVal(strings.ToLower(s))

	case "strip":
		wantArgs("strip", args, 0, pos)
		return StrVal(strings.TrimSpace(s))

	case "split":
		// split() splits on runs of whitespace, split(sep) on the
		// separator.
		if len(args) > 1 {
			failAt(ErrType, fmt.Sprintf("split() takes at most 1 argument, got %d", len(args)), pos)
		}
		var parts []string
		if len(args) == 0 {
			parts = strings.Fields(s)
		} else {
			sep := argStr(0, "separator")
			if sep == "" {
				failAt(ErrType, "split() separator must not be empty", pos)
			}
			parts = strings.Split(s, sep)
		}
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = StrVal(p)
		}
		return NewList(out)

	case "join":
		wantArgs("join", args, 1, pos)
		if args[0].Tag != VTList {
			failAt(ErrType, "join() argument must be a list", pos)
		}
		elems := args[0].Data.(*ListObject).Elems
		parts := make([]string, len(elems))
		for i, e := range elems {
			if e.Tag != VTStr {
				failAt(ErrType, "join() list elements must be strings", pos)
			}
			parts[i] = e.Data.(string)
		}
		return StrVal(strings.Join(parts, s))

	case "replace":
		wantArgs("replace", args, 2, pos)
		return StrVal(strings.ReplaceAll(s, argStr(0, "old"), argStr(1, "new")))

	case "find":
		wantArgs("find", args, 1, pos)
		return IntVal(int64(strings.Index(s, argStr(0, "needle"))))

	case "startswith":
		wantArgs("startswith", args, 1, pos)
		return BoolVal(strings.HasPrefix(s, argStr(0, "prefix")))

	case "endswith":
		wantArgs("endswith", args, 1, pos)
		return BoolVal(strings.HasSuffix(s, argStr(0, "suffix")))
	}
	failAt(ErrUnsupportedOperation, "string has no method '"+name+"'", pos)
	return None
}
