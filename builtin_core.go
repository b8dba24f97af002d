package zpy

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// ---- core built-ins ----------------------------------------------------

// rangeCap bounds the number of elements range() will materialize. The
// list is built eagerly, so an unbounded count would exhaust memory.
const rangeCap = 10_000_000

func registerCoreBuiltins(ip *Interpreter) {
	// print(args...) -> none
	// Arguments are space-separated and rendered bare (strings without
	// quotes); a trailing newline is always written.
	ip.RegisterBuiltin("print", func(_ *Interpreter, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = Str(a)
		}
		fmt.Println(strings.Join(parts, " "))
		return None, nil
	})

	// len(x) -> int for strings (bytes), lists, and dicts
	ip.RegisterBuiltin("len", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return None, fmt.Errorf("len() takes 1 argument, got %d", len(args))
		}
		switch args[0].Tag {
		case VTStr:
			return IntVal(int64(len(args[0].Data.(string)))), nil
		case VTList:
			return IntVal(int64(len(args[0].Data.(*ListObject).Elems))), nil
		case VTDict:
			return IntVal(int64(len(args[0].Data.(*DictObject).Keys))), nil
		}
		return None, fmt.Errorf("len() does not accept %s", args[0].Tag)
	})

	// range(stop), range(start, stop), range(start, stop, step) -> list
	ip.RegisterBuiltin("range", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) < 1 || len(args) > 3 {
			return None, fmt.Errorf("range() takes 1 to 3 arguments, got %d", len(args))
		}
		nums := make([]int64, len(args))
		for i, a := range args {
			if a.Tag != VTInt {
				return None, fmt.Errorf("range() arguments must be integers")
			}
			nums[i] = a.Data.(int64)
		}
		var start, stop, step int64 = 0, 0, 1
		switch len(args) {
		case 1:
			stop = nums[0]
		case 2:
			start, stop = nums[0], nums[1]
		case 3:
			start, stop, step = nums[0], nums[1], nums[2]
		}
		if step == 0 {
			return None, fmt.Errorf("range() step must not be zero")
		}
		// The span can exceed int64, so the count is computed in uint64.
		// uint64(-step) is the true magnitude even for the minimum int64.
		var count uint64
		if step > 0 && stop > start {
			diff := uint64(stop) - uint64(start)
			count = (diff-1)/uint64(step) + 1
		} else if step < 0 && stop < start {
			diff := uint64(start) - uint64(stop)
			count = (diff-1)/uint64(-step) + 1
		}
		if count > rangeCap {
			fail(ErrOutOfMemory, fmt.Sprintf("range() of %d elements exceeds the %d element limit", count, rangeCap))
		}
		out := make([]Value, 0, count)
		v := start
		for i := uint64(0); i < count; i++ {
			out = append(out, IntVal(v))
			v += step
		}
		return NewList(out), nil
	})

	// str(x) -> string, same rendering print uses
	ip.RegisterBuiltin("str", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return None, fmt.Errorf("str() takes 1 argument, got %d", len(args))
		}
		return StrVal(Str(args[0])), nil
	})

	// int(x) -> int; floats truncate toward zero, strings parse strictly
	ip.RegisterBuiltin("int", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return None, fmt.Errorf("int() takes 1 argument, got %d", len(args))
		}
		switch a := args[0]; a.Tag {
		case VTInt:
			return a, nil
		case VTFloat:
			return IntVal(int64(a.Data.(float64))), nil
		case VTBool:
			if a.Data.(bool) {
				return IntVal(1), nil
			}
			return IntVal(0), nil
		case VTStr:
			n, err := strconv.ParseInt(strings.TrimSpace(a.Data.(string)), 10, 64)
			if err != nil {
				return None, fmt.Errorf("int(): cannot parse %q", a.Data.(string))
			}
			return IntVal(n), nil
		}
		return None, fmt.Errorf("int() does not accept %s", args[0].Tag)
	})

	// float(x) -> float
	ip.RegisterBuiltin("float", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return None, fmt.Errorf("float() takes 1 argument, got %d", len(args))
		}
		switch a := args[0]; a.Tag {
		case VTFloat:
			return a, nil
		case VTInt:
			return FloatVal(float64(a.Data.(int64))), nil
		case VTBool:
			if a.Data.(bool) {
				return FloatVal(1), nil
			}
			return FloatVal(0), nil
		case VTStr:
			f, err := strconv.ParseFloat(strings.TrimSpace(a.Data.(string)), 64)
			if err != nil {
				return None, fmt.Errorf("float(): cannot parse %q", a.Data.(string))
			}
			return FloatVal(f), nil
		}
		return None, fmt.Errorf("float() does not accept %s", args[0].Tag)
	})

	// bool(x) -> bool, truthiness of x
	ip.RegisterBuiltin("bool", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return None, fmt.Errorf("bool() takes 1 argument, got %d", len(args))
		}
		return BoolVal(Truthy(args[0])), nil
	})

	// type(x) -> string name of the runtime type
	ip.RegisterBuiltin("type", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return None, fmt.Errorf("type() takes 1 argument, got %d", len(args))
		}
		return StrVal(args[0].Tag.String()), nil
	})

	// abs(x) -> int|float
	ip.RegisterBuiltin("abs", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return None, fmt.Errorf("abs() takes 1 argument, got %d", len(args))
		}
		switch a := args[0]; a.Tag {
		case VTInt:
			n := a.Data.(int64)
			if n < 0 {
				n = -n
			}
			return IntVal(n), nil
		case VTFloat:
			return FloatVal(math.Abs(a.Data.(float64))), nil
		}
		return None, fmt.Errorf("abs() requires a number, got %s", args[0].Tag)
	})

	// min(args...) / min(list) -> smallest element
	ip.RegisterBuiltin("min", func(_ *Interpreter, args []Value) (Value, error) {
		return pickExtreme("min", args, true)
	})

	// max(args...) / max(list) -> largest element
	ip.RegisterBuiltin("max", func(_ *Interpreter, args []Value) (Value, error) {
		return pickExtreme("max", args, false)
	})

	// sum(list) -> int|float; the sum of an empty list is 0
	ip.RegisterBuiltin("sum", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || args[0].Tag != VTList {
			return None, fmt.Errorf("sum() takes a single list argument")
		}
		elems := args[0].Data.(*ListObject).Elems
		var iacc int64
		var facc float64
		isFloat := false
		for _, e := range elems {
			switch e.Tag {
			case VTInt:
				iacc += e.Data.(int64)
				facc += float64(e.Data.(int64))
			case VTFloat:
				isFloat = true
				facc += e.Data.(float64)
			default:
				return None, fmt.Errorf("sum() list elements must be numbers, got %s", e.Tag)
			}
		}
		if isFloat {
			return FloatVal(facc), nil
		}
		return IntVal(iacc), nil
	})

	// input(prompt?) -> string, one line from stdin without the newline
	ip.RegisterBuiltin("input", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) > 1 {
			return None, fmt.Errorf("input() takes at most 1 argument, got %d", len(args))
		}
		if len(args) == 1 {
			fmt.Print(Str(args[0]))
		}
		rd := bufio.NewReader(os.Stdin)
		line, err := rd.ReadString('\n')
		if err != nil && line == "" {
			return StrVal(""), nil
		}
		return StrVal(strings.TrimRight(line, "\r\n")), nil
	})

	// ord(s) -> int value of a one-byte string
	ip.RegisterBuiltin("ord", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || args[0].Tag != VTStr {
			return None, fmt.Errorf("ord() takes a single string argument")
		}
		s := args[0].Data.(string)
		if len(s) != 1 {
			return None, fmt.Errorf("ord() requires a string of length 1, got %d", len(s))
		}
		return IntVal(int64(s[0])), nil
	})

	// chr(n) -> one-byte string for n in [0,255]
	ip.RegisterBuiltin("chr", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || args[0].Tag != VTInt {
			return None, fmt.Errorf("chr() takes a single integer argument")
		}
		n := args[0].Data.(int64)
		if n < 0 || n > 255 {
			return None, fmt.Errorf("chr() argument out of range: %d", n)
		}
		return StrVal(string([]byte{byte(n)})), nil
	})
}

// pickExtreme serves both min and max: either a single list argument or
// two-or-more scalar arguments, all numbers or all strings.
func pickExtreme(name string, args []Value, wantSmaller bool) (Value, error) {
	elems := args
	if len(args) == 1 && args[0].Tag == VTList {
		elems = args[0].Data.(*ListObject).Elems
	}
	if len(elems) == 0 {
		return None, fmt.Errorf("%s() of an empty sequence", name)
	}
	best := elems[0]
	for _, e := range elems[1:] {
		var less bool
		switch {
		case isNumber(best) && isNumber(e):
			less = toFloat(e) < toFloat(best)
		case best.Tag == VTStr && e.Tag == VTStr:
			less = e.Data.(string) < best.Data.(string)
		default:
			return None, fmt.Errorf("%s(): elements are not comparable", name)
		}
		if less == wantSmaller && !valueEquals(e, best) {
			best = e
		}
	}
	return best, nil
}
