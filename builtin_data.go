package zpy

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---- structured data built-ins -----------------------------------------
//
// json_parse / json_dump, yaml_parse / yaml_dump, csv_parse / csv_dump.
// Decoded documents come back as plain script values: objects turn into
// dicts with string keys sorted alphabetically (the decoder hands back
// an unordered map, sorting keeps runs deterministic), arrays into
// lists, numbers into int where exact and float otherwise.

func registerDataBuiltins(ip *Interpreter) {
	// json_parse(text) -> value
	ip.RegisterBuiltin("json_parse", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || args[0].Tag != VTStr {
			return None, fmt.Errorf("json_parse() takes a single string argument")
		}
		dec := json.NewDecoder(strings.NewReader(args[0].Data.(string)))
		dec.UseNumber()
		var doc any
		if err := dec.Decode(&doc); err != nil {
			return None, fmt.Errorf("json_parse(): %v", err)
		}
		return goToValue(doc)
	})

	// json_dump(value, indent?) -> string
	ip.RegisterBuiltin("json_dump", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) < 1 || len(args) > 2 {
			return None, fmt.Errorf("json_dump() takes 1 or 2 arguments, got %d", len(args))
		}
		doc, err := valueToGo(args[0])
		if err != nil {
			return None, fmt.Errorf("json_dump(): %v", err)
		}
		var out []byte
		if len(args) == 2 {
			if args[1].Tag != VTInt {
				return None, fmt.Errorf("json_dump() indent must be an integer")
			}
			out, err = json.MarshalIndent(doc, "", strings.Repeat(" ", int(args[1].Data.(int64))))
		} else {
			out, err = json.Marshal(doc)
		}
		if err != nil {
			return None, fmt.Errorf("json_dump(): %v", err)
		}
		return StrVal(string(out)), nil
	})

	// yaml_parse(text) -> value
	ip.RegisterBuiltin("yaml_parse", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || args[0].Tag != VTStr {
			return None, fmt.Errorf("yaml_parse() takes a single string argument")
		}
		var doc any
		if err := yaml.Unmarshal([]byte(args[0].Data.(string)), &doc); err != nil {
			return None, fmt.Errorf("yaml_parse(): %v", err)
		}
		return goToValue(doc)
	})

	// yaml_dump(value) -> string
	ip.RegisterBuiltin("yaml_dump", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return None, fmt.Errorf("yaml_dump() takes 1 argument, got %d", len(args))
		}
		doc, err := valueToGo(args[0])
		if err != nil {
			return None, fmt.Errorf("yaml_dump(): %v", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return None, fmt.Errorf("yaml_dump(): %v", err)
		}
		return StrVal(string(out)), nil
	})

	// csv_parse(text) -> list of row lists of strings
	ip.RegisterBuiltin("csv_parse", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || args[0].Tag != VTStr {
			return None, fmt.Errorf("csv_parse() takes a single string argument")
		}
		rd := csv.NewReader(strings.NewReader(args[0].Data.(string)))
		rd.FieldsPerRecord = -1
		records, err := rd.ReadAll()
		if err != nil {
			return None, fmt.Errorf("csv_parse(): %v", err)
		}
		rows := make([]Value, len(records))
		for i, rec := range records {
			cols := make([]Value, len(rec))
			for j, c := range rec {
				cols[j] = StrVal(c)
			}
			rows[i] = NewList(cols)
		}
		return NewList(rows), nil
	})

	// csv_dump(rows) -> string; cells may be any scalar, rendered bare
	ip.RegisterBuiltin("csv_dump", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || args[0].Tag != VTList {
			return None, fmt.Errorf("csv_dump() takes a single list argument")
		}
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		for _, row := range args[0].Data.(*ListObject).Elems {
			if row.Tag != VTList {
				return None, fmt.Errorf("csv_dump() rows must be lists, got %s", row.Tag)
			}
			cells := row.Data.(*ListObject).Elems
			rec := make([]string, len(cells))
			for j, c := range cells {
				switch c.Tag {
				case VTList, VTDict, VTFun:
					return None, fmt.Errorf("csv_dump() cells must be scalars, got %s", c.Tag)
				}
				rec[j] = Str(c)
			}
			if err := w.Write(rec); err != nil {
				return None, fmt.Errorf("csv_dump(): %v", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return None, fmt.Errorf("csv_dump(): %v", err)
		}
		return StrVal(buf.String()), nil
	})
}

// goToValue converts a decoded Go document into script values.
func goToValue(doc any) (Value, error) {
	switch v := doc.(type) {
	case nil:
		return None, nil
	case bool:
		return BoolVal(v), nil
	case string:
		return StrVal(v), nil
	case int:
		return IntVal(int64(v)), nil
	case int64:
		return IntVal(v), nil
	case uint64:
		return IntVal(int64(v)), nil
	case float64:
		return FloatVal(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return IntVal(n), nil
		}
		f, err := v.Float64()
		if err != nil {
			return None, fmt.Errorf("bad number %q", v.String())
		}
		return FloatVal(f), nil
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			ev, err := goToValue(e)
			if err != nil {
				return None, err
			}
			elems[i] = ev
		}
		return NewList(elems), nil
	case map[string]any:
		// Go maps have no stable order; sort to keep output
		// deterministic across runs.
		d := NewDict()
		obj := d.Data.(*DictObject)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ev, err := goToValue(v[k])
			if err != nil {
				return None, err
			}
			obj.Set(StrVal(k), ev)
		}
		return d, nil
	case map[any]any:
		d := NewDict()
		obj := d.Data.(*DictObject)
		for k, e := range v {
			kv, err := goToValue(k)
			if err != nil {
				return None, err
			}
			ev, err := goToValue(e)
			if err != nil {
				return None, err
			}
			obj.Set(kv, ev)
		}
		return d, nil
	}
	return None, fmt.Errorf("cannot convert %T", doc)
}

// valueToGo is the inverse: dict keys must be strings and functions
// cannot be serialized.
func valueToGo(v Value) (any, error) {
	switch v.Tag {
	case VTNone:
		return nil, nil
	case VTBool:
		return v.Data.(bool), nil
	case VTInt:
		return v.Data.(int64), nil
	case VTFloat:
		return v.Data.(float64), nil
	case VTStr:
		return v.Data.(string), nil
	case VTList:
		elems := v.Data.(*ListObject).Elems
		out := make([]any, len(elems))
		for i, e := range elems {
			ev, err := valueToGo(e)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case VTDict:
		d := v.Data.(*DictObject)
		out := make(map[string]any, len(d.Keys))
		for i, k := range d.Keys {
			if k.Tag != VTStr {
				return nil, fmt.Errorf("dict key must be a string, got %s", k.Tag)
			}
			ev, err := valueToGo(d.Vals[i])
			if err != nil {
				return nil, err
			}
			out[k.Data.(string)] = ev
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot serialize %s", v.Tag)
}
