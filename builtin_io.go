package zpy

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	env "github.com/xyproto/env/v2"
)

// ---- file, os, net, and time built-ins ---------------------------------
//
// Operations that can fail for reasons outside the script (the network,
// the filesystem, a child process) return a result dict instead of
// raising: {"ok": true, ...} on success, {"ok": false, "error": msg} on
// failure. Plain filesystem helpers raise through the usual builtin
// error path.

// httpTimeout is tunable through ZPY_HTTP_TIMEOUT (seconds).
func httpTimeout() time.Duration {
	return time.Duration(env.Int("ZPY_HTTP_TIMEOUT", 30)) * time.Second
}

func okDict(pairs ...Value) Value {
	d := NewDict()
	obj := d.Data.(*DictObject)
	obj.Set(StrVal("ok"), BoolVal(true))
	for i := 0; i+1 < len(pairs); i += 2 {
		obj.Set(pairs[i], pairs[i+1])
	}
	return d
}

func errDict(msg string) Value {
	d := NewDict()
	obj := d.Data.(*DictObject)
	obj.Set(StrVal("ok"), BoolVal(false))
	obj.Set(StrVal("error"), StrVal(msg))
	return d
}

func registerIOBuiltins(ip *Interpreter) {
	// read_file(path) -> string
	ip.RegisterBuiltin("read_file", func(_ *Interpreter, args []Value) (Value, error) {
		path, err := oneString("read_file", args)
		if err != nil {
			return None, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return None, fmt.Errorf("read_file(): %v", err)
		}
		return StrVal(string(data)), nil
	})

	// write_file(path, text) -> none
	ip.RegisterBuiltin("write_file", func(_ *Interpreter, args []Value) (Value, error) {
		path, text, err := twoStrings("write_file", args)
		if err != nil {
			return None, err
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return None, fmt.Errorf("write_file(): %v", err)
		}
		return None, nil
	})

	// append_file(path, text) -> none
	ip.RegisterBuiltin("append_file", func(_ *Interpreter, args []Value) (Value, error) {
		path, text, err := twoStrings("append_file", args)
		if err != nil {
			return None, err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return None, fmt.Errorf("append_file(): %v", err)
		}
		defer f.Close()
		if _, err := f.WriteString(text); err != nil {
			return None, fmt.Errorf("append_file(): %v", err)
		}
		return None, nil
	})

	// file_exists(path) -> bool
	ip.RegisterBuiltin("file_exists", func(_ *Interpreter, args []Value) (Value, error) {
		path, err := oneString("file_exists", args)
		if err != nil {
			return None, err
		}
		_, serr := os.Stat(path)
		return BoolVal(serr == nil), nil
	})

	// list_dir(path) -> list of entry names
	ip.RegisterBuiltin("list_dir", func(_ *Interpreter, args []Value) (Value, error) {
		path, err := oneString("list_dir", args)
		if err != nil {
			return None, err
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return None, fmt.Errorf("list_dir(): %v", err)
		}
		out := make([]Value, len(entries))
		for i, e := range entries {
			out[i] = StrVal(e.Name())
		}
		return NewList(out), nil
	})

	// remove_file(path) -> none
	ip.RegisterBuiltin("remove_file", func(_ *Interpreter, args []Value) (Value, error) {
		path, err := oneString("remove_file", args)
		if err != nil {
			return None, err
		}
		if err := os.Remove(path); err != nil {
			return None, fmt.Errorf("remove_file(): %v", err)
		}
		return None, nil
	})

	// getcwd() -> string
	ip.RegisterBuiltin("getcwd", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 0 {
			return None, fmt.Errorf("getcwd() takes no arguments")
		}
		wd, err := os.Getwd()
		if err != nil {
			return None, fmt.Errorf("getcwd(): %v", err)
		}
		return StrVal(wd), nil
	})

	// env(name, default?) -> string
	ip.RegisterBuiltin("env", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) < 1 || len(args) > 2 || args[0].Tag != VTStr {
			return None, fmt.Errorf("env() takes a name and an optional default")
		}
		def := ""
		if len(args) == 2 {
			if args[1].Tag != VTStr {
				return None, fmt.Errorf("env() default must be a string")
			}
			def = args[1].Data.(string)
		}
		return StrVal(env.Str(args[0].Data.(string), def)), nil
	})

	// set_env(name, value) -> none
	ip.RegisterBuiltin("set_env", func(_ *Interpreter, args []Value) (Value, error) {
		name, value, err := twoStrings("set_env", args)
		if err != nil {
			return None, err
		}
		if err := os.Setenv(name, value); err != nil {
			return None, fmt.Errorf("set_env(): %v", err)
		}
		return None, nil
	})

	// path_join(parts...) -> string
	ip.RegisterBuiltin("path_join", func(_ *Interpreter, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			if a.Tag != VTStr {
				return None, fmt.Errorf("path_join() arguments must be strings")
			}
			parts[i] = a.Data.(string)
		}
		return StrVal(filepath.Join(parts...)), nil
	})

	// path_base(path) -> string
	ip.RegisterBuiltin("path_base", func(_ *Interpreter, args []Value) (Value, error) {
		path, err := oneString("path_base", args)
		if err != nil {
			return None, err
		}
		return StrVal(filepath.Base(path)), nil
	})

	// path_dir(path) -> string
	ip.RegisterBuiltin("path_dir", func(_ *Interpreter, args []Value) (Value, error) {
		path, err := oneString("path_dir", args)
		if err != nil {
			return None, err
		}
		return StrVal(filepath.Dir(path)), nil
	})

	// time_now() -> float, seconds since the Unix epoch
	ip.RegisterBuiltin("time_now", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 0 {
			return None, fmt.Errorf("time_now() takes no arguments")
		}
		return FloatVal(float64(time.Now().UnixNano()) / 1e9), nil
	})

	// time_sleep(seconds) -> none
	ip.RegisterBuiltin("time_sleep", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || !isNumber(args[0]) {
			return None, fmt.Errorf("time_sleep() takes a single number argument")
		}
		secs := toFloat(args[0])
		if secs < 0 {
			return None, fmt.Errorf("time_sleep() argument must not be negative")
		}
		time.Sleep(time.Duration(secs * float64(time.Second)))
		return None, nil
	})

	// random() -> float in [0,1)
	ip.RegisterBuiltin("random", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 0 {
			return None, fmt.Errorf("random() takes no arguments")
		}
		return FloatVal(rand.Float64()), nil
	})

	// random_int(lo, hi) -> int in [lo,hi]
	ip.RegisterBuiltin("random_int", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 || args[0].Tag != VTInt || args[1].Tag != VTInt {
			return None, fmt.Errorf("random_int() takes two integer arguments")
		}
		lo, hi := args[0].Data.(int64), args[1].Data.(int64)
		if hi < lo {
			return None, fmt.Errorf("random_int(): empty range %d..%d", lo, hi)
		}
		return IntVal(lo + rand.Int63n(hi-lo+1)), nil
	})

	// http_get(url) -> {ok, status, body} | {ok: false, error}
	ip.RegisterBuiltin("http_get", func(_ *Interpreter, args []Value) (Value, error) {
		url, err := oneString("http_get", args)
		if err != nil {
			return None, err
		}
		client := &http.Client{Timeout: httpTimeout()}
		resp, herr := client.Get(url)
		if herr != nil {
			return errDict(herr.Error()), nil
		}
		defer resp.Body.Close()
		body, rerr := io.ReadAll(resp.Body)
		if rerr != nil {
			return errDict(rerr.Error()), nil
		}
		return okDict(
			StrVal("status"), IntVal(int64(resp.StatusCode)),
			StrVal("body"), StrVal(string(body)),
		), nil
	})

	// http_post(url, body, content_type?) -> {ok, status, body} | {ok: false, error}
	ip.RegisterBuiltin("http_post", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) < 2 || len(args) > 3 || args[0].Tag != VTStr || args[1].Tag != VTStr {
			return None, fmt.Errorf("http_post() takes a url, a body, and an optional content type")
		}
		ctype := "application/json"
		if len(args) == 3 {
			if args[2].Tag != VTStr {
				return None, fmt.Errorf("http_post() content type must be a string")
			}
			ctype = args[2].Data.(string)
		}
		client := &http.Client{Timeout: httpTimeout()}
		resp, herr := client.Post(args[0].Data.(string), ctype,
			strings.NewReader(args[1].Data.(string)))
		if herr != nil {
			return errDict(herr.Error()), nil
		}
		defer resp.Body.Close()
		body, rerr := io.ReadAll(resp.Body)
		if rerr != nil {
			return errDict(rerr.Error()), nil
		}
		return okDict(
			StrVal("status"), IntVal(int64(resp.StatusCode)),
			StrVal("body"), StrVal(string(body)),
		), nil
	})

	// proc_run(cmd, args_list?) -> {ok, code, stdout, stderr} | {ok: false, error}
	ip.RegisterBuiltin("proc_run", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) < 1 || len(args) > 2 || args[0].Tag != VTStr {
			return None, fmt.Errorf("proc_run() takes a command and an optional argument list")
		}
		var argv []string
		if len(args) == 2 {
			if args[1].Tag != VTList {
				return None, fmt.Errorf("proc_run() arguments must be a list")
			}
			for _, a := range args[1].Data.(*ListObject).Elems {
				if a.Tag != VTStr {
					return None, fmt.Errorf("proc_run() arguments must be strings")
				}
				argv = append(argv, a.Data.(string))
			}
		}
		cmd := exec.Command(args[0].Data.(string), argv...)
		var stdout, stderr strings.Builder
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		code := 0
		if rerr := cmd.Run(); rerr != nil {
			ee, ok := rerr.(*exec.ExitError)
			if !ok {
				return errDict(rerr.Error()), nil
			}
			code = ee.ExitCode()
		}
		return okDict(
			StrVal("code"), IntVal(int64(code)),
			StrVal("stdout"), StrVal(stdout.String()),
			StrVal("stderr"), StrVal(stderr.String()),
		), nil
	})
}

func oneString(name string, args []Value) (string, error) {
	if len(args) != 1 || args[0].Tag != VTStr {
		return "", fmt.Errorf("%s() takes a single string argument", name)
	}
	return args[0].Data.(string), nil
}

func twoStrings(name string, args []Value) (string, string, error) {
	if len(args) != 2 || args[0].Tag != VTStr || args[1].Tag != VTStr {
		return "", "", fmt.Errorf("%s() takes two string arguments", name)
	}
	return args[0].Data.(string), args[1].Data.(string), nil
}
