package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	env "github.com/xyproto/env/v2"

	zpy "github.com/shishtpal/zpy"
)

const (
	appName     = "zpy"
	historyFile = ".zpy_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("zpy %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", zpy.Version)

// noColor honors the NO_COLOR convention and non-tty-friendly setups.
var noColor = env.Bool("NO_COLOR")

func red(s string) string {
	if noColor {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func blue(s string) string {
	if noColor {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl())
	}

	switch cmd := os.Args[1]; cmd {
	case "repl":
		os.Exit(cmdRepl())
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "usage: %s run <file.zpy> [args...]\n", appName)
			os.Exit(2)
		}
		os.Exit(cmdRun(os.Args[2], os.Args[3:]))
	case "version":
		fmt.Println(zpy.Version)
	case "-h", "--help", "help":
		usage()
	default:
		// bare "zpy file.zpy" also works
		if _, err := os.Stat(cmd); err == nil {
			os.Exit(cmdRun(cmd, os.Args[2:]))
		}
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`zpy %s

Usage:
  %s                            Start the REPL.
  %s run <file.zpy> [args...]   Run a script (args land in argv).
  %s <file.zpy> [args...]       Same as run.
  %s version                    Print the version.

`, zpy.Version, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(file string, args []string) int {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := zpy.NewInterpreter()
	abs := file
	if a, aerr := filepath.Abs(file); aerr == nil {
		abs = a
	}
	ip.Global.Define("__file__", zpy.StrVal(abs))
	ip.Global.Define("__dir__", zpy.StrVal(filepath.Dir(abs)))
	argv := make([]zpy.Value, len(args))
	for i, a := range args {
		argv[i] = zpy.StrVal(a)
	}
	ip.Global.Define("argv", zpy.NewList(argv))

	prog, perrs := zpy.ParseSource(string(src))
	// Parse errors are reported per statement; statements that did
	// parse still run.
	for _, pe := range perrs {
		fmt.Fprintln(os.Stderr, red(zpy.WrapErrorWithName(pe, file, string(src)).Error()))
	}

	if _, rerr := ip.Run(prog); rerr != nil {
		fmt.Fprintln(os.Stderr, red(zpy.WrapErrorWithName(rerr, file, string(src)).Error()))
		return 1
	}
	if len(perrs) > 0 {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := env.Str("ZPY_HISTORY", filepath.Join(home, historyFile))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := zpy.NewInterpreter()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.ToLower(trimmed) == ":quit" {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		prog, perrs := zpy.ParseSource(code)
		for _, pe := range perrs {
			fmt.Fprintln(os.Stderr, red(pe.Error()))
		}

		v, err := ip.Run(prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		} else if len(perrs) == 0 && v.Tag != zpy.VTNone {
			fmt.Println(blue(zpy.Repr(v)))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe collects lines until the accumulated source parses,
// or fails with an error that is not an incomplete-input error. A block
// opener like "if x:" keeps the continuation prompt up until the body
// arrives.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		inBlock := b.Len() > 0
		if inBlock {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		// Inside a block, only a blank line ends input. This lets a
		// body span several statements the way script files do.
		if inBlock && strings.TrimSpace(line) != "" {
			continue
		}

		src := b.String()
		_, perrs := zpy.ParseSource(src)
		if len(perrs) == 0 {
			return src, true
		}
		incomplete := true
		for _, pe := range perrs {
			if !zpy.IsIncomplete(pe) {
				incomplete = false
			}
		}
		if incomplete {
			continue
		}
		return src, true
	}
}
