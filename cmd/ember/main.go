// cmd/ember/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"ember/internal/module"
	"ember/internal/value"
	"ember/internal/vmctx"
)

const version = "0.1.0"

// Command aliases, same shape as the teacher's cmd/sentra (aliases map,
// help/version handled before anything else).
var commandAliases = map[string]string{
	"c": "check",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Println("ember " + version)
	case "check":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: ember check <file>")
			os.Exit(1)
		}
		checkFile(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

// checkFile compiles file and reports success or the first compile error
// (spec §6's one CLI operation: read a file, compile it, exit 0/1 — no
// interpreter, REPL, or debugger here; those are out-of-scope external
// collaborators per §1).
func checkFile(file string) {
	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", file, err)
		os.Exit(1)
	}

	ctx := vmctx.NewContext()
	ctx.BootstrapClasses()

	name := value.NewString(ctx, ctx.StringClass, []byte(filepath.Base(file)))
	mod := value.NewModule(ctx, ctx.ModuleClass, name)

	if _, err := module.Compile(ctx, mod, file, source); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("%s: compiled OK (%s)\n", file, ctx.Stats())
}

func showUsage() {
	fmt.Println("ember - a minimal compiler front end")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ember check <file>    Compile a file and report success or the first error")
	fmt.Println("  ember version         Show version")
	fmt.Println("  ember help            Show this message")
}
