package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/remtori/luago/pkg/compiler/codegen"
	"github.com/remtori/luago/pkg/manifest"
	"github.com/remtori/luago/pkg/stdlib"
	"github.com/remtori/luago/pkg/vm"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("luago")

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: luago [run|build|exec] ...")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runScript()
	case "build":
		buildChunk()
	case "exec":
		execChunk()
	default:
		fmt.Println("Unknown command:", os.Args[1])
		os.Exit(1)
	}
}

func runScript() {
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	budget := runCmd.Int("budget", 0, "Maximum instruction count, 0 for unlimited")
	verbose := runCmd.Int("v", 0, "Log verbosity")

	path, rest := scriptArg()
	runCmd.Parse(rest)
	commonlog.Configure(*verbose, nil)

	path, b := resolveEntry(path, *budget)

	src, err := os.ReadFile(path)
	if err != nil {
		fail("reading %s: %v", path, err)
	}
	chunk, err := codegen.Compile(src)
	if err != nil {
		fail("compiling %s: %v", path, err)
	}
	log.Infof("compiled %s: %d instructions, %d constants", path, len(chunk.Instructions), len(chunk.Constants))

	if err := execute(chunk, b); err != nil {
		fail("%v", err)
	}
}

func buildChunk() {
	buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
	output := buildCmd.String("o", "", "Chunk output path")
	verbose := buildCmd.Int("v", 0, "Log verbosity")

	path, rest := scriptArg()
	buildCmd.Parse(rest)
	commonlog.Configure(*verbose, nil)

	out := *output
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fail("%v", err)
	}
	if m != nil {
		if path == "" {
			path = m.EntryPath()
		}
		if out == "" {
			out = m.OutputPath()
		}
	}
	if path == "" {
		fail("build: no script given and no luago.toml found")
	}
	if out == "" {
		out = path + "c"
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fail("reading %s: %v", path, err)
	}
	chunk, err := codegen.Compile(src)
	if err != nil {
		fail("compiling %s: %v", path, err)
	}
	data, err := vm.MarshalChunk(chunk)
	if err != nil {
		fail("encoding chunk: %v", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		fail("writing %s: %v", out, err)
	}
	log.Infof("wrote %s (%d bytes)", out, len(data))
}

func execChunk() {
	execCmd := flag.NewFlagSet("exec", flag.ExitOnError)
	budget := execCmd.Int("budget", 0, "Maximum instruction count, 0 for unlimited")
	verbose := execCmd.Int("v", 0, "Log verbosity")

	path, rest := scriptArg()
	execCmd.Parse(rest)
	commonlog.Configure(*verbose, nil)

	if path == "" {
		fail("exec: no chunk file given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fail("reading %s: %v", path, err)
	}
	chunk, err := vm.UnmarshalChunk(data)
	if err != nil {
		fail("loading %s: %v", path, err)
	}
	if err := execute(chunk, *budget); err != nil {
		fail("%v", err)
	}
}

// scriptArg splits the positional path (if any) from the flag arguments.
func scriptArg() (string, []string) {
	if len(os.Args) > 2 && len(os.Args[2]) > 0 && os.Args[2][0] != '-' {
		return os.Args[2], os.Args[3:]
	}
	return "", os.Args[2:]
}

// resolveEntry fills the script path and budget from luago.toml when the
// command line left them unset.
func resolveEntry(path string, budget int) (string, int) {
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fail("%v", err)
	}
	if m == nil {
		if path == "" {
			fail("run: no script given and no luago.toml found")
		}
		return path, budget
	}
	if path == "" {
		path = m.EntryPath()
	}
	if budget == 0 {
		budget = m.Run.Budget
	}
	return path, budget
}

// execute runs chunk with the base natives registered. A positive budget
// caps the instruction count by stepping the machine, per-instruction
// control the VM itself does not impose.
func execute(chunk *vm.Chunk, budget int) error {
	globals := vm.NewGlobals()
	stdlib.Register(globals, os.Stdout)

	m := vm.New(chunk, globals)
	if budget <= 0 {
		return m.Run()
	}
	for i := 0; i < budget; i++ {
		st, err := m.Step()
		if err != nil {
			return err
		}
		if st == vm.StateHalted {
			return nil
		}
	}
	return fmt.Errorf("instruction budget of %d exhausted", budget)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
