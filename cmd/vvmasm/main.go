// vvmasm - assemble VVM assembly files into bytecode containers
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/xyproto/env/v2"

	"github.com/vvm-lang/vvm/manifest"
	"github.com/vvm-lang/vvm/pkg/bytecode"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("vvmasm")

func main() {
	output := flag.String("o", "", "Output file (default: input with .vvmc extension)")
	dump := flag.Bool("dump", false, "Print the assembled listing to stdout")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vvmasm [options] [file.vvm]\n\n")
		fmt.Fprintf(os.Stderr, "Assembles a VVM assembly file into a .vvmc bytecode container.\n")
		fmt.Fprintf(os.Stderr, "With no file argument, the entry from the nearest vvm.toml is used.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  VVMASM_OUTPUT  Override the output path\n")
		fmt.Fprintf(os.Stderr, "  VVMASM_DUMP    Print the listing (same as -dump)\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	input, out, dumpListing, err := resolvePaths(flag.Args(), *output, *dump)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vvmasm: %v\n", err)
		os.Exit(1)
	}

	if err := assembleFile(input, out, dumpListing); err != nil {
		fmt.Fprintf(os.Stderr, "vvmasm: %v\n", err)
		os.Exit(1)
	}
}

// resolvePaths decides the input and output paths from the command line, the
// environment, and the project manifest, in that order of precedence.
func resolvePaths(args []string, output string, dump bool) (in, out string, dumpListing bool, err error) {
	dumpListing = dump || env.Bool("VVMASM_DUMP")
	out = env.Str("VVMASM_OUTPUT", output)

	if len(args) > 1 {
		return "", "", false, fmt.Errorf("expected at most one input file, got %d", len(args))
	}

	if len(args) == 1 {
		in = args[0]
		if out == "" {
			out = replaceExt(in, ".vvmc")
		}
		return in, out, dumpListing, nil
	}

	// No input file: fall back to the project manifest.
	cwd, err := os.Getwd()
	if err != nil {
		return "", "", false, err
	}
	m, err := manifest.FindAndLoad(cwd)
	if err != nil {
		return "", "", false, err
	}
	if m == nil {
		return "", "", false, fmt.Errorf("no input file and no vvm.toml found")
	}
	if m.Source.Entry == "" {
		return "", "", false, fmt.Errorf("no input file and vvm.toml has no source entry")
	}

	log.Infof("using manifest %s", filepath.Join(m.Dir, "vvm.toml"))

	in = m.EntryPath()
	if out == "" {
		out = m.OutputPath()
	}
	dumpListing = dumpListing || m.Output.Dump
	return in, out, dumpListing, nil
}

// assembleFile assembles one source file and writes the bytecode container.
func assembleFile(input, output string, dump bool) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", input, err)
	}

	log.Infof("assembling %s", input)

	prog, err := bytecode.Assemble(string(src), dump)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	data, err := bytecode.MarshalProgram(prog)
	if err != nil {
		return fmt.Errorf("cannot encode %s: %w", output, err)
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", output, err)
	}

	log.Infof("wrote %s (%d words, %d bytes)", output, len(prog.Instructions), len(data))
	return nil
}

func replaceExt(path, ext string) string {
	old := filepath.Ext(path)
	return strings.TrimSuffix(path, old) + ext
}
