// Command strongarm runs the ARM64 function analyzer over a flat file of
// raw machine code, standing in for Mach-O text section extraction, which
// a real deployment would supply via its own binaryio.Reader.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/strongarm-go/strongarm"
	"github.com/strongarm-go/strongarm/binaryio"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut, stdErr io.Writer) int {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "Prints usage.")
	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		return 0
	}

	subCmd := flag.Arg(0)
	args := flag.Args()[1:]
	switch subCmd {
	case "calls":
		return doCalls(args, stdOut, stdErr)
	case "search":
		return doSearch(args, stdOut, stdErr)
	case "blockinvoke":
		return doBlockInvoke(args, stdOut, stdErr)
	default:
		fmt.Fprintln(stdErr, "invalid command")
		printUsage(stdErr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "strongarm is a static ARM64 function analyzer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "usage: strongarm <command> -code <path> -base <hex> -addr <hex> [flags]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  calls        list branches reachable from a function")
	fmt.Fprintln(w, "  search       search a function's instructions by predicate")
	fmt.Fprintln(w, "  blockinvoke  locate a block trampoline's invoke call")
}

// newContext loads -code as a flat byte blob mapped starting at -base and
// returns an AnalyzerContext over it. There is no symbol table without a
// real Mach-O reader, so branch classification never resolves external
// symbol names in this CLI.
func newContext(flags *flag.FlagSet, args []string) (*strongarm.AnalyzerContext, uint64, error) {
	codePath := flags.String("code", "", "path to a flat file of raw ARM64 machine code")
	base := flags.Uint64("base", 0, "virtual address the first byte of -code is mapped at")
	addr := flags.Uint64("addr", 0, "virtual address of the function to analyze")
	if err := flags.Parse(args); err != nil {
		return nil, 0, err
	}
	if *codePath == "" {
		return nil, 0, fmt.Errorf("missing -code")
	}

	code, err := os.ReadFile(*codePath)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", *codePath, err)
	}

	reader := binaryio.Reader(flatReader{base: *base, code: code})
	ctx := strongarm.NewAnalyzerContext(reader, nil, strongarm.NewAnalyzerConfig())
	return ctx, *addr, nil
}

func doCalls(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("calls", flag.ContinueOnError)
	flags.SetOutput(stdErr)

	ctx, addr, err := newContext(flags, args)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	f, err := ctx.ForFunction(addr)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	for _, branch := range f.CallTargets() {
		fmt.Fprintf(stdOut, "%#x: %s", branch.Address, branch.RawInstruction().Mnemonic)
		if branch.HasDestination {
			fmt.Fprintf(stdOut, " -> %#x", branch.DestinationAddress)
		}
		if branch.HasSymbol {
			fmt.Fprintf(stdOut, " (%s)", branch.SymbolName)
		}
		fmt.Fprintln(stdOut)
	}
	return 0
}

func doSearch(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("search", flag.ContinueOnError)
	flags.SetOutput(stdErr)
	mnemonic := flags.String("mnemonic", "", "match instructions with this mnemonic")

	ctx, addr, err := newContext(flags, args)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}
	if *mnemonic == "" {
		fmt.Fprintln(stdErr, "missing -mnemonic")
		return 1
	}

	f, err := ctx.ForFunction(addr)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	search, err := strongarm.NewCodeSearch(strongarm.MatchAny,
		strongarm.InstructionMnemonic{Allow: []string{*mnemonic}})
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	for _, result := range strongarm.SearchCode(f, search) {
		fmt.Fprintf(stdOut, "%#x: %s\n", result.Instruction.Address, result.Instruction.Mnemonic)
	}
	return 0
}

func doBlockInvoke(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("blockinvoke", flag.ContinueOnError)
	flags.SetOutput(stdErr)
	reg := flags.String("reg", "x0", "register holding the incoming block pointer")

	ctx, addr, err := newContext(flags, args)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	ba, err := ctx.BlockAnalyzerFor(addr, *reg)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	instr, idx, err := strongarm.FindBlockInvoke(ba)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}
	fmt.Fprintf(stdOut, "block invoke at index %d, address %#x (%s)\n", idx, instr.Address, instr.Mnemonic)
	return 0
}

// flatReader is a minimal binaryio.Reader over an in-memory byte slice
// mapped starting at a fixed base address, for use without a Mach-O
// parser. ReadBytes stops at the end of the slice.
type flatReader struct {
	base uint64
	code []byte
}

func (r flatReader) ReadBytes(addr uint64, n int) ([]byte, error) {
	if !r.ContainsAddress(addr) {
		return nil, fmt.Errorf("address %#x out of bounds", addr)
	}
	off := addr - r.base
	end := off + uint64(n)
	if end > uint64(len(r.code)) {
		end = uint64(len(r.code))
	}
	return r.code[off:end], nil
}

func (flatReader) ReadStringAt(uint64) (string, error) {
	return "", fmt.Errorf("flatReader: string reads unsupported")
}

func (flatReader) SymbolNameAt(uint64) (string, bool) { return "", false }

func (r flatReader) ContainsAddress(addr uint64) bool {
	return addr >= r.base && addr < r.base+uint64(len(r.code))
}
