package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mellow-lang/mellowc/pkg/asm"
	"github.com/mellow-lang/mellowc/pkg/asmgen"
	"github.com/mellow-lang/mellowc/pkg/cfg"
	"github.com/mellow-lang/mellowc/pkg/lexer"
	"github.com/mellow-lang/mellowc/pkg/parser"
	"github.com/mellow-lang/mellowc/pkg/peephole"
	"github.com/mellow-lang/mellowc/pkg/regalloc"
	"github.com/mellow-lang/mellowc/pkg/symtab"
	"github.com/mellow-lang/mellowc/pkg/tac"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var dumpAST, dumpSt, dumpCFG, dumpTAC bool

	rootCmd := &cobra.Command{
		Use:   "mellowc [file]",
		Short: "mellowc compiles Mellow source to x86-64 assembly",
		Long: `mellowc compiles a Mellow program through lexing, parsing, type
checking, control flow construction, three-address code lowering,
register allocation, and instruction selection, emitting NASM-syntax
x86-64 assembly on standard output.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "source.mellow"
			if len(args) == 1 {
				filename = args[0]
			}
			return compile(filename, out, errOut, dumpFlags{ast: dumpAST, st: dumpSt, cfg: dumpCFG, tac: dumpTAC})
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&dumpAST, "ast", false, "dump the AST after parsing")
	rootCmd.Flags().BoolVar(&dumpSt, "st", false, "dump the symbol table")
	rootCmd.Flags().BoolVar(&dumpCFG, "cfg", false, "dump the control flow graph")
	rootCmd.Flags().BoolVar(&dumpTAC, "tac", false, "dump the three-address code")

	return rootCmd
}

// dumpFlags selects which intermediate representations compile writes to
// errOut on its way to assembly. Any subset may be set; compilation always
// runs to completion regardless of which are requested.
type dumpFlags struct {
	ast, st, cfg, tac bool
}

// compile runs the full pipeline over filename: lex, parse, check, lower to
// a control flow graph, lower to three-address code, allocate registers,
// select instructions, optimize, and print assembly to out. Diagnostics for
// any recoverable error go to errOut; the error itself is also returned so
// the caller can set the process exit code.
func compile(filename string, out, errOut io.Writer, dump dumpFlags) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "mellowc: %v\n", err)
		return err
	}

	body, err := parser.Parse(lexer.New(string(content)))
	if err != nil {
		fmt.Fprintf(errOut, "mellowc: %v\n", err)
		return err
	}
	if dump.ast {
		dumpBody(errOut, body)
	}

	table, err := symtab.Construct(body)
	if err != nil {
		fmt.Fprintf(errOut, "mellowc: %v\n", err)
		return err
	}
	if dump.st {
		dumpTable(errOut, table)
	}

	graph := cfg.Construct(body)
	if dump.cfg {
		dumpGraph(errOut, graph)
	}

	instructions, err := tac.Construct(graph)
	if err != nil {
		fmt.Fprintf(errOut, "mellowc: %v\n", err)
		return err
	}
	if dump.tac {
		dumpInstructions(errOut, instructions)
	}

	registers, err := regalloc.Allocate(instructions)
	if err != nil {
		fmt.Fprintf(errOut, "mellowc: %v\n", err)
		return err
	}

	program := asmgen.Transform(instructions, registers, table.Names())
	program.Instructions = peephole.Optimize(program.Instructions)

	asm.NewPrinter(out).PrintProgram(program)
	return nil
}
