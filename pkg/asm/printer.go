package asm

import (
	"fmt"
	"io"
)

// StringLiteral is one string constant placed in `.data`.
type StringLiteral struct {
	Label string
	Value string
}

// Program is a complete assembly unit ready for printing: the variable
// slots backing named Mellow variables, the string literals collected
// during instruction selection, the external symbols called from the
// program, and the optimized instruction stream.
type Program struct {
	Variables    []string
	Strings      []StringLiteral
	Externals    []string
	Instructions []Instruction
}

// Printer renders a Program as NASM-syntax x86-64 assembly for Linux.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new assembly printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram writes the full assembly text for prog: .data, .bss,
// .text, the instruction stream, and the fixed process-exit epilogue.
func (p *Printer) PrintProgram(prog *Program) {
	if len(prog.Strings) > 0 {
		fmt.Fprintln(p.w, "section .data")
		for _, s := range prog.Strings {
			p.printStringData(s)
		}
		fmt.Fprintln(p.w)
	}

	if len(prog.Variables) > 0 {
		fmt.Fprintln(p.w, "section .bss")
		for _, name := range prog.Variables {
			fmt.Fprintf(p.w, "%s: resq 1\n", name)
		}
		fmt.Fprintln(p.w)
	}

	fmt.Fprintln(p.w, "section .text")
	fmt.Fprintln(p.w, "global _start")
	for _, name := range prog.Externals {
		fmt.Fprintf(p.w, "extern %s\n", name)
	}
	fmt.Fprintln(p.w, "_start:")

	for _, instr := range prog.Instructions {
		p.printInstruction(instr)
	}

	p.printEpilogue()
}

// printStringData emits a NASM `db` directive for a single string
// literal, NUL-terminated so C-style external functions can consume it.
func (p *Printer) printStringData(s StringLiteral) {
	fmt.Fprintf(p.w, "%s: db ", s.Label)
	if len(s.Value) == 0 {
		fmt.Fprintln(p.w, "0")
		return
	}
	for _, b := range []byte(s.Value) {
		fmt.Fprintf(p.w, "%d, ", b)
	}
	fmt.Fprintln(p.w, "0")
}

func (p *Printer) printEpilogue() {
	fmt.Fprintln(p.w, "mov rax, 60")
	fmt.Fprintln(p.w, "mov rdi, 0")
	fmt.Fprintln(p.w, "syscall")
}

func (p *Printer) printInstruction(instr Instruction) {
	switch i := instr.(type) {
	case Label:
		fmt.Fprintf(p.w, "_%d:\n", i.ID)
	case Mov:
		fmt.Fprintf(p.w, "mov %s, %s\n", i.To, i.From)
	case Cmp:
		fmt.Fprintf(p.w, "cmp %s, %s\n", i.First, i.Second)
	case Add:
		fmt.Fprintf(p.w, "add %s, %s\n", i.To, i.Value)
	case Sub:
		fmt.Fprintf(p.w, "sub %s, %s\n", i.To, i.Value)
	case Imul:
		fmt.Fprintf(p.w, "imul %s, %s\n", i.To, i.Value)
	case Idiv:
		fmt.Fprintf(p.w, "idiv %s\n", i.Divisor)
	case Cqo:
		fmt.Fprintln(p.w, "cqo")
	case Sete:
		fmt.Fprintf(p.w, "sete %s\n", i.To)
	case Setg:
		fmt.Fprintf(p.w, "setg %s\n", i.To)
	case Setl:
		fmt.Fprintf(p.w, "setl %s\n", i.To)
	case Jmp:
		fmt.Fprintf(p.w, "jmp _%d\n", i.To)
	case Je:
		fmt.Fprintf(p.w, "je _%d\n", i.To)
	case Call:
		fmt.Fprintf(p.w, "call %s\n", i.Label)
	case Lea:
		fmt.Fprintf(p.w, "lea %s, [%s]\n", i.To, i.Label)
	default:
		panic(fmt.Sprintf("asm: unhandled instruction %T", instr))
	}
}
