// Package asm defines the x86-64 assembly representation this compiler
// emits: registers, operands, and the small instruction set produced by
// instruction selection and consumed by the peephole optimizer and
// printer.
package asm

import "fmt"

// RegisterKind names one of the sixteen general-purpose x86-64 registers
// by its canonical (qword) identity, independent of operand width.
type RegisterKind int

const (
	A RegisterKind = iota
	B
	C
	D
	Sp
	Bp
	Si
	Di
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

// All lists every register kind, allocable or not.
func All() []RegisterKind {
	return []RegisterKind{A, B, C, D, Sp, Bp, Si, Di, R8, R9, R10, R11, R12, R13, R14, R15}
}

// Allocable lists the register kinds the allocator may assign to
// temporaries. A, D, Sp, and Bp are excluded: A and D are clobbered by
// idiv/cqo, Sp and Bp hold the stack and frame pointers.
func Allocable() []RegisterKind {
	return []RegisterKind{B, C, Si, Di, R8, R9, R10, R11, R12, R13, R14, R15}
}

// Size is an operand width in bits.
type Size int

const (
	Byte  Size = 8
	Word  Size = 16
	Dword Size = 32
	Qword Size = 64
)

// Register is a register reference at a specific operand width.
type Register struct {
	Kind RegisterKind
	Size Size
}

// NewRegister builds a Register of the given kind and width.
func NewRegister(kind RegisterKind, size Size) Register {
	return Register{Kind: kind, Size: size}
}

func (r Register) String() string {
	name := [...]string{"a", "b", "c", "d", "sp", "bp", "si", "di",
		"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}[r.Kind]

	var prefix, suffix string
	switch r.Kind {
	case A, B, C, D:
		switch r.Size {
		case Byte:
			suffix = "l"
		case Word:
			suffix = "x"
		case Dword:
			prefix, suffix = "e", "x"
		case Qword:
			prefix, suffix = "r", "x"
		}
	case Sp, Bp, Si, Di:
		switch r.Size {
		case Byte:
			suffix = "l"
		case Word:
			// 16-bit name has neither prefix nor suffix
		case Dword:
			prefix = "e"
		case Qword:
			prefix = "r"
		}
	default: // R8-R15
		switch r.Size {
		case Byte:
			suffix = "b"
		case Word:
			suffix = "w"
		case Dword:
			suffix = "d"
		case Qword:
			// bare r8..r15 is already the 64-bit name
		}
	}
	return fmt.Sprintf("%s%s%s", prefix, name, suffix)
}

// Operand is anything an instruction can read or write: a register, a
// memory reference, or an immediate.
type Operand interface {
	implOperand()
	fmt.Stringer
}

// Reg wraps a Register as an Operand.
type Reg struct{ Register Register }

func (Reg) implOperand()   {}
func (r Reg) String() string { return r.Register.String() }

// Mem is a direct memory reference by symbol name, e.g. a `.bss` variable
// slot: `[name]`.
type Mem struct{ Name string }

func (Mem) implOperand()   {}
func (m Mem) String() string { return fmt.Sprintf("[%s]", m.Name) }

// Imm is an integer immediate operand.
type Imm struct{ Value int64 }

func (Imm) implOperand()   {}
func (i Imm) String() string { return fmt.Sprintf("%d", i.Value) }

// Instruction is one x86-64 instruction in the emitted stream.
type Instruction interface {
	implInstruction()
}

// Label marks block entry point i as a jump target: `_i:`.
type Label struct{ ID int }

func (Label) implInstruction() {}

// Mov is `mov to, from`.
type Mov struct{ To, From Operand }

func (Mov) implInstruction() {}

// Cmp is `cmp first, second`.
type Cmp struct{ First, Second Operand }

func (Cmp) implInstruction() {}

// Add is `add to, value`, destructively modifying To.
type Add struct{ To, Value Operand }

func (Add) implInstruction() {}

// Sub is `sub to, value`, destructively modifying To.
type Sub struct{ To, Value Operand }

func (Sub) implInstruction() {}

// Imul is `imul to, value`, destructively modifying To.
type Imul struct{ To, Value Operand }

func (Imul) implInstruction() {}

// Idiv is `idiv divisor`; it divides rdx:rax by Divisor, leaving the
// quotient in rax and the remainder in rdx.
type Idiv struct{ Divisor Operand }

func (Idiv) implInstruction() {}

// Cqo is `cqo`: sign-extends rax into rdx:rax ahead of idiv.
type Cqo struct{}

func (Cqo) implInstruction() {}

// Sete is `sete dst`: sets dst to 1 if the prior cmp found equality.
type Sete struct{ To Operand }

func (Sete) implInstruction() {}

// Setg is `setg dst`: sets dst to 1 if the prior cmp found greater-than.
type Setg struct{ To Operand }

func (Setg) implInstruction() {}

// Setl is `setl dst`: sets dst to 1 if the prior cmp found less-than.
type Setl struct{ To Operand }

func (Setl) implInstruction() {}

// Jmp is `jmp _to`: an unconditional jump to block to.
type Jmp struct{ To int }

func (Jmp) implInstruction() {}

// Je is `je _to`: a jump to block to taken when the prior cmp found
// equality.
type Je struct{ To int }

func (Je) implInstruction() {}

// Call is `call label`, invoking an external function.
type Call struct{ Label string }

func (Call) implInstruction() {}

// Lea is `lea to, [label]`, loading the address of a `.data` symbol (used
// for string literals).
type Lea struct {
	To    Operand
	Label string
}

func (Lea) implInstruction() {}
