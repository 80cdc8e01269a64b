// Package asmgen selects x86-64 instructions for a three-address-code
// program, given a completed register allocation, and assembles the
// result into a printable asm.Program.
package asmgen

import (
	"fmt"

	"github.com/mellow-lang/mellowc/pkg/asm"
	"github.com/mellow-lang/mellowc/pkg/tac"
)

// selector carries the state built up while walking a TAC instruction
// stream: the chosen register for each temporary, the string literals
// collected so far, and the distinct external symbols called.
type selector struct {
	registers map[int]asm.RegisterKind
	output    []asm.Instruction
	strings   []asm.StringLiteral
	labels    map[string]string
	externals []string
	seenExt   map[string]bool
}

// Transform lowers TAC into an x86-64 instruction stream and wraps it,
// along with the given variable slots, into a complete asm.Program ready
// for peephole optimization and printing.
func Transform(instructions []tac.Instruction, registers map[int]asm.RegisterKind, variables []string) *asm.Program {
	s := &selector{
		registers: registers,
		labels:    make(map[string]string),
		seenExt:   make(map[string]bool),
	}
	for _, instr := range instructions {
		s.instruction(instr)
	}
	return &asm.Program{
		Variables:    variables,
		Strings:      s.strings,
		Externals:    s.externals,
		Instructions: s.output,
	}
}

func (s *selector) push(instr asm.Instruction) {
	s.output = append(s.output, instr)
}

func (s *selector) reg(id int, size asm.Size) asm.Operand {
	return asm.Reg{Register: asm.NewRegister(s.registers[id], size)}
}

// stringLabel returns the `.data` label for a string literal, allocating
// and recording a fresh one the first time value is seen.
func (s *selector) stringLabel(value string) string {
	if label, ok := s.labels[value]; ok {
		return label
	}
	label := fmt.Sprintf("str_%d", len(s.strings))
	s.labels[value] = label
	s.strings = append(s.strings, asm.StringLiteral{Label: label, Value: value})
	return label
}

func (s *selector) external(name string) {
	if s.seenExt[name] {
		return
	}
	s.seenExt[name] = true
	s.externals = append(s.externals, name)
}

func (s *selector) instruction(instr tac.Instruction) {
	switch i := instr.(type) {
	case tac.Label:
		s.push(asm.Label{ID: i.ID})
	case tac.Integer:
		s.push(asm.Mov{To: s.reg(i.To, asm.Qword), From: asm.Imm{Value: i.Value}})
	case tac.Get:
		s.push(asm.Mov{To: s.reg(i.To, asm.Qword), From: asm.Mem{Name: i.Name}})
	case tac.Set:
		s.push(asm.Mov{To: asm.Mem{Name: i.Name}, From: s.reg(i.From, asm.Qword)})
	case tac.String:
		label := s.stringLabel(i.Value)
		s.push(asm.Lea{To: s.reg(i.To, asm.Qword), Label: label})
	case tac.Add:
		s.binaryArith(i.To, i.Left, i.Right, func(to, value asm.Operand) asm.Instruction {
			return asm.Add{To: to, Value: value}
		})
	case tac.Subtract:
		s.binaryArith(i.To, i.Left, i.Right, func(to, value asm.Operand) asm.Instruction {
			return asm.Sub{To: to, Value: value}
		})
	case tac.Multiply:
		s.binaryArith(i.To, i.Left, i.Right, func(to, value asm.Operand) asm.Instruction {
			return asm.Imul{To: to, Value: value}
		})
	case tac.Divide:
		s.divide(i.To, i.Left, i.Right)
	case tac.Greater:
		s.compare(i.To, i.Left, i.Right, func(to asm.Operand) asm.Instruction { return asm.Setg{To: to} })
	case tac.Less:
		s.compare(i.To, i.Left, i.Right, func(to asm.Operand) asm.Instruction { return asm.Setl{To: to} })
	case tac.Equal:
		s.compare(i.To, i.Left, i.Right, func(to asm.Operand) asm.Instruction { return asm.Sete{To: to} })
	case tac.Jump:
		s.push(asm.Jmp{To: i.To})
	case tac.JumpIf:
		s.push(asm.Cmp{First: s.reg(i.Condition, asm.Qword), Second: asm.Imm{Value: 1}})
		s.push(asm.Je{To: i.To})
	case tac.Call:
		s.push(asm.Mov{To: asm.Reg{Register: asm.NewRegister(asm.Di, asm.Qword)}, From: s.reg(i.Value, asm.Qword)})
		s.push(asm.Call{Label: i.Label})
		s.external(i.Label)
	default:
		panic(fmt.Sprintf("asmgen: unhandled TAC instruction %T", instr))
	}
}

// binaryArith lowers a destructive two-operand arithmetic op: apply it to
// the left operand's register, then copy the result into the destination
// register.
func (s *selector) binaryArith(to, left, right int, op func(to, value asm.Operand) asm.Instruction) {
	s.push(op(s.reg(left, asm.Qword), s.reg(right, asm.Qword)))
	s.push(asm.Mov{To: s.reg(to, asm.Qword), From: s.reg(left, asm.Qword)})
}

// divide lowers integer division through rax:rdx, per the System V
// convention idiv requires: the dividend sign-extended into rdx by cqo,
// the quotient left in rax.
func (s *selector) divide(to, left, right int) {
	s.push(asm.Mov{To: asm.Reg{Register: asm.NewRegister(asm.A, asm.Qword)}, From: s.reg(left, asm.Qword)})
	s.push(asm.Cqo{})
	s.push(asm.Idiv{Divisor: s.reg(right, asm.Qword)})
	s.push(asm.Mov{To: s.reg(to, asm.Qword), From: asm.Reg{Register: asm.NewRegister(asm.A, asm.Qword)}})
}

// compare lowers a comparison: cmp the two operands, zero the destination
// register, then set its low byte from the flags with the given setcc.
func (s *selector) compare(to, left, right int, setcc func(to asm.Operand) asm.Instruction) {
	s.push(asm.Cmp{First: s.reg(left, asm.Qword), Second: s.reg(right, asm.Qword)})
	s.push(asm.Mov{To: s.reg(to, asm.Qword), From: asm.Imm{Value: 0}})
	s.push(setcc(s.reg(to, asm.Byte)))
}
