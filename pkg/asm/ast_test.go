package asm

import "testing"

func TestRegisterString(t *testing.T) {
	tests := []struct {
		reg  Register
		want string
	}{
		{NewRegister(A, Byte), "al"},
		{NewRegister(A, Word), "ax"},
		{NewRegister(A, Dword), "eax"},
		{NewRegister(A, Qword), "rax"},
		{NewRegister(B, Qword), "rbx"},
		{NewRegister(D, Qword), "rdx"},
		{NewRegister(Sp, Byte), "spl"},
		{NewRegister(Sp, Word), "sp"},
		{NewRegister(Sp, Dword), "esp"},
		{NewRegister(Sp, Qword), "rsp"},
		{NewRegister(Bp, Qword), "rbp"},
		{NewRegister(Si, Qword), "rsi"},
		{NewRegister(Di, Qword), "rdi"},
		{NewRegister(R8, Byte), "r8b"},
		{NewRegister(R8, Word), "r8w"},
		{NewRegister(R8, Dword), "r8d"},
		{NewRegister(R8, Qword), "r8"},
		{NewRegister(R15, Qword), "r15"},
	}
	for _, tt := range tests {
		if got := tt.reg.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.reg, got, tt.want)
		}
	}
}

func TestAllocableExcludesClobberedAndFrameRegisters(t *testing.T) {
	excluded := map[RegisterKind]bool{A: true, D: true, Sp: true, Bp: true}
	for _, r := range Allocable() {
		if excluded[r] {
			t.Errorf("Allocable() included excluded register kind %v", r)
		}
	}
	if len(Allocable()) != len(All())-len(excluded) {
		t.Errorf("Allocable() has %d entries, want %d", len(Allocable()), len(All())-len(excluded))
	}
}

func TestInstructionInterface(t *testing.T) {
	var _ Instruction = Label{}
	var _ Instruction = Mov{}
	var _ Instruction = Cmp{}
	var _ Instruction = Add{}
	var _ Instruction = Sub{}
	var _ Instruction = Imul{}
	var _ Instruction = Idiv{}
	var _ Instruction = Cqo{}
	var _ Instruction = Sete{}
	var _ Instruction = Setg{}
	var _ Instruction = Setl{}
	var _ Instruction = Jmp{}
	var _ Instruction = Je{}
	var _ Instruction = Call{}
	var _ Instruction = Lea{}
}

func TestOperandString(t *testing.T) {
	tests := []struct {
		op   Operand
		want string
	}{
		{Reg{Register: NewRegister(A, Qword)}, "rax"},
		{Mem{Name: "x"}, "[x]"},
		{Imm{Value: 42}, "42"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
