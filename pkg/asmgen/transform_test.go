package asmgen

import (
	"testing"

	"github.com/mellow-lang/mellowc/pkg/asm"
	"github.com/mellow-lang/mellowc/pkg/tac"
)

func TestTransformIntegerAndSet(t *testing.T) {
	registers := map[int]asm.RegisterKind{0: asm.B}
	instructions := []tac.Instruction{
		tac.Integer{To: 0, Value: 7},
		tac.Set{Name: "a", From: 0},
	}
	prog := Transform(instructions, registers, []string{"a"})

	if len(prog.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(prog.Instructions))
	}
	mov, ok := prog.Instructions[0].(asm.Mov)
	if !ok {
		t.Fatalf("expected Mov, got %T", prog.Instructions[0])
	}
	if imm, ok := mov.From.(asm.Imm); !ok || imm.Value != 7 {
		t.Errorf("expected immediate 7, got %#v", mov.From)
	}
	set, ok := prog.Instructions[1].(asm.Mov)
	if !ok {
		t.Fatalf("expected Mov for Set, got %T", prog.Instructions[1])
	}
	if mem, ok := set.To.(asm.Mem); !ok || mem.Name != "a" {
		t.Errorf("expected memory destination 'a', got %#v", set.To)
	}
}

func TestTransformAddFoldsIntoLeftThenCopies(t *testing.T) {
	registers := map[int]asm.RegisterKind{0: asm.B, 1: asm.C, 2: asm.Si}
	instructions := []tac.Instruction{tac.Add{To: 2, Left: 0, Right: 1}}
	prog := Transform(instructions, registers, nil)

	if len(prog.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(prog.Instructions))
	}
	add, ok := prog.Instructions[0].(asm.Add)
	if !ok {
		t.Fatalf("expected Add, got %T", prog.Instructions[0])
	}
	if add.To.String() != "rbx" || add.Value.String() != "rcx" {
		t.Errorf("expected add rbx, rcx, got add %s, %s", add.To, add.Value)
	}
	mov, ok := prog.Instructions[1].(asm.Mov)
	if !ok || mov.To.String() != "rsi" || mov.From.String() != "rbx" {
		t.Fatalf("expected mov rsi, rbx, got %#v", prog.Instructions[1])
	}
}

func TestTransformDivideUsesRaxRdxCqo(t *testing.T) {
	registers := map[int]asm.RegisterKind{0: asm.B, 1: asm.C, 2: asm.Si}
	instructions := []tac.Instruction{tac.Divide{To: 2, Left: 0, Right: 1}}
	prog := Transform(instructions, registers, nil)

	if len(prog.Instructions) != 4 {
		t.Fatalf("expected 4 instructions, got %d", len(prog.Instructions))
	}
	if mov, ok := prog.Instructions[0].(asm.Mov); !ok || mov.To.String() != "rax" {
		t.Fatalf("expected mov rax, rbx first, got %#v", prog.Instructions[0])
	}
	if _, ok := prog.Instructions[1].(asm.Cqo); !ok {
		t.Fatalf("expected Cqo second, got %T", prog.Instructions[1])
	}
	idiv, ok := prog.Instructions[2].(asm.Idiv)
	if !ok || idiv.Divisor.String() != "rcx" {
		t.Fatalf("expected idiv rcx third, got %#v", prog.Instructions[2])
	}
	if mov, ok := prog.Instructions[3].(asm.Mov); !ok || mov.From.String() != "rax" {
		t.Fatalf("expected mov rsi, rax last, got %#v", prog.Instructions[3])
	}
}

func TestTransformComparisonZeroesThenSets(t *testing.T) {
	registers := map[int]asm.RegisterKind{0: asm.B, 1: asm.C, 2: asm.Si}
	instructions := []tac.Instruction{tac.Greater{To: 2, Left: 0, Right: 1}}
	prog := Transform(instructions, registers, nil)

	if len(prog.Instructions) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(prog.Instructions))
	}
	if _, ok := prog.Instructions[0].(asm.Cmp); !ok {
		t.Fatalf("expected Cmp first, got %T", prog.Instructions[0])
	}
	if mov, ok := prog.Instructions[1].(asm.Mov); !ok || mov.From.(asm.Imm).Value != 0 {
		t.Fatalf("expected mov reg, 0 second, got %#v", prog.Instructions[1])
	}
	setg, ok := prog.Instructions[2].(asm.Setg)
	if !ok || setg.To.String() != "sil" {
		t.Fatalf("expected setg sil third, got %#v", prog.Instructions[2])
	}
}

func TestTransformJumpIf(t *testing.T) {
	registers := map[int]asm.RegisterKind{0: asm.B}
	instructions := []tac.Instruction{tac.JumpIf{Condition: 0, To: 3}}
	prog := Transform(instructions, registers, nil)

	if len(prog.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(prog.Instructions))
	}
	cmp, ok := prog.Instructions[0].(asm.Cmp)
	if !ok || cmp.Second.(asm.Imm).Value != 1 {
		t.Fatalf("expected cmp reg, 1 first, got %#v", prog.Instructions[0])
	}
	je, ok := prog.Instructions[1].(asm.Je)
	if !ok || je.To != 3 {
		t.Fatalf("expected je _3 second, got %#v", prog.Instructions[1])
	}
}

func TestTransformCallMovesValueToDiAndRecordsExternal(t *testing.T) {
	registers := map[int]asm.RegisterKind{0: asm.B}
	instructions := []tac.Instruction{tac.Call{Label: "debug_i64", Value: 0}}
	prog := Transform(instructions, registers, nil)

	if len(prog.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(prog.Instructions))
	}
	mov, ok := prog.Instructions[0].(asm.Mov)
	if !ok || mov.To.String() != "rdi" {
		t.Fatalf("expected mov rdi, ... first, got %#v", prog.Instructions[0])
	}
	call, ok := prog.Instructions[1].(asm.Call)
	if !ok || call.Label != "debug_i64" {
		t.Fatalf("expected call debug_i64 second, got %#v", prog.Instructions[1])
	}
	if len(prog.Externals) != 1 || prog.Externals[0] != "debug_i64" {
		t.Fatalf("expected externals [debug_i64], got %#v", prog.Externals)
	}
}

func TestTransformStringLiteralsDeduplicate(t *testing.T) {
	registers := map[int]asm.RegisterKind{0: asm.B, 1: asm.C}
	instructions := []tac.Instruction{
		tac.String{To: 0, Value: "hi"},
		tac.String{To: 1, Value: "hi"},
	}
	prog := Transform(instructions, registers, nil)

	if len(prog.Strings) != 1 {
		t.Fatalf("expected 1 deduplicated string literal, got %d", len(prog.Strings))
	}
	lea0, ok := prog.Instructions[0].(asm.Lea)
	if !ok {
		t.Fatalf("expected Lea, got %T", prog.Instructions[0])
	}
	lea1, ok := prog.Instructions[1].(asm.Lea)
	if !ok {
		t.Fatalf("expected Lea, got %T", prog.Instructions[1])
	}
	if lea0.Label != lea1.Label {
		t.Errorf("expected both string loads to share a label, got %q and %q", lea0.Label, lea1.Label)
	}
}

func TestTransformLabelPreservesID(t *testing.T) {
	prog := Transform([]tac.Instruction{tac.Label{ID: 5}}, nil, nil)
	label, ok := prog.Instructions[0].(asm.Label)
	if !ok || label.ID != 5 {
		t.Fatalf("expected Label{5}, got %#v", prog.Instructions[0])
	}
}
