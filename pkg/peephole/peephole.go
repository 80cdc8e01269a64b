// Package peephole applies a small set of local rewrites to a selected
// x86-64 instruction stream: redundant self-moves, chained register
// copies, and jumps to the next instruction all cost nothing to remove
// and clutter every dump this compiler produces.
package peephole

import (
	"reflect"

	"github.com/mellow-lang/mellowc/pkg/asm"
)

// Optimize rewrites instructions in a single left-to-right pass:
//
//   - a Mov whose destination and source are the same operand is dropped.
//   - a register-to-register Mov immediately following another
//     register-to-register Mov is folded into it when the second's source
//     is the first's destination: `mov a,b; mov c,a` becomes `mov c,b`,
//     transitively, for however long the chain runs. The fold is
//     restricted to register operands throughout: a chain ending at a
//     memory destination keeps its register source, since NASM can't
//     size an immediate or memory operand moved straight into memory.
//   - a Jmp to the block label that immediately follows it is dropped.
//
// Each rewrite only looks at the instruction already emitted or the one
// directly ahead, so the whole pass is idempotent: running it again over
// its own output finds nothing left to rewrite.
func Optimize(instructions []asm.Instruction) []asm.Instruction {
	out := make([]asm.Instruction, 0, len(instructions))
	for i, instr := range instructions {
		if mov, ok := instr.(asm.Mov); ok {
			if operandsEqual(mov.To, mov.From) {
				continue
			}
			if len(out) > 0 {
				if prev, ok := out[len(out)-1].(asm.Mov); ok && isReg(prev.From) && isReg(prev.To) && isReg(mov.To) && operandsEqual(mov.From, prev.To) {
					folded := asm.Mov{To: mov.To, From: prev.From}
					if operandsEqual(folded.To, folded.From) {
						out = out[:len(out)-1]
					} else {
						out[len(out)-1] = folded
					}
					continue
				}
			}
		}

		if jmp, ok := instr.(asm.Jmp); ok && i+1 < len(instructions) {
			if label, ok := instructions[i+1].(asm.Label); ok && label.ID == jmp.To {
				continue
			}
		}

		out = append(out, instr)
	}
	return out
}

func operandsEqual(a, b asm.Operand) bool {
	return reflect.DeepEqual(a, b)
}

func isReg(o asm.Operand) bool {
	_, ok := o.(asm.Reg)
	return ok
}
