// Package regalloc computes live ranges over a linear TAC instruction
// stream and greedily colors an interference graph over temporaries with
// the allocable x86-64 register set.
package regalloc

import "github.com/mellow-lang/mellowc/pkg/tac"

// Lifetime is the [start, end] index span of a temporary within a linear
// TAC instruction stream: the index of its defining instruction through
// the index of its last use.
type Lifetime struct {
	Start, End int
}

// overlaps reports whether one lifetime contains the other. This is the
// interference relation: containment, not simple range overlap.
func (a Lifetime) overlaps(b Lifetime) bool {
	return a.Start <= b.Start && b.End <= a.End
}

// Scan walks TAC in index order and computes the lifetime of every
// temporary: start is set at the instruction that defines it, end is set
// at the instruction that last uses it.
func Scan(instructions []tac.Instruction) map[int]Lifetime {
	start := make(map[int]int)
	lifetimes := make(map[int]Lifetime)

	begin := func(id, index int) {
		start[id] = index
	}
	use := func(id, index int) {
		lifetimes[id] = Lifetime{Start: start[id], End: index}
	}

	for index, instr := range instructions {
		switch i := instr.(type) {
		case tac.Add:
			begin(i.To, index)
			use(i.Left, index)
			use(i.Right, index)
		case tac.Subtract:
			begin(i.To, index)
			use(i.Left, index)
			use(i.Right, index)
		case tac.Multiply:
			begin(i.To, index)
			use(i.Left, index)
			use(i.Right, index)
		case tac.Divide:
			begin(i.To, index)
			use(i.Left, index)
			use(i.Right, index)
		case tac.Greater:
			begin(i.To, index)
			use(i.Left, index)
			use(i.Right, index)
		case tac.Less:
			begin(i.To, index)
			use(i.Left, index)
			use(i.Right, index)
		case tac.Equal:
			begin(i.To, index)
			use(i.Left, index)
			use(i.Right, index)
		case tac.JumpIf:
			use(i.Condition, index)
		case tac.Integer:
			begin(i.To, index)
		case tac.Get:
			begin(i.To, index)
		case tac.String:
			begin(i.To, index)
		case tac.Set:
			use(i.From, index)
		case tac.Call:
			use(i.Value, index)
		}
	}
	return lifetimes
}
