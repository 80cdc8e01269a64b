package regalloc

import (
	"sort"

	"github.com/mellow-lang/mellowc/pkg/asm"
	"github.com/mellow-lang/mellowc/pkg/compileerr"
	"github.com/mellow-lang/mellowc/pkg/tac"
)

// Allocate computes live ranges over instructions, builds the interference
// graph, and greedily colors it over the allocable x86-64 registers.
// Temporaries are visited in descending degree order, ties broken by
// ascending id for determinism. A temporary that cannot be colored fails
// with OutOfRegisters; memory spilling is out of scope.
func Allocate(instructions []tac.Instruction) (map[int]asm.RegisterKind, error) {
	lifetimes := Scan(instructions)
	graph := BuildInterferenceGraph(lifetimes)
	registers := asm.Allocable()

	ids := make([]int, 0, len(graph))
	for id := range graph {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		di, dj := graph.degree(ids[i]), graph.degree(ids[j])
		if di != dj {
			return di > dj
		}
		return ids[i] < ids[j]
	})

	allocated := make(map[int]asm.RegisterKind, len(ids))
	for _, id := range ids {
		used := make(map[asm.RegisterKind]bool)
		for neighbor := range graph[id] {
			if reg, ok := allocated[neighbor]; ok {
				used[reg] = true
			}
		}

		assigned := false
		for _, reg := range registers {
			if !used[reg] {
				allocated[id] = reg
				assigned = true
				break
			}
		}
		if !assigned {
			return nil, compileerr.OutOfRegisters(id)
		}
	}
	return allocated, nil
}
