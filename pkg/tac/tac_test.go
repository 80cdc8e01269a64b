package tac

import (
	"testing"

	"github.com/mellow-lang/mellowc/pkg/ast"
	"github.com/mellow-lang/mellowc/pkg/cfg"
	"github.com/mellow-lang/mellowc/pkg/compileerr"
)

func TestConstructLowersLetAndDebug(t *testing.T) {
	body := ast.Body{
		ast.Let{Identifier: ast.Identifier{Name: "x"}, Value: ast.Integer{Value: 5}},
		ast.Debug{Value: ast.Identifier{Name: "x"}},
	}

	instructions, err := Construct(cfg.Construct(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Instruction{
		Label{ID: 0},
		Integer{To: 0, Value: 5},
		Set{Name: "x", From: 0},
		Get{To: 1, Name: "x"},
		Call{Label: "debug_i64", Value: 1},
		Label{ID: 1},
	}
	assertInstructions(t, instructions, want)
}

func TestConstructLowersArithmeticPrecedence(t *testing.T) {
	// 2 + 3 * 4
	expr := ast.Binary{
		Kind: ast.Add,
		Left: ast.Integer{Value: 2},
		Right: ast.Binary{
			Kind:  ast.Multiply,
			Left:  ast.Integer{Value: 3},
			Right: ast.Integer{Value: 4},
		},
	}
	body := ast.Body{
		ast.Let{Identifier: ast.Identifier{Name: "a"}, Value: expr},
	}

	instructions, err := Construct(cfg.Construct(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Instruction{
		Label{ID: 0},
		Integer{To: 0, Value: 2},
		Integer{To: 1, Value: 3},
		Integer{To: 2, Value: 4},
		Multiply{To: 3, Left: 1, Right: 2},
		Add{To: 4, Left: 0, Right: 3},
		Set{Name: "a", From: 4},
		Label{ID: 1},
	}
	assertInstructions(t, instructions, want)
}

func TestConstructBranchEvaluatesConditionAtTheLink(t *testing.T) {
	body := ast.Body{
		ast.If{
			If: ast.Branch{
				Condition: ast.Binary{Kind: ast.Equal, Left: ast.Integer{Value: 1}, Right: ast.Integer{Value: 2}},
				Body:      ast.Body{ast.Debug{Value: ast.Integer{Value: 1}}},
			},
		},
	}

	instructions, err := Construct(cfg.Construct(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// block 0: empty pre-if -> block 1; block 1: empty condition -> Branch;
	// block 2: if-true body; block 3: join (empty, also the else body's
	// start); block 4: final.
	want := []Instruction{
		Label{ID: 0},
		Jump{To: 1},
		Label{ID: 1},
		Integer{To: 0, Value: 1},
		Integer{To: 1, Value: 2},
		Equal{To: 2, Left: 0, Right: 1},
		JumpIf{Condition: 2, To: 2},
		Jump{To: 3},
		Label{ID: 2},
		Integer{To: 3, Value: 1},
		Call{Label: "debug_i64", Value: 3},
		Jump{To: 3},
		Label{ID: 3},
		Label{ID: 4},
	}
	assertInstructions(t, instructions, want)
}

func TestConstructReportsLowerErrorForIfExpression(t *testing.T) {
	body := ast.Body{
		ast.Let{
			Identifier: ast.Identifier{Name: "a"},
			Value: ast.If{
				If: ast.Branch{
					Condition: ast.Boolean{Value: true},
					Body:      ast.Body{ast.Debug{Value: ast.Integer{Value: 1}}},
				},
			},
		},
	}

	_, err := Construct(cfg.Construct(body))
	ce, ok := err.(*compileerr.Error)
	if !ok {
		t.Fatalf("expected *compileerr.Error, got %T (%v)", err, err)
	}
	if ce.Kind != compileerr.LowerError {
		t.Errorf("expected LowerError, got %s", ce.Kind)
	}
}

func assertInstructions(t *testing.T, got, want []Instruction) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d instructions, got %d:\n%s", len(want), len(got), dump(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instruction %d: got %#v, want %#v", i, got[i], want[i])
		}
	}
}

func dump(instructions []Instruction) string {
	s := ""
	for _, i := range instructions {
		s += i.String() + "\n"
	}
	return s
}
