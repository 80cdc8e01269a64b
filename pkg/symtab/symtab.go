// Package symtab builds the variable and function symbol table for a
// Mellow program body and performs the language's light static checks.
package symtab

import (
	"sort"

	"github.com/mellow-lang/mellowc/pkg/ast"
	"github.com/mellow-lang/mellowc/pkg/compileerr"
)

// Type is the static type of an expression.
type Type int

const (
	I32 Type = iota
	I64
	Boolean
	String
)

func (t Type) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// VariableMeta records one variable's mutability and declared type.
type VariableMeta struct {
	Mutable bool
	Type    Type
}

// FunctionMeta records one function's calling convention.
type FunctionMeta struct {
	External bool
}

// Table holds the variable and function records for a program.
type Table struct {
	variables map[string]VariableMeta
	functions map[string]FunctionMeta
}

func newTable() *Table {
	return &Table{
		variables: make(map[string]VariableMeta),
		functions: make(map[string]FunctionMeta),
	}
}

// Variable looks up a variable record by name.
func (t *Table) Variable(name string) (VariableMeta, bool) {
	v, ok := t.variables[name]
	return v, ok
}

// Function looks up a function record by name.
func (t *Table) Function(name string) (FunctionMeta, bool) {
	f, ok := t.functions[name]
	return f, ok
}

// Names returns every declared variable name in sorted order, so callers
// that need a deterministic layout (the `.bss` section) don't depend on
// map iteration order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.variables))
	for name := range t.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Functions returns every declared function name in sorted order.
func (t *Table) Functions() []string {
	names := make([]string, 0, len(t.functions))
	for name := range t.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const minI32, maxI32 = -1 << 31, 1<<31 - 1

// typeOf computes the static type of an expression, given the variables
// visible so far.
func typeOf(t *Table, expr ast.Expression) (Type, error) {
	switch e := expr.(type) {
	case ast.Integer:
		if e.Value >= minI32 && e.Value <= maxI32 {
			return I32, nil
		}
		return I64, nil
	case ast.Boolean:
		return Boolean, nil
	case ast.Str:
		return String, nil
	case ast.Identifier:
		v, ok := t.Variable(e.Name)
		if !ok {
			return 0, compileerr.UnknownVariable(e.Name)
		}
		return v.Type, nil
	case ast.Unary:
		return typeOf(t, e.Inner)
	case ast.Binary:
		left, err := typeOf(t, e.Left)
		if err != nil {
			return 0, err
		}
		right, err := typeOf(t, e.Right)
		if err != nil {
			return 0, err
		}
		switch e.Kind {
		case ast.Equal, ast.Greater, ast.Less:
			if left != right {
				return 0, compileerr.TypeMismatch("comparison operand", left.String(), right.String())
			}
			return Boolean, nil
		default:
			if left != right {
				return 0, compileerr.TypeMismatch("arithmetic operand", left.String(), right.String())
			}
			return left, nil
		}
	case ast.If:
		cond, err := typeOf(t, e.If.Condition)
		if err != nil {
			return 0, err
		}
		if cond != Boolean {
			return 0, compileerr.TypeMismatch("conditional expression condition", "boolean", cond.String())
		}
		for _, branch := range e.Or {
			condType, err := typeOf(t, branch.Condition)
			if err != nil {
				return 0, err
			}
			if condType != Boolean {
				return 0, compileerr.TypeMismatch("conditional expression condition", "boolean", condType.String())
			}
		}
		return 0, compileerr.UnsupportedConstruct("if-expression value type")
	default:
		compileerr.Bug("typeOf: unhandled expression %T", expr)
		return 0, nil
	}
}

// checkCondition validates that an expression used as a branch discriminant
// is boolean.
func checkCondition(t *Table, cond ast.Expression) error {
	condType, err := typeOf(t, cond)
	if err != nil {
		return err
	}
	if condType != Boolean {
		return compileerr.TypeMismatch("condition", "boolean", condType.String())
	}
	return nil
}

// checkStatement walks one statement, updating the table and validating
// assignment and condition rules. It recurses into nested bodies.
func checkStatement(t *Table, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.Let:
		typ, err := typeOf(t, s.Value)
		if err != nil {
			return err
		}
		t.variables[s.Identifier.Name] = VariableMeta{Mutable: s.Mutable, Type: typ}
		return nil
	case ast.Assign:
		v, ok := t.Variable(s.Identifier.Name)
		if !ok {
			return compileerr.UnknownVariable(s.Identifier.Name)
		}
		if !v.Mutable {
			return compileerr.AssignToImmutable(s.Identifier.Name)
		}
		_, err := typeOf(t, s.Value)
		return err
	case ast.If:
		if err := checkCondition(t, s.If.Condition); err != nil {
			return err
		}
		if err := checkBody(t, s.If.Body); err != nil {
			return err
		}
		for _, branch := range s.Or {
			if err := checkCondition(t, branch.Condition); err != nil {
				return err
			}
			if err := checkBody(t, branch.Body); err != nil {
				return err
			}
		}
		if s.Else != nil {
			return checkBody(t, *s.Else)
		}
		return nil
	case ast.While:
		if err := checkCondition(t, s.Condition); err != nil {
			return err
		}
		return checkBody(t, s.Body)
	case ast.Debug:
		_, err := typeOf(t, s.Value)
		return err
	default:
		compileerr.Bug("checkStatement: unhandled statement %T", stmt)
		return nil
	}
}

func checkBody(t *Table, body ast.Body) error {
	for _, stmt := range body {
		if err := checkStatement(t, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Construct builds the symbol table for a program body, seeding the
// debug_i64 external function and walking every statement for the static
// checks described in the error taxonomy.
func Construct(body ast.Body) (*Table, error) {
	t := newTable()
	t.functions["debug_i64"] = FunctionMeta{External: true}

	if err := checkBody(t, body); err != nil {
		return nil, err
	}
	return t, nil
}
